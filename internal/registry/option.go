//
// Tencent is pleased to support the open source community by making
// standards-agents available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// standards-agents is licensed under the Apache License Version 2.0.
//
//

package registry

import (
	"trpc.group/trpc-go/trpc-agent-go/agent"
)

// Option customizes registry construction.
type Option func(*options)

type options struct {
	safety  agent.Agent
	quality agent.Agent
	team    map[TeamMode]agent.Agent
}

// WithSafetyAgent replaces the built-in safety agent. The replacement runs
// through the standard runner-backed handle path.
func WithSafetyAgent(a agent.Agent) Option {
	return func(o *options) { o.safety = a }
}

// WithQualityAgent replaces the built-in quality agent.
func WithQualityAgent(a agent.Agent) Option {
	return func(o *options) { o.quality = a }
}

// WithTeamAgent replaces the built-in team agent for a single mode. Modes
// without a replacement keep the built-in team.
func WithTeamAgent(mode TeamMode, a agent.Agent) Option {
	return func(o *options) {
		if o.team == nil {
			o.team = make(map[TeamMode]agent.Agent, 3)
		}
		o.team[mode] = a
	}
}
