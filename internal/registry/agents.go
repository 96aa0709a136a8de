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
	"strings"

	"trpc.group/trpc-go/trpc-agent-go/agent"
	"trpc.group/trpc-go/trpc-agent-go/agent/llmagent"
	"trpc.group/trpc-go/trpc-agent-go/knowledge"
	"trpc.group/trpc-go/trpc-agent-go/model"
	"trpc.group/trpc-go/trpc-agent-go/team"
)

const (
	safetyAgentName  = "safety-agent"
	qualityAgentName = "quality-agent"
	teamAgentName    = "standards-team"
	routerAgentName  = "standards-router"

	safetyInstruction = "You are an expert on safety standards and protocols. " +
		"Always provide your response in a concise manner based on the " +
		"information provided in the documents."
	qualityInstruction = "You are an expert on quality standards and quality " +
		"assurance processes. Always provide your response in a concise " +
		"manner based on the information provided in the documents."

	safetyDescription = "Expert on safety standards and protocols: workplace " +
		"safety, hazard prevention, fire safety, electrical safety, noise " +
		"standards, fall prevention."
	qualityDescription = "Expert on quality standards and quality assurance: " +
		"quality control, cross-contamination prevention, personnel hygiene, " +
		"utilities quality."
)

// teamModeProfile carries the per-mode coordinator description and working
// steps the coordinator follows.
type teamModeProfile struct {
	description string
	steps       []string
}

var teamModeProfiles = map[TeamMode]teamModeProfile{
	TeamModeCollaborate: {
		description: "You are a collaborative team where all members work on " +
			"the same task to create comprehensive responses.",
		steps: []string{
			"First determine whether the question is primarily about safety standards or quality standards.",
			"For safety questions (workplace safety, hazard prevention, fire safety, electrical safety, etc.), primarily rely on the safety agent.",
			"For quality questions (quality assurance, cross-contamination prevention, personnel hygiene, etc.), primarily rely on the quality agent.",
			"Synthesize a comprehensive response based on contributions from all experts.",
			"Always identify which expert provided which information in your response.",
			"If the question is completely unrelated to either safety or quality standards, respond that you can only answer questions related to safety and quality standards.",
		},
	},
	TeamModeRoute: {
		description: "You are a router that directs questions to the " +
			"appropriate standards agent.",
		steps: []string{
			"Analyze the user's question to determine if it's about safety standards or quality standards.",
			"If the question is about safety protocols, workplace safety, hazard prevention, fire safety, electrical safety, noise standards, fall prevention, etc., route to the safety agent.",
			"If the question is about quality assurance, quality control, cross-contamination prevention, personnel hygiene, utilities quality, etc., route to the quality agent.",
			"If the question could apply to both domains, prioritize routing based on the most relevant expertise needed.",
			"Always provide a brief explanation of why you're routing to a particular agent before routing.",
			"If the question is completely unrelated to either safety or quality standards, respond that you can only answer questions related to safety and quality standards.",
		},
	},
	TeamModeCoordinate: {
		description: "You are a coordinator that delegates tasks to team " +
			"members and synthesizes their outputs.",
		steps: []string{
			"Break down the user's question into specific sub-tasks for each relevant team member.",
			"Delegate safety-related aspects (workplace safety, hazard prevention, fire safety, etc.) to the safety agent.",
			"Delegate quality-related aspects (quality assurance, hygiene, contamination prevention, etc.) to the quality agent.",
			"Synthesize the responses from each team member into a cohesive answer.",
			"Ensure the final response is comprehensive and addresses all aspects of the question.",
			"If the question is completely unrelated to either safety or quality standards, respond that you can only answer questions related to safety and quality standards.",
		},
	},
}

// coordinatorInstruction renders the mode profile into a single system
// instruction. The tool hint matches how the team package exposes members.
func coordinatorInstruction(mode TeamMode) string {
	p := teamModeProfiles[mode]
	var b strings.Builder
	b.WriteString(p.description)
	if mode == TeamModeRoute {
		b.WriteString(" Transfer each question to exactly one member agent.\n")
	} else {
		b.WriteString(" You can call member agents as tools; tool names match agent names.\n")
	}
	for _, step := range p.steps {
		b.WriteString("- ")
		b.WriteString(step)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func generationConfig() model.GenerationConfig {
	return model.GenerationConfig{
		MaxTokens:   intPtr(2000),
		Temperature: floatPtr(0.7),
		Stream:      false,
	}
}

// newDomainAgent builds one knowledge-backed expert agent. The shared model
// registry lets a run select any registered model by name.
func newDomainAgent(
	name string,
	instruction string,
	description string,
	models map[string]model.Model,
	defaultModel model.Model,
	kb *knowledge.BuiltinKnowledge,
) agent.Agent {
	return llmagent.New(
		name,
		llmagent.WithModel(defaultModel),
		llmagent.WithModels(models),
		llmagent.WithGenerationConfig(generationConfig()),
		llmagent.WithDescription(description),
		llmagent.WithInstruction(instruction),
		llmagent.WithKnowledge(kb),
	)
}

// newTeamAgent builds the team handle for one mode. Collaborate and
// coordinate use a coordinator that calls both members as tools; route uses
// sub-agent transfer so exactly one member answers. Each team gets fresh
// member agents so no state is shared across handles.
func newTeamAgent(
	mode TeamMode,
	models map[string]model.Model,
	defaultModel model.Model,
	safetyKB *knowledge.BuiltinKnowledge,
	qualityKB *knowledge.BuiltinKnowledge,
) (agent.Agent, error) {
	members := []agent.Agent{
		newDomainAgent(safetyAgentName, safetyInstruction, safetyDescription, models, defaultModel, safetyKB),
		newDomainAgent(qualityAgentName, qualityInstruction, qualityDescription, models, defaultModel, qualityKB),
	}
	p := teamModeProfiles[mode]

	if mode == TeamModeRoute {
		return llmagent.New(
			routerAgentName,
			llmagent.WithModel(defaultModel),
			llmagent.WithModels(models),
			llmagent.WithGenerationConfig(generationConfig()),
			llmagent.WithDescription(p.description),
			llmagent.WithInstruction(coordinatorInstruction(mode)),
			llmagent.WithSubAgents(members),
		), nil
	}

	coordinator := llmagent.New(
		teamAgentName,
		llmagent.WithModel(defaultModel),
		llmagent.WithModels(models),
		llmagent.WithGenerationConfig(generationConfig()),
		llmagent.WithDescription(p.description),
		llmagent.WithInstruction(coordinatorInstruction(mode)),
	)
	return team.New(coordinator, members, team.WithDescription(p.description))
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
