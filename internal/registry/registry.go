//
// Tencent is pleased to support the open source community by making
// standards-agents available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// standards-agents is licensed under the Apache License Version 2.0.
//
//

// Package registry builds and owns the long-lived agent handles.
//
// The registry is constructed once at startup from environment configuration
// and is immutable afterwards: concurrent requests resolve handles without
// locking, and per-request choices (model, team mode) are expressed through
// run options or handle selection, never through mutation of a shared agent.
package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-agent-go/agent"
	"trpc.group/trpc-go/trpc-agent-go/event"
	"trpc.group/trpc-go/trpc-agent-go/knowledge"
	openaiembedder "trpc.group/trpc-go/trpc-agent-go/knowledge/embedder/openai"
	"trpc.group/trpc-go/trpc-agent-go/log"
	"trpc.group/trpc-go/trpc-agent-go/model"
	"trpc.group/trpc-go/trpc-agent-go/model/openai"
	"trpc.group/trpc-go/trpc-agent-go/runner"
	"trpc.group/trpc-go/trpc-agent-go/session"
	sessioninmemory "trpc.group/trpc-go/trpc-agent-go/session/inmemory"

	"trpc.group/trpc-go/standards-agents/internal/config"
)

// Domain selects one of the pre-built agents.
type Domain int

// The closed set of domains. There is no string-keyed dispatch; handlers
// reference these constants directly.
const (
	DomainSafety Domain = iota
	DomainQuality
	DomainTeam
)

// String returns the lower-case domain name used in logs and runner app names.
func (d Domain) String() string {
	switch d {
	case DomainSafety:
		return "safety"
	case DomainQuality:
		return "quality"
	case DomainTeam:
		return "team"
	default:
		return fmt.Sprintf("domain(%d)", int(d))
	}
}

// TeamMode controls how the team agent coordinates its members.
type TeamMode int

// The closed set of team modes. The zero value is the default mode.
const (
	TeamModeCollaborate TeamMode = iota
	TeamModeRoute
	TeamModeCoordinate
)

// String returns the wire token for the mode.
func (m TeamMode) String() string {
	switch m {
	case TeamModeCollaborate:
		return "collaborate"
	case TeamModeRoute:
		return "route"
	case TeamModeCoordinate:
		return "coordinate"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// TeamModes lists the accepted wire tokens in sorted order.
func TeamModes() []string {
	modes := []string{
		TeamModeCollaborate.String(),
		TeamModeRoute.String(),
		TeamModeCoordinate.String(),
	}
	sort.Strings(modes)
	return modes
}

// ParseTeamMode converts a wire token into a TeamMode.
func ParseTeamMode(s string) (TeamMode, error) {
	switch s {
	case TeamModeCollaborate.String():
		return TeamModeCollaborate, nil
	case TeamModeRoute.String():
		return TeamModeRoute, nil
	case TeamModeCoordinate.String():
		return TeamModeCoordinate, nil
	default:
		return TeamModeCollaborate, fmt.Errorf("Invalid team mode: %q. Must be one of: %s",
			s, strings.Join(TeamModes(), ", "))
	}
}

// askUserID scopes sessions created by Ask. The service has no user concept;
// every request runs as the same principal in a fresh session.
const askUserID = "user"

// Handle pairs a pre-built agent with the runner that executes it.
type Handle struct {
	name   string
	runner runner.Runner
}

// Name returns the handle's runner app name.
func (h *Handle) Name() string { return h.name }

// Ask submits a single question and returns the agent's event stream. Each
// call runs in a fresh session so requests stay stateless and isolated; the
// caller's context cancels the upstream work when the client goes away.
func (h *Handle) Ask(ctx context.Context, query string, opts ...agent.RunOption) (<-chan *event.Event, error) {
	return h.runner.Run(ctx, askUserID, uuid.NewString(), model.NewUserMessage(query), opts...)
}

type namedKnowledge struct {
	name string
	kb   *knowledge.BuiltinKnowledge
}

// Registry holds every long-lived handle plus the model registry shared by
// all agents. Immutable after New.
type Registry struct {
	defaultModelID string
	modelIDs       []string
	models         map[string]model.Model

	safety  *Handle
	quality *Handle
	team    map[TeamMode]*Handle

	sessionSvc     session.Service
	knowledgeBases []namedKnowledge

	storeKind      string
	providerKeySet bool
}

// New constructs the registry: the shared model registry, one knowledge base
// per domain, the safety and quality agents, and one pre-built team handle
// per team mode. Construction is pure wiring; nothing dials out until a
// handle runs or LoadKnowledge is called.
func New(cfg *config.Config, opts ...Option) (*Registry, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	models, modelIDs := newModelRegistry(cfg)
	defaultModel := models[cfg.DefaultModelID]

	emb := openaiembedder.New(openaiembedder.WithModel(cfg.EmbedderModel))

	safetyKB, err := newKnowledgeBase(cfg, emb, cfg.SafetyTable, cfg.SafetyDocsDir, "Safety Standards Library")
	if err != nil {
		return nil, fmt.Errorf("safety knowledge base: %w", err)
	}
	qualityKB, err := newKnowledgeBase(cfg, emb, cfg.QualityTable, cfg.QualityDocsDir, "Quality Standards Library")
	if err != nil {
		return nil, fmt.Errorf("quality knowledge base: %w", err)
	}

	sessionSvc := sessioninmemory.NewSessionService()

	r := &Registry{
		defaultModelID: cfg.DefaultModelID,
		modelIDs:       modelIDs,
		models:         models,
		team:           make(map[TeamMode]*Handle, 3),
		sessionSvc:     sessionSvc,
		knowledgeBases: []namedKnowledge{
			{name: DomainSafety.String(), kb: safetyKB},
			{name: DomainQuality.String(), kb: qualityKB},
		},
		storeKind:      cfg.VectorStore,
		providerKeySet: cfg.OpenAIAPIKey != "",
	}

	safetyAg := o.safety
	if safetyAg == nil {
		safetyAg = newDomainAgent(safetyAgentName, safetyInstruction, safetyDescription, models, defaultModel, safetyKB)
	}
	r.safety = newHandle(DomainSafety.String(), safetyAg, sessionSvc)

	qualityAg := o.quality
	if qualityAg == nil {
		qualityAg = newDomainAgent(qualityAgentName, qualityInstruction, qualityDescription, models, defaultModel, qualityKB)
	}
	r.quality = newHandle(DomainQuality.String(), qualityAg, sessionSvc)

	for _, mode := range []TeamMode{TeamModeCollaborate, TeamModeRoute, TeamModeCoordinate} {
		ta := o.team[mode]
		if ta == nil {
			var err error
			ta, err = newTeamAgent(mode, models, defaultModel, safetyKB, qualityKB)
			if err != nil {
				return nil, fmt.Errorf("build %s team: %w", mode, err)
			}
		}
		r.team[mode] = newHandle(DomainTeam.String()+"-"+mode.String(), ta, sessionSvc)
	}
	return r, nil
}

func newHandle(appName string, ag agent.Agent, svc session.Service) *Handle {
	return &Handle{
		name:   appName,
		runner: runner.NewRunner(appName, ag, runner.WithSessionService(svc)),
	}
}

// newModelRegistry builds one model handle per configured id. The default id
// is always registered.
func newModelRegistry(cfg *config.Config) (map[string]model.Model, []string) {
	models := make(map[string]model.Model)
	for _, id := range append([]string{cfg.DefaultModelID}, cfg.ModelIDs...) {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := models[id]; ok {
			continue
		}
		models[id] = openai.New(id)
	}
	ids := make([]string, 0, len(models))
	for id := range models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return models, ids
}

// Handle resolves the pre-built handle for a domain. For DomainTeam the mode
// selects among the per-mode handles; it is ignored otherwise.
func (r *Registry) Handle(domain Domain, mode TeamMode) (*Handle, error) {
	switch domain {
	case DomainSafety:
		return r.safety, nil
	case DomainQuality:
		return r.quality, nil
	case DomainTeam:
		h, ok := r.team[mode]
		if !ok {
			return nil, fmt.Errorf("no team handle for mode %s", mode)
		}
		return h, nil
	default:
		return nil, fmt.Errorf("unknown domain %s", domain)
	}
}

// EffectiveModelID reports the model id a run with the given request value
// actually uses: the requested id when it is registered, the default
// otherwise. This mirrors the SDK's own fallback for unknown model names.
func (r *Registry) EffectiveModelID(requested string) string {
	if requested == "" {
		return r.defaultModelID
	}
	if _, ok := r.models[requested]; ok {
		return requested
	}
	return r.defaultModelID
}

// DefaultModelID returns the configured default model id.
func (r *Registry) DefaultModelID() string { return r.defaultModelID }

// ModelIDs returns the registered model ids in sorted order.
func (r *Registry) ModelIDs() []string {
	out := make([]string, len(r.modelIDs))
	copy(out, r.modelIDs)
	return out
}

// AgentNames lists the exposed agent domains.
func (r *Registry) AgentNames() []string {
	return []string{DomainSafety.String(), DomainQuality.String(), DomainTeam.String()}
}

// VectorStoreKind returns the configured vector store kind.
func (r *Registry) VectorStoreKind() string { return r.storeKind }

// ModelProviderConfigured reports whether the model provider credential was
// present at startup. The value itself is never exposed.
func (r *Registry) ModelProviderConfigured() bool { return r.providerKeySet }

// LoadKnowledge ingests the configured document directories into the vector
// store. Called on demand at startup; the serving path never triggers it.
func (r *Registry) LoadKnowledge(ctx context.Context) error {
	for _, nk := range r.knowledgeBases {
		log.Infof("loading %s documents into knowledge base", nk.name)
		if err := nk.kb.Load(ctx); err != nil {
			return fmt.Errorf("load %s knowledge: %w", nk.name, err)
		}
		log.Infof("%s documents loaded", nk.name)
	}
	return nil
}

// Close releases every runner and the shared session service. Safe to call
// once at shutdown.
func (r *Registry) Close() error {
	var firstErr error
	handles := []*Handle{r.safety, r.quality}
	for _, h := range r.team {
		handles = append(handles, h)
	}
	for _, h := range handles {
		if h == nil {
			continue
		}
		if err := h.runner.Close(); err != nil {
			log.Errorf("close runner %s: %v", h.name, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if r.sessionSvc != nil {
		if err := r.sessionSvc.Close(); err != nil {
			log.Errorf("close session service: %v", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
