//
// Tencent is pleased to support the open source community by making
// standards-agents available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// standards-agents is licensed under the Apache License Version 2.0.
//
//

package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"trpc.group/trpc-go/trpc-agent-go/agent"
	"trpc.group/trpc-go/trpc-agent-go/event"
	"trpc.group/trpc-go/trpc-agent-go/log"
	"trpc.group/trpc-go/trpc-agent-go/model"

	"trpc.group/trpc-go/standards-agents/internal/registry"
)

// askRequest is the body of the POST ask endpoints. model_id and team_mode
// are optional; team_mode is only consulted on /team/ask.
type askRequest struct {
	Query    string  `json:"query"`
	ModelID  *string `json:"model_id,omitempty"`
	TeamMode *string `json:"team_mode,omitempty"`
}

// askResponse echoes the question alongside the answer and the model that
// effectively served the request.
type askResponse struct {
	Query   string `json:"query"`
	Answer  string `json:"answer"`
	ModelID string `json:"model_id"`
}

func (s *Server) handleAskSafety(w http.ResponseWriter, r *http.Request) {
	s.handleAsk(w, r, registry.DomainSafety)
}

func (s *Server) handleAskQuality(w http.ResponseWriter, r *http.Request) {
	s.handleAsk(w, r, registry.DomainQuality)
}

func (s *Server) handleAskTeam(w http.ResponseWriter, r *http.Request) {
	s.handleAsk(w, r, registry.DomainTeam)
}

// handleAsk validates the request, dispatches it to the matching agent handle
// and adapts the event stream into the response envelope. Validation happens
// before any upstream call.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request, domain registry.Domain) {
	defer func() { _ = r.Body.Close() }()

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, newValidationError("body", "request body must be a JSON object"))
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.writeError(w, r, newValidationError("query", "query must not be empty"))
		return
	}

	var opts []agent.RunOption
	var modelID string
	if req.ModelID != nil {
		modelID = strings.TrimSpace(*req.ModelID)
		if modelID == "" {
			s.writeError(w, r, newValidationError("model_id", "model_id must not be blank when provided"))
			return
		}
		opts = append(opts, agent.WithModelName(modelID))
	}

	mode := registry.TeamModeCollaborate
	if domain == registry.DomainTeam && req.TeamMode != nil {
		m, err := registry.ParseTeamMode(strings.TrimSpace(*req.TeamMode))
		if err != nil {
			s.writeError(w, r, newValidationError("team_mode", err.Error()))
			return
		}
		mode = m
	}

	h, err := s.registry.Handle(domain, mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	log.Infof("ask request: path=%s agent=%s", r.URL.Path, h.Name())
	ch, err := h.Ask(r.Context(), req.Query, opts...)
	if err != nil {
		s.writeError(w, r, newUpstreamError("dispatch to %s failed: %v", h.Name(), err))
		return
	}
	answer, err := collectAnswer(ch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, askResponse{
		Query:   req.Query,
		Answer:  answer,
		ModelID: s.registry.EffectiveModelID(modelID),
	})
}

// collectAnswer drains the event stream and extracts the final text answer.
// Multi-agent runs emit several completed messages (tool calls, transfers,
// member replies); the last non-empty assistant message wins. Streamed deltas
// are kept as a fallback for models that only produce partial events.
func collectAnswer(ch <-chan *event.Event) (string, error) {
	var answer string
	var deltas strings.Builder
	for ev := range ch {
		if ev == nil || ev.Response == nil {
			continue
		}
		if ev.Error != nil {
			return "", newUpstreamError("agent error: %s", ev.Error.Message)
		}
		if ev.Object == model.ObjectTypeToolResponse || ev.Object == model.ObjectTypeTransfer {
			continue
		}
		if len(ev.Choices) == 0 {
			continue
		}
		choice := ev.Choices[0]
		if ev.IsPartial {
			deltas.WriteString(choice.Delta.Content)
			continue
		}
		if choice.Message.Content != "" {
			answer = choice.Message.Content
		}
	}
	if answer == "" {
		answer = deltas.String()
	}
	if strings.TrimSpace(answer) == "" {
		return "", newUpstreamError("agent returned an empty response")
	}
	return answer, nil
}
