//
// Tencent is pleased to support the open source community by making
// standards-agents available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// standards-agents is licensed under the Apache License Version 2.0.
//
//

// Package server exposes the standards agents over a small HTTP API.
package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"trpc.group/trpc-go/standards-agents/internal/registry"
)

const (
	appName        = "Standards Agents API"
	appVersion     = "1.0.0"
	appDescription = "API for Safety and Quality Standards Agents"
)

// Server routes ask requests to the pre-built agent handles in the registry.
type Server struct {
	registry *registry.Registry
	router   *mux.Router
}

// New creates the HTTP server on top of an already constructed registry.
func New(reg *registry.Registry) *Server {
	s := &Server{
		registry: reg,
		router:   mux.NewRouter(),
	}

	// Add CORS middleware so browser clients can call the API directly.
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
	})
	s.router.Use(c.Handler)
	s.registerRoutes()
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	// Info APIs.
	s.router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/config", s.handleConfig).Methods(http.MethodGet)

	// Ask APIs.
	s.router.HandleFunc("/safety/ask", s.handleAskSafety).Methods(http.MethodPost)
	s.router.HandleFunc("/quality/ask", s.handleAskQuality).Methods(http.MethodPost)
	s.router.HandleFunc("/team/ask", s.handleAskTeam).Methods(http.MethodPost)

	// OPTIONS handlers to allow CORS pre-flight.
	preflight := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	s.router.HandleFunc("/safety/ask", preflight).Methods(http.MethodOptions)
	s.router.HandleFunc("/quality/ask", preflight).Methods(http.MethodOptions)
	s.router.HandleFunc("/team/ask", preflight).Methods(http.MethodOptions)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]any{
		"name":        appName,
		"version":     appVersion,
		"description": appDescription,
		"endpoints": map[string]string{
			"POST /safety/ask":  "Ask a question to the Safety Standards Agent",
			"POST /quality/ask": "Ask a question to the Quality Standards Agent",
			"POST /team/ask":    "Ask a question to the Team Agent (combines both agents)",
			"GET /health":       "Health check",
			"GET /config":       "View configuration without contacting upstream services",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]any{
		"status": "ok",
		"agents": s.registry.AgentNames(),
	})
}

// handleConfig reports startup configuration for diagnostics. Secrets are
// reduced to set/unset booleans.
func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]any{
		"vector_store":       s.registry.VectorStoreKind(),
		"openai_api_key_set": s.registry.ModelProviderConfigured(),
		"default_model_id":   s.registry.DefaultModelID(),
		"model_ids":          s.registry.ModelIDs(),
		"team_modes":         registry.TeamModes(),
	})
}
