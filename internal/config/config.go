//
// Tencent is pleased to support the open source community by making
// standards-agents available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// standards-agents is licensed under the Apache License Version 2.0.
//
//

// Package config loads the service configuration from environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Vector store kinds accepted by VECTOR_STORE.
const (
	VectorStoreInMemory      = "inmemory"
	VectorStorePGVector      = "pgvector"
	VectorStoreTCVector      = "tcvector"
	VectorStoreElasticsearch = "elasticsearch"
)

// Config holds all environment-supplied settings. Credentials are consumed
// once at startup and handed to the agent SDK; they are never echoed back.
type Config struct {
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port int    `env:"PORT" envDefault:"8080"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// DefaultModelID is used when a request does not name a model. ModelIDs
	// extends the set of models selectable per request via model_id.
	DefaultModelID string   `env:"DEFAULT_MODEL_ID" envDefault:"o3-mini"`
	ModelIDs       []string `env:"MODEL_IDS" envSeparator:","`

	// OpenAIAPIKey is read by the model SDK itself; it is kept here only so
	// the diagnostics endpoint can report whether it is set.
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`

	EmbedderModel string `env:"EMBEDDER_MODEL" envDefault:"text-embedding-3-small"`

	VectorStore string `env:"VECTOR_STORE" envDefault:"inmemory"`

	PGVectorHost     string `env:"PGVECTOR_HOST" envDefault:"127.0.0.1"`
	PGVectorPort     int    `env:"PGVECTOR_PORT" envDefault:"5432"`
	PGVectorUser     string `env:"PGVECTOR_USER" envDefault:"root"`
	PGVectorPassword string `env:"PGVECTOR_PASSWORD"`
	PGVectorDatabase string `env:"PGVECTOR_DATABASE" envDefault:"vectordb"`

	TCVectorURL      string `env:"TCVECTOR_URL"`
	TCVectorUsername string `env:"TCVECTOR_USERNAME"`
	TCVectorPassword string `env:"TCVECTOR_PASSWORD"`

	ElasticsearchHosts    []string `env:"ELASTICSEARCH_HOSTS" envSeparator:"," envDefault:"http://localhost:9200"`
	ElasticsearchUsername string   `env:"ELASTICSEARCH_USERNAME"`
	ElasticsearchPassword string   `env:"ELASTICSEARCH_PASSWORD"`
	ElasticsearchVersion  string   `env:"ELASTICSEARCH_VERSION" envDefault:"v8"`

	// Per-domain table (or collection/index) names and document roots.
	SafetyTable    string `env:"SAFETY_TABLE" envDefault:"safety_standards"`
	QualityTable   string `env:"QUALITY_TABLE" envDefault:"quality_standards"`
	SafetyDocsDir  string `env:"SAFETY_DOCS_DIR" envDefault:"data/pdfs"`
	QualityDocsDir string `env:"QUALITY_DOCS_DIR" envDefault:"data/quality-pdfs"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.DefaultModelID = strings.TrimSpace(cfg.DefaultModelID)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that would otherwise surface as obscure failures
// deep inside the agent SDK.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT %d out of range", c.Port)
	}
	if strings.TrimSpace(c.DefaultModelID) == "" {
		return fmt.Errorf("DEFAULT_MODEL_ID must not be empty")
	}
	switch c.VectorStore {
	case VectorStoreInMemory, VectorStorePGVector:
	case VectorStoreTCVector:
		if c.TCVectorURL == "" || c.TCVectorUsername == "" || c.TCVectorPassword == "" {
			return fmt.Errorf("TCVECTOR_URL, TCVECTOR_USERNAME, and TCVECTOR_PASSWORD are required")
		}
	case VectorStoreElasticsearch:
		if len(c.ElasticsearchHosts) == 0 {
			return fmt.Errorf("ELASTICSEARCH_HOSTS is required")
		}
	default:
		return fmt.Errorf("unknown VECTOR_STORE %q (expected %s)", c.VectorStore,
			strings.Join([]string{
				VectorStoreInMemory,
				VectorStorePGVector,
				VectorStoreTCVector,
				VectorStoreElasticsearch,
			}, "|"))
	}
	return nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
