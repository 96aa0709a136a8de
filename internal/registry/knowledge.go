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
	"fmt"
	"net/url"

	"trpc.group/trpc-go/trpc-agent-go/knowledge"
	"trpc.group/trpc-go/trpc-agent-go/knowledge/embedder"
	"trpc.group/trpc-go/trpc-agent-go/knowledge/source"
	"trpc.group/trpc-go/trpc-agent-go/knowledge/source/dir"
	"trpc.group/trpc-go/trpc-agent-go/knowledge/vectorstore"
	"trpc.group/trpc-go/trpc-agent-go/knowledge/vectorstore/elasticsearch"
	"trpc.group/trpc-go/trpc-agent-go/knowledge/vectorstore/inmemory"
	"trpc.group/trpc-go/trpc-agent-go/knowledge/vectorstore/pgvector"
	"trpc.group/trpc-go/trpc-agent-go/knowledge/vectorstore/tcvector"

	"trpc.group/trpc-go/standards-agents/internal/config"
)

// newKnowledgeBase wires one domain's document directory, the shared
// embedder, and a per-domain vector store table into a knowledge base.
// Documents are only read when LoadKnowledge runs; the serving path queries
// whatever the store already holds.
func newKnowledgeBase(
	cfg *config.Config,
	emb embedder.Embedder,
	table string,
	docsDir string,
	name string,
) (*knowledge.BuiltinKnowledge, error) {
	vs, err := newVectorStore(cfg, table)
	if err != nil {
		return nil, err
	}
	src := dir.New(
		[]string{docsDir},
		dir.WithName(name),
		dir.WithFileExtensions([]string{".pdf"}),
		dir.WithRecursive(true),
	)
	return knowledge.New(
		knowledge.WithVectorStore(vs),
		knowledge.WithEmbedder(emb),
		knowledge.WithSources([]source.Source{src}),
	), nil
}

// newVectorStore creates the configured vector store bound to one table
// (collection or index, depending on the backend).
func newVectorStore(cfg *config.Config, table string) (vectorstore.VectorStore, error) {
	switch cfg.VectorStore {
	case config.VectorStorePGVector:
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			url.QueryEscape(cfg.PGVectorUser),
			url.QueryEscape(cfg.PGVectorPassword),
			cfg.PGVectorHost,
			cfg.PGVectorPort,
			cfg.PGVectorDatabase,
		)
		return pgvector.New(
			pgvector.WithPGVectorClientDSN(dsn),
			pgvector.WithTable(table),
		)
	case config.VectorStoreTCVector:
		return tcvector.New(
			tcvector.WithURL(cfg.TCVectorURL),
			tcvector.WithUsername(cfg.TCVectorUsername),
			tcvector.WithPassword(cfg.TCVectorPassword),
			tcvector.WithCollection(table),
			tcvector.WithFilterAll(true),
		)
	case config.VectorStoreElasticsearch:
		return elasticsearch.New(
			elasticsearch.WithAddresses(cfg.ElasticsearchHosts),
			elasticsearch.WithUsername(cfg.ElasticsearchUsername),
			elasticsearch.WithPassword(cfg.ElasticsearchPassword),
			elasticsearch.WithIndexName(table),
			elasticsearch.WithVersion(cfg.ElasticsearchVersion),
		)
	case config.VectorStoreInMemory:
		return inmemory.New(), nil
	default:
		return nil, fmt.Errorf("unknown vector store %q", cfg.VectorStore)
	}
}
