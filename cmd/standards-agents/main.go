//
// Tencent is pleased to support the open source community by making
// standards-agents available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// standards-agents is licensed under the Apache License Version 2.0.
//
//

// Command standards-agents serves the Safety and Quality Standards Agents API.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trpc.group/trpc-go/trpc-agent-go/log"

	"trpc.group/trpc-go/standards-agents/internal/config"
	"trpc.group/trpc-go/standards-agents/internal/registry"
	"trpc.group/trpc-go/standards-agents/internal/server"
)

var (
	addr          = flag.String("addr", "", "Listen address, overrides HOST and PORT")
	loadKnowledge = flag.Bool("load-knowledge", false, "Ingest the configured document directories before serving")
)

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("standards-agents: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.SetLevel(cfg.LogLevel)

	reg, err := registry.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := reg.Close(); err != nil {
			log.Errorf("close registry: %v", err)
		}
	}()

	if *loadKnowledge {
		if err := reg.LoadKnowledge(ctx); err != nil {
			return err
		}
	}

	listenAddr := cfg.Addr()
	if *addr != "" {
		listenAddr = *addr
	}

	// No write timeout: responses wait on the upstream model call and the
	// client decides how long it is willing to wait.
	srv := &http.Server{
		Addr:        listenAddr,
		Handler:     server.New(reg).Handler(),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	// Shutdown when the context is cancelled.
	go func() {
		<-ctx.Done()
		log.Infof("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infof("standards agents listening on %s (vector store %s, default model %s)",
		listenAddr, cfg.VectorStore, cfg.DefaultModelID)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
