package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/noteqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/noteqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/noteqa/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/noteqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/noteqa/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/noteqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/noteqa/internal/connectors/notestore"
	"github.com/custodia-labs/noteqa/internal/connectors/vault"
	"github.com/custodia-labs/noteqa/internal/core/ports/driven"
	"github.com/custodia-labs/noteqa/internal/core/services"
	"github.com/custodia-labs/noteqa/internal/logger"
)

// bootstrap loads configuration and wires the services a command needs.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.App, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home directory: %w", err)
	}

	loader, err := file.NewConfigLoader(opts.ConfigPath, home)
	if err != nil {
		return nil, err
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	app := &cli.App{Config: cfg, Close: closeAll}

	var adapters []driven.SourceAdapter
	if cfg.Vault.Enabled {
		vc, err := vault.New(cfg.Vault)
		if err != nil {
			return nil, err
		}
		closers = append(closers, vc.Close)
		adapters = append(adapters, vc)
		app.Watch = func(ctx context.Context) (<-chan struct{}, error) {
			return vc.Watch(ctx, vault.DefaultDebounce)
		}
	}
	if cfg.Notes.Enabled {
		adapters = append(adapters, notestore.New(cfg.Notes, home))
	}

	fingerprints := jsonfile.NewFingerprintStore(cfg.Data.FingerprintPath())

	if opts.DryRun {
		seed, err := fingerprints.Load(ctx)
		if err != nil {
			closeAll() //nolint:errcheck // already failing
			return nil, err
		}
		app.Indexer = services.NewIndexingPipeline(adapters, memory.NewIndex(), memory.NewFingerprintStore(seed))
		return app, nil
	}

	aiServices, err := ai.Init(cfg)
	if err != nil {
		closeAll() //nolint:errcheck // already failing
		return nil, err
	}
	closers = append(closers, func() error {
		aiServices.Close()
		return nil
	})

	index, err := sqlite.NewIndex(cfg.Data.IndexPath(), aiServices.EmbeddingService)
	if err != nil {
		closeAll() //nolint:errcheck // already failing
		return nil, fmt.Errorf("open index: %w", err)
	}
	closers = append(closers, index.Close)

	orchestrator := services.NewQueryOrchestrator(index, aiServices.LLMService, cfg.Query, cfg.LLM.Temperature)
	if prompts, err := file.NewPromptStore(""); err != nil {
		logger.Warn("Using the built-in system prompt: %v", err)
	} else {
		orchestrator.SetPromptStore(prompts)
	}

	validator := ai.NewConfigValidator()
	app.Indexer = services.NewIndexingPipeline(adapters, index, fingerprints)
	app.Query = orchestrator
	app.Checks = []cli.HealthCheck{
		{Name: "embedding (" + aiServices.EmbeddingService.ModelName() + ")", Run: func(ctx context.Context) error {
			return validator.ValidateEmbedding(ctx, aiServices.EmbeddingService)
		}},
		{Name: "llm (" + aiServices.LLMService.ModelName() + ")", Run: func(ctx context.Context) error {
			return validator.ValidateLLM(ctx, aiServices.LLMService)
		}},
	}
	return app, nil
}
