// Command catalogo answers questions about a PDF product catalog.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/catalogo-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/catalogo-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/catalogo-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/catalogo-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/catalogo-cli/internal/app"
	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/catalogo-cli/internal/core/services"
	"github.com/custodia-labs/catalogo-cli/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetSetup(setup)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// setup wires the file-backed settings and the catalog runtime.
func setup(opts cli.GlobalOptions) (cli.Dependencies, error) {
	store, err := openConfig(opts)
	if err != nil {
		return cli.Dependencies{}, fmt.Errorf("open config: %w", err)
	}

	settings := services.NewSettingsService(store, ai.NewConfigValidator())

	// GetPipelineConfig also applies chunker.separators and pipeline.<stage>.* keys.
	return cli.Dependencies{
		Settings: settings,
		Start: func(ctx context.Context, s domain.AppSettings, withLLM bool) (*cli.Session, error) {
			return startSession(ctx, s, settings.GetPipelineConfig(), withLLM)
		},
		Preview: func(ctx context.Context, s domain.AppSettings) (*domain.Document, []domain.Chunk, error) {
			return app.Preview(ctx, s, settings.GetPipelineConfig(), nil)
		},
	}, nil
}

// openConfig picks the settings backend. --no-config keeps everything in
// memory so only defaults, flags and the environment apply.
func openConfig(opts cli.GlobalOptions) (driven.ConfigStore, error) {
	if opts.NoConfig {
		logger.Debug("Config file disabled")
		return memory.NewConfigStore(), nil
	}

	var (
		store *file.ConfigStore
		err   error
	)
	if opts.ConfigPath != "" {
		store, err = file.NewConfigStoreAt(opts.ConfigPath)
	} else {
		store, err = file.NewConfigStore("")
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("Config file: %s", store.Path())
	return store, nil
}

func startSession(
	ctx context.Context,
	settings domain.AppSettings,
	pipeline domain.PipelineConfig,
	withLLM bool,
) (*cli.Session, error) {
	prompts, err := file.NewPromptStore(settings.Prompts.Dir)
	if err != nil {
		return nil, err
	}
	watcher := watchPrompts(ctx, prompts)

	rt, err := app.Start(ctx, settings, pipeline, prompts, app.Options{WithLLM: withLLM})
	if err != nil {
		closeWatcher(watcher)
		return nil, err
	}

	return &cli.Session{
		Ask:     rt.Ask,
		Catalog: rt.Store,
		Report:  rt.Report,
		Close: func() {
			closeWatcher(watcher)
			rt.Close()
		},
	}, nil
}

// watchPrompts reloads prompt templates edited while a session runs.
// The store is loaded once first so its directory exists.
func watchPrompts(ctx context.Context, prompts *file.PromptStore) *file.PromptWatcher {
	if _, err := prompts.Load(driven.PromptGrounding); err != nil {
		logger.Warn("Prompt directory unavailable, using built-in prompts: %v", err)
		return nil
	}
	watcher, err := file.WatchPrompts(ctx, prompts.Dir(), prompts)
	if err != nil {
		logger.Warn("Not watching %s: %v", prompts.Dir(), err)
		return nil
	}
	logger.Debug("Watching prompts in %s", prompts.Dir())
	return watcher
}

func closeWatcher(w *file.PromptWatcher) {
	if w == nil {
		return
	}
	if err := w.Close(); err != nil {
		logger.Debug("Closing prompt watcher: %v", err)
	}
}
