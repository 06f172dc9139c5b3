package application

import (
	"context"
	"fmt"

	"ainews/internal/infrastructure"
	"ainews/internal/repository"
	"ainews/internal/service"
	"ainews/internal/transport/handler"
)

// Version is stamped by the build.
var Version = "dev"

// Application wires configuration, repositories, the pipeline and the
// HTTP handlers together.
type Application struct {
	Config   *infrastructure.Config
	Store    repository.NewsStore
	Pipeline *service.Pipeline

	TriggerHandler *handler.Trigger
	NewsHandler    *handler.News
	StatusHandler  *handler.Status

	cleanup func() error
}

// New creates a new application instance with all dependencies
func New(ctx context.Context) (*Application, error) {
	cfg, err := infrastructure.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	store, err := repository.NewPostgresNewsStore(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating news store: %w", err)
	}

	if err := store.Ensure(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}

	blobs, err := repository.NewCloudStorageBlobStore(ctx, cfg.AudioBucket)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating blob store: %w", err)
	}

	summarizer := repository.NewDeepSeekClient(cfg.DeepSeekAPIURL, cfg.DeepSeekAPIKey)
	speech := repository.NewMinimaxClient(cfg.MinimaxAPIKey, cfg.MinimaxGroupID)

	sources := append(repository.DefaultRSSSources(), repository.NewHackerNewsSource())
	aggregator := service.NewAggregator(sources...)
	pipeline := service.NewPipeline(aggregator, store, summarizer, speech, blobs)

	cleanup := func() error {
		blobErr := blobs.Close()
		if err := store.Close(); err != nil {
			return err
		}
		return blobErr
	}

	return &Application{
		Config:         cfg,
		Store:          store,
		Pipeline:       pipeline,
		TriggerHandler: handler.NewTrigger(pipeline),
		NewsHandler:    handler.NewNews(store),
		StatusHandler:  handler.NewStatus(blobs, Version),
		cleanup:        cleanup,
	}, nil
}

// Close cleans up application resources
func (a *Application) Close() error {
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
