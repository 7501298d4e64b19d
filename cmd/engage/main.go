// Package main wires the engage adapters into the core services and
// hands them to the command tree.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/opencivics/engage/internal/adapters/driven/ai"
	"github.com/opencivics/engage/internal/adapters/driven/blob/fileblob"
	"github.com/opencivics/engage/internal/adapters/driven/blob/gcsblob"
	"github.com/opencivics/engage/internal/adapters/driven/config/file"
	"github.com/opencivics/engage/internal/adapters/driven/fetch/httpfetch"
	"github.com/opencivics/engage/internal/adapters/driven/storage/sqlite"
	"github.com/opencivics/engage/internal/adapters/driving/cli"
	"github.com/opencivics/engage/internal/connectors/legistar"
	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
	"github.com/opencivics/engage/internal/core/services"
	"github.com/opencivics/engage/internal/extractors"
	"github.com/opencivics/engage/internal/pipelines"
	"github.com/opencivics/engage/internal/summarize"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	defer store.Close()

	blobs, err := newBlobStore(ctx, settings.Blob)
	if err != nil {
		return fmt.Errorf("opening blob store: %w", err)
	}

	fetcher := httpfetch.NewFetcher(httpfetch.Config{
		RequestsPerSecond: settings.Legistar.RequestsPerSecond,
	})

	client, err := legistar.NewClient(settings.Legistar.Customer, fetcher)
	if err != nil {
		return fmt.Errorf("creating legistar client: %w", err)
	}

	configs, err := pipelines.Default()
	if err != nil {
		return fmt.Errorf("building pipeline registry: %w", err)
	}

	// Nil when no provider is configured; summarization then reports
	// ErrLLMUnavailable while crawl and status keep working.
	llm, err := ai.CreateLLMService(&settings.LLM)
	if err != nil {
		return fmt.Errorf("creating LLM service: %w", err)
	}
	if llm != nil {
		defer llm.Close()
	}

	ingestService := services.NewIngestService(
		store.MeetingStore(),
		store.LegislationStore(),
		store.ActionStore(),
		store.DocumentStore(),
		blobs,
		fetcher,
	)
	pipelineService := services.NewPipelineService(
		store.MeetingStore(),
		store.LegislationStore(),
		store.DocumentStore(),
		store.ArtifactStore(),
		blobs,
		extractors.Default(),
		summarize.Default(),
		configs,
		llm,
	)

	cli.SetServices(&cli.Services{
		Crawl:    services.NewCrawlService(legistar.NewCrawler(client), ingestService),
		Pipeline: pipelineService,
		Ingest:   ingestService,
		Prune: services.NewPruneService(
			store.MeetingStore(),
			store.LegislationStore(),
			store.ActionStore(),
			store.DocumentStore(),
			store.ArtifactStore(),
			blobs,
		),
		Status: services.NewStatusService(
			store.MeetingStore(),
			store.LegislationStore(),
			store.DocumentStore(),
			store.ArtifactStore(),
			settingsService,
		),
		Settings:     settingsService,
		Meetings:     store.MeetingStore(),
		Legislations: store.LegislationStore(),
	})
	cli.SetVersion(version)
	cli.Execute()
	return nil
}

func newBlobStore(ctx context.Context, cfg domain.BlobSettings) (driven.BlobStore, error) {
	switch cfg.Provider {
	case domain.BlobProviderGCS:
		return gcsblob.NewStore(ctx, gcsblob.Config{
			Bucket:          cfg.Bucket,
			CredentialsFile: cfg.CredentialsFile,
		})
	default:
		return fileblob.NewStore(cfg.Dir)
	}
}
