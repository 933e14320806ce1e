package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/aeeint/lego/internal/config"
	"github.com/aeeint/lego/internal/pipeline"
	"github.com/aeeint/lego/internal/scraper"
	"github.com/aeeint/lego/internal/transport"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Critical error loading configuration", "error", err)
		os.Exit(1)
	}

	selectors, err := scraper.LoadConfig()
	if err != nil {
		slog.Warn("Failed to load selectors. Using defaults.", "error", err)
		selectors = scraper.DefaultSelectors()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	ingestor := pipeline.NewIngestor(cfg, transport.New(), selectors)

	// The two sources are independent. Errors are logged inside each
	// goroutine instead of returned, so a failure on one side never
	// cancels the other.
	var g errgroup.Group
	g.Go(func() error {
		if _, err := ingestor.IngestDeals(ctx); err != nil {
			slog.Error("Deal ingestion ended with error", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		if len(cfg.CatalogIDs) == 0 {
			slog.Info("LEGO_IDS is empty, skipping sales ingestion")
			return nil
		}
		if _, err := ingestor.IngestSales(ctx, cfg.CatalogIDs); err != nil {
			slog.Error("Sales ingestion ended with error", "error", err)
		}
		return nil
	})

	_ = g.Wait()
	slog.Info("Scrape run finished")
}
