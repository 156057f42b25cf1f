package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/kova98/redditscrape/collector"
	"github.com/kova98/redditscrape/config"
	"github.com/kova98/redditscrape/data"
	"github.com/kova98/redditscrape/data/repos"
	"github.com/kova98/redditscrape/enums"
	"github.com/kova98/redditscrape/exporters"
	"github.com/kova98/redditscrape/metrics"
	"github.com/kova98/redditscrape/sources"
)

var banner = strings.Repeat("=", 50)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	opts := slog.HandlerOptions{Level: cfg.LogLevel}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &opts))
	slog.SetDefault(logger)

	searchCfg, err := config.LoadSearchConfig(cfg.ConfigFile)
	if err != nil {
		slog.Error("failed to load search config", "path", cfg.ConfigFile, "error", err)
		os.Exit(1)
	}

	client, err := sources.NewRedditClient(logger, sources.RedditClientConfig{
		ClientID:     cfg.RedditClientID,
		ClientSecret: cfg.RedditClientSecret,
		UserAgent:    cfg.RedditUserAgent,
		ProxyURL:     cfg.ProxyURL,
		Timeout:      cfg.HTTPTimeout,
	})
	if err != nil {
		slog.Error("failed to create reddit client", "error", err)
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, searchCfg, client, logger); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.AppConfig, searchCfg config.SearchConfig, source collector.PostSource, logger *slog.Logger) error {
	startedAt := time.Now()
	runMetrics := metrics.NewCollector("redditscrape")

	fmt.Printf("\n%s\nReddit keyword scraper\n%s\n\n", banner, banner)
	fmt.Printf("%s\nCollecting Reddit posts\n%s\n", banner, banner)

	c := collector.New(source,
		collector.WithLogger(logger),
		collector.WithProgress(os.Stdout),
		collector.WithMetrics(runMetrics),
	)
	results := c.CollectAll(ctx, searchCfg)
	results = append(results, c.CollectTop(ctx, searchCfg)...)

	if len(results) == 0 {
		fmt.Println("\n⚠ No results found")
	} else {
		writer := exporters.NewWriter(cfg.OutputDir)
		for _, format := range []enums.Format{enums.FormatJSON, enums.FormatCSV} {
			path, err := writer.Write(results, format, startedAt)
			if err != nil {
				return errors.Wrapf(err, "save %s results", format)
			}
			fmt.Printf("\n✓ Results saved to: %s\n", path)
		}
	}

	if cfg.PostgresURL != "" {
		if err := archiveRun(cfg.PostgresURL, data.NewRun(startedAt, len(results)), results, logger); err != nil {
			return err
		}
	}

	if cfg.MetricsFile != "" {
		if err := runMetrics.WriteTextfile(cfg.MetricsFile, time.Now()); err != nil {
			return errors.Wrap(err, "save run metrics")
		}
	}

	fmt.Printf("\n%s\nDone!\n%s\n\n", banner, banner)
	return nil
}

func archiveRun(postgresURL string, run data.Run, results []data.PostRecord, logger *slog.Logger) error {
	db, err := sqlx.Connect("postgres", postgresURL)
	if err != nil {
		return errors.Wrap(err, "connect to db")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database connection", "error", err)
		}
	}()

	if err := data.RunMigrations(db.DB); err != nil {
		return errors.Wrap(err, "migrate db")
	}

	repo := repos.NewPostRepo(db, data.NewLanguageDetector())
	if err := repo.SaveRun(run, results); err != nil {
		return errors.Wrap(err, "archive run")
	}

	stored, err := repo.CountByRun(run)
	if err != nil {
		return errors.Wrap(err, "verify archived run")
	}
	logger.Info("archived run", "run_id", run.ID, "records", stored)
	fmt.Printf("\n✓ Archived %d posts as run %s\n", stored, run.ID)
	return nil
}
