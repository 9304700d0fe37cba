package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/enterprisey/article-history/app/api"
	"github.com/enterprisey/article-history/app/cfg"
	"github.com/enterprisey/article-history/app/closedate"
	"github.com/enterprisey/article-history/app/database"
	"github.com/enterprisey/article-history/app/history"
	"github.com/enterprisey/article-history/app/mediawiki"
	"github.com/enterprisey/article-history/app/source"
	"github.com/enterprisey/article-history/app/tasks"
	"github.com/enterprisey/article-history/app/templates"
	"github.com/enterprisey/article-history/app/wikidate"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := cfg.Load()
	if err != nil {
		return err
	}
	if config == nil {
		// help was shown
		return nil
	}

	setupLogging(config.Debug)

	slog.Info("Starting article history bot", "version", config.Version, "dry_run", config.DryRun, "limit", config.EditLimit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(config.DBPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return err
	}
	slog.Info("Database ready", "path", config.DBPath, "migration_version", version, "dirty", dirty)

	pageRepo := database.NewPageRepository(db)
	checkpointRepo := database.NewCheckpointRepository(db)

	timeout := time.Duration(config.RequestTimeout) * time.Second
	client, err := mediawiki.NewClient(config.APIURL, config.UserAgent, timeout)
	if err != nil {
		return err
	}

	if config.Username != "" {
		if err := client.Login(ctx, config.Username, config.Password); err != nil {
			return fmt.Errorf("failed to log in: %w", err)
		}
		slog.Info("Logged in", "user", config.Username)
	}

	templateCfg, err := templates.LoadFile(config.TemplatesFile)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	table, err := templates.Build(ctx, templateCfg, client)
	if err != nil {
		return err
	}

	var closeDates history.CloseDateFinder
	if config.FindCloseDates {
		finder, err := closedate.NewFinder(client, config.WikiURL)
		if err != nil {
			return err
		}
		closeDates = finder
	}

	rewriter := history.NewRewriter(
		history.NewExtractor(table.Aliases()),
		history.DefaultAdapters(client, wikidate.Parse, closeDates),
		wikidate.Parse,
	)
	rewriter.CreateIfAbsent = config.CreateIfAbsent

	budget := tasks.NewEditBudget(config.EditLimit)
	deps := &tasks.ProcessPageDeps{
		Client:   client,
		Rewriter: rewriter,
		Matcher:  table,
		PageRepo: pageRepo,
		Budget:   budget,
		Summary:  config.Summary,
		DryRun:   config.DryRun,

		MaxRetries: config.MaxRetries,
	}

	pageSource := selectSource(config, client, checkpointRepo, templateCfg.AggregateTitle(), timeout)

	slog.Info("Starting scheduler", "workers", config.WorkerCount)
	scheduler := tasks.NewScheduler(pageSource, deps, config.WorkerCount, time.Duration(config.SchedulerInterval)*time.Second)
	scheduler.Start()
	defer scheduler.Stop()

	// Without the HTTP API the bot exits once the source is drained.
	done := scheduler.Done()
	var httpServer *http.Server
	serverErrChan := make(chan error, 1)
	if config.Serve {
		done = nil

		handler := api.NewHandler(pageRepo, rewriter, scheduler, budget)
		httpServer = &http.Server{
			Addr:         ":" + config.Port,
			Handler:      api.NewServer(handler, config.APIAccessKey),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		go func() {
			slog.Info("Starting HTTP server", "port", config.Port)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("Received shutdown signal")
	case runErr = <-serverErrChan:
		slog.Error("Server error", "error", runErr)
	case <-done:
		slog.Info("All pages processed")
	}

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}
	}

	if stats, err := pageRepo.GetStats(); err == nil {
		slog.Info("Run summary", "pages", stats.Total, "edited", stats.ByStatus[database.StatusEdited],
			"dry_run", stats.ByStatus[database.StatusDryRun], "failed", stats.ByStatus[database.StatusFailed],
			"edits_this_run", budget.Used())
	}

	return runErr
}

// selectSource prefers explicit titles, then a feed, then the full
// transclusion list of the aggregate template.
func selectSource(config *cfg.Cfg, client *mediawiki.Client, checkpoints database.CheckpointRepository,
	aggregateTitle string, timeout time.Duration) source.PageSource {
	switch {
	case len(config.Titles) > 0:
		slog.Info("Processing pages from the command line", "count", len(config.Titles))
		return source.NewListSource(config.Titles)
	case config.FeedURL != "":
		slog.Info("Processing pages from feed", "url", config.FeedURL)
		return source.NewFeedSource(config.FeedURL, config.UserAgent, timeout)
	default:
		slog.Info("Processing pages transcluding template", "template", aggregateTitle)
		return source.NewEmbeddedInSource(client, checkpoints, aggregateTitle)
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}
