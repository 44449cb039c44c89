package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/miapress/newsmill/app/api"
	"github.com/miapress/newsmill/app/cfg"
	"github.com/miapress/newsmill/app/database"
	"github.com/miapress/newsmill/app/generate"
	"github.com/miapress/newsmill/app/ingest"
	"github.com/miapress/newsmill/app/llm"
	"github.com/miapress/newsmill/app/publish"
	"github.com/miapress/newsmill/app/scrape"
	"github.com/miapress/newsmill/app/sources"
	"github.com/miapress/newsmill/app/tasks"
	"github.com/miapress/newsmill/app/topics"
	"github.com/miapress/newsmill/app/wp"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Newsmill server", "version", appCfg.Version)

	db, err := database.NewConnection(
		appCfg.DBHost, appCfg.DBPort, appCfg.DBUser,
		appCfg.DBPassword, appCfg.DBName)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("Connected to database")

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations applied", "version", version, "dirty", dirty)

	configCache := sources.NewCache(appCfg.SourcesDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded source configurations", "count", configCache.GetConfigCount())

	itemRepo := database.NewItemRepo(db)
	themeRepo := database.NewThemeRepo(db)
	recordRepo := database.NewRecordRepo(db)
	mediaRepo := database.NewMediaRepo(db)

	httpClient := &http.Client{Timeout: 60 * time.Second}
	fetcher := scrape.NewFetcher(appCfg.UserAgent, 60*time.Second)
	defer fetcher.Close()
	extractor := scrape.NewExtractor()

	llmClient := llm.NewClient(appCfg.LLMURL, appCfg.LLMAPIKey, appCfg.LLMModel, appCfg.UserAgent)
	cmsClient := wp.NewClient(appCfg.CMSURL, appCfg.CMSUser, appCfg.CMSPassword, appCfg.UserAgent)

	redisClient := redis.NewClient(&redis.Options{Addr: appCfg.RedisAddr})
	defer redisClient.Close()
	keywordClient := topics.NewKeywordClient(redisClient, appCfg.UserAgent)

	defaultTags := splitTags(appCfg.DefaultTags)

	ingester := ingest.NewIngester(itemRepo, ingest.NewParser(), httpClient,
		appCfg.UserAgent, appCfg.WindowDays)
	generator := generate.NewGenerator(itemRepo, recordRepo, mediaRepo,
		fetcher, extractor, llmClient,
		appCfg.SiteTopic, defaultTags, appCfg.CategoryID, appCfg.CategoryName,
		appCfg.WindowDays, appCfg.BatchSize)
	themeGenerator := generate.NewThemeGenerator(themeRepo, recordRepo, llmClient,
		appCfg.SiteTopic, defaultTags, appCfg.BatchSize)
	ideator := topics.NewIdeator(themeRepo, keywordClient, llmClient, appCfg.SiteTopic)
	publisher := publish.NewPublisher(recordRepo, mediaRepo, cmsClient, fetcher,
		appCfg.CategoryID, appCfg.BatchSize)

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(configCache, ingester, generator, themeGenerator, ideator, publisher)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(configCache, itemRepo, recordRepo,
		ingester, generator, themeGenerator, ideator, publisher, scheduler)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("Newsmill server started")

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler and fetcher are stopped via defer
	slog.Info("Shutdown complete")
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}

	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
