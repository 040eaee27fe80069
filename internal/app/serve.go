package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"horse.fit/newsindex/internal/cli"
	"horse.fit/newsindex/internal/config"
	"horse.fit/newsindex/internal/httpapi"
	"horse.fit/newsindex/internal/inverted"
	"horse.fit/newsindex/internal/logging"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	bulkPath := fs.String("bulk", "", "Optional bulk-ingest JSON document to preload before serving")
	stopwords := fs.String("stopwords", "", "Optional newline-delimited stop-words file")
	cacheSize := fs.Int("cache-size", 0, "Query cache entries (0 uses the facade default, negative disables caching)")
	host := fs.String("host", "", "Host interface to bind (overrides config)")
	port := fs.Int("port", 0, "HTTP port (overrides config)")
	readTimeout := fs.Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	writeTimeout := fs.Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	shutdownTimeout := fs.Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	effectiveHost := *host
	if effectiveHost == "" {
		effectiveHost = cfg.HTTPHost
	}
	effectivePort := *port
	if effectivePort <= 0 {
		effectivePort = cfg.HTTPPort
	}
	if effectivePort <= 0 || effectivePort > 65535 {
		fmt.Fprintln(os.Stderr, "--port must be between 1 and 65535")
		return 2
	}

	effectiveStopwords := *stopwords
	if effectiveStopwords == "" {
		effectiveStopwords = cfg.StopWordsFile
	}

	var idx *inverted.Index
	if *bulkPath != "" {
		built, report, err := buildIndexFromBulkFile(*bulkPath, effectiveStopwords, cfg.IndexBuckets)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to preload bulk ingest file: %v\n", err)
			return 1
		}
		logger.Info().
			Int("accepted", report.Accepted).
			Int("rejected", report.Rejected).
			Int("tokens_indexed", report.Tokens).
			Msg("serve preloaded bulk ingest file")
		idx = built
	} else {
		idx = newIndexWithOptionalStopwords(cfg.IndexBuckets, effectiveStopwords)
		if idx == nil {
			return 1
		}
	}

	var engine httpapi.Engine = idx
	if *cacheSize >= 0 {
		engine = inverted.NewCachingEngine(idx, *cacheSize)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		cancel()
	}()

	srv := httpapi.NewServer(engine, logger, httpapi.Options{
		Host:            effectiveHost,
		Port:            effectivePort,
		ReadTimeout:     *readTimeout,
		WriteTimeout:    *writeTimeout,
		ShutdownTimeout: *shutdownTimeout,
		CORSOrigins:     cfg.CORSAllowedOriginsList(),
	})

	if err := srv.Start(ctx); err != nil {
		logger.Error().Err(err).Str("host", effectiveHost).Int("port", effectivePort).Msg("server failed")
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		return 1
	}

	return 0
}
