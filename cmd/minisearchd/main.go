// Command minisearchd runs the search core as an HTTP service: it
// builds an in-memory inverted index from a dataset directory, serves
// search/build/status over HTTP, optionally runs a periodic
// incremental build scheduler, and optionally publishes build events
// to Kafka and audits build runs to Postgres.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/buildaudit"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/buildevents"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/builder"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/docstore"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/index"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/orchestrator"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/query"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/searchcache"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/httpapi"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/postgres"
	pkgredis "github.com/Adithya-Monish-Kumar-K/minisearch/pkg/redis"
)

func main() {
	configPath := flag.String("config", "config.env", "path to .env-style config file")
	datasetFlag := flag.String("dataset", "", "dataset directory to index")
	threadsFlag := flag.Int("threads", 0, "build worker threads")
	addrFlag := flag.String("addr", "", "HTTP listen address")
	webRootFlag := flag.String("web_root", "", "static web UI root directory")
	schedulerFlag := flag.Bool("scheduler", false, "enable the periodic incremental build scheduler")
	schedIntervalFlag := flag.Int("sched_s", 0, "scheduler interval in seconds")
	logLevelFlag := flag.String("log_level", "", "log level: trace/debug/info/warn/error")
	logFileFlag := flag.String("log_file", "", "optional log file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	overlayFlags(cfg, datasetFlag, threadsFlag, addrFlag, webRootFlag, schedulerFlag, schedIntervalFlag, logLevelFlag, logFileFlag)

	if err := logger.Setup(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	slog.Info("starting minisearchd", "dataset", cfg.DatasetPath, "addr", cfg.Server.Addr)

	idx := index.New(cfg.Indexer.ShardCount)
	store := docstore.New()
	tok := tokenizer.New(tokenizer.DefaultConfig())
	b := builder.New(idx, store, tok)

	var cache *searchcache.Cache
	if cfg.Redis.Addr != "" {
		rdb, err := pkgredis.NewClient(cfg.Redis.Addr)
		if err != nil {
			slog.Warn("redis unavailable, search caching disabled", "error", err)
		} else {
			defer rdb.Close()
			cache = searchcache.New(rdb, time.Duration(cfg.Redis.CacheTTLSec)*time.Second)
			slog.Info("search cache enabled", "addr", cfg.Redis.Addr)
		}
	}

	var events *buildevents.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.BuildEventsTopic)
		defer producer.Close()
		events = buildevents.New(producer)
		slog.Info("build-event publisher enabled", "topic", cfg.Kafka.BuildEventsTopic)
	} else {
		events = buildevents.New(nil)
	}

	var audit *buildaudit.Log
	if cfg.Postgres.DSN != "" {
		pgClient, err := postgres.New(cfg.Postgres.DSN)
		if err != nil {
			slog.Warn("postgres unavailable, build audit log disabled", "error", err)
			audit, _ = buildaudit.New(nil)
		} else {
			defer pgClient.Close()
			audit, err = buildaudit.New(pgClient)
			if err != nil {
				slog.Warn("failed to initialize build_history table", "error", err)
			} else {
				slog.Info("build-history audit log enabled")
			}
		}
	} else {
		audit, _ = buildaudit.New(nil)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Addr)
		defer shutdownMetrics(context.Background())
		slog.Info("metrics listening", "addr", cfg.Metrics.Addr)
	}

	orch := orchestrator.New(b, events, audit, m, cfg.DatasetPath, cfg.BuildThreads, cfg.SchedIntervalS, cfg.SchedEnabled)
	if cfg.DatasetPath != "" {
		orch.StartBuild(cfg.DatasetPath, cfg.BuildThreads, false)
	}
	orch.StartScheduler()

	q := query.New(idx, store, tok, cache)

	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		return health.ComponentHealth{Status: health.StatusUp}
	})
	if cache != nil {
		checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
			if !cache.Enabled() {
				return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
	}
	if audit.Enabled() {
		checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
			return health.ComponentHealth{Status: health.StatusUp}
		})
	}

	h := httpapi.New(q, orch, m, cfg.WebRoot)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	routerCfg := httpapi.Config{RequestTimeout: 10 * time.Second, EnableCORS: true}
	chain := httpapi.NewRouter(h, m, checker, routerCfg)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      chain,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
		if err := orch.Stop(shutdownCtx); err != nil {
			slog.Error("orchestrator shutdown error", "error", err)
		}
	}()

	slog.Info("minisearchd listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("minisearchd stopped")
}

func overlayFlags(cfg *config.Config, dataset *string, threads *int, addr, webRoot *string, sched *bool, schedS *int, logLevel, logFile *string) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["dataset"] {
		cfg.DatasetPath = *dataset
	}
	if set["threads"] {
		cfg.BuildThreads = *threads
	}
	if set["addr"] {
		cfg.Server.Addr = *addr
	}
	if set["web_root"] {
		cfg.WebRoot = *webRoot
	}
	if set["scheduler"] {
		cfg.SchedEnabled = *sched
	}
	if set["sched_s"] {
		cfg.SchedIntervalS = *schedS
	}
	if set["log_level"] {
		cfg.Logging.Level = *logLevel
	}
	if set["log_file"] {
		cfg.Logging.File = *logFile
	}
}
