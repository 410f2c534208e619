// Command cleanse cleans the marketplace tables and enforces referential
// integrity between them.
//
// One-shot mode (default) loads every table from storage, cleans it, and
// writes the results back:
//
//	cleanse -config configs/cleanse.json
//
// Serve mode exposes the pipeline over HTTP instead:
//
//	cleanse -config configs/cleanse.json -serve
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"cleanse/internal/config"
	"cleanse/internal/integrity"
	"cleanse/internal/metrics"
	"cleanse/internal/metrics/datadog"
	"cleanse/internal/metrics/prompush"
	"cleanse/internal/pipeline"
	"cleanse/internal/server"
	"cleanse/internal/storage"
	_ "cleanse/internal/storage/all"
)

func main() {
	var (
		configPath     = flag.String("config", "configs/cleanse.json", "path to the JSON config file")
		serve          = flag.Bool("serve", false, "run the HTTP server instead of a one-shot cleanup")
		validateOnly   = flag.Bool("validate", false, "validate the config file and exit")
		metricsBackend = flag.String("metrics-backend", "", "metrics backend: pushgateway, datadog, or none (overrides config)")
		pushgatewayURL = flag.String("pushgateway-url", "", "Prometheus Pushgateway URL (overrides config)")
		statsdAddr     = flag.String("statsd-addr", "", "DogStatsD address for the datadog backend (overrides config)")
		verbose        = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	log := newLogger(*verbose)
	defer func() { _ = log.Sync() }()
	sugar := log.Sugar()

	cfg, err := config.Load(*configPath)
	if err != nil {
		sugar.Fatalw("load config", "path", *configPath, "err", err)
	}

	issues := config.Validate(cfg)
	fatal := false
	for _, is := range issues {
		if is.Severity == config.SeverityError {
			fatal = true
			sugar.Errorw("config issue", "path", is.Path, "message", is.Message)
		} else {
			sugar.Warnw("config issue", "path", is.Path, "message", is.Message)
		}
	}
	if *validateOnly {
		if fatal {
			os.Exit(1)
		}
		fmt.Println("config ok")
		return
	}
	if fatal {
		sugar.Fatal("config validation failed")
	}

	if err := setupMetrics(cfg, *metricsBackend, *pushgatewayURL, *statsdAddr, sugar); err != nil {
		sugar.Fatalw("setup metrics", "err", err)
	}
	defer func() {
		if err := metrics.Flush(); err != nil {
			sugar.Warnw("flush metrics", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := storage.New(ctx, storage.Config{
		Kind: cfg.Storage.Kind,
		DSN:  cfg.Storage.DSN,
		Dir:  cfg.Storage.Dir,
	})
	if err != nil {
		sugar.Fatalw("open storage", "kind", cfg.Storage.Kind, "err", err)
	}
	defer func() { _ = repo.Close() }()

	pipe := pipeline.New(repo, integrity.Policy(cfg.Integrity.Policy), cfg.Job, sugar)

	if *serve {
		srv := server.New(pipe, sugar)
		if err := srv.ListenAndServe(cfg.HTTP.Addr); err != nil {
			sugar.Fatalw("http server", "err", err)
		}
		return
	}

	res, err := pipe.RunFull(ctx)
	if err != nil {
		sugar.Fatalw("cleanup run", "err", err)
	}
	sugar.Infow("cleanup done",
		"run_id", res.RunID,
		"duplicates_removed", res.DuplicatesRemoved,
		"integrity", res.Integrity.String(),
	)
	for table, stats := range res.TableStats {
		sugar.Infow("table cleaned",
			"table", table,
			"rows_in", stats.RowsIn,
			"rows_out", stats.RowsOut,
			"imputed", stats.Imputed,
		)
	}
}

// newLogger builds the process logger. Production encoding keeps log lines
// machine-parseable; -v lowers the level to debug.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	return log
}

// setupMetrics selects and installs the metrics backend. Flags override
// environment variables, which override the config file; when nothing
// selects a backend, metrics stay disabled.
func setupMetrics(cfg config.Config, backendFlag, pushURLFlag, statsdFlag string, log *zap.SugaredLogger) error {
	backend := firstNonEmpty(backendFlag, os.Getenv("CLEANSE_METRICS_BACKEND"), cfg.Metrics.Backend)
	switch backend {
	case "", "none":
		return nil
	case "pushgateway":
		url := firstNonEmpty(pushURLFlag, os.Getenv("CLEANSE_PUSHGATEWAY_URL"), cfg.Metrics.PushgatewayURL)
		if url == "" {
			return fmt.Errorf("pushgateway backend selected but no URL configured")
		}
		b, err := prompush.NewBackend(cfg.Job, url)
		if err != nil {
			return err
		}
		metrics.SetBackend(b)
		log.Infow("metrics enabled", "backend", "pushgateway", "url", url)
		return nil
	case "datadog":
		addr := firstNonEmpty(statsdFlag, os.Getenv("CLEANSE_STATSD_ADDR"), cfg.Metrics.StatsdAddr)
		b, err := datadog.NewBackend(datadog.Config{Addr: addr, Namespace: "cleanse."})
		if err != nil {
			return err
		}
		metrics.SetBackend(b)
		log.Infow("metrics enabled", "backend", "datadog", "addr", addr)
		return nil
	default:
		return fmt.Errorf("unknown metrics backend %q", backend)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
