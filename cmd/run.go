package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/adapters/aliastable"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/adapters/report"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/adapters/repository"
	service "github.com/SantiagooArturo/dashboard-agosto-sub000/internal/app"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/config"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/alias"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/cohort"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/pkg/logger"
	"github.com/SantiagooArturo/dashboard-agosto-sub000/pkg/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type buildFunc func(ctx context.Context, svc *service.Service) (any, error)

// run loads configuration, wires the service, builds one report and
// writes it in the requested format.
func run(cmd *cobra.Command, f *flags, build buildFunc) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	path := f.configFile
	if path == "" {
		path = os.Getenv(config.EnvPrefix + "CONFIG")
	}
	cfg, err := config.LoadFile(ctx, path)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if f.logLevel != "" {
		level = f.logLevel
	}
	runID := uuid.NewString()
	log := logger.Get().With(logger.String("run_id", runID), logger.String("command", cmd.Name()))
	if err := logger.SetLevelString(level); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", level), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	formatName := cfg.ReportFormat
	if f.format != "" {
		formatName = f.format
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	mtr := newMetrics(cfg)
	reader, closer, err := repository.Open(ctx, cfg.SourceConfig())
	if err != nil {
		mtr.ErrorByComponent("cli", "open_source")
		return fmt.Errorf("open %s source: %w", cfg.Source, err)
	}
	defer func() {
		if err := closer.Close(); err != nil {
			log.Warn(ctx, "closing source failed", logger.Error(err))
		}
	}()

	agg := cohort.New(time.Now,
		cohort.WithCategoryRules(cfg.Categories),
		cohort.WithTopN(cfg.TopCategories),
	)
	svc := service.New(reader,
		service.WithLogger(log.Named("service")),
		service.WithResolver(loadAliases(ctx, cfg, log, mtr)),
		service.WithMetrics(mtr),
		service.WithClock(time.Now),
		service.WithAggregator(agg),
		service.WithRunID(runID),
		service.WithCollections(cfg.Collections),
		service.WithFetchTimeout(cfg.FetchTimeout()),
	)

	start := time.Now()
	result, err := build(ctx, svc)
	if err != nil {
		mtr.ErrorByComponent("cli", cmd.Name())
		return err
	}

	out, done, err := openOutput(cmd, f.output)
	if err != nil {
		return err
	}
	if err := report.Write(out, format, result); err != nil {
		_ = done()
		return err
	}
	if err := done(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	mtr.MarkRun(time.Now().Unix())
	if cfg.MetricsTextfile != "" {
		if err := mtr.WriteTextfile(cfg.MetricsTextfile); err != nil {
			log.Warn(ctx, "metrics textfile not written", logger.String("path", cfg.MetricsTextfile), logger.Error(err))
		}
	}
	log.Info(ctx, "report written",
		logger.String("format", string(format)),
		logger.String("output", outputName(f.output)),
		logger.Duration("took", time.Since(start)))
	return nil
}

// newMetrics builds the run's metrics manager on a private registry.
// Recording is off unless a textfile export is configured.
func newMetrics(cfg *config.Config) *metrics.Manager {
	return metrics.NewManager(
		metrics.WithPrometheusRegistry(prometheus.NewRegistry()),
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithCustomLabels(cfg.MetricsLabels),
		metrics.WithMetricsEnabled(cfg.MetricsTextfile != ""),
	)
}

// loadAliases resolves the configured alias table, optionally through the
// Redis cache. A failing remote table falls back to the embedded one.
func loadAliases(ctx context.Context, cfg *config.Config, log logger.Logger, mtr *metrics.Manager) *alias.Resolver {
	alog := log.Named("aliases")
	src, err := aliastable.ParseSource(cfg.AliasesSource, cfg.FetchTimeout())
	if err != nil {
		alog.Warn(ctx, "invalid aliases_source; using the embedded table", logger.Error(err))
		src = aliastable.EmbeddedSource{}
	}

	opts := []aliastable.Option{aliastable.WithLogger(alog), aliastable.WithMetrics(mtr)}
	if cfg.AliasCacheAddr != "" {
		cache, err := aliastable.DialRedisCache(ctx, cfg.AliasCacheAddr, cfg.AliasCachePassword, cfg.AliasCacheDB)
		if err != nil {
			alog.Warn(ctx, "alias cache unavailable", logger.String("addr", cfg.AliasCacheAddr), logger.Error(err))
		} else {
			defer func() { _ = cache.Close() }()
			opts = append(opts, aliastable.WithCache(cache, cfg.AliasCacheTTL()))
		}
	}

	resolver, err := aliastable.NewLoader(src, opts...).Resolver(ctx)
	if err == nil {
		return resolver
	}
	if _, embedded := src.(aliastable.EmbeddedSource); embedded {
		return resolver
	}
	fallback, ferr := aliastable.NewLoader(aliastable.EmbeddedSource{}, aliastable.WithLogger(alog), aliastable.WithMetrics(mtr)).Resolver(ctx)
	if ferr != nil {
		return resolver
	}
	alog.Warn(ctx, "alias table unavailable; using the embedded table", logger.String("source", src.Name()), logger.Error(err))
	return fallback
}

// openOutput returns the report destination and a function releasing it.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	fh, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return fh, fh.Close, nil
}

func outputName(path string) string {
	if path == "" || path == "-" {
		return "stdout"
	}
	return path
}
