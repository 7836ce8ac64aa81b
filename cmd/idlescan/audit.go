package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yairfalse/idlescan/internal/collector"
	"github.com/yairfalse/idlescan/internal/collector/aws"
	"github.com/yairfalse/idlescan/internal/config"
	"github.com/yairfalse/idlescan/internal/emitter"
	"github.com/yairfalse/idlescan/internal/filter"
	"github.com/yairfalse/idlescan/internal/telemetry"
	"github.com/yairfalse/idlescan/pkg/resource"
)

func run(ctx context.Context, cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, err := telemetry.NewLogger(cfg.Log, cfg.OTEL.ServiceName, opts.debug, os.Stderr)
	if err != nil {
		return err
	}

	tel, err := telemetry.NewProvider(ctx, cfg.OTEL)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("telemetry shutdown failed")
		}
	}()

	provider, err := aws.New(ctx, aws.Config{Region: cfg.AWS.Region, Profile: cfg.AWS.Profile})
	if err != nil {
		return err
	}

	logger.Info().
		Str("region", provider.Region()).
		Str("output", cfg.Output.Path).
		Str("format", cfg.Output.Format).
		Msg("idlescan starting")

	runner := collector.NewRunner(
		collector.WithLogger(logger),
		collector.WithTracer(tel.Tracer()),
		collector.WithMetrics(tel),
	)

	return audit(ctx, cfg, runner, provider.Collectors(), logger, cmd.OutOrStdout())
}

// loadConfig reads the config file when one is given and applies the flags
// the user actually set on top of it.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("region") {
		cfg.AWS.Region = opts.region
	}
	if flags.Changed("profile") {
		cfg.AWS.Profile = opts.profile
	}
	if flags.Changed("output") {
		cfg.Output.Path = opts.output
	}
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("metrics-file") {
		cfg.Output.MetricsFile = opts.metricsFile
	}
	if flags.Changed("only") {
		cfg.Collectors.Include = opts.only
	}
	if flags.Changed("skip") {
		cfg.Collectors.Exclude = opts.skip
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// audit runs the selected collectors once and writes every configured output.
func audit(ctx context.Context, cfg *config.Config, runner *collector.Runner, collectors []collector.Collector, logger zerolog.Logger, out io.Writer) error {
	selected := filter.New(cfg.Collectors.Include, cfg.Collectors.Exclude).Apply(collectors)

	report, results := runner.Run(ctx, collector.NewRegistry(selected...))
	logSummary(logger, report, results)

	emit, err := buildEmitter(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = emit.Close() }()

	if err := emit.Emit(ctx, report); err != nil {
		return fmt.Errorf("export report: %w", err)
	}

	fmt.Fprintf(out, "✅ Report saved to %s\n", cfg.Output.Path)
	return nil
}

func buildEmitter(cfg *config.Config) (emitter.Emitter, error) {
	report, err := emitter.New(cfg.Output.Format, cfg.Output.Path)
	if err != nil {
		return nil, err
	}
	if cfg.Output.MetricsFile == "" {
		return report, nil
	}

	metrics, err := emitter.NewPrometheusEmitter(cfg.Output.MetricsFile)
	if err != nil {
		return nil, err
	}
	return emitter.NewMultiEmitter(report, metrics), nil
}

func logSummary(logger zerolog.Logger, report *resource.Report, results []resource.ScanResult) {
	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}

	for _, c := range report.Counts() {
		logger.Debug().
			Str("resource_type", c.ResourceType).
			Str("status", c.Status).
			Int("count", c.Records).
			Msg("report summary")
	}

	logger.Info().
		Int("collectors", len(results)).
		Int("failed", failed).
		Int("records", report.Len()).
		Msg("audit finished")
}
