package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// options holds the command line flags. Set flags override the config file.
type options struct {
	configPath  string
	region      string
	profile     string
	output      string
	format      string
	metricsFile string
	only        []string
	skip        []string
	debug       bool
}

var version = "0.1.0"

func newRootCmd() (*cobra.Command, *options) {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "idlescan",
		Short: "Audit an AWS account for idle resources",
		Long: `idlescan - AWS idle resource audit

Inventories EBS volumes, Elastic IPs, S3 buckets, EKS clusters and FSx
file systems in one region, flags the ones that look unused, and writes
a single report. A failing collector shows up as an Error row instead of
stopping the audit.`,
		Example: `  idlescan                                  # Audit with defaults, write CSV
  idlescan --region eu-west-1               # Audit another region
  idlescan --format json --output audit.json
  idlescan --only ebs,eip                   # Only volumes and addresses
  idlescan --metrics-file /var/lib/node_exporter/idlescan.prom`,
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return run(ctx, cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to TOML config file")
	f.StringVar(&opts.region, "region", "", "AWS region (default: SDK default chain)")
	f.StringVar(&opts.profile, "profile", "", "AWS shared config profile")
	f.StringVarP(&opts.output, "output", "o", "", "Report path (default \"aws_resource_audit_report.csv\")")
	f.StringVar(&opts.format, "format", "", "Report format: csv, json or yaml (default \"csv\")")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "Also write a Prometheus textfile to this path")
	f.StringSliceVar(&opts.only, "only", nil, "Run only these collectors (ebs, eip, s3, eks, fsx)")
	f.StringSliceVar(&opts.skip, "skip", nil, "Skip these collectors")
	f.BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.SetVersionTemplate(`idlescan {{.Version}} - AWS idle resource audit
`)

	return cmd, opts
}

// Execute runs the root command
func Execute() {
	cmd, _ := newRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
