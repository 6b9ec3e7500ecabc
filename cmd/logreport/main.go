/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command logreport builds CSV and PDF activity reports from an S3 audit-log archive.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suparena/logreport"
	"github.com/suparena/logreport/config"
	"github.com/suparena/logreport/datastore"
	"github.com/suparena/logreport/datastore/ddb"
	"github.com/suparena/logreport/datastore/s3store"
	"github.com/suparena/logreport/storagemodels"
)

// Store constructors, replaced in tests.
var (
	newObjectStore = func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (datastore.ObjectStore, error) {
		return s3store.NewS3ObjectStore(ctx, cfg.AWS.AccessKey, cfg.AWS.SecretKey, cfg.AWS.Region, logger)
	}
	newArchive = func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (datastore.DataStore[storagemodels.NormalizedEvent], error) {
		return ddb.NewDynamodbDataStore[storagemodels.NormalizedEvent](ctx, cfg.AWS.AccessKey, cfg.AWS.SecretKey, cfg.AWS.Region, cfg.Archive.Table, logger)
	}
)

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	configPath   string
	bucket       string
	prefix       string
	region       string
	archiveTable string
	verbose      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "logreport: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	r := &runOptions{}

	cmd := &cobra.Command{
		Use:   "logreport",
		Short: "Generate Okta activity reports from the S3 log archive",
		Long: `Lists the log archive, keeps the objects whose key timestamp falls between
--start and --end (both inclusive), queries each with S3 Select and writes
<prefix>-<start>-to-<end>.csv and .pdf to the output directory.

Dates missing from the flags are prompted for on standard input.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, g, r)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "path to a YAML config file")
	pf.StringVar(&g.bucket, "bucket", "", "bucket holding the log archive")
	pf.StringVar(&g.prefix, "prefix", "", "object key prefix to list")
	pf.StringVar(&g.region, "region", "", "AWS region")
	pf.StringVar(&g.archiveTable, "archive-table", "", "DynamoDB table for archived events")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")

	f := cmd.Flags()
	f.StringVar(&r.start, "start", "", "start date, YYYY-MM-DD")
	f.StringVar(&r.end, "end", "", "end date, YYYY-MM-DD")
	f.StringVar(&r.outputDir, "output-dir", "", "directory the artifacts are written to")
	f.DurationVar(&r.timeout, "timeout", 0, "timeout per network call (default from config, 60s)")
	f.IntVar(&r.retries, "retries", 0, "retries per select query on throttling errors")
	f.IntVar(&r.concurrency, "concurrency", 1, "objects queried at once")

	cmd.AddCommand(newHistoryCmd(g))
	cmd.AddCommand(newConfigCmd(g))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// loadConfig reads the config file and environment, then applies any flag
// the user set explicitly.
func loadConfig(cmd *cobra.Command, g *globalOptions) (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("bucket") {
		cfg.Source.Bucket = g.bucket
	}
	if flags.Changed("prefix") {
		cfg.Source.Prefix = g.prefix
	}
	if flags.Changed("region") {
		cfg.AWS.Region = g.region
	}
	if flags.Changed("archive-table") {
		cfg.Archive.Table = g.archiveTable
	}
	if g.verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := logreport.GetVersionInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "logreport version %s\n", info.Version)
			fmt.Fprintf(out, "Git commit: %s\n", info.GitCommit)
			fmt.Fprintf(out, "Build date: %s\n", info.BuildDate)
			fmt.Fprintf(out, "Go version: %s\n", info.GoVersion)
		},
	}
}
