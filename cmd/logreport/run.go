/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suparena/logreport/errors"
	"github.com/suparena/logreport/pipeline"
	"github.com/suparena/logreport/report"
	"github.com/suparena/logreport/storagemodels"
)

// runOptions are the root command's own flags.
type runOptions struct {
	start       string
	end         string
	outputDir   string
	timeout     time.Duration
	retries     int
	concurrency int
}

func runReport(cmd *cobra.Command, g *globalOptions, r *runOptions) error {
	cfg, err := loadConfig(cmd, g)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.Report.OutputDir = r.outputDir
	}
	if flags.Changed("timeout") {
		cfg.Query.Timeout = r.timeout.String()
	}
	if flags.Changed("retries") {
		cfg.Query.Retries = r.retries
	}
	if flags.Changed("concurrency") {
		cfg.Query.Concurrency = r.concurrency
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	runID := uuid.NewString()
	logger, err := newLogger(out, cfg.Logging.Level)
	if err != nil {
		return err
	}
	logger = logger.With(zap.String("run_id", runID))
	defer func() { _ = logger.Sync() }()

	in := bufio.NewReader(cmd.InOrStdin())
	if r.start == "" {
		if r.start, err = prompt(in, out, "Enter start date (in the format YYYY-MM-DD): "); err != nil {
			return err
		}
	}
	if r.end == "" {
		if r.end, err = prompt(in, out, "Enter end date (in the format YYYY-MM-DD): "); err != nil {
			return err
		}
	}
	dateRange, err := parseRange(r.start, r.end)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := newObjectStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create object store: %w", err)
	}

	opts := []pipeline.Option{
		pipeline.WithBucket(cfg.Source.Bucket),
		pipeline.WithPrefix(cfg.Source.Prefix),
		pipeline.WithTimeout(cfg.QueryTimeout()),
		pipeline.WithConcurrency(cfg.Query.Concurrency),
		pipeline.WithSelectOptions(
			storagemodels.WithMaxRetries(cfg.Query.Retries),
			storagemodels.WithRetryBackoff(cfg.RetryBackoff()),
		),
		pipeline.WithPDFOptions(
			report.WithTitle(cfg.Report.Title),
			report.WithReportType(cfg.Report.Type),
		),
		pipeline.WithLogger(logger),
	}
	if cfg.ArchiveEnabled() {
		archive, err := newArchive(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to create archive store: %w", err)
		}
		opts = append(opts, pipeline.WithArchive(archive))
	}

	res, err := pipeline.New(store, opts...).Run(ctx, dateRange, storagemodels.ReportContext{
		StartDate: r.start,
		EndDate:   r.end,
		Headers:   cfg.Report.Headers,
	})
	if err != nil {
		return err
	}

	summary := report.Summary{
		RunID:       runID,
		Objects:     res.Objects,
		Retained:    res.Retained,
		Events:      len(res.Events),
		Diagnostics: res.Diagnostics,
	}

	if err := os.MkdirAll(cfg.Report.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	summary.CSVPath = filepath.Join(cfg.Report.OutputDir, report.FileName(cfg.Report.FilePrefix, r.start, r.end, report.ExtCSV))
	if err := os.WriteFile(summary.CSVPath, res.CSV, 0644); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	fmt.Fprintf(out, "CSV generated for the following dates: %s to %s\n", r.start, r.end)

	if res.PDF != nil {
		summary.PDFPath = filepath.Join(cfg.Report.OutputDir, report.FileName(cfg.Report.FilePrefix, r.start, r.end, report.ExtPDF))
		if err := os.WriteFile(summary.PDFPath, res.PDF, 0644); err != nil {
			return fmt.Errorf("failed to write pdf: %w", err)
		}
		fmt.Fprintf(out, "PDF generated for the following dates: %s to %s\n", r.start, r.end)
	}

	return report.WriteSummary(out, summary)
}

// prompt writes label and reads one trimmed line.
func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read date: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// parseRange parses two calendar dates. Both bounds are midnight UTC.
func parseRange(start, end string) (storagemodels.DateRange, error) {
	var s, e strfmt.Date
	if err := s.UnmarshalText([]byte(start)); err != nil {
		return storagemodels.DateRange{}, errors.NewValidationError("start", fmt.Sprintf("%q is not a YYYY-MM-DD date", start))
	}
	if err := e.UnmarshalText([]byte(end)); err != nil {
		return storagemodels.DateRange{}, errors.NewValidationError("end", fmt.Sprintf("%q is not a YYYY-MM-DD date", end))
	}

	r := storagemodels.DateRange{Start: time.Time(s), End: time.Time(e)}
	if err := r.Validate(); err != nil {
		return storagemodels.DateRange{}, err
	}
	return r, nil
}
