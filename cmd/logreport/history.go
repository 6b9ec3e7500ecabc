/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/spf13/cobra"

	"github.com/suparena/logreport/datastore/ddb"
	"github.com/suparena/logreport/errors"
	"github.com/suparena/logreport/report"
	"github.com/suparena/logreport/storagemodels"
)

func newHistoryCmd(g *globalOptions) *cobra.Command {
	var (
		event  string
		since  string
		until  string
		key    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List events stored in the archive table",
		Long: `Scans the DynamoDB archive table filled by earlier runs with --archive-table.
--event restricts the output to one event label, for example "User Created",
and reads only that label's partition. --since and --until bound the publish
time of the listed events; both are inclusive YYYY-MM-DD dates and need --event.
--key reads the single event stored under a "PK|SK" key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			if !cfg.ArchiveEnabled() {
				return errors.NewValidationError("archive-table", "is required for history")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if key != "" && (event != "" || since != "" || until != "") {
				return errors.NewValidationError("key", "cannot be combined with --event, --since or --until")
			}
			if event == "" && (since != "" || until != "") {
				return errors.NewValidationError("event", "is required with --since or --until")
			}
			if err := validateBounds(since, until); err != nil {
				return err
			}

			logger, err := newLogger(cmd.ErrOrStderr(), cfg.Logging.Level)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()
			archive, err := newArchive(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to create archive store: %w", err)
			}

			var events []storagemodels.NormalizedEvent
			switch {
			case key != "":
				var ev *storagemodels.NormalizedEvent
				if ev, err = archive.GetOne(ctx, key); err == nil {
					events = []storagemodels.NormalizedEvent{*ev}
				}
			case event != "":
				events, err = archive.Query(ctx, ddb.EventRange(event, since, until))
			default:
				events, err = archive.Scan(ctx, ddb.EventTypeScan(""))
			}
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", cfg.Archive.Table, err)
			}
			return report.WriteEvents(cmd.OutOrStdout(), cfg.Report.Headers, events, format)
		},
	}

	cmd.Flags().StringVar(&event, "event", "", "only list events with this label")
	cmd.Flags().StringVar(&since, "since", "", "earliest publish date, YYYY-MM-DD")
	cmd.Flags().StringVar(&until, "until", "", "latest publish date, YYYY-MM-DD")
	cmd.Flags().StringVar(&key, "key", "", `show the event stored under "PK|SK"`)
	cmd.Flags().StringVar(&format, "format", report.FormatTable, "output format: table, json, or jsonl")
	return cmd
}

// validateBounds checks the optional publish-date bounds. Sort keys compare
// as strings, so anything other than a zero-padded date would match the
// wrong events.
func validateBounds(since, until string) error {
	var from, to time.Time
	if since != "" {
		var d strfmt.Date
		if err := d.UnmarshalText([]byte(since)); err != nil {
			return errors.NewValidationError("since", fmt.Sprintf("%q is not a YYYY-MM-DD date", since))
		}
		from = time.Time(d)
	}
	if until != "" {
		var d strfmt.Date
		if err := d.UnmarshalText([]byte(until)); err != nil {
			return errors.NewValidationError("until", fmt.Sprintf("%q is not a YYYY-MM-DD date", until))
		}
		to = time.Time(d)
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return errors.NewValidationError("since", fmt.Sprintf("%s is after %s", since, until))
	}
	return nil
}
