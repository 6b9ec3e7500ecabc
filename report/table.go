/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/suparena/logreport/errors"
	"github.com/suparena/logreport/storagemodels"
)

// Summary describes one finished run for the terminal.
type Summary struct {
	RunID       string
	Objects     int
	Retained    int
	Events      int
	CSVPath     string
	PDFPath     string
	Diagnostics []storagemodels.Diagnostic
}

// WriteSummary prints the run counters and then one row per diagnostic.
func WriteSummary(w io.Writer, s Summary) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Run " + s.RunID)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
	})
	tw.AppendRows([]table.Row{
		{"Objects listed", s.Objects},
		{"Objects in range", s.Retained},
		{"Events", s.Events},
		{"CSV", orDash(s.CSVPath)},
		{"PDF", orDash(s.PDFPath)},
		{"Diagnostics", len(s.Diagnostics)},
	})
	tw.Render()

	if len(s.Diagnostics) == 0 {
		return nil
	}

	dw := table.NewWriter()
	dw.SetOutputMirror(w)
	dw.SetStyle(table.StyleRounded)
	dw.Style().Options.SeparateHeader = true
	dw.Style().Format.Header = text.FormatDefault
	dw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: 80},
	})
	dw.AppendHeader(table.Row{"Stage", "Kind", "Subject", "Error"})
	for _, d := range s.Diagnostics {
		dw.AppendRow(table.Row{d.Stage, errors.Kind(d.Err), d.Subject, escapeNewlines(d.Err.Error())})
	}
	dw.Render()
	return nil
}

// Output formats accepted by WriteEvents.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// WriteEvents prints events in the requested format.
func WriteEvents(w io.Writer, headers []string, events []storagemodels.NormalizedEvent, format string) error {
	switch strings.ToLower(format) {
	case "", FormatTable:
		return writeEventsTable(w, headers, events)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if events == nil {
			events = []storagemodels.NormalizedEvent{}
		}
		return enc.Encode(events)
	case FormatJSONL:
		enc := json.NewEncoder(w)
		for _, ev := range events {
			if err := enc.Encode(ev); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.NewValidationError("format", fmt.Sprintf("unsupported format: %s", format))
	}
}

func writeEventsTable(w io.Writer, headers []string, events []storagemodels.NormalizedEvent) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateHeader = true
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, ev := range events {
		fields := ev.Fields()
		row := make(table.Row, len(fields))
		for i, f := range fields {
			row[i] = f
		}
		tw.AppendRow(row)
	}
	if len(events) == 0 {
		tw.AppendFooter(table.Row{"(no events)"})
	}

	tw.Render()
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func escapeNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", "\\n")
}
