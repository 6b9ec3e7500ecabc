/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package report renders normalized events as a CSV file, a paginated PDF
// table, and terminal tables.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"

	"github.com/suparena/logreport/errors"
	"github.com/suparena/logreport/storagemodels"
)

// WriteCSV writes a header row followed by one row per event.
func WriteCSV(w io.Writer, headers []string, events []storagemodels.NormalizedEvent) error {
	if len(headers) != storagemodels.EventFieldCount {
		return errors.NewValidationError("headers", fmt.Sprintf("want %d labels, got %d", storagemodels.EventFieldCount, len(headers)))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i, ev := range events {
		if err := cw.Write(ev.Fields()); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeCSV reads a file produced by WriteCSV. The first row must equal headers.
func DecodeCSV(r io.Reader, headers []string) ([]storagemodels.NormalizedEvent, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = storagemodels.EventFieldCount

	first, err := cr.Read()
	if err == io.EOF {
		return nil, errors.NewValidationError("csv", "missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if !slices.Equal(first, headers) {
		return nil, errors.NewValidationError("csv", fmt.Sprintf("unexpected header %v", first))
	}

	var events []storagemodels.NormalizedEvent
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", len(events), err)
		}
		ev, _ := storagemodels.EventFromFields(record)
		events = append(events, ev)
	}
	return events, nil
}
