/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package normalize maps the CSV text returned by select queries into
// fixed-shape events.
package normalize

import (
	"encoding/csv"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/suparena/logreport/errors"
	"github.com/suparena/logreport/storagemodels"
)

// Stage names this step in diagnostics.
const Stage = "normalize"

// Normalizer turns query responses into events.
type Normalizer struct {
	logger *zap.Logger
}

// New creates a Normalizer. A nil logger discards output.
func New(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger}
}

// Normalize parses every response in order. A response that is not valid CSV
// contributes no events; a row with too few columns is skipped on its own.
func (n *Normalizer) Normalize(responses []storagemodels.QueryResponse) storagemodels.StageResult[storagemodels.NormalizedEvent] {
	var res storagemodels.StageResult[storagemodels.NormalizedEvent]

	for i, resp := range responses {
		rows, err := ParseRows(resp.Text)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, storagemodels.Diagnostic{
				Stage:   Stage,
				Subject: resp.Key,
				Err:     errors.NewRowParseError(i, -1, err),
			})
			continue
		}

		for r, row := range rows {
			layout, truncated, err := LayoutFor(len(row))
			if err != nil {
				res.Diagnostics = append(res.Diagnostics, storagemodels.Diagnostic{
					Stage:   Stage,
					Subject: resp.Key,
					Err:     errors.NewRowParseError(i, r, err),
				})
				continue
			}
			if truncated {
				res.Diagnostics = append(res.Diagnostics, storagemodels.Diagnostic{
					Stage:   Stage,
					Subject: resp.Key,
					Err:     errors.NewTruncatedRowError(i, r, len(row), layout.Columns),
				})
			}
			res.Items = append(res.Items, layout.Apply(row))
		}

		n.logger.Debug("normalized response",
			zap.String("key", resp.Key),
			zap.Int("rows", len(rows)))
	}

	return res
}

// ParseRows reads text as CSV allowing a different field count per row.
// Either every row is returned or none is.
func ParseRows(text string) ([]storagemodels.RawEventRow, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1

	var rows []storagemodels.RawEventRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, nil
}
