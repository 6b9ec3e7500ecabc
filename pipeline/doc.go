/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package pipeline wires the report stages together.
//
// A run lists the archive, keeps the objects whose key timestamp falls in the
// requested range, queries each one, normalizes the returned rows and renders
// the CSV and PDF artifacts in memory:
//
//	p := pipeline.New(store,
//	    pipeline.WithBucket("logs-archive"),
//	    pipeline.WithLogger(logger))
//	res, err := p.Run(ctx, dateRange, storagemodels.ReportContext{StartDate: "2024-01-01", EndDate: "2024-01-31"})
//
// Per-object and per-row failures never stop a run. They are returned in
// Result.Diagnostics and logged as warnings.
package pipeline
