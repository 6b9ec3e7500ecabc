/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/suparena/logreport/datastore"
	"github.com/suparena/logreport/datastore/ddb"
	"github.com/suparena/logreport/errors"
	"github.com/suparena/logreport/extract"
	"github.com/suparena/logreport/keyfilter"
	"github.com/suparena/logreport/normalize"
	"github.com/suparena/logreport/report"
	"github.com/suparena/logreport/storagemodels"
)

// Stage names used for diagnostics raised by the pipeline itself.
const (
	StageArchive = "archive"
	StageReport  = "report"
)

// Defaults for the archive location.
const (
	DefaultBucket = "logs-archive"
	DefaultPrefix = "logs."
)

// Pipeline runs list, filter, extract, normalize and render in sequence.
type Pipeline struct {
	store       datastore.ObjectStore
	archive     datastore.DataStore[storagemodels.NormalizedEvent]
	bucket      string
	prefix      string
	timeout     time.Duration
	concurrency int
	selectOpts  []storagemodels.SelectOption
	pdfOpts     []report.PDFOption
	logger      *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithBucket sets the bucket holding the log archive.
func WithBucket(bucket string) Option {
	return func(p *Pipeline) { p.bucket = bucket }
}

// WithPrefix sets the key prefix to list.
func WithPrefix(prefix string) Option {
	return func(p *Pipeline) { p.prefix = prefix }
}

// WithArchive stores every normalized event in ds.
func WithArchive(ds datastore.DataStore[storagemodels.NormalizedEvent]) Option {
	return func(p *Pipeline) { p.archive = ds }
}

// WithTimeout bounds each network call, the listing and every select query.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.timeout = d
		p.selectOpts = append(p.selectOpts, storagemodels.WithTimeout(d))
	}
}

// WithConcurrency sets how many objects are queried at once.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) { p.concurrency = n }
}

// WithSelectOptions adds options passed to every select query.
func WithSelectOptions(opts ...storagemodels.SelectOption) Option {
	return func(p *Pipeline) { p.selectOpts = append(p.selectOpts, opts...) }
}

// WithPDFOptions configures the PDF renderer.
func WithPDFOptions(opts ...report.PDFOption) Option {
	return func(p *Pipeline) { p.pdfOpts = append(p.pdfOpts, opts...) }
}

// WithLogger sets the logger used by every stage.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// New creates a Pipeline reading from store.
func New(store datastore.ObjectStore, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:  store,
		bucket: DefaultBucket,
		prefix: DefaultPrefix,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is the outcome of one run. PDF is nil when the document could not
// be rendered; the reason is among Diagnostics.
type Result struct {
	Objects     int
	Retained    int
	Events      []storagemodels.NormalizedEvent
	CSV         []byte
	PDF         []byte
	Diagnostics []storagemodels.Diagnostic
}

// Run produces both artifacts for the range. Only an invalid range or a
// failed listing is returned as an error; everything else is a diagnostic.
func (p *Pipeline) Run(ctx context.Context, r storagemodels.DateRange, rc storagemodels.ReportContext) (*Result, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if rc.Headers == nil {
		rc.Headers = storagemodels.DefaultHeaders
	}

	objects, err := p.list(ctx)
	if err != nil {
		return nil, err
	}
	res := &Result{Objects: len(objects)}
	p.logger.Info("listed objects",
		zap.String("bucket", p.bucket),
		zap.String("prefix", p.prefix),
		zap.Int("count", len(objects)))

	filtered := keyfilter.Filter(objects, r)
	res.Retained = len(filtered.Items)
	p.collect(res, filtered.Diagnostics)

	extractor := extract.New(p.store, p.bucket,
		extract.WithSelectOptions(p.selectOpts...),
		extract.WithConcurrency(p.concurrency),
		extract.WithLogger(p.logger))
	extracted := extractor.Extract(ctx, filtered.Items)
	p.collect(res, extracted.Diagnostics)

	normalized := normalize.New(p.logger).Normalize(extracted.Items)
	res.Events = normalized.Items
	p.collect(res, normalized.Diagnostics)

	if p.archive != nil {
		p.archiveEvents(ctx, res)
	}

	var csvBuf bytes.Buffer
	if err := report.WriteCSV(&csvBuf, rc.Headers, res.Events); err != nil {
		return nil, fmt.Errorf("failed to render csv: %w", err)
	}
	res.CSV = csvBuf.Bytes()

	// The PDF is independent of the CSV; its failure only drops the PDF.
	var pdfBuf bytes.Buffer
	renderer := report.NewPDFRenderer(append([]report.PDFOption{report.WithPDFLogger(p.logger)}, p.pdfOpts...)...)
	if err := renderer.Render(&pdfBuf, rc, res.Events); err != nil {
		p.collect(res, []storagemodels.Diagnostic{{Stage: StageReport, Subject: report.ExtPDF, Err: err}})
	} else {
		res.PDF = pdfBuf.Bytes()
	}

	p.logger.Info("run complete",
		zap.Int("retained", res.Retained),
		zap.Int("events", len(res.Events)),
		zap.Int("diagnostics", len(res.Diagnostics)))
	return res, nil
}

func (p *Pipeline) list(ctx context.Context) ([]storagemodels.StorageObject, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	objects, err := p.store.ListObjects(ctx, &storagemodels.ListParams{Bucket: p.bucket, Prefix: p.prefix})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s/%s: %w", p.bucket, p.prefix, err)
	}
	return objects, nil
}

func (p *Pipeline) archiveEvents(ctx context.Context, res *Result) {
	stored := 0
	for _, ev := range res.Events {
		putCtx, cancel := p.callContext(ctx)
		err := p.archive.Put(putCtx, ev)
		cancel()
		if err == nil {
			stored++
			continue
		}

		subject, keyErr := ddb.KeyOf(ev)
		if keyErr != nil {
			subject = ev.Published
		}
		p.collect(res, []storagemodels.Diagnostic{{
			Stage:   StageArchive,
			Subject: subject,
			Err:     errors.NewArchiveError(subject, err),
		}})
	}
	p.logger.Info("archived events", zap.Int("stored", stored), zap.Int("total", len(res.Events)))
}

func (p *Pipeline) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout > 0 {
		return context.WithTimeout(ctx, p.timeout)
	}
	return context.WithCancel(ctx)
}

// collect appends diagnostics to res and logs each one.
func (p *Pipeline) collect(res *Result, diags []storagemodels.Diagnostic) {
	for _, d := range diags {
		p.logger.Warn("diagnostic",
			zap.String("stage", d.Stage),
			zap.String("kind", errors.Kind(d.Err)),
			zap.String("subject", d.Subject),
			zap.Error(d.Err))
	}
	res.Diagnostics = append(res.Diagnostics, diags...)
}
