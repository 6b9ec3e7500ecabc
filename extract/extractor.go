/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package extract runs the filtered select query against each retained archive object.
package extract

import (
	"bytes"
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/suparena/logreport/datastore"
	"github.com/suparena/logreport/errors"
	"github.com/suparena/logreport/storagemodels"
)

// Stage names this step in diagnostics.
const Stage = "extract"

// Extractor queries each object independently. A failure on one object never
// stops the others.
type Extractor struct {
	store       datastore.ObjectStore
	bucket      string
	expression  string
	concurrency int
	opts        []storagemodels.SelectOption
	logger      *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithSelectOptions passes options through to every select call.
func WithSelectOptions(opts ...storagemodels.SelectOption) Option {
	return func(e *Extractor) {
		e.opts = append(e.opts, opts...)
	}
}

// WithExpression replaces the default query expression.
func WithExpression(expr string) Option {
	return func(e *Extractor) {
		e.expression = expr
	}
}

// WithConcurrency bounds the number of objects queried at once. Values below
// one mean one.
func WithConcurrency(n int) Option {
	return func(e *Extractor) {
		e.concurrency = max(n, 1)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// New creates an Extractor for objects in bucket.
func New(store datastore.ObjectStore, bucket string, opts ...Option) *Extractor {
	e := &Extractor{
		store:       store,
		bucket:      bucket,
		expression:  Expression(),
		concurrency: 1,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns one response per successfully queried object, in input
// order regardless of concurrency.
func (e *Extractor) Extract(ctx context.Context, objects []storagemodels.StorageObject) storagemodels.StageResult[storagemodels.QueryResponse] {
	texts := make([]string, len(objects))
	errs := make([]error, len(objects))

	var eg errgroup.Group
	eg.SetLimit(e.concurrency)
	for i, obj := range objects {
		eg.Go(func() error {
			texts[i], errs[i] = e.queryObject(ctx, obj.Key)
			return nil
		})
	}
	_ = eg.Wait()

	var res storagemodels.StageResult[storagemodels.QueryResponse]
	for i, obj := range objects {
		if errs[i] != nil {
			res.Diagnostics = append(res.Diagnostics, storagemodels.Diagnostic{
				Stage:   Stage,
				Subject: obj.Key,
				Err:     errors.NewQueryError(obj.Key, errs[i]),
			})
			continue
		}
		res.Items = append(res.Items, storagemodels.QueryResponse{Key: obj.Key, Text: texts[i]})
	}

	return res
}

// queryObject drains the chunk stream for key into one text.
func (e *Extractor) queryObject(ctx context.Context, key string) (string, error) {
	params := &storagemodels.SelectParams{
		Bucket:       e.bucket,
		Key:          key,
		Expression:   e.expression,
		Compression:  storagemodels.CompressionGzip,
		InputFormat:  storagemodels.InputJSONLines,
		OutputFormat: storagemodels.OutputCSV,
	}

	var buf bytes.Buffer
	var streamErr error
	chunks := 0
	for chunk := range e.store.Select(ctx, params, e.opts...) {
		if chunk.Error != nil {
			streamErr = chunk.Error
			continue
		}
		buf.Write(chunk.Payload)
		chunks++
	}
	if streamErr != nil {
		return "", streamErr
	}
	// A canceled stream may close without delivering its error chunk
	if err := ctx.Err(); err != nil {
		return "", err
	}

	e.logger.Debug("queried object",
		zap.String("key", key),
		zap.Int("chunks", chunks),
		zap.Int("bytes", buf.Len()))
	return buf.String(), nil
}
