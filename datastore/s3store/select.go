/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package s3store

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdk "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/suparena/logreport/datastore"
	"github.com/suparena/logreport/storagemodels"
)

var errMissingEnd = errors.New("select stream closed before End event")

// Select runs a SelectObjectContent request and streams its record payloads
func (s *S3ObjectStore) Select(ctx context.Context, params *storagemodels.SelectParams, opts ...storagemodels.SelectOption) <-chan storagemodels.SelectChunk {
	// Apply options
	options := storagemodels.DefaultSelectOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.BufferSize < 1 {
		options.BufferSize = 1
	}

	resultCh := make(chan storagemodels.SelectChunk, options.BufferSize)

	input, err := buildSelectInput(params)
	if err != nil {
		resultCh <- storagemodels.SelectChunk{
			Error: fmt.Errorf("failed to build select request: %w", err),
			Meta:  storagemodels.ChunkMeta{Timestamp: time.Now()},
		}
		close(resultCh)
		return resultCh
	}

	go s.selectWorker(ctx, input, options, resultCh)

	return resultCh
}

// selectWorker handles the attempts for one object. A failed attempt is only
// retried when it delivered nothing, so callers never see duplicated records.
func (s *S3ObjectStore) selectWorker(
	ctx context.Context,
	input *sdk.SelectObjectContentInput,
	options storagemodels.SelectOptions,
	resultCh chan<- storagemodels.SelectChunk,
) {
	defer close(resultCh)

	var index int64
	key := *input.Key

	for attempt := 0; attempt <= options.MaxRetries; attempt++ {
		delivered, err := s.drainAttempt(ctx, input, options, attempt, &index, resultCh)
		if err == nil {
			s.logger.Debug("select complete",
				zap.String("key", key),
				zap.Int64("chunks", index),
				zap.Int("attempt", attempt))
			return
		}

		if delivered > 0 || attempt == options.MaxRetries || !datastore.IsRetryableError(err) {
			s.sendError(ctx, resultCh, err, index, attempt)
			return
		}

		s.logger.Warn("select failed, retrying",
			zap.String("key", key),
			zap.Int("attempt", attempt),
			zap.String("code", datastore.ErrorCode(err)),
			zap.Error(err))

		backoff := time.Duration(attempt+1) * options.RetryBackoff
		select {
		case <-ctx.Done():
			s.sendError(ctx, resultCh, ctx.Err(), index, attempt)
			return
		case <-time.After(backoff):
		}
	}
}

// drainAttempt opens one event stream under the per-call timeout and forwards
// its records events. It returns how many chunks it delivered.
func (s *S3ObjectStore) drainAttempt(
	ctx context.Context,
	input *sdk.SelectObjectContentInput,
	options storagemodels.SelectOptions,
	attempt int,
	index *int64,
	resultCh chan<- storagemodels.SelectChunk,
) (int, error) {
	callCtx := ctx
	if options.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	stream, err := s.open(callCtx, input)
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	delivered := 0
	sawEnd := false
	for event := range stream.Events() {
		switch v := event.(type) {
		case *types.SelectObjectContentEventStreamMemberRecords:
			chunk := storagemodels.SelectChunk{
				Payload: v.Value.Payload,
				Meta: storagemodels.ChunkMeta{
					Index:     *index,
					Attempt:   attempt,
					Timestamp: time.Now(),
				},
			}
			select {
			case <-callCtx.Done():
				return delivered, callCtx.Err()
			case resultCh <- chunk:
			}
			delivered++
			*index++

		case *types.SelectObjectContentEventStreamMemberEnd:
			sawEnd = true

		case *types.SelectObjectContentEventStreamMemberStats:
			if d := v.Value.Details; d != nil {
				s.logger.Debug("select stats",
					zap.String("key", *input.Key),
					zap.Int64p("bytes_scanned", d.BytesScanned),
					zap.Int64p("bytes_returned", d.BytesReturned))
			}
		}
	}

	if err := stream.Err(); err != nil {
		return delivered, err
	}
	if err := callCtx.Err(); err != nil {
		return delivered, err
	}
	if !sawEnd {
		return delivered, errMissingEnd
	}
	return delivered, nil
}

func (s *S3ObjectStore) sendError(ctx context.Context, resultCh chan<- storagemodels.SelectChunk, err error, index int64, attempt int) {
	chunk := storagemodels.SelectChunk{
		Error: fmt.Errorf("select failed: %w", err),
		Meta: storagemodels.ChunkMeta{
			Index:     index,
			Attempt:   attempt,
			Timestamp: time.Now(),
		},
	}
	select {
	case <-ctx.Done():
	case resultCh <- chunk:
	}
}
