/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/logreport/storagemodels"
)

// ObjectStore lists objects and runs server-side select queries against them.
type ObjectStore interface {
	ListObjects(ctx context.Context, params *storagemodels.ListParams) ([]storagemodels.StorageObject, error)

	// Select streams the query's record payloads in arrival order. The channel
	// is closed when the stream ends; a chunk with a non-nil Error is always last.
	Select(ctx context.Context, params *storagemodels.SelectParams, opts ...storagemodels.SelectOption) <-chan storagemodels.SelectChunk
}

// DataStore persists entities of type T in a key-value table.
type DataStore[T any] interface {
	GetOne(ctx context.Context, key string) (*T, error)

	Put(ctx context.Context, entity T) error

	Scan(ctx context.Context, params *ScanParams) ([]T, error)

	// Query returns the items under one partition key, in sort key order.
	Query(ctx context.Context, params *QueryParams) ([]T, error)

	Delete(ctx context.Context, key string) error
}

// ScanParams restricts a table scan.
type ScanParams struct {
	// FilterExpression is an optional filter, e.g. "event_type = :t".
	FilterExpression *string
	// ExpressionAttributeNames maps "#name" placeholders to attribute names.
	ExpressionAttributeNames map[string]string
	// ExpressionAttributeValues holds string values for ":value" placeholders.
	ExpressionAttributeValues map[string]string
	// PageSize is an optional per-page limit.
	PageSize *int32
}

// QueryParams selects items sharing a partition key, optionally bounded on
// the sort key. Both bounds are inclusive.
type QueryParams struct {
	PartitionKey string
	SortKeyFrom  *string
	SortKeyTo    *string
	// Descending returns the newest sort keys first.
	Descending bool
	PageSize   *int32
}
