/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides in-memory implementations of the datastore interfaces for testing
package mock

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/suparena/logreport/datastore"
	"github.com/suparena/logreport/errors"
	"github.com/suparena/logreport/storagemodels"
)

// ObjectStore is a mock implementation of datastore.ObjectStore for testing
type ObjectStore struct {
	mu          sync.RWMutex
	objects     map[string]storagemodels.StorageObject
	responses   map[string][]string
	selectErrs  map[string]error
	listErr     error
	selectCalls []string
	lastParams  *storagemodels.SelectParams
}

var _ datastore.ObjectStore = (*ObjectStore)(nil)

// NewObjectStore creates a new mock ObjectStore
func NewObjectStore() *ObjectStore {
	return &ObjectStore{
		objects:    make(map[string]storagemodels.StorageObject),
		responses:  make(map[string][]string),
		selectErrs: make(map[string]error),
	}
}

// WithObject adds an object whose select query streams back the given chunks
func (m *ObjectStore) WithObject(key string, chunks ...string) *ObjectStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = storagemodels.StorageObject{
		Key:          key,
		LastModified: time.Unix(0, 0).UTC(),
		Size:         int64(len(strings.Join(chunks, ""))),
	}
	m.responses[key] = chunks
	return m
}

// WithSelectError makes select queries against key fail
func (m *ObjectStore) WithSelectError(key string, err error) *ObjectStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selectErrs[key] = err
	return m
}

// WithListError makes ListObjects return an error
func (m *ObjectStore) WithListError(err error) *ObjectStore {
	m.listErr = err
	return m
}

// ListObjects returns the stored objects under the prefix, ordered by key
func (m *ObjectStore) ListObjects(ctx context.Context, params *storagemodels.ListParams) ([]storagemodels.StorageObject, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]storagemodels.StorageObject, 0, len(m.objects))
	for k, v := range m.objects {
		if strings.HasPrefix(k, params.Prefix) {
			results = append(results, v)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Key < results[j].Key })
	return results, nil
}

// Select streams the configured chunks for params.Key
func (m *ObjectStore) Select(ctx context.Context, params *storagemodels.SelectParams, opts ...storagemodels.SelectOption) <-chan storagemodels.SelectChunk {
	m.mu.Lock()
	m.selectCalls = append(m.selectCalls, params.Key)
	p := *params
	m.lastParams = &p
	chunks, exists := m.responses[params.Key]
	selectErr := m.selectErrs[params.Key]
	m.mu.Unlock()

	resultChan := make(chan storagemodels.SelectChunk, len(chunks)+1)
	defer close(resultChan)

	if selectErr != nil {
		resultChan <- storagemodels.SelectChunk{Error: selectErr}
		return resultChan
	}
	if !exists {
		resultChan <- storagemodels.SelectChunk{Error: errors.NewNotFoundError("object", params.Key)}
		return resultChan
	}

	for i, c := range chunks {
		resultChan <- storagemodels.SelectChunk{
			Payload: []byte(c),
			Meta:    storagemodels.ChunkMeta{Index: int64(i)},
		}
	}
	return resultChan
}

// SelectCalls returns the keys queried so far, in call order
func (m *ObjectStore) SelectCalls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.selectCalls...)
}

// LastSelectParams returns a copy of the most recent select parameters
func (m *ObjectStore) LastSelectParams() *storagemodels.SelectParams {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastParams
}

// DataStore is a mock implementation of datastore.DataStore[T] for testing
type DataStore[T any] struct {
	mu          sync.RWMutex
	data        map[string]T
	order       []string
	getKeyFunc  func(entity T) string
	putError    error
	putErrorFor func(entity T) error
	deleteError error
}

var _ datastore.DataStore[struct{}] = (*DataStore[struct{}])(nil)

// New creates a new mock DataStore
func New[T any]() *DataStore[T] {
	return &DataStore[T]{
		data: make(map[string]T),
	}
}

// WithGetKeyFunc sets a custom function to extract keys from entities
func (m *DataStore[T]) WithGetKeyFunc(f func(T) string) *DataStore[T] {
	m.getKeyFunc = f
	return m
}

// WithPutError makes Put operations return an error
func (m *DataStore[T]) WithPutError(err error) *DataStore[T] {
	m.putError = err
	return m
}

// WithPutErrorFunc makes Put fail for the entities f returns an error for
func (m *DataStore[T]) WithPutErrorFunc(f func(T) error) *DataStore[T] {
	m.putErrorFor = f
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *DataStore[T]) WithDeleteError(err error) *DataStore[T] {
	m.deleteError = err
	return m
}

// GetOne retrieves an entity by key
func (m *DataStore[T]) GetOne(ctx context.Context, key string) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if entity, exists := m.data[key]; exists {
		return &entity, nil
	}

	var zero T
	return nil, errors.NewNotFoundError(fmt.Sprintf("%T", zero), key)
}

// Put stores an entity
func (m *DataStore[T]) Put(ctx context.Context, entity T) error {
	if m.putError != nil {
		return m.putError
	}
	if m.putErrorFor != nil {
		if err := m.putErrorFor(entity); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := m.extractKey(entity)
	if key == "" {
		return errors.NewValidationError("key", "unable to extract key from entity")
	}

	if _, exists := m.data[key]; !exists {
		m.order = append(m.order, key)
	}
	m.data[key] = entity
	return nil
}

// Scan returns every stored entity in insertion order; filters are ignored
func (m *DataStore[T]) Scan(ctx context.Context, params *datastore.ScanParams) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]T, 0, len(m.order))
	for _, k := range m.order {
		if v, ok := m.data[k]; ok {
			results = append(results, v)
		}
	}
	return results, nil
}

// Query returns the entities whose "PK|SK" key has the requested partition
// and a sort key within the bounds, ordered by sort key
func (m *DataStore[T]) Query(ctx context.Context, params *datastore.QueryParams) ([]T, error) {
	if params == nil || params.PartitionKey == "" {
		return nil, errors.NewValidationError("partitionKey", "is required")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	type hit struct {
		sk     string
		entity T
	}
	var hits []hit
	for _, k := range m.order {
		pk, sk, ok := strings.Cut(k, "|")
		if !ok || pk != params.PartitionKey {
			continue
		}
		if params.SortKeyFrom != nil && sk < *params.SortKeyFrom {
			continue
		}
		if params.SortKeyTo != nil && sk > *params.SortKeyTo {
			continue
		}
		hits = append(hits, hit{sk: sk, entity: m.data[k]})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if params.Descending {
			return hits[i].sk > hits[j].sk
		}
		return hits[i].sk < hits[j].sk
	})

	results := make([]T, 0, len(hits))
	for _, h := range hits {
		results = append(results, h.entity)
	}
	return results, nil
}

// Delete removes an entity by key
func (m *DataStore[T]) Delete(ctx context.Context, key string) error {
	if m.deleteError != nil {
		return m.deleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists {
		var zero T
		return errors.NewNotFoundError(fmt.Sprintf("%T", zero), key)
	}

	delete(m.data, key)
	return nil
}

// Count returns the number of stored entities
func (m *DataStore[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// extractKey attempts to extract a key from an entity
func (m *DataStore[T]) extractKey(entity T) string {
	if m.getKeyFunc != nil {
		return m.getKeyFunc(entity)
	}
	return fmt.Sprintf("key_%v", entity)
}
