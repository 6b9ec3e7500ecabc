/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package extract

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/logreport/datastore/mock"
	"github.com/suparena/logreport/errors"
	"github.com/suparena/logreport/storagemodels"
)

func TestExpression(t *testing.T) {
	expr := Expression()

	assert.True(t, strings.HasPrefix(expr, "SELECT s.eventType, s.actor.displayName, s.actor.alternateId, s.actor.type, "))
	assert.Contains(t, expr, "s.target[0].displayName, s.target[1].displayName, s.target[2].displayName")
	assert.Contains(t, expr, "s.outcome.result, s.published FROM S3Object[*][*] s")
	for _, code := range EventTypes {
		assert.Contains(t, expr, "'"+code+"'")
	}
	assert.Len(t, EventTypes, 7)
	assert.True(t, strings.HasSuffix(expr, "'group.user_membership.remove')"))
}

func TestExtractConcatenatesChunksPerObject(t *testing.T) {
	store := mock.NewObjectStore().
		WithObject("logs.a", "user.lifecycle.create,Jane", " Doe,jane@x.com\n").
		WithObject("logs.b", "row-b\n")

	e := New(store, "logs-archive")
	res := e.Extract(context.Background(), []storagemodels.StorageObject{{Key: "logs.b"}, {Key: "logs.a"}})

	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "logs.b", res.Items[0].Key)
	assert.Equal(t, "row-b\n", res.Items[0].Text)
	assert.Equal(t, "user.lifecycle.create,Jane Doe,jane@x.com\n", res.Items[1].Text)

	params := store.LastSelectParams()
	require.NotNil(t, params)
	assert.Equal(t, "logs-archive", params.Bucket)
	assert.Equal(t, storagemodels.CompressionGzip, params.Compression)
	assert.Equal(t, storagemodels.InputJSONLines, params.InputFormat)
	assert.Equal(t, storagemodels.OutputCSV, params.OutputFormat)
	assert.Equal(t, Expression(), params.Expression)
}

func TestExtractIsolatesFailures(t *testing.T) {
	boom := stderrors.New("SlowDown")
	store := mock.NewObjectStore().
		WithObject("logs.a", "a\n").
		WithObject("logs.b", "b\n").
		WithSelectError("logs.b", boom).
		WithObject("logs.c", "c\n")

	res := New(store, "logs-archive").Extract(context.Background(),
		[]storagemodels.StorageObject{{Key: "logs.a"}, {Key: "logs.b"}, {Key: "logs.c"}})

	require.Len(t, res.Items, 2)
	assert.Equal(t, "a\n", res.Items[0].Text)
	assert.Equal(t, "c\n", res.Items[1].Text)

	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, Stage, d.Stage)
	assert.Equal(t, "logs.b", d.Subject)
	assert.True(t, errors.IsQueryExecution(d.Err))
	assert.ErrorIs(t, d.Err, boom)

	assert.Equal(t, []string{"logs.a", "logs.b", "logs.c"}, store.SelectCalls())
}

func TestExtractCanceledContext(t *testing.T) {
	store := mock.NewObjectStore().WithObject("logs.a", "a\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New(store, "b").Extract(ctx, []storagemodels.StorageObject{{Key: "logs.a"}})
	assert.Empty(t, res.Items)
	require.Len(t, res.Diagnostics, 1)
	assert.ErrorIs(t, res.Diagnostics[0].Err, context.Canceled)
}

func TestExtractCustomExpression(t *testing.T) {
	store := mock.NewObjectStore().WithObject("logs.a", "")
	res := New(store, "b", WithExpression("SELECT * FROM S3Object s")).
		Extract(context.Background(), []storagemodels.StorageObject{{Key: "logs.a"}})

	require.Len(t, res.Items, 1)
	assert.Equal(t, "", res.Items[0].Text)
	assert.Equal(t, "SELECT * FROM S3Object s", store.LastSelectParams().Expression)
}

func TestExtractConcurrentKeepsInputOrder(t *testing.T) {
	store := mock.NewObjectStore()
	var objects []storagemodels.StorageObject
	for _, key := range []string{"logs.e", "logs.d", "logs.c", "logs.b", "logs.a"} {
		store.WithObject(key, key+"\n")
		objects = append(objects, storagemodels.StorageObject{Key: key})
	}
	store.WithSelectError("logs.c", stderrors.New("InternalError"))

	res := New(store, "b", WithConcurrency(3)).Extract(context.Background(), objects)

	var keys []string
	for _, item := range res.Items {
		keys = append(keys, item.Key)
		assert.Equal(t, item.Key+"\n", item.Text)
	}
	assert.Equal(t, []string{"logs.e", "logs.d", "logs.b", "logs.a"}, keys)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "logs.c", res.Diagnostics[0].Subject)
	assert.ElementsMatch(t, []string{"logs.a", "logs.b", "logs.c", "logs.d", "logs.e"}, store.SelectCalls())
}
