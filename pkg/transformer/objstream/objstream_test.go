// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package objstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/client"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/client/mock"
)

func readAll(t *testing.T, lr *LineReader) []string {
	t.Helper()
	var lines []string
	for {
		line, err := lr.Next()
		if errors.Is(err, io.EOF) {
			return lines
		}
		require.NoError(t, err)
		lines = append(lines, string(line))
	}
}

func TestStreamLines(t *testing.T) {
	store := mock.NewObjectStore()
	store.PutObject("b", "k", []byte("one\ntwo\nthree\n"))

	lr, err := Stream(context.Background(), store, "b", "k", Options{})
	require.NoError(t, err)
	defer lr.Close()

	assert.Equal(t, []string{"one", "two", "three"}, readAll(t, lr))

	// Iterator is exhausted, EOF stays terminal.
	_, err = lr.Next()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestStreamFinalPartialLine(t *testing.T) {
	store := mock.NewObjectStore()
	store.PutObject("b", "k", []byte("one\ntwo"))

	lr, err := Stream(context.Background(), store, "b", "k", Options{})
	require.NoError(t, err)
	defer lr.Close()

	assert.Equal(t, []string{"one", "two"}, readAll(t, lr))
}

func TestStreamEmptyObject(t *testing.T) {
	store := mock.NewObjectStore()
	store.PutObject("b", "k", nil)

	lr, err := Stream(context.Background(), store, "b", "k", Options{})
	require.NoError(t, err)
	defer lr.Close()

	assert.Empty(t, readAll(t, lr))
}

func TestStreamBlankLinesPreserved(t *testing.T) {
	store := mock.NewObjectStore()
	store.PutObject("b", "k", []byte("one\n\ntwo\n"))

	lr, err := Stream(context.Background(), store, "b", "k", Options{})
	require.NoError(t, err)
	defer lr.Close()

	assert.Equal(t, []string{"one", "", "two"}, readAll(t, lr))
}

func TestStreamLongLineDiscarded(t *testing.T) {
	long := strings.Repeat("x", 200)
	store := mock.NewObjectStore()
	store.PutObject("b", "k", []byte("first\n"+long+"\nlast\n"))

	lr, err := Stream(context.Background(), store, "b", "k", Options{MaxLineBytes: 64})
	require.NoError(t, err)
	defer lr.Close()

	assert.Equal(t, []string{"first", "last"}, readAll(t, lr))
}

func TestStreamLongFinalPartialLine(t *testing.T) {
	long := strings.Repeat("x", 200)
	store := mock.NewObjectStore()
	store.PutObject("b", "k", []byte("first\n"+long))

	lr, err := Stream(context.Background(), store, "b", "k", Options{MaxLineBytes: 64})
	require.NoError(t, err)
	defer lr.Close()

	assert.Equal(t, []string{"first"}, readAll(t, lr))
}

func TestStreamLineAtExactCap(t *testing.T) {
	line := strings.Repeat("y", 64)
	store := mock.NewObjectStore()
	store.PutObject("b", "k", []byte(line+"\n"))

	lr, err := Stream(context.Background(), store, "b", "k", Options{MaxLineBytes: 64})
	require.NoError(t, err)
	defer lr.Close()

	assert.Equal(t, []string{line}, readAll(t, lr))
}

func TestStreamNotFound(t *testing.T) {
	store := mock.NewObjectStore()

	_, err := Stream(context.Background(), store, "b", "missing", Options{})
	require.Error(t, err)
	assert.True(t, client.IsObjectNotFound(err))
	assert.False(t, client.IsRetryable(err))
}

func TestStreamTransientOpen(t *testing.T) {
	store := mock.NewObjectStore()
	store.PutObject("b", "k", []byte("one\n"))
	store.FailOpen("b", "k", client.NewRetryableError(fmt.Errorf("connection reset")))

	_, err := Stream(context.Background(), store, "b", "k", Options{})
	require.Error(t, err)
	assert.True(t, client.IsRetryable(err))

	// One-shot failure, the retry succeeds.
	lr, err := Stream(context.Background(), store, "b", "k", Options{})
	require.NoError(t, err)
	defer lr.Close()
	assert.Equal(t, []string{"one"}, readAll(t, lr))
}

func TestStreamCancelledContext(t *testing.T) {
	store := mock.NewObjectStore()
	store.PutObject("b", "k", []byte("one\ntwo\n"))

	ctx, cancel := context.WithCancel(context.Background())
	lr, err := Stream(ctx, store, "b", "k", Options{})
	require.NoError(t, err)
	defer lr.Close()

	_, err = lr.Next()
	require.NoError(t, err)

	cancel()
	_, err = lr.Next()
	require.Error(t, err)
	assert.True(t, client.IsRetryable(err))
}

type failingBody struct {
	data []byte
	err  error
	read bool
}

func (f *failingBody) Read(p []byte) (int, error) {
	if !f.read {
		f.read = true
		n := copy(p, f.data)
		return n, nil
	}
	return 0, f.err
}

func (f *failingBody) Close() error { return nil }

type failingStore struct {
	body io.ReadCloser
}

func (s *failingStore) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	return s.body, nil
}

func TestStreamMidReadFailure(t *testing.T) {
	store := &failingStore{body: &failingBody{
		data: []byte("one\npart"),
		err:  fmt.Errorf("connection reset by peer"),
	}}

	lr, err := Stream(context.Background(), store, "b", "k", Options{})
	require.NoError(t, err)
	defer lr.Close()

	line, err := lr.Next()
	require.NoError(t, err)
	assert.Equal(t, "one", string(line))

	_, err = lr.Next()
	require.Error(t, err)
	assert.True(t, client.IsRetryable(err))
}

type blockingBody struct {
	unblock chan struct{}
}

func (b *blockingBody) Read(p []byte) (int, error) {
	<-b.unblock
	return 0, io.ErrClosedPipe
}

func (b *blockingBody) Close() error {
	select {
	case <-b.unblock:
	default:
		close(b.unblock)
	}
	return nil
}

func TestIdleWatchdog(t *testing.T) {
	body := &blockingBody{unblock: make(chan struct{})}
	ir := &idleReader{rc: body, timeout: 20 * time.Millisecond}

	start := time.Now()
	_, err := ir.Read(make([]byte, 16))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "idle")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestCloseIdempotent(t *testing.T) {
	store := mock.NewObjectStore()
	store.PutObject("b", "k", []byte("one\n"))

	lr, err := Stream(context.Background(), store, "b", "k", Options{})
	require.NoError(t, err)
	require.NoError(t, lr.Close())
	require.NoError(t, lr.Close())

	_, err = lr.Next()
	assert.True(t, errors.Is(err, io.EOF))
}
