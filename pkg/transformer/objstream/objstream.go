// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package objstream streams an object's lines without ever materializing the
// object. Peak memory is one line plus a fixed transit buffer, whatever the
// object size.
package objstream

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/client"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/metrics"
)

const (
	defaultMaxLineBytes = 2 * 1024 * 1024
	defaultIdleTimeout  = 30 * time.Second

	transitBufferSize = 64 * 1024
)

// Options bounds a stream. Zero values fall back to the defaults.
type Options struct {
	// MaxLineBytes caps a single line. Longer lines are discarded up to the
	// next newline and iteration continues.
	MaxLineBytes int
	// IdleTimeout closes the body when a single read stalls longer than
	// this, surfacing a retryable error.
	IdleTimeout time.Duration
}

// LineReader is a single-use iterator over an object's lines. Not safe for
// concurrent use; the slice returned by Next is valid until the next call.
type LineReader struct {
	ctx     context.Context
	body    io.ReadCloser
	r       *bufio.Reader
	maxLine int
	bucket  string
	key     string

	line   []byte
	closed bool
}

// Stream opens the object and returns a line iterator over its bytes. The
// store's error classes pass through: not-found means ack and skip, a
// retryable error means nack for redelivery. The caller owns Close.
func Stream(ctx context.Context, store client.ObjectStore, bucket, key string, opts Options) (*LineReader, error) {
	if opts.MaxLineBytes <= 0 {
		opts.MaxLineBytes = defaultMaxLineBytes
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = defaultIdleTimeout
	}

	body, err := store.Open(ctx, bucket, key)
	if err != nil {
		if client.IsObjectNotFound(err) {
			metrics.ObjectsNotFound.Add(1)
			metrics.TlmObjectsNotFound.Inc()
		} else {
			metrics.ObjectReadErrors.Add(1)
			metrics.TlmObjectReadErrors.Inc()
		}
		return nil, err
	}
	metrics.ObjectsStreamed.Add(1)
	metrics.TlmObjectsStreamed.Inc()

	idle := &idleReader{rc: body, timeout: opts.IdleTimeout}
	return &LineReader{
		ctx:     ctx,
		body:    idle,
		r:       bufio.NewReaderSize(idle, transitBufferSize),
		maxLine: opts.MaxLineBytes,
		bucket:  bucket,
		key:     key,
	}, nil
}

// Next returns the next line without its trailing newline. A final line with
// no newline is still returned. io.EOF reports a clean end of object; any
// other error is a RetryableError and ends the iteration.
func (lr *LineReader) Next() ([]byte, error) {
	if lr.closed {
		return nil, io.EOF
	}
	if err := lr.ctx.Err(); err != nil {
		return nil, client.NewRetryableError(fmt.Errorf("stream s3://%s/%s: %w", lr.bucket, lr.key, err))
	}

	lr.line = lr.line[:0]
	tooLong := false
	for {
		chunk, err := lr.r.ReadSlice('\n')
		if len(chunk) > 0 && !tooLong {
			lr.line = append(lr.line, chunk...)
			if len(lr.line) > lr.maxLine+1 {
				tooLong = true
			}
		}

		switch {
		case err == nil:
			if tooLong || len(lr.line)-1 > lr.maxLine {
				lr.dropLong()
				lr.line = lr.line[:0]
				tooLong = false
				continue
			}
			return lr.yield(lr.line[:len(lr.line)-1]), nil

		case errors.Is(err, bufio.ErrBufferFull):
			continue

		case errors.Is(err, io.EOF):
			if tooLong || len(lr.line) > lr.maxLine {
				lr.dropLong()
				return nil, io.EOF
			}
			if len(lr.line) > 0 {
				return lr.yield(lr.line), nil
			}
			return nil, io.EOF

		default:
			metrics.ObjectReadErrors.Add(1)
			metrics.TlmObjectReadErrors.Inc()
			return nil, client.NewRetryableError(fmt.Errorf("read s3://%s/%s: %w", lr.bucket, lr.key, err))
		}
	}
}

// Close releases the underlying body. Safe to call more than once.
func (lr *LineReader) Close() error {
	if lr.closed {
		return nil
	}
	lr.closed = true
	return lr.body.Close()
}

func (lr *LineReader) yield(line []byte) []byte {
	metrics.LinesRead.Add(1)
	metrics.TlmLinesRead.Inc()
	return line
}

func (lr *LineReader) dropLong() {
	metrics.LinesTooLong.Add(1)
	metrics.TlmLinesTooLong.Inc()
}
