// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package objstream

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/atomic"
)

// idleReader closes the wrapped body when a single Read stalls longer than
// the timeout. Closing the body is the only reliable way to unblock a read
// on a network stream.
type idleReader struct {
	rc       io.ReadCloser
	timeout  time.Duration
	timedOut atomic.Bool
	closed   atomic.Bool
}

func (ir *idleReader) Read(p []byte) (int, error) {
	timer := time.AfterFunc(ir.timeout, func() {
		ir.timedOut.Store(true)
		ir.rc.Close()
	})
	n, err := ir.rc.Read(p)
	timer.Stop()

	if err != nil && ir.timedOut.Load() {
		return n, fmt.Errorf("read idle for %s: %w", ir.timeout, err)
	}
	return n, err
}

func (ir *idleReader) Close() error {
	if !ir.closed.CompareAndSwap(false, true) {
		return nil
	}
	return ir.rc.Close()
}
