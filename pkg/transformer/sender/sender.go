// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package sender accumulates measurements into delivery batches and
// publishes them. A single batcher goroutine owns the pending buffer, so the
// batch invariants never need a lock; publishers run behind it on a channel.
package sender

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/atomic"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/util/log"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/client"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/message"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/metrics"
)

// Default limits, matching the delivery stream's hard caps.
const (
	DefaultMaxRecordsPerBatch = 500
	DefaultMaxBatchBytes      = 4 * 1024 * 1024
	DefaultMaxRecordBytes     = 1 * 1024 * 1024
)

// Config carries the batching and publish knobs.
type Config struct {
	// StreamName is the delivery stream target.
	StreamName string
	// MaxRecordsPerBatch caps records per publish call.
	MaxRecordsPerBatch int
	// MaxBatchBytes caps a publish call's total payload.
	MaxBatchBytes int
	// MaxRecordBytes caps one serialized record; larger records are dropped.
	MaxRecordBytes int
	// BatchTimeout flushes a non-full batch once its oldest record reaches
	// this age.
	BatchTimeout time.Duration
	// MaxRetries bounds publish attempts beyond the first.
	MaxRetries int
	// RetryBackoff is the base delay between publish attempts.
	RetryBackoff time.Duration
	// PublishTimeout bounds one publish call.
	PublishTimeout time.Duration
	// PublisherConcurrency is the number of publisher goroutines.
	PublisherConcurrency int
}

func (c *Config) normalize() {
	if c.MaxRecordsPerBatch <= 0 || c.MaxRecordsPerBatch > DefaultMaxRecordsPerBatch {
		c.MaxRecordsPerBatch = DefaultMaxRecordsPerBatch
	}
	if c.MaxBatchBytes <= 0 || c.MaxBatchBytes > DefaultMaxBatchBytes {
		c.MaxBatchBytes = DefaultMaxBatchBytes
	}
	if c.MaxRecordBytes <= 0 || c.MaxRecordBytes > DefaultMaxRecordBytes {
		c.MaxRecordBytes = DefaultMaxRecordBytes
	}
	if c.MaxRecordBytes > c.MaxBatchBytes {
		c.MaxRecordBytes = c.MaxBatchBytes
	}
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = 5 * time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 200 * time.Millisecond
	}
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = 5 * time.Second
	}
	if c.PublisherConcurrency <= 0 {
		c.PublisherConcurrency = 1
	}
}

// Sender is the owner of all pending records between submission and the
// terminal publish outcome.
type Sender struct {
	cfg    Config
	stream client.DeliveryStream
	clock  clock.Clock

	in      chan *message.Record
	batches chan *Batch
	flushCh chan chan struct{}

	// Closed by Stop: draining rejects new submissions, abort cuts publish
	// retries short once the drain deadline has passed.
	draining  chan struct{}
	abort     chan struct{}
	stopOnce  sync.Once
	abortOnce sync.Once

	batcherDone chan struct{}
	pubWG       sync.WaitGroup

	pendingBytes   *atomic.Int64
	pendingRecords *atomic.Int64
}

// New returns a sender publishing to stream.
func New(stream client.DeliveryStream, cfg Config) *Sender {
	return newWithClock(stream, cfg, clock.New())
}

func newWithClock(stream client.DeliveryStream, cfg Config, clk clock.Clock) *Sender {
	cfg.normalize()
	return &Sender{
		cfg:            cfg,
		stream:         stream,
		clock:          clk,
		in:             make(chan *message.Record, cfg.MaxRecordsPerBatch),
		batches:        make(chan *Batch, cfg.PublisherConcurrency),
		flushCh:        make(chan chan struct{}),
		draining:       make(chan struct{}),
		abort:          make(chan struct{}),
		batcherDone:    make(chan struct{}),
		pendingBytes:   atomic.NewInt64(0),
		pendingRecords: atomic.NewInt64(0),
	}
}

// Start launches the batcher and the publishers.
func (s *Sender) Start() {
	for i := 0; i < s.cfg.PublisherConcurrency; i++ {
		s.pubWG.Add(1)
		go s.runPublisher()
	}
	go s.runBatcher()
	log.Infof("sender started: stream=%s max_records=%d max_bytes=%d timeout=%s",
		s.cfg.StreamName, s.cfg.MaxRecordsPerBatch, s.cfg.MaxBatchBytes, s.cfg.BatchTimeout)
}

// Submit serializes the measurement and hands it to the batcher. An oversize
// record is dropped here with a counter; that is not an error for the
// caller. A retryable error means the sender is stopping and the message
// should be redelivered.
func (s *Sender) Submit(ctx context.Context, m *message.Measurement) error {
	rec, err := serializeMeasurement(m)
	if err != nil {
		// A plain struct marshal failing means a bug, not bad input.
		return log.Errorf("serialize measurement bssid=%s batch_id=%s: %v", m.BSSID, m.ProcessingBatchID, err)
	}

	if rec.Size() > s.cfg.MaxRecordBytes {
		tooLarge := &client.RecordTooLargeError{Size: rec.Size(), Limit: s.cfg.MaxRecordBytes}
		metrics.RecordsTooLarge.Add(1)
		metrics.TlmRecordsTooLarge.Inc()
		log.Errorc(tooLarge.Error(), "bssid", rec.BSSID, "batch_id", rec.ProcessingBatchID)
		return nil
	}

	select {
	case <-s.draining:
		return client.NewRetryableError(errors.New("sender is draining"))
	default:
	}

	select {
	case s.in <- rec:
		s.addPending(rec.Size())
		return nil
	case <-s.draining:
		return client.NewRetryableError(errors.New("sender is draining"))
	case <-ctx.Done():
		return client.NewRetryableError(ctx.Err())
	}
}

// Flush forms a batch from whatever is pending and returns once the batch
// has been handed to the publishers.
func (s *Sender) Flush(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case s.flushCh <- done:
	case <-s.batcherDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop drains the sender: pending records are flushed and published within
// the context's deadline, anything left after it is counted lost. Safe to
// call more than once.
func (s *Sender) Stop(ctx context.Context) {
	s.stopOnce.Do(func() { close(s.draining) })

	select {
	case <-s.batcherDone:
	case <-ctx.Done():
	}

	pubsDone := make(chan struct{})
	go func() {
		s.pubWG.Wait()
		close(pubsDone)
	}()

	select {
	case <-pubsDone:
	case <-ctx.Done():
		// Past the drain deadline: cut retries short and wait out the last
		// in-flight attempt.
		s.abortOnce.Do(func() { close(s.abort) })
		<-pubsDone
	}

	if lost := s.pendingRecords.Load(); lost > 0 {
		metrics.LostOnShutdown.Add(lost)
		metrics.TlmLostOnShutdown.Add(float64(lost))
		log.Errorf("sender stopped with %d records unpublished (%d bytes)", lost, s.pendingBytes.Load())
		return
	}
	log.Info("sender stopped, all pending records published")
}

// PendingBytes returns the serialized bytes awaiting a terminal publish
// outcome. The consumer loop reads it for backpressure.
func (s *Sender) PendingBytes() int64 {
	return s.pendingBytes.Load()
}

// PendingRecords returns the records awaiting a terminal publish outcome.
func (s *Sender) PendingRecords() int64 {
	return s.pendingRecords.Load()
}

func (s *Sender) addPending(size int) {
	s.pendingBytes.Add(int64(size))
	s.pendingRecords.Inc()
	metrics.PendingBytes.Add(int64(size))
	metrics.PendingRecords.Add(1)
	metrics.TlmPendingBytes.Add(float64(size))
	metrics.TlmPendingRecords.Inc()
}

func (s *Sender) subPending(size int) {
	s.pendingBytes.Sub(int64(size))
	s.pendingRecords.Dec()
	metrics.PendingBytes.Add(int64(-size))
	metrics.PendingRecords.Add(-1)
	metrics.TlmPendingBytes.Sub(float64(size))
	metrics.TlmPendingRecords.Dec()
}
