// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package mock provides in-memory implementations of the client interfaces
// for tests: a channel-fed message source, a map-backed object store and a
// scriptable delivery stream.
package mock

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/client"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/message"
)

// MessageSource is a channel-fed queue. Receive blocks until a message is
// pushed or the context ends, like a long poll.
type MessageSource struct {
	ch chan *message.Message

	mu       sync.Mutex
	acked    []string
	nacked   []string
	extended map[string]int
	recvErr  error
}

// NewMessageSource returns an empty source.
func NewMessageSource() *MessageSource {
	return &MessageSource{
		ch:       make(chan *message.Message, 1024),
		extended: make(map[string]int),
	}
}

// Push enqueues a message for the next Receive.
func (m *MessageSource) Push(msg *message.Message) {
	m.ch <- msg
}

// FailNextReceive makes the next Receive call return err.
func (m *MessageSource) FailNextReceive(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recvErr = err
}

// Receive implements client.MessageSource.
func (m *MessageSource) Receive(ctx context.Context, maxMessages, waitSeconds, visibilityTimeoutSeconds int) ([]*message.Message, error) {
	m.mu.Lock()
	if m.recvErr != nil {
		err := m.recvErr
		m.recvErr = nil
		m.mu.Unlock()
		return nil, err
	}
	m.mu.Unlock()

	var out []*message.Message
	select {
	case msg := <-m.ch:
		out = append(out, msg)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	for len(out) < maxMessages {
		select {
		case msg := <-m.ch:
			out = append(out, msg)
		default:
			return out, nil
		}
	}
	return out, nil
}

// ExtendVisibility implements client.MessageSource.
func (m *MessageSource) ExtendVisibility(ctx context.Context, receiptHandle string, seconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extended[receiptHandle]++
	return nil
}

// Ack implements client.MessageSource.
func (m *MessageSource) Ack(ctx context.Context, receiptHandle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked = append(m.acked, receiptHandle)
	return nil
}

// Nack implements client.MessageSource.
func (m *MessageSource) Nack(ctx context.Context, receiptHandle string, delaySeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nacked = append(m.nacked, receiptHandle)
	return nil
}

// Acked returns the receipt handles acked so far.
func (m *MessageSource) Acked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.acked...)
}

// Nacked returns the receipt handles nacked so far.
func (m *MessageSource) Nacked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.nacked...)
}

// Extensions returns how many times the handle's visibility was extended.
func (m *MessageSource) Extensions(receiptHandle string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.extended[receiptHandle]
}

// ObjectStore serves objects from memory.
type ObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	errs    map[string]error
}

// NewObjectStore returns an empty store.
func NewObjectStore() *ObjectStore {
	return &ObjectStore{
		objects: make(map[string][]byte),
		errs:    make(map[string]error),
	}
}

func objectPath(bucket, key string) string {
	return bucket + "/" + key
}

// PutObject stores content for later Open calls.
func (o *ObjectStore) PutObject(bucket, key string, content []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.objects[objectPath(bucket, key)] = content
}

// FailOpen makes the next Open for the object return err, then recover.
func (o *ObjectStore) FailOpen(bucket, key string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errs[objectPath(bucket, key)] = err
}

// Open implements client.ObjectStore.
func (o *ObjectStore) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	path := objectPath(bucket, key)
	if err, ok := o.errs[path]; ok {
		delete(o.errs, path)
		return nil, err
	}
	content, ok := o.objects[path]
	if !ok {
		return nil, &client.ObjectNotFoundError{Bucket: bucket, Key: key}
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

// DeliveryStream captures published records and can be scripted to fail
// whole calls or individual records.
type DeliveryStream struct {
	mu         sync.Mutex
	batches    [][][]byte
	calls      int
	wholeFails int
	wholeErr   error
	recFails   map[string]int
}

// NewDeliveryStream returns a stream that accepts everything.
func NewDeliveryStream() *DeliveryStream {
	return &DeliveryStream{
		recFails: make(map[string]int),
	}
}

// FailNextCalls makes the next n PutBatch calls fail entirely with err.
func (d *DeliveryStream) FailNextCalls(n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.wholeFails = n
	d.wholeErr = err
}

// FailRecordTimes rejects records whose payload contains marker, as a
// retryable per-record failure, for the first n attempts.
func (d *DeliveryStream) FailRecordTimes(marker string, n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recFails[marker] = n
}

// PutBatch implements client.DeliveryStream.
func (d *DeliveryStream) PutBatch(ctx context.Context, streamName string, records []*message.Record) ([]client.RecordResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls++
	if d.wholeFails > 0 {
		d.wholeFails--
		return nil, client.NewRetryableError(d.wholeErr)
	}

	results := make([]client.RecordResult, len(records))
	var accepted [][]byte
	for i, rec := range records {
		if d.failLocked(rec) {
			results[i] = client.RecordResult{
				ErrorCode: "ServiceUnavailableException",
				Retryable: true,
			}
			continue
		}
		results[i] = client.RecordResult{OK: true}
		accepted = append(accepted, append([]byte(nil), rec.Data...))
	}
	d.batches = append(d.batches, accepted)
	return results, nil
}

func (d *DeliveryStream) failLocked(rec *message.Record) bool {
	for marker, n := range d.recFails {
		if n > 0 && bytes.Contains(rec.Data, []byte(marker)) {
			d.recFails[marker] = n - 1
			return true
		}
	}
	return false
}

// Calls returns the number of PutBatch calls seen.
func (d *DeliveryStream) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// Batches returns the accepted payloads per call, in call order.
func (d *DeliveryStream) Batches() [][][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][][]byte, len(d.batches))
	copy(out, d.batches)
	return out
}

// Records returns every accepted payload in publish order.
func (d *DeliveryStream) Records() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out [][]byte
	for _, b := range d.batches {
		out = append(out, b...)
	}
	return out
}

// String helps debugging failed assertions.
func (d *DeliveryStream) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fmt.Sprintf("deliverystream{calls=%d batches=%d}", d.calls, len(d.batches))
}
