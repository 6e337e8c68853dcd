// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package client defines the three external capabilities the pipeline
// consumes and the error taxonomy their failures are classified into.
// Concrete AWS implementations live in the awsx subpackage; tests use the
// doubles in mock.
package client

import (
	"context"
	"io"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/message"
)

// MessageSource is the upstream queue.
type MessageSource interface {
	// Receive long-polls for up to maxMessages messages. A successful call
	// may return zero messages.
	Receive(ctx context.Context, maxMessages, waitSeconds, visibilityTimeoutSeconds int) ([]*message.Message, error)
	// ExtendVisibility postpones redelivery of an in-flight message.
	ExtendVisibility(ctx context.Context, receiptHandle string, seconds int) error
	// Ack deletes the message from the queue.
	Ack(ctx context.Context, receiptHandle string) error
	// Nack returns the message for redelivery after delaySeconds.
	Nack(ctx context.Context, receiptHandle string, delaySeconds int) error
}

// ObjectStore fetches object content as a byte stream.
type ObjectStore interface {
	// Open returns the object body. The caller must close it. Missing
	// objects surface as ObjectNotFoundError, everything else transient as
	// RetryableError.
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// RecordResult is the per-record outcome of a PutBatch call.
type RecordResult struct {
	OK        bool
	ErrorCode string
	Retryable bool
}

// DeliveryStream is the downstream batched sink.
type DeliveryStream interface {
	// PutBatch publishes the records and reports one result per record, in
	// order. A non-nil error means the whole call failed and no per-record
	// results are available.
	PutBatch(ctx context.Context, streamName string, records []*message.Record) ([]RecordResult, error)
}
