// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package message holds the types flowing through the pipeline: the queue
// message, the upload event extracted from it, the measurement produced per
// observed access point, and the serialized record handed to the batcher.
package message

import "time"

// Message is one queue message as received. The receipt handle stays valid
// until the message is acked or its visibility expires.
type Message struct {
	// ID is the queue-assigned message id.
	ID string
	// Body is the opaque notification payload.
	Body []byte
	// ReceiptHandle authenticates Ack/Nack/ExtendVisibility calls.
	ReceiptHandle string
	// ReceiveCount is how many times the queue has delivered this message,
	// this delivery included. Zero when the source does not report it.
	ReceiveCount int
}

// UploadEvent is one notification that an object is ready to process.
// Immutable once constructed.
type UploadEvent struct {
	// EventID identifies the notification; it is the queue message id.
	EventID string
	// EventTime is when the object landed.
	EventTime time.Time
	// Bucket and ObjectKey locate the object in the store.
	Bucket    string
	ObjectKey string
	// ObjectSize is the reported size in bytes, -1 when absent.
	ObjectSize int64
	// ETag is the object's hex entity tag.
	ETag string
	// StreamName is derived from the object key and names the upstream
	// delivery stream that landed the object.
	StreamName string
	// RequestID is the storage request id from the notification, for
	// support correlation.
	RequestID string
}
