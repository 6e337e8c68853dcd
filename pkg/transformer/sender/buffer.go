// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package sender

import (
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/message"
)

// recordBuffer accumulates serialized records until either the record count
// or the content size limit is reached.
type recordBuffer struct {
	records          []*message.Record
	contentSize      int
	contentSizeLimit int
}

func newRecordBuffer(countLimit int, contentSizeLimit int) *recordBuffer {
	return &recordBuffer{
		records:          make([]*message.Record, 0, countLimit),
		contentSizeLimit: contentSizeLimit,
	}
}

// addRecord adds a record to the buffer if it fits, and reports whether it
// was added.
func (b *recordBuffer) addRecord(rec *message.Record) bool {
	size := rec.Size()
	if len(b.records) < cap(b.records) && b.contentSize+size <= b.contentSizeLimit {
		b.records = append(b.records, rec)
		b.contentSize += size
		return true
	}
	return false
}

// clear reinitializes the buffer.
func (b *recordBuffer) clear() {
	b.records = b.records[:0]
	b.contentSize = 0
}

// getRecords returns the buffered records in insertion order.
func (b *recordBuffer) getRecords() []*message.Record {
	return b.records
}

// size returns the buffered content size in bytes.
func (b *recordBuffer) size() int {
	return b.contentSize
}

// isFull returns true if no further record can fit.
func (b *recordBuffer) isFull() bool {
	return len(b.records) == cap(b.records) || b.contentSize == b.contentSizeLimit
}

// isEmpty returns true if the buffer holds nothing.
func (b *recordBuffer) isEmpty() bool {
	return len(b.records) == 0
}
