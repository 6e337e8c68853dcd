// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package sender

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/message"
)

func rec(n int) *message.Record {
	return &message.Record{Data: make([]byte, n)}
}

func TestBufferCountLimit(t *testing.T) {
	b := newRecordBuffer(2, 1000)
	assert.True(t, b.addRecord(rec(10)))
	assert.True(t, b.addRecord(rec(10)))
	assert.True(t, b.isFull())
	assert.False(t, b.addRecord(rec(10)))
	assert.Len(t, b.getRecords(), 2)
}

func TestBufferContentSizeLimit(t *testing.T) {
	b := newRecordBuffer(10, 100)
	assert.True(t, b.addRecord(rec(60)))
	assert.False(t, b.addRecord(rec(60)))
	assert.True(t, b.addRecord(rec(40)))
	assert.True(t, b.isFull())
	assert.Equal(t, 100, b.size())
}

func TestBufferClear(t *testing.T) {
	b := newRecordBuffer(2, 100)
	b.addRecord(rec(10))
	b.clear()
	assert.True(t, b.isEmpty())
	assert.Equal(t, 0, b.size())
	assert.True(t, b.addRecord(rec(10)))
}
