// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package eventinfo

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/client"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/message"
)

const validMessageID = "123e4567-e89b-12d3-a456-426614174000"

func notification(key, etag string, size int64) []byte {
	return []byte(fmt.Sprintf(`{
	  "Records": [
	    {
	      "eventVersion": "2.1",
	      "eventSource": "aws:s3",
	      "eventTime": "2024-06-01T12:30:46.123Z",
	      "eventName": "ObjectCreated:Put",
	      "responseElements": {
	        "x-amz-request-id": "C3D13FE58DE4C810",
	        "x-amz-id-2": "FMyUVURIY8/IgAtTv8xRjskZQpcIZ9KG4V5Wp6S7S/JRWeUWerMUE5JgHvANOjpD"
	      },
	      "s3": {
	        "s3SchemaVersion": "1.0",
	        "bucket": {"name": "wifi-measurements", "arn": "arn:aws:s3:::wifi-measurements"},
	        "object": {"key": %q, "size": %d, "eTag": %q, "sequencer": "0055AED6DCD90281E5"}
	      }
	    }
	  ]
	}`, key, size, etag))
}

func TestExtractSingleRecord(t *testing.T) {
	msg := &message.Message{
		ID:   validMessageID,
		Body: notification("incoming/wifi+scans/frisco-wifi-scan-1-2024-06-01-12-30-45-0af3.gz", `"d41d8cd98f00b204e9800998ecf8427e"`, 53248),
	}

	events, err := Extract(msg)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, validMessageID, ev.EventID)
	assert.Equal(t, "wifi-measurements", ev.Bucket)
	assert.Equal(t, "incoming/wifi scans/frisco-wifi-scan-1-2024-06-01-12-30-45-0af3.gz", ev.ObjectKey)
	assert.Equal(t, int64(53248), ev.ObjectSize)
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", ev.ETag)
	assert.Equal(t, "frisco-wifi-scan-1", ev.StreamName)
	assert.Equal(t, "C3D13FE58DE4C810", ev.RequestID)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 30, 46, 123000000, time.UTC), ev.EventTime.UTC())
}

func TestExtractMultipartETag(t *testing.T) {
	msg := &message.Message{
		ID:   validMessageID,
		Body: notification("a/b.gz", `"d41d8cd98f00b204e9800998ecf8427e-12"`, 1),
	}
	events, err := Extract(msg)
	require.NoError(t, err)
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e-12", events[0].ETag)
}

func TestExtractTestEvent(t *testing.T) {
	msg := &message.Message{
		ID: validMessageID,
		Body: []byte(`{
		  "Service": "Amazon S3",
		  "Event": "s3:TestEvent",
		  "Time": "2024-06-01T12:00:00.000Z",
		  "Bucket": "wifi-measurements",
		  "RequestId": "5582815E1AEA5ADF",
		  "HostId": "8cLeGAmw098X5cv4Zkwcmo8vvZa3eH3eKxsPzbB9wrR+YstdA6Knx4Ip8EXAMPLE"
		}`),
	}

	events, err := Extract(msg)
	require.NoError(t, err)
	assert.Nil(t, events)
}

func TestExtractMalformed(t *testing.T) {
	cases := map[string]*message.Message{
		"empty body":    {ID: validMessageID, Body: nil},
		"not json":      {ID: validMessageID, Body: []byte("not-json")},
		"no records":    {ID: validMessageID, Body: []byte(`{}`)},
		"empty records": {ID: validMessageID, Body: []byte(`{"Records": []}`)},
		"bad uuid":      {ID: "not-a-uuid", Body: notification("a/b.gz", `"d41d8cd98f00b204e9800998ecf8427e"`, 1)},
		"bad etag":      {ID: validMessageID, Body: notification("a/b.gz", "zzzz", 1)},
		"no bucket":     {ID: validMessageID, Body: []byte(`{"Records": [{"s3": {"object": {"key": "k"}}}]}`)},
		"no key":        {ID: validMessageID, Body: []byte(`{"Records": [{"s3": {"bucket": {"name": "b"}}}]}`)},
	}

	for name, msg := range cases {
		_, err := Extract(msg)
		require.Error(t, err, name)
		assert.True(t, client.IsMalformedInput(err), name)
	}
}

func TestExtractMultipleRecords(t *testing.T) {
	msg := &message.Message{
		ID: validMessageID,
		Body: []byte(`{
		  "Records": [
		    {"eventName": "ObjectCreated:Put", "s3": {"bucket": {"name": "b"}, "object": {"key": "one.gz"}}},
		    {"eventName": "ObjectCreated:CompleteMultipartUpload", "s3": {"bucket": {"name": "b"}, "object": {"key": "two.gz"}}}
		  ]
		}`),
	}

	events, err := Extract(msg)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "one.gz", events[0].ObjectKey)
	assert.Equal(t, "two.gz", events[1].ObjectKey)
	assert.Equal(t, events[0].EventID, events[1].EventID)
	assert.Equal(t, int64(-1), events[0].ObjectSize)
}

func TestExtractSkipsNonCreateRecords(t *testing.T) {
	msg := &message.Message{
		ID: validMessageID,
		Body: []byte(`{
		  "Records": [
		    {"eventName": "ObjectRemoved:Delete", "s3": {"bucket": {"name": "b"}, "object": {"key": "gone.gz"}}},
		    {"eventName": "ObjectCreated:Put", "s3": {"bucket": {"name": "b"}, "object": {"key": "kept.gz"}}}
		  ]
		}`),
	}

	events, err := Extract(msg)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "kept.gz", events[0].ObjectKey)

	onlyDeletes := &message.Message{
		ID:   validMessageID,
		Body: []byte(`{"Records": [{"eventName": "ObjectRemoved:Delete", "s3": {"bucket": {"name": "b"}, "object": {"key": "gone.gz"}}}]}`),
	}
	_, err = Extract(onlyDeletes)
	require.Error(t, err)
	assert.True(t, client.IsMalformedInput(err))
}

func TestStreamName(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"data/frisco-wifi-scan-1-2024-06-01-12-30-45-0af3.gz", "frisco-wifi-scan-1"},
		{"MYSTREAM-2-2025-12-31-23-59-59-deadbeef", "MYSTREAM-2"},
		{"nested/path/file.jsonl", "file"},
		{"plain", "plain"},
		{"dir/", "unknown"},
		{"-2024-01-02-03-04-05-rest", "unknown"},
		{".hidden", ".hidden"},
		{"a/b/c/scan.2024.tar.gz", "scan.2024.tar"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, StreamName(tc.key), "key %q", tc.key)
	}
}
