// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package eventinfo turns queue message bodies into typed upload events.
// Bodies carry S3 object-created notification envelopes; one envelope may
// reference several objects.
package eventinfo

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/util/log"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/client"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/message"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/metrics"
)

var jsonConfig = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	uuidShape = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	// 32 hex chars, with an optional multipart part-count suffix.
	etagShape = regexp.MustCompile(`^[0-9a-fA-F]{32}(-\d+)?$`)
	// Firehose-style object names embed the delivery timestamp after the
	// stream name: <stream>-<n>-YYYY-MM-DD-HH-MM-SS-<uuid>.
	deliveryStamp = regexp.MustCompile(`-\d{4}-\d{2}-\d{2}-\d{2}-\d{2}-\d{2}`)
)

type envelope struct {
	Event   string   `json:"Event"`
	Records []record `json:"Records"`
}

type record struct {
	EventTime        string            `json:"eventTime"`
	EventName        string            `json:"eventName"`
	ResponseElements map[string]string `json:"responseElements"`
	S3               struct {
		Bucket struct {
			Name string `json:"name"`
		} `json:"bucket"`
		Object struct {
			Key  string `json:"key"`
			Size *int64 `json:"size"`
			ETag string `json:"eTag"`
		} `json:"object"`
	} `json:"s3"`
}

// Extract parses the message body into upload events, one per notification
// record. A bucket test notification returns (nil, nil) so the caller acks
// without processing. Structural failures return a MalformedInputError; the
// message is acked and dropped since redelivery cannot fix its body.
func Extract(msg *message.Message) ([]*message.UploadEvent, error) {
	if len(msg.Body) == 0 {
		return nil, malformed(fmt.Errorf("empty body"))
	}

	var env envelope
	if err := jsonConfig.Unmarshal(msg.Body, &env); err != nil {
		return nil, malformed(fmt.Errorf("notification envelope: %w", err))
	}

	if env.Event == "s3:TestEvent" {
		metrics.TestEvents.Add(1)
		metrics.TlmTestEvents.Inc()
		log.Debugc("bucket test notification, nothing to process", "message_id", msg.ID)
		return nil, nil
	}

	if len(env.Records) == 0 {
		return nil, malformed(fmt.Errorf("no notification records"))
	}
	if !uuidShape.MatchString(msg.ID) {
		return nil, malformed(fmt.Errorf("message id %q is not a uuid", msg.ID))
	}

	events := make([]*message.UploadEvent, 0, len(env.Records))
	for i, rec := range env.Records {
		if rec.EventName != "" && !strings.HasPrefix(rec.EventName, "ObjectCreated") {
			log.Debugc("skipping non-create notification record",
				"message_id", msg.ID, "event_name", rec.EventName)
			continue
		}

		ev, err := buildEvent(msg.ID, &rec)
		if err != nil {
			return nil, malformed(fmt.Errorf("record %d: %w", i, err))
		}
		events = append(events, ev)
	}
	if len(events) == 0 {
		return nil, malformed(fmt.Errorf("no object-created records"))
	}
	return events, nil
}

func buildEvent(messageID string, rec *record) (*message.UploadEvent, error) {
	if rec.S3.Bucket.Name == "" {
		return nil, fmt.Errorf("missing bucket name")
	}
	if rec.S3.Object.Key == "" {
		return nil, fmt.Errorf("missing object key")
	}

	// Notification keys are URL-encoded, spaces arriving as '+'.
	key, err := url.QueryUnescape(rec.S3.Object.Key)
	if err != nil {
		return nil, fmt.Errorf("object key %q: %w", rec.S3.Object.Key, err)
	}

	etag := strings.Trim(rec.S3.Object.ETag, `"`)
	if etag != "" && !etagShape.MatchString(etag) {
		return nil, fmt.Errorf("etag %q is not 32 hex chars", etag)
	}

	size := int64(-1)
	if rec.S3.Object.Size != nil {
		size = *rec.S3.Object.Size
	}

	var eventTime time.Time
	if rec.EventTime != "" {
		// Best effort; a missing or odd timestamp is not worth dropping
		// the object over.
		eventTime, _ = time.Parse(time.RFC3339, rec.EventTime)
	}

	return &message.UploadEvent{
		EventID:    messageID,
		EventTime:  eventTime,
		Bucket:     rec.S3.Bucket.Name,
		ObjectKey:  key,
		ObjectSize: size,
		ETag:       etag,
		StreamName: StreamName(key),
		RequestID:  rec.ResponseElements["x-amz-request-id"],
	}, nil
}

// StreamName derives the logical source stream from an object key: the last
// path segment cut at the first delivery timestamp, else the filename
// without its extension, else "unknown".
func StreamName(key string) string {
	base := key
	if idx := strings.LastIndexByte(key, '/'); idx >= 0 {
		base = key[idx+1:]
	}

	name := base
	if loc := deliveryStamp.FindStringIndex(base); loc != nil {
		name = base[:loc[0]]
	} else if dot := strings.LastIndexByte(base, '.'); dot > 0 {
		name = base[:dot]
	}
	if name == "" {
		return "unknown"
	}
	return name
}

func malformed(err error) error {
	metrics.MalformedEvents.Add(1)
	metrics.TlmMalformedEvents.Inc()
	return client.NewMalformedInputError(err)
}
