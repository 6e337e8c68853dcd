// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package pipeline

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/config"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/client"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/client/mock"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/message"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/metrics"
)

func testConfig() config.Config {
	cfg := config.Mock()
	cfg.Set("queue_url", "https://sqs.us-east-1.amazonaws.com/123456789012/wifi-scan-notifications")
	cfg.Set("delivery.stream_name", "wifi-measurements")
	return cfg
}

func TestFromConfigDefaults(t *testing.T) {
	s, err := FromConfig(testConfig())
	require.NoError(t, err)

	assert.Equal(t, 10, s.Consumer.MaxMessagesPerReceive)
	assert.Equal(t, 20, s.Consumer.WaitSeconds)
	assert.Equal(t, 120, s.Consumer.VisibilityTimeoutSeconds)
	assert.Equal(t, 8, s.Consumer.VisibilityMaxExtensions)
	assert.Equal(t, 10, s.Consumer.MaxConcurrentMessages)
	assert.Equal(t, 5, s.Consumer.MaxReceiveCount)
	highWater := 0.8 * float64(4*1024*1024)
	assert.Equal(t, int64(highWater), s.Consumer.HighWaterBytes)
	assert.Equal(t, 250*time.Millisecond, s.Consumer.Cooldown)

	assert.Equal(t, "wifi-measurements", s.Sender.StreamName)
	assert.Equal(t, 500, s.Sender.MaxRecordsPerBatch)
	assert.Equal(t, 4*1024*1024, s.Sender.MaxBatchBytes)
	assert.Equal(t, 1024*1024, s.Sender.MaxRecordBytes)
	assert.Equal(t, 5*time.Second, s.Sender.BatchTimeout)
	assert.Equal(t, 3, s.Sender.MaxRetries)
	assert.Equal(t, 200*time.Millisecond, s.Sender.RetryBackoff)
	assert.Equal(t, 1, s.Sender.PublisherConcurrency)

	assert.Equal(t, 2*1024*1024, s.StreamOpts.MaxLineBytes)
	assert.Equal(t, 30*time.Second, s.StreamOpts.IdleTimeout)
	assert.Equal(t, 1024*1024, s.MaxDecodedBytes)
	assert.Equal(t, 150.0, s.AccuracyThresholdM)

	assert.False(t, s.HotspotEnabled)
	assert.Equal(t, 10*time.Second, s.ProcessingDrainTimeout)
	assert.Equal(t, 15*time.Second, s.PublishDrainTimeout)
	assert.Equal(t, 30*time.Second, s.ShutdownTimeout)
}

func TestFromConfigRequiredFields(t *testing.T) {
	cfg := config.Mock()
	_, err := FromConfig(cfg)
	var fatal *client.FatalConfigError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, "queue_url", fatal.Field)

	cfg.Set("queue_url", "https://sqs.example.com/q")
	_, err = FromConfig(cfg)
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, "delivery.stream_name", fatal.Field)
}

func TestFromConfigBadHotspotAction(t *testing.T) {
	cfg := testConfig()
	cfg.Set("filter.mobile_hotspot.action", "SOMETIMES")

	_, err := FromConfig(cfg)
	var fatal *client.FatalConfigError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, "filter.mobile_hotspot.action", fatal.Field)
}

func TestFromConfigHotspotNeedsFile(t *testing.T) {
	cfg := testConfig()
	cfg.Set("filter.mobile_hotspot.enabled", true)

	_, err := FromConfig(cfg)
	var fatal *client.FatalConfigError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, "filter.mobile_hotspot.oui_file", fatal.Field)
}

func TestFromConfigClampsOutOfRange(t *testing.T) {
	cfg := testConfig()
	cfg.Set("max_messages_per_receive", 50)
	cfg.Set("delivery.max_retries", 99)
	cfg.Set("backpressure.high_water_fraction", 5.0)
	cfg.Set("object_max_line_bytes", 16)

	s, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, 10, s.Consumer.MaxMessagesPerReceive)
	assert.Equal(t, 10, s.Sender.MaxRetries)
	assert.Equal(t, int64(4*1024*1024), s.Consumer.HighWaterBytes)
	assert.Equal(t, 4096, s.StreamOpts.MaxLineBytes)
}

func TestNewRejectsMissingOUIFile(t *testing.T) {
	cfg := testConfig()
	cfg.Set("filter.mobile_hotspot.enabled", true)
	cfg.Set("filter.mobile_hotspot.oui_file", "/does/not/exist.txt")
	s, err := FromConfig(cfg)
	require.NoError(t, err)

	_, err = New(mock.NewMessageSource(), mock.NewObjectStore(), mock.NewDeliveryStream(), s)
	var fatal *client.FatalConfigError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, "filter.mobile_hotspot.oui_file", fatal.Field)
}

const (
	e2eBucket = "wifi-scan-uploads"
	e2eKey    = "uploads/frisco-wifi-scan-1-2024-06-01-12-30-45-adf2.gz"
	e2eMsgID  = "3f0a7c3e-9f6c-41f7-95ae-0f5d0c8a1b2c"
)

func encodeLine(t *testing.T, doc string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	out := []byte(base64.StdEncoding.EncodeToString(buf.Bytes()))
	return append(out, '\n')
}

func uploadedObject(t *testing.T) []byte {
	t.Helper()
	now := time.Now().UnixMilli()
	connected := fmt.Sprintf(`{
		"wifiConnectedEvents": [{
			"timestamp": %d,
			"location": {"latitude": 40.7, "longitude": -74.0, "accuracy": 12.0},
			"wifiConnectedInfo": {"bssid": "aa:bb:cc:dd:ee:01", "ssid": "CoffeeShop", "rssi": -58, "frequency": 5180}
		}]
	}`, now)
	scan := fmt.Sprintf(`{
		"wifiScanResults": [{
			"timestamp": %d,
			"location": {"latitude": 40.7, "longitude": -74.0, "accuracy": 12.0},
			"results": [
				{"bssid": "aa:bb:cc:dd:ee:02", "ssid": "Net2", "rssi": -70, "frequency": 2437},
				{"bssid": "aa:bb:cc:dd:ee:03", "ssid": "Net3", "rssi": -75, "frequency": 2462}
			]
		}]
	}`, now)
	return append(encodeLine(t, connected), encodeLine(t, scan)...)
}

func uploadNotification() *message.Message {
	body := fmt.Sprintf(`{"Records": [{
		"eventSource": "aws:s3",
		"eventTime": "2024-06-01T12:31:02.000Z",
		"eventName": "ObjectCreated:Put",
		"s3": {
			"bucket": {"name": %q},
			"object": {"key": %q, "size": 2048, "eTag": "d41d8cd98f00b204e9800998ecf8427e"}
		}
	}]}`, e2eBucket, e2eKey)
	return &message.Message{
		ID:            e2eMsgID,
		Body:          []byte(body),
		ReceiptHandle: "rh-e2e",
		ReceiveCount:  1,
	}
}

func startPipeline(t *testing.T) (*Pipeline, *mock.MessageSource, *mock.ObjectStore, *mock.DeliveryStream) {
	t.Helper()
	settings, err := FromConfig(testConfig())
	require.NoError(t, err)

	source := mock.NewMessageSource()
	store := mock.NewObjectStore()
	stream := mock.NewDeliveryStream()

	p, err := New(source, store, stream, settings)
	require.NoError(t, err)
	p.Start()
	t.Cleanup(p.Stop)
	return p, source, store, stream
}

func TestPipelineEndToEnd(t *testing.T) {
	p, source, store, stream := startPipeline(t)
	store.PutObject(e2eBucket, e2eKey, uploadedObject(t))

	source.Push(uploadNotification())

	assert.Eventually(t, func() bool {
		return len(source.Acked()) == 1
	}, 5*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, p.Flush(ctx))

	assert.Eventually(t, func() bool {
		return len(stream.Records()) == 3
	}, 5*time.Second, 10*time.Millisecond)

	records := stream.Records()
	for i, bssid := range []string{"AA:BB:CC:DD:EE:01", "AA:BB:CC:DD:EE:02", "AA:BB:CC:DD:EE:03"} {
		assert.True(t, bytes.Contains(records[i], []byte(bssid)), "record %d out of order", i)
	}
	assert.Empty(t, source.Nacked())
}

func TestPipelineStopDrainsPendingRecords(t *testing.T) {
	p, source, store, stream := startPipeline(t)
	store.PutObject(e2eBucket, e2eKey, uploadedObject(t))
	lostBefore := metrics.LostOnShutdown.Value()

	source.Push(uploadNotification())
	assert.Eventually(t, func() bool {
		return len(source.Acked()) == 1
	}, 5*time.Second, 10*time.Millisecond)

	// No flush: the records sit in the batcher until the drain.
	p.Stop()

	assert.Len(t, stream.Records(), 3)
	assert.Equal(t, lostBefore, metrics.LostOnShutdown.Value())
}

func TestPipelineNacksOnTransientStoreFailure(t *testing.T) {
	_, source, store, _ := startPipeline(t)
	store.PutObject(e2eBucket, e2eKey, uploadedObject(t))
	store.FailOpen(e2eBucket, e2eKey, client.NewRetryableError(errors.New("throttled")))

	source.Push(uploadNotification())

	// The transient open failure sends the message back for redelivery.
	assert.Eventually(t, func() bool {
		return len(source.Nacked()) == 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestPipelineFlushWithNothingPending(t *testing.T) {
	p, _, _, stream := startPipeline(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, p.Flush(ctx))
	assert.Equal(t, 0, stream.Calls())
}
