// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package pipeline

import (
	"time"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/config"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/client"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/consumer"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/filter"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/objstream"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/sender"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/util/log"
)

// Settings is the typed, validated view of the configuration the pipeline
// runs with. Out-of-range values are clamped with a warning; missing
// required values refuse startup.
type Settings struct {
	QueueURL string

	Consumer   consumer.Config
	Sender     sender.Config
	StreamOpts objstream.Options

	MaxDecodedBytes    int
	AccuracyThresholdM float64

	HotspotEnabled bool
	HotspotAction  filter.Action
	HotspotOUIFile string

	ProcessingDrainTimeout time.Duration
	PublishDrainTimeout    time.Duration
	ShutdownTimeout        time.Duration
}

// FromConfig builds Settings from the bound configuration. The returned
// error is a FatalConfigError; the process must not start on it.
func FromConfig(cfg config.Config) (Settings, error) {
	var s Settings

	s.QueueURL = cfg.GetString("queue_url")
	if s.QueueURL == "" {
		return s, &client.FatalConfigError{Field: "queue_url", Reason: "required"}
	}
	streamName := cfg.GetString("delivery.stream_name")
	if streamName == "" {
		return s, &client.FatalConfigError{Field: "delivery.stream_name", Reason: "required"}
	}

	s.HotspotEnabled = cfg.GetBool("filter.mobile_hotspot.enabled")
	action, err := filter.ParseAction(cfg.GetString("filter.mobile_hotspot.action"))
	if err != nil {
		return s, &client.FatalConfigError{Field: "filter.mobile_hotspot.action", Reason: err.Error()}
	}
	s.HotspotAction = action
	s.HotspotOUIFile = cfg.GetString("filter.mobile_hotspot.oui_file")
	if s.HotspotEnabled && s.HotspotOUIFile == "" {
		return s, &client.FatalConfigError{Field: "filter.mobile_hotspot.oui_file", Reason: "required when mobile hotspot filtering is enabled"}
	}

	maxBatchBytes := clampInt(cfg, "delivery.max_batch_bytes", 1024, 4*1024*1024)
	highWater := clampFloat(cfg, "backpressure.high_water_fraction", 0.1, 1.0)

	s.Consumer = consumer.Config{
		MaxMessagesPerReceive:    clampInt(cfg, "max_messages_per_receive", 1, 10),
		WaitSeconds:              clampInt(cfg, "wait_seconds", 0, 20),
		VisibilityTimeoutSeconds: clampInt(cfg, "visibility_timeout_s", 30, 43200),
		VisibilityMaxExtensions:  clampInt(cfg, "visibility_max_extensions", 0, 100),
		MaxConcurrentMessages:    clampInt(cfg, "max_concurrent_messages", 1, 64),
		NackDelaySeconds:         clampInt(cfg, "nack_delay_s", 0, 900),
		MaxReceiveCount:          clampInt(cfg, "max_receive_count", 1, 1000),
		HighWaterBytes:           int64(highWater * float64(maxBatchBytes)),
		Cooldown:                 millis(cfg, "backpressure.cooldown_ms", 10, 10000),
	}

	s.Sender = sender.Config{
		StreamName:           streamName,
		MaxRecordsPerBatch:   clampInt(cfg, "delivery.max_records_per_batch", 1, 500),
		MaxBatchBytes:        maxBatchBytes,
		MaxRecordBytes:       clampInt(cfg, "delivery.max_record_bytes", 1024, 1024*1024),
		BatchTimeout:         millis(cfg, "delivery.batch_timeout_ms", 100, 300000),
		MaxRetries:           clampInt(cfg, "delivery.max_retries", 0, 10),
		RetryBackoff:         millis(cfg, "delivery.retry_backoff_ms", 10, 10000),
		PublishTimeout:       millis(cfg, "delivery.publish_timeout_ms", 100, 60000),
		PublisherConcurrency: clampInt(cfg, "delivery.publisher_concurrency", 1, 8),
	}

	s.StreamOpts = objstream.Options{
		MaxLineBytes: clampInt(cfg, "object_max_line_bytes", 4096, 16*1024*1024),
		IdleTimeout:  clampDuration(cfg, "stream_read_timeout", time.Second, 10*time.Minute),
	}
	s.MaxDecodedBytes = clampInt(cfg, "max_decoded_bytes", 1024, 16*1024*1024)

	s.AccuracyThresholdM = cfg.GetFloat64("filter.accuracy_threshold_m")
	if s.AccuracyThresholdM <= 0 {
		log.Warnf("filter.accuracy_threshold_m must be positive, using 150")
		s.AccuracyThresholdM = 150
	}

	s.ProcessingDrainTimeout = time.Duration(clampInt(cfg, "shutdown.processing_drain_s", 1, 300)) * time.Second
	s.PublishDrainTimeout = time.Duration(clampInt(cfg, "shutdown.publish_drain_s", 1, 300)) * time.Second
	s.ShutdownTimeout = time.Duration(clampInt(cfg, "shutdown.max_total_s", 1, 600)) * time.Second

	return s, nil
}

func clampInt(cfg config.Config, key string, min, max int) int {
	v := cfg.GetInt(key)
	if v < min {
		log.Warnf("%s=%d below the %d floor, clamping", key, v, min)
		return min
	}
	if v > max {
		log.Warnf("%s=%d above the %d ceiling, clamping", key, v, max)
		return max
	}
	return v
}

func clampFloat(cfg config.Config, key string, min, max float64) float64 {
	v := cfg.GetFloat64(key)
	if v < min {
		log.Warnf("%s=%v below the %v floor, clamping", key, v, min)
		return min
	}
	if v > max {
		log.Warnf("%s=%v above the %v ceiling, clamping", key, v, max)
		return max
	}
	return v
}

func clampDuration(cfg config.Config, key string, min, max time.Duration) time.Duration {
	v := cfg.GetDuration(key)
	if v < min {
		log.Warnf("%s=%s below the %s floor, clamping", key, v, min)
		return min
	}
	if v > max {
		log.Warnf("%s=%s above the %s ceiling, clamping", key, v, max)
		return max
	}
	return v
}

func millis(cfg config.Config, key string, min, max int) time.Duration {
	return time.Duration(clampInt(cfg, key, min, max)) * time.Millisecond
}
