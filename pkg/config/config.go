// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package config holds the process-wide configuration for the transformer.
// Every knob is bound to an environment variable (prefix WST, dots become
// underscores) and carries a default, so the service runs with nothing but a
// queue URL and a delivery stream name. An optional YAML file can override
// any of them.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/DataDog/viper"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/util/log"
)

// Transformer is the global configuration object
var Transformer Config

func init() {
	Transformer = NewConfig("wifi-transformer", "WST", strings.NewReplacer(".", "_"))
	initConfig(Transformer)
}

// Config is the interface handed to consumers of the configuration. It is a
// subset of the viper surface, guarded for concurrent use.
type Config interface {
	Set(key string, value interface{})
	SetDefault(key string, value interface{})
	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	GetInt64(key string) int64
	GetFloat64(key string) float64
	GetDuration(key string) time.Duration
	GetStringSlice(key string) []string
	IsSet(key string) bool
	AllKeys() []string
	GetKnownKeys() map[string]interface{}

	SetEnvPrefix(in string)
	SetEnvKeyReplacer(r *strings.Replacer)
	BindEnv(input ...string)
	BindEnvAndSetDefault(key string, val interface{})

	SetConfigName(in string)
	SetConfigFile(in string)
	SetConfigType(in string)
	AddConfigPath(in string)
	ConfigFileUsed() string
	ReadInConfig() error
	ReadConfig(in io.Reader) error
}

// initConfig declares every knob with its default. Bounds are enforced when
// the typed pipeline settings are built, not here.
func initConfig(config Config) {
	// Queue
	config.BindEnvAndSetDefault("queue_url", "")
	config.BindEnvAndSetDefault("max_messages_per_receive", 10)
	config.BindEnvAndSetDefault("wait_seconds", 20)
	config.BindEnvAndSetDefault("visibility_timeout_s", 120)
	config.BindEnvAndSetDefault("visibility_max_extensions", 8)
	config.BindEnvAndSetDefault("max_concurrent_messages", 10)
	config.BindEnvAndSetDefault("nack_delay_s", 0)
	config.BindEnvAndSetDefault("max_receive_count", 5)

	// Object streaming and decode
	config.BindEnvAndSetDefault("object_max_line_bytes", 2*1024*1024)
	config.BindEnvAndSetDefault("max_decoded_bytes", 1024*1024)
	config.BindEnvAndSetDefault("stream_read_timeout", "30s")

	// Filtering
	config.BindEnvAndSetDefault("filter.accuracy_threshold_m", 150.0)
	config.BindEnvAndSetDefault("filter.mobile_hotspot.enabled", false)
	config.BindEnvAndSetDefault("filter.mobile_hotspot.action", "FLAG")
	config.BindEnvAndSetDefault("filter.mobile_hotspot.oui_file", "")

	// Delivery
	config.BindEnvAndSetDefault("delivery.stream_name", "")
	config.BindEnvAndSetDefault("delivery.max_records_per_batch", 500)
	config.BindEnvAndSetDefault("delivery.max_batch_bytes", 4*1024*1024)
	config.BindEnvAndSetDefault("delivery.max_record_bytes", 1024*1024)
	config.BindEnvAndSetDefault("delivery.batch_timeout_ms", 5000)
	config.BindEnvAndSetDefault("delivery.max_retries", 3)
	config.BindEnvAndSetDefault("delivery.retry_backoff_ms", 200)
	config.BindEnvAndSetDefault("delivery.publish_timeout_ms", 5000)
	config.BindEnvAndSetDefault("delivery.publisher_concurrency", 1)

	// Backpressure
	config.BindEnvAndSetDefault("backpressure.high_water_fraction", 0.8)
	config.BindEnvAndSetDefault("backpressure.cooldown_ms", 250)

	// Shutdown
	config.BindEnvAndSetDefault("shutdown.processing_drain_s", 10)
	config.BindEnvAndSetDefault("shutdown.publish_drain_s", 15)
	config.BindEnvAndSetDefault("shutdown.max_total_s", 30)

	// AWS clients
	config.BindEnvAndSetDefault("aws.region", "")
	config.BindEnvAndSetDefault("aws.endpoint_url", "")
	config.BindEnvAndSetDefault("aws.access_key_id", "")
	config.BindEnvAndSetDefault("aws.secret_access_key", "")

	// Logging
	config.BindEnvAndSetDefault("log_level", "info")
	config.BindEnvAndSetDefault("log_file", "")
	config.BindEnvAndSetDefault("log_format_json", false)
	config.BindEnvAndSetDefault("log_to_console", true)
}

// Load reads the config file when one was set and reports keys the file
// carries that no default declared.
func Load(config Config) error {
	if err := config.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Infof("no config file found, relying on env and defaults")
			return nil
		}
		return fmt.Errorf("unable to load config file: %w", err)
	}
	if used := config.ConfigFileUsed(); used != "" {
		log.Infof("config file used: %s", used)
	}
	for _, key := range findUnknownKeys(config) {
		log.Warnf("unknown key in config file: %s", key)
	}
	return nil
}

func findUnknownKeys(config Config) []string {
	var unknownKeys []string
	knownKeys := config.GetKnownKeys()
	for _, key := range config.AllKeys() {
		if _, found := knownKeys[key]; !found {
			unknownKeys = append(unknownKeys, key)
		}
	}
	return unknownKeys
}
