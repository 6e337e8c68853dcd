// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package message

// Connection tiers. A connected-event observation carries twice the weight
// of a passive scan entry.
const (
	StatusConnected = "CONNECTED"
	StatusScan      = "SCAN"

	ConnectedWeight = 2.0
	ScanWeight      = 1.0
)

// Measurement is one normalized WiFi observation: one access point seen at
// one location at one time. SCAN-tier records leave the connected-only
// enrichment nil so it is omitted from the serialized form; the
// global-outlier fields stay null until the downstream stage fills them.
type Measurement struct {
	// Identity
	BSSID                string `json:"bssid"`
	MeasurementTimestamp int64  `json:"measurement_timestamp"`
	EventID              string `json:"event_id"`

	// Location block
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	Altitude          *float64 `json:"altitude,omitempty"`
	LocationAccuracy  *float64 `json:"location_accuracy"`
	LocationProvider  string   `json:"location_provider,omitempty"`
	LocationSource    string   `json:"location_source,omitempty"`
	Speed             *float64 `json:"speed,omitempty"`
	Bearing           *float64 `json:"bearing,omitempty"`
	LocationTimestamp *int64   `json:"location_timestamp,omitempty"`

	// Signal block
	SSID          string `json:"ssid,omitempty"`
	RSSI          *int   `json:"rssi"`
	Frequency     *int   `json:"frequency,omitempty"`
	ScanTimestamp *int64 `json:"scan_timestamp,omitempty"`

	// Connection tier
	ConnectionStatus string  `json:"connection_status"`
	QualityWeight    float64 `json:"quality_weight"`

	// Connected-only enrichment
	LinkSpeed            *int   `json:"link_speed,omitempty"`
	ChannelWidth         *int   `json:"channel_width,omitempty"`
	CenterFreq0          *int   `json:"center_freq0,omitempty"`
	CenterFreq1          *int   `json:"center_freq1,omitempty"`
	Capabilities         string `json:"capabilities,omitempty"`
	Is80211mcResponder   *bool  `json:"is_80211mc_responder,omitempty"`
	IsPasspointNetwork   *bool  `json:"is_passpoint_network,omitempty"`
	OperatorFriendlyName string `json:"operator_friendly_name,omitempty"`
	VenueName            string `json:"venue_name,omitempty"`
	IsCaptive            *bool  `json:"is_captive,omitempty"`
	NumScanResults       *int   `json:"num_scan_results,omitempty"`

	// Device metadata
	OSName         string `json:"os_name,omitempty"`
	OSVersion      string `json:"os_version,omitempty"`
	Model          string `json:"model,omitempty"`
	Manufacturer   string `json:"manufacturer,omitempty"`
	AppNameVersion string `json:"app_name_version,omitempty"`

	// Provenance
	IngestionTimestamp int64   `json:"ingestion_timestamp"`
	DataVersion        string  `json:"data_version,omitempty"`
	ProcessingBatchID  string  `json:"processing_batch_id"`
	QualityScore       float64 `json:"quality_score"`
	StreamName         string  `json:"stream_name,omitempty"`
	ObjectKey          string  `json:"object_key,omitempty"`
	MobileHotspot      *bool   `json:"mobile_hotspot,omitempty"`

	// Filled by the downstream outlier stage, null here.
	IsGlobalOutlier   *bool    `json:"is_global_outlier"`
	OutlierDistanceKm *float64 `json:"outlier_distance_km"`
}
