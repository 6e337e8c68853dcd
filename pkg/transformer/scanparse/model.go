// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package scanparse

// ScanPayload is one decoded device report: device metadata plus the three
// event arrays. Missing arrays stay nil and range as empty. Unknown fields
// on the wire are ignored.
type ScanPayload struct {
	OSName         FlexString `json:"osName"`
	OSVersion      FlexString `json:"osVersion"`
	Model          FlexString `json:"model"`
	Manufacturer   FlexString `json:"manufacturer"`
	AppNameVersion FlexString `json:"appNameVersion"`
	DataVersion    FlexString `json:"dataVersion"`

	ConnectedEvents    []ConnectedEvent    `json:"wifiConnectedEvents"`
	DisconnectedEvents []DisconnectedEvent `json:"wifiDisconnectedEvents"`
	ScanResults        []ScanResult        `json:"wifiScanResults"`
}

// Location is a device position fix attached to an event. Timestamp is the
// fix time in epoch milliseconds, distinct from the event timestamp.
type Location struct {
	Latitude  FlexFloat  `json:"latitude"`
	Longitude FlexFloat  `json:"longitude"`
	Altitude  FlexFloat  `json:"altitude"`
	Accuracy  FlexFloat  `json:"accuracy"`
	Speed     FlexFloat  `json:"speed"`
	Bearing   FlexFloat  `json:"bearing"`
	Provider  FlexString `json:"provider"`
	Source    FlexString `json:"source"`
	Timestamp FlexInt    `json:"timestamp"`
}

// ConnectedEvent is an active association observation: the device was joined
// to this access point when the event fired.
type ConnectedEvent struct {
	Timestamp      FlexInt            `json:"timestamp"`
	Location       *Location          `json:"location"`
	WifiInfo       *ConnectedWifiInfo `json:"wifiConnectedInfo"`
	NumScanResults FlexInt            `json:"numScanResults"`
}

// ConnectedWifiInfo carries the link-level fields only an active association
// exposes.
type ConnectedWifiInfo struct {
	BSSID              FlexString `json:"bssid"`
	SSID               FlexString `json:"ssid"`
	RSSI               FlexInt    `json:"rssi"`
	Frequency          FlexInt    `json:"frequency"`
	LinkSpeed          FlexInt    `json:"linkSpeed"`
	ChannelWidth       FlexInt    `json:"channelWidth"`
	CenterFreq0        FlexInt    `json:"centerFreq0"`
	CenterFreq1        FlexInt    `json:"centerFreq1"`
	Capabilities       FlexString `json:"capabilities"`
	Is80211mcResponder FlexBool   `json:"is80211mcResponder"`
	IsPasspointNetwork FlexBool   `json:"isPasspointNetwork"`
	OperatorFriendly   FlexString `json:"operatorFriendlyName"`
	VenueName          FlexString `json:"venueName"`
	IsCaptive          FlexBool   `json:"isCaptive"`
}

// DisconnectedEvent records the end of an association. Observed for metrics
// only; no measurement is derived from it.
type DisconnectedEvent struct {
	Timestamp FlexInt    `json:"timestamp"`
	BSSID     FlexString `json:"bssid"`
	SSID      FlexString `json:"ssid"`
}

// ScanResult is one passive scan sweep: a position fix plus every access
// point the radio saw from it.
type ScanResult struct {
	Timestamp FlexInt     `json:"timestamp"`
	Location  *Location   `json:"location"`
	Results   []ScanEntry `json:"results"`
}

// ScanEntry is a single access point sighting inside a sweep.
type ScanEntry struct {
	BSSID         FlexString `json:"bssid"`
	SSID          FlexString `json:"ssid"`
	RSSI          FlexInt    `json:"rssi"`
	Frequency     FlexInt    `json:"frequency"`
	ScanTimestamp FlexInt    `json:"scanTimestamp"`
}
