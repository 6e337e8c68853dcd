// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package transform explodes scan payloads into normalized measurements.
// A connected event yields one CONNECTED-tier measurement, a scan sweep one
// SCAN-tier measurement per sighted access point, a disconnected event only
// a counter tick.
package transform

import (
	"strings"

	"github.com/benbjohnson/clock"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/message"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/metrics"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/scanparse"
)

// Transformer expands payloads into measurement candidates. Validity is the
// filter's business; the transformer emits whatever the payload carries so
// every reject is counted under its own reason.
type Transformer struct {
	accuracyThreshold float64
	clock             clock.Clock
}

// New returns a transformer scoring quality against accuracyThreshold
// meters.
func New(accuracyThreshold float64) *Transformer {
	return newWithClock(accuracyThreshold, clock.New())
}

func newWithClock(accuracyThreshold float64, clk clock.Clock) *Transformer {
	return &Transformer{
		accuracyThreshold: accuracyThreshold,
		clock:             clk,
	}
}

// Emit produces the measurement candidates of one payload, in source order:
// connected events first, then scan sweeps entry by entry. Every measurement
// carries the upload event's provenance and the object's processing batch
// id; ingestion_timestamp is stamped per record at emission.
func (t *Transformer) Emit(payload *scanparse.ScanPayload, ev *message.UploadEvent, batchID string) []*message.Measurement {
	out := make([]*message.Measurement, 0, len(payload.ConnectedEvents)+scanEntryCount(payload))

	for i := range payload.ConnectedEvents {
		out = append(out, t.fromConnected(payload, &payload.ConnectedEvents[i], ev, batchID))
		metrics.ConnectedMeasurements.Add(1)
		metrics.TlmConnectedMeasurements.Inc()
	}

	for i := range payload.ScanResults {
		sweep := &payload.ScanResults[i]
		for j := range sweep.Results {
			out = append(out, t.fromScanEntry(payload, sweep, &sweep.Results[j], ev, batchID))
			metrics.ScanMeasurements.Add(1)
			metrics.TlmScanMeasurements.Inc()
		}
	}

	if n := len(payload.DisconnectedEvents); n > 0 {
		metrics.DisconnectedEvents.Add(int64(n))
		metrics.TlmDisconnectedEvents.Add(float64(n))
	}

	metrics.MeasurementsEmitted.Add(int64(len(out)))
	metrics.TlmMeasurementsEmitted.Add(float64(len(out)))
	return out
}

func (t *Transformer) fromConnected(payload *scanparse.ScanPayload, ev *scanparse.ConnectedEvent, upload *message.UploadEvent, batchID string) *message.Measurement {
	m := t.base(payload, upload, batchID)
	m.ConnectionStatus = message.StatusConnected
	m.QualityWeight = message.ConnectedWeight

	ts, _ := ev.Timestamp.Value()
	m.MeasurementTimestamp = ts
	applyLocation(m, ev.Location)

	if info := ev.WifiInfo; info != nil {
		m.BSSID = normalizeBSSID(info.BSSID.String())
		m.SSID = info.SSID.String()
		m.RSSI = info.RSSI.IntPtr()
		m.Frequency = info.Frequency.IntPtr()
		m.LinkSpeed = info.LinkSpeed.IntPtr()
		m.ChannelWidth = info.ChannelWidth.IntPtr()
		m.CenterFreq0 = info.CenterFreq0.IntPtr()
		m.CenterFreq1 = info.CenterFreq1.IntPtr()
		m.Capabilities = info.Capabilities.String()
		m.Is80211mcResponder = info.Is80211mcResponder.Ptr()
		m.IsPasspointNetwork = info.IsPasspointNetwork.Ptr()
		m.OperatorFriendlyName = info.OperatorFriendly.String()
		m.VenueName = info.VenueName.String()
		m.IsCaptive = info.IsCaptive.Ptr()
	}
	m.NumScanResults = ev.NumScanResults.IntPtr()

	m.QualityScore = t.score(m.QualityWeight, m.LocationAccuracy)
	return m
}

func (t *Transformer) fromScanEntry(payload *scanparse.ScanPayload, sweep *scanparse.ScanResult, entry *scanparse.ScanEntry, upload *message.UploadEvent, batchID string) *message.Measurement {
	m := t.base(payload, upload, batchID)
	m.ConnectionStatus = message.StatusScan
	m.QualityWeight = message.ScanWeight

	ts, _ := sweep.Timestamp.Value()
	m.MeasurementTimestamp = ts
	applyLocation(m, sweep.Location)

	m.BSSID = normalizeBSSID(entry.BSSID.String())
	m.SSID = entry.SSID.String()
	m.RSSI = entry.RSSI.IntPtr()
	m.Frequency = entry.Frequency.IntPtr()
	m.ScanTimestamp = entry.ScanTimestamp.Ptr()

	m.QualityScore = t.score(m.QualityWeight, m.LocationAccuracy)
	return m
}

func (t *Transformer) base(payload *scanparse.ScanPayload, upload *message.UploadEvent, batchID string) *message.Measurement {
	return &message.Measurement{
		EventID:            upload.EventID,
		OSName:             payload.OSName.String(),
		OSVersion:          payload.OSVersion.String(),
		Model:              payload.Model.String(),
		Manufacturer:       payload.Manufacturer.String(),
		AppNameVersion:     payload.AppNameVersion.String(),
		DataVersion:        payload.DataVersion.String(),
		IngestionTimestamp: t.clock.Now().UnixMilli(),
		ProcessingBatchID:  batchID,
		StreamName:         upload.StreamName,
		ObjectKey:          upload.ObjectKey,
	}
}

// score grades a measurement by position quality: full weight at perfect
// accuracy, floored at a tenth of the weight, half weight when the fix
// carries no accuracy at all.
func (t *Transformer) score(weight float64, accuracy *float64) float64 {
	if accuracy == nil {
		return weight * 0.5
	}
	frac := 1 - *accuracy/t.accuracyThreshold
	if frac < 0.1 {
		frac = 0.1
	}
	return weight * frac
}

func applyLocation(m *message.Measurement, loc *scanparse.Location) {
	if loc == nil {
		return
	}
	m.Latitude = loc.Latitude.Ptr()
	m.Longitude = loc.Longitude.Ptr()
	m.Altitude = loc.Altitude.Ptr()
	m.LocationAccuracy = loc.Accuracy.Ptr()
	m.Speed = loc.Speed.Ptr()
	m.Bearing = loc.Bearing.Ptr()
	m.LocationProvider = loc.Provider.String()
	m.LocationSource = loc.Source.String()
	m.LocationTimestamp = loc.Timestamp.Ptr()
}

func normalizeBSSID(bssid string) string {
	return strings.ToUpper(strings.TrimSpace(bssid))
}

func scanEntryCount(payload *scanparse.ScanPayload) int {
	n := 0
	for i := range payload.ScanResults {
		n += len(payload.ScanResults[i].Results)
	}
	return n
}
