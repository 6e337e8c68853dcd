// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package filter applies the validity rules that keep junk measurements out
// of the delivery stream. Rules run in a fixed order and the first failure
// wins, so every reject lands in exactly one reason counter.
package filter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/util/log"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/message"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/metrics"
)

// Action is what happens to a measurement whose BSSID matches the mobile
// hotspot OUI set.
type Action string

// Hotspot actions.
const (
	ActionFlag    Action = "FLAG"
	ActionExclude Action = "EXCLUDE"
	ActionLogOnly Action = "LOG_ONLY"
)

// ParseAction validates a configured hotspot action.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToUpper(strings.TrimSpace(s))); a {
	case ActionFlag, ActionExclude, ActionLogOnly:
		return a, nil
	default:
		return "", fmt.Errorf("unknown mobile hotspot action %q", s)
	}
}

var bssidShape = regexp.MustCompile(`^[0-9A-Fa-f]{2}(:[0-9A-Fa-f]{2}){5}$`)

// Measurements older than this are clock garbage, not data.
var minValidTimestamp = time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)

// maxClockSkew tolerates reporter clocks running ahead of ours.
const maxClockSkew = 24 * time.Hour

// Config carries the filter knobs.
type Config struct {
	// AccuracyThresholdM rejects fixes with a worse reported accuracy, in
	// meters.
	AccuracyThresholdM float64
	// Hotspots is the mobile hotspot OUI set; nil disables the policy.
	Hotspots OUISet
	// HotspotAction applies when Hotspots matches.
	HotspotAction Action
}

// Filter evaluates measurements. Safe for concurrent use.
type Filter struct {
	accuracyThreshold float64
	hotspots          OUISet
	hotspotAction     Action
	clock             clock.Clock
}

// New returns a filter for the given configuration.
func New(cfg Config) *Filter {
	return newWithClock(cfg, clock.New())
}

func newWithClock(cfg Config, clk clock.Clock) *Filter {
	return &Filter{
		accuracyThreshold: cfg.AccuracyThresholdM,
		hotspots:          cfg.Hotspots,
		hotspotAction:     cfg.HotspotAction,
		clock:             clk,
	}
}

// Accept reports whether the measurement may be published, updating the
// reject counters and the hotspot marking as a side effect.
func (f *Filter) Accept(m *message.Measurement) bool {
	switch {
	case !bssidShape.MatchString(m.BSSID):
		return f.reject(m, metrics.ReasonBssid)
	case !validCoordinates(m):
		return f.reject(m, metrics.ReasonCoordinates)
	case m.RSSI == nil || *m.RSSI < -100 || *m.RSSI > 0:
		return f.reject(m, metrics.ReasonRssi)
	case m.LocationAccuracy == nil || *m.LocationAccuracy > f.accuracyThreshold:
		return f.reject(m, metrics.ReasonAccuracy)
	case !f.validTimestamp(m.MeasurementTimestamp):
		return f.reject(m, metrics.ReasonTimestamp)
	}

	if f.hotspots != nil && f.hotspots.Contains(OUI(m.BSSID)) && !f.applyHotspotAction(m) {
		return false
	}

	metrics.MeasurementsAccepted.Add(1)
	metrics.TlmMeasurementsAccepted.Inc()
	return true
}

func (f *Filter) reject(m *message.Measurement, reason string) bool {
	metrics.FilterReject(reason)
	log.Tracef("measurement rejected: reason=%s bssid=%s batch=%s", reason, m.BSSID, m.ProcessingBatchID)
	return false
}

// applyHotspotAction reports whether the matched measurement is kept.
func (f *Filter) applyHotspotAction(m *message.Measurement) bool {
	switch f.hotspotAction {
	case ActionExclude:
		metrics.HotspotExcluded.Add(1)
		metrics.TlmHotspotExcluded.Inc()
		return false
	case ActionLogOnly:
		metrics.HotspotLogged.Add(1)
		metrics.TlmHotspotLogged.Inc()
		log.Infoc("mobile hotspot observed", "bssid", m.BSSID, "batch_id", m.ProcessingBatchID)
		return true
	default:
		marked := true
		m.MobileHotspot = &marked
		metrics.HotspotFlagged.Add(1)
		metrics.TlmHotspotFlagged.Inc()
		return true
	}
}

func validCoordinates(m *message.Measurement) bool {
	if m.Latitude == nil || m.Longitude == nil {
		return false
	}
	lat, lon := *m.Latitude, *m.Longitude
	if !(lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180) {
		return false
	}
	// (0, 0) is the null island default of lost GPS fixes.
	return lat != 0 || lon != 0
}

func (f *Filter) validTimestamp(millis int64) bool {
	ts := time.UnixMilli(millis)
	return !ts.Before(minValidTimestamp) && !ts.After(f.clock.Now().Add(maxClockSkew))
}

// OUI extracts the vendor prefix of a BSSID, uppercased without separators.
// "aa:bb:cc:dd:ee:ff" becomes "AABBCC".
func OUI(bssid string) string {
	var b strings.Builder
	b.Grow(6)
	for i := 0; i < len(bssid) && b.Len() < 6; i++ {
		c := bssid[i]
		switch {
		case c >= '0' && c <= '9', c >= 'A' && c <= 'F':
			b.WriteByte(c)
		case c >= 'a' && c <= 'f':
			b.WriteByte(c - 'a' + 'A')
		}
	}
	return b.String()
}
