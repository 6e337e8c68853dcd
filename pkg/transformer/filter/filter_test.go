// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package filter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/message"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/metrics"
)

var testNow = time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC)

func testFilter(cfg Config) *Filter {
	if cfg.AccuracyThresholdM == 0 {
		cfg.AccuracyThresholdM = 150
	}
	clk := clock.NewMock()
	clk.Set(testNow)
	return newWithClock(cfg, clk)
}

func validMeasurement() *message.Measurement {
	lat, lon, acc := 40.7128, -74.006, 20.0
	rssi := -65
	return &message.Measurement{
		BSSID:                "AA:BB:CC:DD:EE:01",
		Latitude:             &lat,
		Longitude:            &lon,
		LocationAccuracy:     &acc,
		RSSI:                 &rssi,
		MeasurementTimestamp: testNow.Add(-time.Hour).UnixMilli(),
	}
}

func TestAcceptValid(t *testing.T) {
	f := testFilter(Config{})
	before := metrics.MeasurementsAccepted.Value()
	assert.True(t, f.Accept(validMeasurement()))
	assert.Equal(t, before+1, metrics.MeasurementsAccepted.Value())
}

func TestRejectMatrix(t *testing.T) {
	f := testFilter(Config{})

	fptr := func(v float64) *float64 { return &v }
	iptr := func(v int) *int { return &v }

	cases := []struct {
		name   string
		mutate func(*message.Measurement)
		reason string
	}{
		{"empty bssid", func(m *message.Measurement) { m.BSSID = "" }, metrics.ReasonBssid},
		{"short bssid", func(m *message.Measurement) { m.BSSID = "AA:BB:CC:DD:EE" }, metrics.ReasonBssid},
		{"non-hex bssid", func(m *message.Measurement) { m.BSSID = "GG:BB:CC:DD:EE:01" }, metrics.ReasonBssid},
		{"unseparated bssid", func(m *message.Measurement) { m.BSSID = "AABBCCDDEE01" }, metrics.ReasonBssid},
		{"nil latitude", func(m *message.Measurement) { m.Latitude = nil }, metrics.ReasonCoordinates},
		{"nil longitude", func(m *message.Measurement) { m.Longitude = nil }, metrics.ReasonCoordinates},
		{"latitude out of range", func(m *message.Measurement) { m.Latitude = fptr(90.5) }, metrics.ReasonCoordinates},
		{"longitude out of range", func(m *message.Measurement) { m.Longitude = fptr(-180.5) }, metrics.ReasonCoordinates},
		{"null island", func(m *message.Measurement) { m.Latitude, m.Longitude = fptr(0), fptr(0) }, metrics.ReasonCoordinates},
		{"nil rssi", func(m *message.Measurement) { m.RSSI = nil }, metrics.ReasonRssi},
		{"rssi too low", func(m *message.Measurement) { m.RSSI = iptr(-101) }, metrics.ReasonRssi},
		{"rssi positive", func(m *message.Measurement) { m.RSSI = iptr(1) }, metrics.ReasonRssi},
		{"nil accuracy", func(m *message.Measurement) { m.LocationAccuracy = nil }, metrics.ReasonAccuracy},
		{"accuracy over threshold", func(m *message.Measurement) { m.LocationAccuracy = fptr(150.5) }, metrics.ReasonAccuracy},
		{"timestamp too old", func(m *message.Measurement) {
			m.MeasurementTimestamp = time.Date(2009, 12, 31, 23, 59, 59, 0, time.UTC).UnixMilli()
		}, metrics.ReasonTimestamp},
		{"timestamp in the future", func(m *message.Measurement) {
			m.MeasurementTimestamp = testNow.Add(25 * time.Hour).UnixMilli()
		}, metrics.ReasonTimestamp},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := validMeasurement()
			tc.mutate(m)

			before := reasonCount(tc.reason)
			assert.False(t, f.Accept(m))
			assert.Equal(t, before+1, reasonCount(tc.reason))
		})
	}
}

func reasonCount(reason string) int64 {
	switch reason {
	case metrics.ReasonBssid:
		return metrics.FilteredBssid.Value()
	case metrics.ReasonCoordinates:
		return metrics.FilteredCoordinates.Value()
	case metrics.ReasonRssi:
		return metrics.FilteredRssi.Value()
	case metrics.ReasonAccuracy:
		return metrics.FilteredAccuracy.Value()
	default:
		return metrics.FilteredTimestamp.Value()
	}
}

func TestFirstFailureWins(t *testing.T) {
	f := testFilter(Config{})
	m := validMeasurement()
	m.BSSID = "bogus"
	m.RSSI = nil

	bssidBefore := metrics.FilteredBssid.Value()
	rssiBefore := metrics.FilteredRssi.Value()

	assert.False(t, f.Accept(m))
	assert.Equal(t, bssidBefore+1, metrics.FilteredBssid.Value())
	assert.Equal(t, rssiBefore, metrics.FilteredRssi.Value())
}

func TestBoundaryValues(t *testing.T) {
	f := testFilter(Config{})

	fptr := func(v float64) *float64 { return &v }
	iptr := func(v int) *int { return &v }

	m := validMeasurement()
	m.Latitude, m.Longitude = fptr(90), fptr(-180)
	m.RSSI = iptr(-100)
	m.LocationAccuracy = fptr(150)
	m.MeasurementTimestamp = minValidTimestamp.UnixMilli()
	assert.True(t, f.Accept(m))

	m = validMeasurement()
	m.RSSI = iptr(0)
	m.MeasurementTimestamp = testNow.Add(24 * time.Hour).UnixMilli()
	assert.True(t, f.Accept(m))
}

func TestHotspotFlag(t *testing.T) {
	f := testFilter(Config{
		Hotspots:      NewStaticOUISet("AA:BB:CC"),
		HotspotAction: ActionFlag,
	})

	before := metrics.HotspotFlagged.Value()
	m := validMeasurement()
	assert.True(t, f.Accept(m))
	require.NotNil(t, m.MobileHotspot)
	assert.True(t, *m.MobileHotspot)
	assert.Equal(t, before+1, metrics.HotspotFlagged.Value())

	// Non-matching OUI stays unmarked.
	m = validMeasurement()
	m.BSSID = "11:22:33:DD:EE:01"
	assert.True(t, f.Accept(m))
	assert.Nil(t, m.MobileHotspot)
}

func TestHotspotExclude(t *testing.T) {
	f := testFilter(Config{
		Hotspots:      NewStaticOUISet("aa-bb-cc"),
		HotspotAction: ActionExclude,
	})

	before := metrics.HotspotExcluded.Value()
	assert.False(t, f.Accept(validMeasurement()))
	assert.Equal(t, before+1, metrics.HotspotExcluded.Value())
}

func TestHotspotLogOnly(t *testing.T) {
	f := testFilter(Config{
		Hotspots:      NewStaticOUISet("AABBCC"),
		HotspotAction: ActionLogOnly,
	})

	before := metrics.HotspotLogged.Value()
	m := validMeasurement()
	assert.True(t, f.Accept(m))
	assert.Nil(t, m.MobileHotspot)
	assert.Equal(t, before+1, metrics.HotspotLogged.Value())
}

func TestHotspotDisabled(t *testing.T) {
	f := testFilter(Config{})
	m := validMeasurement()
	assert.True(t, f.Accept(m))
	assert.Nil(t, m.MobileHotspot)
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("flag")
	require.NoError(t, err)
	assert.Equal(t, ActionFlag, a)

	a, err = ParseAction(" LOG_ONLY ")
	require.NoError(t, err)
	assert.Equal(t, ActionLogOnly, a)

	_, err = ParseAction("drop")
	assert.Error(t, err)
}

func TestOUI(t *testing.T) {
	assert.Equal(t, "AABBCC", OUI("aa:bb:cc:dd:ee:ff"))
	assert.Equal(t, "AABBCC", OUI("AA-BB-CC-11-22-33"))
	assert.Equal(t, "AABBCC", OUI("aabbcc"))
	assert.Equal(t, "AB", OUI("ab"))
}

func TestLoadOUIFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hotspots.txt")
	content := `# mobile hotspot vendors
AA:BB:CC
00-1A-2B   (hex)  Phone Maker Inc
d83062

not-an-oui
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	set, err := LoadOUIFile(path)
	require.NoError(t, err)

	assert.True(t, set.Contains("AABBCC"))
	assert.True(t, set.Contains("001A2B"))
	assert.True(t, set.Contains("D83062"))
	assert.False(t, set.Contains("112233"))
}

func TestLoadOUIFileMissing(t *testing.T) {
	_, err := LoadOUIFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
