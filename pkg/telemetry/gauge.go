// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Gauge tracks the value of one health metric of the pipeline.
type Gauge interface {
	// Set stores the value for the given tag values.
	Set(value float64, tagsValue ...string)
	// Inc increments the gauge for the given tag values.
	Inc(tagsValue ...string)
	// Dec decrements the gauge for the given tag values.
	Dec(tagsValue ...string)
	// Add adds the value to the gauge for the given tag values.
	Add(value float64, tagsValue ...string)
	// Sub subtracts the value from the gauge for the given tag values.
	Sub(value float64, tagsValue ...string)
}

type promGauge struct {
	pg *prometheus.GaugeVec
}

// NewGauge creates a Gauge for the subsystem and name, with one label per
// tag.
func NewGauge(subsystem, name string, tags []string, help string) Gauge {
	g := &promGauge{
		pg: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Subsystem: subsystem,
				Name:      name,
				Help:      help,
			},
			tags,
		),
	}
	mustRegister(g.pg)
	return g
}

func (g *promGauge) Set(value float64, tagsValue ...string) {
	g.pg.WithLabelValues(tagsValue...).Set(value)
}

func (g *promGauge) Inc(tagsValue ...string) {
	g.pg.WithLabelValues(tagsValue...).Inc()
}

func (g *promGauge) Dec(tagsValue ...string) {
	g.pg.WithLabelValues(tagsValue...).Dec()
}

func (g *promGauge) Add(value float64, tagsValue ...string) {
	g.pg.WithLabelValues(tagsValue...).Add(value)
}

func (g *promGauge) Sub(value float64, tagsValue ...string) {
	g.pg.WithLabelValues(tagsValue...).Sub(value)
}
