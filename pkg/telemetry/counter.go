// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Counter tracks how many times something is happening.
type Counter interface {
	// Inc increments the counter for the given tag values.
	Inc(tagsValue ...string)
	// Add adds the given value to the counter for the given tag values.
	Add(value float64, tagsValue ...string)
}

type promCounter struct {
	pc *prometheus.CounterVec
}

// NewCounter creates a Counter for the subsystem and name, with one label
// per tag.
func NewCounter(subsystem, name string, tags []string, help string) Counter {
	c := &promCounter{
		pc: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Subsystem: subsystem,
				Name:      name,
				Help:      help,
			},
			tags,
		),
	}
	mustRegister(c.pc)
	return c
}

func (c *promCounter) Inc(tagsValue ...string) {
	c.pc.WithLabelValues(tagsValue...).Inc()
}

func (c *promCounter) Add(value float64, tagsValue ...string) {
	c.pc.WithLabelValues(tagsValue...).Add(value)
}
