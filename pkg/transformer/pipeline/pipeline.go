// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package pipeline assembles the processing stages into one runnable unit
// and owns their ordered startup and drain.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/client"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/codec"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/consumer"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/filter"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/sender"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/transform"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/worker"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/util/log"
)

// Pipeline ties the consumer, worker and sender together. Records flow
// consumer -> worker -> sender; shutdown drains them in the same order.
type Pipeline struct {
	settings Settings
	sender   *sender.Sender
	consumer *consumer.Consumer
	stopOnce sync.Once
}

// New wires the stages against the given clients. The clients are owned by
// the caller; tests pass fakes.
func New(source client.MessageSource, store client.ObjectStore, stream client.DeliveryStream, settings Settings) (*Pipeline, error) {
	var hotspots filter.OUISet
	if settings.HotspotEnabled {
		set, err := filter.LoadOUIFile(settings.HotspotOUIFile)
		if err != nil {
			return nil, &client.FatalConfigError{Field: "filter.mobile_hotspot.oui_file", Reason: err.Error()}
		}
		hotspots = set
	}

	snd := sender.New(stream, settings.Sender)
	w := worker.New(
		store,
		codec.New(settings.MaxDecodedBytes),
		transform.New(settings.AccuracyThresholdM),
		filter.New(filter.Config{
			AccuracyThresholdM: settings.AccuracyThresholdM,
			Hotspots:           hotspots,
			HotspotAction:      settings.HotspotAction,
		}),
		snd,
		settings.StreamOpts,
	)
	cons := consumer.New(source, w, snd, settings.Consumer)

	return &Pipeline{
		settings: settings,
		sender:   snd,
		consumer: cons,
	}, nil
}

// Start brings the stages up, sink first so no record ever waits on a
// stopped sender.
func (p *Pipeline) Start() {
	p.sender.Start()
	p.consumer.Start()
	log.Info("pipeline started")
}

// Stop drains the pipeline: receives halt, in-flight messages get the
// processing drain budget, then pending records get the publish drain
// budget, all inside the total shutdown budget. Safe to call more than once.
func (p *Pipeline) Stop() {
	p.stopOnce.Do(p.stop)
}

func (p *Pipeline) stop() {
	started := time.Now()
	budget := started.Add(p.settings.ShutdownTimeout)
	log.Info("pipeline stopping: receives halted, draining in-flight work")

	p.consumer.StopReceiving()

	procCtx, cancel := context.WithDeadline(context.Background(), earlier(started.Add(p.settings.ProcessingDrainTimeout), budget))
	// Overrun is counted and logged inside Drain.
	_ = p.consumer.Drain(procCtx)
	cancel()

	pubCtx, cancel := context.WithDeadline(context.Background(), earlier(time.Now().Add(p.settings.PublishDrainTimeout), budget))
	p.sender.Stop(pubCtx)
	cancel()

	log.Infof("pipeline stopped in %s", time.Since(started))
}

// Flush synchronously forms a batch from whatever is pending and hands it
// to the publishers.
func (p *Pipeline) Flush(ctx context.Context) error {
	return p.sender.Flush(ctx)
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
