// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package transformer boots the WiFi scan measurement pipeline: it reads
// notifications about uploaded scan objects from a queue, streams and
// decodes the objects line by line, turns every observed access point into
// a measurement record and publishes the records in batches to a delivery
// stream.
package transformer

import (
	"context"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/config"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/client/awsx"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/pipeline"
)

// Transformer is the running service.
type Transformer struct {
	pipeline *pipeline.Pipeline
}

// New builds the pipeline from the bound configuration with live AWS
// clients. Configuration problems surface as a FatalConfigError before
// anything is consumed.
func New(ctx context.Context, cfg config.Config) (*Transformer, error) {
	settings, err := pipeline.FromConfig(cfg)
	if err != nil {
		return nil, err
	}

	awsCfg, err := awsx.BuildConfig(ctx, awsx.Settings{
		Region:          cfg.GetString("aws.region"),
		EndpointURL:     cfg.GetString("aws.endpoint_url"),
		AccessKeyID:     cfg.GetString("aws.access_key_id"),
		SecretAccessKey: cfg.GetString("aws.secret_access_key"),
	})
	if err != nil {
		return nil, err
	}
	endpoint := cfg.GetString("aws.endpoint_url")

	p, err := pipeline.New(
		awsx.NewSQSSource(awsCfg, settings.QueueURL, endpoint),
		awsx.NewS3Store(awsCfg, endpoint),
		awsx.NewFirehoseStream(awsCfg, endpoint),
		settings,
	)
	if err != nil {
		return nil, err
	}
	return &Transformer{pipeline: p}, nil
}

// Start brings the pipeline up and begins consuming.
func (t *Transformer) Start() {
	t.pipeline.Start()
}

// Stop drains in-flight work and pending records inside the shutdown
// budget, then returns. Safe to call more than once.
func (t *Transformer) Stop() {
	t.pipeline.Stop()
}

// Flush forces a synchronous batch flush.
func (t *Transformer) Flush(ctx context.Context) error {
	return t.pipeline.Flush(ctx)
}
