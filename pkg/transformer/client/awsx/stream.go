// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package awsx

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/firehose"
	firehosetypes "github.com/aws/aws-sdk-go-v2/service/firehose/types"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/client"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/message"
)

// FirehoseStream implements client.DeliveryStream on Kinesis Data Firehose.
type FirehoseStream struct {
	client *firehose.Client
}

// NewFirehoseStream builds a Firehose-backed delivery stream.
func NewFirehoseStream(cfg aws.Config, endpointURL string) *FirehoseStream {
	c := firehose.NewFromConfig(cfg, func(o *firehose.Options) {
		if endpointURL != "" {
			o.BaseEndpoint = aws.String(endpointURL)
		}
	})
	return &FirehoseStream{
		client: c,
	}
}

// PutBatch implements client.DeliveryStream. Per-record failures come back
// in RequestResponses; a failed entry keeps its slot so results line up
// with the input order.
func (f *FirehoseStream) PutBatch(ctx context.Context, streamName string, records []*message.Record) ([]client.RecordResult, error) {
	entries := make([]firehosetypes.Record, len(records))
	for i, rec := range records {
		entries[i] = firehosetypes.Record{Data: rec.Data}
	}

	out, err := f.client.PutRecordBatch(ctx, &firehose.PutRecordBatchInput{
		DeliveryStreamName: aws.String(streamName),
		Records:            entries,
	})
	if err != nil {
		if isTransient(err) {
			return nil, client.NewRetryableError(fmt.Errorf("put record batch to %s: %w", streamName, err))
		}
		return nil, fmt.Errorf("put record batch to %s: %w", streamName, err)
	}

	results := make([]client.RecordResult, len(records))
	for i, entry := range out.RequestResponses {
		if i >= len(results) {
			break
		}
		code := aws.ToString(entry.ErrorCode)
		if code == "" {
			results[i] = client.RecordResult{OK: true}
			continue
		}
		results[i] = client.RecordResult{
			ErrorCode: code,
			// Firehose rejects individual records only under throughput
			// pressure or internal failure, both worth retrying.
			Retryable: true,
		}
	}
	return results, nil
}
