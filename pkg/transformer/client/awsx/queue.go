// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package awsx

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/client"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/message"
)

// The SDK types attribute names oddly, so spell the one we need as a const.
// https://github.com/aws/aws-sdk-go-v2/issues/2124
const receiveCountAttribute = "ApproximateReceiveCount"

// SQSSource implements client.MessageSource on one SQS queue.
type SQSSource struct {
	client   *sqs.Client
	queueURL string
}

// NewSQSSource builds an SQS-backed message source for the queue URL.
func NewSQSSource(cfg aws.Config, queueURL, endpointURL string) *SQSSource {
	c := sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if endpointURL != "" {
			o.BaseEndpoint = aws.String(endpointURL)
		}
	})
	return &SQSSource{
		client:   c,
		queueURL: queueURL,
	}
}

// Receive implements client.MessageSource.
func (s *SQSSource) Receive(ctx context.Context, maxMessages, waitSeconds, visibilityTimeoutSeconds int) ([]*message.Message, error) {
	out, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(s.queueURL),
		MaxNumberOfMessages: int32(maxMessages),
		WaitTimeSeconds:     int32(waitSeconds),
		VisibilityTimeout:   int32(visibilityTimeoutSeconds),
		AttributeNames:      []sqstypes.QueueAttributeName{receiveCountAttribute},
	})
	if err != nil {
		if isTransient(err) {
			return nil, client.NewRetryableError(fmt.Errorf("receive: %w", err))
		}
		return nil, fmt.Errorf("receive: %w", err)
	}

	msgs := make([]*message.Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		receiveCount := 0
		if v, ok := m.Attributes[receiveCountAttribute]; ok {
			receiveCount, _ = strconv.Atoi(v)
		}
		msgs = append(msgs, &message.Message{
			ID:            aws.ToString(m.MessageId),
			Body:          []byte(aws.ToString(m.Body)),
			ReceiptHandle: aws.ToString(m.ReceiptHandle),
			ReceiveCount:  receiveCount,
		})
	}
	return msgs, nil
}

// ExtendVisibility implements client.MessageSource.
func (s *SQSSource) ExtendVisibility(ctx context.Context, receiptHandle string, seconds int) error {
	_, err := s.client.ChangeMessageVisibility(ctx, &sqs.ChangeMessageVisibilityInput{
		QueueUrl:          aws.String(s.queueURL),
		ReceiptHandle:     aws.String(receiptHandle),
		VisibilityTimeout: int32(seconds),
	})
	if err != nil {
		return client.NewRetryableError(fmt.Errorf("extend visibility: %w", err))
	}
	return nil
}

// Ack implements client.MessageSource.
func (s *SQSSource) Ack(ctx context.Context, receiptHandle string) error {
	_, err := s.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(s.queueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		if isTransient(err) {
			return client.NewRetryableError(fmt.Errorf("ack: %w", err))
		}
		return fmt.Errorf("ack: %w", err)
	}
	return nil
}

// Nack implements client.MessageSource. Resetting the visibility timeout
// makes the message deliverable again after delaySeconds.
func (s *SQSSource) Nack(ctx context.Context, receiptHandle string, delaySeconds int) error {
	_, err := s.client.ChangeMessageVisibility(ctx, &sqs.ChangeMessageVisibilityInput{
		QueueUrl:          aws.String(s.queueURL),
		ReceiptHandle:     aws.String(receiptHandle),
		VisibilityTimeout: int32(delaySeconds),
	})
	if err != nil {
		return client.NewRetryableError(fmt.Errorf("nack: %w", err))
	}
	return nil
}
