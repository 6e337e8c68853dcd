// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package sender

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/util/log"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/client"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/message"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/metrics"
)

func (s *Sender) runPublisher() {
	defer s.pubWG.Done()
	for batch := range s.batches {
		s.publish(batch)
	}
}

// publish drives one batch to a terminal outcome: every record either gets a
// per-record acknowledgement or is given up after the retry budget. Retries
// resend only the still-failing subset, in their original order.
func (s *Sender) publish(batch *Batch) {
	select {
	case <-s.abort:
		s.lose(batch.Records)
		return
	default:
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.cfg.RetryBackoff
	bo.RandomizationFactor = 0.2
	bo.Multiplier = 2
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0
	bo.Reset()

	records := batch.Records
	published := 0

	for attempt := 0; ; attempt++ {
		results, err := s.putBatch(records)

		var failed []*message.Record
		if err != nil {
			if !client.IsRetryable(err) {
				log.Errorc("batch publish failed terminally",
					"batch_seq", batch.Seq, "stream", s.cfg.StreamName, "error", err.Error())
				s.giveUp(batch, records)
				s.finish(batch, published > 0)
				return
			}
			log.Warnf("batch %d publish attempt %d failed: %v", batch.Seq, attempt+1, err)
			failed = records
		} else {
			var ok int
			failed, ok = s.applyResults(records, results)
			published += ok
		}

		if len(failed) == 0 {
			s.finish(batch, true)
			return
		}
		if attempt >= s.cfg.MaxRetries {
			s.giveUp(batch, failed)
			s.finish(batch, published > 0)
			return
		}

		metrics.PublishRetries.Add(1)
		metrics.TlmPublishRetries.Inc()
		records = failed

		select {
		case <-s.clock.After(bo.NextBackOff()):
		case <-s.abort:
			s.lose(records)
			s.finish(batch, published > 0)
			return
		}
	}
}

func (s *Sender) putBatch(records []*message.Record) ([]client.RecordResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.PublishTimeout)
	defer cancel()
	return s.stream.PutBatch(ctx, s.cfg.StreamName, records)
}

// applyResults settles per-record outcomes: acknowledged records leave the
// pending accounting, retryable failures are collected in order, terminal
// failures are given up on the spot.
func (s *Sender) applyResults(records []*message.Record, results []client.RecordResult) ([]*message.Record, int) {
	if len(results) != len(records) {
		log.Warnf("delivery stream returned %d results for %d records, retrying whole batch",
			len(results), len(records))
		return records, 0
	}

	var failed []*message.Record
	published := 0
	for i, res := range results {
		rec := records[i]
		switch {
		case res.OK:
			s.subPending(rec.Size())
			published++
		case res.Retryable:
			failed = append(failed, rec)
		default:
			metrics.PublishGaveUp.Add(1)
			metrics.TlmPublishGaveUp.Inc()
			s.subPending(rec.Size())
			log.Errorc("record rejected by delivery stream",
				"error_code", res.ErrorCode, "bssid", rec.BSSID, "batch_id", rec.ProcessingBatchID)
		}
	}

	if published > 0 {
		metrics.RecordsPublished.Add(int64(published))
		metrics.TlmRecordsPublished.Add(float64(published))
	}
	return failed, published
}

func (s *Sender) giveUp(batch *Batch, records []*message.Record) {
	metrics.PublishGaveUp.Add(int64(len(records)))
	metrics.TlmPublishGaveUp.Add(float64(len(records)))
	for _, rec := range records {
		s.subPending(rec.Size())
	}
	log.Errorc("dropping records after exhausting publish retries",
		"count", len(records), "batch_seq", batch.Seq, "stream", s.cfg.StreamName)
}

// lose drops records cut off by the shutdown deadline. They are lost to this
// process, not retried.
func (s *Sender) lose(records []*message.Record) {
	metrics.LostOnShutdown.Add(int64(len(records)))
	metrics.TlmLostOnShutdown.Add(float64(len(records)))
	for _, rec := range records {
		s.subPending(rec.Size())
	}
	log.Errorf("abandoning %d records past the publish drain deadline", len(records))
}

func (s *Sender) finish(batch *Batch, anyPublished bool) {
	if anyPublished {
		metrics.BatchesPublished.Add(1)
		metrics.TlmBatchesPublished.Inc()
	}
	log.Debugf("batch %d settled: records=%d bytes=%d", batch.Seq, len(batch.Records), batch.Bytes)
}
