// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package sender

import (
	"time"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/util/log"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/message"
)

// runBatcher is the single owner of the record buffer. Every mutation
// happens on this goroutine; the rest of the pipeline only talks to it
// through channels.
func (s *Sender) runBatcher() {
	defer close(s.batcherDone)
	defer close(s.batches)

	var (
		buffer   = newRecordBuffer(s.cfg.MaxRecordsPerBatch, s.cfg.MaxBatchBytes)
		seq      uint64
		firstAdd time.Time
	)

	flush := func() {
		if buffer.isEmpty() {
			return
		}
		records := make([]*message.Record, len(buffer.getRecords()))
		copy(records, buffer.getRecords())
		batch := &Batch{Seq: seq, Records: records, Bytes: buffer.size()}
		seq++
		buffer.clear()
		firstAdd = time.Time{}
		s.batches <- batch
	}

	add := func(rec *message.Record) {
		if !buffer.addRecord(rec) {
			flush()
			if !buffer.addRecord(rec) {
				// Unreachable when record and batch limits are coherent;
				// drop rather than deadlock if they are not.
				log.Errorf("record of %d bytes cannot fit an empty batch, dropping", rec.Size())
				s.subPending(rec.Size())
				return
			}
		}
		if firstAdd.IsZero() {
			firstAdd = s.clock.Now()
		}
		if buffer.isFull() {
			flush()
		}
	}

	ticker := s.clock.Ticker(tickInterval(s.cfg.BatchTimeout))
	defer ticker.Stop()

	for {
		select {
		case rec := <-s.in:
			add(rec)

		case <-ticker.C:
			if !firstAdd.IsZero() && s.clock.Since(firstAdd) >= s.cfg.BatchTimeout {
				flush()
			}

		case done := <-s.flushCh:
			flush()
			close(done)

		case <-s.draining:
			// Take whatever submissions won the race, then flush and stop.
			for {
				select {
				case rec := <-s.in:
					add(rec)
					continue
				default:
				}
				break
			}
			flush()
			return
		}
	}
}

func tickInterval(batchTimeout time.Duration) time.Duration {
	interval := batchTimeout / 2
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}
	return interval
}
