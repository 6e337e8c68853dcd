// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package worker drives one queue message end to end: extract the upload
// events it announces, stream each object line by line, decode and parse
// every line, then push the surviving measurements to the batcher.
package worker

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/client"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/codec"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/eventinfo"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/filter"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/message"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/metrics"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/objstream"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/scanparse"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/transform"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/util/log"
)

// Submitter receives the measurements that survive filtering. The sender
// implements it; tests substitute a recorder.
type Submitter interface {
	Submit(ctx context.Context, m *message.Measurement) error
}

// Worker processes queue messages one at a time. A Worker holds no per
// message state and is safe for concurrent use.
type Worker struct {
	store       client.ObjectStore
	decoder     *codec.Decoder
	transformer *transform.Transformer
	filter      *filter.Filter
	submitter   Submitter
	streamOpts  objstream.Options
}

// New returns a worker wired to the given stages.
func New(store client.ObjectStore, decoder *codec.Decoder, transformer *transform.Transformer, flt *filter.Filter, submitter Submitter, streamOpts objstream.Options) *Worker {
	return &Worker{
		store:       store,
		decoder:     decoder,
		transformer: transformer,
		filter:      flt,
		submitter:   submitter,
		streamOpts:  streamOpts,
	}
}

// Process handles one queue message. A nil return means the message is done
// and must be acked, malformed input included. A retryable error means the
// message must be nacked for redelivery; records already submitted stand,
// duplicates are tolerated downstream.
func (w *Worker) Process(ctx context.Context, msg *message.Message) error {
	events, err := eventinfo.Extract(msg)
	if err != nil {
		if client.IsMalformedInput(err) {
			log.Warnc("dropping malformed notification", "msg_id", msg.ID, "error", err)
			return nil
		}
		return err
	}

	for _, ev := range events {
		if err := w.processEvent(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// eventStats accumulates per-object counts for the completion log.
type eventStats struct {
	lines    int
	empty    int
	decoded  int
	emitted  int
	accepted int
}

func (w *Worker) processEvent(ctx context.Context, ev *message.UploadEvent) error {
	// One processing batch id per object, stamped on every record it yields.
	batchID := uuid.New().String()
	start := time.Now()

	reader, err := objstream.Stream(ctx, w.store, ev.Bucket, ev.ObjectKey, w.streamOpts)
	if err != nil {
		if client.IsObjectNotFound(err) {
			log.Warnc("referenced object is gone, skipping",
				"bucket", ev.Bucket, "key", ev.ObjectKey, "event_id", ev.EventID)
			return nil
		}
		return err
	}
	defer reader.Close()

	var st eventStats
	for {
		line, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		st.lines++

		doc, err := w.decoder.Decode(line)
		if err != nil {
			log.Debugc("skipping undecodable line",
				"bucket", ev.Bucket, "key", ev.ObjectKey, "line", st.lines, "error", err)
			continue
		}
		if doc == nil {
			st.empty++
			metrics.EmptyLines.Add(1)
			metrics.TlmEmptyLines.Inc()
			continue
		}
		st.decoded++

		payload, err := scanparse.Parse(doc)
		if err != nil {
			log.Debugc("skipping unparsable document",
				"bucket", ev.Bucket, "key", ev.ObjectKey, "line", st.lines, "error", err)
			continue
		}

		for _, m := range w.transformer.Emit(payload, ev, batchID) {
			st.emitted++
			if !w.filter.Accept(m) {
				continue
			}
			st.accepted++
			if err := w.submitter.Submit(ctx, m); err != nil {
				return err
			}
		}
	}

	log.Infoc("object processed",
		"bucket", ev.Bucket,
		"key", ev.ObjectKey,
		"event_id", ev.EventID,
		"batch_id", batchID,
		"stream", ev.StreamName,
		"lines", st.lines,
		"empty", st.empty,
		"decoded", st.decoded,
		"emitted", st.emitted,
		"accepted", st.accepted,
		"filtered", st.emitted-st.accepted,
		"duration", time.Since(start))
	return nil
}
