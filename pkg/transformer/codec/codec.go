// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package codec decodes upload lines. Producers write one scan document per
// line as base64(gzip(json)), so decoding layers a base64 reader under a gzip
// reader and caps how much may come out the other end.
package codec

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/client"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/metrics"
)

// Decoder turns one upload line into the JSON document it carries. A Decoder
// is stateless and safe for concurrent use.
type Decoder struct {
	maxDecodedBytes int
}

// New returns a decoder that rejects documents larger than maxDecodedBytes
// once decompressed.
func New(maxDecodedBytes int) *Decoder {
	return &Decoder{maxDecodedBytes: maxDecodedBytes}
}

// Decode decodes a single line, without its trailing newline, into the JSON
// document it carries. Empty and whitespace-only lines return (nil, nil) and
// are skipped. Failures return a MalformedInputError so the caller skips the
// line rather than the whole object.
func (d *Decoder) Decode(line []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return nil, nil
	}

	// Producers are inconsistent about padding, so strip it and decode raw.
	payload := bytes.TrimRight(trimmed, "=")
	b64 := base64.NewDecoder(base64.RawStdEncoding, bytes.NewReader(payload))

	zr, err := gzip.NewReader(b64)
	if err != nil {
		metrics.MalformedLines.Add(1)
		metrics.TlmMalformedLines.Inc()
		return nil, client.NewMalformedInputError(fmt.Errorf("gzip header: %w", err))
	}
	defer zr.Close()

	// Read one byte past the cap so an oversized document is told apart from
	// one that is exactly at it.
	doc, err := io.ReadAll(io.LimitReader(zr, int64(d.maxDecodedBytes)+1))
	if err != nil {
		metrics.MalformedLines.Add(1)
		metrics.TlmMalformedLines.Inc()
		return nil, client.NewMalformedInputError(fmt.Errorf("decode body: %w", err))
	}
	if len(doc) > d.maxDecodedBytes {
		metrics.DecodedTooLarge.Add(1)
		metrics.TlmDecodedTooLarge.Inc()
		return nil, client.NewMalformedInputError(fmt.Errorf("decoded document exceeds %d bytes", d.maxDecodedBytes))
	}

	metrics.LinesDecoded.Add(1)
	metrics.TlmLinesDecoded.Inc()
	return doc, nil
}
