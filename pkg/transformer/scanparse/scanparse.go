// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package scanparse decodes scan payload documents into their typed model.
// Parsing is tolerant by construction: unknown fields are ignored and
// uncoercible scalars leave their field unset, so only a structurally broken
// document is rejected.
package scanparse

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/client"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/metrics"
)

var jsonConfig = jsoniter.ConfigCompatibleWithStandardLibrary

// Parse decodes one JSON document into a ScanPayload. Structural failure
// returns a MalformedInputError; the caller skips the document and keeps
// streaming.
func Parse(doc []byte) (*ScanPayload, error) {
	var payload ScanPayload
	if err := jsonConfig.Unmarshal(doc, &payload); err != nil {
		metrics.MalformedDocs.Add(1)
		metrics.TlmMalformedDocs.Inc()
		return nil, client.NewMalformedInputError(fmt.Errorf("scan payload: %w", err))
	}
	metrics.PayloadsParsed.Add(1)
	metrics.TlmPayloadsParsed.Inc()
	return &payload, nil
}
