// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package sender

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/message"
)

var jsonConfig = jsoniter.ConfigCompatibleWithStandardLibrary

// serializeMeasurement renders a measurement as one newline-terminated JSON
// record. This is the only place a measurement is serialized; everything
// downstream works with the cached bytes.
func serializeMeasurement(m *message.Measurement) (*message.Record, error) {
	data, err := jsonConfig.Marshal(m)
	if err != nil {
		return nil, err
	}
	return &message.Record{
		Data:              append(data, '\n'),
		ProcessingBatchID: m.ProcessingBatchID,
		BSSID:             m.BSSID,
	}, nil
}

// Batch is one publish unit. Seq increases monotonically in formation
// order; records keep submission order.
type Batch struct {
	Seq     uint64
	Records []*message.Record
	Bytes   int
}
