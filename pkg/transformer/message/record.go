// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package message

// Record is one serialized measurement owned by the batcher. A measurement
// is serialized exactly once, when the record is built; everything after
// that point accounts in bytes of Data.
type Record struct {
	// Data is the newline-terminated JSON document.
	Data []byte
	// ProcessingBatchID and BSSID identify the record in drop logs.
	ProcessingBatchID string
	BSSID             string
}

// Size returns the serialized size in bytes, newline included.
func (r *Record) Size() int {
	return len(r.Data)
}
