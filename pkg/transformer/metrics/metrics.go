// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package metrics holds every counter the pipeline updates. Counters are
// monotonic and the drop paths all have one, so records never disappear
// without a trace.
package metrics

import (
	"expvar"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/telemetry"
)

// Filter reject reasons, used as the reason tag on TlmFiltered.
const (
	ReasonBssid       = "bssid"
	ReasonCoordinates = "coordinates"
	ReasonRssi        = "rssi"
	ReasonAccuracy    = "accuracy"
	ReasonTimestamp   = "timestamp"
)

var (
	// TransformerExpvars contains the metrics for the transformer.
	TransformerExpvars *expvar.Map

	// MessagesReceived is the total number of queue messages received.
	MessagesReceived = expvar.Int{}
	// TlmMessagesReceived is the total number of queue messages received.
	TlmMessagesReceived = telemetry.NewCounter("transformer", "messages_received", nil, "Total number of queue messages received")
	// MessagesAcked is the total number of messages acked (deleted).
	MessagesAcked = expvar.Int{}
	// TlmMessagesAcked is the total number of messages acked.
	TlmMessagesAcked = telemetry.NewCounter("transformer", "messages_acked", nil, "Total number of queue messages deleted")
	// MessagesNacked is the total number of messages returned for redelivery.
	MessagesNacked = expvar.Int{}
	// TlmMessagesNacked is the total number of messages returned for redelivery.
	TlmMessagesNacked = telemetry.NewCounter("transformer", "messages_nacked", nil, "Total number of queue messages returned for redelivery")
	// PoisonMessages is the number of messages dropped after exceeding the receive ceiling.
	PoisonMessages = expvar.Int{}
	// TlmPoisonMessages is the number of messages dropped after exceeding the receive ceiling.
	TlmPoisonMessages = telemetry.NewCounter("transformer", "poison_messages", nil, "Messages dropped after exceeding the max receive count")

	// MalformedEvents counts queue messages whose envelope could not be parsed.
	MalformedEvents = expvar.Int{}
	// TlmMalformedEvents counts queue messages whose envelope could not be parsed.
	TlmMalformedEvents = telemetry.NewCounter("transformer", "malformed_events", nil, "Queue messages with an unparseable notification envelope")
	// TestEvents counts s3:TestEvent notifications acked without processing.
	TestEvents = expvar.Int{}
	// TlmTestEvents counts s3:TestEvent notifications acked without processing.
	TlmTestEvents = telemetry.NewCounter("transformer", "test_events", nil, "Bucket test notifications acked without processing")

	// ObjectsStreamed counts objects opened for line streaming.
	ObjectsStreamed = expvar.Int{}
	// TlmObjectsStreamed counts objects opened for line streaming.
	TlmObjectsStreamed = telemetry.NewCounter("transformer", "objects_streamed", nil, "Objects opened for line streaming")
	// ObjectsNotFound counts referenced objects missing from the store.
	ObjectsNotFound = expvar.Int{}
	// TlmObjectsNotFound counts referenced objects missing from the store.
	TlmObjectsNotFound = telemetry.NewCounter("transformer", "objects_not_found", nil, "Referenced objects missing from the store, skipped")
	// ObjectReadErrors counts transient failures while streaming object bytes.
	ObjectReadErrors = expvar.Int{}
	// TlmObjectReadErrors counts transient failures while streaming object bytes.
	TlmObjectReadErrors = telemetry.NewCounter("transformer", "object_read_errors", nil, "Transient storage failures while streaming")

	// LinesRead counts lines yielded by the object streamer.
	LinesRead = expvar.Int{}
	// TlmLinesRead counts lines yielded by the object streamer.
	TlmLinesRead = telemetry.NewCounter("transformer", "lines_read", nil, "Lines yielded by the object streamer")
	// LinesTooLong counts lines discarded for exceeding the line cap.
	LinesTooLong = expvar.Int{}
	// TlmLinesTooLong counts lines discarded for exceeding the line cap.
	TlmLinesTooLong = telemetry.NewCounter("transformer", "lines_too_long", nil, "Lines discarded for exceeding the line byte cap")
	// EmptyLines counts blank lines skipped without decoding.
	EmptyLines = expvar.Int{}
	// TlmEmptyLines counts blank lines skipped without decoding.
	TlmEmptyLines = telemetry.NewCounter("transformer", "empty_lines", nil, "Blank lines skipped without decoding")

	// LinesDecoded counts lines successfully base64+gzip decoded.
	LinesDecoded = expvar.Int{}
	// TlmLinesDecoded counts lines successfully base64+gzip decoded.
	TlmLinesDecoded = telemetry.NewCounter("transformer", "lines_decoded", nil, "Lines successfully decoded")
	// DecodedTooLarge counts lines whose decoded form exceeded the cap.
	DecodedTooLarge = expvar.Int{}
	// TlmDecodedTooLarge counts lines whose decoded form exceeded the cap.
	TlmDecodedTooLarge = telemetry.NewCounter("transformer", "decoded_too_large", nil, "Lines whose decoded form exceeded the byte cap")
	// MalformedLines counts lines that failed base64 or gzip decoding.
	MalformedLines = expvar.Int{}
	// TlmMalformedLines counts lines that failed base64 or gzip decoding.
	TlmMalformedLines = telemetry.NewCounter("transformer", "malformed_lines", nil, "Lines that failed base64 or gzip decoding")
	// MalformedDocs counts decoded documents that were not valid payload JSON.
	MalformedDocs = expvar.Int{}
	// TlmMalformedDocs counts decoded documents that were not valid payload JSON.
	TlmMalformedDocs = telemetry.NewCounter("transformer", "malformed_docs", nil, "Decoded documents that failed payload parsing")
	// PayloadsParsed counts scan payloads parsed successfully.
	PayloadsParsed = expvar.Int{}
	// TlmPayloadsParsed counts scan payloads parsed successfully.
	TlmPayloadsParsed = telemetry.NewCounter("transformer", "payloads_parsed", nil, "Scan payloads parsed successfully")

	// ConnectedMeasurements counts CONNECTED-tier measurements emitted.
	ConnectedMeasurements = expvar.Int{}
	// TlmConnectedMeasurements counts CONNECTED-tier measurements emitted.
	TlmConnectedMeasurements = telemetry.NewCounter("transformer", "connected_measurements", nil, "CONNECTED tier measurements emitted")
	// ScanMeasurements counts SCAN-tier measurements emitted.
	ScanMeasurements = expvar.Int{}
	// TlmScanMeasurements counts SCAN-tier measurements emitted.
	TlmScanMeasurements = telemetry.NewCounter("transformer", "scan_measurements", nil, "SCAN tier measurements emitted")
	// DisconnectedEvents counts disconnected events observed (no measurement).
	DisconnectedEvents = expvar.Int{}
	// TlmDisconnectedEvents counts disconnected events observed.
	TlmDisconnectedEvents = telemetry.NewCounter("transformer", "disconnected_events", nil, "Disconnected events observed, no measurement emitted")
	// MeasurementsEmitted counts all measurements emitted before filtering.
	MeasurementsEmitted = expvar.Int{}
	// TlmMeasurementsEmitted counts all measurements emitted before filtering.
	TlmMeasurementsEmitted = telemetry.NewCounter("transformer", "measurements_emitted", nil, "Measurements emitted before filtering")

	// MeasurementsAccepted counts measurements that passed every filter.
	MeasurementsAccepted = expvar.Int{}
	// TlmMeasurementsAccepted counts measurements that passed every filter.
	TlmMeasurementsAccepted = telemetry.NewCounter("transformer", "measurements_accepted", nil, "Measurements accepted by the filter")
	// TlmFiltered counts rejected measurements by reason.
	TlmFiltered = telemetry.NewCounter("transformer", "measurements_filtered", []string{"reason"}, "Measurements rejected, by reason")
	// FilteredBssid counts rejections for BSSID format.
	FilteredBssid = expvar.Int{}
	// FilteredCoordinates counts rejections for invalid coordinates.
	FilteredCoordinates = expvar.Int{}
	// FilteredRssi counts rejections for RSSI out of range.
	FilteredRssi = expvar.Int{}
	// FilteredAccuracy counts rejections for accuracy above threshold.
	FilteredAccuracy = expvar.Int{}
	// FilteredTimestamp counts rejections for implausible timestamps.
	FilteredTimestamp = expvar.Int{}

	// HotspotFlagged counts measurements flagged as mobile hotspots and kept.
	HotspotFlagged = expvar.Int{}
	// TlmHotspotFlagged counts measurements flagged as mobile hotspots and kept.
	TlmHotspotFlagged = telemetry.NewCounter("transformer", "hotspot_flagged", nil, "Measurements flagged as mobile hotspots and kept")
	// HotspotExcluded counts measurements dropped by the hotspot policy.
	HotspotExcluded = expvar.Int{}
	// TlmHotspotExcluded counts measurements dropped by the hotspot policy.
	TlmHotspotExcluded = telemetry.NewCounter("transformer", "hotspot_excluded", nil, "Measurements dropped by the mobile hotspot policy")
	// HotspotLogged counts hotspot matches logged and kept.
	HotspotLogged = expvar.Int{}
	// TlmHotspotLogged counts hotspot matches logged and kept.
	TlmHotspotLogged = telemetry.NewCounter("transformer", "hotspot_logged", nil, "Mobile hotspot matches logged and kept")

	// RecordsTooLarge counts records dropped for exceeding the per-record limit.
	RecordsTooLarge = expvar.Int{}
	// TlmRecordsTooLarge counts records dropped for exceeding the per-record limit.
	TlmRecordsTooLarge = telemetry.NewCounter("transformer", "records_too_large", nil, "Records dropped for exceeding the per-record byte limit")
	// BatchesPublished counts successfully published delivery batches.
	BatchesPublished = expvar.Int{}
	// TlmBatchesPublished counts successfully published delivery batches.
	TlmBatchesPublished = telemetry.NewCounter("transformer", "batches_published", nil, "Delivery batches published")
	// RecordsPublished counts records acknowledged by the delivery stream.
	RecordsPublished = expvar.Int{}
	// TlmRecordsPublished counts records acknowledged by the delivery stream.
	TlmRecordsPublished = telemetry.NewCounter("transformer", "records_published", nil, "Records acknowledged by the delivery stream")
	// PublishRetries counts publish attempts beyond the first.
	PublishRetries = expvar.Int{}
	// TlmPublishRetries counts publish attempts beyond the first.
	TlmPublishRetries = telemetry.NewCounter("transformer", "publish_retries", nil, "Publish attempts beyond the first")
	// PublishGaveUp counts records dropped after exhausting publish retries.
	PublishGaveUp = expvar.Int{}
	// TlmPublishGaveUp counts records dropped after exhausting publish retries.
	TlmPublishGaveUp = telemetry.NewCounter("transformer", "publish_gave_up", nil, "Records dropped after exhausting publish retries")

	// BackpressurePauses counts receive pauses due to pending-bytes pressure.
	BackpressurePauses = expvar.Int{}
	// TlmBackpressurePauses counts receive pauses due to pending-bytes pressure.
	TlmBackpressurePauses = telemetry.NewCounter("transformer", "backpressure_pauses", nil, "Receive pauses due to pending byte pressure")
	// VisibilityExtensions counts visibility timeout extensions sent.
	VisibilityExtensions = expvar.Int{}
	// TlmVisibilityExtensions counts visibility timeout extensions sent.
	TlmVisibilityExtensions = telemetry.NewCounter("transformer", "visibility_extensions", nil, "Visibility timeout extensions sent")
	// LostOnShutdown counts records and messages abandoned at shutdown deadlines.
	LostOnShutdown = expvar.Int{}
	// TlmLostOnShutdown counts records and messages abandoned at shutdown deadlines.
	TlmLostOnShutdown = telemetry.NewCounter("transformer", "lost_on_shutdown", nil, "Work abandoned at shutdown deadlines")

	// PendingBytes tracks serialized bytes waiting in the batcher.
	PendingBytes = expvar.Int{}
	// TlmPendingBytes tracks serialized bytes waiting in the batcher.
	TlmPendingBytes = telemetry.NewGauge("transformer", "pending_bytes", nil, "Serialized bytes waiting in the batcher")
	// PendingRecords tracks records waiting in the batcher.
	PendingRecords = expvar.Int{}
	// TlmPendingRecords tracks records waiting in the batcher.
	TlmPendingRecords = telemetry.NewGauge("transformer", "pending_records", nil, "Records waiting in the batcher")
	// InflightMessages tracks messages currently being processed.
	InflightMessages = expvar.Int{}
	// TlmInflightMessages tracks messages currently being processed.
	TlmInflightMessages = telemetry.NewGauge("transformer", "inflight_messages", nil, "Messages currently being processed")
)

func init() {
	TransformerExpvars = expvar.NewMap("wifi-transformer")
	TransformerExpvars.Set("MessagesReceived", &MessagesReceived)
	TransformerExpvars.Set("MessagesAcked", &MessagesAcked)
	TransformerExpvars.Set("MessagesNacked", &MessagesNacked)
	TransformerExpvars.Set("PoisonMessages", &PoisonMessages)
	TransformerExpvars.Set("MalformedEvents", &MalformedEvents)
	TransformerExpvars.Set("TestEvents", &TestEvents)
	TransformerExpvars.Set("ObjectsStreamed", &ObjectsStreamed)
	TransformerExpvars.Set("ObjectsNotFound", &ObjectsNotFound)
	TransformerExpvars.Set("ObjectReadErrors", &ObjectReadErrors)
	TransformerExpvars.Set("LinesRead", &LinesRead)
	TransformerExpvars.Set("LinesTooLong", &LinesTooLong)
	TransformerExpvars.Set("EmptyLines", &EmptyLines)
	TransformerExpvars.Set("LinesDecoded", &LinesDecoded)
	TransformerExpvars.Set("DecodedTooLarge", &DecodedTooLarge)
	TransformerExpvars.Set("MalformedLines", &MalformedLines)
	TransformerExpvars.Set("MalformedDocs", &MalformedDocs)
	TransformerExpvars.Set("PayloadsParsed", &PayloadsParsed)
	TransformerExpvars.Set("ConnectedMeasurements", &ConnectedMeasurements)
	TransformerExpvars.Set("ScanMeasurements", &ScanMeasurements)
	TransformerExpvars.Set("DisconnectedEvents", &DisconnectedEvents)
	TransformerExpvars.Set("MeasurementsEmitted", &MeasurementsEmitted)
	TransformerExpvars.Set("MeasurementsAccepted", &MeasurementsAccepted)
	TransformerExpvars.Set("FilteredBssid", &FilteredBssid)
	TransformerExpvars.Set("FilteredCoordinates", &FilteredCoordinates)
	TransformerExpvars.Set("FilteredRssi", &FilteredRssi)
	TransformerExpvars.Set("FilteredAccuracy", &FilteredAccuracy)
	TransformerExpvars.Set("FilteredTimestamp", &FilteredTimestamp)
	TransformerExpvars.Set("HotspotFlagged", &HotspotFlagged)
	TransformerExpvars.Set("HotspotExcluded", &HotspotExcluded)
	TransformerExpvars.Set("HotspotLogged", &HotspotLogged)
	TransformerExpvars.Set("RecordsTooLarge", &RecordsTooLarge)
	TransformerExpvars.Set("BatchesPublished", &BatchesPublished)
	TransformerExpvars.Set("RecordsPublished", &RecordsPublished)
	TransformerExpvars.Set("PublishRetries", &PublishRetries)
	TransformerExpvars.Set("PublishGaveUp", &PublishGaveUp)
	TransformerExpvars.Set("BackpressurePauses", &BackpressurePauses)
	TransformerExpvars.Set("VisibilityExtensions", &VisibilityExtensions)
	TransformerExpvars.Set("LostOnShutdown", &LostOnShutdown)
	TransformerExpvars.Set("PendingBytes", &PendingBytes)
	TransformerExpvars.Set("PendingRecords", &PendingRecords)
	TransformerExpvars.Set("InflightMessages", &InflightMessages)
}

// FilterReject records one rejected measurement under its reason.
func FilterReject(reason string) {
	switch reason {
	case ReasonBssid:
		FilteredBssid.Add(1)
	case ReasonCoordinates:
		FilteredCoordinates.Add(1)
	case ReasonRssi:
		FilteredRssi.Add(1)
	case ReasonAccuracy:
		FilteredAccuracy.Add(1)
	case ReasonTimestamp:
		FilteredTimestamp.Add(1)
	}
	TlmFiltered.Inc(reason)
}
