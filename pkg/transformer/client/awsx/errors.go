// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package awsx

import (
	"context"
	"errors"

	"github.com/aws/smithy-go"
)

// Per-call error codes worth retrying. Server faults retry regardless of
// code; these cover the throttling family that AWS reports as client
// faults.
var transientCodes = map[string]struct{}{
	"ThrottlingException":                    {},
	"Throttling":                             {},
	"RequestThrottled":                       {},
	"TooManyRequestsException":               {},
	"SlowDown":                               {},
	"RequestTimeout":                         {},
	"RequestTimeoutException":                {},
	"ServiceUnavailable":                     {},
	"ServiceUnavailableException":            {},
	"InternalError":                          {},
	"InternalFailure":                        {},
	"LimitExceededException":                 {},
	"ProvisionedThroughputExceededException": {},
}

// isTransient reports whether the call is worth repeating: server faults,
// throttling codes and transport-level failures. Context cancellation is
// not transient; the caller is shutting down.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if apiErr.ErrorFault() == smithy.FaultServer {
			return true
		}
		_, ok := transientCodes[apiErr.ErrorCode()]
		return ok
	}
	// No API error type at all means the request never got a response
	// (connection reset, DNS, TLS). Worth retrying.
	return true
}
