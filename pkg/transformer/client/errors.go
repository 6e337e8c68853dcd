// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package client

import (
	"errors"
	"fmt"
)

// RetryableError wraps a transient queue, storage or publish failure. The
// worker nacks the message so the queue redelivers it.
type RetryableError struct {
	err error
}

// NewRetryableError returns a new retryable error
func NewRetryableError(err error) *RetryableError {
	return &RetryableError{
		err: err,
	}
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *RetryableError) Unwrap() error {
	return e.err
}

// IsRetryable reports whether err is or wraps a RetryableError.
func IsRetryable(err error) bool {
	var r *RetryableError
	return errors.As(err, &r)
}

// MalformedInputError marks a line, document or event that cannot be
// decoded. Terminal for the datum, never for the pipeline.
type MalformedInputError struct {
	err error
}

// NewMalformedInputError returns a new malformed input error
func NewMalformedInputError(err error) *MalformedInputError {
	return &MalformedInputError{
		err: err,
	}
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: %v", e.err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.err
}

// IsMalformedInput reports whether err is or wraps a MalformedInputError.
func IsMalformedInput(err error) bool {
	var m *MalformedInputError
	return errors.As(err, &m)
}

// ObjectNotFoundError marks a referenced object that does not exist. The
// message is acked and the object skipped; redelivery would not help.
type ObjectNotFoundError struct {
	Bucket string
	Key    string
}

func (e *ObjectNotFoundError) Error() string {
	return fmt.Sprintf("object not found: s3://%s/%s", e.Bucket, e.Key)
}

// IsObjectNotFound reports whether err is or wraps an ObjectNotFoundError.
func IsObjectNotFound(err error) bool {
	var o *ObjectNotFoundError
	return errors.As(err, &o)
}

// RecordTooLargeError marks a single record over the per-record publish
// limit. The record is dropped, never truncated.
type RecordTooLargeError struct {
	Size  int
	Limit int
}

func (e *RecordTooLargeError) Error() string {
	return fmt.Sprintf("record too large: %d bytes over limit %d", e.Size, e.Limit)
}

// FatalConfigError refuses startup on invalid configuration.
type FatalConfigError struct {
	Field  string
	Reason string
}

func (e *FatalConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}
