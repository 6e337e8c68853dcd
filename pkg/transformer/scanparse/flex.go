// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package scanparse

import (
	"bytes"
	"strconv"
	"strings"
)

// Reporters are inconsistent about scalar shapes: the same field arrives as
// -61, -61.0 or "-61" depending on the client build. The Flex types accept
// every convertible shape and leave the field unset otherwise, so one bad
// scalar never fails the surrounding document. Their UnmarshalJSON never
// returns an error.

// FlexFloat is a float64 that also accepts its JSON string form.
type FlexFloat struct {
	value float64
	ok    bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	if s, kind := scalarToken(data); kind != tokenNone {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			f.value, f.ok = v, true
		}
	}
	return nil
}

// Value returns the parsed value and whether the field was set.
func (f FlexFloat) Value() (float64, bool) { return f.value, f.ok }

// Ptr returns the value as a pointer, nil when unset.
func (f FlexFloat) Ptr() *float64 {
	if !f.ok {
		return nil
	}
	v := f.value
	return &v
}

// FlexInt is an integer that also accepts float and JSON string forms.
type FlexInt struct {
	value int64
	ok    bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	if s, kind := scalarToken(data); kind != tokenNone {
		s = strings.TrimSpace(s)
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			f.value, f.ok = v, true
		} else if v, err := strconv.ParseFloat(s, 64); err == nil {
			f.value, f.ok = int64(v), true
		}
	}
	return nil
}

// Value returns the parsed value and whether the field was set.
func (f FlexInt) Value() (int64, bool) { return f.value, f.ok }

// Ptr returns the value as an int64 pointer, nil when unset.
func (f FlexInt) Ptr() *int64 {
	if !f.ok {
		return nil
	}
	v := f.value
	return &v
}

// IntPtr returns the value as an int pointer, nil when unset.
func (f FlexInt) IntPtr() *int {
	if !f.ok {
		return nil
	}
	v := int(f.value)
	return &v
}

// FlexBool is a boolean that also accepts "true"/"false"/"1"/"0" strings
// and 0/1 numbers.
type FlexBool struct {
	value bool
	ok    bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexBool) UnmarshalJSON(data []byte) error {
	if s, kind := scalarToken(data); kind != tokenNone {
		s = strings.TrimSpace(s)
		if v, err := strconv.ParseBool(s); err == nil {
			f.value, f.ok = v, true
		} else if v, err := strconv.ParseFloat(s, 64); err == nil {
			f.value, f.ok = v != 0, true
		}
	}
	return nil
}

// Value returns the parsed value and whether the field was set.
func (f FlexBool) Value() (bool, bool) { return f.value, f.ok }

// Ptr returns the value as a pointer, nil when unset.
func (f FlexBool) Ptr() *bool {
	if !f.ok {
		return nil
	}
	v := f.value
	return &v
}

// FlexString is a string that also accepts bare numbers and booleans.
// Whitespace-only strings count as unset; anything else is kept verbatim,
// SSIDs included.
type FlexString struct {
	value string
	ok    bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	s, kind := scalarToken(data)
	if kind == tokenNone {
		return nil
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	f.value, f.ok = s, true
	return nil
}

// Value returns the parsed value and whether the field was set.
func (f FlexString) Value() (string, bool) { return f.value, f.ok }

// String returns the parsed value, empty when unset.
func (f FlexString) String() string { return f.value }

type tokenKind int

const (
	tokenNone tokenKind = iota
	tokenString
	tokenBare
)

// scalarToken reduces a raw JSON value to its scalar text. Strings are
// unquoted and unescaped, numbers and booleans returned verbatim. Objects,
// arrays and null report tokenNone.
func scalarToken(data []byte) (string, tokenKind) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "", tokenNone
	}
	switch data[0] {
	case '{', '[':
		return "", tokenNone
	case '"':
		var s string
		if err := jsonConfig.Unmarshal(data, &s); err != nil {
			return "", tokenNone
		}
		return s, tokenString
	}
	if string(data) == "null" {
		return "", tokenNone
	}
	return string(data), tokenBare
}
