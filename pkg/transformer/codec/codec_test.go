// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package codec

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer/client"
)

func encodeLine(t *testing.T, doc []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(doc)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return []byte(base64.StdEncoding.EncodeToString(buf.Bytes()))
}

func TestDecodeRoundTrip(t *testing.T) {
	doc := []byte(`{"wifiConnectedEvents":[{"bssid":"aa:bb:cc:dd:ee:ff"}]}`)
	out, err := New(1024 * 1024).Decode(encodeLine(t, doc))
	require.NoError(t, err)
	assert.Equal(t, doc, out)
}

func TestDecodeWithoutPadding(t *testing.T) {
	doc := []byte(`{"a":1}`)
	line := bytes.TrimRight(encodeLine(t, doc), "=")
	out, err := New(1024).Decode(line)
	require.NoError(t, err)
	assert.Equal(t, doc, out)
}

func TestDecodeTrimsWhitespace(t *testing.T) {
	doc := []byte(`{"a":1}`)
	line := append([]byte("  "), encodeLine(t, doc)...)
	line = append(line, '\r')
	out, err := New(1024).Decode(line)
	require.NoError(t, err)
	assert.Equal(t, doc, out)
}

func TestDecodeNotBase64(t *testing.T) {
	_, err := New(1024).Decode([]byte("!!! not base64 !!!"))
	require.Error(t, err)
	assert.True(t, client.IsMalformedInput(err))
}

func TestDecodeNotGzip(t *testing.T) {
	line := base64.StdEncoding.EncodeToString([]byte("plain text, no gzip"))
	_, err := New(1024).Decode([]byte(line))
	require.Error(t, err)
	assert.True(t, client.IsMalformedInput(err))
}

func TestDecodeTruncatedGzip(t *testing.T) {
	doc := []byte(strings.Repeat("measurement ", 100))
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(doc)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	cut := buf.Bytes()[:buf.Len()/2]
	line := base64.StdEncoding.EncodeToString(cut)

	_, err = New(4096).Decode([]byte(line))
	require.Error(t, err)
	assert.True(t, client.IsMalformedInput(err))
}

func TestDecodeOverCap(t *testing.T) {
	doc := bytes.Repeat([]byte("x"), 2048)
	_, err := New(1024).Decode(encodeLine(t, doc))
	require.Error(t, err)
	assert.True(t, client.IsMalformedInput(err))
	assert.Contains(t, err.Error(), "exceeds")
}

func TestDecodeExactlyAtCap(t *testing.T) {
	doc := bytes.Repeat([]byte("x"), 1024)
	out, err := New(1024).Decode(encodeLine(t, doc))
	require.NoError(t, err)
	assert.Len(t, out, 1024)
}

func TestDecodeEmptyLine(t *testing.T) {
	for _, line := range []string{"", "   ", "\t\r"} {
		out, err := New(1024).Decode([]byte(line))
		require.NoError(t, err)
		assert.Nil(t, out)
	}
}
