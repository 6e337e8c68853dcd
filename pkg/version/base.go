// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package version defines the version of the transformer
package version

// TransformerVersion contains the version of the transformer.
// It is populated at build time using build flags.
var TransformerVersion string

// Commit is populated with the short commit hash from which the transformer
// was built
var Commit string

var transformerVersionDefault = "1.0.0"

func init() {
	if TransformerVersion == "" {
		TransformerVersion = transformerVersionDefault
	}
}
