// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package config

import "strings"

// MockConfig should only be used in tests
type MockConfig struct {
	Config
}

// Mock returns a fresh configuration with every default bound, detached
// from the global so tests can mutate it freely.
func Mock() *MockConfig {
	cfg := NewConfig("mock", "WST", strings.NewReplacer(".", "_"))
	initConfig(cfg)
	return &MockConfig{Config: cfg}
}
