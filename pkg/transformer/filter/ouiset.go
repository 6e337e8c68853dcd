// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package filter

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/util/log"
)

// OUISet answers whether a vendor prefix belongs to a known mobile hotspot
// maker. Implementations must be safe for concurrent reads.
type OUISet interface {
	Contains(oui string) bool
}

type staticOUISet map[string]struct{}

func (s staticOUISet) Contains(oui string) bool {
	_, ok := s[oui]
	return ok
}

// NewStaticOUISet builds a set from literal prefixes, any common separator
// style accepted.
func NewStaticOUISet(ouis ...string) OUISet {
	set := make(staticOUISet, len(ouis))
	for _, oui := range ouis {
		if norm := OUI(oui); len(norm) == 6 {
			set[norm] = struct{}{}
		}
	}
	return set
}

// LoadOUIFile reads one OUI per line. Blank lines and '#' comments are
// skipped; only the first field of each line is read, so IEEE-style listings
// with vendor names load as-is. Lines that do not yield six hex chars are
// counted and dropped.
func LoadOUIFile(path string) (OUISet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("oui file: %w", err)
	}
	defer f.Close()

	set := make(staticOUISet)
	skipped := 0

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		token := line
		if idx := strings.IndexFunc(line, isSpace); idx >= 0 {
			token = line[:idx]
		}
		if norm := OUI(token); len(norm) == 6 {
			set[norm] = struct{}{}
		} else {
			skipped++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("oui file %s: %w", path, err)
	}

	if skipped > 0 {
		log.Warnf("oui file %s: skipped %d malformed lines", path, skipped)
	}
	log.Infof("loaded %d mobile hotspot OUIs from %s", len(set), path)
	return set, nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}
