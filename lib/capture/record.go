// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Default record metadata applied when the payload leaves a field
// empty. Caption defaults to the empty string.
const (
	DefaultLabel   = "capture"
	DefaultLicense = "CC-BY-4.0"
)

// Record is one manifest entry. Each record occupies exactly one line
// of the day's manifest, serialized as a single JSON object.
type Record struct {
	ID      string   `json:"id"`
	File    string   `json:"file"`
	Caption string   `json:"caption"`
	Label   string   `json:"label"`
	License string   `json:"license"`
	Tags    []string `json:"tags"`
}

// NewRecord builds the record for an allocated id from the payload's
// metadata, applying the defaults for fields the caller omitted.
func NewRecord(id string, payload Payload) Record {
	record := Record{
		ID:      id,
		File:    recordFile(id),
		Caption: payload.Caption,
		Label:   payload.Label,
		License: payload.License,
		Tags:    payload.Tags,
	}
	if record.Label == "" {
		record.Label = DefaultLabel
	}
	if record.License == "" {
		record.License = DefaultLicense
	}
	if record.Tags == nil {
		record.Tags = []string{}
	}
	return record
}

// EncodeLine serializes the record as a single manifest line, without
// the trailing newline.
func (record Record) EncodeLine() (string, error) {
	line, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encoding record %s: %w", record.ID, err)
	}
	return string(line), nil
}

// ParseManifest parses manifest text into its records. Blank lines
// are skipped; any other unparseable line is an error, since the
// manifest is append-only and written exclusively by this pipeline.
func ParseManifest(text string) ([]Record, error) {
	var records []Record
	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var record Record
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("parsing manifest line %d: %w", i+1, err)
		}
		records = append(records, record)
	}
	return records, nil
}
