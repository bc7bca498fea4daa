// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"reflect"
	"testing"
)

func TestNewRecordDefaults(t *testing.T) {
	record := NewRecord("000001", Payload{})

	if record.ID != "000001" {
		t.Errorf("ID = %q", record.ID)
	}
	if record.File != "images/000001.png" {
		t.Errorf("File = %q", record.File)
	}
	if record.Caption != "" {
		t.Errorf("Caption = %q, want empty", record.Caption)
	}
	if record.Label != "capture" {
		t.Errorf("Label = %q, want %q", record.Label, "capture")
	}
	if record.License != "CC-BY-4.0" {
		t.Errorf("License = %q, want %q", record.License, "CC-BY-4.0")
	}
	if record.Tags == nil || len(record.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty non-nil slice", record.Tags)
	}
}

func TestNewRecordPayloadOverrides(t *testing.T) {
	record := NewRecord("000002", Payload{
		Caption: "sunset",
		Label:   "landscape",
		License: "CC0-1.0",
		Tags:    []string{"dusk", "orange"},
	})

	if record.Caption != "sunset" || record.Label != "landscape" || record.License != "CC0-1.0" {
		t.Errorf("metadata not carried: %+v", record)
	}
	if !reflect.DeepEqual(record.Tags, []string{"dusk", "orange"}) {
		t.Errorf("Tags = %#v", record.Tags)
	}
}

func TestRecordEncodeLine(t *testing.T) {
	record := NewRecord("000001", Payload{Caption: "x"})
	line, err := record.EncodeLine()
	if err != nil {
		t.Fatalf("EncodeLine: %v", err)
	}

	want := `{"id":"000001","file":"images/000001.png","caption":"x","label":"capture","license":"CC-BY-4.0","tags":[]}`
	if line != want {
		t.Errorf("line = %s, want %s", line, want)
	}
}

func TestParseManifestRoundTrip(t *testing.T) {
	first := NewRecord("000001", Payload{Caption: "a"})
	second := NewRecord("000002", Payload{Caption: "b", Tags: []string{"t"}})

	line1, _ := first.EncodeLine()
	line2, _ := second.EncodeLine()
	text := line1 + "\n" + line2 + "\n"

	records, err := ParseManifest(text)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if !reflect.DeepEqual(records[0], first) {
		t.Errorf("records[0] = %+v, want %+v", records[0], first)
	}
	if !reflect.DeepEqual(records[1], second) {
		t.Errorf("records[1] = %+v, want %+v", records[1], second)
	}
}

func TestParseManifestSkipsBlankLines(t *testing.T) {
	line, _ := NewRecord("000001", Payload{}).EncodeLine()
	records, err := ParseManifest("\n" + line + "\n\n")
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want 1", len(records))
	}
}

func TestParseManifestRejectsGarbage(t *testing.T) {
	if _, err := ParseManifest("not json\n"); err == nil {
		t.Fatal("expected error for unparseable line")
	}
}
