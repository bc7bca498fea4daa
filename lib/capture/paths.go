// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package capture

import "time"

// captureRoot is the top-level directory all capture data lives under.
const captureRoot = "captures"

// DayKey returns the UTC partition key (YYYY-MM-DD) for a point in
// time. Partition boundaries are UTC midnights regardless of the
// host's zone.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ImagesDir is the directory holding a day's image files.
func ImagesDir(day string) string {
	return captureRoot + "/" + day + "/images"
}

// ImagePath is the store path for one image in a day partition.
func ImagePath(day, id string) string {
	return ImagesDir(day) + "/" + id + ".png"
}

// ManifestPath is the store path for a day's manifest.
func ManifestPath(day string) string {
	return captureRoot + "/" + day + "/README.md"
}

// recordFile is the manifest-relative file reference for an image:
// the record's "file" field is relative to the day directory, not the
// repository root.
func recordFile(id string) string {
	return "images/" + id + ".png"
}
