// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/bureau-foundation/capture/lib/store"
)

// sequencePattern matches allocated image names: six digits and a
// known image extension. Anything else in the directory is ignored
// for sequencing.
var sequencePattern = regexp.MustCompile(`(?i)^(\d{6})\.(png|jpe?g)$`)

// NextID allocates the next sequence id from a directory listing: one
// greater than the highest id among matching file entries, or 1 for
// an empty day. The result is six zero-padded digits. The listing is
// a snapshot, so two concurrent allocators can produce the same id —
// the create-only image write is what detects that race.
func NextID(entries []store.DirEntry) string {
	highest := 0
	for _, entry := range entries {
		if entry.Type != "file" {
			continue
		}
		match := sequencePattern.FindStringSubmatch(entry.Name)
		if match == nil {
			continue
		}
		value, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if value > highest {
			highest = value
		}
	}
	return fmt.Sprintf("%06d", highest+1)
}
