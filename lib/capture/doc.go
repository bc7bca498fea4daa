// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package capture implements the ingestion pipeline: validating an
// inbound image payload, persisting it to the store under a per-day
// partition, and appending a record of it to that day's manifest.
//
// The pipeline holds no local state between invocations. Sequence
// numbers are derived from the store's directory listing, and all
// concurrent coordination rides on the store's version tokens: image
// writes are create-only, manifest writes present the token from the
// read that produced them. Side effects are strictly ordered (branch,
// image, manifest) but not transactional — a failure after the image
// write leaves an orphan image and no manifest record.
package capture
