// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package capture

import "errors"

// Validation error codes. These are stable identifiers carried to the
// HTTP adapter for status mapping and into client-visible error
// bodies.
const (
	// CodeInvalidPayload marks a request body that cannot be parsed:
	// malformed data URL, undecodable base64.
	CodeInvalidPayload = "invalid_payload"

	// CodeUnsupportedMediaType marks a data URL whose media type is
	// not PNG.
	CodeUnsupportedMediaType = "unsupported_media_type"

	// CodePayloadTooLarge marks an encoded payload over the size
	// limit.
	CodePayloadTooLarge = "payload_too_large"
)

// ValidationError reports a payload rejected before any store call.
type ValidationError struct {
	// Code is one of the Code* constants.
	Code string

	// Detail is a human-readable description of the rejection.
	Detail string
}

func (validation *ValidationError) Error() string {
	return "capture: " + validation.Code + ": " + validation.Detail
}

// IsValidation reports whether the error (anywhere in its chain) is a
// payload validation failure.
func IsValidation(err error) bool {
	var validation *ValidationError
	return errors.As(err, &validation)
}

// ErrManifestConflict is returned when the manifest append loop
// exhausts its attempts without winning a conditional write. The
// image has already been persisted when this surfaces.
var ErrManifestConflict = errors.New("capture: manifest append conflict persisted across retries")

// ErrIDCollision is returned when the create-only image write finds
// the allocated id already taken: another writer listed the same
// directory snapshot and committed first.
var ErrIDCollision = errors.New("capture: allocated id already exists in store")
