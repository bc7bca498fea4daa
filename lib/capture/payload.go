// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"encoding/base64"
	"fmt"
	"regexp"
)

// MediaTypePNG is the only media type the pipeline accepts.
const MediaTypePNG = "image/png"

// MaxEncodedBytes bounds the base64-encoded image payload. Measured on
// the encoded form, before decoding, so oversized payloads are
// rejected without allocating their decoded bytes.
const MaxEncodedBytes = 7_000_000

// dataURLPattern matches "data:{mediatype};base64,{payload}".
var dataURLPattern = regexp.MustCompile(`^data:(.+);base64,(.+)$`)

// Payload is one inbound capture request. DataURL carries the image;
// the remaining fields are caller-supplied record metadata, all
// optional (see Record for the defaults).
type Payload struct {
	DataURL string
	Caption string
	Label   string
	License string
	Tags    []string
}

// image is a parsed data URL, still in encoded form.
type image struct {
	mediaType string
	encoded   string
}

// parseDataURL splits a data URL into media type and base64 payload.
func parseDataURL(dataURL string) (*image, error) {
	match := dataURLPattern.FindStringSubmatch(dataURL)
	if match == nil {
		return nil, &ValidationError{
			Code:   CodeInvalidPayload,
			Detail: "dataUrl is not a base64 data URL",
		}
	}
	return &image{mediaType: match[1], encoded: match[2]}, nil
}

// validate checks the media type and the encoded size limit. Called
// before decoding so rejected payloads cost no store traffic and no
// decode allocation.
func (img *image) validate() error {
	if img.mediaType != MediaTypePNG {
		return &ValidationError{
			Code:   CodeUnsupportedMediaType,
			Detail: fmt.Sprintf("media type %q not supported (want %s)", img.mediaType, MediaTypePNG),
		}
	}
	if len(img.encoded) > MaxEncodedBytes {
		return &ValidationError{
			Code:   CodePayloadTooLarge,
			Detail: fmt.Sprintf("encoded payload is %d bytes (limit %d)", len(img.encoded), MaxEncodedBytes),
		}
	}
	return nil
}

// decode returns the raw image bytes.
func (img *image) decode() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(img.encoded)
	if err != nil {
		return nil, &ValidationError{
			Code:   CodeInvalidPayload,
			Detail: "dataUrl payload is not valid base64: " + err.Error(),
		}
	}
	return data, nil
}
