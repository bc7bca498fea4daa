// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"errors"
	"fmt"
	"strings"
)

// APIError represents a non-2xx response from the store's REST API.
// The store returns structured JSON error bodies with a message,
// optional documentation URL, and optional field-level validation
// errors.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Message is the top-level error description from the store.
	Message string

	// DocumentationURL points to the relevant API documentation.
	DocumentationURL string

	// Errors contains field-level validation failures. Present only
	// on 422 Unprocessable Entity responses.
	Errors []ValidationError
}

// ValidationError describes a specific validation failure on a
// resource field. Returned by the store on 422 responses.
type ValidationError struct {
	Resource string `json:"resource"`
	Code     string `json:"code"`
	Field    string `json:"field"`
	Message  string `json:"message"`
}

func (err *APIError) Error() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "store: HTTP %d: %s", err.StatusCode, err.Message)
	for _, validationError := range err.Errors {
		if validationError.Message != "" {
			fmt.Fprintf(&builder, "; %s.%s: %s", validationError.Resource, validationError.Field, validationError.Message)
		} else {
			fmt.Fprintf(&builder, "; %s.%s: %s", validationError.Resource, validationError.Field, validationError.Code)
		}
	}
	return builder.String()
}

// IsNotFound reports whether err is a store 404 Not Found response.
// Most absence cases never become errors (GetFile and GetBranchRef
// return nil on 404); this helper covers the remaining paths.
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == 404
}

// IsConflict reports whether err is a store 409 Conflict response: a
// conditional write whose presented version token no longer matches
// the path's current revision. The correct handling is to re-read the
// file (obtaining the fresh token) and reattempt the write.
func IsConflict(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == 409
}

// IsAlreadyExists reports whether err is a store 422 response for a
// create-only operation whose target already exists: a contents
// write with no version token against an existing path, or a ref
// create for a ref another writer created first.
func IsAlreadyExists(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == 422
}

// IsAuth reports whether err is an authentication or authorization
// failure (401, or 403 that is not a rate limit response).
func IsAuth(err error) bool {
	var apiError *APIError
	if !errors.As(err, &apiError) {
		return false
	}
	if apiError.StatusCode == 401 {
		return true
	}
	return apiError.StatusCode == 403 && !isRateLimitMessage(apiError.Message)
}

// IsRateLimited reports whether err is a store rate limit response.
// The store returns 403 when the primary rate limit is exceeded and
// 429 for secondary (abuse) rate limits.
func IsRateLimited(err error) bool {
	var apiError *APIError
	if !errors.As(err, &apiError) {
		return false
	}
	return apiError.StatusCode == 429 || (apiError.StatusCode == 403 && isRateLimitMessage(apiError.Message))
}

// IsTransient reports whether err is a 5xx response from the store.
// The caller may retry; the capture pipeline does not, but surfaces
// the classification to its own caller.
func IsTransient(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode >= 500
}

// isRateLimitMessage checks whether a 403 error message indicates a
// rate limit rather than a permission issue. The store's rate limit
// 403 responses contain recognizable phrases.
func isRateLimitMessage(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "abuse detection")
}
