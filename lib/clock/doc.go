// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time for testability.
//
// Production code injects Real(); tests inject Fake() and drive time
// explicitly with Advance. The capture service uses the clock in two
// places: the store client's rate-limit backoff and the manifest
// append retry loop. Both sleep through the injected clock, so tests
// of conflict retries and rate-limit handling run in microseconds of
// wall time.
package clock
