// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bureau-foundation/capture/lib/clock"
	"github.com/bureau-foundation/capture/lib/store"
)

const (
	// defaultAppendAttempts bounds the read-modify-write loop. Each
	// attempt re-reads the manifest, so a lost race costs one extra
	// round trip per contending writer.
	defaultAppendAttempts = 4

	// defaultRetryDelay is the base delay between append attempts.
	// The actual delay grows linearly with the attempt number.
	defaultRetryDelay = 200 * time.Millisecond
)

// AppenderConfig configures an Appender.
type AppenderConfig struct {
	// Store performs the manifest reads and conditional writes.
	Store Store

	// Clock provides the retry backoff. Required.
	Clock clock.Clock

	// MaxAttempts bounds the append loop. Zero means the default.
	MaxAttempts int

	// RetryDelay is the base backoff between attempts. Zero means the
	// default.
	RetryDelay time.Duration

	// Logger receives conflict and retry events. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Appender appends records to day manifests with optimistic
// concurrency: each attempt reads the current manifest, appends the
// record as one JSON line, and writes back presenting the version
// token from the read. A conditional write lost to a concurrent
// appender is retried from a fresh read.
type Appender struct {
	store       Store
	clock       clock.Clock
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

// NewAppender creates an Appender.
func NewAppender(cfg AppenderConfig) (*Appender, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("capture: Appender requires a store")
	}
	if cfg.Clock == nil {
		return nil, fmt.Errorf("capture: Appender requires a clock")
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = defaultAppendAttempts
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Appender{
		store:       cfg.Store,
		clock:       cfg.Clock,
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
		logger:      cfg.Logger,
	}, nil
}

// Append adds the record to the manifest at path on the given branch,
// committing with the given message. An absent manifest is created.
// Returns the write result of the winning attempt. When every attempt
// loses the conditional write, the returned error wraps
// ErrManifestConflict.
func (appender *Appender) Append(ctx context.Context, branch, path string, record Record, message string) (*store.PutResult, error) {
	line, err := record.EncodeLine()
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= appender.maxAttempts; attempt++ {
		manifest, err := appender.store.GetFile(ctx, branch, path)
		if err != nil {
			return nil, fmt.Errorf("reading manifest %s@%s: %w", path, branch, err)
		}

		var text, token string
		if manifest != nil {
			text = manifest.Text()
			token = manifest.SHA
		}
		// Repair a missing trailing terminator before appending so
		// the new record always starts on its own line.
		if text != "" && text[len(text)-1] != '\n' {
			text += "\n"
		}
		text += line + "\n"

		result, err := appender.store.PutFile(ctx, store.PutFileRequest{
			Path:    path,
			Branch:  branch,
			Content: []byte(text),
			SHA:     token,
			Message: message,
		})
		if err == nil {
			return result, nil
		}
		// 422 on an empty token means the manifest appeared between
		// our read and write: same lost race as a stale token.
		if !store.IsConflict(err) && !(token == "" && store.IsAlreadyExists(err)) {
			return nil, fmt.Errorf("writing manifest %s@%s: %w", path, branch, err)
		}

		appender.logger.Warn("manifest append lost conditional write",
			"path", path,
			"branch", branch,
			"attempt", attempt,
			"max_attempts", appender.maxAttempts)

		if attempt == appender.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-appender.clock.After(time.Duration(attempt) * appender.retryDelay):
		}
	}

	return nil, fmt.Errorf("appending record %s to %s@%s after %d attempts: %w",
		record.ID, path, branch, appender.maxAttempts, ErrManifestConflict)
}
