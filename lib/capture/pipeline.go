// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/capture/lib/clock"
	"github.com/bureau-foundation/capture/lib/store"
)

// IngestorConfig configures an Ingestor.
type IngestorConfig struct {
	// Store is the repository the pipeline writes to.
	Store Store

	// Clock supplies the day partition for requests that don't name
	// one, and drives the manifest retry backoff. Required.
	Clock clock.Clock

	// Branch is the capture branch all writes land on.
	Branch string

	// BaseBranch is branched from when Branch does not exist yet.
	BaseBranch string

	// Logger receives pipeline events. Defaults to slog.Default().
	Logger *slog.Logger
}

// Ingestor runs the capture ingestion pipeline.
type Ingestor struct {
	store    Store
	clock    clock.Clock
	branch   string
	ensurer  *Ensurer
	appender *Appender
	logger   *slog.Logger
}

// Outcome reports a completed ingestion.
type Outcome struct {
	// ID is the allocated six-digit sequence id.
	ID string

	// ImagePath is the store path the image was written to.
	ImagePath string

	// ManifestPath is the day manifest the record was appended to.
	ManifestPath string

	// Branch is the branch both writes landed on.
	Branch string

	// CommitSHA identifies the commit that recorded the image write.
	CommitSHA string

	// Digest is the hex BLAKE3 digest of the decoded image bytes.
	Digest string
}

// NewIngestor creates an Ingestor.
func NewIngestor(cfg IngestorConfig) (*Ingestor, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("capture: Ingestor requires a store")
	}
	if cfg.Clock == nil {
		return nil, fmt.Errorf("capture: Ingestor requires a clock")
	}
	if cfg.Branch == "" {
		return nil, fmt.Errorf("capture: Ingestor requires a branch")
	}
	if cfg.BaseBranch == "" {
		return nil, fmt.Errorf("capture: Ingestor requires a base branch")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	ensurer, err := NewEnsurer(cfg.Store, cfg.BaseBranch, cfg.Logger)
	if err != nil {
		return nil, err
	}
	appender, err := NewAppender(AppenderConfig{
		Store:  cfg.Store,
		Clock:  cfg.Clock,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &Ingestor{
		store:    cfg.Store,
		clock:    cfg.Clock,
		branch:   cfg.Branch,
		ensurer:  ensurer,
		appender: appender,
		logger:   cfg.Logger,
	}, nil
}

// Ingest validates the payload, persists the image, and appends its
// record to the day manifest. An empty day means "today" per the
// injected clock's UTC date. Validation failures return before any
// store call. Failures after the image write are surfaced as-is; the
// image is not removed.
func (ingestor *Ingestor) Ingest(ctx context.Context, day string, payload Payload) (*Outcome, error) {
	img, err := parseDataURL(payload.DataURL)
	if err != nil {
		return nil, err
	}
	if err := img.validate(); err != nil {
		return nil, err
	}
	data, err := img.decode()
	if err != nil {
		return nil, err
	}

	if day == "" {
		day = DayKey(ingestor.clock.Now())
	}

	if err := ingestor.ensurer.Ensure(ctx, ingestor.branch); err != nil {
		return nil, err
	}

	entries, err := ingestor.store.ListDirectory(ctx, ingestor.branch, ImagesDir(day))
	if err != nil {
		return nil, fmt.Errorf("listing day partition %s: %w", day, err)
	}
	id := NextID(entries)

	digest := blake3.Sum256(data)
	digestHex := hex.EncodeToString(digest[:])
	ingestor.logger.Info("allocated capture id",
		"day", day,
		"id", id,
		"bytes", len(data),
		"digest", digestHex)

	imagePath := ImagePath(day, id)
	imageResult, err := ingestor.store.PutFile(ctx, store.PutFileRequest{
		Path:    imagePath,
		Branch:  ingestor.branch,
		Content: data,
		Message: "capture: " + id,
	})
	if err != nil {
		// The create-only write found the path taken: a concurrent
		// ingest won the same id from the same listing snapshot.
		if store.IsAlreadyExists(err) {
			return nil, fmt.Errorf("writing image %s: %w", imagePath, ErrIDCollision)
		}
		return nil, fmt.Errorf("writing image %s: %w", imagePath, err)
	}

	record := NewRecord(id, payload)
	manifestPath := ManifestPath(day)
	message := fmt.Sprintf("capture index: %s %s", day, id)
	manifestResult, err := ingestor.appender.Append(ctx, ingestor.branch, manifestPath, record, message)
	if err != nil {
		return nil, err
	}

	ingestor.logger.Info("capture ingested",
		"day", day,
		"id", id,
		"path", imagePath,
		"commit", imageResult.CommitSHA,
		"manifest_commit", manifestResult.CommitSHA)

	// The reported commit is the image write's, not the manifest's:
	// it is the commit that durably holds the capture itself.
	return &Outcome{
		ID:           id,
		ImagePath:    imagePath,
		ManifestPath: manifestPath,
		Branch:       ingestor.branch,
		CommitSHA:    imageResult.CommitSHA,
		Digest:       digestHex,
	}, nil
}
