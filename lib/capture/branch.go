// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/capture/lib/store"
)

// Ensurer makes sure the capture branch exists before the pipeline
// writes to it. Ensure is idempotent and safe under concurrent first
// use: a create lost to another writer counts as success.
type Ensurer struct {
	store  Store
	base   string
	logger *slog.Logger
}

// NewEnsurer creates an Ensurer that branches from the given base
// when the target branch does not exist yet.
func NewEnsurer(storeClient Store, baseBranch string, logger *slog.Logger) (*Ensurer, error) {
	if storeClient == nil {
		return nil, fmt.Errorf("capture: Ensurer requires a store")
	}
	if baseBranch == "" {
		return nil, fmt.Errorf("capture: Ensurer requires a base branch")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ensurer{store: storeClient, base: baseBranch, logger: logger}, nil
}

// Ensure guarantees the branch exists. The base branch is assumed to
// exist already; its absence means the repository is not usable as a
// capture store, which is a hard failure.
func (ensurer *Ensurer) Ensure(ctx context.Context, branch string) error {
	if branch == ensurer.base {
		return nil
	}

	ref, err := ensurer.store.GetBranchRef(ctx, branch)
	if err != nil {
		return fmt.Errorf("checking branch %s: %w", branch, err)
	}
	if ref != nil {
		return nil
	}

	baseRef, err := ensurer.store.GetBranchRef(ctx, ensurer.base)
	if err != nil {
		return fmt.Errorf("reading base branch %s: %w", ensurer.base, err)
	}
	if baseRef == nil {
		return fmt.Errorf("base branch %s does not exist: nothing to branch %s from", ensurer.base, branch)
	}

	if _, err := ensurer.store.CreateBranchRef(ctx, branch, baseRef.Object.SHA); err != nil {
		// Another writer created the branch between our check and the
		// create. The branch exists, which is all Ensure promises.
		if store.IsAlreadyExists(err) {
			ensurer.logger.Debug("branch created concurrently", "branch", branch)
			return nil
		}
		return fmt.Errorf("creating branch %s: %w", branch, err)
	}

	ensurer.logger.Info("created capture branch",
		"branch", branch,
		"base", ensurer.base,
		"base_sha", baseRef.Object.SHA)
	return nil
}
