// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"
	"net/url"
)

// Ref is a git reference (branch) in the store.
type Ref struct {
	Ref    string    `json:"ref"` // "refs/heads/captures"
	Object RefObject `json:"object"`
}

// RefObject is the object a ref points to.
type RefObject struct {
	SHA  string `json:"sha"`
	Type string `json:"type"` // "commit"
}

// GetBranchRef reads the ref for a branch. Returns nil (no error)
// when the branch does not exist.
func (client *Client) GetBranchRef(ctx context.Context, branch string) (*Ref, error) {
	var ref Ref
	path := client.repoPath("/git/ref/heads/" + url.PathEscape(branch))
	if err := client.get(ctx, path, &ref); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading ref for branch %s: %w", branch, err)
	}
	return &ref, nil
}

// CreateBranchRef creates a branch pointing at the given commit.
// Fails with 422 (IsAlreadyExists) when another writer created the
// branch first — callers that need idempotent ensure semantics must
// tolerate that outcome as success.
func (client *Client) CreateBranchRef(ctx context.Context, branch, sha string) (*Ref, error) {
	request := struct {
		Ref string `json:"ref"`
		SHA string `json:"sha"`
	}{
		Ref: "refs/heads/" + branch,
		SHA: sha,
	}

	var ref Ref
	if err := client.post(ctx, client.repoPath("/git/refs"), request, &ref); err != nil {
		return nil, fmt.Errorf("creating branch %s at %s: %w", branch, sha, err)
	}
	return &ref, nil
}
