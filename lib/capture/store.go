// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"context"

	"github.com/bureau-foundation/capture/lib/store"
)

// Store is the slice of the store client the pipeline uses. Satisfied
// by *store.Client; tests substitute an in-memory implementation.
type Store interface {
	GetFile(ctx context.Context, branch, path string) (*store.FileContent, error)
	PutFile(ctx context.Context, request store.PutFileRequest) (*store.PutResult, error)
	ListDirectory(ctx context.Context, branch, dir string) ([]store.DirEntry, error)
	GetBranchRef(ctx context.Context, branch string) (*store.Ref, error)
	CreateBranchRef(ctx context.Context, branch, sha string) (*store.Ref, error)
}
