// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package store is a typed client for the remote version-controlled
// file store backing the capture service: a GitHub repository driven
// through the REST contents and git-refs APIs.
//
// The client binds a single owner/repo at construction — the store is
// one repository, with branches acting as isolated namespaces. The
// only cross-writer coordination primitive the store offers is the
// version token (blob SHA): a conditional write succeeds only when the
// presented token matches the path's current revision. Everything the
// capture pipeline does with concurrency is expressed through that
// contract; the client's job is to translate HTTP status codes into
// typed outcomes (found / absent / conflict / failure) the pipeline
// can branch on.
//
// Absence is not exceptional here: GetFile, GetBranchRef return nil
// (no error) on 404, and ListDirectory returns an empty listing for a
// missing directory. All other non-2xx responses surface as *APIError
// with predicate helpers (IsConflict, IsAlreadyExists, IsTransient,
// ...).
package store
