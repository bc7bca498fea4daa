// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// FileContent is a file read from the store: its decoded bytes plus
// the version token (SHA) required to conditionally overwrite it.
type FileContent struct {
	// Name is the final path element.
	Name string

	// Path is the repository-relative path.
	Path string

	// SHA is the version token for this revision of the file. Present
	// it back on PutFile to perform a conditional update; the store
	// rejects the write with 409 if the file has changed since this
	// read.
	SHA string

	// Size is the decoded content length in bytes, as reported by the
	// store.
	Size int64

	// Content is the decoded file content.
	Content []byte
}

// Text returns the file content as a string. Convenience for
// manifest and other text files.
func (file *FileContent) Text() string {
	return string(file.Content)
}

// DirEntry is one entry in a directory listing.
type DirEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	SHA  string `json:"sha"`
	Size int64  `json:"size"`
	Type string `json:"type"` // "file" or "dir"
}

// PutResult reports a successful write: the new version token for the
// written file and the commit that recorded it.
type PutResult struct {
	// ContentSHA is the file's new version token.
	ContentSHA string

	// CommitSHA identifies the commit the store created for the
	// write.
	CommitSHA string
}

// wireContent is the store's contents API representation of a file.
type wireContent struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Size     int64  `json:"size"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// GetFile reads a file from the given branch. Returns nil (no error)
// when the path does not exist in that branch. The returned content
// is decoded; the version token is carried in SHA.
func (client *Client) GetFile(ctx context.Context, branch, path string) (*FileContent, error) {
	var wire wireContent
	apiPath := client.contentsPath(path, branch)
	if err := client.get(ctx, apiPath, &wire); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s@%s: %w", path, branch, err)
	}

	content, err := decodeContent(wire.Content, wire.Encoding)
	if err != nil {
		return nil, fmt.Errorf("reading %s@%s: %w", path, branch, err)
	}

	return &FileContent{
		Name:    wire.Name,
		Path:    wire.Path,
		SHA:     wire.SHA,
		Size:    wire.Size,
		Content: content,
	}, nil
}

// ListDirectory lists the entries under a directory on the given
// branch. A directory that does not exist yields an empty listing,
// not an error — new day partitions start as missing directories.
// The listing is a point-in-time snapshot and may be stale relative
// to concurrent writers.
func (client *Client) ListDirectory(ctx context.Context, branch, dir string) ([]DirEntry, error) {
	body, _, err := client.do(ctx, http.MethodGet, client.contentsPath(dir, branch), nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s@%s: %w", dir, branch, err)
	}

	var entries []DirEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("listing %s@%s: %w", dir, branch, err)
	}
	return entries, nil
}

// PutFileRequest contains the fields for writing a file.
type PutFileRequest struct {
	// Path is the repository-relative path to write.
	Path string

	// Branch is the namespace to write in.
	Branch string

	// Content is the raw file content. The client base64-encodes it
	// for the wire.
	Content []byte

	// SHA is the version token from the read that preceded this
	// write. Required when updating an existing file: a stale token
	// fails with 409 (IsConflict). Leave empty for create-only
	// semantics: the write fails with 422 (IsAlreadyExists) if the
	// path already exists.
	SHA string

	// Message is the commit message recorded for the write.
	Message string
}

// PutFile writes a file on the given branch. See PutFileRequest for
// the conditional-write semantics carried by SHA.
func (client *Client) PutFile(ctx context.Context, request PutFileRequest) (*PutResult, error) {
	body := struct {
		Message string `json:"message"`
		Content string `json:"content"`
		Branch  string `json:"branch"`
		SHA     string `json:"sha,omitempty"`
	}{
		Message: request.Message,
		Content: base64.StdEncoding.EncodeToString(request.Content),
		Branch:  request.Branch,
		SHA:     request.SHA,
	}

	var result struct {
		Content struct {
			SHA string `json:"sha"`
		} `json:"content"`
		Commit struct {
			SHA string `json:"sha"`
		} `json:"commit"`
	}

	apiPath := client.repoPath("/contents/" + encodePath(request.Path))
	if err := client.put(ctx, apiPath, body, &result); err != nil {
		return nil, fmt.Errorf("writing %s@%s: %w", request.Path, request.Branch, err)
	}

	return &PutResult{
		ContentSHA: result.Content.SHA,
		CommitSHA:  result.Commit.SHA,
	}, nil
}

// contentsPath builds a contents API path with the branch selector.
func (client *Client) contentsPath(path, branch string) string {
	return client.repoPath("/contents/" + encodePath(path) + "?ref=" + url.QueryEscape(branch))
}

// encodePath escapes each path segment for use in a contents API URL,
// preserving the "/" separators.
func encodePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

// decodeContent decodes a contents API payload. The store wraps
// base64 content with newlines at 60 columns; those must be stripped
// before decoding.
func decodeContent(content, encoding string) ([]byte, error) {
	switch encoding {
	case "", "none":
		return []byte(content), nil
	case "base64":
		compact := strings.ReplaceAll(content, "\n", "")
		decoded, err := base64.StdEncoding.DecodeString(compact)
		if err != nil {
			return nil, fmt.Errorf("decoding base64 content: %w", err)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}
