// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bureau-foundation/capture/lib/store"
)

// fakeStore is an in-memory Store with the contents API's
// conditional-write semantics: create-only writes fail when the path
// exists, updates fail when the presented token is stale.
type fakeStore struct {
	mu       sync.Mutex
	branches map[string]string              // branch → tip commit sha
	files    map[string]map[string]fakeFile // branch → path → file
	seq      int
	calls    map[string]int
	results  map[string]store.PutResult // path → last successful write

	// putHook, when set, runs before each PutFile; a non-nil return
	// is surfaced instead of performing the write.
	putHook func(request store.PutFileRequest) error

	// createRefHook, when set, runs before each CreateBranchRef.
	createRefHook func(branch string) error
}

type fakeFile struct {
	content []byte
	sha     string
}

func newFakeStore(branches ...string) *fakeStore {
	fake := &fakeStore{
		branches: make(map[string]string),
		files:    make(map[string]map[string]fakeFile),
		calls:    make(map[string]int),
		results:  make(map[string]store.PutResult),
	}
	for _, branch := range branches {
		fake.seq++
		fake.branches[branch] = fmt.Sprintf("commit-%d", fake.seq)
		fake.files[branch] = make(map[string]fakeFile)
	}
	return fake
}

func apiError(status int, message string) error {
	return &store.APIError{StatusCode: status, Message: message}
}

func (fake *fakeStore) GetFile(ctx context.Context, branch, path string) (*store.FileContent, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.calls["GetFile"]++

	file, ok := fake.files[branch][path]
	if !ok {
		return nil, nil
	}
	return &store.FileContent{
		Name:    path[strings.LastIndex(path, "/")+1:],
		Path:    path,
		SHA:     file.sha,
		Size:    int64(len(file.content)),
		Content: append([]byte(nil), file.content...),
	}, nil
}

func (fake *fakeStore) PutFile(ctx context.Context, request store.PutFileRequest) (*store.PutResult, error) {
	fake.mu.Lock()
	hook := fake.putHook
	fake.calls["PutFile"]++
	fake.mu.Unlock()

	if hook != nil {
		if err := hook(request); err != nil {
			return nil, err
		}
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()

	if _, ok := fake.branches[request.Branch]; !ok {
		return nil, apiError(404, "Branch not found")
	}
	files := fake.files[request.Branch]
	if files == nil {
		files = make(map[string]fakeFile)
		fake.files[request.Branch] = files
	}

	existing, exists := files[request.Path]
	if request.SHA == "" && exists {
		return nil, apiError(422, `"sha" wasn't supplied`)
	}
	if request.SHA != "" && (!exists || existing.sha != request.SHA) {
		return nil, apiError(409, "is at a different sha than expected")
	}

	fake.seq++
	blobSHA := fmt.Sprintf("blob-%d", fake.seq)
	commitSHA := fmt.Sprintf("commit-%d", fake.seq)
	files[request.Path] = fakeFile{
		content: append([]byte(nil), request.Content...),
		sha:     blobSHA,
	}
	fake.branches[request.Branch] = commitSHA
	result := store.PutResult{ContentSHA: blobSHA, CommitSHA: commitSHA}
	fake.results[request.Path] = result
	return &result, nil
}

func (fake *fakeStore) ListDirectory(ctx context.Context, branch, dir string) ([]store.DirEntry, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.calls["ListDirectory"]++

	prefix := dir + "/"
	var entries []store.DirEntry
	for path, file := range fake.files[branch] {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		rest := strings.TrimPrefix(path, prefix)
		if strings.Contains(rest, "/") {
			continue
		}
		entries = append(entries, store.DirEntry{
			Name: rest,
			Path: path,
			SHA:  file.sha,
			Size: int64(len(file.content)),
			Type: "file",
		})
	}
	return entries, nil
}

func (fake *fakeStore) GetBranchRef(ctx context.Context, branch string) (*store.Ref, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.calls["GetBranchRef"]++

	sha, ok := fake.branches[branch]
	if !ok {
		return nil, nil
	}
	return &store.Ref{
		Ref:    "refs/heads/" + branch,
		Object: store.RefObject{SHA: sha, Type: "commit"},
	}, nil
}

func (fake *fakeStore) CreateBranchRef(ctx context.Context, branch, sha string) (*store.Ref, error) {
	fake.mu.Lock()
	hook := fake.createRefHook
	fake.calls["CreateBranchRef"]++
	fake.mu.Unlock()

	if hook != nil {
		if err := hook(branch); err != nil {
			return nil, err
		}
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()

	if _, ok := fake.branches[branch]; ok {
		return nil, apiError(422, "Reference already exists")
	}
	fake.branches[branch] = sha
	fake.files[branch] = make(map[string]fakeFile)
	return &store.Ref{
		Ref:    "refs/heads/" + branch,
		Object: store.RefObject{SHA: sha, Type: "commit"},
	}, nil
}

// seed writes a file directly, bypassing the conditional-write
// checks. Returns the file's version token.
func (fake *fakeStore) seed(branch, path, content string) string {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if fake.files[branch] == nil {
		fake.files[branch] = make(map[string]fakeFile)
	}
	fake.seq++
	sha := fmt.Sprintf("blob-%d", fake.seq)
	fake.files[branch][path] = fakeFile{content: []byte(content), sha: sha}
	return sha
}

// text returns the content of a stored file, or "" when absent.
func (fake *fakeStore) text(branch, path string) string {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return string(fake.files[branch][path].content)
}

// has reports whether a file exists.
func (fake *fakeStore) has(branch, path string) bool {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	_, ok := fake.files[branch][path]
	return ok
}

// resultFor returns the recorded result of the last successful write
// to a path.
func (fake *fakeStore) resultFor(path string) store.PutResult {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.results[path]
}

// callCount returns how many times the named operation ran.
func (fake *fakeStore) callCount(operation string) int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.calls[operation]
}

// totalCalls returns the number of store operations across all kinds.
func (fake *fakeStore) totalCalls() int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	total := 0
	for _, count := range fake.calls {
		total += count
	}
	return total
}
