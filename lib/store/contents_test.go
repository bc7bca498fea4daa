// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetFile(t *testing.T) {
	// The store wraps base64 content at 60 columns; the client must
	// strip the newlines before decoding.
	wrapped := "eyJpZCI6IjAwMDAwMSIsImZpbGUiOiJpbWFnZXMvMDAwMDAxLnBuZyJ9\nCg=="

	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/repos/owner/repo/contents/captures/2026-03-01/README.md" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
		if got := request.URL.Query().Get("ref"); got != "captures" {
			t.Errorf("ref = %q, want %q", got, "captures")
		}
		json.NewEncoder(writer).Encode(map[string]any{
			"name":     "README.md",
			"path":     "captures/2026-03-01/README.md",
			"sha":      "blob-sha-1",
			"size":     46,
			"type":     "file",
			"content":  wrapped,
			"encoding": "base64",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	file, err := client.GetFile(context.Background(), "captures", "captures/2026-03-01/README.md")
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	if file == nil {
		t.Fatal("GetFile returned nil for existing file")
	}

	if file.SHA != "blob-sha-1" {
		t.Errorf("SHA = %q, want %q", file.SHA, "blob-sha-1")
	}
	want := `{"id":"000001","file":"images/000001.png"}` + "\n"
	if file.Text() != want {
		t.Errorf("Text = %q, want %q", file.Text(), want)
	}
}

func TestGetFileAbsent(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
		json.NewEncoder(writer).Encode(map[string]string{"message": "Not Found"})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	file, err := client.GetFile(context.Background(), "captures", "captures/2026-03-01/README.md")
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	if file != nil {
		t.Errorf("expected nil for absent file, got %+v", file)
	}
}

func TestListDirectory(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/repos/owner/repo/contents/captures/2026-03-01/images" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
		json.NewEncoder(writer).Encode([]DirEntry{
			{Name: "000001.png", Type: "file"},
			{Name: "000002.png", Type: "file"},
			{Name: "thumbs", Type: "dir"},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	entries, err := client.ListDirectory(context.Background(), "captures", "captures/2026-03-01/images")
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Name != "000001.png" || entries[0].Type != "file" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
}

func TestListDirectoryAbsent(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
		json.NewEncoder(writer).Encode(map[string]string{"message": "Not Found"})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	entries, err := client.ListDirectory(context.Background(), "captures", "captures/2026-03-01/images")
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty listing for absent directory, got %d entries", len(entries))
	}
}

func TestPutFileCreate(t *testing.T) {
	var receivedBody struct {
		Message string `json:"message"`
		Content string `json:"content"`
		Branch  string `json:"branch"`
		SHA     string `json:"sha"`
	}

	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != "PUT" {
			t.Errorf("method = %s, want PUT", request.Method)
		}
		if request.URL.Path != "/repos/owner/repo/contents/captures/2026-03-01/images/000001.png" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
		json.NewDecoder(request.Body).Decode(&receivedBody)

		writer.WriteHeader(http.StatusCreated)
		json.NewEncoder(writer).Encode(map[string]any{
			"content": map[string]string{"sha": "new-blob-sha"},
			"commit":  map[string]string{"sha": "new-commit-sha"},
		})
	}))
	defer server.Close()

	imageBytes := []byte{0x89, 'P', 'N', 'G'}
	client := newTestClient(t, server)
	result, err := client.PutFile(context.Background(), PutFileRequest{
		Path:    "captures/2026-03-01/images/000001.png",
		Branch:  "captures",
		Content: imageBytes,
		Message: "capture: 000001",
	})
	if err != nil {
		t.Fatalf("PutFile: %v", err)
	}

	if receivedBody.Branch != "captures" {
		t.Errorf("request.Branch = %q, want %q", receivedBody.Branch, "captures")
	}
	if receivedBody.Message != "capture: 000001" {
		t.Errorf("request.Message = %q", receivedBody.Message)
	}
	if receivedBody.SHA != "" {
		t.Errorf("request.SHA = %q, want omitted for create", receivedBody.SHA)
	}
	if receivedBody.Content != base64.StdEncoding.EncodeToString(imageBytes) {
		t.Errorf("request.Content = %q, want base64 of image bytes", receivedBody.Content)
	}
	if result.ContentSHA != "new-blob-sha" {
		t.Errorf("ContentSHA = %q", result.ContentSHA)
	}
	if result.CommitSHA != "new-commit-sha" {
		t.Errorf("CommitSHA = %q", result.CommitSHA)
	}
}

func TestPutFileUpdatePresentsVersionToken(t *testing.T) {
	var receivedSHA string
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		var body struct {
			SHA string `json:"sha"`
		}
		json.NewDecoder(request.Body).Decode(&body)
		receivedSHA = body.SHA

		writer.WriteHeader(http.StatusOK)
		json.NewEncoder(writer).Encode(map[string]any{
			"content": map[string]string{"sha": "blob-sha-2"},
			"commit":  map[string]string{"sha": "commit-sha-2"},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.PutFile(context.Background(), PutFileRequest{
		Path:    "captures/2026-03-01/README.md",
		Branch:  "captures",
		Content: []byte("two lines\n"),
		SHA:     "blob-sha-1",
		Message: "capture index: 2026-03-01 000002",
	})
	if err != nil {
		t.Fatalf("PutFile: %v", err)
	}

	if receivedSHA != "blob-sha-1" {
		t.Errorf("request.SHA = %q, want %q", receivedSHA, "blob-sha-1")
	}
}

func TestPutFileCreateOnlyViolation(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(writer).Encode(map[string]any{
			"message": `"sha" wasn't supplied`,
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.PutFile(context.Background(), PutFileRequest{
		Path:    "captures/2026-03-01/images/000001.png",
		Branch:  "captures",
		Content: []byte{0x89},
		Message: "capture: 000001",
	})
	if err == nil {
		t.Fatal("expected error for 422")
	}
	if !IsAlreadyExists(err) {
		t.Errorf("expected IsAlreadyExists, got: %v", err)
	}
}

func TestEncodePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"captures/2026-03-01/images/000001.png", "captures/2026-03-01/images/000001.png"},
		{"captures/a b/README.md", "captures/a%20b/README.md"},
		{"with#hash/x.png", "with%23hash/x.png"},
	}
	for _, test := range tests {
		if got := encodePath(test.in); got != test.want {
			t.Errorf("encodePath(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestDecodeContentRejectsUnknownEncoding(t *testing.T) {
	if _, err := decodeContent("zzzz", "base85"); err == nil {
		t.Fatal("expected error for unknown encoding")
	}
}
