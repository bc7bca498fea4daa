// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/bureau-foundation/capture/lib/testutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHTTPServerServeAndShutdown(t *testing.T) {
	server := NewHTTPServer(HTTPServerConfig{
		Address: "127.0.0.1:0",
		Handler: http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			writer.Write([]byte("ok"))
		}),
		Logger: testLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- server.Serve(ctx)
	}()

	testutil.RequireClosed(t, server.Ready(), 5*time.Second, "server ready")

	response, err := http.Get("http://" + server.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(response.Body)
	response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", response.StatusCode)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q, want %q", body, "ok")
	}

	cancel()
	if err := testutil.RequireReceive(t, serveDone, 5*time.Second, "serve exit"); err != nil {
		t.Errorf("Serve returned error: %v", err)
	}
}

func TestHTTPServerBindFailure(t *testing.T) {
	first := NewHTTPServer(HTTPServerConfig{
		Address: "127.0.0.1:0",
		Handler: http.NotFoundHandler(),
		Logger:  testLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go first.Serve(ctx)
	testutil.RequireClosed(t, first.Ready(), 5*time.Second, "first server ready")

	// Second server on the same resolved address must fail to bind.
	second := NewHTTPServer(HTTPServerConfig{
		Address: first.Addr().String(),
		Handler: http.NotFoundHandler(),
		Logger:  testLogger(),
	})
	if err := second.Serve(context.Background()); err == nil {
		t.Fatal("expected bind error for occupied address")
	}
}

func TestNewHTTPServerValidation(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for missing handler")
		}
	}()
	NewHTTPServer(HTTPServerConfig{Address: ":0", Logger: testLogger()})
}
