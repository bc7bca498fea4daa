// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/bureau-foundation/capture/lib/capture"
)

// maxRequestBody bounds the inbound request body. Sized above the
// encoded-payload limit so oversized images reach the pipeline's own
// size check (413 with a descriptive body) instead of a connection
// reset, while still capping what a hostile client can make us
// buffer.
const maxRequestBody = 12 << 20

// ingestor is the slice of the capture pipeline the HTTP adapter
// uses.
type ingestor interface {
	Ingest(ctx context.Context, day string, payload capture.Payload) (*capture.Outcome, error)
}

// handler adapts HTTP requests to the ingestion pipeline.
type handler struct {
	ingestor ingestor
	logger   *slog.Logger

	// entropy feeds request-id generation; guarded by mu because the
	// monotonic reader is not safe for concurrent use.
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// captureRequest is the inbound JSON body for POST /api/capture.
type captureRequest struct {
	DataURL string   `json:"dataUrl"`
	Caption string   `json:"caption"`
	Label   string   `json:"label"`
	License string   `json:"license"`
	Tags    []string `json:"tags"`
}

// captureResponse is the success body.
type captureResponse struct {
	OK         bool   `json:"ok"`
	ID         string `json:"id"`
	Path       string `json:"path"`
	ReadmePath string `json:"readmePath"`
	Branch     string `json:"branch"`
	CommitSHA  string `json:"commitSha"`
}

// errorResponse is the failure body.
type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// newHandler builds the HTTP routing for the capture service.
func newHandler(ing ingestor, logger *slog.Logger) http.Handler {
	h := &handler{
		ingestor: ing,
		logger:   logger,
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/capture", h.handleCapture)
	return mux
}

// requestID allocates a ULID correlation id for one request.
func (h *handler) requestID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), h.entropy)
	if err != nil {
		return "unknown"
	}
	return id.String()
}

func (h *handler) handleCapture(writer http.ResponseWriter, request *http.Request) {
	requestID := h.requestID()
	logger := h.logger.With("request_id", requestID)

	if request.Method != http.MethodPost {
		writeJSON(writer, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var body captureRequest
	decoder := json.NewDecoder(http.MaxBytesReader(writer, request.Body, maxRequestBody))
	if err := decoder.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(writer, http.StatusRequestEntityTooLarge, errorResponse{
				Error: "request body too large",
				Code:  capture.CodePayloadTooLarge,
			})
			return
		}
		logger.Warn("malformed request body", "error", err)
		writeJSON(writer, http.StatusBadRequest, errorResponse{
			Error: "request body is not valid JSON",
			Code:  capture.CodeInvalidPayload,
		})
		return
	}

	outcome, err := h.ingestor.Ingest(request.Context(), "", capture.Payload{
		DataURL: body.DataURL,
		Caption: body.Caption,
		Label:   body.Label,
		License: body.License,
		Tags:    body.Tags,
	})
	if err != nil {
		h.writeIngestError(writer, logger, err)
		return
	}

	logger.Info("capture accepted",
		"id", outcome.ID,
		"path", outcome.ImagePath,
		"commit", outcome.CommitSHA,
		"digest", outcome.Digest)

	writeJSON(writer, http.StatusOK, captureResponse{
		OK:         true,
		ID:         outcome.ID,
		Path:       outcome.ImagePath,
		ReadmePath: outcome.ManifestPath,
		Branch:     outcome.Branch,
		CommitSHA:  outcome.CommitSHA,
	})
}

// writeIngestError maps pipeline errors to HTTP statuses: validation
// failures are the client's fault (400, or 413 for size), everything
// else is a server-side failure (500).
func (h *handler) writeIngestError(writer http.ResponseWriter, logger *slog.Logger, err error) {
	var validation *capture.ValidationError
	if errors.As(err, &validation) {
		status := http.StatusBadRequest
		if validation.Code == capture.CodePayloadTooLarge {
			status = http.StatusRequestEntityTooLarge
		}
		logger.Warn("capture rejected", "code", validation.Code, "detail", validation.Detail)
		writeJSON(writer, status, errorResponse{Error: validation.Detail, Code: validation.Code})
		return
	}

	logger.Error("capture failed", "error", err)
	writeJSON(writer, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func writeJSON(writer http.ResponseWriter, status int, body any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	json.NewEncoder(writer).Encode(body)
}
