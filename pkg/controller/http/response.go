package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/competeai/competeai/pkg/usecase"
	"github.com/competeai/competeai/pkg/utils/errutil"
	"github.com/competeai/competeai/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(ctx, w, data)
}

// statusOf maps use case error kinds to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and writes it as JSON. Raw details of server errors are only
// exposed in development mode.
func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	status := statusOf(err)
	errutil.Log(ctx, err, status)

	resp := errorResponse{Error: fallback}
	switch {
	case status == http.StatusBadRequest:
		resp.Error = strings.TrimSuffix(err.Error(), ": "+usecase.ErrInvalidInput.Error())
	case errors.Is(err, usecase.ErrProviderNotConfigured):
		resp.Error = "AI provider not configured"
	case status == http.StatusGatewayTimeout:
		resp.Error = "Upstream provider timed out"
	case errors.Is(err, usecase.ErrStoreUnavailable):
		resp.Error = "Embedding store unavailable"
	}

	if s.development && status >= http.StatusInternalServerError {
		resp.Details = err.Error()
	}

	writeJSON(ctx, w, status, resp)
}

// badRequest writes a 400 response for a request rejected before reaching a use case
func badRequest(ctx context.Context, w http.ResponseWriter, msg string) {
	writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: msg})
}

// decodeJSON reads a JSON body of at most maxBodyBytes into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer safe.Close(r.Context(), body, "request body")

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return goerr.Wrap(err, "invalid request body")
	}
	return nil
}
