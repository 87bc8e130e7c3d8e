package http

import (
	"encoding/json"
	"net/http"

	"github.com/competeai/competeai/pkg/usecase"
)

type summarizeRequest struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (s *Server) summarizeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req summarizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(ctx, w, "Invalid request body")
		return
	}

	subject, err := usecase.ParseSummarySubject(req.Type, req.Data)
	if err != nil {
		s.writeError(ctx, w, err, "Failed to generate summary")
		return
	}

	result, err := s.summarizeUC.Summarize(ctx, subject)
	if err != nil {
		s.writeError(ctx, w, err, "Failed to generate summary")
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}
