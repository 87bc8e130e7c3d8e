package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/competeai/competeai/pkg/usecase"
)

const searchFailedMessage = "Failed to process search query"

type searchRequest struct {
	Query       string `json:"query"`
	ContentType string `json:"contentType"`
	Limit       int    `json:"limit"`
}

func (s *Server) searchPostHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req searchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(ctx, w, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		badRequest(ctx, w, "Query is required")
		return
	}

	s.search(w, r, usecase.SearchInput{
		Query:       req.Query,
		ContentType: req.ContentType,
		Limit:       req.Limit,
	})
}

// searchGetHandler runs the same pipeline from query parameters: q, type and limit
func (s *Server) searchGetHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := r.URL.Query()

	q := params.Get("q")
	if strings.TrimSpace(q) == "" {
		badRequest(ctx, w, `Query parameter "q" is required`)
		return
	}

	input := usecase.SearchInput{
		Query:       q,
		ContentType: params.Get("type"),
	}
	if v := params.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			badRequest(ctx, w, `Query parameter "limit" must be an integer`)
			return
		}
		input.Limit = limit
	}

	s.search(w, r, input)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, input usecase.SearchInput) {
	ctx := r.Context()

	result, err := s.searchUC.Search(ctx, input)
	if err != nil {
		s.writeError(ctx, w, err, searchFailedMessage)
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}
