package http

import (
	"net/http"

	"github.com/competeai/competeai/pkg/service/completion"
)

type providersResponse struct {
	Active    string                `json:"active,omitempty"`
	Providers []completion.Provider `json:"providers"`
}

func (s *Server) providersHandler(w http.ResponseWriter, r *http.Request) {
	providers := s.providers
	if providers == nil {
		providers = []completion.Provider{}
	}

	writeJSON(r.Context(), w, http.StatusOK, providersResponse{
		Active:    s.active,
		Providers: providers,
	})
}
