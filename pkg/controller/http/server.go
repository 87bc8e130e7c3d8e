package http

import (
	"context"
	"net/http"
	"time"

	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/competeai/competeai/pkg/service/completion"
	"github.com/competeai/competeai/pkg/usecase"
	"github.com/competeai/competeai/pkg/utils/logging"
	"github.com/competeai/competeai/pkg/utils/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 1 << 20

type SearchUseCase interface {
	Search(ctx context.Context, input usecase.SearchInput) (*model.QueryResult, error)
}

type SummarizeUseCase interface {
	Summarize(ctx context.Context, subject usecase.SummarySubject) (*usecase.SummaryResult, error)
}

type Server struct {
	router      *chi.Mux
	development bool
	searchUC    SearchUseCase
	summarizeUC SummarizeUseCase
	metrics     *metrics.Metrics
	providers   []completion.Provider
	active      string
}

type Options func(*Server)

// WithDevelopment attaches raw error details to 5xx responses
func WithDevelopment(enabled bool) Options {
	return func(s *Server) {
		s.development = enabled
	}
}

func WithSummarize(uc SummarizeUseCase) Options {
	return func(s *Server) {
		s.summarizeUC = uc
	}
}

func WithMetrics(m *metrics.Metrics) Options {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithProviders publishes the provider table. active is the ID of the provider in use, empty when none.
func WithProviders(providers []completion.Provider, active string) Options {
	return func(s *Server) {
		s.providers = providers
		s.active = active
	}
}

func New(searchUC SearchUseCase, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:   r,
		searchUC: searchUC,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Route("/api/ai", func(r chi.Router) {
		r.Post("/search", s.searchPostHandler)
		r.Get("/search", s.searchGetHandler)
		if s.summarizeUC != nil {
			r.Post("/summarize", s.summarizeHandler)
		}
		r.Get("/providers", s.providersHandler)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		reqID := middleware.GetReqID(r.Context())
		logger := logging.Default().With("request_id", reqID)
		ctx := logging.With(r.Context(), logger)

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
