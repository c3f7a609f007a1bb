// Package server exposes the community analysis over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hurou927/tag-communities/internal/analysis"
	"github.com/hurou927/tag-communities/internal/config"
	"github.com/hurou927/tag-communities/internal/ingest"
	"github.com/hurou927/tag-communities/internal/store"
)

// Server handles the community API.
type Server struct {
	cfg      config.Server
	svc      *analysis.Service
	logger   *zap.Logger
	metrics  *Metrics
	validate *validator.Validate
}

// New creates a Server over svc.
func New(cfg config.Server, svc *analysis.Service, logger *zap.Logger, metrics *Metrics) *Server {
	return &Server{
		cfg:      cfg,
		svc:      svc,
		logger:   logger,
		metrics:  metrics,
		validate: newValidator(),
	}
}

// Routes configures middleware and routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(instrument(s.logger, s.metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)
		r.Post("/analyze", s.analyze)
		r.Put("/update-person-interests", s.updatePersonInterests)
		r.Get("/get-person-interests", s.getPersonInterests)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// analyze handles POST /api/analyze with a multipart "file" field.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.metrics.AnalysisErrors.WithLabelValues("upload").Inc()
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			s.writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("file exceeds the %d byte upload limit", tooLarge.Limit))
		case r.MultipartForm != nil && len(r.MultipartForm.Value["file"]) > 0:
			// a "file" part with an empty filename is parsed as a plain value
			s.writeError(w, http.StatusBadRequest, "no file selected")
		default:
			s.writeError(w, http.StatusBadRequest, "no file was sent")
		}
		return
	}
	defer file.Close()

	interests, err := ingest.Parse(header.Filename, file)
	if err != nil {
		s.metrics.AnalysisErrors.WithLabelValues("ingest").Inc()
		s.logger.Warn("rejecting upload", zap.String("file", header.Filename), zap.Error(err))
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.svc.Load(r.Context(), interests)
	if err != nil {
		s.fail(w, "analyze", err)
		return
	}

	s.metrics.observeResult("upload", res.TotalPeople, res.TotalCommunities)
	s.writeJSON(w, http.StatusOK, res)
}

type updateRequest struct {
	PersonName string   `json:"person_name" validate:"required"`
	Interests  []string `json:"interests"`
}

// updatePersonInterests handles PUT /api/update-person-interests.
func (s *Server) updatePersonInterests(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: interests must be a list of strings")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	res, err := s.svc.UpdatePerson(r.Context(), req.PersonName, req.Interests)
	if err != nil {
		s.fail(w, "update", err)
		return
	}

	s.logger.Info("person updated",
		zap.String("person", req.PersonName),
		zap.Int("interests", len(req.Interests)),
	)
	s.metrics.observeResult("update", res.TotalPeople, res.TotalCommunities)
	s.writeJSON(w, http.StatusOK, res)
}

// getPersonInterests handles GET /api/get-person-interests?person_name=.
func (s *Server) getPersonInterests(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("person_name")
	if name == "" {
		s.writeError(w, http.StatusBadRequest, "person_name is required")
		return
	}

	tags, err := s.svc.Interests(r.Context(), name)
	if err != nil {
		s.fail(w, "get", err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"person_name": name,
		"interests":   tags,
	})
}

// fail maps service errors to a status code and logs unexpected ones.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNoData):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrPersonNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	default:
		s.metrics.AnalysisErrors.WithLabelValues("internal").Inc()
		s.logger.Error("request failed", zap.String("op", op), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "server error")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("writing response", zap.Int("status", status), zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
