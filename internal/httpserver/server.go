package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/feb027/melon-ai-sub001/internal/blob"
	"github.com/feb027/melon-ai-sub001/internal/config"
	"github.com/feb027/melon-ai-sub001/internal/logger"
	"github.com/feb027/melon-ai-sub001/internal/reports"
	"github.com/feb027/melon-ai-sub001/internal/storage"
	"github.com/feb027/melon-ai-sub001/internal/storage/memory"
	"github.com/feb027/melon-ai-sub001/internal/storage/postgres"
)

// Server wires storage, blob store, and the reports pipeline behind
// an HTTP mux.
type Server struct {
	config    *config.Config
	log       *logger.Logger
	mux       *http.ServeMux
	storage   storage.Storage
	blobStore blob.Store
	blobMode  string
}

// New creates a new HTTP server
func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	s := &Server{
		config: cfg,
		log:    log,
		mux:    http.NewServeMux(),
	}

	s.initStorage()

	if err := s.initBlobStore(); err != nil {
		return nil, err
	}

	s.routes()
	return s, nil
}

// initStorage picks Postgres when a database URL is configured,
// falling back to in-memory storage otherwise.
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		s.log.Info("storage: using in-memory store")
		s.storage = memory.New()
		return
	}

	s.log.Info("storage: connecting to PostgreSQL")
	pgStorage, err := postgres.New(context.Background(), s.config.DatabaseURL)
	if err != nil {
		s.log.WithError(err).Warn("storage: PostgreSQL connection failed, falling back to in-memory store")
		s.storage = memory.New()
		return
	}

	s.log.Info("storage: PostgreSQL connected")
	s.storage = pgStorage
}

func (s *Server) initBlobStore() error {
	store, mode, err := blob.NewBlobStore(s.config.Blob, s.config.PublicBaseURL, s.log)
	if err != nil {
		return fmt.Errorf("blob store init failed: %w", err)
	}
	s.blobStore = store
	s.blobMode = mode
	s.log.WithField("mode", mode).Info("blob: store initialized")
	return nil
}

// routes registers the HTTP routes
func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	publisher := reports.NewPublisher(s.blobStore, s.config.Blob.S3.PresignTTLSeconds)
	reportsService := reports.NewService(s.storage, reports.NewPDFRenderer(), publisher, s.log)
	reportsHandler := reports.NewHandlers(reportsService, s.blobStore)

	// POST /reports/analytics - run the report pipeline
	s.mux.HandleFunc("POST /reports/analytics", reportsHandler.HandleGenerate)

	// GET /reports/files/{name} - direct artifact download (local blob mode)
	s.mux.HandleFunc("GET /reports/files/{name}", reportsHandler.HandleDownload)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"blob_mode": s.blobMode,
	})
}

// Handler returns the full middleware chain. Exposed for tests.
func (s *Server) Handler() http.Handler {
	// Build middleware chain (outermost first): CORS -> Rate Limit -> Router
	var handler http.Handler = s.mux
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start runs the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.log.Infof("listening on http://localhost%s", addr)
	s.log.Infof("health check: http://localhost%s/healthz", addr)
	s.log.Infof("reports API: http://localhost%s/reports/analytics", addr)

	return http.ListenAndServe(addr, s.Handler())
}

// Close releases storage resources
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
