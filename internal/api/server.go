// Package api exposes the HTTP JSON interface: accounts, the design upload
// catalog, inquiry and directory forms, events and the stored assets.
package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dharsanguruparan/dbzmanager/internal/auth"
	"github.com/dharsanguruparan/dbzmanager/internal/config"
	"github.com/dharsanguruparan/dbzmanager/internal/database"
	"github.com/dharsanguruparan/dbzmanager/internal/fileno"
	"github.com/dharsanguruparan/dbzmanager/internal/logger"
	"github.com/dharsanguruparan/dbzmanager/internal/model"
	"github.com/dharsanguruparan/dbzmanager/internal/signing"
	"github.com/dharsanguruparan/dbzmanager/internal/storage"
)

// UploadStore persists design upload records.
type UploadStore interface {
	CreateUpload(ctx context.Context, u *model.Upload) error
	ListUploads(ctx context.Context, f model.UploadFilter) ([]model.Upload, error)
	GetUpload(ctx context.Context, id int64) (*model.Upload, error)
	GetUploadByFileNumber(ctx context.Context, fileNumber string) (*model.Upload, error)
	UpdateUpload(ctx context.Context, u *model.Upload) error
	DeleteUpload(ctx context.Context, id int64) error
	UploadSummary(ctx context.Context) ([]model.DesignDepthCount, error)
	DesignCounts(ctx context.Context) ([]model.DesignCount, int64, error)
	Industries(ctx context.Context) ([]string, error)
}

// FormStore persists inquiries, directories and events.
type FormStore interface {
	CreateInquiry(ctx context.Context, in *model.Inquiry) error
	ListInquiries(ctx context.Context) ([]model.Inquiry, error)
	CreateDirectory(ctx context.Context, d *model.Directory) error
	ListDirectories(ctx context.Context) ([]model.Directory, error)
	CreateEvent(ctx context.Context, e *model.Event) error
	ListEvents(ctx context.Context) ([]model.Event, error)
}

// Store is everything the server persists. Both repository.Store and
// memstore.Store satisfy it.
type Store interface {
	auth.UserStore
	UploadStore
	FormStore
	database.Pinger
}

// fileNumberAttempts bounds regeneration after a file number collision.
const fileNumberAttempts = 5

// Server exposes HTTP endpoints for the catalog and forms.
type Server struct {
	cfg     *config.Config
	store   Store
	auth    *auth.Service
	signer  *signing.Signer
	assets  *storage.Assets
	ready   *database.ReadinessChecker
	log     *logger.Logger
	handler http.Handler
	server  *http.Server
	once    sync.Once

	newFileNumber func() string
	now           func() time.Time
}

// New constructs a Server.
func New(cfg *config.Config, store Store, assets *storage.Assets, signer *signing.Signer, log *logger.Logger) *Server {
	s := &Server{
		cfg:           cfg,
		store:         store,
		auth:          auth.NewService(store, signer),
		signer:        signer,
		assets:        assets,
		ready:         database.NewReadinessChecker(store),
		log:           log.With("component", "api"),
		newFileNumber: fileno.Generate,
		now:           func() time.Time { return time.Now().UTC() },
	}
	s.handler = s.routes()
	return s
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(metricsMiddleware)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/signup", s.handleSignup)
	r.Post("/login", s.handleLogin)
	r.With(s.authenticate).Get("/me", s.handleMe)

	r.Get("/uploads", s.handleListUploads)
	r.Get("/uploads/summary", s.handleUploadSummary)
	r.Get("/uploads/count", s.handleUploadCount)
	r.Get("/industries", s.handleIndustries)
	r.Get("/uploads/{key}", s.handleServeAsset)
	r.Head("/uploads/{key}", s.handleServeAsset)

	r.Post("/submit-inquiry", s.handleSubmitInquiry)
	r.Get("/get-directories", s.handleListDirectories)
	r.Get("/events", s.handleListEvents)

	r.Group(func(r chi.Router) {
		r.Use(s.protect)
		r.Post("/upload", s.handleCreateUpload)
		r.Put("/uploads/{key}", s.handleUpdateUpload)
		r.Delete("/uploads/{key}", s.handleDeleteUpload)
		r.Get("/get-inquiries", s.handleListInquiries)
		r.Post("/add-directory", s.handleAddDirectory)
		r.Post("/add-event", s.handleAddEvent)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.once.Do(func() {
		s.server = &http.Server{
			Addr:              s.cfg.Address,
			Handler:           s.handler,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		}
	})
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("api listening", "addr", s.cfg.Address)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.log.Info("shutting down", "timeout", s.cfg.ShutdownTimeout.String())
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.ready.Ready(r.Context()); err != nil {
		s.log.Warn("readiness check failed", "error", err)
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
