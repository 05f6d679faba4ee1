// Package server provides HTTP server management and lifecycle handling for
// the clinic API. It wires the middleware chain, mounts the routes and
// handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fernheilpraxis/clinic-api/config"
	"github.com/fernheilpraxis/clinic-api/handlers"
	"github.com/fernheilpraxis/clinic-api/logging"
	"github.com/fernheilpraxis/clinic-api/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	router  chi.Router
	handler *handlers.Handler
	config  *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, h *handlers.Handler) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:  router,
		handler: h,
		config:  cfg,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.Middleware(logging.Logger()))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(RateLimitHandler)
	s.router.Use(metrics.Middleware)
}

// setupRoutes configures all routes. Everything except login, health,
// metrics and the label table sits behind the session gate.
func (s *Server) setupRoutes() {
	h := s.handler

	s.router.Post("/login", h.Login)
	s.router.Get("/health", h.HealthCheck)
	s.router.Get("/labels", h.ServeLabels)
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router.Group(func(r chi.Router) {
		r.Use(h.RequireSession)

		r.Post("/logout", h.Logout)
		r.Post("/passcode", h.ChangePasscode)

		r.Route("/patients", func(r chi.Router) {
			r.Get("/", h.ListPatients)
			r.Post("/", h.CreatePatient)

			r.Route("/{patientId}", func(r chi.Router) {
				r.Get("/", h.GetPatient)
				r.Put("/", h.UpdatePatient)
				r.Delete("/", h.DeletePatient)

				r.Route("/prescriptions", func(r chi.Router) {
					r.Get("/", h.ListPrescriptions)
					r.Get("/{prescriptionId}", h.GetPrescription)
					r.Delete("/{prescriptionId}", h.DeletePrescription)
					r.Post("/{prescriptionId}/copy-to-draft", h.CopyToDraft)
				})

				r.Route("/draft", func(r chi.Router) {
					r.Get("/", h.GetDraft)
					r.Put("/", h.EditDraft)
					r.Delete("/", h.DiscardDraft)
					r.Put("/meta", h.SetDraftMeta)
					r.Post("/insert", h.InsertRemedy)
					r.Post("/persist", h.PersistDraft)
					r.Post("/export/pdf", h.ExportDraftPDF)
					r.Post("/export/print", h.ExportDraftPrint)
				})
			})
		})

		r.Route("/remedies", func(r chi.Router) {
			r.Get("/", h.ListRemedies)
			r.Post("/", h.CreateRemedy)
			r.Get("/{remedyId}", h.GetRemedy)
			r.Put("/{remedyId}", h.UpdateRemedy)
			r.Delete("/{remedyId}", h.DeleteRemedy)
			r.Get("/{remedyId}/paste-block", h.ServePasteBlock)
		})
	})
}

// Router exposes the assembled routes, mainly for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// Start starts the server
func (s *Server) Start() error {
	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}
