package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Engine    *engine.Engine
}

// Server represents the HTTP server for the Mudra application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register gesture and training-data handlers if Store is configured
	if s.config.Store != nil {
		gestureHandler := api.NewGestureHandler(s.config.Store)
		samplesHandler := api.NewSamplesHandler(s.config.Store, s.config.Engine)

		// Use a wrapper to route between gestures and training-data handlers
		gestureRouter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Training data requests: /api/gestures/{id}/samples|sequences
			if strings.HasSuffix(r.URL.Path, "/samples") || strings.HasSuffix(r.URL.Path, "/sequences") {
				samplesHandler.ServeHTTP(w, r)
				return
			}
			gestureHandler.ServeHTTP(w, r)
		})

		s.mux.Handle("/api/gestures", gestureRouter)
		s.mux.Handle("/api/gestures/", gestureRouter)
	}

	// Register model and prediction endpoints if Engine is configured
	if s.config.Engine != nil {
		modelsHandler := api.NewModelsHandler(s.config.Store, s.config.Engine)
		s.mux.Handle("/api/models", modelsHandler)
		s.mux.Handle("/api/models/", modelsHandler)

		s.mux.Handle("/api/predict", api.NewPredictHandler(s.config.Engine))
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Engine))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
