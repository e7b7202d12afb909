// Package viewer serves the translated project tree to a local browser.
package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/dasmlab/glossia/pkg/jobconfig"
	"github.com/dasmlab/glossia/pkg/project"
)

// DefaultPort is the port used when none is given.
const DefaultPort = 3000

// ErrNoProject is returned when the project directory or its config is missing.
var ErrNoProject = errors.New("no glossia project found; run: glossia generate --spec api.yaml --languages es,fr first")

// Config holds configuration for creating a Server.
type Config struct {
	Paths project.Paths
	// Assets holds the viewer files served under /. Defaults to the bundled assets.
	Assets fs.FS
	Port   int
	// Registry receives request metrics and backs /metrics. Defaults to a fresh registry.
	Registry *prometheus.Registry
	// Logger is the logger instance to use. If nil, a default logger is created.
	Logger *logrus.Logger
}

// Server provides the read-only HTTP API over a project tree.
type Server struct {
	paths    project.Paths
	assets   fs.FS
	port     int
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	logger   *logrus.Logger
}

// NewServer validates that the project exists and creates a Server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if !cfg.Paths.Exists() {
		return nil, ErrNoProject
	}
	if _, found, err := jobconfig.Load(cfg.Paths.ConfigFile()); err != nil {
		return nil, err
	} else if !found {
		return nil, ErrNoProject
	}
	if cfg.Assets == nil {
		cfg.Assets = Assets()
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}

	return &Server{
		paths:    cfg.Paths,
		assets:   cfg.Assets,
		port:     cfg.Port,
		registry: cfg.Registry,
		requests: promauto.With(cfg.Registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "glossia_viewer_requests_total",
				Help: "Total number of viewer HTTP requests",
			},
			[]string{"route"},
		),
		logger: cfg.Logger,
	}, nil
}

// Handler returns the router of the server.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.countRequests)

	api := r.PathPrefix("/api").Methods(http.MethodGet).Subrouter()
	api.HandleFunc("/config", s.handleConfig)
	api.HandleFunc("/index", s.handleIndex)
	api.HandleFunc("/specs/{locale}/{file}", s.handleSpec)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.PathPrefix("/").Handler(s.assetsHandler()).Methods(http.MethodGet)

	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if _, err := WriteIndex(s.paths); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.WithFields(logrus.Fields{
			"port": s.port,
			"root": s.paths.Root,
		}).Info("Viewer listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down viewer...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// countRequests increments the request counter by route template.
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unknown"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		s.requests.WithLabelValues(route).Inc()
		next.ServeHTTP(w, r)
	})
}

// handleConfig returns the persisted job configuration.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	cfg, found, err := jobconfig.Load(s.paths.ConfigFile())
	if err != nil {
		s.logger.WithError(err).Error("Failed to load config")
		http.Error(w, "failed to load config", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "config not found", http.StatusNotFound)
		return
	}
	writeJSON(w, cfg)
}

// handleIndex lists the spec files available per locale.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	idx, err := BuildIndex(s.paths)
	if err != nil {
		s.logger.WithError(err).Error("Failed to build index")
		http.Error(w, "failed to build index", http.StatusInternalServerError)
		return
	}
	writeJSON(w, idx)
}

// handleSpec returns one spec file of one locale.
func (s *Server) handleSpec(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locale, file := vars["locale"], vars["file"]
	if !safeName(locale) || !safeName(file) || !isSpecFile(file) {
		http.Error(w, "invalid spec path", http.StatusBadRequest)
		return
	}

	path := filepath.Join(s.paths.LocaleDir(locale), file)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.Error(w, "spec not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to open spec", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "failed to open spec", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	http.ServeContent(w, r, file, info.ModTime(), f)
}

// handleHealth provides a health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"status": "healthy",
	})
}

// assetsHandler serves viewer files, refusing dotfiles such as .env.
func (s *Server) assetsHandler() http.Handler {
	files := http.FileServer(http.FS(s.assets))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, part := range strings.Split(r.URL.Path, "/") {
			if strings.HasPrefix(part, ".") {
				http.NotFound(w, r)
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}

func safeName(name string) bool {
	return name != "" && !strings.HasPrefix(name, ".") && filepath.Base(name) == name && !strings.ContainsAny(name, `/\`)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
