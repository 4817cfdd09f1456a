// Package api serves the startup catalog and the mounted deal board over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pbaille/dealflow/internal/actions"
	"github.com/pbaille/dealflow/internal/board"
	"github.com/pbaille/dealflow/internal/drag"
	"github.com/pbaille/dealflow/internal/pipeline"
	"github.com/pbaille/dealflow/internal/store"
)

// Server handles HTTP requests for the catalog and board API
type Server struct {
	store   *store.Store
	session *pipeline.Session
	addr    string
	log     *zap.Logger

	// ShutdownTimeout bounds graceful shutdown once Run's context ends
	ShutdownTimeout time.Duration
}

// New creates a new API server
func New(s *store.Store, session *pipeline.Session, addr string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		store:           s,
		session:         session,
		addr:            addr,
		log:             log,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Handler builds the routed handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Catalog
	mux.HandleFunc("GET /startups", s.listStartups)
	mux.HandleFunc("POST /startups", s.addStartup)
	mux.HandleFunc("GET /startups/my", s.myStartups)
	mux.HandleFunc("GET /startups/{id}", s.getStartup)
	mux.HandleFunc("PUT /startups/{id}", s.updateStartup)
	mux.HandleFunc("DELETE /startups/{id}", s.deleteStartup)
	mux.HandleFunc("GET /startups/{id}/similar", s.similarStartups)

	// Search
	mux.HandleFunc("GET /search", s.searchStartups)

	// Board
	mux.HandleFunc("GET /board", s.getBoard)
	mux.HandleFunc("POST /board/moves", s.moveStartup)
	mux.HandleFunc("POST /board/actions", s.runAction)
	mux.HandleFunc("GET /board/archive", s.listArchive)
	mux.HandleFunc("POST /board/archive/{id}/restore", s.restoreStartup)
	mux.HandleFunc("GET /board/toast", s.getToast)
	mux.HandleFunc("GET /board/activity", s.listActivity)

	// Health check
	mux.HandleFunc("GET /health", s.health)

	return withCORS(s.withLogging(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("starting server", zap.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
		defer cancel()
		s.log.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeFailure maps a domain error to its status code
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, pipeline.ErrNotOnBoard):
		status = http.StatusNotFound
	case errors.Is(err, actions.ErrBusy), errors.Is(err, actions.ErrMenuNotOpen),
		errors.Is(err, drag.ErrDragInProgress):
		status = http.StatusConflict
	case errors.Is(err, board.ErrUnknownColumn), errors.Is(err, actions.ErrUnknownAction),
		errors.Is(err, board.ErrInvalidStatus), errors.Is(err, board.ErrDuplicateStartup):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	writeError(w, status, err.Error())
}
