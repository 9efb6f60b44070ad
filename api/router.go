package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"

	"github.com/openclaw/qrform/config"
	"github.com/openclaw/qrform/qr"
	"github.com/openclaw/qrform/store"
)

// Server holds the dependencies for all HTTP handlers.
type Server struct {
	Results    *store.ResultStore
	Sessions   sessions.Store
	Defaults   config.FormDefaults
	Stylesheet string
	Log        *slog.Logger
	Version    string
	StartTime  time.Time

	// Now stamps download filenames; time.Now when nil.
	Now func() time.Time
}

// NewRouter returns a fully configured chi router with all routes.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(corsMiddleware)
	r.Use(requestLogger(s.Log))

	// Form UI
	r.Get("/", s.handleIndex)
	r.Post("/generate", s.handleGenerate)
	r.Get("/download", s.handleDownload)
	r.Get("/qr/data", s.handleQRData)

	// Stateless API
	r.Post("/api/qr", s.handleAPIGenerate)

	r.Get("/status", s.handleStatus)

	return r
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// --- helpers ----------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// errorStatus maps rejected input to 400 and anything else to 500.
func errorStatus(err error) int {
	var inputErr *qr.InvalidInputError
	var colorErr *qr.InvalidColorError
	if errors.As(err, &inputErr) || errors.As(err, &colorErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// --- middleware --------------------------------------------------------------

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
				"remote", r.RemoteAddr,
			)
		})
	}
}
