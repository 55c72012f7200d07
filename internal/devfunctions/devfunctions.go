// Package devfunctions is a local stand-in for the remote history, generation and
// upload functions, so the web application can run without network access.
// It keeps a fixed history and never produces documents.
package devfunctions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goccy/go-json"

	"github.com/pr-poehali-dev/license-agreement-generator/internal/models"
)

// minTemplateSize rejects uploads too small to be a document.
const minTemplateSize = 100

// Fixture is the history served by default.
var Fixture = []models.ContractRecord{
	{
		ContractNumber: "25/10/2025",
		Nickname:       "EDDI$",
		FullName:       "EDUARD FRANK IOSIFOVIC",
		ShortName:      "EDUARD F.I.",
		ContractDate:   "25 октября 2025 г.",
		Citizenship:    "Германии",
		Email:          "mr-frank-eduard@web.de",
		Passport:       "GER: L8V2RCZ80",
		CreatedAt:      "2025-10-25T14:30:00Z",
	},
}

// Server serves the stand-in functions.
type Server struct {
	port    string
	records []models.ContractRecord
	router  chi.Router
}

// New creates the stand-in. A nil records slice serves Fixture.
func New(port string, records []models.ContractRecord) *Server {
	if records == nil {
		records = Fixture
	}

	s := &Server{
		port:    port,
		records: newestFirst(records),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		MaxAge:         86400,
	}))

	r.Get("/history", s.handleHistory)
	r.Post("/generate", s.handleGenerate)
	r.Post("/upload-template", s.handleUploadTemplate)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	})

	s.router = r
	return s
}

// Handler exposes the routes, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort("127.0.0.1", s.port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Starting development functions", "addr", addr)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("failed to start development functions: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// BaseURL is the address the web application should use to reach the stand-in.
func (s *Server) BaseURL() string {
	return "http://" + net.JoinHostPort("127.0.0.1", s.port)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.records)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var form models.ContractForm
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}

	if missing := form.MissingFields(); len(missing) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "All fields are required",
			"fields": missing,
		})
		return
	}

	slog.Info("Development generation request", "request_id", r.Header.Get("X-Request-Id"))
	writeJSON(w, http.StatusNotImplemented, map[string]string{
		"error": "Document generation is not available in development mode",
	})
}

func (s *Server) handleUploadTemplate(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No valid file found in request"})
		return
	}
	defer file.Close()

	n, err := io.Copy(io.Discard, file)
	if err != nil || n < minTemplateSize {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No valid file found in request"})
		return
	}

	slog.Info("Development template upload", "size", n)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Template uploaded successfully"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

// newestFirst orders records by creation time, most recent first, as the
// history function does.
func newestFirst(records []models.ContractRecord) []models.ContractRecord {
	out := make([]models.ContractRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}
