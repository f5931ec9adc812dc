package datasource

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const maxPutBytes = 64 * 1024

// Server serves the tree over the REST dialect the sign's remote client
// speaks: GET, PUT and DELETE on {path}.json, plus GET /health.
type Server struct {
	Store  *Store
	Auth   string // required auth query value; empty disables the check
	Logger *slog.Logger
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/", s.serveNode)
	return mux
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Server) serveNode(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.URL.Path, ".json") {
		writeError(w, http.StatusNotFound, "paths end in .json")
		return
	}
	if s.Auth != "" {
		got := r.URL.Query().Get("auth")
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.Auth)) != 1 {
			writeError(w, http.StatusUnauthorized, "permission denied")
			return
		}
	}
	path := CleanPath(strings.TrimSuffix(r.URL.Path, ".json"))
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		v, err := s.Store.Tree(ctx, path)
		if err != nil {
			s.fail(w, r, path, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	case http.MethodPut:
		body, err := io.ReadAll(io.LimitReader(r.Body, maxPutBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "read body")
			return
		}
		if !json.Valid(body) {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if err := s.Store.Put(ctx, path, body); err != nil {
			s.fail(w, r, path, err)
			return
		}
		s.logger().Info("node written", "path", path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	case http.MethodDelete:
		if err := s.Store.Delete(ctx, path); err != nil {
			s.fail(w, r, path, err)
			return
		}
		s.logger().Info("node deleted", "path", path)
		writeJSON(w, http.StatusOK, nil)
	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, path string, err error) {
	s.logger().Error("request failed", "method", r.Method, "path", path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
