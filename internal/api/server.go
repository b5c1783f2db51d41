package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/RecipeBox/internal/dispatch"
)

// maxBodyBytes bounds a request body; recipe imports are the largest payloads
const maxBodyBytes = 8 << 20

// Dispatcher runs named operations
type Dispatcher interface {
	Has(name string) bool
	Dispatch(ctx context.Context, name string, args json.RawMessage) dispatch.Result
}

// Server exposes the dispatch layer over HTTP on the loopback interface.
type Server struct {
	dispatcher Dispatcher
	logger     *logrus.Logger
	mux        *http.ServeMux
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(dispatcher Dispatcher, logger *logrus.Logger) *Server {
	s := &Server{dispatcher: dispatcher, logger: logger, mux: http.NewServeMux()}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/{operation}", s.handleOperation)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, dispatch.Result{Success: false, Message: message})
}

// readArgs reads the request body as raw JSON arguments. An empty body is
// valid and means "no arguments".
func (s *Server) readArgs(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool, string) {
	if r.Body == nil {
		return nil, true, ""
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, false, fmt.Sprintf("failed to read request body: %v", err)
	}
	if len(body) == 0 {
		return nil, true, ""
	}
	if !json.Valid(body) {
		return nil, false, "invalid JSON body"
	}
	return body, true, ""
}

// isLoopbackHost reports whether a host or host:port names this machine
func isLoopbackHost(hostport string) bool {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// checkCaller rejects requests that a browser page from another origin
// could send. Operations run as the session user, so only local JSON
// clients are accepted.
func checkCaller(r *http.Request) (int, string) {
	if !isLoopbackHost(r.Host) {
		return http.StatusForbidden, "Host not allowed"
	}

	if origin := r.Header.Get("Origin"); origin != "" {
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" || !isLoopbackHost(u.Host) {
			return http.StatusForbidden, "Origin not allowed"
		}
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return http.StatusUnsupportedMediaType, "Content-Type must be application/json"
	}

	return 0, ""
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func (s *Server) handleOperation(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("operation")

	if status, msg := checkCaller(r); status != 0 {
		s.logger.WithFields(logrus.Fields{
			"operation": name,
			"host":      r.Host,
			"origin":    r.Header.Get("Origin"),
		}).Warn(msg)
		s.respondError(w, status, msg)
		return
	}

	if !s.dispatcher.Has(name) {
		s.respondError(w, http.StatusNotFound, "Unknown operation: "+name)
		return
	}

	args, ok, msg := s.readArgs(w, r)
	if !ok {
		s.logger.WithField("operation", name).Warn(msg)
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	// Failures are reported in the envelope; the status stays 200.
	s.respondJSON(w, http.StatusOK, s.dispatcher.Dispatch(r.Context(), name, args))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
