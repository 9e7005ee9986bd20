// Package fixtureserver serves a fixture document over HTTP as an
// npm-compatible registry, so live mode can be exercised without network
// access.
//
// Routes:
//
//	GET /healthz                   liveness probe
//	GET /{name}                    the package's document, as stored
//	GET /{name}/{version}          one version record ("latest" or a tag works)
//	GET /@{scope}/{name}[/version] scoped packages, escaped or not
package fixtureserver

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/depwalk/pkg/errors"
	"github.com/matzehuels/depwalk/pkg/registry"
)

// Server is an HTTP handler serving one fixture document.
type Server struct {
	path    string
	entries map[string]json.RawMessage
	logf    func(string, ...any)
	router  chi.Router
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets a per-request log callback.
func WithLogger(logf func(string, ...any)) Option {
	return func(s *Server) {
		if logf != nil {
			s.logf = logf
		}
	}
}

// New loads the fixture document at path and builds the router.
func New(path string, opts ...Option) (*Server, error) {
	entries, err := registry.ReadFixture(path)
	if err != nil {
		return nil, err
	}
	s := &Server{path: path, entries: entries, logf: func(string, ...any) {}}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s, nil
}

// Len returns the number of packages served.
func (s *Server) Len() int { return len(s.entries) }

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "packages": len(s.entries)})
	})
	r.Get("/{name}", s.getPackage)
	r.Get("/{name}/{version}", s.getVersion)
	r.Get("/{scope}/{name}/{version}", s.getScopedVersion)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logf("%s %s %d %s", r.Method, r.URL.EscapedPath(), ww.Status(), time.Since(start).Round(time.Microsecond))
	})
}

func (s *Server) getPackage(w http.ResponseWriter, r *http.Request) {
	name, ok := param(w, r, "name")
	if !ok {
		return
	}
	s.servePackage(w, name)
}

// getVersion serves /{name}/{version}, which also matches an unescaped
// scoped name such as /@babel/core.
func (s *Server) getVersion(w http.ResponseWriter, r *http.Request) {
	name, ok := param(w, r, "name")
	if !ok {
		return
	}
	version, ok := param(w, r, "version")
	if !ok {
		return
	}
	if strings.HasPrefix(name, "@") && !strings.Contains(name, "/") {
		s.servePackage(w, name+"/"+version)
		return
	}
	s.serveVersion(w, name, version)
}

func (s *Server) getScopedVersion(w http.ResponseWriter, r *http.Request) {
	scope, ok := param(w, r, "scope")
	if !ok {
		return
	}
	if !strings.HasPrefix(scope, "@") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	name, ok := param(w, r, "name")
	if !ok {
		return
	}
	version, ok := param(w, r, "version")
	if !ok {
		return
	}
	s.serveVersion(w, scope+"/"+name, version)
}

func (s *Server) servePackage(w http.ResponseWriter, name string) {
	raw, ok := s.entries[name]
	if !ok {
		writeError(w, http.StatusNotFound, "package "+name+" not found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

func (s *Server) serveVersion(w http.ResponseWriter, name, version string) {
	raw, ok := s.entries[name]
	if !ok {
		writeError(w, http.StatusNotFound, "package "+name+" not found")
		return
	}
	meta, err := registry.DecodeMetadata(name, raw)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.UserMessage(err))
		return
	}
	rec, err := meta.Select(version)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, errors.ErrCodeNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, errors.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// param returns the unescaped URL parameter. chi matches on the raw path
// when it is set, so "@scope%2Fname" arrives escaped.
func param(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	v, err := url.PathUnescape(chi.URLParam(r, key))
	if err != nil || v == "" {
		writeError(w, http.StatusBadRequest, "invalid "+key)
		return "", false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
