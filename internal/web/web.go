package web

import (
	"context"
	"crypto/subtle"
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"
	"strings"
	"sync"

	"termcal/internal/config"
	applog "termcal/internal/log"
	"termcal/internal/schedule"
	"termcal/internal/store"
)

// Server provides the HTTP API and embedded UI for the term schedule.
type Server struct {
	cfg      *config.Config
	st       *store.Store
	renderer *schedule.Renderer
	debug    bool
	mux      *http.ServeMux

	// importMu serializes CSV imports: a second import triggered while one
	// is in flight is rejected instead of racing it.
	importMu sync.Mutex
}

// embeddedStatic contains the static UI served at /.
//
//go:embed all:static
var embeddedStatic embed.FS

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, st *store.Store, debug bool) *Server {
	classifier := schedule.NewClassifier(
		cfg.Keywords.Exam,
		cfg.Keywords.Trip,
		cfg.Keywords.Celebration,
		cfg.Keywords.Holiday,
	)
	s := &Server{
		cfg:      cfg,
		st:       st,
		renderer: schedule.NewRenderer(classifier),
		debug:    debug,
		mux:      http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		applog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// An empty username or password counts as disabled.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// /health stays reachable without credentials.
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="TermCal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// StartServer starts an HTTP server bound to cfg.Listen and serves the API
// and embedded UI until ctx is canceled.
func StartServer(ctx context.Context, cfg *config.Config, st *store.Store, debug bool) error {
	s := NewServer(cfg, st, debug)

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		applog.Info("starting HTTP server", "listen", "http://"+cfg.Listen, "debug", debug)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/grid", s.handleGrid)
	s.mux.HandleFunc("/api/events", s.handleEvents)
	s.mux.HandleFunc("/api/events/", s.handleEventByID)
	s.mux.HandleFunc("/api/notes", s.handleNotes)
	s.mux.HandleFunc("/api/notes/", s.handleNoteByID)
	s.mux.HandleFunc("/api/settings", s.handleSettings)
	s.mux.HandleFunc("/api/export.csv", s.handleExportCSV)
	s.mux.HandleFunc("/api/import.csv", s.handleImportCSV)
	s.mux.HandleFunc("/api/export.ics", s.handleExportICS)
	s.mux.HandleFunc("/api/snapshot", s.handleSnapshot)
	s.mux.HandleFunc("/preview.png", s.handlePreview)

	// Static UI (embedded). All non-/api/* paths fall back to this handler.
	s.mux.Handle("/", s.staticFileServer())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// staticFileServer returns an http.Handler serving the embedded UI files
// from internal/web/static.
func (s *Server) staticFileServer() http.Handler {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		applog.Error("failed to initialize embedded static filesystem", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "static UI not available", http.StatusServiceUnavailable)
		})
	}

	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Never serve HTML for /api/* paths; a missing API route is a 404.
		if path == "/api" || strings.HasPrefix(path, "/api/") {
			http.NotFound(w, r)
			return
		}

		fileServer.ServeHTTP(w, r)
	})
}

// previewPath is where snapshot captures are written and served from. The
// path rules match cmd/termcal:
//   - default: /var/lib/termcal/preview.png
//   - debug:   ./cache/preview.png
func (s *Server) previewPath() string {
	if s.debug {
		return "./cache/preview.png"
	}
	return "/var/lib/termcal/preview.png"
}

// handlePreview serves the last captured PNG preview from disk.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	// http.ServeFile maps missing files / permission errors to proper
	// status codes (404, 500, ...).
	http.ServeFile(w, r, s.previewPath())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		applog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
