package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/dreamware/postboard/internal/monitor"
	"github.com/dreamware/postboard/internal/posts"
	"github.com/dreamware/postboard/internal/users"
)

// RemoteHealth reports whether the remote API is reachable.
type RemoteHealth interface {
	Health() monitor.Health
}

// Server serves the posts and users stores over HTTP.
type Server struct {
	posts    *posts.Store
	users    *users.Store
	remote   RemoteHealth
	logger   *slog.Logger
	now      func() time.Time
	upgrader websocket.Upgrader
	router   *mux.Router
}

// New builds a Server over the two stores. A nil logger uses slog.Default().
func New(ps *posts.Store, us *users.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		posts:  ps,
		users:  us,
		logger: logger,
		now:    time.Now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.routes()
	return s
}

// WithRemoteHealth adds h to the /status report.
func (s *Server) WithRemoteHealth(h RemoteHealth) *Server {
	s.remote = h
	return s
}

// Handler returns the routed handler with request logging.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.Methods(http.MethodGet).Path("/health").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Methods(http.MethodGet).Path("/").HandlerFunc(s.handleIndex)
	r.Methods(http.MethodGet).Path("/status").HandlerFunc(s.handleStatus)
	r.Methods(http.MethodGet).Path("/watch").HandlerFunc(s.handleWatch)

	r.Methods(http.MethodGet).Path("/posts").HandlerFunc(s.handleListPosts)
	r.Methods(http.MethodPost).Path("/posts").HandlerFunc(s.handleAddPost)
	r.Methods(http.MethodPost).Path("/posts/fetch").HandlerFunc(s.handleFetchPosts)
	r.Methods(http.MethodGet).Path("/posts/{id:[0-9]+}").HandlerFunc(s.handleGetPost)
	r.Methods(http.MethodPut).Path("/posts/{id:[0-9]+}").HandlerFunc(s.handleUpdatePost)
	r.Methods(http.MethodDelete).Path("/posts/{id:[0-9]+}").HandlerFunc(s.handleDeletePost)
	r.Methods(http.MethodPost).Path("/posts/{id:[0-9]+}/reactions/{kind}").HandlerFunc(s.handleReaction)

	r.Methods(http.MethodGet).Path("/users").HandlerFunc(s.handleListUsers)
	r.Methods(http.MethodPost).Path("/users/fetch").HandlerFunc(s.handleFetchUsers)
	r.Methods(http.MethodGet).Path("/users/{id:[0-9]+}").HandlerFunc(s.handleGetUser)
	r.Methods(http.MethodGet).Path("/users/{id:[0-9]+}/posts").HandlerFunc(s.handleUserPosts)

	s.router = r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.logger.Info("handled", "method", r.Method, "url", r.URL, "duration", m.Duration, "status", m.Code)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", "err", err)
	}
}

// writeError answers with {"error": msg}.
func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, struct {
		Error string `json:"error"`
	}{Error: msg})
}

// wantsText reports whether the client asked for the plain text rendering.
func wantsText(r *http.Request) bool {
	return r.URL.Query().Get("format") == "text" || strings.HasPrefix(r.Header.Get("Accept"), "text/plain")
}

func textHeader(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
}

// pathID reads the numeric {id} route variable; the route pattern only
// admits digits.
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	return id, err == nil && id > 0
}
