package httpapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/alphabot-ai/ethionews/internal/auth"
	"github.com/alphabot-ai/ethionews/internal/config"
	"github.com/alphabot-ai/ethionews/internal/model"
	"github.com/alphabot-ai/ethionews/internal/rate"
	"github.com/alphabot-ai/ethionews/internal/store"
	"github.com/alphabot-ai/ethionews/internal/upload"
)

type Server struct {
	store   store.Store
	auth    *auth.Service
	limiter rate.Limiter
	uploads *upload.Storage
	cfg     config.Config
	logger  *slog.Logger
	handler http.Handler
	now     func() time.Time
}

func NewServer(store store.Store, authSvc *auth.Service, limiter rate.Limiter, uploads *upload.Storage, cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:   store,
		auth:    authSvc,
		limiter: limiter,
		uploads: uploads,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
	s.handler = s.logRequests(cors(cfg.CORSOrigins, s.routes()))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { notFound(w) })
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { methodNotAllowed(w) })

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/stats", s.handleGetStats).Methods(http.MethodGet)

	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)

	api.HandleFunc("/articles", s.handleCreateArticle).Methods(http.MethodPost)
	api.HandleFunc("/articles", s.handleListArticles).Methods(http.MethodGet)
	api.HandleFunc("/articles/trending", s.handleTrendingArticles).Methods(http.MethodGet)
	api.HandleFunc("/articles/upload-image", s.handleUploadImage).Methods(http.MethodPost)
	api.HandleFunc("/articles/slug/{slug}", s.handleGetArticleBySlug).Methods(http.MethodGet)
	api.HandleFunc("/articles/{id:[0-9]+}", s.handleGetArticle).Methods(http.MethodGet)
	api.HandleFunc("/articles/{id:[0-9]+}", s.handleUpdateArticle).Methods(http.MethodPut)
	api.HandleFunc("/articles/{id:[0-9]+}", s.handleDeleteArticle).Methods(http.MethodDelete)

	api.HandleFunc("/categories", s.handleCreateCategory).Methods(http.MethodPost)
	api.HandleFunc("/categories", s.handleListCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories/{slug}", s.handleGetCategory).Methods(http.MethodGet)
	api.HandleFunc("/regions", s.handleCreateRegion).Methods(http.MethodPost)
	api.HandleFunc("/regions", s.handleListRegions).Methods(http.MethodGet)
	api.HandleFunc("/regions/{slug}", s.handleGetRegion).Methods(http.MethodGet)

	api.HandleFunc("/comments", s.handleCreateComment).Methods(http.MethodPost)
	api.HandleFunc("/comments/pending", s.handlePendingComments).Methods(http.MethodGet)
	api.HandleFunc("/comments/article/{id:[0-9]+}", s.handleArticleComments).Methods(http.MethodGet)
	api.HandleFunc("/comments/{id:[0-9]+}/approve", s.handleApproveComment).Methods(http.MethodPut)

	api.HandleFunc("/submissions", s.handleCreateSubmission).Methods(http.MethodPost)
	api.HandleFunc("/submissions", s.handleListSubmissions).Methods(http.MethodGet)
	api.HandleFunc("/submissions/{id:[0-9]+}/status", s.handleSubmissionStatus).Methods(http.MethodPut)

	api.HandleFunc("/rss/feed.xml", s.handleRSS).Methods(http.MethodGet)
	api.HandleFunc("/calendar/ethiopian", s.handleEthiopianDate).Methods(http.MethodGet)

	if s.uploads != nil {
		files := http.FileServer(http.Dir(s.uploads.Dir()))
		r.PathPrefix(upload.URLPrefix).Handler(http.StripPrefix(upload.URLPrefix, files)).Methods(http.MethodGet, http.MethodHead)
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetSiteStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) allowRateLimit(w http.ResponseWriter, r *http.Request, action string, limit int) bool {
	if limit <= 0 {
		return true
	}
	key := fmt.Sprintf("%s:ip:%s", action, s.clientIP(r))
	if ok, retry := s.limiter.Allow(key, limit, time.Minute); !ok {
		writeRateLimit(w, retry)
		return false
	}
	return true
}

func (s *Server) optionalAuth(r *http.Request) *model.User {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil
	}
	bearer := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	user, err := s.auth.Authenticate(r.Context(), bearer)
	if err != nil {
		return nil
	}
	return &user
}

func (s *Server) requireAuth(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		writeError(w, http.StatusUnauthorized, errors.New("missing bearer token"))
		return model.User{}, false
	}
	bearer := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	user, err := s.auth.Authenticate(r.Context(), bearer)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, auth.ErrInactive) {
			status = http.StatusForbidden
		}
		writeError(w, status, err)
		return model.User{}, false
	}
	return user, true
}

// requireEditor authenticates the request and checks for an editor or
// admin role.
func (s *Server) requireEditor(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	user, ok := s.requireAuth(w, r)
	if !ok {
		return model.User{}, false
	}
	if err := auth.Require(user, model.RoleEditor, model.RoleAdmin); err != nil {
		writeError(w, http.StatusForbidden, err)
		return model.User{}, false
	}
	return user, true
}

func (s *Server) clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func readJSON(body io.ReadCloser, dest any) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// writeStoreError maps store sentinels to HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateEmail),
		errors.Is(err, store.ErrDuplicateUsername),
		errors.Is(err, store.ErrDuplicateSlug):
		status = http.StatusBadRequest
	}
	writeError(w, status, err)
}

func writeRateLimit(w http.ResponseWriter, retry time.Duration) {
	w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())))
	writeJSON(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate limit exceeded",
		"retry_after": int(retry.Seconds()),
	})
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, errors.New("not found"))
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func parseIntDefault(value string, def int) int {
	if value == "" {
		return def
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return def
}

func parseInt64Default(value string, def int64) int64 {
	if value == "" {
		return def
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	return def
}
