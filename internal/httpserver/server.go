// internal/httpserver/server.go
//
// HTTP wiring for the word-of-the-day backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Word endpoints: today's word, previous list, trending, search, stats,
//     admin word entry.
//   - Form endpoints: subscribe, suggest; theme preference; define proxy.
//   - Auth endpoints: /auth/signup, /auth/login, /auth/logout, /auth/me.
//   - Today-word snapshot refreshed at startup and every local midnight.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Every store failure on the display path is masked behind a literal
//     fallback (hardcoded word, zero count, empty list); the page is never
//     blank.

package httpserver

import (
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/wotd-in/go-server/internal/auth"
	"github.com/wotd-in/go-server/internal/config"
	"github.com/wotd-in/go-server/internal/dictionary"
	"github.com/wotd-in/go-server/internal/forms"
	"github.com/wotd-in/go-server/internal/prefs"
	"github.com/wotd-in/go-server/internal/search"
	"github.com/wotd-in/go-server/internal/words"
)

// Server bundles the router and every store the routes touch.
type Server struct {
	r      *chi.Mux
	cfg    config.Config
	words  words.Store
	forms  *forms.Store // nil in demo mode
	prefs  *prefs.Store // nil in demo mode
	dict   *dictionary.Client
	auth   auth.Service
	bridge *auth.Bridge
	deb    *search.Debouncer

	// Last good daily word, served when the live selection fails.
	todayMu sync.RWMutex
	today   *words.WordEntry

	// Theme fallback used when the prefs store is absent (demo mode).
	themeMu sync.Mutex
	theme   string
}

// New constructs a Server, installs middleware, and registers routes.
// formsStore and prefsStore are nil in demo mode; the matching routes then
// answer with their degraded-mode payloads instead of failing.
func New(cfg config.Config, ws words.Store, formsStore *forms.Store, prefsStore *prefs.Store,
	dict *dictionary.Client, authSvc auth.Service, bridge *auth.Bridge) *Server {

	s := &Server{
		r:      chi.NewRouter(),
		cfg:    cfg,
		words:  ws,
		forms:  formsStore,
		prefs:  prefsStore,
		dict:   dict,
		auth:   authSvc,
		bridge: bridge,
		deb:    search.NewDebouncer(),
		theme:  prefs.DefaultTheme,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromOrigin(cfg.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wotd-go","endpoints":["/health","/api/word/today","/api/trending","/api/search","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Route("/api", func(r chi.Router) {
		r.Get("/word/today", s.handleToday)
		r.Post("/words", s.handleCreateWord)
		r.Get("/words/previous", s.handlePrevious)
		r.Get("/trending", s.handleTrending)
		r.Get("/stats", s.handleStats)
		r.Get("/search", s.handleSearch)
		r.Post("/subscribe", s.handleSubscribe)
		r.Post("/suggest", s.handleSuggest)
		r.Get("/define/{word}", s.handleDefine)
		r.Get("/prefs/theme", s.handleGetTheme)
		r.Put("/prefs/theme", s.handleSetTheme)
	})

	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromOrigin enables credentialed CORS for a single origin.
func corsFromOrigin(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ client IDs ---------------------------------

const clientCookieName = "wotd_client"

// ensureClientID returns an existing client cookie or sets a new one. Used
// to key per-client search debouncing for anonymous visitors.
func (s *Server) ensureClientID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(clientCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := genID()
	http.SetCookie(w, &http.Cookie{
		Name:     clientCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   os.Getenv("NODE_ENV") == "production",
		SameSite: func() http.SameSite {
			if os.Getenv("NODE_ENV") == "production" {
				return http.SameSiteNoneMode
			}
			return http.SameSiteLaxMode
		}(),
		Expires: time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}
