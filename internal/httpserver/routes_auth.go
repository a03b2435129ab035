// internal/httpserver/routes_auth.go
//
// Auth endpoints. Sessions ride in an HttpOnly cookie (or an Authorization
// bearer header); the bridge mirrors the most recent session and notifies
// its subscribers on every change.

package httpserver

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/wotd-in/go-server/internal/auth"
)

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionRes is returned by signup/login/me.
type sessionRes struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	IsAdmin   bool      `json:"isAdmin"`
}

func toSessionRes(s *auth.Session) sessionRes {
	return sessionRes{ID: s.ID, Email: s.Email, CreatedAt: s.CreatedAt, IsAdmin: auth.IsAdmin(s.Email)}
}

// mountAuthRoutes registers /auth/*.
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)
	s.r.Get("/auth/me", s.handleMe)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	sess, tok, err := s.auth.SignUp(r.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			http.Error(w, `{"error":"Email already registered"}`, http.StatusConflict)
			return
		}
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	s.setAuthCookie(w, tok)
	s.bridge.Set(sess)
	_ = json.NewEncoder(w).Encode(toSessionRes(sess))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	sess, tok, err := s.auth.SignIn(r.Context(), body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNotConfigured):
			http.Error(w, `{"error":"Auth service is not configured. Please set up environment variables."}`, http.StatusBadRequest)
		case errors.Is(err, auth.ErrInvalidCredentials):
			http.Error(w, `{"error":"Invalid email or password"}`, http.StatusUnauthorized)
		default:
			http.Error(w, `{"error":"login_failed"}`, http.StatusInternalServerError)
		}
		return
	}
	s.setAuthCookie(w, tok)
	s.bridge.Set(sess)
	_ = json.NewEncoder(w).Encode(toSessionRes(sess))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if tok := s.bearerOrCookie(r); tok != "" {
		_ = s.auth.SignOut(r.Context(), tok)
	}
	s.clearAuthCookie(w)
	s.bridge.Clear()
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// handleMe resolves the cookie/bearer token to the current session. A valid
// token with no mirrored session counts as a restore and updates the bridge.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	tok := s.bearerOrCookie(r)
	if tok == "" {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}
	sess, err := s.auth.SessionFromToken(r.Context(), tok)
	if err != nil {
		http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
		return
	}
	if s.bridge.Current() == nil {
		s.bridge.Set(sess)
	}
	_ = json.NewEncoder(w).Encode(toSessionRes(sess))
}

// adminSession resolves the request's token and requires an admin session.
// On failure it writes the error response and returns nil.
func (s *Server) adminSession(w http.ResponseWriter, r *http.Request) *auth.Session {
	tok := s.bearerOrCookie(r)
	if tok == "" {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return nil
	}
	sess, err := s.auth.SessionFromToken(r.Context(), tok)
	if err != nil {
		http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
		return nil
	}
	if !auth.IsAdmin(sess.Email) {
		http.Error(w, `{"error":"Admin access required"}`, http.StatusForbidden)
		return nil
	}
	return sess
}

// ------------------------------ cookies ------------------------------------

func (s *Server) setAuthCookie(w http.ResponseWriter, token string) {
	secure := os.Getenv("NODE_ENV") == "production"
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  time.Now().Add(time.Duration(s.cfg.JWTExpiresDays) * 24 * time.Hour),
	})
}

func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	secure := os.Getenv("NODE_ENV") == "production"
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		MaxAge:   -1,
	})
}

// bearerOrCookie extracts a token from the Authorization header or cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	enc := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b[:])
	if len(enc) > 22 {
		return enc[:22]
	}
	return enc
}
