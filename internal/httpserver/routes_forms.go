// internal/httpserver/routes_forms.go
//
// Form endpoints (subscribe, suggest), the theme preference, and the
// dictionary define proxy. In demo mode the form stores are absent and the
// handlers answer with a degraded-mode message instead of an error.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/wotd-in/go-server/internal/forms"
	"github.com/wotd-in/go-server/internal/prefs"
)

const demoModeMessage = "Demo mode - connect the backing service to use live data"

// okRes is the generic form response.
type okRes struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// ------------------------------ subscribe ----------------------------------

type subscribeReq struct {
	Email string `json:"email"`
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		http.Error(w, `{"error":"invalid email address"}`, http.StatusBadRequest)
		return
	}
	if s.forms == nil {
		_ = json.NewEncoder(w).Encode(okRes{OK: false, Message: demoModeMessage})
		return
	}
	err := s.forms.Subscribe(r.Context(), email)
	if errors.Is(err, forms.ErrAlreadySubscribed) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(okRes{OK: false, Message: "Already subscribed!"})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("subscribe")
		http.Error(w, `{"error":"subscribe_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(okRes{OK: true, Message: "Subscribed!"})
}

// ------------------------------- suggest -----------------------------------

type suggestReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	if s.forms == nil {
		_ = json.NewEncoder(w).Encode(okRes{OK: false, Message: demoModeMessage})
		return
	}
	err := s.forms.AddSuggestion(r.Context(), req.Name, req.Email, req.Message)
	if errors.Is(err, forms.ErrEmptyMessage) {
		http.Error(w, `{"error":"message is required"}`, http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("store suggestion")
		http.Error(w, `{"error":"suggest_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(okRes{OK: true, Message: "Thank you! Your suggestion has been received."})
}

// -------------------------------- theme ------------------------------------

type themeRes struct {
	Theme string `json:"theme"`
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	if s.prefs == nil {
		s.themeMu.Lock()
		t := s.theme
		s.themeMu.Unlock()
		_ = json.NewEncoder(w).Encode(themeRes{Theme: t})
		return
	}
	t, err := s.prefs.Theme(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("load theme")
		t = prefs.DefaultTheme
	}
	_ = json.NewEncoder(w).Encode(themeRes{Theme: t})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRes
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	if req.Theme != prefs.ThemeDark && req.Theme != prefs.ThemeLight {
		http.Error(w, `{"error":"theme must be dark or light"}`, http.StatusBadRequest)
		return
	}
	if s.prefs == nil {
		s.themeMu.Lock()
		s.theme = req.Theme
		s.themeMu.Unlock()
	} else if err := s.prefs.SetTheme(r.Context(), req.Theme); err != nil {
		log.Error().Err(err).Msg("save theme")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(themeRes{Theme: req.Theme})
}

// -------------------------------- define -----------------------------------

// handleDefine proxies a definition lookup. A miss answers 200 with a
// literal error payload, matching the proxy this endpoint replaces.
func (s *Server) handleDefine(w http.ResponseWriter, r *http.Request) {
	word := strings.ToLower(chi.URLParam(r, "word"))
	entry, found, err := s.dict.Define(r.Context(), word)
	if err != nil {
		log.Error().Err(err).Str("word", word).Msg("define lookup")
		http.Error(w, `{"error":"lookup_failed"}`, http.StatusBadGateway)
		return
	}
	if !found {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"error":"Word not found"}`))
		return
	}
	_, _ = w.Write(entry)
}

// contextWithTimeout bounds background work (daily reloads) the same way the
// request middleware bounds handlers.
func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
