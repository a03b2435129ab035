// internal/httpserver/routes_words.go
//
// Word display endpoints: today's word, previous words, trending windows,
// site stats, and debounced search.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wotd-in/go-server/internal/daily"
	"github.com/wotd-in/go-server/internal/words"
)

// Limits inherited from the site: six previous words, five per trending list.
const (
	previousLimit = 6
	trendingLimit = 5
)

// todayRes is returned by /api/word/today.
type todayRes struct {
	Word    *words.WordEntry `json:"word,omitempty"`
	Empty   bool             `json:"empty,omitempty"`
	Message string           `json:"message,omitempty"`
}

// ReloadDaily re-runs the daily selection and refreshes the snapshot. Called
// once at startup and again at every local midnight by the scheduler.
func (s *Server) ReloadDaily() {
	ctx, cancel := contextWithTimeout()
	defer cancel()

	key := daily.DateKey(time.Now())
	e, err := s.words.TodayWord(ctx, key)
	if err != nil {
		if !errors.Is(err, words.ErrNoEntries) {
			log.Warn().Err(err).Str("date", key).Msg("daily reload failed")
		}
		return
	}
	s.todayMu.Lock()
	s.today = e
	s.todayMu.Unlock()
	log.Info().Str("date", key).Str("word", e.Word).Msg("daily word loaded")
}

// handleToday selects today's word live, falling back to the last good
// snapshot and finally the hardcoded entry. Serving a word bumps its view
// counter as a best-effort side effect.
func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	key := daily.DateKey(time.Now())
	e, err := s.words.TodayWord(r.Context(), key)
	switch {
	case err == nil:
		// fine
	case errors.Is(err, words.ErrNoEntries):
		_ = json.NewEncoder(w).Encode(todayRes{Empty: true, Message: "No Words Yet — Check back soon!"})
		return
	default:
		log.Error().Err(err).Msg("load today word")
		s.todayMu.RLock()
		e = s.today
		s.todayMu.RUnlock()
		if e == nil {
			e = words.Fallback()
		}
		_ = json.NewEncoder(w).Encode(todayRes{Word: e, Message: "Demo word - check database connection"})
		return
	}

	// Read-then-write increment; failure never blocks the display path.
	if err := s.words.IncrementViews(r.Context(), e.ID, e.Views); err != nil {
		log.Warn().Err(err).Str("id", e.ID).Msg("increment views")
	}

	s.todayMu.Lock()
	s.today = e
	s.todayMu.Unlock()

	_ = json.NewEncoder(w).Encode(todayRes{Word: e})
}

// handleCreateWord stores a new entry; this is what the admin panel's word
// form posts. Status defaults to pending, so a new word does not take the
// daily slot until it is approved.
func (s *Server) handleCreateWord(w http.ResponseWriter, r *http.Request) {
	if s.adminSession(w, r) == nil {
		return
	}
	var e words.WordEntry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	e.Word = strings.TrimSpace(e.Word)
	e.Meaning = strings.TrimSpace(e.Meaning)
	if e.Word == "" || e.Meaning == "" {
		http.Error(w, `{"error":"word and meaning are required"}`, http.StatusBadRequest)
		return
	}
	if e.Status != "" && e.Status != words.StatusApproved && e.Status != words.StatusPending {
		http.Error(w, `{"error":"status must be approved or pending"}`, http.StatusBadRequest)
		return
	}
	if e.ScheduledFor == "" {
		e.ScheduledFor = daily.DateKey(time.Now())
	}
	// The store owns the identifier and the counters start at zero.
	e.ID = ""
	e.Views = 0
	e.FavoritesCount = 0
	e.CommentsCount = 0
	if err := s.words.Insert(r.Context(), &e); err != nil {
		log.Error().Err(err).Str("word", e.Word).Msg("insert word")
		http.Error(w, `{"error":"insert_failed"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(e)
}

// listRes wraps word lists that render a placeholder when empty.
type listRes struct {
	Words   []words.WordEntry `json:"words"`
	Message string            `json:"message,omitempty"`
}

func (s *Server) handlePrevious(w http.ResponseWriter, r *http.Request) {
	key := daily.DateKey(time.Now())
	list, err := s.words.Previous(r.Context(), key, previousLimit)
	if err != nil {
		log.Error().Err(err).Msg("load previous words")
		list = nil
	}
	res := listRes{Words: list}
	if len(list) == 0 {
		res.Words = []words.WordEntry{}
		res.Message = "No previous words yet"
	}
	_ = json.NewEncoder(w).Encode(res)
}

// trendingRes carries both rolling windows.
type trendingRes struct {
	Week  listRes `json:"week"`
	Month listRes `json:"month"`
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	res := trendingRes{
		Week:  s.trendingWindow(r, now.AddDate(0, 0, -7)),
		Month: s.trendingWindow(r, now.AddDate(0, 0, -30)),
	}
	_ = json.NewEncoder(w).Encode(res)
}

func (s *Server) trendingWindow(r *http.Request, since time.Time) listRes {
	list, err := s.words.Trending(r.Context(), daily.DateKey(since), trendingLimit)
	if err != nil {
		log.Error().Err(err).Msg("load trending")
		list = nil
	}
	res := listRes{Words: list}
	if len(list) == 0 {
		res.Words = []words.WordEntry{}
		res.Message = "No data yet"
	}
	return res
}

// statsRes is the counters panel. Each figure independently falls back to
// zero on error.
type statsRes struct {
	TotalWords       int `json:"totalWords"`
	TotalViews       int `json:"totalViews"`
	TotalSubscribers int `json:"totalSubscribers"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var res statsRes
	var err error
	if res.TotalWords, err = s.words.CountWords(r.Context()); err != nil {
		log.Warn().Err(err).Msg("word count")
		res.TotalWords = 0
	}
	if res.TotalViews, err = s.words.TotalViews(r.Context()); err != nil {
		log.Warn().Err(err).Msg("total views")
		res.TotalViews = 0
	}
	if s.forms != nil {
		if res.TotalSubscribers, err = s.forms.CountSubscribers(r.Context()); err != nil {
			log.Warn().Err(err).Msg("subscriber count")
			res.TotalSubscribers = 0
		}
	}
	_ = json.NewEncoder(w).Encode(res)
}

// handleSearch runs the query through the per-client debouncer. Inputs under
// two characters, superseded inputs, and abandoned requests all answer 204
// without touching the store; the newest input wins.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	key := s.ensureClientID(w, r)
	query, dispatch := s.deb.Submit(r.Context(), key, r.URL.Query().Get("q"))
	if !dispatch {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	list, err := s.words.Search(r.Context(), query)
	if err != nil {
		log.Error().Err(err).Str("q", query).Msg("search")
		list = nil
	}
	res := listRes{Words: list}
	if len(list) == 0 {
		res.Words = []words.WordEntry{}
		res.Message = "No words found"
	}
	_ = json.NewEncoder(w).Encode(res)
}
