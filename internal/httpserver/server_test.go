package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wotd-in/go-server/internal/auth"
	"github.com/wotd-in/go-server/internal/config"
	"github.com/wotd-in/go-server/internal/daily"
	"github.com/wotd-in/go-server/internal/db"
	"github.com/wotd-in/go-server/internal/dictionary"
	"github.com/wotd-in/go-server/internal/forms"
	"github.com/wotd-in/go-server/internal/prefs"
	"github.com/wotd-in/go-server/internal/words"
)

func testConfig() config.Config {
	return config.Config{
		ServiceURL:     "https://example.supabase.co",
		ServiceAnonKey: "eyJtest",
		JWTSecret:      "test_secret",
		JWTExpiresDays: 14,
		CookieName:     "wotd_token",
		Port:           "0",
		ClientOrigin:   "http://localhost:5173",
	}
}

// newLiveServer wires a server against a fresh in-memory database.
func newLiveServer(t *testing.T) (*Server, *words.SQLStore) {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() { _ = conn.Close() })

	cfg := testConfig()
	ws := words.NewSQLStore(conn)
	s := New(cfg, ws, forms.NewStore(conn), prefs.NewStore(conn),
		dictionary.NewClient(conn, ""), auth.NewSQLService(conn, cfg.JWTSecret, 14), auth.NewBridge())
	return s, ws
}

func newDemoServer(t *testing.T) *Server {
	t.Helper()
	cfg := testConfig()
	return New(cfg, words.NewDemoStore(time.Now()), nil, nil,
		dictionary.NewClient(nil, ""), auth.NewMockService(), auth.NewBridge())
}

func doJSON(t *testing.T, s *Server, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, r)
	return w
}

func seedWord(t *testing.T, ws *words.SQLStore, e words.WordEntry) words.WordEntry {
	t.Helper()
	require.NoError(t, ws.Insert(context.Background(), &e))
	return e
}

// ------------------------------- words --------------------------------------

func TestTodayEndpointServesScheduledWord(t *testing.T) {
	s, ws := newLiveServer(t)
	today := daily.DateKey(time.Now())
	seedWord(t, ws, words.WordEntry{Word: "ephemeral", Meaning: "short-lived",
		ScheduledFor: today, Status: words.StatusApproved, Views: 3})

	w := doJSON(t, s, http.MethodGet, "/api/word/today", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Word *words.WordEntry `json:"word"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotNil(t, res.Word)
	assert.Equal(t, "ephemeral", res.Word.Word)
	// The response carries the pre-increment count.
	assert.Equal(t, 3, res.Word.Views)

	// Serving the word bumped the stored counter by exactly one.
	got, err := ws.TodayWord(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Views)
}

func TestTodayEndpointEmptyStore(t *testing.T) {
	s, _ := newLiveServer(t)
	w := doJSON(t, s, http.MethodGet, "/api/word/today", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No Words Yet")
}

func TestTrendingEndpointOrdersAndCaps(t *testing.T) {
	s, ws := newLiveServer(t)
	recent := daily.DateKey(time.Now().AddDate(0, 0, -2))
	for _, v := range []int{10, 50, 5, 30, 1, 2} {
		seedWord(t, ws, words.WordEntry{Word: "w", Meaning: "m",
			ScheduledFor: recent, Status: words.StatusApproved, Views: v})
	}

	w := doJSON(t, s, http.MethodGet, "/api/trending", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res trendingRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Week.Words, 5)
	views := make([]int, 0, 5)
	for _, e := range res.Week.Words {
		views = append(views, e.Views)
	}
	assert.Equal(t, []int{50, 30, 10, 5, 2}, views)
	assert.Len(t, res.Month.Words, 5)
}

func TestTrendingEndpointEmptyRendersPlaceholder(t *testing.T) {
	s, _ := newLiveServer(t)
	w := doJSON(t, s, http.MethodGet, "/api/trending", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res trendingRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Empty(t, res.Week.Words)
	assert.Equal(t, "No data yet", res.Week.Message)
	assert.Equal(t, "No data yet", res.Month.Message)
}

func TestPreviousEndpoint(t *testing.T) {
	s, ws := newLiveServer(t)
	for i := 1; i <= 8; i++ {
		seedWord(t, ws, words.WordEntry{Word: "w", Meaning: "m",
			ScheduledFor: daily.DateKey(time.Now().AddDate(0, 0, -i)), Status: words.StatusApproved})
	}
	w := doJSON(t, s, http.MethodGet, "/api/words/previous", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res listRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res.Words, 6)
}

func TestStatsEndpoint(t *testing.T) {
	s, ws := newLiveServer(t)
	seedWord(t, ws, words.WordEntry{Word: "a", Meaning: "m", ScheduledFor: "2024-01-01",
		Status: words.StatusApproved, Views: 7})
	seedWord(t, ws, words.WordEntry{Word: "b", Meaning: "m", ScheduledFor: "2024-01-02",
		Status: words.StatusApproved, Views: 5})
	_ = doJSON(t, s, http.MethodPost, "/api/subscribe", `{"email":"r@example.com"}`, nil)

	w := doJSON(t, s, http.MethodGet, "/api/stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res statsRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 2, res.TotalWords)
	assert.Equal(t, 12, res.TotalViews)
	assert.Equal(t, 1, res.TotalSubscribers)
}

// ------------------------------- search -------------------------------------

func TestSearchShortQueryIsNotDispatched(t *testing.T) {
	s, _ := newLiveServer(t)
	start := time.Now()
	w := doJSON(t, s, http.MethodGet, "/api/search?q=s", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	// No debounce wait and no store hit for short inputs.
	assert.Less(t, time.Since(start), 300*time.Millisecond)
}

func TestSearchMatchesWordAndMeaning(t *testing.T) {
	s, ws := newLiveServer(t)
	seedWord(t, ws, words.WordEntry{Word: "serendipity", Meaning: "a happy accident",
		ScheduledFor: "2024-01-01", Status: words.StatusApproved})
	seedWord(t, ws, words.WordEntry{Word: "conserve", Meaning: "to preserve something",
		ScheduledFor: "2024-01-02", Status: words.StatusApproved})

	w := doJSON(t, s, http.MethodGet, "/api/search?q=ser", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res listRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res.Words, 2)
}

func TestSearchNoResultsMessage(t *testing.T) {
	s, _ := newLiveServer(t)
	w := doJSON(t, s, http.MethodGet, "/api/search?q=zzzz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No words found")
}

// ------------------------------- forms --------------------------------------

func TestSubscribeAndDuplicate(t *testing.T) {
	s, _ := newLiveServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/subscribe", `{"email":"r@example.com"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Subscribed!")

	w = doJSON(t, s, http.MethodPost, "/api/subscribe", `{"email":"r@example.com"}`, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Already subscribed!")
}

func TestSubscribeRejectsBadEmail(t *testing.T) {
	s, _ := newLiveServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/subscribe", `{"email":"nope"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestRequiresMessage(t *testing.T) {
	s, _ := newLiveServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/suggest", `{"name":"a","email":"a@b.co","message":""}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/suggest", `{"message":"add petrichor"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Thank you")
}

func TestThemeRoundTrip(t *testing.T) {
	s, _ := newLiveServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/prefs/theme", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dark")

	w = doJSON(t, s, http.MethodPut, "/api/prefs/theme", `{"theme":"light"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/prefs/theme", "", nil)
	assert.Contains(t, w.Body.String(), "light")

	w = doJSON(t, s, http.MethodPut, "/api/prefs/theme", `{"theme":"solarized"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// -------------------------------- auth --------------------------------------

func authCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestAuthSignupMeLogoutFlow(t *testing.T) {
	s, _ := newLiveServer(t)

	w := doJSON(t, s, http.MethodPost, "/auth/signup", `{"email":"reader@example.com","password":"correct horse"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	c := authCookie(t, w, "wotd_token")

	w = doJSON(t, s, http.MethodGet, "/auth/me", "", []*http.Cookie{c})
	require.Equal(t, http.StatusOK, w.Code)
	var me sessionRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "reader@example.com", me.Email)
	assert.False(t, me.IsAdmin)

	w = doJSON(t, s, http.MethodPost, "/auth/logout", "", []*http.Cookie{c})
	require.Equal(t, http.StatusOK, w.Code)
	cleared := authCookie(t, w, "wotd_token")
	assert.Equal(t, "", cleared.Value)

	w = doJSON(t, s, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthLoginWrongPassword(t *testing.T) {
	s, _ := newLiveServer(t)
	_ = doJSON(t, s, http.MethodPost, "/auth/signup", `{"email":"reader@example.com","password":"correct horse"}`, nil)

	w := doJSON(t, s, http.MethodPost, "/auth/login", `{"email":"reader@example.com","password":"wrong horse"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthDuplicateSignup(t *testing.T) {
	s, _ := newLiveServer(t)
	_ = doJSON(t, s, http.MethodPost, "/auth/signup", `{"email":"reader@example.com","password":"correct horse"}`, nil)
	w := doJSON(t, s, http.MethodPost, "/auth/signup", `{"email":"reader@example.com","password":"correct horse"}`, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

// ---------------------------- admin word entry -------------------------------

func TestCreateWordRequiresAdmin(t *testing.T) {
	s, _ := newLiveServer(t)
	body := `{"word":"petrichor","meaning":"the smell of rain on dry earth"}`

	w := doJSON(t, s, http.MethodPost, "/api/words", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, s, http.MethodPost, "/auth/signup", `{"email":"reader@example.com","password":"correct horse"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	c := authCookie(t, w, "wotd_token")

	w = doJSON(t, s, http.MethodPost, "/api/words", body, []*http.Cookie{c})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Admin access required")
}

func TestAdminCreatesWord(t *testing.T) {
	s, ws := newLiveServer(t)
	w := doJSON(t, s, http.MethodPost, "/auth/signup", `{"email":"admin@wotd.in","password":"correct horse"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	c := authCookie(t, w, "wotd_token")

	today := daily.DateKey(time.Now())
	body := `{"word":"petrichor","meaning":"the smell of rain on dry earth","scheduledFor":"` + today + `","status":"approved","views":99}`
	w = doJSON(t, s, http.MethodPost, "/api/words", body, []*http.Cookie{c})
	require.Equal(t, http.StatusCreated, w.Code)

	var created words.WordEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	// Counters start at zero no matter what the form sends.
	assert.Equal(t, 0, created.Views)

	got, err := ws.TodayWord(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, "petrichor", got.Word)
}

func TestCreateWordDefaultsAndValidation(t *testing.T) {
	s, _ := newLiveServer(t)
	w := doJSON(t, s, http.MethodPost, "/auth/signup", `{"email":"admin@wotd.in","password":"correct horse"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	c := authCookie(t, w, "wotd_token")

	w = doJSON(t, s, http.MethodPost, "/api/words", `{"word":"petrichor","meaning":"the smell of rain"}`, []*http.Cookie{c})
	require.Equal(t, http.StatusCreated, w.Code)
	var created words.WordEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	// New words wait for approval and slot into today by default.
	assert.Equal(t, words.StatusPending, created.Status)
	assert.Equal(t, daily.DateKey(time.Now()), created.ScheduledFor)

	w = doJSON(t, s, http.MethodPost, "/api/words", `{"word":"  ","meaning":"m"}`, []*http.Cookie{c})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/words", `{"word":"w","meaning":"m","status":"published"}`, []*http.Cookie{c})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ------------------------------- define -------------------------------------

func TestDefineEndpointNotFoundIsHTTP200(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"title":"No Definitions Found"}`))
	}))
	t.Cleanup(api.Close)

	cfg := testConfig()
	s := New(cfg, words.NewDemoStore(time.Now()), nil, nil,
		dictionary.NewClient(nil, api.URL), auth.NewMockService(), auth.NewBridge())

	w := doJSON(t, s, http.MethodGet, "/api/define/zzzzz", "", nil)
	// The proxy this endpoint replaces answered misses with 200 and a
	// literal error payload; that shape is preserved.
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"error":"Word not found"}`, w.Body.String())
}

func TestDefineEndpointReturnsEntry(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"word":"serendipity"}]`))
	}))
	t.Cleanup(api.Close)

	cfg := testConfig()
	s := New(cfg, words.NewDemoStore(time.Now()), nil, nil,
		dictionary.NewClient(nil, api.URL), auth.NewMockService(), auth.NewBridge())

	w := doJSON(t, s, http.MethodGet, "/api/define/Serendipity", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"word":"serendipity"}`, w.Body.String())
}

// ------------------------------ demo mode -----------------------------------

func TestDemoModeLoginAllowList(t *testing.T) {
	s := newDemoServer(t)

	w := doJSON(t, s, http.MethodPost, "/auth/login", `{"email":"admin@wotd.in","password":"anything"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me sessionRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.True(t, me.IsAdmin)

	w = doJSON(t, s, http.MethodPost, "/auth/login", `{"email":"random@x.com","password":"anything"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not configured")
}

func TestDemoModeStillServesAWord(t *testing.T) {
	s := newDemoServer(t)
	w := doJSON(t, s, http.MethodGet, "/api/word/today", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "word")
}

func TestDemoModeFormsDegradeGracefully(t *testing.T) {
	s := newDemoServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/subscribe", `{"email":"r@example.com"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Demo mode")

	// Theme still works via the in-memory fallback.
	w = doJSON(t, s, http.MethodPut, "/api/prefs/theme", `{"theme":"light"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, s, http.MethodGet, "/api/prefs/theme", "", nil)
	assert.Contains(t, w.Body.String(), "light")
}
