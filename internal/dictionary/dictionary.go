// internal/dictionary/dictionary.go
//
// Definition lookup proxy. Checks the store-backed cache by exact word, and
// on a miss calls the public dictionary API, persists the first result, and
// returns it. A lookup that yields nothing is not an error; the HTTP layer
// answers 200 with a literal {"error":"Word not found"} payload, matching
// the proxy this replaces.

package dictionary

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the public dictionary API endpoint.
const DefaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

// Client caches definitions in the dictionary table. With a nil db (demo
// mode) lookups still work, just uncached.
type Client struct {
	db      *sql.DB
	baseURL string
	http    *http.Client
}

// NewClient builds a lookup client. baseURL is overridable for tests; empty
// selects the public API.
func NewClient(db *sql.DB, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		db:      db,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 8 * time.Second},
	}
}

// Define returns the cached or freshly fetched definition payload for word.
// found is false when the external lookup yields nothing.
func (c *Client) Define(ctx context.Context, word string) (json.RawMessage, bool, error) {
	word = strings.ToLower(strings.TrimSpace(word))

	if c.db != nil {
		var cached string
		err := c.db.QueryRowContext(ctx,
			`SELECT data FROM dictionary WHERE word = ?`, word).Scan(&cached)
		if err == nil {
			return json.RawMessage(cached), true, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, false, err
		}
	}

	entry, found, err := c.fetch(ctx, word)
	if err != nil || !found || c.db == nil {
		return entry, found, err
	}

	// Best-effort cache write; a failure never blocks the response.
	if _, err := c.db.ExecContext(ctx, `
		INSERT INTO dictionary (word, data, created_at) VALUES (?,?,?)
		ON CONFLICT(word) DO UPDATE SET data = excluded.data`,
		word, string(entry), time.Now().UTC().Format(time.RFC3339)); err != nil {
		log.Warn().Err(err).Str("word", word).Msg("cache definition")
	}
	return entry, true, nil
}

// fetch calls the external API. The API answers with a JSON array of entries
// on success and a JSON object on a miss; only the first array element is
// kept.
func (c *Client) fetch(ctx context.Context, word string) (json.RawMessage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/"+url.PathEscape(word), nil)
	if err != nil {
		return nil, false, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("dictionary lookup: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, false, err
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil || len(entries) == 0 {
		return nil, false, nil
	}
	return entries[0], true, nil
}
