// internal/words/words.go
//
// Word-entry model and store contract for the word-of-the-day site.
//
// Responsibilities:
//   - Define the WordEntry record shared by every feature (today's word,
//     previous list, trending, search, stats).
//   - Define the Store interface implemented by the sqlite-backed store
//     (live mode) and the embedded demo store (degraded mode).
//   - Supply the hardcoded fallback entry that guarantees the page is never
//     blank even when the store itself fails.
//
// Selection rules:
//   - "Today's" word is the approved entry whose scheduled_for equals the
//     local YYYY-MM-DD date key, comparing strings with no timezone math.
//   - With no entry scheduled for today, the most recently created entry is
//     shown instead, regardless of schedule or status.
//   - With no entries at all, ErrNoEntries signals the empty state; callers
//     render a placeholder rather than an error.

package words

import (
	"context"
	"errors"
	"time"
)

// Entry statuses. Only approved entries are eligible for the daily slot.
const (
	StatusApproved = "approved"
	StatusPending  = "pending"
)

// ErrNoEntries is the empty state: the store holds no words at all.
var ErrNoEntries = errors.New("no word entries")

// WordEntry is one word-of-the-day record.
type WordEntry struct {
	ID             string    `json:"id"`
	Word           string    `json:"word"`
	Phonetic       string    `json:"phonetic,omitempty"`
	Pronunciation  string    `json:"pronunciation,omitempty"`
	PartOfSpeech   string    `json:"partOfSpeech,omitempty"`
	Meaning        string    `json:"meaning"`
	Example        string    `json:"example,omitempty"`
	Synonyms       []string  `json:"synonyms,omitempty"`
	Antonyms       []string  `json:"antonyms,omitempty"`
	ScheduledFor   string    `json:"scheduledFor"` // YYYY-MM-DD
	Status         string    `json:"status"`
	Views          int       `json:"views"`
	FavoritesCount int       `json:"favoritesCount"`
	CommentsCount  int       `json:"commentsCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Store is the query surface the site needs from its backing service.
type Store interface {
	// TodayWord selects the entry for the given local date key, falling
	// back to the most recently created entry. Returns ErrNoEntries when
	// the store is empty.
	TodayWord(ctx context.Context, dateKey string) (*WordEntry, error)

	// IncrementViews writes seenViews+1 for the entry. Plain read-then-write
	// keyed by id; concurrent viewers can race and undercount.
	IncrementViews(ctx context.Context, id string, seenViews int) error

	// Previous returns entries scheduled strictly before the date key,
	// newest schedule first.
	Previous(ctx context.Context, beforeDateKey string, limit int) ([]WordEntry, error)

	// Trending returns entries scheduled on or after the date key, ordered
	// by views descending. Tie order is whatever the store returns.
	Trending(ctx context.Context, sinceDateKey string, limit int) ([]WordEntry, error)

	// Search matches the query as a case-insensitive substring of word or
	// meaning, unranked.
	Search(ctx context.Context, query string) ([]WordEntry, error)

	// CountWords returns the exact number of entries.
	CountWords(ctx context.Context) (int, error)

	// TotalViews sums the views counters across all entries.
	TotalViews(ctx context.Context) (int, error)

	// Insert stores a new entry, generating an ID when absent.
	Insert(ctx context.Context, e *WordEntry) error
}

// Fallback returns the hardcoded entry shown when even the store fails.
// The page must never be blank.
func Fallback() *WordEntry {
	return &WordEntry{
		ID:            "fallback",
		Word:          "self-care",
		Pronunciation: "self ker",
		PartOfSpeech:  "noun",
		Meaning:       "the practice of taking action to preserve or improve one's own health.",
		Example:       "Taking time for self-care is essential for mental wellbeing.",
		Status:        StatusApproved,
	}
}
