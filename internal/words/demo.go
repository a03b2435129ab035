// internal/words/demo.go
//
// In-memory Store used in degraded/demo mode, when the backing service is
// unconfigured. Seeded from a fixed pool of entries spread over the last few
// days so that today's word, the previous list, and trending all have data.
// Never returns an error.

package words

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// demoPool is the fixed word pool the original site ships for demo mode.
var demoPool = []WordEntry{
	{Word: "Serendipity", Pronunciation: "ser-ən-ˈdi-pə-tē", PartOfSpeech: "noun",
		Meaning: "the occurrence of events by chance in a happy or beneficial way.",
		Example: "Finding this perfect café was pure serendipity."},
	{Word: "Ephemeral", Pronunciation: "i-ˈfe-mə-rəl", PartOfSpeech: "adjective",
		Meaning: "lasting for a very short time.",
		Example: "The beauty of cherry blossoms is ephemeral, lasting only a few weeks."},
	{Word: "Resilience", Pronunciation: "ri-ˈzil-yən(t)s", PartOfSpeech: "noun",
		Meaning: "the capacity to recover quickly from difficulties; toughness.",
		Example: "Her resilience in the face of adversity was truly inspiring."},
	{Word: "Luminous", Pronunciation: "ˈlü-mə-nəs", PartOfSpeech: "adjective",
		Meaning: "full of or shedding light; bright or shining.",
		Example: "The luminous moon lit up the entire night sky."},
	{Word: "Eloquent", Pronunciation: "ˈe-lə-kwənt", PartOfSpeech: "adjective",
		Meaning: "fluent or persuasive in speaking or writing.",
		Example: "She gave an eloquent speech that moved everyone in the audience."},
	{Word: "Tranquil", Pronunciation: "ˈtraŋ-kwəl", PartOfSpeech: "adjective",
		Meaning: "free from disturbance; calm.",
		Example: "The tranquil lake reflected the mountains perfectly."},
	{Word: "Nostalgia", Pronunciation: "nä-ˈstal-jə", PartOfSpeech: "noun",
		Meaning: "a sentimental longing for the past.",
		Example: "Looking at old photos filled her with nostalgia."},
	{Word: "Perseverance", Pronunciation: "ˌpər-sə-ˈvir-ən(t)s", PartOfSpeech: "noun",
		Meaning: "continued effort to do or achieve something despite difficulties.",
		Example: "Success requires perseverance and dedication."},
	{Word: "Harmony", Pronunciation: "ˈhär-mə-nē", PartOfSpeech: "noun",
		Meaning: "the combination of simultaneously sounded musical notes to produce chords.",
		Example: "The choir sang in perfect harmony."},
	{Word: "Wisdom", Pronunciation: "ˈwiz-dəm", PartOfSpeech: "noun",
		Meaning: "the quality of having experience, knowledge, and good judgment.",
		Example: "With age comes wisdom and understanding."},
}

// DemoStore holds the pool in memory behind a mutex.
type DemoStore struct {
	mu      sync.RWMutex
	entries []WordEntry
}

// NewDemoStore seeds the pool with one entry per day ending today.
func NewDemoStore(now time.Time) *DemoStore {
	s := &DemoStore{entries: make([]WordEntry, len(demoPool))}
	copy(s.entries, demoPool)
	for i := range s.entries {
		day := now.AddDate(0, 0, -i)
		s.entries[i].ID = uuid.NewString()
		s.entries[i].ScheduledFor = day.Format("2006-01-02")
		s.entries[i].Status = StatusApproved
		s.entries[i].CreatedAt = day.UTC()
	}
	return s
}

func (s *DemoStore) TodayWord(ctx context.Context, dateKey string) (*WordEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.entries) == 0 {
		return nil, ErrNoEntries
	}
	for i := range s.entries {
		if s.entries[i].ScheduledFor == dateKey && s.entries[i].Status == StatusApproved {
			e := s.entries[i]
			return &e, nil
		}
	}
	// Most recently created, same fallback as the live store.
	latest := 0
	for i := range s.entries {
		if s.entries[i].CreatedAt.After(s.entries[latest].CreatedAt) {
			latest = i
		}
	}
	e := s.entries[latest]
	return &e, nil
}

func (s *DemoStore) IncrementViews(ctx context.Context, id string, seenViews int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].Views = seenViews + 1
			break
		}
	}
	return nil
}

func (s *DemoStore) Previous(ctx context.Context, beforeDateKey string, limit int) ([]WordEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []WordEntry
	for _, e := range s.entries {
		if e.ScheduledFor < beforeDateKey {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledFor > out[j].ScheduledFor })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *DemoStore) Trending(ctx context.Context, sinceDateKey string, limit int) ([]WordEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []WordEntry
	for _, e := range s.entries {
		if e.ScheduledFor >= sinceDateKey {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *DemoStore) Search(ctx context.Context, query string) ([]WordEntry, error) {
	q := strings.ToLower(query)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []WordEntry
	for _, e := range s.entries {
		if strings.Contains(strings.ToLower(e.Word), q) || strings.Contains(strings.ToLower(e.Meaning), q) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *DemoStore) CountWords(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

func (s *DemoStore) TotalViews(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, e := range s.entries {
		total += e.Views
	}
	return total, nil
}

func (s *DemoStore) Insert(ctx context.Context, e *WordEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.Status == "" {
		e.Status = StatusPending
	}
	s.entries = append(s.entries, *e)
	return nil
}
