// internal/words/sqlstore.go
//
// sqlite-backed Store implementation. Column layout matches sql/001_init.sql;
// synonyms/antonyms are JSON-encoded text, timestamps are RFC3339 strings.

package words

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const entryColumns = `id, word, phonetic, pronunciation, part_of_speech, meaning, example,
	synonyms, antonyms, scheduled_for, status, views, favorites_count, comments_count, created_at`

// SQLStore implements Store on a *sql.DB.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore wraps an opened (and migrated) database handle.
func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) TodayWord(ctx context.Context, dateKey string) (*WordEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM words
		WHERE scheduled_for = ? AND status = ?
		LIMIT 1`, dateKey, StatusApproved)
	e, err := scanEntry(row)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// Nothing scheduled for today: fall back to the most recent entry.
	row = s.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM words
		ORDER BY created_at DESC
		LIMIT 1`)
	e, err = scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoEntries
	}
	return e, err
}

func (s *SQLStore) IncrementViews(ctx context.Context, id string, seenViews int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE words SET views = ? WHERE id = ?`, seenViews+1, id)
	return err
}

func (s *SQLStore) Previous(ctx context.Context, beforeDateKey string, limit int) ([]WordEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM words
		WHERE scheduled_for < ?
		ORDER BY scheduled_for DESC
		LIMIT ?`, beforeDateKey, limit)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

func (s *SQLStore) Trending(ctx context.Context, sinceDateKey string, limit int) ([]WordEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM words
		WHERE scheduled_for >= ?
		ORDER BY views DESC
		LIMIT ?`, sinceDateKey, limit)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

func (s *SQLStore) Search(ctx context.Context, query string) ([]WordEntry, error) {
	pat := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM words
		WHERE word LIKE ? OR meaning LIKE ?`, pat, pat)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

func (s *SQLStore) CountWords(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(id) FROM words`).Scan(&n)
	return n, err
}

// TotalViews fetches the views column and reduces it in memory, mirroring
// the way the site computes this figure rather than pushing a SUM down.
func (s *SQLStore) TotalViews(ctx context.Context) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT views FROM words`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	total := 0
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return 0, err
		}
		total += v
	}
	return total, rows.Err()
}

func (s *SQLStore) Insert(ctx context.Context, e *WordEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.Status == "" {
		e.Status = StatusPending
	}
	syn, err := json.Marshal(e.Synonyms)
	if err != nil {
		return err
	}
	ant, err := json.Marshal(e.Antonyms)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO words (`+entryColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		e.ID, e.Word, e.Phonetic, e.Pronunciation, e.PartOfSpeech, e.Meaning, e.Example,
		string(syn), string(ant), e.ScheduledFor, e.Status,
		e.Views, e.FavoritesCount, e.CommentsCount, e.CreatedAt.Format(time.RFC3339))
	return err
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*WordEntry, error) {
	var e WordEntry
	var syn, ant, created string
	if err := row.Scan(&e.ID, &e.Word, &e.Phonetic, &e.Pronunciation, &e.PartOfSpeech,
		&e.Meaning, &e.Example, &syn, &ant, &e.ScheduledFor, &e.Status,
		&e.Views, &e.FavoritesCount, &e.CommentsCount, &created); err != nil {
		return nil, err
	}
	if syn != "" {
		_ = json.Unmarshal([]byte(syn), &e.Synonyms)
	}
	if ant != "" {
		_ = json.Unmarshal([]byte(ant), &e.Antonyms)
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &e, nil
}

func collectEntries(rows *sql.Rows) ([]WordEntry, error) {
	defer rows.Close()
	var out []WordEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}
