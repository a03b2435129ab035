// internal/forms/forms.go
//
// Newsletter subscriptions and word suggestions. The suggestion form on the
// original site handed the message to an email relay; email delivery is out
// of scope here, so suggestions are persisted for the site owner instead.

package forms

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

// ErrAlreadySubscribed signals a duplicate newsletter subscription. Detected
// via the store's unique-constraint code and surfaced as a friendly message
// rather than a generic error.
var ErrAlreadySubscribed = errors.New("already subscribed")

// ErrEmptyMessage rejects suggestion submissions without a message body.
var ErrEmptyMessage = errors.New("message is required")

// Defaults applied when the suggestion form fields are left blank.
const (
	DefaultSuggestionName  = "Anonymous"
	DefaultSuggestionEmail = "no-reply@example.com"
)

// Store persists subscribers and suggestions.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Subscribe inserts a new subscriber email.
func (s *Store) Subscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscribers (id, email, created_at) VALUES (?,?,?)`,
		uuid.NewString(), email, time.Now().UTC().Format(time.RFC3339))
	if isUniqueViolation(err) {
		return ErrAlreadySubscribed
	}
	return err
}

// CountSubscribers returns the exact subscriber count for the stats panel.
func (s *Store) CountSubscribers(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(id) FROM subscribers`).Scan(&n)
	return n, err
}

// AddSuggestion stores a suggestion, filling in the form's defaults for
// blank name/email.
func (s *Store) AddSuggestion(ctx context.Context, name, email, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return ErrEmptyMessage
	}
	if name = strings.TrimSpace(name); name == "" {
		name = DefaultSuggestionName
	}
	if email = strings.TrimSpace(email); email == "" {
		email = DefaultSuggestionEmail
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO suggestions (id, name, email, message, created_at) VALUES (?,?,?,?,?)`,
		uuid.NewString(), name, email, message, time.Now().UTC().Format(time.RFC3339))
	return err
}

// isUniqueViolation reports whether err is the sqlite unique-constraint code.
func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
