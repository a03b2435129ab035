// internal/prefs/prefs.go
//
// Single key/value preference store. The only key today is the UI theme
// ("dark"/"light"); there is no schema versioning.

package prefs

import (
	"context"
	"database/sql"
	"errors"
)

const (
	ThemeKey     = "theme"
	ThemeDark    = "dark"
	ThemeLight   = "light"
	DefaultTheme = ThemeDark
)

// ErrInvalidTheme rejects theme values outside dark/light.
var ErrInvalidTheme = errors.New("theme must be dark or light")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Theme returns the saved theme, defaulting to dark when unset.
func (s *Store) Theme(ctx context.Context) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM prefs WHERE key = ?`, ThemeKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultTheme, nil
	}
	return v, err
}

// SetTheme saves the theme, replacing any previous value.
func (s *Store) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		return ErrInvalidTheme
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prefs (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, ThemeKey, theme)
	return err
}
