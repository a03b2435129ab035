// internal/auth/auth.go
//
// Session model and the auth service contract.
//
// Two implementations exist: the live service (users table, bcrypt, HS256
// JWT cookies — see service.go) and the mock service used in degraded mode
// when the backing service is unconfigured (see mock.go). The Bridge in
// bridge.go mirrors the current session into local state and fans out
// change events to subscribers.

package auth

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Session is the locally mirrored, non-authoritative view of a login.
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

var (
	// ErrNotConfigured is returned by the mock service for emails outside
	// the demo allow-list.
	ErrNotConfigured = errors.New("auth service is not configured")

	// ErrInvalidCredentials covers unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken rejects duplicate signups.
	ErrEmailTaken = errors.New("email already registered")
)

// Service issues and resolves sessions. The token is opaque to callers; the
// HTTP layer stores it in a cookie either way.
type Service interface {
	// SignUp creates an account and an initial session.
	SignUp(ctx context.Context, email, password string) (*Session, string, error)

	// SignIn authenticates and returns a session plus its token.
	SignIn(ctx context.Context, email, password string) (*Session, string, error)

	// SessionFromToken resolves a previously issued token.
	SessionFromToken(ctx context.Context, token string) (*Session, error)

	// SignOut invalidates the token where the implementation can.
	SignOut(ctx context.Context, token string) error
}

// Admin addresses. Admin privilege is literal email equality, nothing more.
const (
	adminEmail    = "admin@wotd.in"
	adminEmailAlt = "admin@wordofday.com"
)

// IsAdmin reports whether the email is one of the two admin addresses.
func IsAdmin(email string) bool {
	return email == adminEmail || email == adminEmailAlt
}

// validateCredentials applies the service's own signup rules.
func validateCredentials(email, password string) error {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") || len(email) < 3 {
		return errors.New("invalid email address")
	}
	if len(password) < 8 || len(password) > 100 {
		return errors.New("password must be 8–100 chars")
	}
	return nil
}
