// internal/auth/mock.go
//
// Degraded-mode auth: when the backing service is unconfigured, sign-in only
// works for the demo admin addresses and produces a synthetic session, and
// sign-up always succeeds. Sessions live in process memory only.

package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockService implements Service without any backing store.
type MockService struct {
	mu       sync.Mutex
	sessions map[string]*Session // keyed by token
}

func NewMockService() *MockService {
	return &MockService{sessions: make(map[string]*Session)}
}

func (m *MockService) SignIn(ctx context.Context, email, password string) (*Session, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !IsAdmin(email) {
		return nil, "", ErrNotConfigured
	}
	sess := &Session{ID: "mock-admin-id", Email: email, CreatedAt: time.Now().UTC()}
	return sess, m.remember(sess), nil
}

func (m *MockService) SignUp(ctx context.Context, email, password string) (*Session, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	sess := &Session{
		ID:        fmt.Sprintf("mock-user-%d", time.Now().UnixMilli()),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	return sess, m.remember(sess), nil
}

func (m *MockService) SessionFromToken(ctx context.Context, token string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[token]; ok {
		return s, nil
	}
	return nil, ErrInvalidCredentials
}

// SignOut clears local state only.
func (m *MockService) SignOut(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *MockService) remember(s *Session) string {
	tok := uuid.NewString()
	m.mu.Lock()
	m.sessions[tok] = s
	m.mu.Unlock()
	return tok
}
