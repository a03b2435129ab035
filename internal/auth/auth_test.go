package auth

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wotd-in/go-server/internal/db"
)

func setupService(t *testing.T) *SQLService {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() { _ = conn.Close() })
	return NewSQLService(conn, "test_secret", 14)
}

func TestSignUpAndSignIn(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	sess, tok, err := svc.SignUp(ctx, "reader@example.com", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	assert.Equal(t, "reader@example.com", sess.Email)
	assert.False(t, sess.CreatedAt.IsZero())

	sess2, tok2, err := svc.SignIn(ctx, "Reader@Example.com", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, tok2)
	assert.Equal(t, sess.ID, sess2.ID)
}

func TestSignInWrongPassword(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	_, _, err := svc.SignUp(ctx, "reader@example.com", "correct horse")
	require.NoError(t, err)

	_, _, err = svc.SignIn(ctx, "reader@example.com", "wrong horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.SignIn(ctx, "nobody@example.com", "whatever-pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	_, _, err := svc.SignUp(ctx, "reader@example.com", "correct horse")
	require.NoError(t, err)
	_, _, err = svc.SignUp(ctx, "reader@example.com", "another pass")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignUpValidation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	_, _, err := svc.SignUp(ctx, "not-an-email", "long enough pw")
	assert.Error(t, err)
	_, _, err = svc.SignUp(ctx, "a@b.co", "short")
	assert.Error(t, err)
}

func TestSessionFromToken(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	sess, tok, err := svc.SignUp(ctx, "reader@example.com", "correct horse")
	require.NoError(t, err)

	got, err := svc.SessionFromToken(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.Email, got.Email)

	_, err = svc.SessionFromToken(ctx, "garbage.token.here")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMockSignInAllowList(t *testing.T) {
	m := NewMockService()
	ctx := context.Background()

	sess, tok, err := m.SignIn(ctx, "admin@wotd.in", "anything")
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	assert.Equal(t, "mock-admin-id", sess.ID)

	_, _, err = m.SignIn(ctx, "admin@wordofday.com", "anything")
	require.NoError(t, err)

	_, _, err = m.SignIn(ctx, "random@x.com", "anything")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestMockSignUpAlwaysSucceeds(t *testing.T) {
	m := NewMockService()
	ctx := context.Background()

	sess, tok, err := m.SignUp(ctx, "anyone@anywhere.dev", "pw")
	require.NoError(t, err)
	assert.Contains(t, sess.ID, "mock-user-")

	got, err := m.SessionFromToken(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
}

func TestMockSignOutClearsLocalState(t *testing.T) {
	m := NewMockService()
	ctx := context.Background()
	_, tok, err := m.SignIn(ctx, "admin@wotd.in", "x")
	require.NoError(t, err)

	require.NoError(t, m.SignOut(ctx, tok))
	_, err = m.SessionFromToken(ctx, tok)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIsAdminLiteralEquality(t *testing.T) {
	assert.True(t, IsAdmin("admin@wotd.in"))
	assert.True(t, IsAdmin("admin@wordofday.com"))
	assert.False(t, IsAdmin("Admin@wotd.in"))
	assert.False(t, IsAdmin("someone@wotd.in"))
}
