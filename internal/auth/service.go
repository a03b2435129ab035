// internal/auth/service.go
//
// Live auth service: email/password accounts in the users table, bcrypt
// hashes, HS256 JWTs carrying id/email claims.

package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SQLService implements Service against the users table.
type SQLService struct {
	db          *sql.DB
	secret      []byte
	expiresDays int
}

func NewSQLService(db *sql.DB, secret string, expiresDays int) *SQLService {
	if expiresDays <= 0 {
		expiresDays = 14
	}
	return &SQLService{db: db, secret: []byte(secret), expiresDays: expiresDays}
}

func (s *SQLService) SignUp(ctx context.Context, email, password string) (*Session, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateCredentials(email, password); err != nil {
		return nil, "", err
	}
	var exists int
	_ = s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE email = ?`, email).Scan(&exists)
	if exists == 1 {
		return nil, "", ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	sess := &Session{ID: uuid.NewString(), Email: email, CreatedAt: now}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?,?,?,?)`,
		sess.ID, email, string(hash), now.Format(time.RFC3339)); err != nil {
		return nil, "", err
	}
	tok, err := s.sign(sess)
	return sess, tok, err
}

func (s *SQLService) SignIn(ctx context.Context, email, password string) (*Session, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var id, hash, created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, password_hash, created_at FROM users WHERE email = ?`, email).
		Scan(&id, &hash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	createdAt, _ := time.Parse(time.RFC3339, created)
	sess := &Session{ID: id, Email: email, CreatedAt: createdAt}
	tok, err := s.sign(sess)
	return sess, tok, err
}

func (s *SQLService) SessionFromToken(ctx context.Context, token string) (*Session, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !t.Valid {
		return nil, ErrInvalidCredentials
	}
	id, _ := claims["id"].(string)
	email, _ := claims["email"].(string)
	if id == "" || email == "" {
		return nil, ErrInvalidCredentials
	}
	// Ensure the account still exists.
	var created string
	if err := s.db.QueryRowContext(ctx,
		`SELECT created_at FROM users WHERE id = ?`, id).Scan(&created); err != nil {
		return nil, ErrInvalidCredentials
	}
	createdAt, _ := time.Parse(time.RFC3339, created)
	return &Session{ID: id, Email: email, CreatedAt: createdAt}, nil
}

// SignOut is a no-op for JWTs; the HTTP layer clears the cookie.
func (s *SQLService) SignOut(ctx context.Context, token string) error { return nil }

func (s *SQLService) sign(sess *Session) (string, error) {
	exp := time.Now().Add(time.Duration(s.expiresDays) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    sess.ID,
		"email": sess.Email,
		"exp":   exp.Unix(),
		"iat":   time.Now().Unix(),
	})
	return t.SignedString(s.secret)
}
