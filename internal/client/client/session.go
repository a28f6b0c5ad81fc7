package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/dmitrijs2005/journify/internal/client/repositories/metadata"
	"github.com/golang-jwt/jwt/v5"
)

// SessionStore keeps the logged-in session in the metadata partition.
type SessionStore struct {
	meta metadata.Repository
	now  func() time.Time
}

func NewSessionStore(meta metadata.Repository, now func() time.Time) *SessionStore {
	if now == nil {
		now = time.Now
	}
	return &SessionStore{meta: meta, now: now}
}

// Load returns the stored session or nil.
func (s *SessionStore) Load(ctx context.Context) (*models.Session, error) {
	raw, err := s.meta.Get(ctx, metadata.KeySession)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *SessionStore) Save(ctx context.Context, sess *models.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.meta.Set(ctx, metadata.KeySession, raw)
}

func (s *SessionStore) Clear(ctx context.Context) error {
	return s.meta.Delete(ctx, metadata.KeySession)
}

// Token returns the bearer token. It fails with ErrNotAuthenticated when no
// session is stored, and with ErrAuthExpired (clearing the session) when the
// token is a JWT whose exp has passed.
func (s *SessionStore) Token(ctx context.Context) (string, error) {
	sess, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	if sess == nil || sess.Token == "" {
		return "", ErrNotAuthenticated
	}
	if tokenExpired(sess.Token, s.now()) {
		if err := s.Clear(ctx); err != nil {
			return "", err
		}
		return "", ErrAuthExpired
	}
	return sess.Token, nil
}

// tokenExpired only looks at the exp claim. Tokens that are not JWTs, or
// carry no exp, never expire locally.
func tokenExpired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
