package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/journify/internal/client/client"
	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/dmitrijs2005/journify/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/journify/internal/cryptox"
	"github.com/dmitrijs2005/journify/internal/logging"
	"github.com/dmitrijs2005/journify/internal/platform"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the API and cache what offline login needs.
//     When the API cannot be reached the cached verifier is checked instead.
//   - Register: create a new account on the API.
//   - Logout: forget the session and the cached verifier.
//   - Current: the stored session, or nil.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, name, email, password string) error
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*models.Session, error)
	Ping(ctx context.Context) error
}

// LoginResult carries the session and whether it was confirmed by the API.
type LoginResult struct {
	Session *models.Session
	Offline bool
}

type authService struct {
	client   client.Client
	meta     metadata.Repository
	sessions *client.SessionStore
	env      platform.Env
	log      logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and
// metadata partition.
func NewAuthService(c client.Client, meta metadata.Repository, sessions *client.SessionStore, env platform.Env, log logging.Logger) AuthService {
	return &authService{client: c, meta: meta, sessions: sessions, env: env, log: log.With("component", "auth")}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)

	if !a.env.IsOnline() {
		return a.offlineLogin(ctx, email, password)
	}

	sess, err := a.client.Login(ctx, email, password)
	if err != nil {
		if client.IsNetworkError(err) || errors.Is(err, client.ErrUnavailable) {
			a.log.Info(ctx, "api unreachable, trying offline login", "err", err)
			return a.offlineLogin(ctx, email, password)
		}
		return nil, fmt.Errorf("login error: %w", err)
	}

	if err := a.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	if err := a.meta.Set(ctx, metadata.KeyOfflineVerifier, cryptox.NewOfflineVerifier(email, password)); err != nil {
		return nil, fmt.Errorf("offline data saving error: %w", err)
	}
	return &LoginResult{Session: sess}, nil
}

// offlineLogin checks the credentials against the cached verifier. It
// returns client.ErrLocalDataNotAvailable when nothing is cached and
// client.ErrUnauthorized on mismatch.
func (a *authService) offlineLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	record, err := a.meta.Get(ctx, metadata.KeyOfflineVerifier)
	if err != nil {
		return nil, err
	}
	sess, err := a.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(record) == 0 || sess == nil {
		return nil, client.ErrLocalDataNotAvailable
	}

	ok, err := cryptox.CheckOfflineVerifier(record, email, password)
	if err != nil {
		if errors.Is(err, cryptox.ErrMalformedVerifier) {
			return nil, client.ErrLocalDataNotAvailable
		}
		return nil, err
	}
	if !ok {
		return nil, client.ErrUnauthorized
	}
	return &LoginResult{Session: sess, Offline: true}, nil
}

func (a *authService) Register(ctx context.Context, name, email, password string) error {
	return a.client.Register(ctx, strings.TrimSpace(name), normalizeEmail(email), password)
}

// Logout wipes the session and cached verifier. Stories, favorites and the
// pending queue are left alone.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.sessions.Clear(ctx); err != nil {
		return err
	}
	return a.meta.Delete(ctx, metadata.KeyOfflineVerifier)
}

func (a *authService) Current(ctx context.Context) (*models.Session, error) {
	return a.sessions.Load(ctx)
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
