package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/ncmx/internal/models"
	"github.com/desertthunder/ncmx/internal/shared"
)

const (
	KeySessionCookie = "session/cookie"
	KeySessionUser   = "session/user"
)

// StoredSession is the account saved alongside the cookie.
type StoredSession struct {
	Username string         `msgpack:"username"`
	Profile  models.Profile `msgpack:"profile"`
	SavedAt  time.Time      `msgpack:"saved_at"`
}

// CookieSetter receives a restored cookie. Satisfied by services.Client.
type CookieSetter interface {
	SetCookies(raw string)
}

// SessionCacheAdapter implements tasks.SessionStore using [KVRepository] and
// [LoginHistoryRepository].
type SessionCacheAdapter struct {
	kv      *KVRepository
	history *LoginHistoryRepository
}

// NewSessionCacheAdapter creates a new SessionCacheAdapter backed by db
func NewSessionCacheAdapter(db *sql.DB) *SessionCacheAdapter {
	return &SessionCacheAdapter{kv: NewKVRepository(db), history: NewLoginHistoryRepository(db)}
}

// SaveSession stores the cookie and account, then records the login.
func (a *SessionCacheAdapter) SaveSession(ctx context.Context, username string, profile models.Profile, cookie string) error {
	if err := a.kv.Set(ctx, KeySessionCookie, cookie); err != nil {
		return err
	}

	session := StoredSession{Username: username, Profile: profile, SavedAt: time.Now()}
	if err := a.kv.Set(ctx, KeySessionUser, session); err != nil {
		return err
	}

	if err := a.history.Create(ctx, models.NewLoginRecord(username, profile)); err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

// LoadCookie returns the saved cookie, wrapping [shared.ErrNotAuthenticated] when none is stored.
func (a *SessionCacheAdapter) LoadCookie(ctx context.Context) (string, error) {
	var cookie string
	if err := a.kv.Get(ctx, KeySessionCookie, &cookie); err != nil {
		if errors.Is(err, shared.ErrKeyNotFound) {
			return "", fmt.Errorf("%w: no saved session", shared.ErrNotAuthenticated)
		}
		return "", err
	}
	return cookie, nil
}

// LoadSession returns the saved account, wrapping [shared.ErrNotAuthenticated] when none is stored.
func (a *SessionCacheAdapter) LoadSession(ctx context.Context) (*StoredSession, error) {
	var session StoredSession
	if err := a.kv.Get(ctx, KeySessionUser, &session); err != nil {
		if errors.Is(err, shared.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: no saved session", shared.ErrNotAuthenticated)
		}
		return nil, err
	}
	return &session, nil
}

// Restore loads the saved cookie into client. It reports false when nothing is saved.
func (a *SessionCacheAdapter) Restore(ctx context.Context, client CookieSetter) (bool, error) {
	cookie, err := a.LoadCookie(ctx)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	client.SetCookies(cookie)
	return true, nil
}

// History returns the most recent logins.
func (a *SessionCacheAdapter) History(ctx context.Context, limit int) ([]*models.LoginRecord, error) {
	return a.history.List(ctx, limit)
}

// Clear forgets the saved session. Login history is kept.
func (a *SessionCacheAdapter) Clear(ctx context.Context) error {
	for _, key := range []string{KeySessionCookie, KeySessionUser} {
		if err := a.kv.Delete(ctx, key); err != nil && !errors.Is(err, shared.ErrKeyNotFound) {
			return err
		}
	}
	return nil
}
