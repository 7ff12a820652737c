// Package session holds the signed-in identity and its bearer credential,
// persisted across restarts through a key/value store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/bobmcallan/quantdash/internal/common"
	"github.com/bobmcallan/quantdash/internal/interfaces"
	"github.com/bobmcallan/quantdash/internal/models"
	"github.com/bobmcallan/quantdash/internal/storage"
)

// ErrInvalidCredentials is returned when the authenticator rejects a login or registration.
var ErrInvalidCredentials = interfaces.ErrInvalidCredentials

// Persisted keys.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// State is the session lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "uninitialized"
	}
}

// Store is the session store. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	state State
	user  *models.User
	token string

	kv     interfaces.KeyValueStore
	auth   interfaces.Authenticator
	sinks  []interfaces.CredentialSink
	logger *common.Logger
}

// NewStore creates an uninitialized store. Call Restore before use.
// Every sink is armed with the bearer credential while the session is
// authenticated and cleared otherwise.
func NewStore(kv interfaces.KeyValueStore, auth interfaces.Authenticator, logger *common.Logger, sinks ...interfaces.CredentialSink) *Store {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Store{
		kv:     kv,
		auth:   auth,
		sinks:  sinks,
		logger: logger,
	}
}

// Restore loads a persisted session. A missing or unreadable entry yields an
// anonymous session; only storage failures other than not-found are returned.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.kv.Get(ctx, KeyToken)
	if err != nil {
		s.becomeAnonymous()
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to restore session token: %w", err)
	}

	raw, err := s.kv.Get(ctx, KeyUser)
	if err != nil {
		s.becomeAnonymous()
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn().Msg("Session token present without user, treating as signed out")
			return nil
		}
		return fmt.Errorf("failed to restore session user: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || token == "" {
		s.logger.Warn().Err(err).Msg("Persisted session is malformed, treating as signed out")
		s.becomeAnonymous()
		return nil
	}

	s.becomeAuthenticated(&user, token)
	s.logger.Debug().Str("user_id", user.ID).Msg("Session restored")
	return nil
}

// Login authenticates and persists the session. On failure the prior state is kept.
func (s *Store) Login(ctx context.Context, email, password string) error {
	res, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return s.establish(ctx, res)
}

// Register creates an account and persists the session. On failure the prior state is kept.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	res, err := s.auth.Register(ctx, name, email, password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	return s.establish(ctx, res)
}

func (s *Store) establish(ctx context.Context, res *models.AuthResult) error {
	if res == nil || res.Token == "" {
		return fmt.Errorf("authenticator returned no credential: %w", ErrInvalidCredentials)
	}
	userJSON, err := json.Marshal(res.User)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prevToken, prevUser := s.snapshotPersisted(ctx)

	if err := s.kv.Set(ctx, KeyToken, res.Token); err != nil {
		s.rollback(ctx, prevToken, prevUser)
		return fmt.Errorf("failed to persist session token: %w", err)
	}
	if err := s.kv.Set(ctx, KeyUser, string(userJSON)); err != nil {
		s.rollback(ctx, prevToken, prevUser)
		return fmt.Errorf("failed to persist session user: %w", err)
	}

	user := res.User
	s.becomeAuthenticated(&user, res.Token)
	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("Signed in")
	return nil
}

// snapshotPersisted reads the current persisted entries; nil means absent.
func (s *Store) snapshotPersisted(ctx context.Context) (token, user *string) {
	if v, err := s.kv.Get(ctx, KeyToken); err == nil {
		token = &v
	}
	if v, err := s.kv.Get(ctx, KeyUser); err == nil {
		user = &v
	}
	return token, user
}

// rollback restores persisted entries to a prior snapshot.
func (s *Store) rollback(ctx context.Context, token, user *string) {
	restore := func(key string, v *string) {
		var err error
		if v == nil {
			err = s.kv.Delete(ctx, key)
		} else {
			err = s.kv.Set(ctx, key, *v)
		}
		if err != nil {
			s.logger.Error().Err(err).Str("key", key).Msg("Failed to roll back session entry")
		}
	}
	restore(KeyToken, token)
	restore(KeyUser, user)
}

// Logout clears the session. It always succeeds; persistence errors are logged.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range []string{KeyToken, KeyUser} {
		if err := s.kv.Delete(ctx, key); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Failed to remove session entry")
		}
	}
	s.becomeAnonymous()
	s.logger.Info().Msg("Signed out")
}

// becomeAuthenticated must be called with mu held.
func (s *Store) becomeAuthenticated(user *models.User, token string) {
	s.user = user
	s.token = token
	s.state = StateAuthenticated
	for _, sink := range s.sinks {
		sink.SetBearer(token)
	}
}

// becomeAnonymous must be called with mu held.
func (s *Store) becomeAnonymous() {
	s.user = nil
	s.token = ""
	s.state = StateAnonymous
	for _, sink := range s.sinks {
		sink.ClearBearer()
	}
}

// State returns the lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns a copy of the signed-in user, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the bearer credential, empty when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether a session exists.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateAuthenticated
}

// Loading reports whether Restore has not yet completed.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateUninitialized
}
