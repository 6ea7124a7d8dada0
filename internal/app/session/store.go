// Package session owns the authentication state of one client instance: who
// is signed in, with which bearer token, and whether the persisted state has
// been restored yet.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/models"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-volunteerhub/internal/app/storage"
)

// AuthResult is what a successful credential exchange yields.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Authenticator exchanges credentials for a token and profile. A rejected
// exchange is reported as *AuthenticationError.
type Authenticator interface {
	Authenticate(ctx context.Context, identifier, secret string) (*AuthResult, error)
}

// Snapshot is a consistent copy of the session. User is nil and Token is
// empty when nobody is signed in.
type Snapshot struct {
	User    *models.User
	Token   string
	Loading bool
}

// Authenticated reports whether both halves of the session are present.
func (s Snapshot) Authenticated() bool {
	return s.User != nil && s.Token != ""
}

// Store is the single writer of a client instance's session.
type Store struct {
	storage storage.Storage
	auth    Authenticator
	logger  *zap.Logger
	now     func() time.Time

	mu      sync.RWMutex
	user    *models.User
	token   string
	loading bool
	// gen changes on every mutation so a slow Restore cannot clobber a
	// session established while it was reading.
	gen uint64

	restoreOnce sync.Once
	ready       chan struct{}
}

// NewStore returns an empty store in the loading state. Call Restore once.
func NewStore(st storage.Storage, auth Authenticator, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		storage: st,
		auth:    auth,
		logger:  logger,
		now:     time.Now,
		loading: true,
		ready:   make(chan struct{}),
	}
}

// Ready is closed once Restore has finished.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		User:    s.user.Clone(),
		Token:   s.token,
		Loading: s.loading,
	}
}

// Restore loads the persisted token and user. Missing or malformed entries
// mean "no session"; Restore never fails. Only the first call does any work.
func (s *Store) Restore(ctx context.Context) {
	s.restoreOnce.Do(func() {
		start := time.Now()

		s.mu.RLock()
		gen := s.gen
		s.mu.RUnlock()

		user, token := s.readPersisted(ctx)

		s.mu.Lock()
		if s.gen == gen {
			s.user, s.token = user, token
		}
		s.loading = false
		s.mu.Unlock()
		close(s.ready)

		metrics.Get().SessionRestoreDuration.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.Bool("restored", user != nil)))
		s.logger.Debug("Session restored", zap.Bool("authenticated", user != nil))
	})
}

func (s *Store) readPersisted(ctx context.Context) (*models.User, string) {
	token, ok, err := s.storage.Get(ctx, storage.KeyToken)
	if err != nil {
		s.logger.Warn("Failed to read persisted token", zap.Error(err))
		return nil, ""
	}
	if !ok || token == "" {
		return nil, ""
	}

	raw, ok, err := s.storage.Get(ctx, storage.KeyUser)
	if err != nil {
		s.logger.Warn("Failed to read persisted user", zap.Error(err))
		return nil, ""
	}
	if !ok {
		return nil, ""
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("Discarding malformed persisted user", zap.Error(err))
		return nil, ""
	}
	if user.ID == "" || !user.Role.Valid() {
		s.logger.Warn("Discarding incomplete persisted user")
		return nil, ""
	}
	return &user, token
}

// SignIn exchanges credentials, persists the result and only then installs
// it in memory. On any failure the store is left as it was.
func (s *Store) SignIn(ctx context.Context, identifier, secret string) (*models.User, error) {
	m := metrics.Get()

	res, err := s.auth.Authenticate(ctx, identifier, secret)
	if err != nil {
		var authErr *AuthenticationError
		if errors.As(err, &authErr) {
			m.SignInTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "rejected")))
			return nil, err
		}
		m.SignInTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "error")))
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if res == nil || res.Token == "" || res.User == nil || res.User.ID == "" || !res.User.Role.Valid() {
		m.SignInTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "malformed")))
		return nil, &AuthenticationError{Reason: "malformed authentication response"}
	}

	if err := s.persist(ctx, res.Token, res.User); err != nil {
		m.SignInTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "error")))
		return nil, err
	}

	s.mu.Lock()
	s.user = res.User.Clone()
	s.token = res.Token
	s.gen++
	s.mu.Unlock()

	m.SignInTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", "ok"),
		attribute.String("role", string(res.User.Role)),
	))
	s.logger.Info("Signed in", zap.String("user_id", res.User.ID), zap.String("role", string(res.User.Role)))
	return res.User.Clone(), nil
}

func (s *Store) persist(ctx context.Context, token string, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.storage.Set(ctx, storage.KeyToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.storage.Set(ctx, storage.KeyUser, string(raw)); err != nil {
		// do not leave a token without its user behind
		if delErr := s.storage.Delete(ctx, storage.KeyToken); delErr != nil {
			s.logger.Warn("Failed to roll back persisted token", zap.Error(delErr))
		}
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}

// SignOut clears the session in memory and in storage. It is idempotent and
// always succeeds; storage failures are logged.
func (s *Store) SignOut(ctx context.Context) {
	s.mu.Lock()
	hadSession := s.user != nil || s.token != ""
	s.user = nil
	s.token = ""
	s.gen++
	s.mu.Unlock()

	if err := s.storage.Delete(ctx, storage.KeyToken, storage.KeyUser); err != nil {
		s.logger.Warn("Failed to clear persisted session", zap.Error(err))
	}
	if hadSession {
		metrics.Get().SignOutTotal.Add(ctx, 1)
		s.logger.Info("Signed out")
	}
}

// UpdateUser merges patch into the in-memory profile. The change is not
// written to storage; a later Restore yields the profile persisted at sign-in.
func (s *Store) UpdateUser(patch models.ProfilePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return models.ErrUnauthenticated
	}
	patch.Apply(s.user, s.now())
	s.gen++
	return nil
}
