package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/eventhub/internal/domain/entity"
	repo "github.com/oksasatya/eventhub/internal/domain/repository"
	"github.com/oksasatya/eventhub/pkg/helpers"
)

type IdentityConfig struct {
	LoginLatency    time.Duration
	RegisterLatency time.Duration
	DefaultAvatar   string
	BcryptCost      int
}

// IdentityState is a point-in-time view of the store.
type IdentityState struct {
	Current       *entity.User `json:"currentUser"`
	Authenticated bool         `json:"isAuthenticated"`
	Loading       bool         `json:"loading"`
	Error         string       `json:"error,omitempty"`
}

type IdentityStats struct {
	Logins        int64 `json:"logins"`
	FailedLogins  int64 `json:"failed_logins"`
	Registrations int64 `json:"registrations"`
	Logouts       int64 `json:"logouts"`
}

// IdentityStore owns the current identity. Login and Register are independent
// units: overlapping calls are not serialized and the last one to complete
// decides the current identity.
type IdentityStore struct {
	Users    repo.UserRepository
	Sessions repo.SessionRepository
	Logger   *logrus.Logger
	Clock    helpers.Clock
	Config   IdentityConfig

	mu       sync.RWMutex
	current  *entity.User
	inflight int
	lastErr  string
	stats    IdentityStats
}

func NewIdentityStore(users repo.UserRepository, sessions repo.SessionRepository, logger *logrus.Logger, cfg IdentityConfig) *IdentityStore {
	return &IdentityStore{
		Users:    users,
		Sessions: sessions,
		Logger:   logger,
		Clock:    helpers.SystemClock,
		Config:   cfg,
	}
}

// Restore reads the persisted session record and trusts it as the current
// identity. Missing or malformed records leave the store unauthenticated;
// malformed ones are removed.
func (s *IdentityStore) Restore(ctx context.Context) error {
	data, found, err := s.Sessions.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if !found {
		return nil
	}

	var u entity.User
	if err := json.Unmarshal(data, &u); err != nil || !u.Valid() {
		if s.Logger != nil {
			entry := s.Logger.WithField("bytes", len(data))
			if err != nil {
				entry = entry.WithError(err)
			}
			entry.Warn("discarding malformed session record")
		}
		if cErr := s.Sessions.Clear(ctx); cErr != nil {
			return fmt.Errorf("discard session: %w", cErr)
		}
		return nil
	}

	s.mu.Lock()
	s.current = &u
	s.mu.Unlock()
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("session restored")
	}
	return nil
}

// Login authenticates against the identity universe and, on success, makes
// the sanitized identity current and persists it.
func (s *IdentityStore) Login(ctx context.Context, email, password string) (entity.User, error) {
	s.begin()
	defer s.end()

	if err := helpers.Delay(ctx, s.Config.LoginLatency); err != nil {
		return entity.User{}, s.fail(MsgUnexpected, err)
	}

	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && !helpers.CompareHashAndPassword(u.PasswordHash, password)) {
		s.mu.Lock()
		s.stats.FailedLogins++
		s.mu.Unlock()
		if s.Logger != nil {
			s.Logger.WithField("email", email).Info("login rejected")
		}
		return entity.User{}, s.fail(MsgInvalidCredentials, ErrInvalidCredentials)
	}
	if err != nil {
		return entity.User{}, s.fail(MsgUnexpected, err)
	}

	user := u.Sanitize()
	s.establish(ctx, user)
	s.mu.Lock()
	s.stats.Logins++
	s.mu.Unlock()
	return user, nil
}

// Register appends a new identity to the universe and logs it in.
func (s *IdentityStore) Register(ctx context.Context, name, email, password string) (entity.User, error) {
	s.begin()
	defer s.end()

	if err := helpers.Delay(ctx, s.Config.RegisterLatency); err != nil {
		return entity.User{}, s.fail(MsgUnexpected, err)
	}

	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return entity.User{}, s.fail(MsgEmailInUse, ErrEmailAlreadyRegistered)
	} else if !errors.Is(err, repo.ErrNotFound) {
		return entity.User{}, s.fail(MsgUnexpected, err)
	}

	hash, err := helpers.HashPasswordCost(password, s.Config.BcryptCost)
	if err != nil {
		return entity.User{}, s.fail(MsgUnexpected, err)
	}
	cu := &entity.CredentialUser{
		User: entity.User{
			Name:      name,
			Email:     email,
			Avatar:    s.Config.DefaultAvatar,
			CreatedAt: s.now(),
		},
		PasswordHash: hash,
	}
	if err := s.Users.Create(ctx, cu); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return entity.User{}, s.fail(MsgEmailInUse, ErrEmailAlreadyRegistered)
		}
		return entity.User{}, s.fail(MsgUnexpected, err)
	}

	user := cu.Sanitize()
	s.establish(ctx, user)
	s.mu.Lock()
	s.stats.Registrations++
	s.mu.Unlock()
	if s.Logger != nil {
		s.Logger.WithField("user_id", user.ID).Info("identity registered")
	}
	return user, nil
}

// Logout clears the current identity and the persisted record. It always succeeds.
func (s *IdentityStore) Logout(ctx context.Context) {
	s.mu.Lock()
	s.current = nil
	s.stats.Logouts++
	s.mu.Unlock()

	if err := s.Sessions.Clear(ctx); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("clear session record failed")
	}
}

// Current returns a copy of the current identity.
func (s *IdentityStore) Current() (entity.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return entity.User{}, false
	}
	return *s.current, true
}

func (s *IdentityStore) State() IdentityState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := IdentityState{
		Authenticated: s.current != nil,
		Loading:       s.inflight > 0,
		Error:         s.lastErr,
	}
	if s.current != nil {
		st.Current = lo.ToPtr(*s.current)
	}
	return st
}

func (s *IdentityStore) Stats() IdentityStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Lookup resolves a weak identity reference.
func (s *IdentityStore) Lookup(ctx context.Context, id string) (entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return entity.User{}, ErrUserNotFound
	}
	if err != nil {
		return entity.User{}, err
	}
	return u.Sanitize(), nil
}

// Resolve maps ids to identities in order, skipping dangling references.
func (s *IdentityStore) Resolve(ctx context.Context, ids []string) []entity.User {
	return lo.FilterMap(ids, func(id string, _ int) (entity.User, bool) {
		u, err := s.Lookup(ctx, id)
		if err != nil {
			if !errors.Is(err, ErrUserNotFound) && s.Logger != nil {
				s.Logger.WithError(err).WithField("user_id", id).Warn("identity lookup failed")
			}
			return entity.User{}, false
		}
		return u, true
	})
}

func (s *IdentityStore) begin() {
	s.mu.Lock()
	s.inflight++
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *IdentityStore) end() {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
}

func (s *IdentityStore) fail(msg string, err error) error {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
	if msg == MsgUnexpected && s.Logger != nil {
		s.Logger.WithError(err).Error("identity operation failed")
	}
	return err
}

func (s *IdentityStore) establish(ctx context.Context, u entity.User) {
	s.mu.Lock()
	s.current = lo.ToPtr(u)
	s.mu.Unlock()

	data, err := json.Marshal(u)
	if err == nil {
		err = s.Sessions.Save(ctx, data)
	}
	if err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("persist session record failed")
	}
}

func (s *IdentityStore) now() time.Time {
	if s.Clock == nil {
		return helpers.SystemClock()
	}
	return s.Clock()
}
