package application

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/eventhub/internal/domain/entity"
	"github.com/oksasatya/eventhub/internal/infrastructure/memory"
	"github.com/oksasatya/eventhub/internal/infrastructure/seed"
	"github.com/oksasatya/eventhub/internal/infrastructure/session"
)

var (
	fixtureOnce  sync.Once
	fixtureUsers []entity.CredentialUser
)

func seededUsers(t *testing.T) []entity.CredentialUser {
	t.Helper()
	fixtureOnce.Do(func() {
		users, err := seed.Users(bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		fixtureUsers = users
	})
	return fixtureUsers
}

type identityFixture struct {
	store    *IdentityStore
	users    *memory.UserRepository
	sessions *session.MemoryRepository
}

func newIdentityFixture(t *testing.T, cfg IdentityConfig) identityFixture {
	t.Helper()
	users := memory.NewUserRepository(seededUsers(t))
	sessions := session.NewMemoryRepository()
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.MinCost
	}
	if cfg.DefaultAvatar == "" {
		cfg.DefaultAvatar = seed.DefaultAvatar
	}
	store := NewIdentityStore(users, sessions, nil, cfg)
	store.Clock = func() time.Time { return time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC) }
	return identityFixture{store: store, users: users, sessions: sessions}
}

func storedSession(t *testing.T, f identityFixture) (entity.User, bool) {
	t.Helper()
	data, found, err := f.sessions.Load(context.Background())
	require.NoError(t, err)
	if !found {
		return entity.User{}, false
	}
	var u entity.User
	require.NoError(t, json.Unmarshal(data, &u))
	return u, true
}

func TestIdentityStore_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("should log in every fixture identity and strip the secret", func(t *testing.T) {
		for _, cu := range seededUsers(t) {
			req := require.New(t)
			f := newIdentityFixture(t, IdentityConfig{})

			u, err := f.store.Login(ctx, cu.Email, seed.DefaultPassword)
			req.NoError(err)
			req.Equal(cu.Sanitize(), u)

			raw, err := json.Marshal(u)
			req.NoError(err)
			req.NotContains(string(raw), "password")
			req.NotContains(string(raw), cu.PasswordHash)

			current, ok := f.store.Current()
			req.True(ok)
			req.Equal(u, current)

			persisted, found := storedSession(t, f)
			req.True(found)
			req.Equal(u.ID, persisted.ID)
		}
	})

	t.Run("should reject a wrong secret and keep the current identity", func(t *testing.T) {
		req := require.New(t)
		f := newIdentityFixture(t, IdentityConfig{})

		alex, err := f.store.Login(ctx, "alex@example.com", seed.DefaultPassword)
		req.NoError(err)

		_, err = f.store.Login(ctx, "samantha@example.com", "wrong")
		req.ErrorIs(err, ErrInvalidCredentials)

		current, ok := f.store.Current()
		req.True(ok)
		req.Equal(alex, current)
		req.Equal(MsgInvalidCredentials, f.store.State().Error)
		req.Equal(int64(1), f.store.Stats().FailedLogins)
	})

	t.Run("should reject an unknown email while unauthenticated", func(t *testing.T) {
		req := require.New(t)
		f := newIdentityFixture(t, IdentityConfig{})

		_, err := f.store.Login(ctx, "nobody@example.com", seed.DefaultPassword)
		req.ErrorIs(err, ErrInvalidCredentials)

		st := f.store.State()
		req.False(st.Authenticated)
		req.Nil(st.Current)
		_, found := storedSession(t, f)
		req.False(found)
	})

	t.Run("should clear the previous error when a new call starts", func(t *testing.T) {
		req := require.New(t)
		f := newIdentityFixture(t, IdentityConfig{})

		_, err := f.store.Login(ctx, "alex@example.com", "wrong")
		req.Error(err)
		_, err = f.store.Login(ctx, "alex@example.com", seed.DefaultPassword)
		req.NoError(err)
		req.Empty(f.store.State().Error)
	})

	t.Run("should report loading while a call is pending", func(t *testing.T) {
		req := require.New(t)
		f := newIdentityFixture(t, IdentityConfig{LoginLatency: 200 * time.Millisecond})
		req.False(f.store.State().Loading)

		done := make(chan error, 1)
		go func() {
			_, err := f.store.Login(ctx, "alex@example.com", seed.DefaultPassword)
			done <- err
		}()

		req.Eventually(func() bool { return f.store.State().Loading }, time.Second, 5*time.Millisecond)
		req.NoError(<-done)
		st := f.store.State()
		req.False(st.Loading)
		req.True(st.Authenticated)
	})

	t.Run("should abort on cancellation with the generic error", func(t *testing.T) {
		req := require.New(t)
		f := newIdentityFixture(t, IdentityConfig{LoginLatency: time.Hour})

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := f.store.Login(cctx, "alex@example.com", seed.DefaultPassword)
		req.ErrorIs(err, context.Canceled)

		st := f.store.State()
		req.Equal(MsgUnexpected, st.Error)
		req.False(st.Authenticated)
		req.False(st.Loading)
	})
}

func TestIdentityStore_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("should reject an existing email and leave the universe unchanged", func(t *testing.T) {
		req := require.New(t)
		f := newIdentityFixture(t, IdentityConfig{})

		_, err := f.store.Register(ctx, "Alex Again", "alex@example.com", "secret1")
		req.ErrorIs(err, ErrEmailAlreadyRegistered)
		req.Equal(MsgEmailInUse, f.store.State().Error)

		n, err := f.users.Count(ctx)
		req.NoError(err)
		req.Equal(5, n)
		_, ok := f.store.Current()
		req.False(ok)
	})

	t.Run("should accept a secret longer than 72 bytes", func(t *testing.T) {
		req := require.New(t)
		f := newIdentityFixture(t, IdentityConfig{})
		secret := strings.Repeat("é", 40)

		u, err := f.store.Register(ctx, "Long Secret", "long@example.com", secret)
		req.NoError(err)
		req.Empty(f.store.State().Error)

		f.store.Logout(ctx)
		again, err := f.store.Login(ctx, "long@example.com", secret)
		req.NoError(err)
		req.Equal(u, again)
	})

	t.Run("should keep the name exactly as given", func(t *testing.T) {
		req := require.New(t)
		f := newIdentityFixture(t, IdentityConfig{})

		u, err := f.store.Register(ctx, "  Nina Park ", "nina@example.com", "secret1")
		req.NoError(err)
		req.Equal("  Nina Park ", u.Name)
	})

	t.Run("should create, log in and persist a novel identity", func(t *testing.T) {
		req := require.New(t)
		f := newIdentityFixture(t, IdentityConfig{})

		u, err := f.store.Register(ctx, "Nina Park", "nina@example.com", "secret1")
		req.NoError(err)
		req.Equal("6", u.ID)
		req.Equal("Nina Park", u.Name)
		req.Equal(seed.DefaultAvatar, u.Avatar)
		req.Equal(time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC), u.CreatedAt)

		current, ok := f.store.Current()
		req.True(ok)
		req.Equal(u, current)

		persisted, found := storedSession(t, f)
		req.True(found)
		req.Equal(u.ID, persisted.ID)

		f.store.Logout(ctx)
		again, err := f.store.Login(ctx, "nina@example.com", "secret1")
		req.NoError(err)
		req.Equal(u.ID, again.ID)
	})

	t.Run("should assign monotonic ids to successive registrations", func(t *testing.T) {
		req := require.New(t)
		f := newIdentityFixture(t, IdentityConfig{})

		a, err := f.store.Register(ctx, "A", "a@example.com", "secret1")
		req.NoError(err)
		b, err := f.store.Register(ctx, "B", "b@example.com", "secret1")
		req.NoError(err)
		req.Equal("6", a.ID)
		req.Equal("7", b.ID)

		current, _ := f.store.Current()
		req.Equal(b.ID, current.ID)
	})
}

func TestIdentityStore_Logout(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newIdentityFixture(t, IdentityConfig{})

	_, err := f.store.Login(ctx, "ava@example.com", seed.DefaultPassword)
	req.NoError(err)

	f.store.Logout(ctx)
	_, ok := f.store.Current()
	req.False(ok)
	_, found := storedSession(t, f)
	req.False(found)

	f.store.Logout(ctx)
	req.False(f.store.State().Authenticated)
}

func TestIdentityStore_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("should restore a well formed record without checking credentials", func(t *testing.T) {
		req := require.New(t)
		f := newIdentityFixture(t, IdentityConfig{})
		req.NoError(f.sessions.Save(ctx, []byte(`{"id":"42","name":"Ghost","email":"ghost@example.com"}`)))

		req.NoError(f.store.Restore(ctx))
		current, ok := f.store.Current()
		req.True(ok)
		req.Equal("42", current.ID)
		req.Equal("Ghost", current.Name)
	})

	t.Run("should discard a malformed record", func(t *testing.T) {
		req := require.New(t)
		f := newIdentityFixture(t, IdentityConfig{})
		req.NoError(f.sessions.Save(ctx, []byte("{not json")))

		req.NoError(f.store.Restore(ctx))
		_, ok := f.store.Current()
		req.False(ok)
		_, found := storedSession(t, f)
		req.False(found)
	})

	t.Run("should discard a record without an id", func(t *testing.T) {
		req := require.New(t)
		f := newIdentityFixture(t, IdentityConfig{})
		req.NoError(f.sessions.Save(ctx, []byte(`{"name":"Nobody"}`)))

		req.NoError(f.store.Restore(ctx))
		_, ok := f.store.Current()
		req.False(ok)
	})

	t.Run("should stay unauthenticated when nothing is stored", func(t *testing.T) {
		req := require.New(t)
		f := newIdentityFixture(t, IdentityConfig{})

		req.NoError(f.store.Restore(ctx))
		req.False(f.store.State().Authenticated)
	})

	t.Run("should restore what a previous store persisted", func(t *testing.T) {
		req := require.New(t)
		f := newIdentityFixture(t, IdentityConfig{})
		u, err := f.store.Login(ctx, "jake@example.com", seed.DefaultPassword)
		req.NoError(err)

		next := NewIdentityStore(f.users, f.sessions, nil, IdentityConfig{})
		req.NoError(next.Restore(ctx))
		current, ok := next.Current()
		req.True(ok)
		req.Equal(u.ID, current.ID)
		req.Equal(u.Email, current.Email)
	})
}

func TestIdentityStore_Lookup(t *testing.T) {
	ctx := context.Background()
	f := newIdentityFixture(t, IdentityConfig{})

	t.Run("should resolve a known reference", func(t *testing.T) {
		req := require.New(t)
		u, err := f.store.Lookup(ctx, "3")
		req.NoError(err)
		req.Equal("Miguel Rodriguez", u.Name)
	})

	t.Run("should report a dangling reference as not found", func(t *testing.T) {
		_, err := f.store.Lookup(ctx, "404")
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("should skip dangling references when resolving", func(t *testing.T) {
		req := require.New(t)
		users := f.store.Resolve(ctx, []string{"2", "404", "1"})
		req.Len(users, 2)
		req.Equal("2", users[0].ID)
		req.Equal("1", users[1].ID)
	})
}
