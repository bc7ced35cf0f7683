package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/samber/lo"

	"github.com/oksasatya/eventhub/internal/domain/entity"
	"github.com/oksasatya/eventhub/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository keeps the identity universe in process memory.
// Identifiers are assigned as the decimal of the universe size after append.
type UserRepository struct {
	mu    sync.RWMutex
	users []entity.CredentialUser
}

func NewUserRepository(seed []entity.CredentialUser) *UserRepository {
	return &UserRepository{users: append([]entity.CredentialUser(nil), seed...)}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.CredentialUser) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if lo.ContainsBy(r.users, func(x entity.CredentialUser) bool { return x.Email == u.Email }) {
		return repository.ErrEmailTaken
	}
	u.ID = strconv.Itoa(len(r.users) + 1)
	r.users = append(r.users, *u)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.CredentialUser, error) {
	return r.find(ctx, func(x entity.CredentialUser) bool { return x.ID == id })
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.CredentialUser, error) {
	return r.find(ctx, func(x entity.CredentialUser) bool { return x.Email == email })
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

func (r *UserRepository) find(ctx context.Context, pred func(entity.CredentialUser) bool) (*entity.CredentialUser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := lo.Find(r.users, pred)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}
