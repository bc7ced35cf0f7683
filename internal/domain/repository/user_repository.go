package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/eventhub/internal/domain/entity"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already taken")
)

// UserRepository is the identity universe. It is append-only: identities are
// added on registration and never removed.
type UserRepository interface {
	// Create assigns the next identifier and appends u. It fails with
	// ErrEmailTaken when another identity already uses u.Email.
	Create(ctx context.Context, u *entity.CredentialUser) error
	GetByID(ctx context.Context, id string) (*entity.CredentialUser, error)
	GetByEmail(ctx context.Context, email string) (*entity.CredentialUser, error)
	Count(ctx context.Context) (int, error)
}
