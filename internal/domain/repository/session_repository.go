package repository

import "context"

// SessionRepository stores the serialized current identity under a fixed key.
// Load returns found=false when nothing is stored.
type SessionRepository interface {
	Load(ctx context.Context) (data []byte, found bool, err error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}
