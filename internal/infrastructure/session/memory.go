package session

import (
	"context"
	"slices"
	"sync"

	"github.com/oksasatya/eventhub/internal/domain/repository"
)

var _ repository.SessionRepository = (*MemoryRepository)(nil)

// MemoryRepository holds the session record for the lifetime of the process.
type MemoryRepository struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Load(ctx context.Context) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.data == nil {
		return nil, false, nil
	}
	return slices.Clone(r.data), true, nil
}

func (r *MemoryRepository) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.data = slices.Clone(data)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.data = nil
	r.mu.Unlock()
	return nil
}
