package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/oksasatya/eventhub/internal/domain/repository"
)

var _ repository.SessionRepository = (*BadgerRepository)(nil)

// OpenBadger opens the embedded store under dir. An empty dir opens an
// in-memory instance.
func OpenBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return db, nil
}

// BadgerRepository persists the session record in BadgerDB under one key,
// surviving process restarts the way browser local storage survives reloads.
type BadgerRepository struct {
	db  *badger.DB
	key []byte
}

func NewBadgerRepository(db *badger.DB, key string) *BadgerRepository {
	return &BadgerRepository{db: db, key: []byte("session:" + key)}
}

func (r *BadgerRepository) Load(ctx context.Context) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var data []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(r.key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load session: %w", err)
	}
	return data, true, nil
}

func (r *BadgerRepository) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(r.key, data)
	})
}

func (r *BadgerRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(r.key)
	})
}
