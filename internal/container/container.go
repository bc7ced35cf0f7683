package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/eventhub/config"
	"github.com/oksasatya/eventhub/internal/application"
	"github.com/oksasatya/eventhub/internal/domain/repository"
	"github.com/oksasatya/eventhub/internal/infrastructure/memory"
	"github.com/oksasatya/eventhub/internal/infrastructure/seed"
	"github.com/oksasatya/eventhub/internal/infrastructure/session"
	"github.com/oksasatya/eventhub/pkg/helpers"
)

// Container carries the constructed components of one running instance.
// Stores are built here and passed explicitly to whatever consumes them.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Badger *badger.DB
	Redis  *redis.Client

	Users    repository.UserRepository
	Sessions repository.SessionRepository

	Identity *application.IdentityStore
	Catalog  *application.EventCatalog
	Messages *application.MessageLog
}

// OpenSessions builds the session repository selected by cfg.SessionBackend.
func (c *Container) OpenSessions(ctx context.Context) error {
	switch c.Config.SessionBackend {
	case "memory":
		c.Sessions = session.NewMemoryRepository()
	case "redis":
		rdb := helpers.NewRedisClient(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			_ = rdb.Close()
			return fmt.Errorf("connect redis: %w", err)
		}
		c.Redis = rdb
		c.Sessions = session.NewRedisRepository(rdb, c.Config.SessionKey)
	case "badger", "":
		db, err := session.OpenBadger(c.Config.BadgerDir)
		if err != nil {
			return err
		}
		c.Badger = db
		c.Sessions = session.NewBadgerRepository(db, c.Config.SessionKey)
	default:
		return fmt.Errorf("unknown session backend %q", c.Config.SessionBackend)
	}
	return nil
}

// New wires the identity universe, the session backend and the three stores,
// then restores any persisted session.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}
	if err := c.OpenSessions(ctx); err != nil {
		return nil, err
	}

	users, err := seed.Users(cfg.BcryptCost)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Users = memory.NewUserRepository(users)

	c.Identity = application.NewIdentityStore(c.Users, c.Sessions, logger, application.IdentityConfig{
		LoginLatency:    cfg.LoginLatency,
		RegisterLatency: cfg.RegisterLatency,
		DefaultAvatar:   seed.DefaultAvatar,
		BcryptCost:      cfg.BcryptCost,
	})
	source := seed.NewSource(helpers.SystemClock())
	c.Catalog = application.NewEventCatalog(source, c.Identity, logger, cfg.EventsLatency)
	c.Messages = application.NewMessageLog(source, c.Identity, logger, cfg.MessagesLatency)

	if err := c.Identity.Restore(ctx); err != nil && logger != nil {
		logger.WithError(err).Warn("session restore failed")
	}
	return c, nil
}

// Start begins the initial catalog and message loads in the background.
func (c *Container) Start(ctx context.Context) {
	go func() {
		if err := c.Catalog.Initialize(ctx); err == nil && c.Logger != nil {
			c.Logger.WithField("events", c.Catalog.Stats().Events).Info("event catalog loaded")
		}
	}()
	go func() {
		if err := c.Messages.Initialize(ctx); err == nil && c.Logger != nil {
			c.Logger.WithField("messages", c.Messages.Stats().Messages).Info("message log loaded")
		}
	}()
}

func (c *Container) Close() error {
	var errs []error
	if c.Badger != nil {
		errs = append(errs, c.Badger.Close())
	}
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	return errors.Join(errs...)
}
