package router

import (
	"github.com/oksasatya/eventhub/internal/container"
	handlers "github.com/oksasatya/eventhub/internal/interface/http"
	"github.com/oksasatya/eventhub/internal/interface/middleware"
	"github.com/oksasatya/eventhub/internal/router/modules"
)

// InitModules builds handlers from the container and registers every module.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config

	userHandler := handlers.NewUserHandler(c.Identity, c.Logger)
	eventHandler := handlers.NewEventHandler(c.Catalog, c.Identity, c.Logger)
	messageHandler := handlers.NewMessageHandler(c.Messages)

	limiter := middleware.NewLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst)
	postLimiter := middleware.NewLimiter(cfg.PostRateLimitRPS, cfg.PostRateLimitBurst)

	r.Add(modules.NewUserModule(userHandler, c.Identity, limiter))
	r.Add(modules.NewEventModule(eventHandler, messageHandler, c.Identity, postLimiter))

	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(map[string]modules.StatsFunc{
			"identity": func() any { return c.Identity.Stats() },
			"catalog":  func() any { return c.Catalog.Stats() },
			"messages": func() any { return c.Messages.Stats() },
		}))
	}
}
