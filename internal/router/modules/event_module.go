package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/eventhub/internal/interface/http"
	"github.com/oksasatya/eventhub/internal/interface/middleware"
)

type EventModule struct {
	Handler  *handlers.EventHandler
	Messages *handlers.MessageHandler
	Identity middleware.IdentityReader
	Limiter  *middleware.Limiter
}

func NewEventModule(h *handlers.EventHandler, messages *handlers.MessageHandler, identity middleware.IdentityReader, limiter *middleware.Limiter) *EventModule {
	return &EventModule{Handler: h, Messages: messages, Identity: identity, Limiter: limiter}
}

func (m *EventModule) Register(rg *gin.RouterGroup) {
	rg.GET("/events", m.Handler.List)
	rg.GET("/events/all", m.Handler.All)
	rg.GET("/events/selected", m.Handler.Selected)
	rg.GET("/events/:id", m.Handler.Get)
	rg.GET("/events/:id/participants", m.Handler.Participants)
	rg.GET("/events/:id/messages", m.Messages.List)

	auth := rg.Group("/")
	auth.Use(middleware.RequireIdentity(m.Identity))
	postLimiter := middleware.RateLimit(m.Limiter, middleware.KeyByUserID(), nil)
	{
		auth.POST("/events", postLimiter, m.Handler.Create)
		auth.POST("/events/:id/rsvp", m.Handler.RSVP)
		auth.DELETE("/events/:id/rsvp", m.Handler.Leave)
		auth.POST("/events/:id/messages", postLimiter, m.Messages.Post)
		auth.GET("/me/events", m.Handler.Mine)
	}
}
