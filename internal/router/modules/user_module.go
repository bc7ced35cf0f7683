package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/eventhub/internal/interface/http"
	"github.com/oksasatya/eventhub/internal/interface/middleware"
)

// UserModule wires identity handlers into routes
// Public: GET /api/session, POST /api/login, POST /api/register, GET /api/users/:id
// Protected: POST /api/logout
type UserModule struct {
	Handler  *handlers.UserHandler
	Identity middleware.IdentityReader
	Limiter  *middleware.Limiter
}

func NewUserModule(h *handlers.UserHandler, identity middleware.IdentityReader, limiter *middleware.Limiter) *UserModule {
	return &UserModule{Handler: h, Identity: identity, Limiter: limiter}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	authLimiter := middleware.RateLimit(m.Limiter, middleware.KeyByIPAndPath(), nil)

	rg.GET("/session", m.Handler.Session)
	rg.POST("/login", authLimiter, m.Handler.Login)
	rg.POST("/register", authLimiter, m.Handler.Register)
	rg.GET("/users/:id", m.Handler.GetUser)

	auth := rg.Group("/")
	auth.Use(middleware.RequireIdentity(m.Identity))
	{
		auth.POST("/logout", m.Handler.Logout)
	}
}
