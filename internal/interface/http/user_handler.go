package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/eventhub/internal/application"
	"github.com/oksasatya/eventhub/pkg/response"
	"github.com/oksasatya/eventhub/pkg/validation"
)

// statusClientClosedRequest is reported when the caller disconnects
// before a login or register settles.
const statusClientClosedRequest = 499

type UserHandler struct {
	Identity *application.IdentityStore
	Logger   *logrus.Logger
}

func NewUserHandler(identity *application.IdentityStore, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Identity: identity, Logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,secret"`
}

func (h *UserHandler) Session(c *gin.Context) {
	response.Success(c, http.StatusOK, h.Identity.State(), "session", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.identityError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "login successful", nil)
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Identity.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.identityError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u, "registered", nil)
}

func (h *UserHandler) Logout(c *gin.Context) {
	h.Identity.Logout(c.Request.Context())
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	u, err := h.Identity.Lookup(c.Request.Context(), c.Param("id"))
	if errors.Is(err, application.ErrUserNotFound) {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, application.MsgUnexpected, nil)
		return
	}
	response.Success(c, http.StatusOK, u, "user", nil)
}

func (h *UserHandler) identityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, application.MsgInvalidCredentials, nil)
	case errors.Is(err, application.ErrEmailAlreadyRegistered):
		response.Error[any](c, http.StatusConflict, application.MsgEmailInUse, nil)
	case errors.Is(err, context.Canceled):
		c.Status(statusClientClosedRequest)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("identity request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, application.MsgUnexpected, nil)
	}
}
