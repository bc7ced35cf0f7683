package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/eventhub/internal/application"
	"github.com/oksasatya/eventhub/internal/domain/entity"
	"github.com/oksasatya/eventhub/pkg/response"
	"github.com/oksasatya/eventhub/pkg/validation"
)

type EventHandler struct {
	Catalog  *application.EventCatalog
	Identity *application.IdentityStore
	Logger   *logrus.Logger
}

func NewEventHandler(catalog *application.EventCatalog, identity *application.IdentityStore, logger *logrus.Logger) *EventHandler {
	return &EventHandler{Catalog: catalog, Identity: identity, Logger: logger}
}

type filterQuery struct {
	Category string `json:"category" form:"category"`
	Search   string `json:"q" form:"q" binding:"omitempty,max=200"`
}

func (h *EventHandler) meta() map[string]any {
	st := h.Catalog.State()
	return map[string]any{"loading": st.Loading, "error": st.Error, "criteria": st.Criteria}
}

// List applies the query as the active filter and returns the filtered view.
func (h *EventHandler) List(c *gin.Context) {
	var q filterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	criteria := application.FilterCriteria{Search: q.Search}
	if q.Category != "" {
		category, err := entity.ParseCategory(q.Category)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid query", map[string]string{"category": err.Error()})
			return
		}
		criteria.Category = category
	}
	events := h.Catalog.Filter(criteria)
	response.Success(c, http.StatusOK, events, "events", h.meta())
}

func (h *EventHandler) All(c *gin.Context) {
	response.Success(c, http.StatusOK, h.Catalog.Events(), "events", h.meta())
}

func (h *EventHandler) Get(c *gin.Context) {
	e, ok := h.Catalog.GetByID(c.Param("id"))
	if !ok {
		response.Error[any](c, http.StatusNotFound, "event not found", nil)
		return
	}
	response.Success(c, http.StatusOK, e, "event", nil)
}

func (h *EventHandler) Selected(c *gin.Context) {
	e, ok := h.Catalog.Selected()
	if !ok {
		response.Error[any](c, http.StatusNotFound, "no event selected", nil)
		return
	}
	response.Success(c, http.StatusOK, e, "selected event", nil)
}

func (h *EventHandler) Participants(c *gin.Context) {
	users, err := h.Catalog.Participants(c.Request.Context(), c.Param("id"), h.Identity)
	if errors.Is(err, application.ErrEventNotFound) {
		response.Error[any](c, http.StatusNotFound, "event not found", nil)
		return
	}
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, application.MsgUnexpected, nil)
		return
	}
	response.Success(c, http.StatusOK, users, "participants", map[string]any{"count": len(users)})
}

func (h *EventHandler) Create(c *gin.Context) {
	var in application.CreateEventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	e, err := h.Catalog.Create(c.Request.Context(), in)
	switch {
	case err == nil:
		response.Success(c, http.StatusCreated, e, "event created", nil)
	case errors.Is(err, application.ErrNotAuthenticated):
		response.Error[any](c, http.StatusUnauthorized, "sign in required", nil)
	case errors.Is(err, application.ErrInvalidSchedule):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"endDate": "must be after startDate"})
	case errors.Is(err, application.ErrInvalidEvent):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).Error("create event failed")
		}
		response.Error[any](c, http.StatusInternalServerError, application.MsgUnexpected, nil)
	}
}

func (h *EventHandler) RSVP(c *gin.Context) {
	h.membership(c, h.Catalog.RSVP, "rsvp confirmed")
}

func (h *EventHandler) Leave(c *gin.Context) {
	h.membership(c, h.Catalog.Leave, "rsvp cancelled")
}

// membership blocks changes to events that have ended, then applies op.
func (h *EventHandler) membership(c *gin.Context, op func(string) bool, message string) {
	id := c.Param("id")
	e, ok := h.Catalog.Find(id)
	if !ok {
		response.Error[any](c, http.StatusNotFound, "event not found", nil)
		return
	}
	if e.Status == entity.StatusPast {
		response.Error[any](c, http.StatusConflict, "event has ended", nil)
		return
	}
	changed := op(id)
	e, _ = h.Catalog.Find(id)
	response.Success(c, http.StatusOK, e, message, map[string]any{"changed": changed})
}

func (h *EventHandler) Mine(c *gin.Context) {
	response.Success(c, http.StatusOK, h.Catalog.ParticipatingIn(c.GetString("userID")), "my events", nil)
}
