package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/oksasatya/eventhub/internal/application"
	"github.com/oksasatya/eventhub/internal/domain/entity"
	"github.com/oksasatya/eventhub/pkg/response"
	"github.com/oksasatya/eventhub/pkg/validation"
)

type MessageHandler struct {
	Messages *application.MessageLog
}

func NewMessageHandler(messages *application.MessageLog) *MessageHandler {
	return &MessageHandler{Messages: messages}
}

type attachmentRequest struct {
	Type string `json:"type" binding:"required,attachment"`
	URL  string `json:"url" binding:"required,url"`
}

type postMessageRequest struct {
	Content     string              `json:"content" binding:"required,max=2000"`
	Attachments []attachmentRequest `json:"attachments" binding:"omitempty,max=4,dive"`
}

func (h *MessageHandler) List(c *gin.Context) {
	st := h.Messages.State()
	response.Success(c, http.StatusOK, h.Messages.ForEvent(c.Param("id")), "messages", map[string]any{"loading": st.Loading, "error": st.Error})
}

func (h *MessageHandler) Post(c *gin.Context) {
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	attachments := lo.Map(req.Attachments, func(a attachmentRequest, _ int) entity.Attachment {
		return entity.Attachment{Type: entity.AttachmentKind(a.Type), URL: a.URL}
	})
	msg, ok := h.Messages.Post(c.Param("id"), req.Content, attachments)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "sign in required", nil)
		return
	}
	response.Success(c, http.StatusCreated, msg, "message posted", nil)
}
