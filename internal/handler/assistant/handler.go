package assistant

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/medicare-health/assistant-api/internal/handler"
	"github.com/medicare-health/assistant-api/internal/model"
)

type Chatter interface {
	Chat(ctx context.Context, turn *model.ChatTurn) model.Output[model.ChatResult]
}

type Handler struct {
	service Chatter
}

func NewHandler(service Chatter) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/assistant/chat", h.Chat)
}

func (h *Handler) Chat(c *gin.Context) {
	var req model.ChatTurn
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	// Processing health questions through a remote model requires explicit
	// consent, checked before the turn reaches the assistant.
	if !req.AIConsent {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("AI consent required for assistant processing"))
		return
	}

	req.UserMessage = strings.TrimSpace(req.UserMessage)
	if utf8.RuneCountInString(req.UserMessage) < 2 {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("user_message must be at least 2 characters"))
		return
	}

	history := make([]string, 0, len(req.History))
	for _, entry := range req.History {
		if entry = strings.TrimSpace(entry); entry != "" {
			history = append(history, entry)
		}
	}
	req.History = history

	output := h.service.Chat(c.Request.Context(), &req)
	c.JSON(http.StatusOK, handler.NewAnalysisResponse(output.Result, output.Source))
}
