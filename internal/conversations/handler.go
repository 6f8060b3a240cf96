package conversations

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfchat-backend/internal/llm"
	"pdfchat-backend/internal/shared/server/middleware"
	"pdfchat-backend/internal/shared/server/respond"
)

const (
	msgInvalidBody    = "invalid request body"
	msgAIError        = "Error processing input with AI"
	msgDatabaseError  = "Database error"
	msgUnexpectedFail = "Unexpected server error"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the conversation route.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/conversation", h.converse)
}

type conversationRequest struct {
	UserInput string `json:"userInput"`
}

type conversationResponse struct {
	Success    bool   `json:"success"`
	AIResponse string `json:"aiResponse"`
}

func (h *Handler) converse(c *gin.Context) {
	var req conversationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.Fail(c, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	reply, err := h.Svc.Ask(c.Request.Context(), middleware.UserIDFromContext(c), req.UserInput)
	c.Set("contextVersion", reply.ContextVersion)
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrInvocation):
			respond.Fail(c, http.StatusInternalServerError, msgAIError, err)
		case errors.Is(err, ErrDatastore):
			respond.Fail(c, http.StatusInternalServerError, msgDatabaseError, err)
		default:
			respond.Fail(c, http.StatusInternalServerError, msgUnexpectedFail, err)
		}
		return
	}

	respond.JSON(c, http.StatusOK, conversationResponse{Success: true, AIResponse: reply.Answer})
}
