package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfchat-backend/internal/shared/server/respond"
)

// Handler exposes the health endpoint.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the health route.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.status)
}

func (h *Handler) status(c *gin.Context) {
	st := h.Svc.Status(c.Request.Context())
	code := http.StatusOK
	if !st.OK {
		code = http.StatusServiceUnavailable
	}
	respond.JSON(c, code, st)
}
