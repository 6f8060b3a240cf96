package uploads

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfchat-backend/internal/extract"
	"pdfchat-backend/internal/shared/server/middleware"
	"pdfchat-backend/internal/shared/server/respond"
)

const (
	msgUploaded       = "File uploaded and text extracted successfully."
	msgParseFailed    = "Failed to parse PDF"
	msgDatabaseError  = "Database error"
	msgFileRequired   = "file is required"
	msgFileTooLarge   = "file is too large"
	msgUnexpectedFail = "Unexpected server error"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
	// MaxBytes caps the request body; 0 means unlimited.
	MaxBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxBytes int64) *Handler {
	return &Handler{Svc: svc, MaxBytes: maxBytes}
}

// RegisterRoutes attaches the upload route.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/upload", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	if h.MaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Fail(c, http.StatusRequestEntityTooLarge, msgFileTooLarge, err)
			return
		}
		respond.Fail(c, http.StatusBadRequest, msgFileRequired, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Fail(c, http.StatusInternalServerError, msgParseFailed, err)
		return
	}
	defer file.Close()

	res, err := h.Svc.Upload(c.Request.Context(), middleware.UserIDFromContext(c), fileHeader.Filename, file)
	if res.ContextVersion > 0 {
		c.Set("contextVersion", res.ContextVersion)
	}
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrExtraction):
			respond.Fail(c, http.StatusInternalServerError, msgParseFailed, err)
		case errors.Is(err, ErrDatastore):
			respond.Fail(c, http.StatusInternalServerError, msgDatabaseError, err)
		default:
			respond.Fail(c, http.StatusInternalServerError, msgUnexpectedFail, err)
		}
		return
	}

	c.Set("uploadId", res.File.ID)
	respond.Success(c, msgUploaded)
}
