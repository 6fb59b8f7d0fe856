package apihandlers

import (
	"errors"
	"net/http"

	"folio/internal/models"
	"folio/internal/store"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// errorResponse is the body of every failed request: { "success": false, "error": "..." }.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// validationResponse lists the rejected fields: { "success": false, "errors": [...] }.
type validationResponse struct {
	Success bool                `json:"success"`
	Errors  []models.FieldError `json:"errors"`
}

// JSONError sends a structured error response
func JSONError(ctx *gin.Context, status int, msg string) {
	ctx.JSON(status, errorResponse{Success: false, Error: msg})
}

func ValidationFailed(ctx *gin.Context, fields []models.FieldError) {
	ctx.JSON(http.StatusBadRequest, validationResponse{Success: false, Errors: fields})
}

func BadRequest(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusBadRequest, msg)
}

func NotFound(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusNotFound, msg)
}

func Internal(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusInternalServerError, msg)
}

// respondError maps a service error onto a response. Internal details are logged, not returned.
func respondError(c *gin.Context, err error, publicMsg string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		ValidationFailed(c, verr.Fields)
	case errors.Is(err, store.ErrNotFound):
		NotFound(c, "Content not found")
	default:
		log.WithError(err).WithFields(log.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString(requestIDKey),
		}).Error(publicMsg)
		Internal(c, publicMsg)
	}
}
