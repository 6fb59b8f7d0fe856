package apihandlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"folio/internal/app"
	"folio/internal/models"
	"folio/internal/services"
	"folio/internal/validate"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type APIHandler struct {
	search  *services.SearchService
	content *services.ContentService
	db      pinger
	val     *validate.Validator
}

func NewAPIHandler(a *app.App) *APIHandler {
	return New(a.SearchService, a.ContentService, a.Store)
}

// New builds a handler from its services. db may be nil, in which case /health skips the ping.
func New(search *services.SearchService, content *services.ContentService, db pinger) *APIHandler {
	return &APIHandler{search: search, content: content, db: db, val: validate.New()}
}

// RegisterRoutes mounts the API under rg (normally the /api group).
func (h *APIHandler) RegisterRoutes(rg gin.IRouter) {
	rg.GET("/search", h.SearchGetHandler)
	rg.POST("/search", h.SearchPostHandler)
	rg.POST("/elevenlabs-webhook", h.ElevenLabsWebhookHandler)

	content := rg.Group("/content")
	content.POST("", h.AddContentHandler)
	content.GET("", h.ListContentHandler)
	content.GET("/:id", h.GetContentHandler)
	content.PUT("/:id", h.UpdateContentHandler)
	content.DELETE("/:id", h.DeleteContentHandler)
}

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func (h *APIHandler) HealthHandler(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			log.WithError(err).Warn("health check: database unreachable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
}

func (h *APIHandler) AddContentHandler(c *gin.Context) {
	var in services.ContentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	content, err := h.content.AddContent(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "Failed to create content")
		return
	}
	c.JSON(http.StatusCreated, dataResponse{Success: true, Data: content})
}

func (h *APIHandler) ListContentHandler(c *gin.Context) {
	params, err := parseListContentParams(c)
	if err != nil {
		BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	items, err := h.content.ListContent(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list content")
		return
	}
	if items == nil {
		items = []*models.Content{}
	}
	c.JSON(http.StatusOK, dataResponse{Success: true, Data: items})
}

func (h *APIHandler) GetContentHandler(c *gin.Context) {
	id, err := parseContentID(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	content, err := h.content.GetContent(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve content")
		return
	}
	c.JSON(http.StatusOK, dataResponse{Success: true, Data: content})
}

func (h *APIHandler) UpdateContentHandler(c *gin.Context) {
	id, err := parseContentID(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	var in services.ContentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	content, err := h.content.UpdateContent(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err, "Failed to update content")
		return
	}
	c.JSON(http.StatusOK, dataResponse{Success: true, Data: content})
}

func (h *APIHandler) DeleteContentHandler(c *gin.Context) {
	id, err := parseContentID(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := h.content.DeleteContent(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete content")
		return
	}
	c.JSON(http.StatusOK, dataResponse{Success: true, Data: gin.H{"id": id}})
}

func parseContentID(c *gin.Context) (int64, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("Invalid content ID: %s", idStr)
	}
	return id, nil
}

func parseListContentParams(c *gin.Context) (services.ListContentParams, error) {
	params := services.ListContentParams{Category: models.Category(c.Query("category"))}
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			return params, fmt.Errorf("invalid limit: %s", l)
		}
		params.Limit = n
	}
	if o := c.Query("offset"); o != "" {
		n, err := strconv.Atoi(o)
		if err != nil || n < 0 {
			return params, fmt.Errorf("invalid offset: %s", o)
		}
		params.Offset = n
	}
	return params, nil
}
