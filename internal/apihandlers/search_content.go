package apihandlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"folio/internal/models"
	"folio/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	searchFailedMessage = "An error occurred while searching"
	// NoResultsSummary is what the voice agent hears when nothing matched.
	NoResultsSummary = "I couldn't find any relevant information about that topic. Could you please rephrase your question?"
)

type searchRequest struct {
	Query string `json:"query" validate:"required,min=2"`
}

// searchBody is the POST /api/search payload. options.limit is read leniently: anything that
// is not a positive number means "use the default".
type searchBody struct {
	Query   string `json:"query"`
	Options struct {
		Limit json.RawMessage `json:"limit"`
	} `json:"options"`
}

type webhookRequest struct {
	Query string `json:"query" validate:"required"`
}

type searchResponse struct {
	Success     bool                    `json:"success"`
	Query       string                  `json:"query"`
	ResultCount int                     `json:"resultCount"`
	Results     []services.SearchResult `json:"results"`
}

type webhookResponse struct {
	Success bool   `json:"success"`
	Summary string `json:"summary"`
}

// SearchGetHandler serves GET /api/search?query=...&limit=...
func (h *APIHandler) SearchGetHandler(c *gin.Context) {
	h.runSearch(c, c.Query("query"), parseLimit(c.Query("limit")))
}

// SearchPostHandler serves POST /api/search with { query, options: { limit } }.
func (h *APIHandler) SearchPostHandler(c *gin.Context) {
	var body searchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		ValidationFailed(c, []models.FieldError{{Field: "body", Message: "request body must be a JSON object"}})
		return
	}
	h.runSearch(c, body.Query, parseRawLimit(body.Options.Limit))
}

func (h *APIHandler) runSearch(c *gin.Context, query string, limit int) {
	req := searchRequest{Query: strings.TrimSpace(query)}
	if err := h.val.Struct(req); err != nil {
		respondError(c, err, searchFailedMessage)
		return
	}
	params, err := h.search.Params(req.Query, limit)
	if err != nil {
		respondError(c, err, searchFailedMessage)
		return
	}

	results, err := h.search.SearchContent(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, searchFailedMessage)
		return
	}
	c.JSON(http.StatusOK, searchResponse{
		Success:     true,
		Query:       params.Text,
		ResultCount: len(results),
		Results:     results,
	})
}

// ElevenLabsWebhookHandler answers a voice agent with the top result's summary only.
func (h *APIHandler) ElevenLabsWebhookHandler(c *gin.Context) {
	var req webhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationFailed(c, []models.FieldError{{Field: "query", Message: "query is required"}})
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if err := h.val.Struct(req); err != nil {
		respondError(c, err, searchFailedMessage)
		return
	}

	results, err := h.search.SearchContent(c.Request.Context(), services.SearchParams{Text: req.Query})
	if err != nil {
		respondError(c, err, searchFailedMessage)
		return
	}
	summary := NoResultsSummary
	if len(results) > 0 {
		summary = results[0].Summary
	}
	c.JSON(http.StatusOK, webhookResponse{Success: true, Summary: summary})
}

// parseLimit returns 0 (the service default) for anything that is not a positive integer.
// Integers too large for an int32 saturate at math.MaxInt32.
func parseLimit(s string) int {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if errors.Is(err, strconv.ErrRange) && n > 0 {
		return math.MaxInt32
	}
	if err != nil || n <= 0 {
		return 0
	}
	return int(n)
}

// parseRawLimit accepts 5, 5.0 and "5". Huge values saturate at math.MaxInt32 and are
// capped to the configured maximum by the search service.
func parseRawLimit(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		switch {
		case f < 1:
			return 0
		case f > math.MaxInt32:
			return math.MaxInt32
		}
		return int(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return parseLimit(s)
	}
	return 0
}
