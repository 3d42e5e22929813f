package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"newsbrief/app/extractor"
	"newsbrief/app/feed"
	"newsbrief/app/ingest"
	"newsbrief/app/summarizer"
	"newsbrief/app/youtube"
)

// actorHeader carries the optional actor identity forwarded by the upstream
// auth layer. Absence is valid and yields an unattributed item.
const actorHeader = "X-User-Id"

func NewHandler(service NewsService, version string) *Handler {
	return &Handler{service: service, version: version}
}

func (h *Handler) CreateNews(c *gin.Context) {
	var input ingest.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	news, err := h.service.CreateNews(c.Request.Context(), input, c.GetHeader(actorHeader))
	if err != nil {
		status, message := classifyError(err)
		if status == http.StatusInternalServerError {
			slog.Error("Create news failed", "error", err)
			message = "Server error"
		}
		c.JSON(status, gin.H{"message": message})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "News created successfully",
		"news":    news,
	})
}

func (h *Handler) GetNews(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	sourceKind := c.Query("source")

	result, err := h.service.ListNews(page, limit, sourceKind)
	if err != nil {
		slog.Error("List news failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch news"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "News fetched successfully",
		"totalPages":  result.TotalPages,
		"currentPage": result.CurrentPage,
		"count":       result.Count,
		"news":        result.Items,
	})
}

func (h *Handler) PollFeed(c *gin.Context) {
	var body struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	report, err := h.service.PollFeed(c.Request.Context(), body.URL)
	if err != nil {
		status, message := classifyError(err)
		if status == http.StatusInternalServerError {
			slog.Error("Feed poll failed", "url", body.URL, "error", err)
			message = "Server error"
		}
		c.JSON(status, gin.H{"message": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Feed polled successfully",
		"createdCount": report.Created,
		"feedTitle":    report.FeedTitle,
	})
}

func (h *Handler) PollChannel(c *gin.Context) {
	var body struct {
		ChannelID string `json:"channelId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.ChannelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "channelId is required"})
		return
	}

	report, err := h.service.PollChannel(c.Request.Context(), body.ChannelID)
	if err != nil {
		status, message := classifyError(err)
		if status == http.StatusInternalServerError {
			slog.Error("Channel poll failed", "channel", body.ChannelID, "error", err)
			message = "Server error"
		}
		c.JSON(status, gin.H{"message": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Channel polled successfully",
		"createdCount": report.Created,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// classifyError maps pipeline failure kinds to user-facing response codes:
// caller-fixable input problems, duplicate conflicts, upstream source
// failures, summarization backend failures, and everything else as internal.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, ingest.ErrInvalidInput),
		errors.Is(err, extractor.ErrInvalidURL),
		errors.Is(err, feed.ErrInvalidURL),
		errors.Is(err, summarizer.ErrEmptyInput):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, ingest.ErrConflict):
		return http.StatusConflict, err.Error()

	case errors.Is(err, extractor.ErrFetch),
		errors.Is(err, extractor.ErrExtraction),
		errors.Is(err, feed.ErrFetch),
		errors.Is(err, youtube.ErrFetch):
		return http.StatusBadGateway, err.Error()

	case errors.Is(err, summarizer.ErrUnavailable),
		errors.Is(err, summarizer.ErrParse),
		errors.Is(err, summarizer.ErrSchema),
		errors.Is(err, youtube.ErrNotConfigured):
		return http.StatusServiceUnavailable, err.Error()
	}

	return http.StatusInternalServerError, "Server error"
}
