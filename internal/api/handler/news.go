package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/youngthe/gemini-demo/internal/domain"
	"github.com/youngthe/gemini-demo/internal/repository"
)

const (
	maxTitleLen   = 200
	maxContentLen = 2000

	defaultListLimit = 25
	maxListLimit     = 50
)

// NewsHandler handles the raw article CRUD endpoints under /api/news.
type NewsHandler struct {
	newsRepo *repository.NewsRepository
}

// NewNewsHandler creates a new news handler.
func NewNewsHandler(newsRepo *repository.NewsRepository) *NewsHandler {
	return &NewsHandler{newsRepo: newsRepo}
}

// NewsEntryRequest is one element of the bulk-insert body.
type NewsEntryRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// BulkCreate handles POST /api/news. Fields are trimmed and length-capped;
// entries that end up fully empty are dropped. The surviving batch is
// inserted atomically.
func (h *NewsHandler) BulkCreate(c *gin.Context) {
	var entries []NewsEntryRequest
	if err := c.ShouldBindJSON(&entries); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "request body must be a JSON array of {title, content}",
		})
		return
	}

	articles := make([]domain.News, 0, len(entries))
	for _, e := range entries {
		title := capLength(strings.TrimSpace(e.Title), maxTitleLen)
		content := capLength(strings.TrimSpace(e.Content), maxContentLen)
		if title == "" && content == "" {
			continue
		}
		articles = append(articles, domain.News{Title: title, Content: content})
	}

	if len(articles) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "no valid entries to save",
		})
		return
	}

	if err := h.newsRepo.BulkCreate(c.Request.Context(), articles); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to save articles",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"saved":   len(articles),
		"firstId": articles[0].ID,
	})
}

type newsListEntry struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// List handles GET /api/news.
func (h *NewsHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	articles, err := h.newsRepo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to load articles",
		})
		return
	}

	entries := make([]newsListEntry, 0, len(articles))
	for _, a := range articles {
		entries = append(entries, newsListEntry{
			ID:        a.ID,
			Title:     a.Title,
			Content:   a.Content,
			CreatedAt: a.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, entries)
}

// Clear handles DELETE /api/news, removing all stored articles and
// comments. Driven by the admin panel.
func (h *NewsHandler) Clear(c *gin.Context) {
	if err := h.newsRepo.DeleteAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to clear articles",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func capLength(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
