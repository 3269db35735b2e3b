package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/youngthe/gemini-demo/internal/domain"
	"github.com/youngthe/gemini-demo/internal/repository"
	"github.com/youngthe/gemini-demo/internal/service"
)

// TodayHandler serves the cached per-category content and the
// database-backed news feed with comments.
type TodayHandler struct {
	today    *service.TodayService
	newsRepo *repository.NewsRepository
}

// NewTodayHandler creates a new today handler.
// Parameters:
//   - today: refresh cache instance.
//   - newsRepo: news repository instance.
// Returns:
//   - *TodayHandler: initialized handler.
func NewTodayHandler(today *service.TodayService, newsRepo *repository.NewsRepository) *TodayHandler {
	return &TodayHandler{
		today:    today,
		newsRepo: newsRepo,
	}
}

// GetCategory handles GET /today/:category. The news category is served
// from the database; the rest come from the refresh cache, whose reads
// never block on an in-flight refresh and never fail.
func (h *TodayHandler) GetCategory(c *gin.Context) {
	category, ok := domain.ParseCategory(c.Param("category"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "unknown category",
		})
		return
	}

	if category == domain.CategoryNews {
		h.GetNews(c)
		return
	}

	snap := h.today.Snapshot(category)
	if !snap.RefreshedAt.IsZero() {
		c.Header("X-Refreshed-At", snap.RefreshedAt.UTC().Format(time.RFC3339))
	}
	c.JSON(http.StatusOK, snap.Items)
}

type todayNewsEntry struct {
	ID       uint               `json:"id"`
	Title    string             `json:"title"`
	Content  string             `json:"content"`
	Comments []todayNewsComment `json:"comments"`
	Command  string             `json:"command"`
}

type todayNewsComment struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// GetNews handles GET /today/news, the database-backed variant. Each entry
// carries a command string telling the client how to submit a comment.
func (h *TodayHandler) GetNews(c *gin.Context) {
	articles, err := h.newsRepo.ListWithComments(c.Request.Context(), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to load news",
		})
		return
	}

	entries := make([]todayNewsEntry, 0, len(articles))
	for _, a := range articles {
		comments := make([]todayNewsComment, 0, len(a.Comments))
		for _, cm := range a.Comments {
			comments = append(comments, todayNewsComment{
				ID:        cm.ID,
				Text:      cm.DisplayText(),
				CreatedAt: cm.CreatedAt,
			})
		}
		entries = append(entries, todayNewsEntry{
			ID:       a.ID,
			Title:    a.Title,
			Content:  a.Content,
			Comments: comments,
			Command:  fmt.Sprintf(`POST /today/news/comments {"newsId":"%d","text":"<comment>","nickname":"<optional>"}`, a.ID),
		})
	}

	c.JSON(http.StatusOK, entries)
}

// CommentRequest represents the comment submission body.
type CommentRequest struct {
	NewsID   string `json:"newsId"`
	Text     string `json:"text"`
	Nickname string `json:"nickname"`
}

// PostComment handles POST /today/news/comments.
func (h *TodayHandler) PostComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body",
		})
		return
	}

	req.NewsID = strings.TrimSpace(req.NewsID)
	req.Text = strings.TrimSpace(req.Text)
	req.Nickname = strings.TrimSpace(req.Nickname)

	if req.NewsID == "" || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "newsId and text are required",
		})
		return
	}

	newsID, err := strconv.ParseUint(req.NewsID, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "newsId must be a number",
		})
		return
	}

	exists, err := h.newsRepo.Exists(c.Request.Context(), uint(newsID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to look up article",
		})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "article not found",
		})
		return
	}

	comment := domain.NewsComment{
		NewsID:      uint(newsID),
		Nickname:    req.Nickname,
		CommentText: req.Text,
	}
	if err := h.newsRepo.CreateComment(c.Request.Context(), &comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to save comment",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"comment": gin.H{
			"id":        comment.ID,
			"newsId":    strconv.FormatUint(uint64(comment.NewsID), 10),
			"text":      comment.DisplayText(),
			"createdAt": comment.CreatedAt,
		},
	})
}
