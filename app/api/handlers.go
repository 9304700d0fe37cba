package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/enterprisey/article-history/app/database"
	"github.com/enterprisey/article-history/app/history"
	"github.com/enterprisey/article-history/app/source"
	"github.com/enterprisey/article-history/app/tasks"
)

// NewHandler wires the HTTP handlers. scheduler may be nil, in which case
// pages cannot be queued.
func NewHandler(pageRepo database.PageRepository, rewriter *history.Rewriter,
	scheduler tasks.TaskSchedulerInterface, budget *tasks.EditBudget) *Handler {
	return &Handler{
		pageRepo:  pageRepo,
		rewriter:  rewriter,
		scheduler: scheduler,
		budget:    budget,
		startedAt: time.Now(),
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
	}

	if stats, err := h.pageRepo.GetStats(); err == nil {
		health["pages"] = stats.Total
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.pageRepo.GetStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	byStatus := make(map[string]int, len(stats.ByStatus))
	for status, count := range stats.ByStatus {
		byStatus[string(status)] = count
	}

	response := gin.H{
		"total":     stats.Total,
		"by_status": byStatus,
	}
	if h.budget != nil {
		response["edits"] = h.budget.Used()
	}
	c.JSON(http.StatusOK, response)
}

func (h *Handler) APIPreview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	article := source.ArticleTitle(source.TalkTitle(req.Title))
	result, err := h.rewriter.Run(c.Request.Context(), article, req.Text)
	if err != nil {
		var pageErr *history.PageError
		if errors.As(err, &pageErr) && !pageErr.Retryable() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": err.Error(),
				"kind":  pageErr.Kind.String(),
				"param": pageErr.Param,
			})
			return
		}
		slog.Error("Preview failed", "page", req.Title, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	merged := make([]PreviewEntry, 0, len(result.Merged))
	for _, entry := range result.Merged {
		params := make(map[string]string)
		for _, p := range entry.Params() {
			params[p.Suffix] = p.Value
		}
		merged = append(merged, PreviewEntry{Prefix: entry.Prefix(), Params: params})
	}

	c.JSON(http.StatusOK, PreviewResponse{
		Title:   req.Title,
		Changed: result.Changed,
		Text:    result.Text,
		Merged:  merged,
	})
}

func (h *Handler) APIGetPage(c *gin.Context) {
	title, ok := pageTitle(c)
	if !ok {
		return
	}

	page, err := h.pageRepo.GetPage(title)
	if err != nil {
		slog.Error("Database error", "operation", "get_page", "page", title, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if page == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page has not been processed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title":        page.Title,
		"status":       string(page.Status),
		"revision_id":  page.RevisionID,
		"merged":       page.Merged,
		"error":        page.Error,
		"processed_at": page.ProcessedAt.Format(time.RFC3339),
	})
}

func (h *Handler) APIProcessPage(c *gin.Context) {
	title, ok := pageTitle(c)
	if !ok {
		return
	}

	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Scheduler not running"})
		return
	}

	if err := h.scheduler.EnqueuePage(title); err != nil {
		slog.Warn("Failed to enqueue page", "page", title, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "title": title})
}

// pageTitle reads the catch-all title parameter, which may itself contain
// slashes, and maps it to a talk page.
func pageTitle(c *gin.Context) (string, bool) {
	title := strings.TrimPrefix(c.Param("title"), "/")
	if strings.TrimSpace(title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing page title parameter"})
		return "", false
	}
	return source.TalkTitle(title), true
}
