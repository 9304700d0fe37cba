package api

import (
	"time"

	"github.com/enterprisey/article-history/app/database"
	"github.com/enterprisey/article-history/app/history"
	"github.com/enterprisey/article-history/app/tasks"
)

type Handler struct {
	pageRepo  database.PageRepository
	rewriter  *history.Rewriter
	scheduler tasks.TaskSchedulerInterface
	budget    *tasks.EditBudget
	startedAt time.Time
}

type PreviewRequest struct {
	Title string `json:"title" binding:"required"`
	Text  string `json:"text" binding:"required"`
}

type PreviewEntry struct {
	Prefix string            `json:"prefix"`
	Params map[string]string `json:"params"`
}

type PreviewResponse struct {
	Title   string         `json:"title"`
	Changed bool           `json:"changed"`
	Text    string         `json:"text"`
	Merged  []PreviewEntry `json:"merged"`
}
