package database

import (
	"time"
)

type PageStatus string

const (
	StatusEdited    PageStatus = "edited"
	StatusUnchanged PageStatus = "unchanged"
	StatusDryRun    PageStatus = "dry_run"
	StatusFailed    PageStatus = "failed"
	StatusSkipped   PageStatus = "skipped"
)

// Page is the outcome of the last attempt on a talk page.
type Page struct {
	Title       string
	Status      PageStatus
	RevisionID  int64 // revision created by the edit, 0 if none
	Merged      int   // number of entries folded into the aggregate
	Error       string
	ProcessedAt time.Time
}

type Stats struct {
	Total    int
	ByStatus map[PageStatus]int
}
