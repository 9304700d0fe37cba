package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ PageRepository = (*pageRepository)(nil)

type pageRepository struct {
	db *DB
}

func NewPageRepository(db *DB) PageRepository {
	return &pageRepository{db: db}
}

func (r *pageRepository) RecordPage(page Page) error {
	processedAt := page.ProcessedAt
	if processedAt.IsZero() {
		processedAt = time.Now()
	}

	_, err := r.db.Exec(`
		INSERT INTO pages (title, status, revision_id, merged, error, processed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (title) DO UPDATE SET
			status = excluded.status,
			revision_id = excluded.revision_id,
			merged = excluded.merged,
			error = excluded.error,
			processed_at = excluded.processed_at
	`, page.Title, string(page.Status), page.RevisionID, page.Merged, page.Error, processedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to record page: %w", err)
	}
	return nil
}

func (r *pageRepository) GetPage(title string) (*Page, error) {
	var page Page
	var status string
	var processedAt int64
	err := r.db.QueryRow(`
		SELECT title, status, revision_id, merged, error, processed_at
		FROM pages WHERE title = ?
	`, title).Scan(&page.Title, &status, &page.RevisionID, &page.Merged, &page.Error, &processedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	page.Status = PageStatus(status)
	page.ProcessedAt = time.Unix(processedAt, 0)
	return &page, nil
}

func (r *pageRepository) GetStats() (*Stats, error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM pages GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	defer rows.Close()

	stats := &Stats{ByStatus: make(map[PageStatus]int)}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		stats.ByStatus[PageStatus(status)] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stats: %w", err)
	}
	return stats, nil
}
