package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ CheckpointRepository = (*checkpointRepository)(nil)

type checkpointRepository struct {
	db *DB
}

func NewCheckpointRepository(db *DB) CheckpointRepository {
	return &checkpointRepository{db: db}
}

// GetCheckpoint returns "" when no checkpoint has been stored.
func (r *checkpointRepository) GetCheckpoint(name string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM checkpoints WHERE name = ?`, name).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get checkpoint: %w", err)
	}
	return value, nil
}

func (r *checkpointRepository) SetCheckpoint(name, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO checkpoints (name, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, name, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to set checkpoint: %w", err)
	}
	return nil
}
