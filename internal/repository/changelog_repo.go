package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/keycaplendar/api/internal/database"
	"github.com/keycaplendar/api/internal/models"
)

// changelogRepo is the concrete implementation of ChangelogRepository.
// The table is append-only: there is no update or delete.
type changelogRepo struct {
	db *database.DB
}

// NewChangelogRepo creates a new changelog repository
func NewChangelogRepo(db *database.DB) ChangelogRepository {
	return &changelogRepo{db: db}
}

// Insert appends one audit record with unpruned snapshots
func (r *changelogRepo) Insert(ctx context.Context, entry *models.ChangelogEntry) error {
	var before, after interface{}
	if entry.Before != nil {
		data, err := json.Marshal(entry.Before)
		if err != nil {
			return err
		}
		before = data
	}
	if entry.After != nil {
		data, err := json.Marshal(entry.After)
		if err != nil {
			return err
		}
		after = data
	}

	query := `
		INSERT INTO changelog (id, document_id, before, after, user_display_name, user_email, user_nickname, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.DocumentID, before, after,
		entry.User.DisplayName, entry.User.Email, entry.User.Nickname,
		time.Now(),
	)
	return err
}

// ListRecent returns the most recent entries, newest first
func (r *changelogRepo) ListRecent(ctx context.Context, limit int) ([]models.ChangelogEntry, error) {
	query := `
		SELECT id, document_id, before, after, user_display_name, user_email, user_nickname, created_at
		FROM changelog ORDER BY created_at DESC LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ChangelogEntry
	for rows.Next() {
		var entry models.ChangelogEntry
		var beforeJSON, afterJSON []byte

		err := rows.Scan(
			&entry.ID, &entry.DocumentID, &beforeJSON, &afterJSON,
			&entry.User.DisplayName, &entry.User.Email, &entry.User.Nickname,
			&entry.Timestamp,
		)
		if err != nil {
			return nil, err
		}

		if len(beforeJSON) > 0 {
			var before models.Keyset
			if json.Unmarshal(beforeJSON, &before) == nil {
				entry.Before = &before
			}
		}
		if len(afterJSON) > 0 {
			var after models.Keyset
			if json.Unmarshal(afterJSON, &after) == nil {
				entry.After = &after
			}
		}

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Count returns the total number of audit records
func (r *changelogRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM changelog").Scan(&count)
	return count, err
}
