package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/keycaplendar/api/internal/database"
	"github.com/keycaplendar/api/internal/models"
)

// presetRepo is the concrete implementation of PresetRepository
type presetRepo struct {
	db *database.DB
}

// NewPresetRepo creates a new preset repository
func NewPresetRepo(db *database.DB) PresetRepository {
	return &presetRepo{db: db}
}

// GetByID retrieves a preset by ID
func (r *presetRepo) GetByID(ctx context.Context, id string) (*models.Preset, error) {
	query := `SELECT id, name, owner_email, global, whitelist FROM presets WHERE id = $1`

	preset, err := scanPreset(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return preset, nil
}

// ListForUser retrieves the user's own presets plus the global ones
func (r *presetRepo) ListForUser(ctx context.Context, email string) ([]models.Preset, error) {
	query := `
		SELECT id, name, owner_email, global, whitelist FROM presets
		WHERE owner_email = $1 OR global = TRUE
		ORDER BY global DESC, name
	`
	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presets []models.Preset
	for rows.Next() {
		preset, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, *preset)
	}
	return presets, rows.Err()
}

// Upsert inserts or replaces a preset
func (r *presetRepo) Upsert(ctx context.Context, preset *models.Preset) error {
	whitelist, err := json.Marshal(preset.Whitelist)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO presets (id, name, owner_email, global, whitelist)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET name = $2, owner_email = $3, global = $4, whitelist = $5
	`
	_, err = r.db.ExecContext(ctx, query, preset.ID, preset.Name, preset.OwnerEmail, preset.Global, whitelist)
	return err
}

// Delete removes a preset
func (r *presetRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM presets WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanPreset(row scanner) (*models.Preset, error) {
	var preset models.Preset
	var whitelistJSON []byte

	if err := row.Scan(&preset.ID, &preset.Name, &preset.OwnerEmail, &preset.Global, &whitelistJSON); err != nil {
		return nil, err
	}
	json.Unmarshal(whitelistJSON, &preset.Whitelist)

	return &preset, nil
}
