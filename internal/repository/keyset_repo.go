package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/keycaplendar/api/internal/database"
	"github.com/keycaplendar/api/internal/models"
)

// keysetRepo is the concrete implementation of KeysetRepository
type keysetRepo struct {
	db *database.DB
}

// NewKeysetRepo creates a new keyset repository
func NewKeysetRepo(db *database.DB) KeysetRepository {
	return &keysetRepo{db: db}
}

const keysetColumns = `id, alias, profile, colorway, designer, ic_date, details, notes,
	gb_month, gb_launch, gb_end, image, shipped, vendors, sales, latest_editor,
	created_at, updated_at`

// dateColumns maps external dateFilter names onto sortable columns. ISO date
// strings order correctly under text comparison.
var dateColumns = map[string]string{
	"icDate":   "ic_date",
	"gbLaunch": "gb_launch",
	"gbEnd":    "gb_end",
}

// Create inserts a new keyset
func (r *keysetRepo) Create(ctx context.Context, ks *models.Keyset) error {
	designer, vendors, sales := marshalKeysetJSON(ks)

	query := `
		INSERT INTO keysets (` + keysetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		ks.ID, ks.Alias, ks.Profile, ks.Colorway, designer, ks.ICDate, ks.Details, ks.Notes,
		ks.GBMonth, ks.GBLaunch, ks.GBEnd, ks.Image, ks.Shipped, vendors, sales, ks.LatestEditor,
		now, now,
	)
	return err
}

// Update overwrites a keyset row. The logical-delete write goes through here
// too, with every descriptive field stripped.
func (r *keysetRepo) Update(ctx context.Context, ks *models.Keyset) error {
	designer, vendors, sales := marshalKeysetJSON(ks)

	query := `
		UPDATE keysets SET
			profile = $2, colorway = $3, designer = $4, ic_date = $5, details = $6,
			notes = $7, gb_month = $8, gb_launch = $9, gb_end = $10, image = $11,
			shipped = $12, vendors = $13, sales = $14, latest_editor = $15, updated_at = $16
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		ks.ID, ks.Profile, ks.Colorway, designer, ks.ICDate, ks.Details,
		ks.Notes, ks.GBMonth, ks.GBLaunch, ks.GBEnd, ks.Image,
		ks.Shipped, vendors, sales, ks.LatestEditor, time.Now(),
	)
	return err
}

// GetByID retrieves a keyset by ID
func (r *keysetRepo) GetByID(ctx context.Context, id string) (*models.Keyset, error) {
	query := `SELECT ` + keysetColumns + ` FROM keysets WHERE id = $1`

	ks, err := scanKeyset(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ks, nil
}

// GetAll retrieves the full catalog ordered by launch date
func (r *keysetRepo) GetAll(ctx context.Context) ([]models.Keyset, error) {
	query := `SELECT ` + keysetColumns + ` FROM keysets ORDER BY gb_launch, profile, colorway`
	return r.queryKeysets(ctx, query)
}

// GetByDateRange retrieves keysets whose value for the named date field
// falls inside the inclusive bounds. Empty bounds are open; an unknown field
// falls back to the unfiltered collection.
func (r *keysetRepo) GetByDateRange(ctx context.Context, field, lower, upper string) ([]models.Keyset, error) {
	column, ok := dateColumns[field]
	if !ok || (lower == "" && upper == "") {
		return r.GetAll(ctx)
	}

	query := `SELECT ` + keysetColumns + ` FROM keysets WHERE ` + column + ` <> ''`
	args := []interface{}{}
	if lower != "" {
		args = append(args, lower)
		query += ` AND ` + column + ` >= $1`
	}
	if upper != "" {
		args = append(args, upper)
		if len(args) == 2 {
			query += ` AND ` + column + ` <= $2`
		} else {
			query += ` AND ` + column + ` <= $1`
		}
	}
	query += ` ORDER BY ` + column

	return r.queryKeysets(ctx, query, args...)
}

// Delete physically removes a keyset row
func (r *keysetRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM keysets WHERE id = $1", id)
	return err
}

// Count returns the total number of keysets
func (r *keysetRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM keysets").Scan(&count)
	return count, err
}

func (r *keysetRepo) queryKeysets(ctx context.Context, query string, args ...interface{}) ([]models.Keyset, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keysets []models.Keyset
	for rows.Next() {
		ks, err := scanKeyset(rows)
		if err != nil {
			return nil, err
		}
		keysets = append(keysets, *ks)
	}
	return keysets, rows.Err()
}

// scanner covers both sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanKeyset(row scanner) (*models.Keyset, error) {
	var ks models.Keyset
	var designerJSON, vendorsJSON []byte
	var salesJSON sql.NullString
	var shipped sql.NullBool

	err := row.Scan(
		&ks.ID, &ks.Alias, &ks.Profile, &ks.Colorway, &designerJSON, &ks.ICDate, &ks.Details, &ks.Notes,
		&ks.GBMonth, &ks.GBLaunch, &ks.GBEnd, &ks.Image, &shipped, &vendorsJSON, &salesJSON, &ks.LatestEditor,
		&ks.CreatedAt, &ks.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	json.Unmarshal(designerJSON, &ks.Designer)
	json.Unmarshal(vendorsJSON, &ks.Vendors)
	if salesJSON.Valid && salesJSON.String != "" {
		var sales models.Sales
		if json.Unmarshal([]byte(salesJSON.String), &sales) == nil {
			ks.Sales = &sales
		}
	}
	if shipped.Valid {
		ks.Shipped = &shipped.Bool
	}

	return &ks, nil
}

func marshalKeysetJSON(ks *models.Keyset) ([]byte, []byte, interface{}) {
	designer, _ := json.Marshal(ks.Designer)
	if ks.Designer == nil {
		designer = []byte("[]")
	}
	vendors, _ := json.Marshal(ks.Vendors)
	if ks.Vendors == nil {
		vendors = []byte("[]")
	}
	var sales interface{}
	if ks.Sales != nil {
		data, _ := json.Marshal(ks.Sales)
		sales = data
	}
	return designer, vendors, sales
}
