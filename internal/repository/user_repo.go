package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/keycaplendar/api/internal/database"
	"github.com/keycaplendar/api/internal/models"
)

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, email, display_name, nickname, designer, editor, admin,
	favorites, bought, hidden, date_created, last_signed_in`

// Create inserts a new user
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	favorites, bought, hidden := marshalUserLists(user)

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.DisplayName, user.Nickname,
		user.Designer, user.Editor, user.Admin,
		favorites, bought, hidden, now, now,
	)
	return err
}

// GetByID retrieves a user by ID
func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByEmail retrieves a user by email
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *userRepo) getBy(ctx context.Context, column, value string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, value))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// List retrieves users ordered by signup date, paginated
func (r *userRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY date_created LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// UpdateClaims sets a user's custom claims
func (r *userRepo) UpdateClaims(ctx context.Context, id string, claims *models.ClaimsRequest) error {
	query := `
		UPDATE users SET nickname = $2, designer = $3, editor = $4, admin = $5
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, claims.Nickname, claims.Designer, claims.Editor, claims.Admin)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a user
func (r *userRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count returns the total number of users
func (r *userRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func scanUser(row scanner) (*models.User, error) {
	var user models.User
	var favoritesJSON, boughtJSON, hiddenJSON []byte

	err := row.Scan(
		&user.ID, &user.Email, &user.DisplayName, &user.Nickname,
		&user.Designer, &user.Editor, &user.Admin,
		&favoritesJSON, &boughtJSON, &hiddenJSON,
		&user.DateCreated, &user.LastSignedIn,
	)
	if err != nil {
		return nil, err
	}

	json.Unmarshal(favoritesJSON, &user.Favorites)
	json.Unmarshal(boughtJSON, &user.Bought)
	json.Unmarshal(hiddenJSON, &user.Hidden)

	return &user, nil
}

func marshalUserLists(user *models.User) ([]byte, []byte, []byte) {
	favorites, _ := json.Marshal(user.Favorites)
	if user.Favorites == nil {
		favorites = []byte("[]")
	}
	bought, _ := json.Marshal(user.Bought)
	if user.Bought == nil {
		bought = []byte("[]")
	}
	hidden, _ := json.Marshal(user.Hidden)
	if user.Hidden == nil {
		hidden = []byte("[]")
	}
	return favorites, bought, hidden
}

// apiUserRepo is the concrete implementation of APIUserRepository
type apiUserRepo struct {
	db *database.DB
}

// NewAPIUserRepo creates a new API account repository
func NewAPIUserRepo(db *database.DB) APIUserRepository {
	return &apiUserRepo{db: db}
}

// GetByKey looks up an external API account by its key
func (r *apiUserRepo) GetByKey(ctx context.Context, key string) (*models.APIUser, error) {
	query := `SELECT email, api_key, api_secret, api_access FROM api_users WHERE api_key = $1`

	var account models.APIUser
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&account.Email, &account.APIKey, &account.APISecret, &account.APIAccess,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}
