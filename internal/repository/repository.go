package repository

import (
	"context"

	"github.com/keycaplendar/api/internal/database"
	"github.com/keycaplendar/api/internal/models"
)

// KeysetRepository defines the interface for catalog data operations
type KeysetRepository interface {
	Create(ctx context.Context, ks *models.Keyset) error
	Update(ctx context.Context, ks *models.Keyset) error
	GetByID(ctx context.Context, id string) (*models.Keyset, error)
	GetAll(ctx context.Context) ([]models.Keyset, error)
	GetByDateRange(ctx context.Context, field, lower, upper string) ([]models.Keyset, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// ChangelogRepository defines the interface for the append-only audit trail
type ChangelogRepository interface {
	Insert(ctx context.Context, entry *models.ChangelogEntry) error
	ListRecent(ctx context.Context, limit int) ([]models.ChangelogEntry, error)
	Count(ctx context.Context) (int, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	UpdateClaims(ctx context.Context, id string, claims *models.ClaimsRequest) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// APIUserRepository defines the interface for external API accounts
type APIUserRepository interface {
	GetByKey(ctx context.Context, key string) (*models.APIUser, error)
}

// PresetRepository defines the interface for saved whitelist presets
type PresetRepository interface {
	GetByID(ctx context.Context, id string) (*models.Preset, error)
	ListForUser(ctx context.Context, email string) ([]models.Preset, error)
	Upsert(ctx context.Context, preset *models.Preset) error
	Delete(ctx context.Context, id string) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Keyset    KeysetRepository
	Changelog ChangelogRepository
	User      UserRepository
	APIUser   APIUserRepository
	Preset    PresetRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Keyset:    NewKeysetRepo(db),
		Changelog: NewChangelogRepo(db),
		User:      NewUserRepo(db),
		APIUser:   NewAPIUserRepo(db),
		Preset:    NewPresetRepo(db),
	}
}
