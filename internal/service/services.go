package service

import (
	"context"
	"time"

	"github.com/keycaplendar/api/internal/auth"
	"github.com/keycaplendar/api/internal/cache"
	"github.com/keycaplendar/api/internal/catalog"
	"github.com/keycaplendar/api/internal/models"
	"github.com/keycaplendar/api/internal/repository"
	"github.com/keycaplendar/api/internal/validation"
	"github.com/rs/zerolog"
)

// CatalogService defines the interface for catalog reads and writes
type CatalogService interface {
	GetAll(ctx context.Context, dateFilter, lower, upper string) ([]models.Keyset, error)
	GetByPage(ctx context.Context, page catalog.Page, wl models.Whitelist, today time.Time) ([]models.Keyset, error)
	GetByPageGrouped(ctx context.Context, page catalog.Page, groupBy catalog.GroupBy, wl models.Whitelist, today time.Time) ([]catalog.Group, error)
	GetByID(ctx context.Context, id string) (*models.Keyset, error)
	Create(ctx context.Context, req *models.KeysetRequest, editor *models.User) (*models.Keyset, error)
	Update(ctx context.Context, id string, req *models.KeysetRequest, editor *models.User) (*models.Keyset, error)
	Delete(ctx context.Context, id string, editor *models.User) error
	GetCount(ctx context.Context, resource string) (int, error)
}

// AuditService defines the interface for public audit reads
type AuditService interface {
	GetPublicAudit(ctx context.Context, limit int) ([]models.PublicAction, error)
}

// AuthService defines the interface for exchanging API credentials for
// bearer tokens
type AuthService interface {
	IssueToken(ctx context.Context, key, secret string) (string, error)
}

// UserService defines the interface for user lookup, role administration
// and preset management
type UserService interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, int, error)
	SetClaims(ctx context.Context, id string, claims *models.ClaimsRequest, actor *models.User) (*models.User, error)
	Delete(ctx context.Context, id string, actor *models.User) error
	ListPresets(ctx context.Context, email string) ([]models.Preset, error)
	SavePreset(ctx context.Context, req *models.PresetRequest, actor *models.User) (*models.Preset, error)
	DeletePreset(ctx context.Context, id string, actor *models.User) error
}

// Recorder receives catalog write events for asynchronous audit recording
type Recorder interface {
	Enqueue(before, after *models.Keyset, editorID string)
}

// Services holds all service interfaces plus the audit recorder, whose
// processor the caller starts and stops
type Services struct {
	Catalog CatalogService
	Audit   AuditService
	Auth    AuthService
	User    UserService

	Recorder *AuditRecorder
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, keysetCache *cache.KeysetCache, tokens *auth.Manager, log zerolog.Logger) *Services {
	recorder := NewAuditRecorder(repos, keysetCache, log)
	validate := validation.New()

	return &Services{
		Catalog:  newCatalogService(repos, keysetCache, recorder, validate, log),
		Audit:    newAuditService(repos.Changelog, log),
		Auth:     newAuthService(repos.APIUser, tokens, log),
		User:     newUserService(repos, validate, log),
		Recorder: recorder,
	}
}
