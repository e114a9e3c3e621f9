package mocks

import (
	"context"
	"time"

	"github.com/keycaplendar/api/internal/catalog"
	"github.com/keycaplendar/api/internal/models"
	"github.com/keycaplendar/api/internal/service"
)

// MockCatalogService is a mock implementation of CatalogService
type MockCatalogService struct {
	GetAllFunc           func(ctx context.Context, dateFilter, lower, upper string) ([]models.Keyset, error)
	GetByPageFunc        func(ctx context.Context, page catalog.Page, wl models.Whitelist, today time.Time) ([]models.Keyset, error)
	GetByPageGroupedFunc func(ctx context.Context, page catalog.Page, groupBy catalog.GroupBy, wl models.Whitelist, today time.Time) ([]catalog.Group, error)
	GetByIDFunc          func(ctx context.Context, id string) (*models.Keyset, error)
	CreateFunc           func(ctx context.Context, req *models.KeysetRequest, editor *models.User) (*models.Keyset, error)
	UpdateFunc           func(ctx context.Context, id string, req *models.KeysetRequest, editor *models.User) (*models.Keyset, error)
	DeleteFunc           func(ctx context.Context, id string, editor *models.User) error
	GetCountFunc         func(ctx context.Context, resource string) (int, error)
}

// Verify interface compliance
var _ service.CatalogService = (*MockCatalogService)(nil)

func (m *MockCatalogService) GetAll(ctx context.Context, dateFilter, lower, upper string) ([]models.Keyset, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx, dateFilter, lower, upper)
	}
	return nil, nil
}

func (m *MockCatalogService) GetByPage(ctx context.Context, page catalog.Page, wl models.Whitelist, today time.Time) ([]models.Keyset, error) {
	if m.GetByPageFunc != nil {
		return m.GetByPageFunc(ctx, page, wl, today)
	}
	return nil, nil
}

func (m *MockCatalogService) GetByPageGrouped(ctx context.Context, page catalog.Page, groupBy catalog.GroupBy, wl models.Whitelist, today time.Time) ([]catalog.Group, error) {
	if m.GetByPageGroupedFunc != nil {
		return m.GetByPageGroupedFunc(ctx, page, groupBy, wl, today)
	}
	return nil, nil
}

func (m *MockCatalogService) GetByID(ctx context.Context, id string) (*models.Keyset, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCatalogService) Create(ctx context.Context, req *models.KeysetRequest, editor *models.User) (*models.Keyset, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req, editor)
	}
	return nil, nil
}

func (m *MockCatalogService) Update(ctx context.Context, id string, req *models.KeysetRequest, editor *models.User) (*models.Keyset, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, req, editor)
	}
	return nil, nil
}

func (m *MockCatalogService) Delete(ctx context.Context, id string, editor *models.User) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, editor)
	}
	return nil
}

func (m *MockCatalogService) GetCount(ctx context.Context, resource string) (int, error) {
	if m.GetCountFunc != nil {
		return m.GetCountFunc(ctx, resource)
	}
	return 0, nil
}

// MockAuditService is a mock implementation of AuditService
type MockAuditService struct {
	GetPublicAuditFunc func(ctx context.Context, limit int) ([]models.PublicAction, error)
}

// Verify interface compliance
var _ service.AuditService = (*MockAuditService)(nil)

func (m *MockAuditService) GetPublicAudit(ctx context.Context, limit int) ([]models.PublicAction, error) {
	if m.GetPublicAuditFunc != nil {
		return m.GetPublicAuditFunc(ctx, limit)
	}
	return nil, nil
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	IssueTokenFunc func(ctx context.Context, key, secret string) (string, error)
}

// Verify interface compliance
var _ service.AuthService = (*MockAuthService)(nil)

func (m *MockAuthService) IssueToken(ctx context.Context, key, secret string) (string, error) {
	if m.IssueTokenFunc != nil {
		return m.IssueTokenFunc(ctx, key, secret)
	}
	return "", service.ErrUnauthorized
}

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	GetByEmailFunc   func(ctx context.Context, email string) (*models.User, error)
	ListFunc         func(ctx context.Context, limit, offset int) ([]models.User, int, error)
	SetClaimsFunc    func(ctx context.Context, id string, claims *models.ClaimsRequest, actor *models.User) (*models.User, error)
	DeleteFunc       func(ctx context.Context, id string, actor *models.User) error
	ListPresetsFunc  func(ctx context.Context, email string) ([]models.Preset, error)
	SavePresetFunc   func(ctx context.Context, req *models.PresetRequest, actor *models.User) (*models.Preset, error)
	DeletePresetFunc func(ctx context.Context, id string, actor *models.User) error
}

// Verify interface compliance
var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserService) List(ctx context.Context, limit, offset int) ([]models.User, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return nil, 0, nil
}

func (m *MockUserService) SetClaims(ctx context.Context, id string, claims *models.ClaimsRequest, actor *models.User) (*models.User, error) {
	if m.SetClaimsFunc != nil {
		return m.SetClaimsFunc(ctx, id, claims, actor)
	}
	return nil, nil
}

func (m *MockUserService) Delete(ctx context.Context, id string, actor *models.User) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, actor)
	}
	return nil
}

func (m *MockUserService) ListPresets(ctx context.Context, email string) ([]models.Preset, error) {
	if m.ListPresetsFunc != nil {
		return m.ListPresetsFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserService) SavePreset(ctx context.Context, req *models.PresetRequest, actor *models.User) (*models.Preset, error) {
	if m.SavePresetFunc != nil {
		return m.SavePresetFunc(ctx, req, actor)
	}
	return nil, nil
}

func (m *MockUserService) DeletePreset(ctx context.Context, id string, actor *models.User) error {
	if m.DeletePresetFunc != nil {
		return m.DeletePresetFunc(ctx, id, actor)
	}
	return nil
}
