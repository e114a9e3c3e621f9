package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/keycaplendar/api/internal/models"
	"github.com/keycaplendar/api/internal/repository"
)

// MockKeysetRepository is a mock implementation of KeysetRepository
type MockKeysetRepository struct {
	Keysets     map[string]*models.Keyset
	WriteError  error
	DeleteCalls []string
}

// Verify interface compliance
var _ repository.KeysetRepository = (*MockKeysetRepository)(nil)

func NewMockKeysetRepository() *MockKeysetRepository {
	return &MockKeysetRepository{
		Keysets: make(map[string]*models.Keyset),
	}
}

func (m *MockKeysetRepository) Create(ctx context.Context, ks *models.Keyset) error {
	if m.WriteError != nil {
		return m.WriteError
	}
	copied := *ks
	m.Keysets[ks.ID] = &copied
	return nil
}

func (m *MockKeysetRepository) Update(ctx context.Context, ks *models.Keyset) error {
	return m.Create(ctx, ks)
}

func (m *MockKeysetRepository) GetByID(ctx context.Context, id string) (*models.Keyset, error) {
	ks, ok := m.Keysets[id]
	if !ok {
		return nil, nil
	}
	copied := *ks
	return &copied, nil
}

func (m *MockKeysetRepository) GetAll(ctx context.Context) ([]models.Keyset, error) {
	ids := make([]string, 0, len(m.Keysets))
	for id := range m.Keysets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	keysets := make([]models.Keyset, 0, len(ids))
	for _, id := range ids {
		keysets = append(keysets, *m.Keysets[id])
	}
	return keysets, nil
}

func (m *MockKeysetRepository) GetByDateRange(ctx context.Context, field, lower, upper string) ([]models.Keyset, error) {
	all, _ := m.GetAll(ctx)
	var value func(*models.Keyset) string
	switch field {
	case "icDate":
		value = func(ks *models.Keyset) string { return ks.ICDate }
	case "gbLaunch":
		value = func(ks *models.Keyset) string { return ks.GBLaunch }
	case "gbEnd":
		value = func(ks *models.Keyset) string { return ks.GBEnd }
	default:
		return all, nil
	}
	if lower == "" && upper == "" {
		return all, nil
	}

	out := make([]models.Keyset, 0, len(all))
	for _, ks := range all {
		v := value(&ks)
		if v == "" {
			continue
		}
		if lower != "" && v < lower {
			continue
		}
		if upper != "" && v > upper {
			continue
		}
		out = append(out, ks)
	}
	return out, nil
}

func (m *MockKeysetRepository) Delete(ctx context.Context, id string) error {
	if m.WriteError != nil {
		return m.WriteError
	}
	m.DeleteCalls = append(m.DeleteCalls, id)
	delete(m.Keysets, id)
	return nil
}

func (m *MockKeysetRepository) Count(ctx context.Context) (int, error) {
	return len(m.Keysets), nil
}

// MockChangelogRepository is a mock implementation of ChangelogRepository
type MockChangelogRepository struct {
	Entries     []models.ChangelogEntry
	InsertError error
	InsertFunc  func(ctx context.Context, entry *models.ChangelogEntry) error
}

// Verify interface compliance
var _ repository.ChangelogRepository = (*MockChangelogRepository)(nil)

func NewMockChangelogRepository() *MockChangelogRepository {
	return &MockChangelogRepository{}
}

func (m *MockChangelogRepository) Insert(ctx context.Context, entry *models.ChangelogEntry) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, entry)
	}
	if m.InsertError != nil {
		return m.InsertError
	}
	m.Entries = append(m.Entries, *entry)
	return nil
}

func (m *MockChangelogRepository) ListRecent(ctx context.Context, limit int) ([]models.ChangelogEntry, error) {
	entries := make([]models.ChangelogEntry, len(m.Entries))
	copy(entries, m.Entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *MockChangelogRepository) Count(ctx context.Context) (int, error) {
	return len(m.Entries), nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	Users map[string]*models.User
}

// Verify interface compliance
var _ repository.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*models.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	copied := *user
	m.Users[user.ID] = &copied
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := m.Users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range m.Users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	ids := make([]string, 0, len(m.Users))
	for id := range m.Users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, *m.Users[id])
	}
	if offset >= len(users) {
		return nil, nil
	}
	users = users[offset:]
	if limit > 0 && limit < len(users) {
		users = users[:limit]
	}
	return users, nil
}

func (m *MockUserRepository) UpdateClaims(ctx context.Context, id string, claims *models.ClaimsRequest) error {
	user, ok := m.Users[id]
	if !ok {
		return sql.ErrNoRows
	}
	user.Nickname = claims.Nickname
	user.Designer = claims.Designer
	user.Editor = claims.Editor
	user.Admin = claims.Admin
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.Users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.Users, id)
	return nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	return len(m.Users), nil
}

// MockAPIUserRepository is a mock implementation of APIUserRepository
type MockAPIUserRepository struct {
	Accounts map[string]*models.APIUser
}

// Verify interface compliance
var _ repository.APIUserRepository = (*MockAPIUserRepository)(nil)

func NewMockAPIUserRepository() *MockAPIUserRepository {
	return &MockAPIUserRepository{
		Accounts: make(map[string]*models.APIUser),
	}
}

func (m *MockAPIUserRepository) GetByKey(ctx context.Context, key string) (*models.APIUser, error) {
	account, ok := m.Accounts[key]
	if !ok {
		return nil, nil
	}
	copied := *account
	return &copied, nil
}

// MockPresetRepository is a mock implementation of PresetRepository
type MockPresetRepository struct {
	Presets map[string]*models.Preset
}

// Verify interface compliance
var _ repository.PresetRepository = (*MockPresetRepository)(nil)

func NewMockPresetRepository() *MockPresetRepository {
	return &MockPresetRepository{
		Presets: make(map[string]*models.Preset),
	}
}

func (m *MockPresetRepository) GetByID(ctx context.Context, id string) (*models.Preset, error) {
	preset, ok := m.Presets[id]
	if !ok {
		return nil, nil
	}
	copied := *preset
	return &copied, nil
}

func (m *MockPresetRepository) ListForUser(ctx context.Context, email string) ([]models.Preset, error) {
	ids := make([]string, 0, len(m.Presets))
	for id := range m.Presets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var presets []models.Preset
	for _, id := range ids {
		if p := m.Presets[id]; p.Global || p.OwnerEmail == email {
			presets = append(presets, *p)
		}
	}
	return presets, nil
}

func (m *MockPresetRepository) Upsert(ctx context.Context, preset *models.Preset) error {
	copied := *preset
	m.Presets[preset.ID] = &copied
	return nil
}

func (m *MockPresetRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.Presets[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.Presets, id)
	return nil
}
