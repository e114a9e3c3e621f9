package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/keycaplendar/api/internal/mocks"
	"github.com/keycaplendar/api/internal/models"
)

func TestMockKeysetRepository_DateRange(t *testing.T) {
	repo := mocks.NewMockKeysetRepository()
	ctx := context.Background()

	seed := []*models.Keyset{
		{ID: "ks-1", Profile: "GMK", Colorway: "A", GBLaunch: "2023-12-01"},
		{ID: "ks-2", Profile: "GMK", Colorway: "B", GBLaunch: "2024-01-15"},
		{ID: "ks-3", Profile: "SA", Colorway: "C", GBLaunch: "2024-03-01"},
		{ID: "ks-4", Profile: "KAT", Colorway: "D"},
	}
	for _, ks := range seed {
		if err := repo.Create(ctx, ks); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	// Inclusive bounds; ISO date strings compare lexicographically
	got, err := repo.GetByDateRange(ctx, "gbLaunch", "2024-01-01", "2024-03-01")
	if err != nil {
		t.Fatalf("GetByDateRange failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected 2 keysets in range, got %d", len(got))
	}

	// Keysets without the date never match a bounded range
	for _, ks := range got {
		if ks.ID == "ks-4" {
			t.Error("Dateless keyset should not match a bounded range")
		}
	}

	// Unknown filter falls back to the full collection
	all, err := repo.GetByDateRange(ctx, "bogus", "2024-01-01", "")
	if err != nil {
		t.Fatalf("GetByDateRange fallback failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("Unknown filter should return everything, got %d", len(all))
	}

	// Empty bounds also fall back
	all, _ = repo.GetByDateRange(ctx, "gbLaunch", "", "")
	if len(all) != 4 {
		t.Errorf("Empty bounds should return everything, got %d", len(all))
	}
}

func TestMockKeysetRepository_ReturnsCopies(t *testing.T) {
	repo := mocks.NewMockKeysetRepository()
	ctx := context.Background()

	repo.Create(ctx, &models.Keyset{ID: "ks-1", Profile: "GMK", Colorway: "A"})

	first, _ := repo.GetByID(ctx, "ks-1")
	first.Profile = "mutated"

	second, _ := repo.GetByID(ctx, "ks-1")
	if second.Profile != "GMK" {
		t.Error("Repository reads should not share state with callers")
	}
}

func TestMockUserRepository_ClaimsAndDelete(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	ctx := context.Background()

	repo.Create(ctx, &models.User{ID: "u-1", Email: "u@example.com"})

	if err := repo.UpdateClaims(ctx, "u-1", &models.ClaimsRequest{Editor: true, Nickname: "ed"}); err != nil {
		t.Fatalf("UpdateClaims failed: %v", err)
	}
	user, _ := repo.GetByID(ctx, "u-1")
	if !user.Editor || user.Nickname != "ed" {
		t.Errorf("Claims not applied: %+v", user)
	}

	if err := repo.UpdateClaims(ctx, "missing", &models.ClaimsRequest{}); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows for unknown user, got %v", err)
	}
	if err := repo.Delete(ctx, "missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows for unknown user, got %v", err)
	}
}

func TestMockPresetRepository_UpsertReplacesExisting(t *testing.T) {
	repo := mocks.NewMockPresetRepository()
	ctx := context.Background()

	repo.Upsert(ctx, &models.Preset{ID: "pr-1", Name: "Mine", OwnerEmail: "u@example.com"})
	repo.Upsert(ctx, &models.Preset{ID: "pr-1", Name: "Everyone", Global: true})

	stored, err := repo.GetByID(ctx, "pr-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.Name != "Everyone" || !stored.Global || stored.OwnerEmail != "" {
		t.Errorf("Upsert should replace every column, got %+v", stored)
	}
}

func TestMockPresetRepository_ListForUser(t *testing.T) {
	repo := mocks.NewMockPresetRepository()
	ctx := context.Background()

	repo.Upsert(ctx, &models.Preset{ID: "pr-1", Name: "Mine", OwnerEmail: "u@example.com"})
	repo.Upsert(ctx, &models.Preset{ID: "pr-2", Name: "Theirs", OwnerEmail: "other@example.com"})
	repo.Upsert(ctx, &models.Preset{ID: "pr-3", Name: "Everyone", Global: true})

	presets, err := repo.ListForUser(ctx, "u@example.com")
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(presets) != 2 {
		t.Fatalf("Expected own + global presets, got %d", len(presets))
	}
	for _, p := range presets {
		if p.ID == "pr-2" {
			t.Error("Foreign preset should not be listed")
		}
	}
}
