package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/keycaplendar/api/internal/models"
	"github.com/keycaplendar/api/internal/repository"
	"github.com/keycaplendar/api/internal/validation"
	"github.com/rs/zerolog"
)

// userService is the concrete implementation of UserService
type userService struct {
	repos    *repository.Repositories
	validate *validation.Validator
	log      zerolog.Logger
}

// newUserService creates a new UserService
func newUserService(repos *repository.Repositories, validate *validation.Validator, log zerolog.Logger) *userService {
	return &userService{
		repos:    repos,
		validate: validate,
		log:      log.With().Str("service", "user").Logger(),
	}
}

// GetByEmail resolves a user from a verified token's email
func (s *userService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repos.User.GetByEmail(ctx, email)
}

// List returns a page of users plus the total count
func (s *userService) List(ctx context.Context, limit, offset int) ([]models.User, int, error) {
	users, err := s.repos.User.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.User.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// SetClaims changes a user's custom claims; admin only
func (s *userService) SetClaims(ctx context.Context, id string, claims *models.ClaimsRequest, actor *models.User) (*models.User, error) {
	if !actor.Admin {
		return nil, NewError(KindPermissionDenied, "changing claims requires the admin claim")
	}
	if id == "" {
		return nil, NewError(KindInvalidArgument, "user id is required")
	}

	if err := s.repos.User.UpdateClaims(ctx, id, claims); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewError(KindNotFound, "user not found")
		}
		return nil, err
	}

	s.log.Info().
		Str("user_id", id).
		Str("actor", actor.Email).
		Bool("designer", claims.Designer).
		Bool("editor", claims.Editor).
		Bool("admin", claims.Admin).
		Msg("User claims updated")
	return s.repos.User.GetByID(ctx, id)
}

// Delete removes a user; admin only, and admins cannot be deleted without
// first having the claim revoked
func (s *userService) Delete(ctx context.Context, id string, actor *models.User) error {
	if !actor.Admin {
		return NewError(KindPermissionDenied, "deleting users requires the admin claim")
	}

	target, err := s.repos.User.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if target == nil {
		return NewError(KindNotFound, "user not found")
	}
	if target.Admin {
		return NewError(KindPermissionDenied, "cannot delete a user with the admin claim")
	}

	if err := s.repos.User.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewError(KindNotFound, "user not found")
		}
		return err
	}

	s.log.Info().Str("user_id", id).Str("actor", actor.Email).Msg("User deleted")
	return nil
}

// ListPresets returns the user's saved presets plus the global ones
func (s *userService) ListPresets(ctx context.Context, email string) ([]models.Preset, error) {
	return s.repos.Preset.ListForUser(ctx, email)
}

// SavePreset creates or updates a whitelist preset. Global presets are
// admin only; user presets belong to the caller.
func (s *userService) SavePreset(ctx context.Context, req *models.PresetRequest, actor *models.User) (*models.Preset, error) {
	if errs := s.validate.ValidatePreset(req); len(errs) > 0 {
		return nil, NewError(KindInvalidArgument, fieldErrorMessage(errs))
	}
	if req.Global && !actor.Admin {
		return nil, NewError(KindPermissionDenied, "global presets require the admin claim")
	}

	preset := &models.Preset{
		ID:        req.ID,
		Name:      req.Name,
		Global:    req.Global,
		Whitelist: req.Whitelist,
	}
	if !req.Global {
		preset.OwnerEmail = actor.Email
	}
	if preset.ID == "" {
		preset.ID = uuid.NewString()
	} else if err := s.checkPresetAccess(ctx, preset.ID, actor); err != nil {
		return nil, err
	}

	if err := s.repos.Preset.Upsert(ctx, preset); err != nil {
		return nil, err
	}
	return preset, nil
}

// DeletePreset removes a preset the caller is allowed to manage
func (s *userService) DeletePreset(ctx context.Context, id string, actor *models.User) error {
	if err := s.checkPresetAccess(ctx, id, actor); err != nil {
		return err
	}
	if err := s.repos.Preset.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewError(KindNotFound, "preset not found")
		}
		return err
	}
	return nil
}

func (s *userService) checkPresetAccess(ctx context.Context, id string, actor *models.User) error {
	existing, err := s.repos.Preset.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return NewError(KindNotFound, "preset not found")
	}
	if existing.Global {
		if !actor.Admin {
			return NewError(KindPermissionDenied, "global presets require the admin claim")
		}
		return nil
	}
	if existing.OwnerEmail != actor.Email && !actor.Admin {
		return NewError(KindPermissionDenied, "presets may only be changed by their owner")
	}
	return nil
}
