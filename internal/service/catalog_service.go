package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/keycaplendar/api/internal/cache"
	"github.com/keycaplendar/api/internal/catalog"
	"github.com/keycaplendar/api/internal/models"
	"github.com/keycaplendar/api/internal/repository"
	"github.com/keycaplendar/api/internal/validation"
	"github.com/rs/zerolog"
)

// catalogService is the concrete implementation of CatalogService
type catalogService struct {
	repos    *repository.Repositories
	cache    *cache.KeysetCache
	recorder Recorder
	validate *validation.Validator
	log      zerolog.Logger
}

// newCatalogService creates a new CatalogService
func newCatalogService(repos *repository.Repositories, keysetCache *cache.KeysetCache, recorder Recorder, validate *validation.Validator, log zerolog.Logger) *catalogService {
	return &catalogService{
		repos:    repos,
		cache:    keysetCache,
		recorder: recorder,
		validate: validate,
		log:      log.With().Str("service", "catalog").Logger(),
	}
}

// GetAll returns the catalog, optionally narrowed to an inclusive date
// range on one of the date fields. Unknown filters fall back to the full
// collection. Editor identifiers are stripped.
func (s *catalogService) GetAll(ctx context.Context, dateFilter, lower, upper string) ([]models.Keyset, error) {
	keysets, err := s.repos.Keyset.GetByDateRange(ctx, dateFilter, lower, upper)
	if err != nil {
		return nil, err
	}
	return stripEditors(keysets), nil
}

// GetByPage returns the keysets belonging on a page view, whitelist applied
func (s *catalogService) GetByPage(ctx context.Context, page catalog.Page, wl models.Whitelist, today time.Time) ([]models.Keyset, error) {
	keysets, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	onPage := make([]models.Keyset, 0, len(keysets))
	for i := range keysets {
		if keysets[i].Profile == "" {
			// logical-delete marker awaiting physical removal
			continue
		}
		if catalog.OnPage(&keysets[i], page, today) {
			onPage = append(onPage, keysets[i])
		}
	}

	filtered := catalog.ApplyWhitelist(onPage, wl, page, nil, nil, nil)
	return stripEditors(filtered), nil
}

// GetByPageGrouped returns a page view partitioned into ordered groups
func (s *catalogService) GetByPageGrouped(ctx context.Context, page catalog.Page, groupBy catalog.GroupBy, wl models.Whitelist, today time.Time) ([]catalog.Group, error) {
	keysets, err := s.GetByPage(ctx, page, wl, today)
	if err != nil {
		return nil, err
	}
	return catalog.GroupAndSort(keysets, groupBy, page), nil
}

// GetByID retrieves a single keyset, editor identifier stripped
func (s *catalogService) GetByID(ctx context.Context, id string) (*models.Keyset, error) {
	ks, err := s.repos.Keyset.GetByID(ctx, id)
	if err != nil || ks == nil {
		return nil, err
	}
	return ks.Public(), nil
}

// Create adds a keyset to the catalog and queues the audit record
func (s *catalogService) Create(ctx context.Context, req *models.KeysetRequest, editor *models.User) (*models.Keyset, error) {
	if !editor.Editor && !editor.Admin {
		return nil, NewError(KindPermissionDenied, "only editors may create keysets")
	}
	if errs := s.validate.ValidateKeyset(req); len(errs) > 0 {
		return nil, NewError(KindInvalidArgument, fieldErrorMessage(errs))
	}

	ks := keysetFromRequest(req)
	ks.ID = uuid.NewString()
	ks.Alias = newAlias()
	ks.LatestEditor = editor.ID

	if err := s.repos.Keyset.Create(ctx, ks); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	s.recorder.Enqueue(nil, ks, editor.ID)

	s.log.Info().Str("id", ks.ID).Str("title", ks.Title()).Msg("Keyset created")
	return ks.Public(), nil
}

// Update overwrites a keyset's descriptive fields and queues the audit
// record. Designers without the editor claim may only touch sets that list
// them.
func (s *catalogService) Update(ctx context.Context, id string, req *models.KeysetRequest, editor *models.User) (*models.Keyset, error) {
	before, err := s.repos.Keyset.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, NewError(KindNotFound, "keyset not found")
	}
	if err := canEdit(before, editor); err != nil {
		return nil, err
	}
	if errs := s.validate.ValidateKeyset(req); len(errs) > 0 {
		return nil, NewError(KindInvalidArgument, fieldErrorMessage(errs))
	}

	after := keysetFromRequest(req)
	after.ID = before.ID
	after.Alias = before.Alias
	after.LatestEditor = editor.ID

	if err := s.repos.Keyset.Update(ctx, after); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	s.recorder.Enqueue(before, after, editor.ID)

	s.log.Info().Str("id", id).Msg("Keyset updated")
	return after.Public(), nil
}

// Delete is logical: the row is overwritten down to its marker form, and
// the audit recorder issues the physical delete once it observes the
// stripped snapshot
func (s *catalogService) Delete(ctx context.Context, id string, editor *models.User) error {
	if !editor.Editor && !editor.Admin {
		return NewError(KindPermissionDenied, "only editors may delete keysets")
	}

	before, err := s.repos.Keyset.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if before == nil {
		return NewError(KindNotFound, "keyset not found")
	}

	marker := &models.Keyset{
		ID:           before.ID,
		Alias:        before.Alias,
		LatestEditor: editor.ID,
	}
	if err := s.repos.Keyset.Update(ctx, marker); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	s.recorder.Enqueue(before, marker, editor.ID)

	s.log.Info().Str("id", id).Msg("Keyset logically deleted")
	return nil
}

// GetCount returns the row count for a resource
func (s *catalogService) GetCount(ctx context.Context, resource string) (int, error) {
	switch resource {
	case "keysets":
		return s.repos.Keyset.Count(ctx)
	case "changelog":
		return s.repos.Changelog.Count(ctx)
	case "users":
		return s.repos.User.Count(ctx)
	default:
		return 0, fmt.Errorf("unknown resource: %s", resource)
	}
}

// loadAll reads the collection through the cache
func (s *catalogService) loadAll(ctx context.Context) ([]models.Keyset, error) {
	if keysets, ok := s.cache.Get(ctx); ok {
		return keysets, nil
	}
	keysets, err := s.repos.Keyset.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, keysets)
	return keysets, nil
}

// canEdit enforces write permissions on an existing keyset
func canEdit(ks *models.Keyset, editor *models.User) error {
	if editor.Editor || editor.Admin {
		return nil
	}
	if editor.Designer {
		for _, d := range ks.Designer {
			if strings.EqualFold(d, editor.Nickname) {
				return nil
			}
		}
		return NewError(KindPermissionDenied, "designers may only edit sets that list them")
	}
	return NewError(KindPermissionDenied, "editing requires the editor claim")
}

func keysetFromRequest(req *models.KeysetRequest) *models.Keyset {
	return &models.Keyset{
		Profile:  req.Profile,
		Colorway: req.Colorway,
		Designer: req.Designer,
		ICDate:   req.ICDate,
		Details:  req.Details,
		Notes:    req.Notes,
		GBMonth:  req.GBMonth,
		GBLaunch: req.GBLaunch,
		GBEnd:    req.GBEnd,
		Image:    req.Image,
		Shipped:  req.Shipped,
		Vendors:  req.Vendors,
		Sales:    req.Sales,
	}
}

// newAlias generates the short public alias assigned once at creation
func newAlias() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

func stripEditors(keysets []models.Keyset) []models.Keyset {
	out := make([]models.Keyset, len(keysets))
	for i := range keysets {
		out[i] = *keysets[i].Public()
	}
	return out
}

func fieldErrorMessage(errs []validation.FieldError) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fe.Field+" "+fe.Message)
	}
	return strings.Join(parts, "; ")
}
