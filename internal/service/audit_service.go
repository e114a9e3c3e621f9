package service

import (
	"context"
	"sort"

	"github.com/keycaplendar/api/internal/audit"
	"github.com/keycaplendar/api/internal/models"
	"github.com/keycaplendar/api/internal/repository"
	"github.com/rs/zerolog"
)

// auditService is the concrete implementation of AuditService
type auditService struct {
	changelog repository.ChangelogRepository
	log       zerolog.Logger
}

// newAuditService creates a new AuditService
func newAuditService(changelog repository.ChangelogRepository, log zerolog.Logger) *auditService {
	return &auditService{
		changelog: changelog,
		log:       log.With().Str("service", "audit").Logger(),
	}
}

// GetPublicAudit returns the most recent changelog entries classified and
// pruned for public display: editor identifiers stripped, unchanged fields
// removed. Results are re-sorted newest first after the fetch.
func (s *auditService) GetPublicAudit(ctx context.Context, limit int) ([]models.PublicAction, error) {
	entries, err := s.changelog.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	actions := make([]models.PublicAction, 0, len(entries))
	for _, entry := range entries {
		// strip before classifying, in case a stored snapshot carried it
		if entry.Before != nil {
			entry.Before.LatestEditor = ""
		}
		if entry.After != nil {
			entry.After.LatestEditor = ""
		}

		diff := audit.Classify(entry.Before, entry.After)
		actions = append(actions, models.PublicAction{
			ID:         entry.ID,
			DocumentID: entry.DocumentID,
			Action:     diff.Action,
			Before:     diff.Before,
			After:      diff.After,
			Timestamp:  entry.Timestamp,
			User:       entry.User,
		})
	}

	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].Timestamp.After(actions[j].Timestamp)
	})
	return actions, nil
}
