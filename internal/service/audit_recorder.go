package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/keycaplendar/api/internal/cache"
	"github.com/keycaplendar/api/internal/models"
	"github.com/keycaplendar/api/internal/repository"
	"github.com/rs/zerolog"
)

// WriteEvent is one catalog write awaiting audit recording
type WriteEvent struct {
	Before   *models.Keyset
	After    *models.Keyset
	EditorID string
}

// AuditRecorder appends a changelog entry for every catalog write,
// decoupled from the write path: a failed audit write never blocks or rolls
// back the data write, and failures are logged, not retried. When it
// observes a logical-delete marker it also issues the physical delete of
// the keyset row, fire-and-forget.
type AuditRecorder struct {
	changelog repository.ChangelogRepository
	keysets   repository.KeysetRepository
	users     repository.UserRepository
	cache     *cache.KeysetCache
	log       zerolog.Logger

	events  chan WriteEvent
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewAuditRecorder creates an audit recorder
func NewAuditRecorder(repos *repository.Repositories, keysetCache *cache.KeysetCache, log zerolog.Logger) *AuditRecorder {
	return &AuditRecorder{
		changelog: repos.Changelog,
		keysets:   repos.Keyset,
		users:     repos.User,
		cache:     keysetCache,
		log:       log.With().Str("service", "audit_recorder").Logger(),
		events:    make(chan WriteEvent, 256),
	}
}

// Enqueue hands a write event to the background processor. A full queue
// drops the event with an error log rather than blocking the write path;
// lost or duplicated entries are an accepted risk of the decoupling.
func (r *AuditRecorder) Enqueue(before, after *models.Keyset, editorID string) {
	select {
	case r.events <- WriteEvent{Before: before, After: after, EditorID: editorID}:
	default:
		r.log.Error().Str("editor_id", editorID).Msg("Audit queue full, dropping changelog entry")
	}
}

// StartProcessor starts the background audit processor
func (r *AuditRecorder) StartProcessor(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.mu.Unlock()

	r.log.Info().Msg("Audit processor started")

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-r.ctx.Done():
				// drain what was already queued before shutting down
				for {
					select {
					case ev := <-r.events:
						r.Record(context.Background(), ev)
					default:
						return
					}
				}
			case ev := <-r.events:
				// detached from the processor context so a record in
				// flight survives shutdown, like drained events do
				r.Record(context.Background(), ev)
			}
		}
	}()
}

// StopProcessor stops the background audit processor
func (r *AuditRecorder) StopProcessor() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	r.cancel()
	r.wg.Wait()
	r.running = false
	r.log.Info().Msg("Audit processor stopped")
}

// Record writes the changelog entry for one event. A write with no recorded
// editor produces no entry: audit completeness is sacrificed rather than
// blocking or failing the data write.
func (r *AuditRecorder) Record(ctx context.Context, ev WriteEvent) {
	if ev.EditorID == "" {
		r.log.Error().Msg("Keyset write with no recorded editor, skipping changelog entry")
		return
	}

	var info models.UserInfo
	editor, err := r.users.GetByID(ctx, ev.EditorID)
	if err != nil || editor == nil {
		r.log.Warn().Err(err).Str("editor_id", ev.EditorID).Msg("Could not resolve editor for changelog entry")
	} else {
		info = editor.Info()
	}

	entry := &models.ChangelogEntry{
		ID:         uuid.NewString(),
		DocumentID: documentID(ev),
		Before:     ev.Before,
		After:      ev.After,
		User:       info,
	}
	if err := r.changelog.Insert(ctx, entry); err != nil {
		r.log.Error().Err(err).Str("document_id", entry.DocumentID).Msg("Failed to write changelog entry")
	}

	if ev.After != nil && ev.After.IsDeleteMarker() {
		if err := r.keysets.Delete(ctx, ev.After.ID); err != nil {
			r.log.Error().Err(err).Str("id", ev.After.ID).Msg("Physical delete after logical delete failed")
			return
		}
		r.cache.Invalidate(ctx)
		r.log.Info().Str("id", ev.After.ID).Msg("Keyset physically deleted")
	}
}

func documentID(ev WriteEvent) string {
	if ev.After != nil && ev.After.ID != "" {
		return ev.After.ID
	}
	if ev.Before != nil {
		return ev.Before.ID
	}
	return ""
}
