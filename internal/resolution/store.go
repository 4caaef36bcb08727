package resolution

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/aurashield/aurashield/internal/models"
	"github.com/aurashield/aurashield/internal/repository"
)

// Store is the durable record of which alert ids the user has closed,
// independent of which source currently reports them. The persisted
// set is loaded once and cached for the process lifetime; persistence
// failures degrade the store to memory-only and are never surfaced.
type Store struct {
	repo repository.ResolutionRepository
	log  *zap.SugaredLogger

	mu     sync.Mutex
	loaded bool
	ids    map[string]struct{}
}

func NewStore(repo repository.ResolutionRepository, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{
		repo: repo,
		log:  log,
		ids:  make(map[string]struct{}),
	}
}

// ensureLoaded lazily reads the persisted set. A load failure leaves
// the store empty rather than blocking alert delivery; it is not
// retried for the rest of the process lifetime.
func (s *Store) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true
	if s.repo == nil {
		return
	}
	ids, err := s.repo.Load(ctx)
	if err != nil {
		s.log.Warnw("Resolution store load failed, continuing in-memory", "error", err)
		return
	}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// MarkResolved adds id to the set and persists the full set. Marking
// an already-resolved id is observably a no-op.
func (s *Store) MarkResolved(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	if _, ok := s.ids[id]; ok {
		return
	}
	s.ids[id] = struct{}{}
	s.persistLocked(ctx)
}

// persistLocked rewrites the full set. Must be called with s.mu held.
func (s *Store) persistLocked(ctx context.Context) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Save(ctx, s.snapshotLocked()); err != nil {
		s.log.Warnw("Resolution store save failed, set kept in-memory", "error", err)
	}
}

// IsResolved reports whether id has been marked resolved.
func (s *Store) IsResolved(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	_, ok := s.ids[id]
	return ok
}

// FilterOutResolved returns alerts minus any entry whose id is in the
// resolved set. Input order is preserved and the input is not mutated.
func (s *Store) FilterOutResolved(ctx context.Context, alerts []models.Alert) []models.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	out := make([]models.Alert, 0, len(alerts))
	for _, a := range alerts {
		if _, ok := s.ids[a.ID]; ok {
			continue
		}
		out = append(out, a)
	}
	return out
}

// ResolvedIDs returns a sorted snapshot of the set for diagnostics.
func (s *Store) ResolvedIDs(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
