package mockapi

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aurashield/aurashield/internal/dto"
	"github.com/aurashield/aurashield/internal/models"
)

// Store is the in-memory, process-lifetime alert source. It seeds the
// synthetic demo alerts, acts as the local fallback when the live
// backend is unavailable, and is the write target for alerts created
// from the image/URL analysis flows.
//
// The list is kept newest-first structurally: Add and Import prepend,
// nothing re-sorts. Subscriber callbacks run synchronously after each
// mutation and must not re-enter the store.
type Store struct {
	log *zap.SugaredLogger

	mu          sync.Mutex
	alerts      []models.Alert
	subscribers map[int]func()
	nextSubID   int
}

// NewStore builds a store preloaded with the synthetic seed alerts.
func NewStore(log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{
		log:         log,
		alerts:      seedAlerts(time.Now().UTC()),
		subscribers: make(map[int]func()),
	}
}

// NewEmptyStore builds a store without seed data.
func NewEmptyStore(log *zap.SugaredLogger) *Store {
	s := NewStore(log)
	s.mu.Lock()
	s.alerts = nil
	s.mu.Unlock()
	return s
}

// List returns alerts matching the filters. Search is a
// case-insensitive substring match over title, description and VIP
// name; severity is an exact match with "all" (or empty) meaning no
// filter; limit truncates after filtering. Total reports the number
// of alerts actually returned.
func (s *Store) List(opts dto.ListOptions) dto.AlertsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]models.Alert, 0, len(s.alerts))
	needle := strings.ToLower(opts.Search)
	for _, a := range s.alerts {
		if needle != "" &&
			!strings.Contains(strings.ToLower(a.Title), needle) &&
			!strings.Contains(strings.ToLower(a.Description), needle) &&
			!strings.Contains(strings.ToLower(a.VIPName), needle) {
			continue
		}
		if opts.Severity != "" && opts.Severity != "all" && a.Severity != opts.Severity {
			continue
		}
		filtered = append(filtered, a)
	}

	if opts.Limit > 0 && len(filtered) > opts.Limit {
		filtered = filtered[:opts.Limit]
	}

	return dto.AlertsResponse{Alerts: filtered, Total: len(filtered)}
}

// Add creates a new alert from the given fields, assigns a fresh UUID
// and the current timestamp, and prepends it to the list.
func (s *Store) Add(a models.Alert) models.Alert {
	a.ID = uuid.NewString()
	a.Timestamp = time.Now().UTC()
	a = a.Normalize("")

	s.mu.Lock()
	s.alerts = append([]models.Alert{a}, s.alerts...)
	s.mu.Unlock()

	s.log.Infow("Alert added", "id", a.ID, "type", a.Type, "severity", a.Severity)
	s.notify()
	return a
}

// Remove deletes the alert with the given id if present. Removing an
// absent id is a no-op, not an error.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	removed := false
	for i, a := range s.alerts {
		if a.ID == id {
			s.alerts = append(s.alerts[:i], s.alerts[i+1:]...)
			removed = true
			break
		}
	}
	s.mu.Unlock()

	if removed {
		s.notify()
	}
}

// Import merges remotely fetched alerts into the local list so that
// mock-backed views stay consistent without a live round trip. New ids
// are prepended; an id already present is replaced only when the
// incoming record carries a strictly newer timestamp.
func (s *Store) Import(incoming []models.Alert) {
	if len(incoming) == 0 {
		return
	}

	s.mu.Lock()
	index := make(map[string]int, len(s.alerts))
	for i, a := range s.alerts {
		index[a.ID] = i
	}

	changed := false
	var fresh []models.Alert
	freshIndex := make(map[string]int)
	for _, a := range incoming {
		// A batch may repeat an id; settle repeats against the entry
		// already accepted from this batch.
		if i, ok := freshIndex[a.ID]; ok {
			if a.Timestamp.After(fresh[i].Timestamp) {
				fresh[i] = a
			}
			continue
		}
		if i, ok := index[a.ID]; ok {
			if a.Timestamp.After(s.alerts[i].Timestamp) {
				s.alerts[i] = a
				changed = true
			}
			continue
		}
		freshIndex[a.ID] = len(fresh)
		fresh = append(fresh, a)
	}
	if len(fresh) > 0 {
		s.alerts = append(fresh, s.alerts...)
		changed = true
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// Subscribe registers a callback invoked after every mutation. The
// returned function unregisters it.
func (s *Store) Subscribe(cb func()) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = cb
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// notify invokes subscribers outside the store lock. A panicking
// subscriber is isolated so it cannot break the source or its peers.
func (s *Store) notify() {
	s.mu.Lock()
	cbs := make([]func(), 0, len(s.subscribers))
	for _, cb := range s.subscribers {
		cbs = append(cbs, cb)
	}
	s.mu.Unlock()

	for _, cb := range cbs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.log.Warnw("Alert subscriber panicked", "panic", r)
				}
			}()
			cb()
		}()
	}
}
