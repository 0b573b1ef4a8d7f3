package game

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/futuremud/futuremud/internal/storage"
)

// Saveable is anything whose row is written by the SaveManager.
type Saveable interface {
	SaveKey() string
	Save(tx *storage.Tx) error
	Saved()
}

type deferredAction struct {
	desc string
	fn   func(*storage.Tx) error
}

// SaveManager batches dirty objects and writes them on Flush. Deferred
// actions, typically row deletions, run in a second transaction once the
// saves have committed.
type SaveManager struct {
	db       *storage.DB
	pending  map[string]Saveable
	deferred []deferredAction
}

func NewSaveManager(db *storage.DB) *SaveManager {
	return &SaveManager{db: db, pending: make(map[string]Saveable)}
}

// Add queues s. Adding the same key twice keeps one entry.
func (m *SaveManager) Add(s Saveable) {
	m.pending[s.SaveKey()] = s
}

// Remove drops a queued save, used when the object is being deleted.
func (m *SaveManager) Remove(key string) {
	delete(m.pending, key)
}

// AddDeferred queues fn to run after the next successful save.
func (m *SaveManager) AddDeferred(desc string, fn func(*storage.Tx) error) {
	m.deferred = append(m.deferred, deferredAction{desc: desc, fn: fn})
}

// Pending reports the queued saves and deferred actions.
func (m *SaveManager) Pending() (saves, deferred int) {
	return len(m.pending), len(m.deferred)
}

func (m *SaveManager) IsPending(key string) bool {
	_, ok := m.pending[key]
	return ok
}

// Flush writes every queued object. On error nothing is cleared so the
// next flush retries the same work.
func (m *SaveManager) Flush(ctx context.Context) error {
	if len(m.pending) == 0 && len(m.deferred) == 0 {
		return nil
	}
	if m.db == nil {
		return fmt.Errorf("flushing saves: no database")
	}

	keys := make([]string, 0, len(m.pending))
	for k := range m.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if len(keys) > 0 {
		err := m.db.Tx(ctx, func(tx *storage.Tx) error {
			for _, k := range keys {
				if err := m.pending[k].Save(tx); err != nil {
					return fmt.Errorf("saving %s: %w", k, err)
				}
			}
			return nil
		})
		if err != nil {
			slog.ErrorContext(ctx, "save flush failed", "pending", len(keys), "error", err)
			return err
		}
		for _, k := range keys {
			m.pending[k].Saved()
			delete(m.pending, k)
		}
	}

	if len(m.deferred) > 0 {
		actions := m.deferred
		err := m.db.Tx(ctx, func(tx *storage.Tx) error {
			for _, a := range actions {
				if err := a.fn(tx); err != nil {
					return fmt.Errorf("%s: %w", a.desc, err)
				}
			}
			return nil
		})
		if err != nil {
			slog.ErrorContext(ctx, "deferred actions failed", "pending", len(actions), "error", err)
			return err
		}
		m.deferred = m.deferred[len(actions):]
	}

	slog.DebugContext(ctx, "saves flushed", "saved", len(keys))
	return nil
}

// Discard forgets every queued save and deferred action without writing.
// The loader uses it once the world matches the database again.
func (m *SaveManager) Discard() {
	for _, s := range m.pending {
		s.Saved()
	}
	m.pending = make(map[string]Saveable)
	m.deferred = nil
}
