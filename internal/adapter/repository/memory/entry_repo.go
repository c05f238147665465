package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/iho/runway/internal/domain"
)

// EntryRepository implements usecase.EntryRepository in memory.
// It keeps insertion order, which is the order List returns.
type EntryRepository struct {
	mu      sync.RWMutex
	entries []domain.Entry
}

// NewEntryRepository creates a new EntryRepository seeded with entries.
func NewEntryRepository(seed ...domain.Entry) *EntryRepository {
	r := &EntryRepository{entries: make([]domain.Entry, 0, len(seed))}
	for _, e := range seed {
		r.entries = append(r.entries, cloneEntry(e))
	}
	return r
}

// List returns a copy of every entry.
func (r *EntryRepository) List(ctx context.Context) ([]domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Entry, len(r.entries))
	for i, e := range r.entries {
		out[i] = cloneEntry(e)
	}
	return out, nil
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrEntryNotFound
	}
	e := cloneEntry(r.entries[i])
	return &e, nil
}

// Create appends a new entry.
func (r *EntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(entry.ID) >= 0 {
		return fmt.Errorf("%w: duplicate id %q", domain.ErrInvalidEntry, entry.ID)
	}
	r.entries = append(r.entries, cloneEntry(*entry))
	return nil
}

// Update replaces an existing entry in place.
func (r *EntryRepository) Update(ctx context.Context, entry *domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(entry.ID)
	if i < 0 {
		return domain.ErrEntryNotFound
	}
	r.entries[i] = cloneEntry(*entry)
	return nil
}

// Delete removes an entry by ID.
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrEntryNotFound
	}
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	return nil
}

// Ping always succeeds.
func (r *EntryRepository) Ping(ctx context.Context) error {
	return nil
}

func (r *EntryRepository) indexOf(id string) int {
	for i, e := range r.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func cloneEntry(e domain.Entry) domain.Entry {
	if e.EndDate != nil {
		end := *e.EndDate
		e.EndDate = &end
	}
	return e
}
