// Package instrumented decorates repositories with store metrics.
package instrumented

import (
	"context"
	"time"

	"github.com/iho/runway/internal/domain"
	"github.com/iho/runway/internal/usecase"
)

// StoreObserver records the outcome of a store operation.
type StoreObserver interface {
	ObserveStore(backend, operation string, started time.Time, err error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// EntryRepository wraps a usecase.EntryRepository.
type EntryRepository struct {
	next     usecase.EntryRepository
	backend  string
	observer StoreObserver
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(next usecase.EntryRepository, backend string, observer StoreObserver) *EntryRepository {
	return &EntryRepository{next: next, backend: backend, observer: observer}
}

func (r *EntryRepository) List(ctx context.Context) (entries []domain.Entry, err error) {
	defer r.observe("entries_list", time.Now(), &err)
	return r.next.List(ctx)
}

func (r *EntryRepository) GetByID(ctx context.Context, id string) (entry *domain.Entry, err error) {
	defer r.observe("entries_get", time.Now(), &err)
	return r.next.GetByID(ctx, id)
}

func (r *EntryRepository) Create(ctx context.Context, entry *domain.Entry) (err error) {
	defer r.observe("entries_create", time.Now(), &err)
	return r.next.Create(ctx, entry)
}

func (r *EntryRepository) Update(ctx context.Context, entry *domain.Entry) (err error) {
	defer r.observe("entries_update", time.Now(), &err)
	return r.next.Update(ctx, entry)
}

func (r *EntryRepository) Delete(ctx context.Context, id string) (err error) {
	defer r.observe("entries_delete", time.Now(), &err)
	return r.next.Delete(ctx, id)
}

// Ping forwards to the wrapped store when it supports readiness checks.
func (r *EntryRepository) Ping(ctx context.Context) error {
	if p, ok := r.next.(pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (r *EntryRepository) observe(op string, started time.Time, err *error) {
	r.observer.ObserveStore(r.backend, op, started, *err)
}

// SettingsRepository wraps a usecase.SettingsRepository.
type SettingsRepository struct {
	next     usecase.SettingsRepository
	backend  string
	observer StoreObserver
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(next usecase.SettingsRepository, backend string, observer StoreObserver) *SettingsRepository {
	return &SettingsRepository{next: next, backend: backend, observer: observer}
}

func (r *SettingsRepository) Get(ctx context.Context) (settings domain.Settings, err error) {
	defer r.observe("settings_get", time.Now(), &err)
	return r.next.Get(ctx)
}

func (r *SettingsRepository) Save(ctx context.Context, settings domain.Settings) (err error) {
	defer r.observe("settings_save", time.Now(), &err)
	return r.next.Save(ctx, settings)
}

func (r *SettingsRepository) observe(op string, started time.Time, err *error) {
	r.observer.ObserveStore(r.backend, op, started, *err)
}
