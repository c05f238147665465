package memory

import (
	"context"
	"sync"

	"github.com/iho/runway/internal/domain"
)

// SettingsRepository implements usecase.SettingsRepository in memory.
type SettingsRepository struct {
	mu       sync.RWMutex
	settings domain.Settings
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(initial domain.Settings) *SettingsRepository {
	return &SettingsRepository{settings: initial}
}

// Get returns the stored settings.
func (r *SettingsRepository) Get(ctx context.Context) (domain.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings, nil
}

// Save replaces the stored settings.
func (r *SettingsRepository) Save(ctx context.Context, settings domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = settings
	return nil
}
