//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

package usecase

import (
	"context"
	"time"

	"github.com/iho/runway/internal/domain"
)

// EntryRepository defines data access for entries.
type EntryRepository interface {
	List(ctx context.Context) ([]domain.Entry, error)
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	Create(ctx context.Context, entry *domain.Entry) error
	Update(ctx context.Context, entry *domain.Entry) error
	Delete(ctx context.Context, id string) error
}

// SettingsRepository defines data access for settings.
// Get returns a zero Currency when nothing has been stored yet.
type SettingsRepository interface {
	Get(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the wall clock in UTC.
var SystemClock Clock = ClockFunc(func() time.Time { return time.Now().UTC() })

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request can be retried.
	Release(ctx context.Context, key string) error
}

// ForecastObserver records forecast computations.
type ForecastObserver interface {
	ObserveForecast(kind string, duration time.Duration)
	ObserveCache(hit bool)
}
