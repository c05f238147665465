package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// SQLSTATE codes that are safe to replay against the entries and settings tables.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrUniqueViolation      = "23505"
)

// RetryPolicy bounds how often a failed statement is replayed.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryPolicy is used when NewRetrier receives a zero policy.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:      3,
	InitialInterval: 50 * time.Millisecond,
	MaxInterval:     time.Second,
	MaxElapsedTime:  10 * time.Second,
}

// Retrier replays repository statements that failed with a transient error.
type Retrier struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	logger          zerolog.Logger
}

// NewRetrier builds a Retrier. Zero fields of policy fall back to DefaultRetryPolicy.
func NewRetrier(logger zerolog.Logger, policy ...RetryPolicy) *Retrier {
	p := DefaultRetryPolicy
	if len(policy) > 0 {
		if policy[0].MaxRetries > 0 {
			p.MaxRetries = policy[0].MaxRetries
		}
		if policy[0].InitialInterval > 0 {
			p.InitialInterval = policy[0].InitialInterval
		}
		if policy[0].MaxInterval > 0 {
			p.MaxInterval = policy[0].MaxInterval
		}
		if policy[0].MaxElapsedTime > 0 {
			p.MaxElapsedTime = policy[0].MaxElapsedTime
		}
	}

	return &Retrier{
		maxRetries:      p.MaxRetries,
		initialInterval: p.InitialInterval,
		maxInterval:     p.MaxInterval,
		maxElapsedTime:  p.MaxElapsedTime,
		logger:          logger.With().Str("component", "postgres_retrier").Logger(),
	}
}

// Retry runs op until it succeeds, fails permanently, or the retry budget is spent.
// The last error from op is returned unwrapped.
func (r *Retrier) Retry(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = r.maxElapsedTime

	bounded := backoff.WithMaxRetries(backoff.WithContext(b, ctx), uint64(r.maxRetries))

	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := op()
		if err != nil && !isRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}, bounded, func(err error, wait time.Duration) {
		r.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("wait", wait).
			Msg("transient database error, retrying")
	})
}

// isRetryableError reports whether err is a deadlock, a serialization
// failure, or a connection error pgconn marks as safe to replay.
func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrDeadlock || pgErr.Code == pgErrSerializationFailure
	}
	return pgconn.SafeToRetry(err)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
