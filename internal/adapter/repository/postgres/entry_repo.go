package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/runway/internal/domain"
)

const entryColumns = `id, concept, type, frequency, amount::text, start_date::text, COALESCE(end_date::text, ''), notes`

const (
	listEntriesSQL = `SELECT ` + entryColumns + ` FROM entries ORDER BY position`
	getEntrySQL    = `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`
	createEntrySQL = `INSERT INTO entries (id, concept, type, frequency, amount, start_date, end_date, notes)
		VALUES ($1, $2, $3, $4, $5::numeric, $6::date, $7::date, $8)`
	updateEntrySQL = `UPDATE entries
		SET concept = $2, type = $3, frequency = $4, amount = $5::numeric,
		    start_date = $6::date, end_date = $7::date, notes = $8, updated_at = NOW()
		WHERE id = $1`
	deleteEntrySQL = `DELETE FROM entries WHERE id = $1`
)

// EntryRepository implements usecase.EntryRepository on PostgreSQL.
type EntryRepository struct {
	pool    db
	retrier *Retrier
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool, retrier *Retrier) *EntryRepository {
	return newEntryRepository(pool, retrier)
}

func newEntryRepository(pool db, retrier *Retrier) *EntryRepository {
	return &EntryRepository{pool: pool, retrier: retrier}
}

// List returns every entry in insertion order.
func (r *EntryRepository) List(ctx context.Context) ([]domain.Entry, error) {
	var entries []domain.Entry

	err := r.retrier.Retry(ctx, func() error {
		rows, err := r.pool.Query(ctx, listEntriesSQL)
		if err != nil {
			return err
		}
		defer rows.Close()

		entries = make([]domain.Entry, 0)
		for rows.Next() {
			e, err := scanEntry(rows)
			if err != nil {
				return err
			}
			entries = append(entries, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	var entry domain.Entry

	err := r.retrier.Retry(ctx, func() error {
		var err error
		entry, err = scanEntry(r.pool.QueryRow(ctx, getEntrySQL, id))
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}

	return &entry, nil
}

// Create inserts a new entry.
func (r *EntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	err := r.retrier.Retry(ctx, func() error {
		_, err := r.pool.Exec(ctx, createEntrySQL, entryArgs(entry)...)
		return err
	})
	if hasCode(err, pgErrUniqueViolation) {
		return fmt.Errorf("%w: duplicate id %q", domain.ErrInvalidEntry, entry.ID)
	}
	return err
}

// Update replaces an existing entry.
func (r *EntryRepository) Update(ctx context.Context, entry *domain.Entry) error {
	return r.retrier.Retry(ctx, func() error {
		tag, err := r.pool.Exec(ctx, updateEntrySQL, entryArgs(entry)...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrEntryNotFound
		}
		return nil
	})
}

// Delete removes an entry by ID.
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	return r.retrier.Retry(ctx, func() error {
		tag, err := r.pool.Exec(ctx, deleteEntrySQL, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrEntryNotFound
		}
		return nil
	})
}

// Ping checks the database connection.
func (r *EntryRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func entryArgs(e *domain.Entry) []any {
	var end *string
	if e.EndDate != nil {
		s := e.EndDate.Format(domain.DateLayout)
		end = &s
	}
	return []any{
		e.ID,
		e.Concept,
		string(e.Type),
		string(e.Frequency),
		e.Amount.String(),
		e.StartDate.Format(domain.DateLayout),
		end,
		e.Notes,
	}
}

func scanEntry(row pgx.Row) (domain.Entry, error) {
	var (
		e                        domain.Entry
		entryType, frequency     string
		amount, start, end, note string
	)

	if err := row.Scan(&e.ID, &e.Concept, &entryType, &frequency, &amount, &start, &end, &note); err != nil {
		return domain.Entry{}, err
	}

	var err error
	if e.Type, err = domain.ParseEntryType(entryType); err != nil {
		return domain.Entry{}, err
	}
	if e.Frequency, err = domain.ParseFrequency(frequency); err != nil {
		return domain.Entry{}, err
	}
	if e.Amount, err = decimal.NewFromString(amount); err != nil {
		return domain.Entry{}, fmt.Errorf("entry %s: invalid amount %q: %w", e.ID, amount, err)
	}
	if e.StartDate, err = domain.ParseDate(start); err != nil {
		return domain.Entry{}, err
	}
	if end != "" {
		var endDate time.Time
		if endDate, err = domain.ParseDate(end); err != nil {
			return domain.Entry{}, err
		}
		e.EndDate = &endDate
	}
	e.Notes = note

	return e, nil
}
