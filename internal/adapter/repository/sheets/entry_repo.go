package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/iho/runway/internal/domain"
)

// EntryRepository implements usecase.EntryRepository on a spreadsheet tab.
// Writes are read-modify-write, so they are serialized within the process.
type EntryRepository struct {
	client *Client
	tab    string
	logger zerolog.Logger
	mu     sync.Mutex
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(client *Client, tab string, logger zerolog.Logger) *EntryRepository {
	return &EntryRepository{client: client, tab: tab, logger: logger}
}

func (r *EntryRepository) dataRange() string   { return r.tab + "!A2:H" }
func (r *EntryRepository) appendRange() string { return r.tab + "!A:H" }

// List returns every valid entry in sheet order. Rows without an id are skipped;
// rows that fail to map are logged and skipped.
func (r *EntryRepository) List(ctx context.Context) ([]domain.Entry, error) {
	if err := r.client.EnsureHeaders(ctx, r.tab, FinancialHeaders); err != nil {
		return nil, err
	}

	rows, err := r.client.Read(ctx, r.dataRange())
	if err != nil {
		return nil, err
	}

	entries := make([]domain.Entry, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 || strings.TrimSpace(fmt.Sprint(row[0])) == "" {
			continue
		}

		e, err := RowToEntry(row)
		if err != nil {
			r.logger.Warn().
				Err(err).
				Str("id", fmt.Sprint(row[0])).
				Msg("skipping invalid financial row")
			continue
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(entries, id)
	if i < 0 {
		return nil, domain.ErrEntryNotFound
	}
	return &entries[i], nil
}

// Create appends a new entry row.
func (r *EntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.List(ctx)
	if err != nil {
		return err
	}
	if indexOf(entries, entry.ID) >= 0 {
		return fmt.Errorf("%w: duplicate id %q", domain.ErrInvalidEntry, entry.ID)
	}

	return r.client.Append(ctx, r.appendRange(), [][]any{EntryToRow(*entry)})
}

// Update replaces an entry and rewrites the data range.
func (r *EntryRepository) Update(ctx context.Context, entry *domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.List(ctx)
	if err != nil {
		return err
	}
	i := indexOf(entries, entry.ID)
	if i < 0 {
		return domain.ErrEntryNotFound
	}
	entries[i] = *entry

	return r.rewrite(ctx, entries)
}

// Delete removes an entry and rewrites the remaining rows.
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.List(ctx)
	if err != nil {
		return err
	}
	i := indexOf(entries, id)
	if i < 0 {
		return domain.ErrEntryNotFound
	}
	remaining := append(entries[:i:i], entries[i+1:]...)

	return r.rewrite(ctx, remaining)
}

// rewrite clears the data range so no stale trailing rows survive, then writes entries.
func (r *EntryRepository) rewrite(ctx context.Context, entries []domain.Entry) error {
	if err := r.client.Clear(ctx, r.dataRange()); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	return r.client.Write(ctx, r.dataRange(), toRows(entries))
}

// Ping checks that the spreadsheet is reachable.
func (r *EntryRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

func indexOf(entries []domain.Entry, id string) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}

func toRows(entries []domain.Entry) [][]any {
	rows := make([][]any, len(entries))
	for i, e := range entries {
		rows[i] = EntryToRow(e)
	}
	return rows
}
