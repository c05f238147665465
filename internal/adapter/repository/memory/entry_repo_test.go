package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/runway/internal/domain"
)

func testEntry(id string) domain.Entry {
	end := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	return domain.Entry{
		ID:        id,
		Concept:   "Rent",
		Type:      domain.EntryTypeExpense,
		Frequency: domain.FrequencyMonthly,
		Amount:    decimal.NewFromInt(1000),
		StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   &end,
	}
}

func TestEntryRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewEntryRepository(testEntry("a"))

	b := testEntry("b")
	if err := repo.Create(ctx, &b); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(ctx, &b); !errors.Is(err, domain.ErrInvalidEntry) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	entries, err := repo.List(ctx)
	if err != nil || len(entries) != 2 || entries[0].ID != "a" || entries[1].ID != "b" {
		t.Fatalf("unexpected list %v err=%v", entries, err)
	}

	b.Concept = "Office"
	if err := repo.Update(ctx, &b); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, err := repo.GetByID(ctx, "b")
	if err != nil || got.Concept != "Office" {
		t.Fatalf("expected updated concept, got %+v err=%v", got, err)
	}

	if err := repo.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, "a"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "a"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound on second delete, got %v", err)
	}
	missing := testEntry("zzz")
	if err := repo.Update(ctx, &missing); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound on update, got %v", err)
	}
}

func TestEntryRepository_CopyOnRead(t *testing.T) {
	ctx := context.Background()
	repo := NewEntryRepository(testEntry("a"))

	entries, _ := repo.List(ctx)
	entries[0].Concept = "mutated"
	*entries[0].EndDate = time.Time{}

	got, _ := repo.GetByID(ctx, "a")
	if got.Concept != "Rent" || got.EndDate.IsZero() {
		t.Fatalf("stored entry was mutated through a listed copy: %+v", got)
	}
}

func TestEntryRepository_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	repo := NewEntryRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e := testEntry(string(rune('A' + i)))
			_ = repo.Create(ctx, &e)
			_, _ = repo.List(ctx)
		}(i)
	}
	wg.Wait()

	entries, _ := repo.List(ctx)
	if len(entries) != 50 {
		t.Fatalf("expected 50 entries, got %d", len(entries))
	}
}

func TestSettingsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(domain.Settings{})

	settings, err := repo.Get(ctx)
	if err != nil || settings.Currency != "" {
		t.Fatalf("expected empty settings, got %+v err=%v", settings, err)
	}

	want := domain.Settings{Currency: domain.CurrencyARS, CashOnHand: decimal.NewNullDecimal(decimal.NewFromInt(5))}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	settings, _ = repo.Get(ctx)
	if settings.Currency != domain.CurrencyARS || !settings.CashOnHand.Decimal.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("unexpected settings %+v", settings)
	}
}
