package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func date(s string) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func datePtr(s string) *time.Time {
	d := date(s)
	return &d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func cash(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func newEntry(id string, typ EntryType, freq Frequency, amount, start string) Entry {
	return Entry{
		ID:        id,
		Concept:   id,
		Type:      typ,
		Frequency: freq,
		Amount:    dec(amount),
		StartDate: date(start),
	}
}

func withEnd(e Entry, end string) Entry {
	e.EndDate = datePtr(end)
	return e
}

func assertDecimal(t testingT, want string, got decimal.Decimal) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

type testingT interface {
	Helper()
	Errorf(format string, args ...any)
}
