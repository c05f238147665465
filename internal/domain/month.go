package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// MonthLayout is the key format used for months.
const MonthLayout = "2006-01"

// DateLayout is the calendar date format used at the boundary.
const DateLayout = "2006-01-02"

// Month is a calendar month. Ordering of months matches lexicographic ordering of their keys.
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth creates a Month, normalizing out-of-range month values.
func NewMonth(year int, month time.Month) Month {
	return MonthOf(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// MonthOf returns the month containing t. Day and time of day are ignored.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a YYYY-MM key.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return MonthOf(t), nil
}

// MustParseMonth is like ParseMonth but panics on error.
func MustParseMonth(s string) Month {
	m, err := ParseMonth(s)
	if err != nil {
		panic(err)
	}
	return m
}

// String returns the zero-padded YYYY-MM key.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// FirstDay returns midnight UTC on the first day of the month.
func (m Month) FirstDay() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (m Month) index() int {
	return m.Year*12 + int(m.Month) - 1
}

// Compare returns -1, 0 or +1.
func (m Month) Compare(other Month) int {
	a, b := m.index(), other.index()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether m is earlier than other.
func (m Month) Before(other Month) bool { return m.index() < other.index() }

// After reports whether m is later than other.
func (m Month) After(other Month) bool { return m.index() > other.index() }

// Equal reports whether both months are the same.
func (m Month) Equal(other Month) bool { return m.index() == other.index() }

// AddMonths returns the month n months away. n may be negative.
func (m Month) AddMonths(n int) Month {
	idx := m.index() + n
	year := idx / 12
	month := idx % 12
	if month < 0 {
		month += 12
		year--
	}
	return Month{Year: year, Month: time.Month(month + 1)}
}

// MonthsUntil returns the number of months from m to end (negative when end is earlier).
func (m Month) MonthsUntil(end Month) int {
	return end.index() - m.index()
}

// MarshalJSON encodes the month as its key.
func (m Month) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes a YYYY-MM key.
func (m *Month) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}
