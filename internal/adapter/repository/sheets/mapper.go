package sheets

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/runway/internal/domain"
)

// FinancialHeaders is the header row of the financial tab, columns A:H.
var FinancialHeaders = []string{"id", "concept", "type", "frequency", "amount", "start_date", "end_date", "notes"}

// SettingsHeaders is the header row of the settings tab.
var SettingsHeaders = []string{"key", "value"}

// legacyColumns is the width of rows written before end_date existed. Those carry notes in G.
// The values API also drops trailing empty cells, so a current row with an end date and no
// notes comes back just as wide.
const legacyColumns = 7

// RowToEntry maps a sheet row to a validated entry.
func RowToEntry(row []any) (domain.Entry, error) {
	cell := func(i int) string {
		if i >= len(row) || row[i] == nil {
			return ""
		}
		return strings.TrimSpace(fmt.Sprint(row[i]))
	}

	entryType, err := domain.ParseEntryType(strings.ToLower(cell(2)))
	if err != nil {
		return domain.Entry{}, err
	}

	frequency, err := domain.ParseFrequency(normalizeFrequency(strings.ToLower(cell(3))))
	if err != nil {
		return domain.Entry{}, err
	}

	rawAmount := cell(4)
	if rawAmount == "" {
		rawAmount = "0"
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, rawAmount)
	}

	start, err := domain.ParseDate(cell(5))
	if err != nil {
		return domain.Entry{}, err
	}

	e := domain.Entry{
		ID:        cell(0),
		Concept:   cell(1),
		Type:      entryType,
		Frequency: frequency,
		Amount:    amount,
		StartDate: start,
	}

	if len(row) > legacyColumns {
		if raw := cell(6); raw != "" {
			end, err := domain.ParseDate(raw)
			if err != nil {
				return domain.Entry{}, err
			}
			e.EndDate = &end
		}
		e.Notes = cell(7)
	} else if raw := cell(6); raw != "" {
		// A date in G is an end_date whose empty notes cell was trimmed.
		if end, err := domain.ParseDate(raw); err == nil {
			e.EndDate = &end
		} else {
			e.Notes = raw
		}
	}

	e = domain.NormalizeForFrequency(e)
	if err := domain.ValidateEntry(e); err != nil {
		return domain.Entry{}, err
	}

	return e, nil
}

// EntryToRow maps an entry to its A:H row.
func EntryToRow(e domain.Entry) []any {
	end := ""
	if e.EndDate != nil {
		end = e.EndDate.Format(domain.DateLayout)
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

func normalizeFrequency(f string) string {
	if f == "yearly" {
		return string(domain.FrequencyAnnual)
	}
	return f
}

func headerRow(headers []string) []any {
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	return row
}
