package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/runway/internal/adapter/http/dto"
	"github.com/iho/runway/internal/domain"
	"github.com/iho/runway/internal/usecase"
)

// fileEntry is one entry in an entries file. It matches the API's entry shape.
type fileEntry struct {
	ID        string          `json:"id"`
	Concept   string          `json:"concept"`
	Type      string          `json:"type"`
	Frequency string          `json:"frequency"`
	Amount    decimal.Decimal `json:"amount"`
	StartDate string          `json:"start_date"`
	EndDate   *string         `json:"end_date"`
	Notes     string          `json:"notes"`
}

// engineInput is the parsed input of a local engine command.
type engineInput struct {
	entries  []domain.Entry
	base     domain.Month
	settings domain.Settings
}

func loadInput(f *engineFlags) (*engineInput, error) {
	data, err := os.ReadFile(f.file)
	if err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}

	entries, err := parseEntries(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.file, err)
	}

	base := domain.MonthOf(now())
	if f.month != "" {
		if base, err = domain.ParseMonth(f.month); err != nil {
			return nil, err
		}
	}

	currency, err := domain.ParseCurrency(strings.ToUpper(f.currency))
	if err != nil {
		return nil, err
	}

	settings := domain.Settings{Currency: currency}
	if f.cash != "" {
		cash, err := decimal.NewFromString(f.cash)
		if err != nil {
			return nil, fmt.Errorf("invalid --cash %q: %w", f.cash, err)
		}
		settings.CashOnHand = decimal.NewNullDecimal(cash)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &engineInput{entries: entries, base: base, settings: settings}, nil
}

// parseEntries accepts a bare JSON array or a {"data": [...]} API envelope.
// Every entry is normalized and validated the way the API does on create.
func parseEntries(data []byte) ([]domain.Entry, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty entries file")
	}

	var raw []fileEntry
	if data[0] == '{' {
		var env struct {
			Data []fileEntry `json:"data"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		raw = env.Data
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	entries := make([]domain.Entry, 0, len(raw))
	for i, fe := range raw {
		e, err := fe.toDomain(i)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (fe fileEntry) toDomain(i int) (domain.Entry, error) {
	entryType, err := domain.ParseEntryType(strings.ToLower(strings.TrimSpace(fe.Type)))
	if err != nil {
		return domain.Entry{}, err
	}
	frequency, err := domain.ParseFrequency(strings.ToLower(strings.TrimSpace(fe.Frequency)))
	if err != nil {
		return domain.Entry{}, err
	}
	start, err := domain.ParseDate(fe.StartDate)
	if err != nil {
		return domain.Entry{}, err
	}

	e := domain.Entry{
		ID:        fe.ID,
		Concept:   strings.TrimSpace(fe.Concept),
		Type:      entryType,
		Frequency: frequency,
		Amount:    fe.Amount,
		StartDate: start,
		Notes:     strings.TrimSpace(fe.Notes),
	}
	if e.ID == "" {
		e.ID = fmt.Sprintf("entry-%d", i+1)
	}
	if fe.EndDate != nil && *fe.EndDate != "" {
		end, err := domain.ParseDate(*fe.EndDate)
		if err != nil {
			return domain.Entry{}, err
		}
		e.EndDate = &end
	}

	e = domain.NormalizeForFrequency(e)
	if err := domain.ValidateEntry(e); err != nil {
		return domain.Entry{}, err
	}
	return e, nil
}

func kpisCmd() *cobra.Command {
	f := &engineFlags{}
	cmd := &cobra.Command{
		Use:   "kpis",
		Short: "Show recurring KPIs for a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInput(f)
			if err != nil {
				return err
			}
			kpis := domain.CalculateKPIs(in.entries, in.base, in.settings.CashOnHand)
			if f.json {
				return printJSON(cmd.OutOrStdout(), dto.KPIsFromDomain(kpis))
			}
			return printKPIs(cmd.OutOrStdout(), in.base, kpis, in.settings.Currency)
		},
	}
	bindEngineFlags(cmd, f)
	return cmd
}

func projectionCmd() *cobra.Command {
	f := &engineFlags{}
	cmd := &cobra.Command{
		Use:   "projection",
		Short: "Show a month-by-month projection including one-time entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInput(f)
			if err != nil {
				return err
			}
			months := usecase.ClampProjectionMonths(f.months)
			rows := domain.BuildMonthlyProjection(in.entries, in.base, months)
			report := &usecase.ProjectionReport{
				Start:  in.base,
				Months: months,
				Rows:   rows,
				Stats:  domain.SummarizeProjection(rows),
			}
			if f.json {
				return printJSON(cmd.OutOrStdout(), dto.ProjectionFromUseCase(report))
			}
			return printProjection(cmd.OutOrStdout(), report, in.settings.Currency)
		},
	}
	bindEngineFlags(cmd, f)
	cmd.Flags().IntVar(&f.months, "months", usecase.DefaultProjectionMonths, "Number of months to project")
	return cmd
}

func horizonsCmd() *cobra.Command {
	f := &engineFlags{}
	cmd := &cobra.Command{
		Use:   "horizons",
		Short: "Show the 6 month, 1, 2 and 4 year recurring outlook",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInput(f)
			if err != nil {
				return err
			}
			opts := domain.ProjectionOptions{BaseMonth: in.base, CashOnHand: in.settings.CashOnHand}
			result := domain.CalculateFinancialProjection(in.entries, opts)
			if f.json {
				return printJSON(cmd.OutOrStdout(), dto.HorizonsFromUseCase(&usecase.HorizonsReport{
					Month:      in.base,
					Settings:   in.settings,
					Summaries:  result,
					Series:     domain.BuildProjectionSeries(in.entries, opts),
					Comparison: domain.BuildHorizonComparison(result),
				}))
			}
			return printHorizons(cmd.OutOrStdout(), in.base, result, in.settings.Currency)
		},
	}
	bindEngineFlags(cmd, f)
	return cmd
}

func insightsCmd() *cobra.Command {
	f := &engineFlags{}
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show expense distribution, commitments and stability",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInput(f)
			if err != nil {
				return err
			}
			insights := domain.BuildInsights(in.entries, in.base)
			if f.json {
				return printJSON(cmd.OutOrStdout(), dto.InsightsFromDomain(insights))
			}
			return printInsights(cmd.OutOrStdout(), in.base, insights, in.settings.Currency)
		},
	}
	bindEngineFlags(cmd, f)
	return cmd
}
