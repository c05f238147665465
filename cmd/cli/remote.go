package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/runway/internal/adapter/http/dto"
	"github.com/iho/runway/internal/domain"
	"github.com/iho/runway/internal/format"
)

type remoteFlags struct {
	url     string
	month   string
	token   string
	timeout time.Duration
	json    bool
}

func remoteCmd() *cobra.Command {
	f := &remoteFlags{}

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Query a running Runway API",
	}
	cmd.PersistentFlags().StringVar(&f.url, "url", "http://localhost:8080", "Base URL of the Runway API")
	cmd.PersistentFlags().StringVar(&f.token, "token", "", "Bearer token (default: $RUNWAY_TOKEN)")
	cmd.PersistentFlags().DurationVar(&f.timeout, "timeout", 10*time.Second, "Request timeout")

	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Fetch the dashboard for a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.token == "" {
				f.token = lookupEnv("RUNWAY_TOKEN")
			}
			raw, err := fetchDashboard(cmd.Context(), f)
			if err != nil {
				return err
			}
			if f.json {
				return printJSON(cmd.OutOrStdout(), raw)
			}

			var dash dto.DashboardResponse
			if err := json.Unmarshal(raw, &dash); err != nil {
				return fmt.Errorf("decode dashboard: %w", err)
			}
			return printDashboard(cmd.OutOrStdout(), &dash)
		},
	}
	dashboardCmd.Flags().StringVar(&f.month, "month", "", "Base month YYYY-MM (default: server's current month)")
	dashboardCmd.Flags().BoolVar(&f.json, "json", false, "Print the raw dashboard JSON")

	cmd.AddCommand(dashboardCmd)
	return cmd
}

// fetchDashboard returns the data member of the dashboard envelope.
func fetchDashboard(ctx context.Context, f *remoteFlags) (json.RawMessage, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if f.month != "" {
		if _, err := domain.ParseMonth(f.month); err != nil {
			return nil, err
		}
	}

	endpoint, err := url.JoinPath(f.url, "/api/v1/forecast/dashboard")
	if err != nil {
		return nil, fmt.Errorf("invalid --url: %w", err)
	}
	if f.month != "" {
		endpoint += "?" + url.Values{"month": {f.month}}.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request dashboard: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env struct {
		Data  json.RawMessage `json:"data"`
		Error *dto.APIError   `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unexpected response (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if env.Error != nil {
		return nil, fmt.Errorf("%s: %s (status %d)", env.Error.Code, env.Error.Message, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, errors.New("empty dashboard")
	}
	return env.Data, nil
}

func printDashboard(w io.Writer, d *dto.DashboardResponse) error {
	month, err := domain.ParseMonth(d.Month)
	if err != nil {
		return err
	}
	currency := domain.Currency(d.Settings.Currency)

	if err := printKPIs(w, month, domain.KPIs{
		MonthlyRecurringIncome:   d.KPIs.MonthlyRecurringIncome,
		MonthlyRecurringExpenses: d.KPIs.MonthlyRecurringExpenses,
		NetMonthlyResult:         d.KPIs.NetMonthlyResult,
		BurnRate:                 d.KPIs.BurnRate,
		RunwayMonths:             d.KPIs.RunwayMonths,
	}, currency); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nCash on hand %s\n\n", format.NullableCurrency(d.Settings.CashOnHand, currency, notAvailable))

	tw := newTable(w)
	fmt.Fprintln(tw, "Horizon\tNet\tResult\t")
	for _, c := range d.Comparison {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", c.Label, format.Currency(c.NetResult, currency), signedLabel(c.NetResult))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nFinancial stability: %s\n", d.Insights.FinancialStability)
	return nil
}
