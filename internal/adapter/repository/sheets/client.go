package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	gsheets "google.golang.org/api/sheets/v4"
)

const valueInputRaw = "RAW"

// Client wraps the Sheets values API for a single spreadsheet.
type Client struct {
	svc           *gsheets.Service
	spreadsheetID string
	logger        zerolog.Logger

	maxRetries      uint64
	initialInterval time.Duration

	mu    sync.Mutex
	ready map[string]bool
}

// NewClient creates a new Client.
func NewClient(svc *gsheets.Service, spreadsheetID string, logger zerolog.Logger) *Client {
	return &Client{
		svc:             svc,
		spreadsheetID:   spreadsheetID,
		logger:          logger,
		maxRetries:      4,
		initialInterval: 200 * time.Millisecond,
		ready:           make(map[string]bool),
	}
}

// EnsureHeaders creates tab if missing and writes headers when row 1 differs.
func (c *Client) EnsureHeaders(ctx context.Context, tab string, headers []string) error {
	c.mu.Lock()
	done := c.ready[tab]
	c.mu.Unlock()
	if done {
		return nil
	}

	if err := c.ensureSheet(ctx, tab); err != nil {
		return err
	}

	current, err := c.Read(ctx, tab+"!1:1")
	if err != nil {
		return err
	}

	if needsHeaders(current, headers) {
		if err := c.Write(ctx, tab+"!1:1", [][]any{headerRow(headers)}); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.ready[tab] = true
	c.mu.Unlock()
	return nil
}

func (c *Client) ensureSheet(ctx context.Context, tab string) error {
	var spreadsheet *gsheets.Spreadsheet
	err := c.retry(ctx, func() error {
		var err error
		spreadsheet, err = c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}

	for _, s := range spreadsheet.Sheets {
		if s.Properties != nil && s.Properties.Title == tab {
			return nil
		}
	}

	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			AddSheet: &gsheets.AddSheetRequest{Properties: &gsheets.SheetProperties{Title: tab}},
		}},
	}
	err = c.retry(ctx, func() error {
		_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
		return err
	})
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already exists") {
			return nil
		}
		return fmt.Errorf("add sheet %q: %w", tab, err)
	}

	c.logger.Info().Str("tab", tab).Msg("sheet tab created")
	return nil
}

// Read returns the values of an A1 range. Empty ranges return no rows.
func (c *Client) Read(ctx context.Context, a1 string) ([][]any, error) {
	var resp *gsheets.ValueRange
	err := c.retry(ctx, func() error {
		var err error
		resp, err = c.svc.Spreadsheets.Values.Get(c.spreadsheetID, a1).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a1, err)
	}
	return resp.Values, nil
}

// Write overwrites an A1 range with rows.
func (c *Client) Write(ctx context.Context, a1 string, rows [][]any) error {
	body := &gsheets.ValueRange{Values: rows}
	err := c.retry(ctx, func() error {
		_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, a1, body).
			ValueInputOption(valueInputRaw).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", a1, err)
	}
	return nil
}

// Append adds rows after the last row of an A1 range.
func (c *Client) Append(ctx context.Context, a1 string, rows [][]any) error {
	body := &gsheets.ValueRange{Values: rows}
	err := c.retry(ctx, func() error {
		_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, a1, body).
			ValueInputOption(valueInputRaw).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("append %s: %w", a1, err)
	}
	return nil
}

// Clear empties an A1 range.
func (c *Client) Clear(ctx context.Context, a1 string) error {
	err := c.retry(ctx, func() error {
		_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, a1, &gsheets.ClearValuesRequest{}).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("clear %s: %w", a1, err)
	}
	return nil
}

// Ping checks that the spreadsheet is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	return err
}

func (c *Client) retry(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval

	attempt := 0
	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return backoff.Permanent(err)
		}
		attempt++
		c.logger.Warn().Err(err).Int("retry", attempt).Msg("sheets api error, retrying")
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx))
}

// isRetryable reports rate limiting and server-side failures.
func isRetryable(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
}

func needsHeaders(current [][]any, headers []string) bool {
	if len(current) == 0 {
		return true
	}
	row := current[0]
	for i, h := range headers {
		if i >= len(row) || fmt.Sprint(row[i]) != h {
			return true
		}
	}
	return false
}
