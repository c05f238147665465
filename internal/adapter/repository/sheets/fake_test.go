package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const testSpreadsheetID = "sheet-123"

// fakeSpreadsheet is an in-memory stand-in for the Sheets REST API.
type fakeSpreadsheet struct {
	mu       sync.Mutex
	tabs     map[string][][]any
	order    []string
	failures []int
	calls    []string
}

func newFakeSpreadsheet(tabs ...string) *fakeSpreadsheet {
	f := &fakeSpreadsheet{tabs: make(map[string][][]any)}
	for _, tab := range tabs {
		f.addTab(tab)
	}
	return f
}

func (f *fakeSpreadsheet) addTab(tab string) {
	f.tabs[tab] = nil
	f.order = append(f.order, tab)
}

// failWith makes the next len(codes) requests fail with the given status codes.
func (f *fakeSpreadsheet) failWith(codes ...int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, codes...)
}

func (f *fakeSpreadsheet) setRows(tab string, rows ...[]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tabs[tab]; !ok {
		f.addTab(tab)
	}
	f.tabs[tab] = rows
}

func (f *fakeSpreadsheet) rows(tab string) [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return trimEmpty(f.tabs[tab])
}

func (f *fakeSpreadsheet) countCalls(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeSpreadsheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rest := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/"+testSpreadsheetID)
	f.calls = append(f.calls, r.Method+" "+rest)

	if len(f.failures) > 0 {
		code := f.failures[0]
		f.failures = f.failures[1:]
		writeAPIError(w, code, http.StatusText(code))
		return
	}

	switch {
	case rest == "" && r.Method == http.MethodGet:
		sheets := make([]map[string]any, 0, len(f.order))
		for _, tab := range f.order {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": tab}})
		}
		writeJSON(w, map[string]any{"spreadsheetId": testSpreadsheetID, "sheets": sheets})

	case rest == ":batchUpdate":
		var req gsheets.BatchUpdateSpreadsheetRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, q := range req.Requests {
			if q.AddSheet == nil {
				continue
			}
			title := q.AddSheet.Properties.Title
			if _, ok := f.tabs[title]; ok {
				writeAPIError(w, http.StatusBadRequest, "A sheet with the name \""+title+"\" already exists.")
				return
			}
			f.addTab(title)
		}
		writeJSON(w, map[string]any{"spreadsheetId": testSpreadsheetID})

	case strings.HasPrefix(rest, "/values/"):
		f.serveValues(w, r, strings.TrimPrefix(rest, "/values/"))

	default:
		writeAPIError(w, http.StatusNotFound, "unknown path "+rest)
	}
}

func (f *fakeSpreadsheet) serveValues(w http.ResponseWriter, r *http.Request, a1 string) {
	op := ""
	for _, suffix := range []string{":append", ":clear"} {
		if strings.HasSuffix(a1, suffix) {
			op = suffix
			a1 = strings.TrimSuffix(a1, suffix)
		}
	}

	tab, start, end := parseA1(a1)
	if _, ok := f.tabs[tab]; !ok {
		writeAPIError(w, http.StatusBadRequest, "Unable to parse range: "+a1)
		return
	}

	switch {
	case op == ":clear":
		rows := f.tabs[tab]
		for i := start - 1; i < len(rows) && (end == 0 || i < end); i++ {
			rows[i] = []any{}
		}
		writeJSON(w, map[string]any{"clearedRange": a1})

	case op == ":append":
		var body gsheets.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.tabs[tab] = append(trimEmpty(f.tabs[tab]), body.Values...)
		writeJSON(w, map[string]any{"spreadsheetId": testSpreadsheetID})

	case r.Method == http.MethodPut:
		var body gsheets.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&body)
		rows := f.tabs[tab]
		for len(rows) < start-1+len(body.Values) {
			rows = append(rows, []any{})
		}
		for i, row := range body.Values {
			rows[start-1+i] = row
		}
		f.tabs[tab] = rows
		writeJSON(w, map[string]any{"updatedRows": len(body.Values)})

	default:
		rows := trimEmpty(f.tabs[tab])
		var out [][]any
		for i := start - 1; i < len(rows) && (end == 0 || i < end); i++ {
			out = append(out, trimTrailingCells(rows[i]))
		}
		resp := map[string]any{"range": a1}
		if len(out) > 0 {
			resp["values"] = out
		}
		writeJSON(w, resp)
	}
}

// parseA1 understands the ranges the client issues: 1:1, A2:H, A:H and A2:B.
func parseA1(a1 string) (tab string, start, end int) {
	tab, cells, _ := strings.Cut(a1, "!")
	from, to, _ := strings.Cut(cells, ":")
	start = rowNumber(from)
	if start == 0 {
		start = 1
	}
	return tab, start, rowNumber(to)
}

func rowNumber(ref string) int {
	n, _ := strconv.Atoi(strings.TrimLeft(ref, "ABCDEFGHIJKLMNOPQRSTUVWXYZ"))
	return n
}

func trimEmpty(rows [][]any) [][]any {
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// trimTrailingCells drops empty cells at the end of a row, as the values API does on read.
func trimTrailingCells(row []any) []any {
	for len(row) > 0 {
		last := row[len(row)-1]
		if last != nil && last != "" {
			break
		}
		row = row[:len(row)-1]
	}
	return row
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
}

func newTestClient(t *testing.T, fake *fakeSpreadsheet) *Client {
	t.Helper()

	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := gsheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("failed to create sheets service: %v", err)
	}

	client := NewClient(svc, testSpreadsheetID, zerolog.Nop())
	client.initialInterval = 1
	return client
}
