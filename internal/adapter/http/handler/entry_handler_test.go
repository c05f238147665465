package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/runway/internal/adapter/http/dto"
	"github.com/iho/runway/internal/domain"
	"github.com/iho/runway/internal/usecase"
)

type stubEntryService struct {
	listFn   func(ctx context.Context, input usecase.ListEntriesInput) ([]domain.EntryView, error)
	getFn    func(ctx context.Context, id string) (*domain.Entry, error)
	createFn func(ctx context.Context, input usecase.CreateEntryInput) (*domain.Entry, error)
	updateFn func(ctx context.Context, id string, input usecase.UpdateEntryInput) (*domain.Entry, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubEntryService) ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]domain.EntryView, error) {
	if s.listFn != nil {
		return s.listFn(ctx, input)
	}
	return []domain.EntryView{}, nil
}

func (s *stubEntryService) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, domain.ErrEntryNotFound
}

func (s *stubEntryService) CreateEntry(ctx context.Context, input usecase.CreateEntryInput) (*domain.Entry, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return nil, errors.New("not implemented")
}

func (s *stubEntryService) UpdateEntry(ctx context.Context, id string, input usecase.UpdateEntryInput) (*domain.Entry, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, input)
	}
	return nil, errors.New("not implemented")
}

func (s *stubEntryService) DeleteEntry(ctx context.Context, id string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func sampleEntry(id string) *domain.Entry {
	return &domain.Entry{
		ID:        id,
		Concept:   "Rent",
		Type:      domain.EntryTypeExpense,
		Frequency: domain.FrequencyMonthly,
		Amount:    decimal.NewFromInt(1200),
		StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestEntryHandler_ListPassesFilters(t *testing.T) {
	var got usecase.ListEntriesInput
	svc := &stubEntryService{
		listFn: func(ctx context.Context, input usecase.ListEntriesInput) ([]domain.EntryView, error) {
			got = input
			return []domain.EntryView{{Entry: *sampleEntry("e1"), MonthlyEquivalent: decimal.NewFromInt(1200)}}, nil
		},
	}
	h := NewEntryHandler(svc, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/entries?type=expense&frequency=monthly&month=2024-06", nil)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got.Type != domain.EntryTypeExpense || got.Frequency != domain.FrequencyMonthly {
		t.Fatalf("filters not forwarded: %+v", got)
	}
	if got.Month == nil || got.Month.String() != "2024-06" {
		t.Fatalf("month not forwarded: %v", got.Month)
	}

	var entries []dto.EntryResponse
	if err := json.Unmarshal(decodeEnvelope(t, rr).Data, &entries); err != nil {
		t.Fatalf("decode entries: %v", err)
	}
	if len(entries) != 1 || entries[0].MonthlyEquivalent == nil || !entries[0].MonthlyEquivalent.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestEntryHandler_ListRejectsBadFilters(t *testing.T) {
	h := NewEntryHandler(&stubEntryService{}, zerolog.Nop())

	for _, query := range []string{"type=salary", "frequency=weekly", "month=2024-6x"} {
		rr := httptest.NewRecorder()
		h.List(rr, httptest.NewRequest(http.MethodGet, "/entries?"+query, nil))
		expectError(t, rr, http.StatusBadRequest, dto.CodeValidation)
	}
}

func TestEntryHandler_GetNotFound(t *testing.T) {
	h := NewEntryHandler(&stubEntryService{}, zerolog.Nop())

	rr := httptest.NewRecorder()
	h.Get(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/entries/missing", nil), "id", "missing"))

	expectError(t, rr, http.StatusNotFound, dto.CodeNotFound)
}

func TestEntryHandler_Create(t *testing.T) {
	var got usecase.CreateEntryInput
	svc := &stubEntryService{
		createFn: func(ctx context.Context, input usecase.CreateEntryInput) (*domain.Entry, error) {
			got = input
			return sampleEntry("e1"), nil
		},
	}
	h := NewEntryHandler(svc, zerolog.Nop())

	body := `{"concept":"Rent","type":"expense","frequency":"monthly","amount":"1200","start_date":"2024-01-01"}`
	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/entries", bytes.NewBufferString(body)))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if got.Concept != "Rent" || !got.Amount.Equal(decimal.NewFromInt(1200)) || got.EndDate != nil {
		t.Fatalf("unexpected input %+v", got)
	}

	var entry dto.EntryResponse
	if err := json.Unmarshal(decodeEnvelope(t, rr).Data, &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry.ID != "e1" || entry.StartDate != "2024-01-01" {
		t.Fatalf("unexpected response %+v", entry)
	}
}

func TestEntryHandler_CreateValidation(t *testing.T) {
	svc := &stubEntryService{
		createFn: func(ctx context.Context, input usecase.CreateEntryInput) (*domain.Entry, error) {
			return nil, domain.ErrInvalidAmount
		},
	}
	h := NewEntryHandler(svc, zerolog.Nop())

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"concept":`},
		{"bad date", `{"concept":"Rent","type":"expense","frequency":"monthly","amount":"1","start_date":"01/01/2024"}`},
		{"rejected by use case", `{"concept":"Rent","type":"expense","frequency":"monthly","amount":"0","start_date":"2024-01-01"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.Create(rr, httptest.NewRequest(http.MethodPost, "/entries", bytes.NewBufferString(tt.body)))
			expectError(t, rr, http.StatusBadRequest, dto.CodeValidation)
		})
	}
}

func TestEntryHandler_UpdateClearsEndDate(t *testing.T) {
	var (
		gotID    string
		gotInput usecase.UpdateEntryInput
	)
	svc := &stubEntryService{
		updateFn: func(ctx context.Context, id string, input usecase.UpdateEntryInput) (*domain.Entry, error) {
			gotID, gotInput = id, input
			return sampleEntry(id), nil
		},
	}
	h := NewEntryHandler(svc, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPatch, "/entries/e1", bytes.NewBufferString(`{"notes":"moved","end_date":null}`))
	rr := httptest.NewRecorder()
	h.Update(rr, withURLParam(req, "id", "e1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotID != "e1" || !gotInput.ClearEndDate || gotInput.Notes == nil || *gotInput.Notes != "moved" {
		t.Fatalf("unexpected update %s %+v", gotID, gotInput)
	}
	if gotInput.Concept != nil || gotInput.Amount != nil {
		t.Fatalf("absent fields must stay nil: %+v", gotInput)
	}
}

func TestEntryHandler_Delete(t *testing.T) {
	svc := &stubEntryService{
		deleteFn: func(ctx context.Context, id string) error {
			if id != "e1" {
				return domain.ErrEntryNotFound
			}
			return nil
		},
	}
	h := NewEntryHandler(svc, zerolog.Nop())

	rr := httptest.NewRecorder()
	h.Delete(rr, withURLParam(httptest.NewRequest(http.MethodDelete, "/entries/e1", nil), "id", "e1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if data := string(decodeEnvelope(t, rr).Data); data != `{"id":"e1"}` {
		t.Fatalf("unexpected body %s", data)
	}

	rr = httptest.NewRecorder()
	h.Delete(rr, withURLParam(httptest.NewRequest(http.MethodDelete, "/entries/e2", nil), "id", "e2"))
	expectError(t, rr, http.StatusNotFound, dto.CodeNotFound)
}

func TestEntryHandler_StoreFailureHidesDetails(t *testing.T) {
	svc := &stubEntryService{
		listFn: func(ctx context.Context, input usecase.ListEntriesInput) ([]domain.EntryView, error) {
			return nil, errors.New("connection refused to 10.0.0.5")
		},
	}
	h := NewEntryHandler(svc, zerolog.Nop())

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/entries", nil))

	expectError(t, rr, http.StatusInternalServerError, dto.CodeInternal)
	if bytes.Contains(rr.Body.Bytes(), []byte("10.0.0.5")) {
		t.Fatalf("internal error details leaked: %s", rr.Body.String())
	}
}
