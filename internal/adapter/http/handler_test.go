package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesa-earnings/internal/adapter/memory"
	"mesa-earnings/internal/adapter/usecase"
	"mesa-earnings/internal/core/domain"
	"mesa-earnings/internal/core/port"
)

type testServer struct {
	srv      *httptest.Server
	store    *memory.Store
	hub      domain.Hub
	campaign domain.Campaign
	order    domain.Order
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	ts := &testServer{store: memory.NewStore()}
	ts.hub = domain.Hub{ID: uuid.New(), Billing: &domain.BillingConfig{
		RevenueSharePercent: decimal.NewFromInt(10),
		PlatformCPMRate:     decimal.NewFromInt(1),
	}}
	ts.campaign = domain.Campaign{ID: uuid.New(), HubID: ts.hub.ID, StartDate: &start, EndDate: &end}
	ts.order = domain.Order{
		ID: uuid.New(), CampaignID: ts.campaign.ID, PublicationID: uuid.New(), HubID: ts.hub.ID,
		Status: domain.OrderConfirmed,
		Placements: []domain.Placement{{
			ItemPath: "web/banner", Channel: domain.ChannelWeb, PricingModel: domain.PricingCPM,
			Rate: decimal.NewFromInt(20), Frequency: 100, MonthlyImpressions: 5000,
		}},
	}
	ts.store.PutHub(ts.hub)
	ts.store.PutCampaign(ts.campaign)
	ts.store.PutOrder(ts.order)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := usecase.WithClock(func() time.Time { return now })
	billing := usecase.NewBillingUseCase(ts.store, ts.store, ts.store, ts.store.Billing(), clock)
	earnings := usecase.NewEarningsUseCase(ts.store, ts.store, ts.store, ts.store, clock, usecase.WithBillingSync(billing))

	h := NewHandler(earnings, billing, logger)
	h.MountMetrics("/metrics", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))
	ts.srv = httptest.NewServer(h.Router())
	t.Cleanup(ts.srv.Close)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, rd)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func TestEarningsLifecycle(t *testing.T) {
	ts := newTestServer(t)
	base := "/api/v1/orders/" + ts.order.ID.String() + "/earnings"

	status, body := ts.do(t, http.MethodPost, base, nil)
	require.Equal(t, http.StatusOK, status)
	earningsID, _ := body["id"].(string)
	require.NotEmpty(t, earningsID)
	assert.Equal(t, "200", body["estimated"].(map[string]any)["total"])

	ts.store.AddPerformanceEntry(domain.PerformanceEntry{
		OrderID: ts.order.ID, ItemPath: "web/banner", Channel: domain.ChannelWeb,
		Metrics: domain.Metrics{Impressions: 2500},
	})
	status, body = ts.do(t, http.MethodPost, base+"/refresh", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "50", body["actual"].(map[string]any)["total"])

	status, body = ts.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["stored"])
	assert.Equal(t, earningsID, body["earningsId"])

	status, body = ts.do(t, http.MethodPost, "/api/v1/earnings/"+earningsID+"/payments", map[string]any{
		"amount": "20.50", "recordedBy": "finance", "method": "ach",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "20.5", body["ledger"].(map[string]any)["amountPaid"])

	status, body = ts.do(t, http.MethodPost, base+"/finalize", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["finalized"])

	status, body = ts.do(t, http.MethodGet, "/api/v1/publications/"+ts.order.PublicationID.String()+"/earnings", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["orders"])
	assert.Equal(t, "29.5", body["amountOwed"])
}

func TestEarningsNotFoundAndIneligible(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodPost, "/api/v1/orders/"+uuid.NewString()+"/earnings", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not found", body["error"])

	status, _ = ts.do(t, http.MethodPost, "/api/v1/orders/not-an-id/earnings/refresh", nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Summaries never 404.
	status, body = ts.do(t, http.MethodGet, "/api/v1/orders/not-an-id/earnings", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "0", body["actual"])

	draft := ts.order
	draft.ID = uuid.New()
	draft.Status = domain.OrderDraft
	ts.store.PutOrder(draft)
	status, _ = ts.do(t, http.MethodPost, "/api/v1/orders/"+draft.ID.String()+"/earnings", nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestPaymentValidation(t *testing.T) {
	ts := newTestServer(t)
	_, body := ts.do(t, http.MethodPost, "/api/v1/orders/"+ts.order.ID.String()+"/earnings", nil)
	path := "/api/v1/earnings/" + body["id"].(string) + "/payments"

	tests := []struct {
		name   string
		body   any
		status int
		field  string
	}{
		{"malformed", `{"amount":`, http.StatusBadRequest, ""},
		{"missing recorder", map[string]any{"amount": 5}, http.StatusBadRequest, "RecordedBy"},
		{"missing amount", map[string]any{"recordedBy": "ops"}, http.StatusBadRequest, "Amount"},
		{"unknown method", map[string]any{"amount": 5, "recordedBy": "ops", "method": "barter"}, http.StatusBadRequest, "Method"},
		{"negative amount", map[string]any{"amount": -5, "recordedBy": "ops"}, http.StatusBadRequest, ""},
		{"ok", map[string]any{"amount": 5, "recordedBy": "ops", "paidAt": "2025-01-15T00:00:00Z"}, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := ts.do(t, http.MethodPost, path, tt.body)
			assert.Equal(t, tt.status, status)
			if tt.field != "" {
				fields, _ := body["fields"].(map[string]any)
				assert.Contains(t, fields, tt.field)
			}
		})
	}

	status, _ := ts.do(t, http.MethodPost, "/api/v1/earnings/"+uuid.NewString()+"/payments",
		map[string]any{"amount": 5, "recordedBy": "ops"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestBillingEndpoints(t *testing.T) {
	ts := newTestServer(t)
	campaign := "/api/v1/campaigns/" + ts.campaign.ID.String() + "/billing"

	status, _ := ts.do(t, http.MethodPost, "/api/v1/orders/"+ts.order.ID.String()+"/earnings", nil)
	require.Equal(t, http.StatusOK, status)

	status, body := ts.do(t, http.MethodPost, campaign, nil)
	require.Equal(t, http.StatusOK, status)
	billingID := body["id"].(string)
	fees := body["totals"].(map[string]any)["totalFees"].(map[string]any)
	assert.Equal(t, "30", fees["estimated"])

	status, _ = ts.do(t, http.MethodPost, campaign+"/refresh", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = ts.do(t, http.MethodPost, "/api/v1/billing/"+billingID+"/payments",
		map[string]any{"amount": "1.00", "recordedBy": "hub"})
	assert.Equal(t, http.StatusOK, status)

	status, body = ts.do(t, http.MethodGet, "/api/v1/hubs/"+ts.hub.ID.String()+"/billing", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["campaigns"])
	assert.Equal(t, "1", body["amountPaid"])

	status, body = ts.do(t, http.MethodGet, "/api/v1/billing/summary", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["hubs"], 1)

	status, body = ts.do(t, http.MethodPost, campaign+"/finalize", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["finalized"])

	status, _ = ts.do(t, http.MethodPost, "/api/v1/campaigns/"+uuid.NewString()+"/billing", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestFinalizeEndedEndpoint(t *testing.T) {
	ts := newTestServer(t)
	status, _ := ts.do(t, http.MethodPost, "/api/v1/orders/"+ts.order.ID.String()+"/earnings", nil)
	require.Equal(t, http.StatusOK, status)

	status, body := ts.do(t, http.MethodPost, "/api/v1/admin/finalize-ended?before=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid 'before' timestamp", body["error"])

	status, body = ts.do(t, http.MethodPost, "/api/v1/admin/finalize-ended?before=2025-04-01T00:00:00Z", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["finalized"])
	assert.Equal(t, "2025-04-01T00:00:00Z", body["before"])
}

func TestMetricsMount(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(raw))
}

type failingEarnings struct {
	port.EarningsUseCase
}

func (failingEarnings) OrderSummary(context.Context, string) (*port.EarningsSummary, error) {
	return nil, errors.New("database is on fire")
}

func TestInternalErrorsAreOpaque(t *testing.T) {
	h := NewHandler(failingEarnings{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+uuid.NewString()+"/earnings", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "internal error", body.Error)
}
