package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/keystone-pm/keystone/internal/property"
	"github.com/keystone-pm/keystone/internal/statement"
	"github.com/keystone-pm/keystone/internal/tenancy"
	_ "github.com/keystone-pm/keystone/testing"
)

type stubSource struct{}

func (stubSource) GetProperty(ctx context.Context, id int64) (*property.Property, error) {
	return &property.Property{ID: id, Name: "Sunrise Plaza"}, nil
}

func (stubSource) ListUnits(ctx context.Context, propertyID int64) ([]property.Unit, error) {
	return []property.Unit{
		{ID: 1, PropertyID: propertyID, Label: "G-01", UnitType: "Ground Floor Shop", RentAmount: 50000, TenantID: 9},
	}, nil
}

func (stubSource) ListTenants(ctx context.Context, propertyID int64) ([]tenancy.Tenant, error) {
	return []tenancy.Tenant{
		{ID: 9, Name: "Acme Ltd", Charge: tenancy.FixedCharge{Amount: 5000}, VATTreatment: tenancy.VATExclusive, VATRatePercent: 16},
	}, nil
}

func (stubSource) ListIncomes(ctx context.Context, propertyID int64) ([]tenancy.IncomeEntry, error) {
	return nil, nil
}

func (stubSource) ListRentObligations(ctx context.Context, propertyID int64) ([]statement.Obligation, error) {
	return []statement.Obligation{
		{Kind: statement.ObligationRent, Reference: "2026-08", TenantID: 9, TenantName: "Acme Ltd", Expected: 63800, Paid: 20000},
	}, nil
}

func (stubSource) ListBillObligations(ctx context.Context, propertyID int64) ([]statement.Obligation, error) {
	return nil, nil
}

type stubEnqueuer struct {
	lastPropertyID int64
	err            error
}

func (s *stubEnqueuer) EnqueueRefresh(ctx context.Context, propertyID int64) (string, error) {
	s.lastPropertyID = propertyID
	return "run-123", s.err
}

func newTestServer(t *testing.T, enqueuer RefreshEnqueuer) *httptest.Server {
	t.Helper()
	svc := statement.NewService(stubSource{}, nil, nil)
	svc.WithNow(func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	})
	handler := NewHandler(slog.Default(), svc, enqueuer)
	r := chi.NewRouter()
	r.Route("/api/properties", func(r chi.Router) {
		handler.MountRoutes(r)
	})
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func TestCollectionJSON(t *testing.T) {
	server := newTestServer(t, nil)

	resp, err := http.Get(server.URL + "/api/properties/1/statements/collection")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stmt statement.CollectionStatement
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stmt))
	require.Equal(t, "Sunrise Plaza", stmt.PropertyName)
	require.Len(t, stmt.Groups, 1)
	require.InDelta(t, 63800, stmt.GrandTotal.Payable, 0.01)
}

func TestCollectionXLSXDownload(t *testing.T) {
	server := newTestServer(t, nil)

	resp, err := http.Get(server.URL + "/api/properties/1/statements/collection.xlsx")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Equal(t, contentTypeXLSX, resp.Header.Get("Content-Type"))
	require.Equal(t,
		`attachment; filename="Sunrise_Plaza_CollectionStatement_2026-09-01.xlsx"`,
		resp.Header.Get("Content-Disposition"))

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotEmpty(t, payload)
}

func TestArrearsPDFDownload(t *testing.T) {
	server := newTestServer(t, nil)

	resp, err := http.Get(server.URL + "/api/properties/1/statements/arrears.pdf")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, contentTypePDF, resp.Header.Get("Content-Type"))

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, len(payload) > 4 && string(payload[:4]) == "%PDF")
}

func TestRefreshEnqueues(t *testing.T) {
	enqueuer := &stubEnqueuer{}
	server := newTestServer(t, enqueuer)

	resp, err := http.Post(server.URL+"/api/properties/7/statements/refresh", "application/json", nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.EqualValues(t, 7, enqueuer.lastPropertyID)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "run-123", body["job_id"])
}

func TestRefreshWithoutWorker(t *testing.T) {
	server := newTestServer(t, nil)

	resp, err := http.Post(server.URL+"/api/properties/7/statements/refresh", "application/json", nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestInvalidPropertyID(t *testing.T) {
	server := newTestServer(t, nil)

	resp, err := http.Get(server.URL + "/api/properties/abc/statements/collection")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
