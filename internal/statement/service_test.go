package statement

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/keystone-pm/keystone/internal/property"
	"github.com/keystone-pm/keystone/internal/tenancy"
)

type mockSource struct {
	prop    *property.Property
	units   []property.Unit
	tenants []tenancy.Tenant
	incomes []tenancy.IncomeEntry
	rents   []Obligation
	bills   []Obligation

	propErr   error
	unitsErr  error
	unitCalls int
}

func (m *mockSource) GetProperty(ctx context.Context, id int64) (*property.Property, error) {
	if m.propErr != nil {
		return nil, m.propErr
	}
	return m.prop, nil
}

func (m *mockSource) ListUnits(ctx context.Context, propertyID int64) ([]property.Unit, error) {
	m.unitCalls++
	if m.unitsErr != nil {
		return nil, m.unitsErr
	}
	return m.units, nil
}

func (m *mockSource) ListTenants(ctx context.Context, propertyID int64) ([]tenancy.Tenant, error) {
	return m.tenants, nil
}

func (m *mockSource) ListIncomes(ctx context.Context, propertyID int64) ([]tenancy.IncomeEntry, error) {
	return m.incomes, nil
}

func (m *mockSource) ListRentObligations(ctx context.Context, propertyID int64) ([]Obligation, error) {
	return m.rents, nil
}

func (m *mockSource) ListBillObligations(ctx context.Context, propertyID int64) ([]Obligation, error) {
	return m.bills, nil
}

func fixtureSource() *mockSource {
	return &mockSource{
		prop: &property.Property{ID: 1, Name: "Sunrise Plaza"},
		units: []property.Unit{
			{ID: 1, Label: "G-01", UnitType: "Ground Floor Shop", RentAmount: 50000, DepositAmount: 100000, TenantID: 9},
			{ID: 2, Label: "G-02", UnitType: "Ground Floor Shop", RentAmount: 30000},
			{ID: 3, Label: "R-01", UnitType: "Residential Apartment", RentAmount: 20000, TenantID: 11},
		},
		tenants: []tenancy.Tenant{
			{ID: 9, Name: "Acme Ltd", Charge: tenancy.FixedCharge{Amount: 5000}, VATTreatment: tenancy.VATExclusive, VATRatePercent: 16},
			{ID: 11, Name: "Jane Wanjiru", VATTreatment: tenancy.VATNotApplicable},
		},
		incomes: []tenancy.IncomeEntry{
			{ID: 1, TenantID: 9, Amount: 63800},
			{ID: 2, TenantID: 11, Amount: 8000},
		},
		rents: []Obligation{
			{Kind: ObligationRent, Reference: "2026-08", TenantID: 11, TenantName: "Jane Wanjiru", Expected: 20000, Paid: 8000},
		},
		bills: []Obligation{
			{Kind: ObligationBill, Reference: "WATER-0042", TenantID: 9, TenantName: "Acme Ltd", Expected: 4200, Paid: 0},
		},
	}
}

func newTestService(t *testing.T, source SourcePort) (*Service, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute)
	svc := NewService(source, cache, nil)
	svc.WithNow(func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	})
	return svc, cache
}

func TestBuildCollection(t *testing.T) {
	source := fixtureSource()
	svc, _ := newTestService(t, source)

	stmt, err := svc.BuildCollection(context.Background(), 1)
	require.NoError(t, err)

	require.Equal(t, "Sunrise Plaza", stmt.PropertyName)
	require.Len(t, stmt.Groups, 2)
	require.Equal(t, GroupGroundFloor, stmt.Groups[0].Label)
	require.Equal(t, GroupResidential, stmt.Groups[1].Label)

	ground := stmt.Groups[0]
	require.Len(t, ground.Rows, 2)
	require.Equal(t, "Acme Ltd", ground.Rows[0].TenantName)
	require.InDelta(t, 63800, ground.Rows[0].AmountPayable, moneyDelta)
	require.Equal(t, VacantTenantName, ground.Rows[1].TenantName)
	require.InDelta(t, 30000, ground.Rows[1].RentDisplay, moneyDelta)
	require.Zero(t, ground.Rows[1].AmountPayable)

	// Grand total equals the fold of group totals.
	var merged Totals
	for _, grp := range stmt.Groups {
		merged = merged.merge(grp.Total)
	}
	require.Equal(t, stmt.GrandTotal, merged)
	require.InDelta(t, 83800, stmt.GrandTotal.Payable, moneyDelta)
	require.InDelta(t, 71800, stmt.GrandTotal.Paid, moneyDelta)
}

func TestBuildCollectionCachesUntilBump(t *testing.T) {
	source := fixtureSource()
	svc, cache := newTestService(t, source)
	ctx := context.Background()

	_, err := svc.BuildCollection(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, source.unitCalls)

	_, err = svc.BuildCollection(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, source.unitCalls)

	require.NoError(t, cache.Bump(ctx))

	_, err = svc.BuildCollection(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 2, source.unitCalls)
}

func TestBuildCollectionFetchFailureAborts(t *testing.T) {
	source := fixtureSource()
	source.unitsErr = errors.New("connection reset")
	svc, _ := newTestService(t, source)

	_, err := svc.BuildCollection(context.Background(), 1)
	require.Error(t, err)
	require.ErrorContains(t, err, "fetch units")
}

func TestBuildArrears(t *testing.T) {
	source := fixtureSource()
	svc, _ := newTestService(t, source)

	report, err := svc.BuildArrears(context.Background(), 1)
	require.NoError(t, err)

	require.Equal(t, "Sunrise Plaza", report.PropertyName)
	require.Len(t, report.Items, 2)
	// Rent obligations precede bills.
	require.Equal(t, ObligationRent, report.Items[0].Kind)
	require.Equal(t, StatusPartiallyPaid, report.Items[0].Status)
	require.Equal(t, ObligationBill, report.Items[1].Kind)
	require.Equal(t, StatusUnpaid, report.Items[1].Status)
	require.InDelta(t, 16200, report.Summary.TotalArrears, moneyDelta)
}

func TestBuildWithoutCache(t *testing.T) {
	source := fixtureSource()
	svc := NewService(source, nil, nil)

	stmt, err := svc.BuildCollection(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, stmt.Groups, 2)

	_, err = svc.BuildCollection(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 2, source.unitCalls)
}
