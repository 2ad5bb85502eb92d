package statement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/keystone-pm/keystone/internal/property"
	"github.com/keystone-pm/keystone/internal/tenancy"
)

func TestBuildLedgerRowVacantUnit(t *testing.T) {
	unit := property.Unit{
		ID: 7, Label: "G-02", UnitType: "Ground Floor Shop",
		RentAmount: 30000, DepositAmount: 60000,
	}

	row := BuildLedgerRow(unit, nil, nil)

	require.Equal(t, VacantTenantName, row.TenantName)
	require.True(t, row.Vacant)
	require.Equal(t, GroupGroundFloor, row.GroupLabel)
	require.Equal(t, NoChargeLabel, row.ServiceChargeType)
	// Asking rent is displayed, every payable figure stays zero.
	require.InDelta(t, 30000, row.RentDisplay, moneyDelta)
	require.Zero(t, row.Deposit)
	require.Zero(t, row.ServiceCharge)
	require.Zero(t, row.VATAmount)
	require.Zero(t, row.AmountPayable)
	require.Zero(t, row.AmountPaid)
	require.Zero(t, row.Balance)
}

func TestBuildLedgerRowExclusive(t *testing.T) {
	unit := property.Unit{
		ID: 1, Label: "F1-01", UnitType: "First Floor Office",
		RentAmount: 50000, DepositAmount: 100000, TenantID: 9,
	}
	tenant := &tenancy.Tenant{
		ID: 9, Name: "Acme Ltd",
		Charge:         tenancy.FixedCharge{Amount: 5000},
		VATTreatment:   tenancy.VATExclusive,
		VATRatePercent: 16,
	}

	row := BuildLedgerRow(unit, tenant, nil)

	require.InDelta(t, 50000, row.RentDisplay, moneyDelta)
	require.InDelta(t, 5000, row.ServiceCharge, moneyDelta)
	require.InDelta(t, 8800, row.VATAmount, moneyDelta)
	require.InDelta(t, 63800, row.AmountPayable, moneyDelta)
	require.InDelta(t, 100000, row.Deposit, moneyDelta)
	require.InDelta(t, 63800, row.Balance, moneyDelta)
}

func TestBuildLedgerRowInclusive(t *testing.T) {
	unit := property.Unit{
		ID: 2, Label: "F1-02", UnitType: "First Floor Office",
		RentAmount: 50000, TenantID: 10,
	}
	tenant := &tenancy.Tenant{
		ID: 10, Name: "Beta Traders",
		Charge:         tenancy.FixedCharge{Amount: 5000},
		VATTreatment:   tenancy.VATInclusive,
		VATRatePercent: 16,
	}

	row := BuildLedgerRow(unit, tenant, nil)

	// Inclusive: the quoted gross is the payable, display shows the net.
	require.InDelta(t, 55000, row.AmountPayable, moneyDelta)
	require.InDelta(t, 47413.79, row.RentDisplay, moneyDelta)
	require.InDelta(t, 7586.21, row.VATAmount, moneyDelta)
}

func TestBuildLedgerRowPartialPayment(t *testing.T) {
	unit := property.Unit{
		ID: 3, Label: "R-11", UnitType: "Residential Apartment",
		RentAmount: 20000, TenantID: 11,
	}
	tenant := &tenancy.Tenant{
		ID: 11, Name: "Jane Wanjiru",
		VATTreatment: tenancy.VATNotApplicable,
	}
	incomes := []tenancy.IncomeEntry{
		{TenantID: 11, Amount: 8000, ReceivedAt: time.Now()},
		{TenantID: 11, Amount: 5000, ReceivedAt: time.Now()},
	}

	row := BuildLedgerRow(unit, tenant, incomes)

	require.Equal(t, GroupResidential, row.GroupLabel)
	require.InDelta(t, 20000, row.AmountPayable, moneyDelta)
	require.InDelta(t, 13000, row.AmountPaid, moneyDelta)
	require.InDelta(t, 7000, row.Balance, moneyDelta)
}

func TestBuildLedgerRowOverpayment(t *testing.T) {
	unit := property.Unit{ID: 4, Label: "R-12", UnitType: "Residential", RentAmount: 10000, TenantID: 12}
	tenant := &tenancy.Tenant{ID: 12, Name: "Otis", VATTreatment: tenancy.VATNotApplicable}
	incomes := []tenancy.IncomeEntry{{TenantID: 12, Amount: 12000}}

	row := BuildLedgerRow(unit, tenant, incomes)

	require.InDelta(t, -2000, row.Balance, moneyDelta)
}
