package statement

import (
	"github.com/keystone-pm/keystone/internal/property"
	"github.com/keystone-pm/keystone/internal/tenancy"
)

// BuildLedgerRow combines the rate resolver and VAT calculator with the
// tenant's payment history into one ledger row.
//
// The payable formula is asymmetric on purpose: under Inclusive VAT the
// quoted rent already embeds the tax, so the payable is rent plus service
// charge with nothing added on top, while Exclusive and NotApplicable pay
// taxable plus VAT.
func BuildLedgerRow(unit property.Unit, tenant *tenancy.Tenant, incomes []tenancy.IncomeEntry) LedgerRow {
	row := LedgerRow{
		UnitID:     unit.ID,
		UnitLabel:  unit.Label,
		GroupLabel: ClassifyGroup(unit.UnitType),
	}

	if tenant == nil {
		// Vacant unit: monetary fields stay zero, the asking rent is
		// still shown for display.
		row.TenantName = VacantTenantName
		row.Vacant = true
		row.ServiceChargeType = NoChargeLabel
		row.RentDisplay = unit.RentAmount
		return row
	}

	row.TenantID = tenant.ID
	row.TenantName = tenant.Name
	row.Deposit = unit.DepositAmount

	rate := ResolveServiceCharge(unit, tenant)
	row.ServiceCharge = rate.ServiceCharge
	row.ServiceChargeType = rate.ChargeType

	vat := ComputeVAT(unit.RentAmount, rate.ServiceCharge, tenant.VATTreatment, tenant.VATRatePercent)
	row.VATAmount = vat.VATAmount
	row.TaxableAmount = vat.TaxableAmount

	if tenant.VATTreatment == tenancy.VATInclusive {
		row.RentDisplay = vat.TaxableAmount
		row.AmountPayable = unit.RentAmount + rate.ServiceCharge
	} else {
		row.RentDisplay = unit.RentAmount
		row.AmountPayable = vat.TaxableAmount + vat.VATAmount
	}

	for _, entry := range incomes {
		row.AmountPaid += entry.Amount
	}
	row.Balance = row.AmountPayable - row.AmountPaid
	return row
}
