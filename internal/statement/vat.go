package statement

import (
	"github.com/keystone-pm/keystone/internal/tenancy"
)

// VATResult splits a charge base into its tax and taxable components.
type VATResult struct {
	VATAmount     float64
	TaxableAmount float64
}

// ComputeVAT applies a VAT treatment to rent plus service charge.
// ratePercent 0 or below falls back to the default rate unless the
// treatment is NotApplicable.
//
// Inclusive extraction divides by (1 + r) rather than multiplying by r:
// the quoted gross already contains the tax, so taxable + vat must equal
// the gross exactly.
func ComputeVAT(rentAmount, serviceCharge float64, treatment tenancy.VATTreatment, ratePercent float64) VATResult {
	gross := rentAmount + serviceCharge
	if treatment == tenancy.VATNotApplicable {
		return VATResult{VATAmount: 0, TaxableAmount: gross}
	}
	if ratePercent <= 0 {
		ratePercent = tenancy.DefaultVATRatePercent
	}
	r := ratePercent / 100

	switch treatment {
	case tenancy.VATExclusive:
		return VATResult{
			VATAmount:     gross * r,
			TaxableAmount: gross,
		}
	case tenancy.VATInclusive:
		vat := gross - gross/(1+r)
		return VATResult{
			VATAmount:     vat,
			TaxableAmount: gross - vat,
		}
	}
	// Unknown treatments degrade to not-applicable.
	return VATResult{VATAmount: 0, TaxableAmount: gross}
}
