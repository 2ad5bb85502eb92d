package statement

import (
	"github.com/keystone-pm/keystone/internal/property"
	"github.com/keystone-pm/keystone/internal/tenancy"
)

// NoChargeLabel is shown when a tenant carries no service-charge rule.
const NoChargeLabel = "-"

// ResolvedRate is the effective service charge for one unit/tenant pair.
type ResolvedRate struct {
	ServiceCharge float64
	ChargeType    string
}

// ResolveServiceCharge derives the service charge from the tenant's charge
// definition. A vacant unit or a tenant without a charge rule resolves to
// zero; neither is an error.
func ResolveServiceCharge(unit property.Unit, tenant *tenancy.Tenant) ResolvedRate {
	if tenant == nil || tenant.Charge == nil {
		return ResolvedRate{ServiceCharge: 0, ChargeType: NoChargeLabel}
	}
	switch charge := tenant.Charge.(type) {
	case tenancy.FixedCharge:
		return ResolvedRate{ServiceCharge: charge.Amount, ChargeType: charge.Label()}
	case tenancy.PercentOfRentCharge:
		return ResolvedRate{
			ServiceCharge: unit.RentAmount * charge.Percent / 100,
			ChargeType:    charge.Label(),
		}
	case tenancy.PerAreaCharge:
		return ResolvedRate{
			ServiceCharge: unit.SizeSqFt * charge.RatePerSqFt,
			ChargeType:    charge.Label(),
		}
	}
	// Unreachable while the sum type stays sealed.
	return ResolvedRate{ServiceCharge: 0, ChargeType: NoChargeLabel}
}
