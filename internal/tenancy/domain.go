package tenancy

import "time"

// VATTreatment enumerates how value added tax applies to a tenant's charges.
type VATTreatment string

const (
	// VATInclusive means VAT is already folded into the quoted rent.
	VATInclusive VATTreatment = "INCLUSIVE"
	// VATExclusive means VAT is added on top of rent plus service charge.
	VATExclusive VATTreatment = "EXCLUSIVE"
	// VATNotApplicable means no VAT is levied.
	VATNotApplicable VATTreatment = "NOT_APPLICABLE"
)

// DefaultVATRatePercent applies when a treatment requires a rate but none is set.
const DefaultVATRatePercent = 16.0

// Valid reports whether the treatment is one of the known values.
func (t VATTreatment) Valid() bool {
	switch t {
	case VATInclusive, VATExclusive, VATNotApplicable:
		return true
	}
	return false
}

// ChargeDefinition is the service-charge rule attached to a tenant.
// Exactly one variant is active per tenant; a nil ChargeDefinition is the
// valid "no service charge" state, not an error.
type ChargeDefinition interface {
	chargeDefinition()
	// Label returns the human-readable charge type shown on statements.
	Label() string
}

// FixedCharge levies a flat recurring amount.
type FixedCharge struct {
	Amount float64
}

// PercentOfRentCharge levies a percentage of the unit's rent.
type PercentOfRentCharge struct {
	Percent float64
}

// PerAreaCharge levies a rate per square foot of the unit's floor area.
type PerAreaCharge struct {
	RatePerSqFt float64
}

func (FixedCharge) chargeDefinition()         {}
func (PercentOfRentCharge) chargeDefinition() {}
func (PerAreaCharge) chargeDefinition()       {}

func (FixedCharge) Label() string         { return "Fixed" }
func (PercentOfRentCharge) Label() string { return "% of Rent" }
func (PerAreaCharge) Label() string       { return "Per Sq Ft" }

// Tenant holds the occupant record together with its charge and VAT rules.
type Tenant struct {
	ID             int64
	Name           string
	Email          string
	Phone          string
	Charge         ChargeDefinition // nil when no service charge applies
	VATTreatment   VATTreatment
	VATRatePercent float64 // 0 means unset
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// VATRate returns the effective VAT rate percentage, falling back to the
// default when the treatment needs a rate but none was configured.
func (t Tenant) VATRate() float64 {
	if t.VATTreatment == VATNotApplicable {
		return 0
	}
	if t.VATRatePercent <= 0 {
		return DefaultVATRatePercent
	}
	return t.VATRatePercent
}

// IncomeEntry is a payment received from a tenant.
type IncomeEntry struct {
	ID         int64
	TenantID   int64
	Amount     float64
	ReceivedAt time.Time
	Note       string
}

// RentInvoice is one rent-period obligation for a tenant.
type RentInvoice struct {
	ID       int64
	TenantID int64
	UnitID   int64
	Period   string // YYYY-MM
	Expected float64
	Paid     float64
	DueAt    time.Time
}

// BillInvoice is a utility or service bill obligation for a tenant.
type BillInvoice struct {
	ID        int64
	TenantID  int64
	Reference string
	Expected  float64
	Paid      float64
	DueAt     time.Time
}

// CreateTenantInput for registering tenants.
type CreateTenantInput struct {
	Name           string
	Email          string
	Phone          string
	Charge         ChargeDefinition
	VATTreatment   VATTreatment
	VATRatePercent float64
}

// RecordIncomeInput for recording received payments.
type RecordIncomeInput struct {
	TenantID   int64
	Amount     float64
	ReceivedAt time.Time
	Note       string
}

// CreateRentInvoiceInput for raising rent-period obligations.
type CreateRentInvoiceInput struct {
	TenantID int64
	UnitID   int64
	Period   string
	Expected float64
	Paid     float64
	DueAt    time.Time
}

// CreateBillInvoiceInput for raising bill obligations.
type CreateBillInvoiceInput struct {
	TenantID  int64
	Reference string
	Expected  float64
	Paid      float64
	DueAt     time.Time
}
