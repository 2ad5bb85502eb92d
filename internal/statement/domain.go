package statement

import "time"

// Report kinds rendered by the exporters.
const (
	KindCollection = "CollectionStatement"
	KindArrears    = "ArrearsReport"
)

// VacantTenantName is the sentinel rendered for units without a tenant.
const VacantTenantName = "VACANT"

// LedgerRow is the fully computed financial state of one unit/tenant.
// Rows are derived fresh for every statement build and never mutated.
type LedgerRow struct {
	UnitID     int64  `json:"unit_id"`
	UnitLabel  string `json:"unit_label"`
	TenantID   int64  `json:"tenant_id,omitempty"`
	TenantName string `json:"tenant_name"`
	GroupLabel string `json:"group_label"`

	ServiceChargeType string `json:"service_charge_type"`

	Deposit       float64 `json:"deposit"`
	RentDisplay   float64 `json:"rent_display"`
	ServiceCharge float64 `json:"service_charge"`
	VATAmount     float64 `json:"vat_amount"`
	TaxableAmount float64 `json:"taxable_amount"`
	AmountPayable float64 `json:"amount_payable"`
	AmountPaid    float64 `json:"amount_paid"`
	Balance       float64 `json:"balance"`

	Vacant bool `json:"vacant,omitempty"`
}

// Totals is the component-wise sum over a set of ledger rows.
type Totals struct {
	Deposit       float64 `json:"deposit"`
	Rent          float64 `json:"rent"`
	VAT           float64 `json:"vat"`
	ServiceCharge float64 `json:"service_charge"`
	Payable       float64 `json:"payable"`
	Paid          float64 `json:"paid"`
	Balance       float64 `json:"balance"`
}

// add folds one ledger row into the running totals.
func (t Totals) add(row LedgerRow) Totals {
	t.Deposit += row.Deposit
	t.Rent += row.RentDisplay
	t.VAT += row.VATAmount
	t.ServiceCharge += row.ServiceCharge
	t.Payable += row.AmountPayable
	t.Paid += row.AmountPaid
	t.Balance += row.Balance
	return t
}

// merge folds another Totals value into this one.
func (t Totals) merge(other Totals) Totals {
	t.Deposit += other.Deposit
	t.Rent += other.Rent
	t.VAT += other.VAT
	t.ServiceCharge += other.ServiceCharge
	t.Payable += other.Payable
	t.Paid += other.Paid
	t.Balance += other.Balance
	return t
}

// Group is one structural section of a collection statement.
type Group struct {
	Label string      `json:"label"`
	Rows  []LedgerRow `json:"rows"`
	Total Totals      `json:"total"`
}

// CollectionStatement is the aggregated output handed to exporters. Every
// group total equals the sum of its rows and the grand total equals the sum
// of group totals.
type CollectionStatement struct {
	PropertyID   int64     `json:"property_id"`
	PropertyName string    `json:"property_name"`
	GeneratedAt  time.Time `json:"generated_at"`
	Groups       []Group   `json:"groups"`
	GrandTotal   Totals    `json:"grand_total"`
}

// ObligationKind distinguishes the two arrears sources.
type ObligationKind string

const (
	ObligationRent ObligationKind = "RENT"
	ObligationBill ObligationKind = "BILL"
)

// Obligation is one expected-versus-paid record scanned for arrears.
type Obligation struct {
	Kind       ObligationKind `json:"kind"`
	Reference  string         `json:"reference"`
	TenantID   int64          `json:"tenant_id"`
	TenantName string         `json:"tenant_name"`
	Expected   float64        `json:"expected"`
	Paid       float64        `json:"paid"`
	DueAt      time.Time      `json:"due_at"`
}

// ArrearsStatus marks how far an obligation has been settled.
type ArrearsStatus string

const (
	StatusUnpaid        ArrearsStatus = "UNPAID"
	StatusPartiallyPaid ArrearsStatus = "PARTIALLY_PAID"
)

// ArrearsItem is one unpaid or partially-paid obligation.
type ArrearsItem struct {
	Obligation
	Balance float64       `json:"balance"`
	Status  ArrearsStatus `json:"status"`
}

// ArrearsSummary aggregates the emitted arrears items.
type ArrearsSummary struct {
	TotalExpected float64 `json:"total_expected"`
	TotalPaid     float64 `json:"total_paid"`
	TotalArrears  float64 `json:"total_arrears"`
	ItemCount     int     `json:"item_count"`
}

// ArrearsReport is the filtered arrears view handed to exporters.
type ArrearsReport struct {
	PropertyID   int64          `json:"property_id"`
	PropertyName string         `json:"property_name"`
	GeneratedAt  time.Time      `json:"generated_at"`
	Items        []ArrearsItem  `json:"items"`
	Summary      ArrearsSummary `json:"summary"`
}
