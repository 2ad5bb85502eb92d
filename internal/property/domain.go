package property

import "time"

// Property is a managed building or estate.
type Property struct {
	ID        int64
	Name      string
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Unit is a lettable space inside a property. UnitType is a free-text
// floor/wing label ("Ground Floor Shop", "First Floor Residential", ...)
// used as the structural grouping key on statements.
type Unit struct {
	ID            int64
	PropertyID    int64
	Label         string
	UnitType      string
	SizeSqFt      float64
	RentAmount    float64
	DepositAmount float64
	TenantID      int64 // 0 when vacant
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Vacant reports whether the unit has no current tenant.
func (u Unit) Vacant() bool {
	return u.TenantID == 0
}

// CreatePropertyInput for registering properties.
type CreatePropertyInput struct {
	Name     string
	Location string
}

// CreateUnitInput for registering units under a property.
type CreateUnitInput struct {
	PropertyID    int64
	Label         string
	UnitType      string
	SizeSqFt      float64
	RentAmount    float64
	DepositAmount float64
	TenantID      int64
}
