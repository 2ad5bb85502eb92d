package statement

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/keystone-pm/keystone/internal/platform/httpx"
	"github.com/keystone-pm/keystone/internal/property"
	"github.com/keystone-pm/keystone/internal/tenancy"
)

// Repository is the PostgreSQL backed SourcePort implementation. It reads
// across the property and tenancy tables scoped to one property.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetProperty loads the statement header data.
func (r *Repository) GetProperty(ctx context.Context, id int64) (*property.Property, error) {
	const query = `
		SELECT id, name, location, created_at, updated_at
		FROM properties WHERE id = $1`

	var prop property.Property
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&prop.ID, &prop.Name, &prop.Location, &prop.CreatedAt, &prop.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: property %d", httpx.ErrNotFound, id)
		}
		return nil, fmt.Errorf("statement: get property: %w", err)
	}
	return &prop, nil
}

// ListUnits returns the property's units in stable label order.
func (r *Repository) ListUnits(ctx context.Context, propertyID int64) ([]property.Unit, error) {
	const query = `
		SELECT id, property_id, label, unit_type, size_sqft, rent_amount,
		       deposit_amount, tenant_id, created_at, updated_at
		FROM units WHERE property_id = $1 ORDER BY label`

	rows, err := r.pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("statement: list units: %w", err)
	}
	defer rows.Close()

	var out []property.Unit
	for rows.Next() {
		var unit property.Unit
		var tenantID pgtype.Int8
		if err := rows.Scan(
			&unit.ID, &unit.PropertyID, &unit.Label, &unit.UnitType,
			&unit.SizeSqFt, &unit.RentAmount, &unit.DepositAmount,
			&tenantID, &unit.CreatedAt, &unit.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("statement: scan unit: %w", err)
		}
		if tenantID.Valid {
			unit.TenantID = tenantID.Int64
		}
		out = append(out, unit)
	}
	return out, rows.Err()
}

// ListTenants returns the tenants currently occupying the property's units.
func (r *Repository) ListTenants(ctx context.Context, propertyID int64) ([]tenancy.Tenant, error) {
	const query = `
		SELECT t.id, t.name, t.email, t.phone, t.charge_kind, t.charge_value,
		       t.vat_treatment, t.vat_rate_percent, t.created_at, t.updated_at
		FROM tenants t
		JOIN units u ON u.tenant_id = t.id
		WHERE u.property_id = $1`

	rows, err := r.pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("statement: list tenants: %w", err)
	}
	defer rows.Close()

	var out []tenancy.Tenant
	for rows.Next() {
		var tenant tenancy.Tenant
		var kindCol pgtype.Text
		var chargeValue float64
		var treatment string
		if err := rows.Scan(
			&tenant.ID, &tenant.Name, &tenant.Email, &tenant.Phone,
			&kindCol, &chargeValue, &treatment, &tenant.VATRatePercent,
			&tenant.CreatedAt, &tenant.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("statement: scan tenant: %w", err)
		}
		charge, err := tenancy.ParseCharge(kindCol.String, chargeValue)
		if err != nil {
			return nil, err
		}
		tenant.Charge = charge
		tenant.VATTreatment = tenancy.VATTreatment(treatment)
		out = append(out, tenant)
	}
	return out, rows.Err()
}

// ListIncomes returns every payment attributed to tenants of the property.
func (r *Repository) ListIncomes(ctx context.Context, propertyID int64) ([]tenancy.IncomeEntry, error) {
	const query = `
		SELECT i.id, i.tenant_id, i.amount, i.received_at, i.note
		FROM income_entries i
		JOIN units u ON u.tenant_id = i.tenant_id
		WHERE u.property_id = $1
		ORDER BY i.received_at, i.id`

	rows, err := r.pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("statement: list incomes: %w", err)
	}
	defer rows.Close()

	var out []tenancy.IncomeEntry
	for rows.Next() {
		var entry tenancy.IncomeEntry
		if err := rows.Scan(&entry.ID, &entry.TenantID, &entry.Amount, &entry.ReceivedAt, &entry.Note); err != nil {
			return nil, fmt.Errorf("statement: scan income: %w", err)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// ListPropertyIDs enumerates every property, used by full refresh runs.
func (r *Repository) ListPropertyIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM properties ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("statement: list property ids: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("statement: scan property id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ListRentObligations returns rent-period records for arrears scanning.
func (r *Repository) ListRentObligations(ctx context.Context, propertyID int64) ([]Obligation, error) {
	const query = `
		SELECT ri.period, ri.tenant_id, t.name, ri.expected, ri.paid, ri.due_at
		FROM rent_invoices ri
		JOIN tenants t ON t.id = ri.tenant_id
		JOIN units u ON u.id = ri.unit_id
		WHERE u.property_id = $1
		ORDER BY ri.due_at, ri.id`

	return r.listObligations(ctx, query, ObligationRent, propertyID)
}

// ListBillObligations returns bill-invoice records for arrears scanning.
func (r *Repository) ListBillObligations(ctx context.Context, propertyID int64) ([]Obligation, error) {
	const query = `
		SELECT bi.reference, bi.tenant_id, t.name, bi.expected, bi.paid, bi.due_at
		FROM bill_invoices bi
		JOIN tenants t ON t.id = bi.tenant_id
		JOIN units u ON u.tenant_id = bi.tenant_id
		WHERE u.property_id = $1
		ORDER BY bi.due_at, bi.id`

	return r.listObligations(ctx, query, ObligationBill, propertyID)
}

func (r *Repository) listObligations(ctx context.Context, query string, kind ObligationKind, propertyID int64) ([]Obligation, error) {
	rows, err := r.pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("statement: list %s obligations: %w", kind, err)
	}
	defer rows.Close()

	var out []Obligation
	for rows.Next() {
		ob := Obligation{Kind: kind}
		if err := rows.Scan(&ob.Reference, &ob.TenantID, &ob.TenantName, &ob.Expected, &ob.Paid, &ob.DueAt); err != nil {
			return nil, fmt.Errorf("statement: scan obligation: %w", err)
		}
		out = append(out, ob)
	}
	return out, rows.Err()
}
