package tenancy

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/keystone-pm/keystone/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for tenancy.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const uniqueViolation = "23505"

// CreateTenant inserts a tenant row, flattening the charge definition into
// its (kind, value) columns.
func (r *Repository) CreateTenant(ctx context.Context, input CreateTenantInput) (*Tenant, error) {
	const query = `
		INSERT INTO tenants (
			name, email, phone, charge_kind, charge_value,
			vat_treatment, vat_rate_percent, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	chargeKind, chargeValue := EncodeCharge(input.Charge)
	var kindCol pgtype.Text
	if chargeKind != "" {
		kindCol = pgtype.Text{String: chargeKind, Valid: true}
	}

	var tenant Tenant
	err := r.pool.QueryRow(ctx, query,
		input.Name,
		input.Email,
		input.Phone,
		kindCol,
		chargeValue,
		string(input.VATTreatment),
		input.VATRatePercent,
	).Scan(&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: tenant %q", httpx.ErrDuplicate, input.Name)
		}
		return nil, fmt.Errorf("tenancy: create tenant: %w", err)
	}
	tenant.Name = input.Name
	tenant.Email = input.Email
	tenant.Phone = input.Phone
	tenant.Charge = input.Charge
	tenant.VATTreatment = input.VATTreatment
	tenant.VATRatePercent = input.VATRatePercent
	return &tenant, nil
}

func scanTenant(row pgx.Row) (*Tenant, error) {
	var tenant Tenant
	var kindCol pgtype.Text
	var chargeValue float64
	var treatment string
	if err := row.Scan(
		&tenant.ID, &tenant.Name, &tenant.Email, &tenant.Phone,
		&kindCol, &chargeValue, &treatment, &tenant.VATRatePercent,
		&tenant.CreatedAt, &tenant.UpdatedAt,
	); err != nil {
		return nil, err
	}
	charge, err := ParseCharge(kindCol.String, chargeValue)
	if err != nil {
		return nil, err
	}
	tenant.Charge = charge
	tenant.VATTreatment = VATTreatment(treatment)
	return &tenant, nil
}

const tenantColumns = `id, name, email, phone, charge_kind, charge_value,
	vat_treatment, vat_rate_percent, created_at, updated_at`

// GetTenant loads a tenant by ID.
func (r *Repository) GetTenant(ctx context.Context, id int64) (*Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`

	tenant, err := scanTenant(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: tenant %d", httpx.ErrNotFound, id)
		}
		return nil, fmt.Errorf("tenancy: get tenant: %w", err)
	}
	return tenant, nil
}

// ListTenants returns all tenants ordered by name.
func (r *Repository) ListTenants(ctx context.Context) ([]Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("tenancy: list tenants: %w", err)
	}
	defer rows.Close()

	var out []Tenant
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("tenancy: scan tenant: %w", err)
		}
		out = append(out, *tenant)
	}
	return out, rows.Err()
}

// RecordIncome inserts an income entry.
func (r *Repository) RecordIncome(ctx context.Context, input RecordIncomeInput) (*IncomeEntry, error) {
	const query = `
		INSERT INTO income_entries (tenant_id, amount, received_at, note, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id`

	entry := IncomeEntry{
		TenantID:   input.TenantID,
		Amount:     input.Amount,
		ReceivedAt: input.ReceivedAt,
		Note:       input.Note,
	}
	err := r.pool.QueryRow(ctx, query,
		input.TenantID, input.Amount, input.ReceivedAt, input.Note,
	).Scan(&entry.ID)
	if err != nil {
		return nil, fmt.Errorf("tenancy: record income: %w", err)
	}
	return &entry, nil
}

// ListIncomes returns the income entries of a tenant in received order.
func (r *Repository) ListIncomes(ctx context.Context, tenantID int64) ([]IncomeEntry, error) {
	const query = `
		SELECT id, tenant_id, amount, received_at, note
		FROM income_entries WHERE tenant_id = $1 ORDER BY received_at, id`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("tenancy: list incomes: %w", err)
	}
	defer rows.Close()

	var out []IncomeEntry
	for rows.Next() {
		var entry IncomeEntry
		if err := rows.Scan(&entry.ID, &entry.TenantID, &entry.Amount, &entry.ReceivedAt, &entry.Note); err != nil {
			return nil, fmt.Errorf("tenancy: scan income: %w", err)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// CreateRentInvoice inserts a rent-period obligation.
func (r *Repository) CreateRentInvoice(ctx context.Context, input CreateRentInvoiceInput) (*RentInvoice, error) {
	const query = `
		INSERT INTO rent_invoices (tenant_id, unit_id, period, expected, paid, due_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id`

	inv := RentInvoice{
		TenantID: input.TenantID,
		UnitID:   input.UnitID,
		Period:   input.Period,
		Expected: input.Expected,
		Paid:     input.Paid,
		DueAt:    input.DueAt,
	}
	err := r.pool.QueryRow(ctx, query,
		input.TenantID, input.UnitID, input.Period, input.Expected, input.Paid, input.DueAt,
	).Scan(&inv.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: rent invoice %s", httpx.ErrDuplicate, input.Period)
		}
		return nil, fmt.Errorf("tenancy: create rent invoice: %w", err)
	}
	return &inv, nil
}

// CreateBillInvoice inserts a bill obligation.
func (r *Repository) CreateBillInvoice(ctx context.Context, input CreateBillInvoiceInput) (*BillInvoice, error) {
	const query = `
		INSERT INTO bill_invoices (tenant_id, reference, expected, paid, due_at, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id`

	inv := BillInvoice{
		TenantID:  input.TenantID,
		Reference: input.Reference,
		Expected:  input.Expected,
		Paid:      input.Paid,
		DueAt:     input.DueAt,
	}
	err := r.pool.QueryRow(ctx, query,
		input.TenantID, input.Reference, input.Expected, input.Paid, input.DueAt,
	).Scan(&inv.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: bill %s", httpx.ErrDuplicate, input.Reference)
		}
		return nil, fmt.Errorf("tenancy: create bill invoice: %w", err)
	}
	return &inv, nil
}
