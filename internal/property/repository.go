package property

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

// Repository provides PostgreSQL backed persistence for properties.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const uniqueViolation = "23505"

// CreateProperty inserts a property row.
func (r *Repository) CreateProperty(ctx context.Context, input CreatePropertyInput) (*Property, error) {
	const query = `
		INSERT INTO properties (name, location, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	var prop Property
	err := r.pool.QueryRow(ctx, query, input.Name, input.Location).
		Scan(&prop.ID, &prop.CreatedAt, &prop.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: property %q", httpx.ErrDuplicate, input.Name)
		}
		return nil, fmt.Errorf("property: create: %w", err)
	}
	prop.Name = input.Name
	prop.Location = input.Location
	return &prop, nil
}

// GetProperty loads a property by ID.
func (r *Repository) GetProperty(ctx context.Context, id int64) (*Property, error) {
	const query = `
		SELECT id, name, location, created_at, updated_at
		FROM properties WHERE id = $1`

	var prop Property
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&prop.ID, &prop.Name, &prop.Location, &prop.CreatedAt, &prop.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: property %d", httpx.ErrNotFound, id)
		}
		return nil, fmt.Errorf("property: get: %w", err)
	}
	return &prop, nil
}

// ListProperties returns all properties ordered by name.
func (r *Repository) ListProperties(ctx context.Context) ([]Property, error) {
	const query = `
		SELECT id, name, location, created_at, updated_at
		FROM properties ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("property: list: %w", err)
	}
	defer rows.Close()

	var out []Property
	for rows.Next() {
		var prop Property
		if err := rows.Scan(&prop.ID, &prop.Name, &prop.Location, &prop.CreatedAt, &prop.UpdatedAt); err != nil {
			return nil, fmt.Errorf("property: scan: %w", err)
		}
		out = append(out, prop)
	}
	return out, rows.Err()
}

// CreateUnit inserts a unit row.
func (r *Repository) CreateUnit(ctx context.Context, input CreateUnitInput) (*Unit, error) {
	const query = `
		INSERT INTO units (
			property_id, label, unit_type, size_sqft, rent_amount,
			deposit_amount, tenant_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	var tenantID pgtype.Int8
	if input.TenantID > 0 {
		tenantID = pgtype.Int8{Int64: input.TenantID, Valid: true}
	}

	var unit Unit
	err := r.pool.QueryRow(ctx, query,
		input.PropertyID,
		input.Label,
		input.UnitType,
		input.SizeSqFt,
		input.RentAmount,
		input.DepositAmount,
		tenantID,
	).Scan(&unit.ID, &unit.CreatedAt, &unit.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: unit %q", httpx.ErrDuplicate, input.Label)
		}
		return nil, fmt.Errorf("property: create unit: %w", err)
	}
	unit.PropertyID = input.PropertyID
	unit.Label = input.Label
	unit.UnitType = input.UnitType
	unit.SizeSqFt = input.SizeSqFt
	unit.RentAmount = input.RentAmount
	unit.DepositAmount = input.DepositAmount
	unit.TenantID = input.TenantID
	return &unit, nil
}

// ListUnits returns the units of a property ordered by label.
func (r *Repository) ListUnits(ctx context.Context, propertyID int64) ([]Unit, error) {
	const query = `
		SELECT id, property_id, label, unit_type, size_sqft, rent_amount,
		       deposit_amount, tenant_id, created_at, updated_at
		FROM units WHERE property_id = $1 ORDER BY label`

	rows, err := r.pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("property: list units: %w", err)
	}
	defer rows.Close()

	var out []Unit
	for rows.Next() {
		var unit Unit
		var tenantID pgtype.Int8
		if err := rows.Scan(
			&unit.ID, &unit.PropertyID, &unit.Label, &unit.UnitType,
			&unit.SizeSqFt, &unit.RentAmount, &unit.DepositAmount,
			&tenantID, &unit.CreatedAt, &unit.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("property: scan unit: %w", err)
		}
		if tenantID.Valid {
			unit.TenantID = tenantID.Int64
		}
		out = append(out, unit)
	}
	return out, rows.Err()
}

// AssignTenant updates the current tenant of a unit. tenantID 0 clears it.
func (r *Repository) AssignTenant(ctx context.Context, unitID, tenantID int64) error {
	const query = `UPDATE units SET tenant_id = $2, updated_at = NOW() WHERE id = $1`

	var ref pgtype.Int8
	if tenantID > 0 {
		ref = pgtype.Int8{Int64: tenantID, Valid: true}
	}
	tag, err := r.pool.Exec(ctx, query, unitID, ref)
	if err != nil {
		return fmt.Errorf("property: assign tenant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: unit %d", httpx.ErrNotFound, unitID)
	}
	return nil
}
