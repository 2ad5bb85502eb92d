package property

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keystone-pm/keystone/internal/platform/httpx"
)

type mockRepository struct {
	properties map[int64]*Property
	units      map[int64]*Unit
	nextID     int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		properties: make(map[int64]*Property),
		units:      make(map[int64]*Unit),
		nextID:     1,
	}
}

func (m *mockRepository) CreateProperty(ctx context.Context, input CreatePropertyInput) (*Property, error) {
	prop := &Property{ID: m.nextID, Name: input.Name, Location: input.Location}
	m.properties[prop.ID] = prop
	m.nextID++
	return prop, nil
}

func (m *mockRepository) GetProperty(ctx context.Context, id int64) (*Property, error) {
	prop, ok := m.properties[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return prop, nil
}

func (m *mockRepository) ListProperties(ctx context.Context) ([]Property, error) {
	out := make([]Property, 0, len(m.properties))
	for _, prop := range m.properties {
		out = append(out, *prop)
	}
	return out, nil
}

func (m *mockRepository) CreateUnit(ctx context.Context, input CreateUnitInput) (*Unit, error) {
	unit := &Unit{
		ID: m.nextID, PropertyID: input.PropertyID, Label: input.Label,
		UnitType: input.UnitType, SizeSqFt: input.SizeSqFt,
		RentAmount: input.RentAmount, DepositAmount: input.DepositAmount,
		TenantID: input.TenantID,
	}
	m.units[unit.ID] = unit
	m.nextID++
	return unit, nil
}

func (m *mockRepository) ListUnits(ctx context.Context, propertyID int64) ([]Unit, error) {
	out := make([]Unit, 0)
	for _, unit := range m.units {
		if unit.PropertyID == propertyID {
			out = append(out, *unit)
		}
	}
	return out, nil
}

func (m *mockRepository) AssignTenant(ctx context.Context, unitID, tenantID int64) error {
	unit, ok := m.units[unitID]
	if !ok {
		return httpx.ErrNotFound
	}
	unit.TenantID = tenantID
	return nil
}

type countingInvalidator struct {
	bumps int
}

func (c *countingInvalidator) Bump(ctx context.Context) error {
	c.bumps++
	return nil
}

func TestCreatePropertyValidatesName(t *testing.T) {
	svc := NewService(newMockRepository(), nil)

	_, err := svc.CreateProperty(context.Background(), CreatePropertyInput{Name: "   "})
	require.Error(t, err)

	prop, err := svc.CreateProperty(context.Background(), CreatePropertyInput{Name: " Sunrise Plaza ", Location: "Nairobi"})
	require.NoError(t, err)
	require.Equal(t, "Sunrise Plaza", prop.Name)
}

func TestCreateUnitValidation(t *testing.T) {
	svc := NewService(newMockRepository(), nil)
	ctx := context.Background()

	_, err := svc.CreateUnit(ctx, CreateUnitInput{Label: "G-01"})
	require.ErrorContains(t, err, "property ID")

	_, err = svc.CreateUnit(ctx, CreateUnitInput{PropertyID: 1, Label: " "})
	require.ErrorContains(t, err, "label")

	_, err = svc.CreateUnit(ctx, CreateUnitInput{PropertyID: 1, Label: "G-01", RentAmount: -5})
	require.ErrorContains(t, err, "rent")

	unit, err := svc.CreateUnit(ctx, CreateUnitInput{PropertyID: 1, Label: "G-01", RentAmount: 30000})
	require.NoError(t, err)
	require.True(t, unit.Vacant())
}

func TestWritesBumpInvalidator(t *testing.T) {
	inv := &countingInvalidator{}
	svc := NewService(newMockRepository(), inv)
	ctx := context.Background()

	prop, err := svc.CreateProperty(ctx, CreatePropertyInput{Name: "Sunrise Plaza"})
	require.NoError(t, err)
	unit, err := svc.CreateUnit(ctx, CreateUnitInput{PropertyID: prop.ID, Label: "G-01", RentAmount: 30000})
	require.NoError(t, err)
	require.NoError(t, svc.AssignTenant(ctx, unit.ID, 9))

	require.Equal(t, 3, inv.bumps)
}

func TestAssignTenantVacates(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	unit, err := svc.CreateUnit(ctx, CreateUnitInput{PropertyID: 1, Label: "G-01", RentAmount: 30000, TenantID: 9})
	require.NoError(t, err)
	require.False(t, unit.Vacant())

	require.NoError(t, svc.AssignTenant(ctx, unit.ID, 0))
	units, err := svc.ListUnits(ctx, 1)
	require.NoError(t, err)
	require.Len(t, units, 1)
	require.True(t, units[0].Vacant())
}
