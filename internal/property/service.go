package property

import (
	"context"
	"errors"
	"strings"
)

// RepositoryPort defines data access methods for properties and units.
type RepositoryPort interface {
	CreateProperty(ctx context.Context, input CreatePropertyInput) (*Property, error)
	GetProperty(ctx context.Context, id int64) (*Property, error)
	ListProperties(ctx context.Context) ([]Property, error)
	CreateUnit(ctx context.Context, input CreateUnitInput) (*Unit, error)
	ListUnits(ctx context.Context, propertyID int64) ([]Unit, error)
	AssignTenant(ctx context.Context, unitID, tenantID int64) error
}

// Invalidator marks cached statement data stale after writes.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// Service handles property business logic.
type Service struct {
	repo        RepositoryPort
	invalidator Invalidator
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, invalidator Invalidator) *Service {
	return &Service{repo: repo, invalidator: invalidator}
}

// CreateProperty registers a new property.
func (s *Service) CreateProperty(ctx context.Context, input CreatePropertyInput) (*Property, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, errors.New("property name required")
	}
	prop, err := s.repo.CreateProperty(ctx, input)
	if err != nil {
		return nil, err
	}
	s.bump(ctx)
	return prop, nil
}

// GetProperty loads one property.
func (s *Service) GetProperty(ctx context.Context, id int64) (*Property, error) {
	if id == 0 {
		return nil, errors.New("property ID required")
	}
	return s.repo.GetProperty(ctx, id)
}

// ListProperties returns all properties.
func (s *Service) ListProperties(ctx context.Context) ([]Property, error) {
	return s.repo.ListProperties(ctx)
}

// CreateUnit registers a unit under a property.
func (s *Service) CreateUnit(ctx context.Context, input CreateUnitInput) (*Unit, error) {
	if input.PropertyID == 0 {
		return nil, errors.New("property ID required")
	}
	input.Label = strings.TrimSpace(input.Label)
	if input.Label == "" {
		return nil, errors.New("unit label required")
	}
	if input.RentAmount < 0 {
		return nil, errors.New("rent amount must not be negative")
	}
	if input.SizeSqFt < 0 {
		return nil, errors.New("unit size must not be negative")
	}
	unit, err := s.repo.CreateUnit(ctx, input)
	if err != nil {
		return nil, err
	}
	s.bump(ctx)
	return unit, nil
}

// ListUnits returns the units of a property in stable label order.
func (s *Service) ListUnits(ctx context.Context, propertyID int64) ([]Unit, error) {
	if propertyID == 0 {
		return nil, errors.New("property ID required")
	}
	return s.repo.ListUnits(ctx, propertyID)
}

// AssignTenant places a tenant into a unit; tenantID 0 vacates it.
func (s *Service) AssignTenant(ctx context.Context, unitID, tenantID int64) error {
	if unitID == 0 {
		return errors.New("unit ID required")
	}
	if err := s.repo.AssignTenant(ctx, unitID, tenantID); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

func (s *Service) bump(ctx context.Context) {
	if s.invalidator != nil {
		_ = s.invalidator.Bump(ctx)
	}
}
