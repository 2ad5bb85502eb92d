package tenancy

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

// RepositoryPort defines data access methods for tenancy.
type RepositoryPort interface {
	CreateTenant(ctx context.Context, input CreateTenantInput) (*Tenant, error)
	GetTenant(ctx context.Context, id int64) (*Tenant, error)
	ListTenants(ctx context.Context) ([]Tenant, error)
	RecordIncome(ctx context.Context, input RecordIncomeInput) (*IncomeEntry, error)
	ListIncomes(ctx context.Context, tenantID int64) ([]IncomeEntry, error)
	CreateRentInvoice(ctx context.Context, input CreateRentInvoiceInput) (*RentInvoice, error)
	CreateBillInvoice(ctx context.Context, input CreateBillInvoiceInput) (*BillInvoice, error)
}

// Invalidator marks cached statement data stale after writes.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// Service handles tenancy business logic.
type Service struct {
	repo        RepositoryPort
	invalidator Invalidator
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, invalidator Invalidator) *Service {
	return &Service{repo: repo, invalidator: invalidator}
}

var periodRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

// CreateTenant registers a tenant with its charge and VAT configuration.
func (s *Service) CreateTenant(ctx context.Context, input CreateTenantInput) (*Tenant, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, errors.New("tenant name required")
	}
	if input.VATTreatment == "" {
		input.VATTreatment = VATNotApplicable
	}
	if !input.VATTreatment.Valid() {
		return nil, errors.New("unknown VAT treatment")
	}
	if input.VATRatePercent < 0 {
		return nil, errors.New("VAT rate must not be negative")
	}
	tenant, err := s.repo.CreateTenant(ctx, input)
	if err != nil {
		return nil, err
	}
	s.bump(ctx)
	return tenant, nil
}

// GetTenant loads one tenant.
func (s *Service) GetTenant(ctx context.Context, id int64) (*Tenant, error) {
	if id == 0 {
		return nil, errors.New("tenant ID required")
	}
	return s.repo.GetTenant(ctx, id)
}

// ListTenants returns all tenants.
func (s *Service) ListTenants(ctx context.Context) ([]Tenant, error) {
	return s.repo.ListTenants(ctx)
}

// RecordIncome stores a received payment attributed to a tenant.
func (s *Service) RecordIncome(ctx context.Context, input RecordIncomeInput) (*IncomeEntry, error) {
	if input.TenantID == 0 {
		return nil, errors.New("tenant ID required")
	}
	if input.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	if input.ReceivedAt.IsZero() {
		input.ReceivedAt = time.Now()
	}
	entry, err := s.repo.RecordIncome(ctx, input)
	if err != nil {
		return nil, err
	}
	s.bump(ctx)
	return entry, nil
}

// ListIncomes returns the payments attributed to a tenant.
func (s *Service) ListIncomes(ctx context.Context, tenantID int64) ([]IncomeEntry, error) {
	if tenantID == 0 {
		return nil, errors.New("tenant ID required")
	}
	return s.repo.ListIncomes(ctx, tenantID)
}

// CreateRentInvoice raises a rent obligation for one period.
func (s *Service) CreateRentInvoice(ctx context.Context, input CreateRentInvoiceInput) (*RentInvoice, error) {
	if input.TenantID == 0 {
		return nil, errors.New("tenant ID required")
	}
	if !periodRegex.MatchString(input.Period) {
		return nil, errors.New("period must be YYYY-MM")
	}
	if input.Expected <= 0 {
		return nil, errors.New("expected amount must be positive")
	}
	if input.Paid < 0 {
		return nil, errors.New("paid amount must not be negative")
	}
	inv, err := s.repo.CreateRentInvoice(ctx, input)
	if err != nil {
		return nil, err
	}
	s.bump(ctx)
	return inv, nil
}

// CreateBillInvoice raises a bill obligation.
func (s *Service) CreateBillInvoice(ctx context.Context, input CreateBillInvoiceInput) (*BillInvoice, error) {
	if input.TenantID == 0 {
		return nil, errors.New("tenant ID required")
	}
	if strings.TrimSpace(input.Reference) == "" {
		return nil, errors.New("bill reference required")
	}
	if input.Expected <= 0 {
		return nil, errors.New("expected amount must be positive")
	}
	if input.Paid < 0 {
		return nil, errors.New("paid amount must not be negative")
	}
	inv, err := s.repo.CreateBillInvoice(ctx, input)
	if err != nil {
		return nil, err
	}
	s.bump(ctx)
	return inv, nil
}

func (s *Service) bump(ctx context.Context) {
	if s.invalidator != nil {
		_ = s.invalidator.Bump(ctx)
	}
}
