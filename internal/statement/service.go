package statement

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/keystone-pm/keystone/internal/observability"
	"github.com/keystone-pm/keystone/internal/property"
	"github.com/keystone-pm/keystone/internal/tenancy"
)

// SourcePort supplies the raw records a statement build consumes. The core
// is agnostic to where they come from; the pgx repository is the default
// implementation.
type SourcePort interface {
	GetProperty(ctx context.Context, id int64) (*property.Property, error)
	ListUnits(ctx context.Context, propertyID int64) ([]property.Unit, error)
	ListTenants(ctx context.Context, propertyID int64) ([]tenancy.Tenant, error)
	ListIncomes(ctx context.Context, propertyID int64) ([]tenancy.IncomeEntry, error)
	ListRentObligations(ctx context.Context, propertyID int64) ([]Obligation, error)
	ListBillObligations(ctx context.Context, propertyID int64) ([]Obligation, error)
}

// Service computes collection statements and arrears reports.
type Service struct {
	source  SourcePort
	cache   *Cache
	metrics *observability.Metrics
	now     func() time.Time
}

// NewService builds Service instance. Cache and metrics may be nil.
func NewService(source SourcePort, cache *Cache, metrics *observability.Metrics) *Service {
	return &Service{source: source, cache: cache, metrics: metrics, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// snapshot is the immutable record set one export operates on. It is
// fetched once; the computation that follows performs no further I/O.
type snapshot struct {
	property *property.Property
	units    []property.Unit
	tenants  map[int64]tenancy.Tenant
	incomes  map[int64][]tenancy.IncomeEntry
	rents    []Obligation
	bills    []Obligation
}

// loadSnapshot fetches all source collections in parallel. Any failed
// fetch aborts the whole export; a statement is never built from partial
// data.
func (s *Service) loadSnapshot(ctx context.Context, propertyID int64) (*snapshot, error) {
	snap := &snapshot{
		tenants: make(map[int64]tenancy.Tenant),
		incomes: make(map[int64][]tenancy.IncomeEntry),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		prop, err := s.source.GetProperty(ctx, propertyID)
		if err != nil {
			return fmt.Errorf("statement: fetch property: %w", err)
		}
		snap.property = prop
		return nil
	})
	g.Go(func() error {
		units, err := s.source.ListUnits(ctx, propertyID)
		if err != nil {
			return fmt.Errorf("statement: fetch units: %w", err)
		}
		snap.units = units
		return nil
	})
	g.Go(func() error {
		tenants, err := s.source.ListTenants(ctx, propertyID)
		if err != nil {
			return fmt.Errorf("statement: fetch tenants: %w", err)
		}
		for _, t := range tenants {
			snap.tenants[t.ID] = t
		}
		return nil
	})
	g.Go(func() error {
		incomes, err := s.source.ListIncomes(ctx, propertyID)
		if err != nil {
			return fmt.Errorf("statement: fetch incomes: %w", err)
		}
		for _, entry := range incomes {
			snap.incomes[entry.TenantID] = append(snap.incomes[entry.TenantID], entry)
		}
		return nil
	})
	g.Go(func() error {
		rents, err := s.source.ListRentObligations(ctx, propertyID)
		if err != nil {
			return fmt.Errorf("statement: fetch rent obligations: %w", err)
		}
		snap.rents = rents
		return nil
	})
	g.Go(func() error {
		bills, err := s.source.ListBillObligations(ctx, propertyID)
		if err != nil {
			return fmt.Errorf("statement: fetch bill obligations: %w", err)
		}
		snap.bills = bills
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// buildCollection runs the full ledger pipeline over a snapshot.
func (s *Service) buildCollection(snap *snapshot) CollectionStatement {
	rows := make([]LedgerRow, 0, len(snap.units))
	for _, unit := range snap.units {
		var tenant *tenancy.Tenant
		var incomes []tenancy.IncomeEntry
		if !unit.Vacant() {
			if t, ok := snap.tenants[unit.TenantID]; ok {
				tenant = &t
				incomes = snap.incomes[t.ID]
			}
		}
		rows = append(rows, BuildLedgerRow(unit, tenant, incomes))
	}

	groups, grand := Aggregate(rows)
	return CollectionStatement{
		PropertyID:   snap.property.ID,
		PropertyName: snap.property.Name,
		GeneratedAt:  s.now().UTC(),
		Groups:       groups,
		GrandTotal:   grand,
	}
}

// BuildCollection computes (or serves from cache) the collection statement
// for a property.
func (s *Service) BuildCollection(ctx context.Context, propertyID int64) (CollectionStatement, error) {
	key, err := s.cache.BuildKey(ctx, keyCollection(propertyID))
	if err != nil {
		return CollectionStatement{}, err
	}
	var stmt CollectionStatement
	err = s.cache.FetchJSON(ctx, key, &stmt, func(ctx context.Context) (interface{}, error) {
		start := time.Now()
		snap, err := s.loadSnapshot(ctx, propertyID)
		if err != nil {
			s.observe(KindCollection, "error", start)
			return nil, err
		}
		built := s.buildCollection(snap)
		s.observe(KindCollection, "ok", start)
		return built, nil
	})
	if err != nil {
		return CollectionStatement{}, err
	}
	return stmt, nil
}

// BuildArrears computes (or serves from cache) the arrears report for a
// property. Rent obligations come first, then bills, each in source order.
func (s *Service) BuildArrears(ctx context.Context, propertyID int64) (ArrearsReport, error) {
	key, err := s.cache.BuildKey(ctx, keyArrears(propertyID))
	if err != nil {
		return ArrearsReport{}, err
	}
	var report ArrearsReport
	err = s.cache.FetchJSON(ctx, key, &report, func(ctx context.Context) (interface{}, error) {
		start := time.Now()
		snap, err := s.loadSnapshot(ctx, propertyID)
		if err != nil {
			s.observe(KindArrears, "error", start)
			return nil, err
		}
		obligations := make([]Obligation, 0, len(snap.rents)+len(snap.bills))
		obligations = append(obligations, snap.rents...)
		obligations = append(obligations, snap.bills...)
		items, summary := ExtractArrears(obligations)
		s.observe(KindArrears, "ok", start)
		return ArrearsReport{
			PropertyID:   snap.property.ID,
			PropertyName: snap.property.Name,
			GeneratedAt:  s.now().UTC(),
			Items:        items,
			Summary:      summary,
		}, nil
	})
	if err != nil {
		return ArrearsReport{}, err
	}
	return report, nil
}

func (s *Service) observe(kind, outcome string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveStatementBuild(kind, outcome, time.Since(start))
	}
}
