package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"

	"github.com/keystone-pm/keystone/internal/statement"
	"github.com/keystone-pm/keystone/internal/statement/export"
)

// StatementService rebuilds the statements a refresh run covers.
type StatementService interface {
	BuildCollection(ctx context.Context, propertyID int64) (statement.CollectionStatement, error)
	BuildArrears(ctx context.Context, propertyID int64) (statement.ArrearsReport, error)
}

// PropertyCatalog enumerates the properties a full refresh walks.
type PropertyCatalog interface {
	ListPropertyIDs(ctx context.Context) ([]int64, error)
}

// CacheBumper invalidates cached statements before a rebuild.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// StatementRefreshJob rebuilds cached statements and writes the rendered
// export files to the storage directory.
type StatementRefreshJob struct {
	Service    StatementService
	Catalog    PropertyCatalog
	Cache      CacheBumper
	StorageDir string
	Logger     *slog.Logger
	clock      func() time.Time
}

// NewStatementRefreshJob constructs the job handler. StorageDir may be
// empty, in which case no files are written.
func NewStatementRefreshJob(service StatementService, catalog PropertyCatalog, cache CacheBumper, storageDir string, logger *slog.Logger) *StatementRefreshJob {
	return &StatementRefreshJob{
		Service:    service,
		Catalog:    catalog,
		Cache:      cache,
		StorageDir: storageDir,
		Logger:     logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the statement refresh job.
func (j *StatementRefreshJob) Handle(ctx context.Context, task *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("statement refresh: dependencies not configured")
	}
	var payload StatementRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	if j.Cache != nil {
		if err := j.Cache.Bump(ctx); err != nil {
			j.log().Error("bump statement cache", slog.String("run_id", payload.RunID), slog.Any("error", err))
			return err
		}
	}

	propertyIDs, err := j.resolveProperties(ctx, payload.PropertyID)
	if err != nil {
		j.log().Error("resolve properties", slog.String("run_id", payload.RunID), slog.Any("error", err))
		return err
	}
	if len(propertyIDs) == 0 {
		j.log().Info("no properties to refresh", slog.String("run_id", payload.RunID))
		return nil
	}

	start := j.now()
	for _, propertyID := range propertyIDs {
		if err := j.refreshProperty(ctx, propertyID); err != nil {
			j.log().Error("refresh property statements",
				slog.String("run_id", payload.RunID),
				slog.Int64("property_id", propertyID),
				slog.Any("error", err))
			return err
		}
	}

	j.log().Info("refreshed statements",
		slog.String("run_id", payload.RunID),
		slog.Int("properties", len(propertyIDs)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *StatementRefreshJob) refreshProperty(ctx context.Context, propertyID int64) error {
	stmt, err := j.Service.BuildCollection(ctx, propertyID)
	if err != nil {
		return err
	}
	report, err := j.Service.BuildArrears(ctx, propertyID)
	if err != nil {
		return err
	}
	if j.StorageDir == "" {
		return nil
	}

	type artifact struct {
		name   string
		render func() ([]byte, error)
	}
	artifacts := []artifact{
		{
			name:   export.Filename(stmt.PropertyName, statement.KindCollection, stmt.GeneratedAt) + ".xlsx",
			render: func() ([]byte, error) { return export.CollectionXLSX(stmt) },
		},
		{
			name:   export.Filename(stmt.PropertyName, statement.KindCollection, stmt.GeneratedAt) + ".pdf",
			render: func() ([]byte, error) { return export.CollectionPDF(stmt) },
		},
		{
			name:   export.Filename(report.PropertyName, statement.KindArrears, report.GeneratedAt) + ".xlsx",
			render: func() ([]byte, error) { return export.ArrearsXLSX(report) },
		},
		{
			name:   export.Filename(report.PropertyName, statement.KindArrears, report.GeneratedAt) + ".pdf",
			render: func() ([]byte, error) { return export.ArrearsPDF(report) },
		},
	}
	if err := os.MkdirAll(j.StorageDir, 0o755); err != nil {
		return err
	}
	for _, art := range artifacts {
		payload, err := art.render()
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(j.StorageDir, art.name), payload, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (j *StatementRefreshJob) resolveProperties(ctx context.Context, propertyID int64) ([]int64, error) {
	if propertyID > 0 {
		return []int64{propertyID}, nil
	}
	if j.Catalog == nil {
		return nil, errors.New("statement refresh: property catalog not configured")
	}
	return j.Catalog.ListPropertyIDs(ctx)
}

func (j *StatementRefreshJob) log() *slog.Logger {
	if j != nil && j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskStatementRefresh))
	}
	return slog.Default().With(slog.String("job", TaskStatementRefresh))
}

func (j *StatementRefreshJob) now() time.Time {
	if j != nil && j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

// WithClock overrides the internal clock for deterministic tests.
func (j *StatementRefreshJob) WithClock(clock func() time.Time) {
	if j != nil && clock != nil {
		j.clock = clock
	}
}
