package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/keystone-pm/keystone/internal/statement"
)

type stubStatementService struct {
	buildCalls []int64
	buildErr   error
}

func (s *stubStatementService) BuildCollection(ctx context.Context, propertyID int64) (statement.CollectionStatement, error) {
	s.buildCalls = append(s.buildCalls, propertyID)
	if s.buildErr != nil {
		return statement.CollectionStatement{}, s.buildErr
	}
	return statement.CollectionStatement{
		PropertyID:   propertyID,
		PropertyName: "Sunrise Plaza",
		GeneratedAt:  time.Date(2026, 9, 1, 2, 0, 0, 0, time.UTC),
	}, nil
}

func (s *stubStatementService) BuildArrears(ctx context.Context, propertyID int64) (statement.ArrearsReport, error) {
	return statement.ArrearsReport{
		PropertyID:   propertyID,
		PropertyName: "Sunrise Plaza",
		GeneratedAt:  time.Date(2026, 9, 1, 2, 0, 0, 0, time.UTC),
	}, nil
}

type stubCatalog struct {
	ids []int64
}

func (s stubCatalog) ListPropertyIDs(ctx context.Context) ([]int64, error) {
	return s.ids, nil
}

type stubBumper struct {
	bumps int
}

func (s *stubBumper) Bump(ctx context.Context) error {
	s.bumps++
	return nil
}

func refreshTask(t *testing.T, propertyID int64) *asynq.Task {
	t.Helper()
	task, runID, err := NewStatementRefreshTask(propertyID)
	require.NoError(t, err)
	require.NotEmpty(t, runID)
	return task
}

func TestStatementRefreshSingleProperty(t *testing.T) {
	svc := &stubStatementService{}
	bumper := &stubBumper{}
	dir := t.TempDir()
	job := NewStatementRefreshJob(svc, stubCatalog{}, bumper, dir, nil)

	err := job.Handle(context.Background(), refreshTask(t, 7))
	require.NoError(t, err)

	require.Equal(t, []int64{7}, svc.buildCalls)
	require.Equal(t, 1, bumper.bumps)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	_, err = os.Stat(filepath.Join(dir, "Sunrise_Plaza_CollectionStatement_2026-09-01.xlsx"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "Sunrise_Plaza_ArrearsReport_2026-09-01.pdf"))
	require.NoError(t, err)
}

func TestStatementRefreshAllProperties(t *testing.T) {
	svc := &stubStatementService{}
	job := NewStatementRefreshJob(svc, stubCatalog{ids: []int64{1, 2, 3}}, nil, "", nil)

	err := job.Handle(context.Background(), refreshTask(t, 0))
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, svc.buildCalls)
}

func TestStatementRefreshBuildFailure(t *testing.T) {
	svc := &stubStatementService{buildErr: errors.New("source unavailable")}
	job := NewStatementRefreshJob(svc, stubCatalog{}, nil, "", nil)

	err := job.Handle(context.Background(), refreshTask(t, 7))
	require.ErrorContains(t, err, "source unavailable")
}

func TestStatementRefreshBadPayloadSkipsRetry(t *testing.T) {
	job := NewStatementRefreshJob(&stubStatementService{}, stubCatalog{}, nil, "", nil)
	task := asynq.NewTask(TaskStatementRefresh, []byte("not json"))

	err := job.Handle(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestNewStatementRefreshTaskPayload(t *testing.T) {
	task, runID, err := NewStatementRefreshTask(42)
	require.NoError(t, err)
	require.Equal(t, TaskStatementRefresh, task.Type())

	var payload StatementRefreshPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.EqualValues(t, 42, payload.PropertyID)
	require.Equal(t, runID, payload.RunID)
}
