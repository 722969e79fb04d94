package repository

import (
	"context"
	"time"

	"github.com/courseforge/courseforge/internal/domain"
)

// RecordRepo persists deployment runs and the per-entity record that
// makes re-deployments idempotent.
type RecordRepo interface {
	CreateRun(ctx context.Context, run *domain.DeploymentRun) error
	FinishRun(ctx context.Context, runID string, finishedAt time.Time) error
	LatestRun(ctx context.Context) (*domain.DeploymentRun, error)

	UpsertRecord(ctx context.Context, rec *domain.EntityRecord) error
	GetRecord(ctx context.Context, localID string) (*domain.EntityRecord, error)
	ListRecords(ctx context.Context) (domain.RecordSet, error)
}
