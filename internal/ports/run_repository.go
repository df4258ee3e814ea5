package ports

import (
	"context"
	"depot-analysis/internal/domain"
	"time"
)

// RunRecord is the persisted summary of one comparison run.
type RunRecord struct {
	RunID     string
	CreatedAt time.Time
	Summaries []domain.DepotSummary
	Missing   int
}

// Port: a boundary for persisting and reading back comparison runs.
type RunRepository interface {
	SaveRun(ctx context.Context, run RunRecord) error
	GetRun(ctx context.Context, runID string) (RunRecord, error)
}
