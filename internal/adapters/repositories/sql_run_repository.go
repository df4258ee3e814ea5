package repositories

import (
	"context"
	"database/sql"
	"depot-analysis/internal/domain"
	"depot-analysis/internal/platform/db"
	"depot-analysis/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLRunRepository persists comparison run summaries. The same queries
// serve SQLite and Postgres through db.Rebind.
type SQLRunRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLRunRepository(conn *sql.DB, dialect db.Dialect) *SQLRunRepository {
	return &SQLRunRepository{DB: conn, Dialect: dialect}
}

type summaryRow struct {
	Depot         string  `json:"depot"`
	DepotIndex    int     `json:"depot_index"`
	DistanceSum   int     `json:"distance_sum"`
	DistanceCount int     `json:"distance_count"`
	DistanceMean  float64 `json:"distance_mean"`
	DurationSum   int     `json:"duration_sum"`
	DurationCount int     `json:"duration_count"`
	DurationMean  float64 `json:"duration_mean"`
}

func (s *SQLRunRepository) SaveRun(ctx context.Context, run ports.RunRecord) error {
	if s.DB == nil {
		return errors.New("save run: DB is nil")
	}
	if strings.TrimSpace(run.RunID) == "" {
		return errors.New("save run: run id must not be empty")
	}

	rows := make([]summaryRow, len(run.Summaries))
	for i, sm := range run.Summaries {
		rows[i] = summaryRow{
			Depot:         sm.Depot.Name,
			DepotIndex:    sm.Depot.Index,
			DistanceSum:   sm.Distance.Sum,
			DistanceCount: sm.Distance.Count,
			DistanceMean:  sm.Distance.Mean,
			DurationSum:   sm.Duration.Sum,
			DurationCount: sm.Duration.Count,
			DurationMean:  sm.Duration.Mean,
		}
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("save run: marshal summaries: %w", err)
	}

	created := run.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	q := db.Rebind(s.Dialect, `
	INSERT INTO comparison_runs (run_id, created_at, summaries, missing)
	VALUES (?, ?, ?, ?);
	`)
	if _, err := s.DB.ExecContext(ctx, q, run.RunID, created.Unix(), string(payload), run.Missing); err != nil {
		return fmt.Errorf("save run %q: %w", run.RunID, err)
	}

	return nil
}

func (s *SQLRunRepository) GetRun(ctx context.Context, runID string) (ports.RunRecord, error) {
	if s.DB == nil {
		return ports.RunRecord{}, errors.New("get run: DB is nil")
	}

	q := db.Rebind(s.Dialect, `
	SELECT created_at, summaries, missing
	FROM comparison_runs
	WHERE run_id = ?;
	`)

	var created int64
	var payload string
	var missing int
	err := s.DB.QueryRowContext(ctx, q, runID).Scan(&created, &payload, &missing)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.RunRecord{}, fmt.Errorf("get run %q: %w", runID, domain.ErrRunNotFound)
	}
	if err != nil {
		return ports.RunRecord{}, fmt.Errorf("get run %q: %w", runID, err)
	}

	var rows []summaryRow
	if err := json.Unmarshal([]byte(payload), &rows); err != nil {
		return ports.RunRecord{}, fmt.Errorf("get run %q: decode summaries: %w", runID, err)
	}

	rec := ports.RunRecord{
		RunID:     runID,
		CreatedAt: time.Unix(created, 0).UTC(),
		Missing:   missing,
		Summaries: make([]domain.DepotSummary, len(rows)),
	}
	for i, r := range rows {
		rec.Summaries[i] = domain.DepotSummary{
			Depot:    domain.Location{Index: r.DepotIndex, Name: r.Depot},
			Distance: domain.Aggregate{Sum: r.DistanceSum, Count: r.DistanceCount, Mean: r.DistanceMean},
			Duration: domain.Aggregate{Sum: r.DurationSum, Count: r.DurationCount, Mean: r.DurationMean},
		}
	}

	return rec, nil
}
