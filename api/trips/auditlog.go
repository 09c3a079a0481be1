package trips

import (
	"context"
	"time"

	"GardaBoatsSaas/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditLog records ingest runs in Postgres when a pool is configured.
// Without a pool every call is a no-op so the dashboard runs file-only.
type AuditLog struct {
	pool *pgxpool.Pool
}

func NewAuditLog(pool *pgxpool.Pool) *AuditLog {
	return &AuditLog{pool: pool}
}

const insertIngestRunSQL = `
	INSERT INTO ingest_runs (batch_id, source, rows_loaded, rows_dropped, warnings, started_at, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

// RecordRun persists one ingest run. Failures are logged, never fatal:
// the dataset is already in memory by the time this runs.
func (a *AuditLog) RecordRun(ctx context.Context, batchID, source string, loaded, dropped int, warnings []string, started, finished time.Time) {
	if a == nil || a.pool == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := a.pool.Exec(ctx, insertIngestRunSQL,
		batchID, source, loaded, dropped, warnings, started, finished)
	if err != nil {
		logger.Audit("[TRIPS] audit log insert failed: " + err.Error())
	}
}
