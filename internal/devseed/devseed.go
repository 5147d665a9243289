// Package devseed loads a small, deterministic data set for local development.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/giraone/jobadmin/internal/data/pgxutil"
	"github.com/giraone/jobadmin/internal/domain/model"
)

const (
	insertProcessSQL = `
		INSERT INTO process (id, process_key, name, activation, agent_key, bucket_key_if_paused)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`

	insertJobRecordSQL = `
		INSERT INTO job_record (id, job_accepted_timestamp, last_event_timestamp,
			last_record_update_timestamp, status, paused_bucket_key, process_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`
)

// Options configures a seed run.
type Options struct {
	// Now anchors the generated timestamps. Defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// Result counts the rows inserted by a run. Rows that already existed are skipped.
type Result struct {
	Processes  int64
	JobRecords int64
}

// Processes returns the seeded processes.
func Processes() []model.Process {
	return []model.Process{
		{
			ID: "00000000-0000-4000-8000-000000000001", Key: "invoice-import", Name: "Invoice Import",
			Activation: model.ActivationActive, AgentKey: "agent-a",
		},
		{
			ID: "00000000-0000-4000-8000-000000000002", Key: "report-export", Name: "Report Export",
			Activation: model.ActivationPaused, AgentKey: "agent-b", BucketKeyIfPaused: "export-paused",
		},
		{
			ID: "00000000-0000-4000-8000-000000000003", Key: "archive", Name: "Nightly Archive",
			Activation: model.ActivationActive,
		},
	}
}

// JobRecords returns the seeded job records, spread over all statuses and processes.
func JobRecords(now time.Time) []model.JobRecord {
	procs := Processes()
	statuses := model.JobStatuses()
	base := now.UTC().Truncate(time.Second)

	records := make([]model.JobRecord, 0, 3*len(statuses))
	for i := range 3 * len(statuses) {
		status := statuses[i%len(statuses)]
		accepted := base.Add(-time.Duration(i+1) * time.Hour)
		rec := model.JobRecord{
			ID:                        fmt.Sprintf("00000000-0000-4000-9000-%012d", i+1),
			JobAcceptedTimestamp:      accepted,
			LastEventTimestamp:        accepted.Add(10 * time.Minute),
			LastRecordUpdateTimestamp: accepted.Add(15 * time.Minute),
			Status:                    status,
			Process:                   procs[i%len(procs)].Ref(),
		}
		if status == model.JobStatusPaused {
			rec.PausedBucketKey = fmt.Sprintf("bucket-%d", i+1)
		}
		records = append(records, rec)
	}
	return records
}

// Run inserts the development data set in one transaction.
func Run(ctx context.Context, db *sql.DB, opts Options) (Result, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var res Result
	err := pgxutil.WithSQLTx(ctx, db, pgxutil.SQLTxConfig{Fn: func(tx *sql.Tx) error {
		for _, p := range Processes() {
			n, err := exec(ctx, tx, insertProcessSQL,
				p.ID, p.Key, p.Name, string(p.Activation), nullable(p.AgentKey), nullable(p.BucketKeyIfPaused))
			if err != nil {
				return fmt.Errorf("seed process %s: %w", p.Key, err)
			}
			res.Processes += n
		}
		for _, j := range JobRecords(now()) {
			n, err := exec(ctx, tx, insertJobRecordSQL,
				j.ID, j.JobAcceptedTimestamp, j.LastEventTimestamp, j.LastRecordUpdateTimestamp,
				string(j.Status), nullable(j.PausedBucketKey), j.ProcessID())
			if err != nil {
				return fmt.Errorf("seed job record %s: %w", j.ID, err)
			}
			res.JobRecords += n
		}
		return nil
	}})
	if err != nil {
		return Result{}, err
	}

	logger.InfoContext(ctx, "development data seeded",
		"processes", res.Processes, "job_records", res.JobRecords)
	return res, nil
}

func exec(ctx context.Context, tx *sql.Tx, query string, args ...any) (int64, error) {
	r, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return r.RowsAffected()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
