package devseed

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/giraone/jobadmin/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobRecords_CoverStatusesAndProcesses(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := JobRecords(now)
	require.Len(t, records, 3*len(model.JobStatuses()))

	statuses := map[model.JobStatus]bool{}
	processes := map[string]bool{}
	ids := map[string]bool{}
	for _, r := range records {
		statuses[r.Status] = true
		processes[r.ProcessID()] = true
		assert.False(t, ids[r.ID], "duplicate id %s", r.ID)
		ids[r.ID] = true
		assert.True(t, r.JobAcceptedTimestamp.Before(now))
		assert.Equal(t, r.Status == model.JobStatusPaused, r.PausedBucketKey != "")
	}
	assert.Len(t, statuses, len(model.JobStatuses()))
	assert.Len(t, processes, len(Processes()))
}

func TestRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	for i := range Processes() {
		// The first process already exists.
		affected := int64(1)
		if i == 0 {
			affected = 0
		}
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO process")).WillReturnResult(sqlmock.NewResult(0, affected))
	}
	for range JobRecords(now) {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO job_record")).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	res, err := Run(context.Background(), db, Options{Now: func() time.Time { return now }})
	require.NoError(t, err)
	assert.EqualValues(t, len(Processes())-1, res.Processes)
	assert.EqualValues(t, len(JobRecords(now)), res.JobRecords)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO process")).WillReturnError(errors.New("relation does not exist"))
	mock.ExpectRollback()

	_, err = Run(context.Background(), db, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed process invoice-import")
	assert.NoError(t, mock.ExpectationsWereMet())
}
