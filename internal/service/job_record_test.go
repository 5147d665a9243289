package service

import (
	"context"
	"errors"
	"testing"

	"github.com/giraone/jobadmin/internal/domain/model"
	apperrors "github.com/giraone/jobadmin/internal/errors"
	"github.com/giraone/jobadmin/internal/mocks"
	"github.com/giraone/jobadmin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newJobRecordService(t *testing.T) (*mocks.MockJobRecordRepository, *mocks.MockProcessRepository, *JobRecordService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockJobRecordRepository(ctrl)
	procs := mocks.NewMockProcessRepository(ctrl)
	return repo, procs, NewJobRecordService(JobRecordServiceOptions{Repo: repo, Processes: procs})
}

func TestJobRecordService_Create(t *testing.T) {
	t.Parallel()
	repo, procs, svc := newJobRecordService(t)
	ctx := context.Background()

	in := testutil.NewJobRecord().WithStatus(model.JobStatusPaused).Build()
	procs.EXPECT().GetByID(ctx, "P1").Return(testutil.NewProcess().WithID("P1").Build(), nil)
	repo.EXPECT().Create(ctx, in).Return(testutil.NewJobRecord().WithID("jr-1").Build(), nil)

	created, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "jr-1", created.ID)
}

func TestJobRecordService_Create_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		rec       *model.JobRecord
		wantField string
	}{
		{name: "invalid status", rec: testutil.NewJobRecord().WithStatus("RUNNING").Build(), wantField: "status"},
		{name: "missing process", rec: func() *model.JobRecord {
			r := testutil.NewJobRecord().Build()
			r.Process = nil
			return r
		}(), wantField: "process"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, svc := newJobRecordService(t)
			_, err := svc.Create(context.Background(), tt.rec)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.wantField, apperrors.GetField(err))
		})
	}
}

func TestJobRecordService_Create_UnknownProcess(t *testing.T) {
	t.Parallel()
	_, procs, svc := newJobRecordService(t)
	ctx := context.Background()

	procs.EXPECT().GetByID(ctx, "P1").Return(nil, apperrors.NotFound("process not found"))

	_, err := svc.Create(ctx, testutil.NewJobRecord().Build())
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "process", apperrors.GetField(err))
}

func TestJobRecordService_Patch(t *testing.T) {
	t.Parallel()
	repo, procs, svc := newJobRecordService(t)
	ctx := context.Background()

	repo.EXPECT().GetByID(ctx, "123").Return(testutil.NewJobRecord().WithID("123").Build(), nil)
	procs.EXPECT().GetByID(ctx, "P2").Return(testutil.NewProcess().WithID("P2").Build(), nil)
	repo.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, r *model.JobRecord) (*model.JobRecord, error) {
		return r, nil
	})

	failed := model.JobStatusFailed
	p2 := "P2"
	updated, err := svc.Patch(ctx, "123", model.JobRecordPatch{Status: &failed, ProcessID: &p2})
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusFailed, updated.Status)
	assert.Equal(t, "P2", updated.ProcessID())
	assert.Equal(t, testutil.TestTime(), updated.JobAcceptedTimestamp)
}

func TestJobRecordService_List(t *testing.T) {
	t.Parallel()
	repo, _, svc := newJobRecordService(t)
	ctx := context.Background()

	filter := model.JobRecordFilter{Status: model.JobStatusPaused}
	repo.EXPECT().List(ctx, filter, NormalizePageRequest(model.PageRequest{})).
		Return(model.Page[model.JobRecord]{TotalCount: 3}, nil)

	page, err := svc.List(ctx, filter, model.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalCount)

	_, err = svc.List(ctx, model.JobRecordFilter{Status: "BOGUS"}, model.PageRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestJobRecordService_DeleteAll_Error(t *testing.T) {
	t.Parallel()
	repo, _, svc := newJobRecordService(t)
	ctx := context.Background()

	repo.EXPECT().DeleteAll(ctx).Return(int64(0), errors.New("db down"))
	_, err := svc.DeleteAll(ctx)
	require.Error(t, err)
}
