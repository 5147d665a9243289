package viewstate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/giraone/jobadmin/internal/client"
	"github.com/giraone/jobadmin/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2026, 10, 19, 15, 42, 7, 0, time.UTC)
}

func TestNewJobRecordEdit_NewDefaultsToStartOfDay(t *testing.T) {
	for _, resolved := range []*model.JobRecord{nil, {Status: model.JobStatusAccepted}} {
		e := NewJobRecordEdit(resolved, fixedNow)
		assert.True(t, e.IsNew())
		assert.Equal(t, "2026-10-19T00:00", e.Form.JobAcceptedTimestamp)
		assert.Equal(t, "2026-10-19T00:00", e.Form.LastEventTimestamp)
		assert.Equal(t, "2026-10-19T00:00", e.Form.LastRecordUpdateTimestamp)
		assert.Len(t, e.Statuses, 7)
	}
}

func TestNewJobRecordEdit_Existing(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 0, 0, time.UTC)
	e := NewJobRecordEdit(&model.JobRecord{
		ID:                        "123",
		JobAcceptedTimestamp:      ts,
		LastEventTimestamp:        ts,
		LastRecordUpdateTimestamp: ts,
		Status:                    model.JobStatusFailed,
		Process:                   &model.ProcessRef{ID: "P9", Key: "old", Name: "Old"},
	}, fixedNow)

	assert.False(t, e.IsNew())
	assert.Equal(t, "2026-03-04T05:06", e.Form.JobAcceptedTimestamp)
	assert.Equal(t, "FAILED", e.Form.Status)
	assert.Equal(t, "P9", e.Form.ProcessID)
}

func TestJobRecordEdit_LoadProcessOptionsMergesSelected(t *testing.T) {
	e := NewJobRecordEdit(&model.JobRecord{
		ID:      "123",
		Process: &model.ProcessRef{ID: "P9", Key: "old", Name: "Old"},
	}, fixedNow)

	options := []model.Process{{ID: "P1", Key: "a"}, {ID: "P2", Key: "b"}}
	require.NoError(t, e.LoadProcessOptions(context.Background(), func(context.Context) ([]model.Process, error) {
		return options, nil
	}))
	require.Len(t, e.ProcessOptions, 3)
	assert.Equal(t, model.Process{ID: "P9", Key: "old", Name: "Old"}, e.ProcessOptions[0])

	e2 := NewJobRecordEdit(&model.JobRecord{ID: "1", Process: &model.ProcessRef{ID: "P2"}}, fixedNow)
	require.NoError(t, e2.LoadProcessOptions(context.Background(), func(context.Context) ([]model.Process, error) {
		return options, nil
	}))
	assert.Equal(t, options, e2.ProcessOptions)
}

func TestJobRecordEdit_LoadProcessOptionsError(t *testing.T) {
	e := NewJobRecordEdit(nil, fixedNow)
	boom := errors.New("boom")
	err := e.LoadProcessOptions(context.Background(), func(context.Context) ([]model.Process, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, e.ProcessOptions)
}

func TestJobRecordForm_EntityRequiredFields(t *testing.T) {
	_, errs := JobRecordForm{LastEventTimestamp: "garbage", Status: "UNKNOWN"}.Entity()
	assert.Equal(t, FieldErrors{
		"jobAcceptedTimestamp":      "This field is required.",
		"lastEventTimestamp":        "This field should be a date and time.",
		"lastRecordUpdateTimestamp": "This field is required.",
		"status":                    "This field is required.",
		"process":                   "This field is required.",
	}, errs)
}

func TestJobRecordFormFromValues(t *testing.T) {
	v := url.Values{
		"jobAcceptedTimestamp":      {"2026-10-19T08:30"},
		"lastEventTimestamp":        {"2026-10-19T08:30"},
		"lastRecordUpdateTimestamp": {"2026-10-19T09:00"},
		"status":                    {" paused "},
		"process":                   {"P1"},
	}
	j, errs := JobRecordFormFromValues(v).Entity()
	require.Nil(t, errs)
	assert.Equal(t, model.JobStatusPaused, j.Status)
	assert.Equal(t, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC), j.LastRecordUpdateTimestamp)
	assert.Equal(t, &model.ProcessRef{ID: "P1"}, j.Process)
}

// savingObserver checks that the saving flag is raised during the backend call.
type savingObserver struct {
	edit      *JobRecordEdit
	sawSaving bool
	created   []model.JobRecord
	updated   []model.JobRecord
	err       error
}

func (s *savingObserver) Create(_ context.Context, j model.JobRecord) (*model.JobRecord, error) {
	s.sawSaving = s.edit.Saving
	s.created = append(s.created, j)
	if s.err != nil {
		return nil, s.err
	}
	j.ID = "new-id"
	return &j, nil
}

func (s *savingObserver) Update(_ context.Context, j model.JobRecord) (*model.JobRecord, error) {
	s.sawSaving = s.edit.Saving
	s.updated = append(s.updated, j)
	if s.err != nil {
		return nil, s.err
	}
	return &j, nil
}

func TestJobRecordEdit_SaveDispatchesOnID(t *testing.T) {
	e := NewJobRecordEdit(nil, fixedNow)
	e.Form.Status = "PAUSED"
	e.Form.ProcessID = "P1"
	obs := &savingObserver{edit: e}

	saved, err := e.Save(context.Background(), obs)
	require.NoError(t, err)
	assert.Equal(t, "new-id", saved.ID)
	assert.True(t, obs.sawSaving)
	assert.False(t, e.Saving)
	assert.Len(t, obs.created, 1)
	assert.Empty(t, obs.updated)

	e.Form.ID = "123"
	_, err = e.Save(context.Background(), obs)
	require.NoError(t, err)
	assert.Len(t, obs.updated, 1)
}

func TestJobRecordEdit_SaveErrorClearsSaving(t *testing.T) {
	e := NewJobRecordEdit(nil, fixedNow)
	e.Form.Status = "FAILED"
	e.Form.ProcessID = "P1"
	boom := &client.StatusError{StatusCode: http.StatusBadRequest}
	obs := &savingObserver{edit: e, err: boom}

	_, err := e.Save(context.Background(), obs)
	require.ErrorIs(t, err, boom)
	assert.True(t, obs.sawSaving)
	assert.False(t, e.Saving)
	assert.Equal(t, boom, e.Err)
	assert.Equal(t, "P1", e.Form.ProcessID)
}

func TestJobRecordEdit_SaveInvalidSkipsBackend(t *testing.T) {
	e := NewJobRecordEdit(nil, fixedNow)
	obs := &savingObserver{edit: e}

	_, err := e.Save(context.Background(), obs)
	require.ErrorIs(t, err, ErrInvalidForm)
	assert.Contains(t, e.Errors, "status")
	assert.Contains(t, e.Errors, "process")
	assert.Empty(t, obs.created)
}

func TestJobRecordEdit_CreatePausedPayload(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/job-records", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &payload)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		var wire model.JobRecordWire
		_ = json.Unmarshal(raw, &wire)
		wire.ID = "jr-1"
		_ = json.NewEncoder(w).Encode(wire)
	}))
	t.Cleanup(srv.Close)
	records := client.NewJobRecordClient(client.Config{BaseURL: srv.URL})

	e := NewJobRecordEdit(nil, fixedNow)
	e.Submitted(JobRecordForm{
		JobAcceptedTimestamp:      e.Form.JobAcceptedTimestamp,
		LastEventTimestamp:        e.Form.LastEventTimestamp,
		LastRecordUpdateTimestamp: e.Form.LastRecordUpdateTimestamp,
		Status:                    "PAUSED",
		ProcessID:                 "P1",
	})

	saved, err := e.Save(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, "jr-1", saved.ID)
	assert.Equal(t, "PAUSED", payload["status"])
	assert.Equal(t, map[string]any{"id": "P1"}, payload["process"])
	assert.Equal(t, "2026-10-19T00:00:00Z", payload["jobAcceptedTimestamp"])
}

func TestProcessEdit(t *testing.T) {
	e := NewProcessEdit(&model.Process{ID: "p1", Key: "k", Name: "n", Activation: "DRAINING"})
	assert.False(t, e.IsNew())
	assert.Equal(t, []model.Activation{"ACTIVE", "PAUSED", "DRAINING"}, e.ActivationOptions())

	e.Submitted(ProcessFormFromValues(url.Values{"key": {"k2"}, "name": {""}, "activation": {"ACTIVE"}}))
	assert.Equal(t, "p1", e.Form.ID)

	_, err := e.Save(context.Background(), nil)
	require.ErrorIs(t, err, ErrInvalidForm)
	assert.Equal(t, FieldErrors{"name": "This field is required."}, e.Errors)

	assert.Equal(t, []model.Activation{"ACTIVE", "PAUSED"}, NewProcessEdit(nil).ActivationOptions())
}

type processSaver struct {
	created, updated int
}

func (p *processSaver) Create(_ context.Context, pr model.Process) (*model.Process, error) {
	p.created++
	pr.ID = "p-new"
	return &pr, nil
}

func (p *processSaver) Update(_ context.Context, pr model.Process) (*model.Process, error) {
	p.updated++
	return &pr, nil
}

func TestProcessEdit_Save(t *testing.T) {
	saver := &processSaver{}
	e := NewProcessEdit(nil)
	e.Submitted(ProcessForm{Key: "ingest", Name: "Ingest", Activation: "ACTIVE"})

	saved, err := e.Save(context.Background(), saver)
	require.NoError(t, err)
	assert.Equal(t, "p-new", saved.ID)
	assert.Equal(t, 1, saver.created)
	assert.False(t, e.Saving)
}
