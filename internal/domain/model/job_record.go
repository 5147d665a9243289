package model

import (
	"errors"
	"strings"
	"time"
)

// ProcessRef references a process by identifier, optionally carrying display fields.
type ProcessRef struct {
	ID   string
	Key  string
	Name string
}

// Identity returns the referenced process identifier.
func (r ProcessRef) Identity() string { return r.ID }

// JobRecord is the lifecycle state of one tracked job.
// Zero timestamps are treated as absent.
type JobRecord struct {
	ID                        string
	JobAcceptedTimestamp      time.Time
	LastEventTimestamp        time.Time
	LastRecordUpdateTimestamp time.Time
	Status                    JobStatus
	PausedBucketKey           string
	Process                   *ProcessRef
}

// Identity returns the job record identifier.
func (j JobRecord) Identity() string { return j.ID }

// IsNew reports whether the job record has not been persisted yet.
func (j JobRecord) IsNew() bool { return j.ID == "" }

// ProcessID returns the referenced process id, or "" when unset.
func (j JobRecord) ProcessID() string {
	if j.Process == nil {
		return ""
	}
	return j.Process.ID
}

// Validate checks that all required job record fields are present.
func (j *JobRecord) Validate() error {
	if j.JobAcceptedTimestamp.IsZero() {
		return errors.New("jobAcceptedTimestamp is required and cannot be empty")
	}
	if j.LastEventTimestamp.IsZero() {
		return errors.New("lastEventTimestamp is required and cannot be empty")
	}
	if j.LastRecordUpdateTimestamp.IsZero() {
		return errors.New("lastRecordUpdateTimestamp is required and cannot be empty")
	}
	if !j.Status.Valid() {
		return errors.New("status must be one of: " + joinStatuses())
	}
	if j.Process == nil || strings.TrimSpace(j.Process.ID) == "" {
		return errors.New("process is required and cannot be empty")
	}
	return nil
}

func joinStatuses() string {
	all := JobStatuses()
	parts := make([]string, len(all))
	for i, s := range all {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// JobRecordPatch carries the fields of a partial job record update.
type JobRecordPatch struct {
	JobAcceptedTimestamp      *time.Time
	LastEventTimestamp        *time.Time
	LastRecordUpdateTimestamp *time.Time
	Status                    *JobStatus
	PausedBucketKey           *string
	ProcessID                 *string
}

// Apply merges the set fields into j.
func (p JobRecordPatch) Apply(j *JobRecord) {
	if p.JobAcceptedTimestamp != nil {
		j.JobAcceptedTimestamp = *p.JobAcceptedTimestamp
	}
	if p.LastEventTimestamp != nil {
		j.LastEventTimestamp = *p.LastEventTimestamp
	}
	if p.LastRecordUpdateTimestamp != nil {
		j.LastRecordUpdateTimestamp = *p.LastRecordUpdateTimestamp
	}
	if p.Status != nil {
		j.Status = *p.Status
	}
	if p.PausedBucketKey != nil {
		j.PausedBucketKey = *p.PausedBucketKey
	}
	if p.ProcessID != nil {
		j.Process = &ProcessRef{ID: *p.ProcessID}
	}
}

// JobRecordFilter narrows job record listings. Empty fields do not filter.
type JobRecordFilter struct {
	Status    JobStatus
	ProcessID string
}
