// Package testutil provides testing utilities and helpers for the jobadmin module.
package testutil

import (
	"time"

	"github.com/giraone/jobadmin/internal/domain/model"
)

// JobRecordBuilder provides a fluent interface for building job records in tests.
type JobRecordBuilder struct {
	rec model.JobRecord
}

// NewJobRecord creates a JobRecordBuilder with all required fields set.
func NewJobRecord() *JobRecordBuilder {
	ts := TestTime()
	return &JobRecordBuilder{
		rec: model.JobRecord{
			JobAcceptedTimestamp:      ts,
			LastEventTimestamp:        ts,
			LastRecordUpdateTimestamp: ts,
			Status:                    model.JobStatusAccepted,
			Process:                   &model.ProcessRef{ID: "P1"},
		},
	}
}

// WithID sets the job record id.
func (b *JobRecordBuilder) WithID(id string) *JobRecordBuilder {
	b.rec.ID = id
	return b
}

// WithStatus sets the status.
func (b *JobRecordBuilder) WithStatus(status model.JobStatus) *JobRecordBuilder {
	b.rec.Status = status
	return b
}

// WithProcess sets the process reference.
func (b *JobRecordBuilder) WithProcess(id, key, name string) *JobRecordBuilder {
	b.rec.Process = &model.ProcessRef{ID: id, Key: key, Name: name}
	return b
}

// WithPausedBucketKey sets the paused bucket key.
func (b *JobRecordBuilder) WithPausedBucketKey(key string) *JobRecordBuilder {
	b.rec.PausedBucketKey = key
	return b
}

// WithTimestamps sets accepted, last event and last update timestamps.
func (b *JobRecordBuilder) WithTimestamps(accepted, lastEvent, lastUpdate time.Time) *JobRecordBuilder {
	b.rec.JobAcceptedTimestamp = accepted
	b.rec.LastEventTimestamp = lastEvent
	b.rec.LastRecordUpdateTimestamp = lastUpdate
	return b
}

// Build returns a copy of the built job record.
func (b *JobRecordBuilder) Build() *model.JobRecord {
	rec := b.rec
	if b.rec.Process != nil {
		ref := *b.rec.Process
		rec.Process = &ref
	}
	return &rec
}

// ProcessBuilder provides a fluent interface for building processes in tests.
type ProcessBuilder struct {
	p model.Process
}

// NewProcess creates a ProcessBuilder with all required fields set.
func NewProcess() *ProcessBuilder {
	return &ProcessBuilder{
		p: model.Process{Key: "ingest", Name: "Ingest", Activation: model.ActivationActive},
	}
}

// WithID sets the process id.
func (b *ProcessBuilder) WithID(id string) *ProcessBuilder {
	b.p.ID = id
	return b
}

// WithKey sets the process key.
func (b *ProcessBuilder) WithKey(key string) *ProcessBuilder {
	b.p.Key = key
	return b
}

// WithName sets the process name.
func (b *ProcessBuilder) WithName(name string) *ProcessBuilder {
	b.p.Name = name
	return b
}

// WithActivation sets the activation state.
func (b *ProcessBuilder) WithActivation(a model.Activation) *ProcessBuilder {
	b.p.Activation = a
	return b
}

// WithAgentKey sets the agent key.
func (b *ProcessBuilder) WithAgentKey(key string) *ProcessBuilder {
	b.p.AgentKey = key
	return b
}

// Build returns a copy of the built process.
func (b *ProcessBuilder) Build() *model.Process {
	p := b.p
	return &p
}
