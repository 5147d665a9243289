package client

import "github.com/giraone/jobadmin/internal/domain/model"

// JobRecordClient talks to the api/job-records collection.
type JobRecordClient struct {
	*resource[model.JobRecord, model.JobRecordWire]
}

// NewJobRecordClient creates a client for job records.
func NewJobRecordClient(cfg Config) *JobRecordClient {
	return &JobRecordClient{newResource(cfg, JobRecordsPath, codec[model.JobRecord, model.JobRecordWire]{
		toWire:   model.JobRecordToWire,
		fromWire: model.JobRecordFromWire,
		identity: func(j model.JobRecord) string { return j.ID },
	})}
}

// ProcessClient talks to the api/processes collection.
type ProcessClient struct {
	*resource[model.Process, model.ProcessWire]
}

// NewProcessClient creates a client for processes.
func NewProcessClient(cfg Config) *ProcessClient {
	return &ProcessClient{newResource(cfg, ProcessesPath, codec[model.Process, model.ProcessWire]{
		toWire:   model.ProcessToWire,
		fromWire: model.ProcessFromWire,
		identity: func(p model.Process) string { return p.ID },
	})}
}

var (
	_ Resource[model.JobRecord] = (*JobRecordClient)(nil)
	_ Resource[model.Process]   = (*ProcessClient)(nil)
)
