package model

import "fmt"

// JobRecordWire is the JSON representation of a job record exchanged with the REST backend.
type JobRecordWire struct {
	ID                        WireID          `json:"id,omitempty"`
	JobAcceptedTimestamp      *string         `json:"jobAcceptedTimestamp,omitempty"`
	LastEventTimestamp        *string         `json:"lastEventTimestamp,omitempty"`
	LastRecordUpdateTimestamp *string         `json:"lastRecordUpdateTimestamp,omitempty"`
	Status                    string          `json:"status,omitempty"`
	PausedBucketKey           *string         `json:"pausedBucketKey,omitempty"`
	Process                   *ProcessRefWire `json:"process,omitempty"`
}

// ProcessRefWire is the JSON reference from a job record to its process.
type ProcessRefWire struct {
	ID   WireID `json:"id"`
	Key  string `json:"key,omitempty"`
	Name string `json:"name,omitempty"`
}

// ProcessWire is the JSON representation of a process exchanged with the REST backend.
type ProcessWire struct {
	ID                WireID  `json:"id,omitempty"`
	Key               string  `json:"key,omitempty"`
	Name              string  `json:"name,omitempty"`
	Activation        string  `json:"activation,omitempty"`
	AgentKey          *string `json:"agentKey,omitempty"`
	BucketKeyIfPaused *string `json:"bucketKeyIfPaused,omitempty"`
}

// JobRecordToWire converts a job record view model to its wire form.
func JobRecordToWire(j JobRecord) JobRecordWire {
	w := JobRecordWire{
		ID:                        WireID(j.ID),
		JobAcceptedTimestamp:      EncodeTimestamp(j.JobAcceptedTimestamp),
		LastEventTimestamp:        EncodeTimestamp(j.LastEventTimestamp),
		LastRecordUpdateTimestamp: EncodeTimestamp(j.LastRecordUpdateTimestamp),
		Status:                    string(j.Status),
		PausedBucketKey:           optionalString(j.PausedBucketKey),
	}
	if j.Process != nil && j.Process.ID != "" {
		w.Process = &ProcessRefWire{ID: WireID(j.Process.ID), Key: j.Process.Key, Name: j.Process.Name}
	}
	return w
}

// JobRecordFromWire converts a wire job record to its view model.
func JobRecordFromWire(w JobRecordWire) (JobRecord, error) {
	accepted, err := DecodeTimestamp(w.JobAcceptedTimestamp)
	if err != nil {
		return JobRecord{}, fmt.Errorf("jobAcceptedTimestamp: %w", err)
	}
	lastEvent, err := DecodeTimestamp(w.LastEventTimestamp)
	if err != nil {
		return JobRecord{}, fmt.Errorf("lastEventTimestamp: %w", err)
	}
	lastUpdate, err := DecodeTimestamp(w.LastRecordUpdateTimestamp)
	if err != nil {
		return JobRecord{}, fmt.Errorf("lastRecordUpdateTimestamp: %w", err)
	}

	j := JobRecord{
		ID:                        string(w.ID),
		JobAcceptedTimestamp:      accepted,
		LastEventTimestamp:        lastEvent,
		LastRecordUpdateTimestamp: lastUpdate,
		Status:                    JobStatus(w.Status),
		PausedBucketKey:           derefString(w.PausedBucketKey),
	}
	if w.Process != nil {
		j.Process = &ProcessRef{ID: string(w.Process.ID), Key: w.Process.Key, Name: w.Process.Name}
	}
	return j, nil
}

// ProcessToWire converts a process view model to its wire form.
func ProcessToWire(p Process) ProcessWire {
	return ProcessWire{
		ID:                WireID(p.ID),
		Key:               p.Key,
		Name:              p.Name,
		Activation:        string(p.Activation),
		AgentKey:          optionalString(p.AgentKey),
		BucketKeyIfPaused: optionalString(p.BucketKeyIfPaused),
	}
}

// ProcessFromWire converts a wire process to its view model.
func ProcessFromWire(w ProcessWire) (Process, error) {
	return Process{
		ID:                string(w.ID),
		Key:               w.Key,
		Name:              w.Name,
		Activation:        Activation(w.Activation),
		AgentKey:          derefString(w.AgentKey),
		BucketKeyIfPaused: derefString(w.BucketKeyIfPaused),
	}, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
