//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "strings"

// JobStatus is the lifecycle state of a tracked job.
type JobStatus string

const (
	JobStatusAccepted  JobStatus = "ACCEPTED"
	JobStatusScheduled JobStatus = "SCHEDULED"
	JobStatusPaused    JobStatus = "PAUSED"
	JobStatusFailed    JobStatus = "FAILED"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusNotified  JobStatus = "NOTIFIED"
	JobStatusDelivered JobStatus = "DELIVERED"
)

// JobStatuses returns all known job statuses in lifecycle order.
func JobStatuses() []JobStatus {
	return []JobStatus{
		JobStatusAccepted,
		JobStatusScheduled,
		JobStatusPaused,
		JobStatusFailed,
		JobStatusCompleted,
		JobStatusNotified,
		JobStatusDelivered,
	}
}

// Valid reports whether the job status is supported.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusAccepted, JobStatusScheduled, JobStatusPaused, JobStatusFailed,
		JobStatusCompleted, JobStatusNotified, JobStatusDelivered:
		return true
	default:
		return false
	}
}

// ParseJobStatus normalizes a status string and reports whether it is supported.
func ParseJobStatus(value string) (JobStatus, bool) {
	status := JobStatus(strings.ToUpper(strings.TrimSpace(value)))
	if status.Valid() {
		return status, true
	}
	return "", false
}

// Activation is the activation state of a process. Values outside the
// known set are carried through unchanged.
type Activation string

const (
	ActivationActive Activation = "ACTIVE"
	ActivationPaused Activation = "PAUSED"
)

// Activations returns the activation states offered by forms.
func Activations() []Activation {
	return []Activation{ActivationActive, ActivationPaused}
}

// Known reports whether the activation is one of the known states.
func (a Activation) Known() bool {
	return a == ActivationActive || a == ActivationPaused
}
