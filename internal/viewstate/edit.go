package viewstate

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/giraone/jobadmin/internal/client"
	"github.com/giraone/jobadmin/internal/domain/model"
)

// FormTimeLayout is the layout of datetime-local inputs. Values are read as UTC.
const FormTimeLayout = "2006-01-02T15:04"

// OptionsPageSize bounds how many processes are offered in the process selector.
const OptionsPageSize = 1000

// ErrInvalidForm is returned by Save when required fields are missing.
var ErrInvalidForm = errors.New("form has invalid fields")

// FieldErrors maps form field names to messages.
type FieldErrors map[string]string

// Saver persists an entity, creating or replacing it.
type Saver[T any] interface {
	client.Creator[T]
	client.Updater[T]
}

// AllProcesses returns a loader that queries lister for up to OptionsPageSize
// processes ordered by key.
func AllProcesses(lister client.Lister[model.Process]) func(context.Context) ([]model.Process, error) {
	return func(ctx context.Context) ([]model.Process, error) {
		page, err := lister.Query(ctx, client.QueryParams{
			Size: OptionsPageSize,
			Sort: SortKeys(Sort{Predicate: "key", Ascending: true}),
		})
		if err != nil {
			return nil, fmt.Errorf("load process options: %w", err)
		}
		return page.Items, nil
	}
}

// JobRecordForm holds the job record form fields as submitted.
type JobRecordForm struct {
	ID                        string
	JobAcceptedTimestamp      string
	LastEventTimestamp        string
	LastRecordUpdateTimestamp string
	Status                    string
	PausedBucketKey           string
	ProcessID                 string
}

// JobRecordFormFromValues reads a submitted job record form.
func JobRecordFormFromValues(v url.Values) JobRecordForm {
	return JobRecordForm{
		ID:                        strings.TrimSpace(v.Get("id")),
		JobAcceptedTimestamp:      strings.TrimSpace(v.Get("jobAcceptedTimestamp")),
		LastEventTimestamp:        strings.TrimSpace(v.Get("lastEventTimestamp")),
		LastRecordUpdateTimestamp: strings.TrimSpace(v.Get("lastRecordUpdateTimestamp")),
		Status:                    strings.TrimSpace(v.Get("status")),
		PausedBucketKey:           strings.TrimSpace(v.Get("pausedBucketKey")),
		ProcessID:                 strings.TrimSpace(v.Get("process")),
	}
}

func jobRecordFormFrom(j model.JobRecord) JobRecordForm {
	return JobRecordForm{
		ID:                        j.ID,
		JobAcceptedTimestamp:      FormatFormTime(j.JobAcceptedTimestamp),
		LastEventTimestamp:        FormatFormTime(j.LastEventTimestamp),
		LastRecordUpdateTimestamp: FormatFormTime(j.LastRecordUpdateTimestamp),
		Status:                    string(j.Status),
		PausedBucketKey:           j.PausedBucketKey,
		ProcessID:                 j.ProcessID(),
	}
}

// Entity converts the form into a job record. Missing required fields are
// reported per field.
func (f JobRecordForm) Entity() (model.JobRecord, FieldErrors) {
	errs := FieldErrors{}
	j := model.JobRecord{ID: f.ID, PausedBucketKey: f.PausedBucketKey}

	j.JobAcceptedTimestamp = parseRequiredTime(errs, "jobAcceptedTimestamp", f.JobAcceptedTimestamp)
	j.LastEventTimestamp = parseRequiredTime(errs, "lastEventTimestamp", f.LastEventTimestamp)
	j.LastRecordUpdateTimestamp = parseRequiredTime(errs, "lastRecordUpdateTimestamp", f.LastRecordUpdateTimestamp)

	if status, ok := model.ParseJobStatus(f.Status); ok {
		j.Status = status
	} else {
		errs["status"] = "This field is required."
	}
	if f.ProcessID == "" {
		errs["process"] = "This field is required."
	} else {
		j.Process = &model.ProcessRef{ID: f.ProcessID}
	}

	if len(errs) > 0 {
		return j, errs
	}
	return j, nil
}

// FormatFormTime renders t for a datetime-local input. The zero time renders empty.
func FormatFormTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(FormTimeLayout)
}

func parseRequiredTime(errs FieldErrors, field, raw string) time.Time {
	if raw == "" {
		errs[field] = "This field is required."
		return time.Time{}
	}
	t, err := time.ParseInLocation(FormTimeLayout, raw, time.UTC)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, raw); err != nil {
			errs[field] = "This field should be a date and time."
			return time.Time{}
		}
	}
	return t.UTC()
}

// JobRecordEdit is the state of the job record create/edit view.
type JobRecordEdit struct {
	Form           JobRecordForm
	Original       *model.JobRecord
	ProcessOptions []model.Process
	Statuses       []model.JobStatus
	Saving         bool
	Errors         FieldErrors
	Err            error
}

// NewJobRecordEdit builds the edit state for resolved, or for a new job record
// when resolved is nil or has no id. New records get all timestamps set to
// the start of the current day.
func NewJobRecordEdit(resolved *model.JobRecord, now func() time.Time) *JobRecordEdit {
	if now == nil {
		now = time.Now
	}
	e := &JobRecordEdit{Statuses: model.JobStatuses()}
	if resolved != nil {
		orig := *resolved
		e.Original = &orig
		e.Form = jobRecordFormFrom(orig)
	}
	if e.Form.ID == "" {
		today := FormatFormTime(model.StartOfDay(now()))
		e.Form.JobAcceptedTimestamp = today
		e.Form.LastEventTimestamp = today
		e.Form.LastRecordUpdateTimestamp = today
	}
	return e
}

// IsNew reports whether the form creates a new job record.
func (e *JobRecordEdit) IsNew() bool { return e.Form.ID == "" }

// Submitted replaces the form values with a submission, keeping options and
// the original entity.
func (e *JobRecordEdit) Submitted(f JobRecordForm) {
	if e.Original != nil && f.ID == "" {
		f.ID = e.Original.ID
	}
	e.Form = f
}

// LoadProcessOptions loads the selectable processes and merges in the
// currently selected one so it is always offered.
func (e *JobRecordEdit) LoadProcessOptions(
	ctx context.Context,
	load func(context.Context) ([]model.Process, error),
) error {
	options, err := load(ctx)
	if err != nil {
		return err
	}
	e.ProcessOptions = model.AddToCollectionIfMissing(options, e.selectedProcess())
	return nil
}

func (e *JobRecordEdit) selectedProcess() *model.Process {
	if e.Form.ProcessID == "" {
		return nil
	}
	if e.Original != nil && model.CompareIdentity(e.Original.Process, &model.ProcessRef{ID: e.Form.ProcessID}) {
		ref := e.Original.Process
		return &model.Process{ID: ref.ID, Key: ref.Key, Name: ref.Name}
	}
	return &model.Process{ID: e.Form.ProcessID}
}

// Save validates the form and creates or updates the job record. Saving is
// set for the duration of the backend call. Failures leave the form as it is.
func (e *JobRecordEdit) Save(ctx context.Context, saver Saver[model.JobRecord]) (*model.JobRecord, error) {
	entity, errs := e.Form.Entity()
	e.Errors = errs
	if errs != nil {
		return nil, ErrInvalidForm
	}
	saved, err := save(ctx, &e.Saving, entity, entity.ID, saver)
	e.Err = err
	return saved, err
}

func save[T any](ctx context.Context, saving *bool, entity T, id string, saver Saver[T]) (*T, error) {
	*saving = true
	defer func() { *saving = false }()
	if id != "" {
		return saver.Update(ctx, entity)
	}
	return saver.Create(ctx, entity)
}

// ProcessForm holds the process form fields as submitted.
type ProcessForm struct {
	ID                string
	Key               string
	Name              string
	Activation        string
	AgentKey          string
	BucketKeyIfPaused string
}

// ProcessFormFromValues reads a submitted process form.
func ProcessFormFromValues(v url.Values) ProcessForm {
	return ProcessForm{
		ID:                strings.TrimSpace(v.Get("id")),
		Key:               strings.TrimSpace(v.Get("key")),
		Name:              strings.TrimSpace(v.Get("name")),
		Activation:        strings.TrimSpace(v.Get("activation")),
		AgentKey:          strings.TrimSpace(v.Get("agentKey")),
		BucketKeyIfPaused: strings.TrimSpace(v.Get("bucketKeyIfPaused")),
	}
}

// Entity converts the form into a process.
func (f ProcessForm) Entity() (model.Process, FieldErrors) {
	p := model.Process{
		ID:                f.ID,
		Key:               f.Key,
		Name:              f.Name,
		Activation:        model.Activation(f.Activation),
		AgentKey:          f.AgentKey,
		BucketKeyIfPaused: f.BucketKeyIfPaused,
	}
	errs := FieldErrors{}
	if f.Key == "" {
		errs["key"] = "This field is required."
	}
	if f.Name == "" {
		errs["name"] = "This field is required."
	}
	if f.Activation == "" {
		errs["activation"] = "This field is required."
	}
	if len(errs) > 0 {
		return p, errs
	}
	return p, nil
}

// ProcessEdit is the state of the process create/edit view.
type ProcessEdit struct {
	Form     ProcessForm
	Original *model.Process
	Saving   bool
	Errors   FieldErrors
	Err      error
}

// NewProcessEdit builds the edit state for resolved, or for a new process.
func NewProcessEdit(resolved *model.Process) *ProcessEdit {
	e := &ProcessEdit{}
	if resolved != nil {
		orig := *resolved
		e.Original = &orig
		e.Form = ProcessForm{
			ID:                orig.ID,
			Key:               orig.Key,
			Name:              orig.Name,
			Activation:        string(orig.Activation),
			AgentKey:          orig.AgentKey,
			BucketKeyIfPaused: orig.BucketKeyIfPaused,
		}
	}
	return e
}

// IsNew reports whether the form creates a new process.
func (e *ProcessEdit) IsNew() bool { return e.Form.ID == "" }

// Submitted replaces the form values with a submission.
func (e *ProcessEdit) Submitted(f ProcessForm) {
	if e.Original != nil && f.ID == "" {
		f.ID = e.Original.ID
	}
	e.Form = f
}

// ActivationOptions returns the known activations plus the current value when
// it is not one of them.
func (e *ProcessEdit) ActivationOptions() []model.Activation {
	opts := model.Activations()
	if current := model.Activation(e.Form.Activation); current != "" && !current.Known() {
		opts = append(opts, current)
	}
	return opts
}

// Save validates the form and creates or updates the process.
func (e *ProcessEdit) Save(ctx context.Context, saver Saver[model.Process]) (*model.Process, error) {
	entity, errs := e.Form.Entity()
	e.Errors = errs
	if errs != nil {
		return nil, ErrInvalidForm
	}
	saved, err := save(ctx, &e.Saving, entity, entity.ID, saver)
	e.Err = err
	return saved, err
}
