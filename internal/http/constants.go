package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
const (
	PageJobRecords    = "job-records"
	PageJobRecordView = "job-record-view"
	PageJobRecordForm = "job-record-form"

	PageProcesses   = "processes"
	PageProcessView = "process-view"
	PageProcessForm = "process-form"

	PageDeleteConfirm = "delete-confirm"
	PageNotFound      = "not-found"
)

// Console base paths.
const (
	JobRecordsUIPath = "/job-records"
	ProcessesUIPath  = "/processes"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// FormMode represents the mode of a form (create or edit).
type FormMode string

const (
	// FormModeEdit indicates the form is in edit mode.
	FormModeEdit FormMode = "edit"
	// FormModeCreate indicates the form is in create mode.
	FormModeCreate FormMode = "create"
)

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageJobRecords:    "job-records-content",
	PageJobRecordView: "job-record-view-content",
	PageJobRecordForm: "job-record-form-content",
	PageProcesses:     "processes-content",
	PageProcessView:   "process-view-content",
	PageProcessForm:   "process-form-content",
	PageDeleteConfirm: "delete-confirm-content",
	PageNotFound:      "not-found-content",
}

// ContentTemplateFor returns the content template for the given CurrentPage.
// Unknown pages fall back to the not-found content.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "not-found-content"
}
