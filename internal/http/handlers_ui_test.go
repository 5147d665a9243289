package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/giraone/jobadmin/internal/domain/model"
	"github.com/giraone/jobadmin/internal/viewstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

// listQuery is the list state the delete tests start from: second page of
// two, newest first, filtered by process.
func listQuery() url.Values {
	return url.Values{
		"page":      {"2"},
		"size":      {"2"},
		"sort":      {"id,desc"},
		"processId": {"p1"},
	}
}

func decodeTrigger(t *testing.T, header string) map[string]json.RawMessage {
	t.Helper()
	require.NotEmpty(t, header, "expected Hx-Trigger header")
	events := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal([]byte(header), &events))
	return events
}

func decodeToast(t *testing.T, header string) toast {
	t.Helper()
	raw, ok := decodeTrigger(t, header)["showToast"]
	require.True(t, ok, "expected showToast event in %s", header)
	var got toast
	require.NoError(t, json.Unmarshal(raw, &got))
	return got
}

func TestUI_Index_RedirectsToJobRecords(t *testing.T) {
	env := newConsoleEnv(t)

	rec := env.get("/", false)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, JobRecordsUIPath, rec.Header().Get("Location"))
}

func TestUI_JobRecordList(t *testing.T) {
	t.Run("renders first page in id order", func(t *testing.T) {
		env := newConsoleEnv(t)
		env.seed(t, 25)

		rec := env.get("/job-records", false)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		doc := parseHTML(t, rec.Body.String())
		ids := rowIDs(doc)
		require.Len(t, ids, 20)
		assert.Equal(t, "101", ids[0])
		assert.Equal(t, "120", ids[19])
		assert.Contains(t, rec.Body.String(), "of 25 items")
		assert.NotNil(t, findByID(doc, "create-job-record"))
		assert.NotNil(t, findByID(doc, "delete-all-job-records"))
	})

	t.Run("shows empty state", func(t *testing.T) {
		env := newConsoleEnv(t)

		rec := env.get("/job-records", false)

		require.Equal(t, http.StatusOK, rec.Code)
		doc := parseHTML(t, rec.Body.String())
		empty := findByID(doc, "no-result")
		require.NotNil(t, empty)
		assert.Equal(t, "No Job Records found", textContent(empty))
		assert.Empty(t, rowIDs(doc))
	})

	t.Run("sorts and filters through the backend", func(t *testing.T) {
		env := newConsoleEnv(t)
		env.seed(t, 6)

		rec := env.get("/job-records?sort=status,desc&status=PAUSED", false)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"102", "104", "106"}, rowIDs(parseHTML(t, rec.Body.String())))
	})

	t.Run("sort links toggle the active column and reset the page", func(t *testing.T) {
		env := newConsoleEnv(t)
		env.seed(t, 3)

		rec := env.get("/job-records?page=1&size=2&sort=status,desc", false)

		require.Equal(t, http.StatusOK, rec.Code)
		var links []*html.Node
		for _, th := range findAll(parseHTML(t, rec.Body.String()), func(n *html.Node) bool { return n.Data == "th" }) {
			links = append(links, findAll(th, func(n *html.Node) bool { return n.Data == "a" })...)
		}
		hrefs := map[string]url.Values{}
		for _, a := range links {
			u, err := url.Parse(attr(a, "href"))
			require.NoError(t, err)
			q := u.Query()
			field, _, _ := strings.Cut(q.Get("sort"), ",")
			hrefs[field] = q
		}
		require.Contains(t, hrefs, "status")
		assert.Equal(t, "status,asc", hrefs["status"].Get("sort"))
		assert.Equal(t, "1", hrefs["status"].Get("page"))
		assert.Equal(t, "2", hrefs["status"].Get("size"))
		require.Contains(t, hrefs, "lastEventTimestamp")
		assert.Equal(t, "lastEventTimestamp,asc", hrefs["lastEventTimestamp"].Get("sort"))
	})

	t.Run("backend failure shows an error and keeps the page", func(t *testing.T) {
		env := newConsoleEnv(t)
		env.JobRecords.failList = errors.New("connection reset")

		rec := env.get("/job-records", false)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Unable to load job records.")
	})

	t.Run("htmx request renders the fragment with an out-of-band header", func(t *testing.T) {
		env := newConsoleEnv(t)
		env.seed(t, 1)

		rec := env.get("/job-records?size=5", true)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.True(t, strings.HasPrefix(body, "<title>Job Records"), body)
		assert.Contains(t, body, `id="header-title"`)
		assert.Contains(t, body, `hx-swap-oob="outerHTML"`)
		assert.NotContains(t, body, "<html")
		assert.Equal(t, "/job-records?page=1&size=5&sort=id%2Casc", rec.Header().Get("Hx-Push-Url"))
		assert.Contains(t, decodeTrigger(t, rec.Header().Get("Hx-Trigger")), "nav:activate")
	})
}

func TestUI_JobRecordDelete(t *testing.T) {
	t.Run("delete links carry the list state", func(t *testing.T) {
		env := newConsoleEnv(t)
		env.seed(t, 25)

		rec := env.get("/job-records?"+listQuery().Encode(), false)

		require.Equal(t, http.StatusOK, rec.Code)
		doc := parseHTML(t, rec.Body.String())
		assert.Equal(t, []string{"123", "122"}, rowIDs(doc))

		row := findByID(doc, "job-record-123")
		require.NotNil(t, row)
		links := findAll(row, func(n *html.Node) bool {
			return n.Data == "a" && strings.HasPrefix(attr(n, "href"), "/job-records/123/delete")
		})
		require.Len(t, links, 1)
		u, err := url.Parse(attr(links[0], "href"))
		require.NoError(t, err)
		ret, err := url.ParseQuery(u.Query().Get("return"))
		require.NoError(t, err)
		assert.Equal(t, listQuery(), ret)
	})

	t.Run("confirmation keeps the return query", func(t *testing.T) {
		env := newConsoleEnv(t)
		env.seed(t, 25)

		rec := env.get("/job-records/123/delete?return="+url.QueryEscape(listQuery().Encode()), false)

		require.Equal(t, http.StatusOK, rec.Code)
		doc := parseHTML(t, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "Are you sure you want to delete Job Record")
		assert.NotNil(t, findByID(doc, "confirm-delete"))
		hidden := findAll(doc, func(n *html.Node) bool {
			return n.Data == "input" && attr(n, "name") == "return"
		})
		require.Len(t, hidden, 1)
		assert.Equal(t, listQuery().Encode(), attr(hidden[0], "value"))
	})

	t.Run("confirmation of a missing record redirects to not found", func(t *testing.T) {
		env := newConsoleEnv(t)

		rec := env.get("/job-records/999/delete", false)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, viewstate.NotFoundRoute, rec.Header().Get("Location"))
	})

	t.Run("form post redirects to the same list page", func(t *testing.T) {
		env := newConsoleEnv(t)
		env.seed(t, 25)

		rec := env.postForm("/job-records/123/delete", map[string]string{"return": listQuery().Encode()}, false)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, JobRecordsUIPath, loc.Path)
		assert.Equal(t, listQuery(), loc.Query())
		assert.Equal(t, []string{"123"}, env.JobRecords.deletes)
		assert.Equal(t, 24, env.JobRecords.count())

		reload := env.get(rec.Header().Get("Location"), false)
		require.Equal(t, http.StatusOK, reload.Code)
		assert.Equal(t, []string{"122", "121"}, rowIDs(parseHTML(t, reload.Body.String())))
	})

	t.Run("htmx post re-renders the list with a toast", func(t *testing.T) {
		env := newConsoleEnv(t)
		env.seed(t, 25)

		rec := env.postForm("/job-records/123/delete", map[string]string{"return": listQuery().Encode()}, true)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"122", "121"}, rowIDs(parseHTML(t, rec.Body.String())))
		push, err := url.Parse(rec.Header().Get("Hx-Push-Url"))
		require.NoError(t, err)
		assert.Equal(t, listQuery(), push.Query())

		got := decodeToast(t, rec.Header().Get("Hx-Trigger"))
		assert.Equal(t, "Job Record deleted.", got.Message)
		assert.Equal(t, "success", got.Type)
	})

	t.Run("delete all returns to page one", func(t *testing.T) {
		env := newConsoleEnv(t)
		env.seed(t, 5)

		rec := env.postForm("/job-records/delete-all", map[string]string{"return": listQuery().Encode()}, false)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "1", loc.Query().Get("page"))
		assert.Equal(t, "p1", loc.Query().Get("processId"))
		assert.Zero(t, env.JobRecords.count())
	})
}

func TestUI_ProcessDelete_InUse(t *testing.T) {
	env := newConsoleEnv(t)
	env.seed(t, 1)

	rec := env.postForm("/processes/p1/delete", map[string]string{"return": "page=1"}, true)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeToast(t, rec.Header().Get("Hx-Trigger"))
	assert.Equal(t, "error", got.Type)
	assert.Contains(t, got.Message, "in use")

	_, err := env.Processes.GetByID(context.Background(), "p1")
	assert.NoError(t, err, "process must survive the failed delete")
	assert.Contains(t, rec.Body.String(), "process-p1")
}

func TestUI_JobRecordForm(t *testing.T) {
	t.Run("create form defaults timestamps and offers processes", func(t *testing.T) {
		env := newConsoleEnv(t)
		env.seed(t, 0)

		rec := env.get("/job-records/new", false)

		require.Equal(t, http.StatusOK, rec.Code)
		doc := parseHTML(t, rec.Body.String())
		accepted := findByID(doc, "field_jobAcceptedTimestamp")
		require.NotNil(t, accepted)
		assert.Equal(t, "2026-03-01T00:00", attr(accepted, "value"))
		assert.Nil(t, findByID(doc, "field_id"), "create form has no id field")

		processSelect := findByID(doc, "field_process")
		require.NotNil(t, processSelect)
		assert.Contains(t, textContent(processSelect), "ingest - Ingest")
	})

	t.Run("valid post creates and redirects", func(t *testing.T) {
		env := newConsoleEnv(t)
		env.seed(t, 0)

		rec := env.postForm("/job-records", map[string]string{
			"jobAcceptedTimestamp":      "2026-03-01T08:00",
			"lastEventTimestamp":        "2026-03-01T08:05",
			"lastRecordUpdateTimestamp": "2026-03-01T08:06",
			"status":                    "SCHEDULED",
			"process":                   "p1",
			"return":                    "/job-records?page=3",
		}, false)

		require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
		assert.Equal(t, "/job-records?page=3", rec.Header().Get("Location"))
		require.Equal(t, 1, env.JobRecords.count())
		saved, err := env.JobRecords.GetByID(context.Background(), "101")
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusScheduled, saved.Status)
		assert.Equal(t, "2026-03-01T08:05:00Z", saved.LastEventTimestamp.Format("2006-01-02T15:04:05Z07:00"))
	})

	t.Run("invalid post re-renders with field errors", func(t *testing.T) {
		env := newConsoleEnv(t)
		env.seed(t, 0)

		rec := env.postForm("/job-records", map[string]string{
			"jobAcceptedTimestamp":      "2026-03-01T08:00",
			"lastEventTimestamp":        "2026-03-01T08:05",
			"lastRecordUpdateTimestamp": "2026-03-01T08:06",
			"process":                   "p1",
		}, false)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), errMsgFixBelow)
		assert.Contains(t, rec.Body.String(), `class="field-error"`)
		assert.Zero(t, env.JobRecords.count())
	})

	t.Run("edit loads the record and saves changes", func(t *testing.T) {
		env := newConsoleEnv(t)
		env.seed(t, 1)

		form := env.get("/job-records/101/edit", false)
		require.Equal(t, http.StatusOK, form.Code)
		idField := findByID(parseHTML(t, form.Body.String()), "field_id")
		require.NotNil(t, idField)
		assert.Equal(t, "101", attr(idField, "value"))

		rec := env.postForm("/job-records/101", map[string]string{
			"jobAcceptedTimestamp":      "2026-02-01T08:00",
			"lastEventTimestamp":        "2026-02-01T08:00",
			"lastRecordUpdateTimestamp": "2026-02-01T09:00",
			"status":                    "FAILED",
			"process":                   "p1",
		}, true)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, JobRecordsUIPath, rec.Header().Get("Hx-Redirect"))
		saved, err := env.JobRecords.GetByID(context.Background(), "101")
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusFailed, saved.Status)
	})
}

func TestUI_ProcessForm_DuplicateKey(t *testing.T) {
	env := newConsoleEnv(t)
	env.seed(t, 0)

	rec := env.postForm("/processes", map[string]string{
		"key":        "ingest",
		"name":       "Second ingest",
		"activation": "ACTIVE",
	}, false)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "This key is already in use.")
}

func TestUI_JobRecordView(t *testing.T) {
	t.Run("renders the record", func(t *testing.T) {
		env := newConsoleEnv(t)
		env.seed(t, 1)

		rec := env.get("/job-records/101/view", false)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "ACCEPTED")
		assert.Contains(t, rec.Body.String(), "Ingest")
	})

	t.Run("missing record redirects to not found", func(t *testing.T) {
		env := newConsoleEnv(t)

		plain := env.get("/job-records/999/view", false)
		assert.Equal(t, http.StatusSeeOther, plain.Code)
		assert.Equal(t, viewstate.NotFoundRoute, plain.Header().Get("Location"))

		htmx := env.get("/job-records/999/view", true)
		assert.Equal(t, http.StatusNoContent, htmx.Code)
		assert.Equal(t, viewstate.NotFoundRoute, htmx.Header().Get("Hx-Redirect"))
	})

	t.Run("unreachable backend renders bad gateway", func(t *testing.T) {
		env := newConsoleEnv(t)
		env.Backend.Close()

		rec := env.get("/job-records/101/view", false)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "Backend unavailable")
	})
}

func TestUI_NotFound(t *testing.T) {
	env := newConsoleEnv(t)

	t.Run("not found page", func(t *testing.T) {
		rec := env.get(viewstate.NotFoundRoute, false)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Page Not Found")
	})

	t.Run("unknown console route renders html", func(t *testing.T) {
		rec := env.get("/no-such-page", false)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "Page Not Found")
	})

	t.Run("unknown api route renders json", func(t *testing.T) {
		rec := env.get("/api/no-such-resource", false)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
		assert.Contains(t, rec.Body.String(), `"not_found"`)
	})
}
