package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHTMX(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, IsHTMX(r))
	assert.False(t, WantsPartial(r))

	r.Header.Set("Hx-Request", "TRUE")
	assert.True(t, IsHTMX(r))
	assert.True(t, WantsPartial(r))
}

func TestSetHXTrigger(t *testing.T) {
	rec := httptest.NewRecorder()
	SetHXTrigger(rec, "refresh", nil)
	assert.JSONEq(t, `{"refresh":true}`, rec.Header().Get("Hx-Trigger"))

	rec = httptest.NewRecorder()
	triggerToast(rec, "Job Record deleted", "success")
	assert.JSONEq(t, `{"showToast":{"message":"Job Record deleted","type":"success"}}`, rec.Header().Get("Hx-Trigger"))
}

func TestRedirect(t *testing.T) {
	t.Run("htmx", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/job-records/1/delete", nil)
		r.Header.Set("Hx-Request", "true")
		rec := httptest.NewRecorder()

		Redirect(rec, r, "/job-records?page=2")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "/job-records?page=2", rec.Header().Get("Hx-Redirect"))
	})

	t.Run("plain", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/job-records/1/delete", nil)
		rec := httptest.NewRecorder()

		Redirect(rec, r, "/job-records")

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/job-records", rec.Header().Get("Location"))
		assert.Empty(t, rec.Header().Get("Hx-Redirect"))
	})
}

func TestSetHXTrigger_MergesEvents(t *testing.T) {
	rec := httptest.NewRecorder()
	triggerToast(rec, "Saved", "success")
	SetHXTrigger(rec, "nav:activate", map[string]string{"path": "/processes"})

	assert.JSONEq(t,
		`{"showToast":{"message":"Saved","type":"success"},"nav:activate":{"path":"/processes"}}`,
		rec.Header().Get("Hx-Trigger"))
}
