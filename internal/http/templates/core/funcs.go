package core

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/giraone/jobadmin/internal/domain/model"
	"github.com/giraone/jobadmin/internal/http/uiutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	Now                func() time.Time
}

// Funcs returns a template.FuncMap containing helpers shared by all pages.
func Funcs(deps Deps) template.FuncMap {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	printer := message.NewPrinter(language.English)

	funcs := template.FuncMap{
		"sectionTmpl":     deps.ContentTemplateFor,
		"timeTag":         timeTag,
		"relativeTime":    func(t time.Time) string { return uiutil.FriendlyRelativeTime(t, now()) },
		"add":             func(a, b int) int { return a + b },
		"sub":             func(a, b int) int { return a - b },
		"formatNumber":    func(v any) string { return formatNumber(printer, v) },
		"statusClass":     statusClass,
		"activationClass": activationClass,
		"sortIcon":        sortIcon,
		"truncateText":    TruncateText,
	}

	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - rendered by our own html/template set; values were escaped during execution.
		return template.HTML(buf.String()), nil
	}
	return funcs
}

// formatNumber renders integers with thousands separators.
func formatNumber(p *message.Printer, v any) string {
	switch x := v.(type) {
	case int:
		return p.Sprintf("%d", x)
	case int32:
		return p.Sprintf("%d", x)
	case int64:
		return p.Sprintf("%d", x)
	case uint:
		return p.Sprintf("%d", x)
	case uint64:
		return p.Sprintf("%d", x)
	default:
		return fmt.Sprint(v)
	}
}

func timeTag(ts any) template.HTML {
	var t0 time.Time
	switch v := ts.(type) {
	case time.Time:
		t0 = v
	case *time.Time:
		if v != nil {
			t0 = *v
		}
	default:
		return ""
	}
	if t0.IsZero() {
		return ""
	}
	// #nosec G203 - constructed from formatted timestamps only
	return template.HTML(fmt.Sprintf(
		"<time datetime=\"%s\" title=\"%s\">%s</time>",
		t0.UTC().Format(time.RFC3339),
		template.HTMLEscapeString(t0.UTC().Format(time.RFC1123)),
		template.HTMLEscapeString(uiutil.FormatFriendlyDateTime(t0)),
	))
}

func statusClass(status model.JobStatus) string {
	switch status {
	case model.JobStatusFailed:
		return "badge-danger"
	case model.JobStatusPaused:
		return "badge-warning"
	case model.JobStatusCompleted, model.JobStatusDelivered, model.JobStatusNotified:
		return "badge-success"
	case model.JobStatusAccepted, model.JobStatusScheduled:
		return "badge-info"
	default:
		return "badge-light"
	}
}

func activationClass(a model.Activation) string {
	switch a {
	case model.ActivationActive:
		return "badge-success"
	case model.ActivationPaused:
		return "badge-warning"
	default:
		return "badge-light"
	}
}

// sortIcon returns the arrow for a column header given the active sort
// predicate and direction.
func sortIcon(column, predicate string, ascending bool) string {
	switch {
	case column != predicate:
		return "↕"
	case ascending:
		return "▲"
	default:
		return "▼"
	}
}

// TruncateText truncates a string to a maximum number of runes and adds an
// ellipsis when truncated.
func TruncateText(s string, maxLen int) string {
	runes := []rune(s)
	if maxLen <= 0 || len(runes) <= maxLen {
		return s
	}
	if maxLen == 1 {
		return string(runes[:1])
	}
	return strings.TrimSpace(string(runes[:maxLen-1])) + "…"
}
