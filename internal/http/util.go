package httpx

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/giraone/jobadmin/internal/domain/model"
	apperrors "github.com/giraone/jobadmin/internal/errors"
)

// TotalCountHeader carries the total number of matches of a listing.
const TotalCountHeader = "X-Total-Count"

// parseIntQuery returns the integer value of a query param or a default.
// Present but malformed values are reported as a validation error.
func parseIntQuery(q url.Values, key string, def int) (int, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		return 0, apperrors.ValidationField(key, fmt.Sprintf("%s must be a non-negative integer", key))
	}
	return i, nil
}

// ParsePageRequest reads the zero-based page, the size and repeated sort keys
// from a query string. Size and sort defaults are left to the service layer.
func ParsePageRequest(q url.Values) (model.PageRequest, error) {
	page, err := parseIntQuery(q, "page", 0)
	if err != nil {
		return model.PageRequest{}, err
	}
	size, err := parseIntQuery(q, "size", 0)
	if err != nil {
		return model.PageRequest{}, err
	}
	req := model.PageRequest{Page: page, Size: size}
	for _, raw := range q["sort"] {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		order, sortErr := model.ParseSortOrder(raw)
		if sortErr != nil {
			return model.PageRequest{}, apperrors.ValidationField("sort", sortErr.Error())
		}
		req.Sort = append(req.Sort, order)
	}
	return req, nil
}

// SetPaginationHeaders writes X-Total-Count and an RFC 8288 Link header with
// first, prev, next and last relations for the listing served by r.
func SetPaginationHeaders(w http.ResponseWriter, r *http.Request, baseURL string, req model.PageRequest, total int64) {
	w.Header().Set(TotalCountHeader, strconv.FormatInt(total, 10))
	if req.Size <= 0 {
		return
	}

	lastPage := 0
	if total > 0 {
		lastPage = int((total - 1) / int64(req.Size))
	}
	link := func(page int, rel string) string {
		q := r.URL.Query()
		q.Set("page", strconv.Itoa(page))
		q.Set("size", strconv.Itoa(req.Size))
		u := url.URL{Path: r.URL.Path, RawQuery: q.Encode()}
		return fmt.Sprintf("<%s>; rel=%q", absoluteURL(baseURL, u), rel)
	}

	var links []string
	if req.Page < lastPage {
		links = append(links, link(req.Page+1, "next"))
	}
	if req.Page > 0 {
		links = append(links, link(req.Page-1, "prev"))
	}
	links = append(links, link(lastPage, "last"), link(0, "first"))
	w.Header().Set("Link", strings.Join(links, ","))
}

// absoluteURL resolves ref against base. Without a usable base (scheme and
// host) ref stays relative.
func absoluteURL(base string, ref url.URL) string {
	if base == "" {
		return ref.String()
	}
	b, err := url.Parse(base)
	if err != nil || b.Scheme == "" || b.Host == "" {
		return ref.String()
	}
	b.Path = strings.TrimSuffix(b.Path, "/") + ref.Path
	b.RawPath = ""
	b.RawQuery = ref.RawQuery
	b.Fragment = ""
	return b.String()
}
