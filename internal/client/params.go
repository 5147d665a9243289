package client

import (
	"net/url"
	"strconv"
)

// QueryParams are the listing parameters sent to a collection endpoint.
// Page is zero-based. Empty values are not encoded.
type QueryParams struct {
	Page    int
	Size    int
	Sort    []string
	Filters map[string]string
}

// Values encodes the parameters. url.Values.Encode sorts keys, so the
// resulting query string is deterministic.
func (p QueryParams) Values() url.Values {
	v := url.Values{}
	if p.Size > 0 {
		v.Set("page", strconv.Itoa(max(p.Page, 0)))
		v.Set("size", strconv.Itoa(p.Size))
	}
	for _, s := range p.Sort {
		if s != "" {
			v.Add("sort", s)
		}
	}
	for k, val := range p.Filters {
		if k != "" && val != "" {
			v.Set(k, val)
		}
	}
	return v
}
