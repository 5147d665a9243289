package viewmodel

// PageLink is one numbered link of the pager.
type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// Pagination contains pagination metadata for list views. Page is 1-based.
type Pagination struct {
	Page       int
	PageSize   int
	TotalPages int
	TotalCount int64
	HasPrev    bool
	HasNext    bool
	StartIndex int64
	EndIndex   int64
	PrevURL    string
	NextURL    string
	Links      []PageLink
}

// maxPageLinks bounds the numbered links shown around the current page.
const maxPageLinks = 5

// NewPagination computes pager metadata. urlFor builds the URL of a page.
func NewPagination(page, size, totalPages int, total int64, shown int, urlFor func(page int) string) Pagination {
	if totalPages < 1 {
		totalPages = 1
	}
	p := Pagination{
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
		TotalCount: total,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
	if shown > 0 {
		p.StartIndex = int64(page-1)*int64(size) + 1
		p.EndIndex = p.StartIndex + int64(shown) - 1
	}
	if p.HasPrev {
		p.PrevURL = urlFor(page - 1)
	}
	if p.HasNext {
		p.NextURL = urlFor(page + 1)
	}

	first := max(1, page-maxPageLinks/2)
	last := min(totalPages, first+maxPageLinks-1)
	first = max(1, last-maxPageLinks+1)
	for n := first; n <= last; n++ {
		p.Links = append(p.Links, PageLink{Number: n, URL: urlFor(n), Current: n == page})
	}
	return p
}
