package viewmodel

// NavItem is one entry of the console navigation.
type NavItem struct {
	Label  string
	Href   string
	Page   string
	Active bool
}

// Layout captures shared chrome metadata (titles, navigation state).
type Layout struct {
	Title       string
	PageTitle   string
	CurrentPage string
	Nav         []NavItem
}

// NewLayout builds the layout for currentPage. Navigation entries are marked
// active when currentPage belongs to their section.
func NewLayout(title, pageTitle, currentPage string, sections map[string]string) Layout {
	nav := []NavItem{
		{Label: "Job Records", Href: "/job-records", Page: "job-records"},
		{Label: "Processes", Href: "/processes", Page: "processes"},
	}
	section := sections[currentPage]
	for i := range nav {
		nav[i].Active = nav[i].Page == section
	}
	return Layout{Title: title, PageTitle: pageTitle, CurrentPage: currentPage, Nav: nav}
}
