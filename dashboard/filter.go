package dashboard

import (
	"fmt"
	"strings"

	"portfolio/models"
)

// PageSize is the number of projects shown per dashboard page.
const PageSize = 6

const (
	All          = "All"
	FeaturedOnly = "Featured Only"
	NotFeatured  = "Not Featured"
)

// FeaturedOptions are the values of the featured selector.
var FeaturedOptions = []string{All, FeaturedOnly, NotFeatured}

// ProjectFilter holds the three inputs of the projects tab.
// Empty selectors behave like All.
type ProjectFilter struct {
	Search   string
	WorkType string
	Featured string
}

func (f ProjectFilter) normalized() ProjectFilter {
	if f.WorkType == "" {
		f.WorkType = All
	}
	if f.Featured == "" {
		f.Featured = All
	}
	return f
}

// FilterProjects applies search, then work type, then featured state.
// The input order is preserved and the input slice is not modified.
func FilterProjects(projects []models.Project, f ProjectFilter) []models.Project {
	f = f.normalized()
	term := strings.ToLower(f.Search)

	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if term != "" && !matchesSearch(p, term) {
			continue
		}
		if f.WorkType != All && models.Deref(p.WorkType) != f.WorkType {
			continue
		}
		switch f.Featured {
		case FeaturedOnly:
			if !p.Featured {
				continue
			}
		case NotFeatured:
			if p.Featured {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func matchesSearch(p models.Project, term string) bool {
	if strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.DescriptionMarkdown), term) {
		return true
	}
	for _, tech := range p.TechStack {
		if strings.Contains(strings.ToLower(tech), term) {
			return true
		}
	}
	return false
}

// TotalPages is ceil(total/size).
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Paginate returns the items of page (1-based) and the page actually used
// after clamping into [1, TotalPages].
func Paginate[T any](items []T, page, size int) ([]T, int) {
	pages := TotalPages(len(items), size)
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}
	if pages == 0 {
		return nil, page
	}
	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], page
}

// PageItem is one entry of the pagination control: a page link or a gap.
type PageItem struct {
	Number   int
	Ellipsis bool
}

const windowDelta = 2

// PageWindow lists the links shown for current out of total pages: the first
// page, current±2 and the last page, with a gap wherever the run breaks.
// Nothing is shown for a single page.
func PageWindow(current, total int) []PageItem {
	if total <= 1 {
		return nil
	}
	items := []PageItem{{Number: 1}}
	if current-windowDelta > 2 {
		items = append(items, PageItem{Ellipsis: true})
	}
	for i := max(2, current-windowDelta); i <= min(total-1, current+windowDelta); i++ {
		items = append(items, PageItem{Number: i})
	}
	if current+windowDelta < total-1 {
		items = append(items, PageItem{Ellipsis: true})
	}
	items = append(items, PageItem{Number: total})
	return items
}

// Summary is the "Showing a to b of n projects" caption.
func Summary(page, size, total int) string {
	if total == 0 {
		return "No projects"
	}
	start := (page-1)*size + 1
	end := min(page*size, total)
	return fmt.Sprintf("Showing %d to %d of %d projects", start, end, total)
}
