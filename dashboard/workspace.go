package dashboard

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"portfolio/models"
	"portfolio/store"
)

// Tabs of the dashboard, in display order.
const (
	TabProfile    = "profile"
	TabProjects   = "projects"
	TabExperience = "experience"
	TabSkills     = "skills"
	TabMessages   = "messages"
)

var Tabs = []string{TabProfile, TabProjects, TabExperience, TabSkills, TabMessages}

// IsTab reports whether name is a dashboard tab.
func IsTab(name string) bool {
	for _, t := range Tabs {
		if t == name {
			return true
		}
	}
	return false
}

// Workspace is one admin session's view of the content: every collection as
// last loaded plus the projects tab filter and page.
type Workspace struct {
	Profile    *models.Profile
	Projects   []models.Project
	Experience []models.Experience
	Skills     []models.Skill
	Messages   []models.Message

	Filter ProjectFilter
	Page   int
}

// Load reads all five collections in parallel. A failed read leaves its
// collection empty and is logged; Load itself never fails.
func Load(ctx context.Context, c *store.Client) *Workspace {
	w := &Workspace{Page: 1}

	var g errgroup.Group
	g.Go(func() error {
		p, err := store.Single[models.Profile](ctx, c, store.Asc("created_at"))
		if err != nil {
			logLoadError(models.TableProfiles, err)
			return nil
		}
		w.Profile = &p
		return nil
	})
	g.Go(func() error {
		w.Projects = loadList[models.Project](ctx, c, store.Desc("created_at"))
		return nil
	})
	g.Go(func() error {
		w.Experience = loadList[models.Experience](ctx, c, store.Desc("start_date"))
		return nil
	})
	g.Go(func() error {
		w.Skills = loadList[models.Skill](ctx, c, store.Asc("category"), store.Asc("name"))
		return nil
	})
	g.Go(func() error {
		w.Messages = loadList[models.Message](ctx, c, store.Desc("created_at"))
		return nil
	})
	_ = g.Wait()

	return w
}

func loadList[T models.Record](ctx context.Context, c *store.Client, orders ...store.Order) []T {
	rows, err := store.List[T](ctx, c, orders...)
	if err != nil {
		var zero T
		logLoadError(zero.TableName(), err)
		return nil
	}
	return rows
}

func logLoadError(table string, err error) {
	if store.IsNotFound(err) {
		return
	}
	slog.Warn("dashboard load failed", "table", table, "error", err)
}

// SetFilter replaces the projects filter. When any input changed the page
// goes back to 1. It reports whether the filter changed.
func (w *Workspace) SetFilter(f ProjectFilter) bool {
	if f.normalized() == w.Filter.normalized() {
		return false
	}
	w.Filter = f
	w.Page = 1
	return true
}

// SetPage moves to page; ProjectsPage clamps it into range.
func (w *Workspace) SetPage(page int) {
	w.Page = page
}

// ProjectsView is the rendered state of the projects tab.
type ProjectsView struct {
	Items      []models.Project
	Page       int
	TotalPages int
	Matched    int
	Total      int
	Window     []PageItem
	Summary    string
}

// ProjectsPage filters and paginates the loaded projects.
func (w *Workspace) ProjectsPage() ProjectsView {
	filtered := FilterProjects(w.Projects, w.Filter)
	items, page := Paginate(filtered, w.Page, PageSize)
	w.Page = page
	pages := TotalPages(len(filtered), PageSize)
	return ProjectsView{
		Items:      items,
		Page:       page,
		TotalPages: pages,
		Matched:    len(filtered),
		Total:      len(w.Projects),
		Window:     PageWindow(page, pages),
		Summary:    Summary(page, PageSize, len(filtered)),
	}
}
