package forms

import (
	"context"
	"strings"

	"portfolio/models"
	"portfolio/store"
)

type ProjectDraft struct {
	Title               string   `form:"title" validate:"notblank"`
	Slug                string   `form:"slug" validate:"notblank"`
	DescriptionMarkdown string   `form:"description_markdown" validate:"notblank"`
	TechStack           []string `form:"tech_stack" validate:"dive,notblank"`
	RepoURL             string   `form:"repo_url" validate:"omitempty,url"`
	LiveURL             string   `form:"live_url" validate:"omitempty,url"`
	ImageURL            string   `form:"image_url" validate:"omitempty,url|startswith=/"`
	WorkType            string   `form:"work_type" validate:"omitempty,worktype"`
	Featured            bool     `form:"featured"`
}

type ProjectForm struct {
	existing *models.Project
	Draft    ProjectDraft
}

func NewProjectForm(existing *models.Project) *ProjectForm {
	f := &ProjectForm{existing: existing}
	if existing != nil {
		f.Draft = ProjectDraft{
			Title:               existing.Title,
			Slug:                existing.Slug,
			DescriptionMarkdown: existing.DescriptionMarkdown,
			TechStack:           append([]string{}, existing.TechStack...),
			RepoURL:             models.Deref(existing.RepoURL),
			LiveURL:             models.Deref(existing.LiveURL),
			ImageURL:            models.Deref(existing.ImageURL),
			WorkType:            models.Deref(existing.WorkType),
			Featured:            existing.Featured,
		}
	}
	return f
}

func (f *ProjectForm) Editing() bool { return f.existing != nil }

// SetTitle updates the title. While creating, the slug follows the title.
func (f *ProjectForm) SetTitle(title string) {
	f.Draft.Title = title
	if !f.Editing() {
		f.Draft.Slug = models.GenerateSlug(title)
	}
}

// AddTech appends a trimmed tech label. Blank labels and exact duplicates
// are ignored; it reports whether the label was added.
func (f *ProjectForm) AddTech(tech string) bool {
	tech = strings.TrimSpace(tech)
	if tech == "" {
		return false
	}
	for _, t := range f.Draft.TechStack {
		if t == tech {
			return false
		}
	}
	f.Draft.TechStack = append(f.Draft.TechStack, tech)
	return true
}

// RemoveTech drops every entry equal to tech.
func (f *ProjectForm) RemoveTech(tech string) {
	kept := f.Draft.TechStack[:0:0]
	for _, t := range f.Draft.TechStack {
		if t != tech {
			kept = append(kept, t)
		}
	}
	f.Draft.TechStack = kept
}

func (f *ProjectForm) Validate() error {
	return check(f.Draft).orNil()
}

func (f *ProjectForm) Payload() models.Project {
	tech := append([]string{}, f.Draft.TechStack...)
	return models.Project{
		Title:               f.Draft.Title,
		Slug:                f.Draft.Slug,
		DescriptionMarkdown: f.Draft.DescriptionMarkdown,
		TechStack:           tech,
		RepoURL:             models.NullIfEmpty(f.Draft.RepoURL),
		LiveURL:             models.NullIfEmpty(f.Draft.LiveURL),
		ImageURL:            models.NullIfEmpty(f.Draft.ImageURL),
		WorkType:            models.NullIfEmpty(f.Draft.WorkType),
		Featured:            f.Draft.Featured,
	}
}

func (f *ProjectForm) Submit(ctx context.Context, c *store.Client) (models.Project, error) {
	if err := f.Validate(); err != nil {
		return models.Project{}, err
	}
	row := f.Payload()
	var id string
	if f.existing != nil {
		id = f.existing.ID
	}
	if err := save(ctx, c, id, &row); err != nil {
		return models.Project{}, err
	}
	return row, nil
}
