package forms

import (
	"context"

	"portfolio/models"
	"portfolio/store"
)

type ExperienceDraft struct {
	Company             string `form:"company" validate:"notblank"`
	Role                string `form:"role" validate:"notblank"`
	StartDate           string `form:"start_date" validate:"notblank,datetime=2006-01-02"`
	EndDate             string `form:"end_date" validate:"omitempty,datetime=2006-01-02"`
	DescriptionMarkdown string `form:"description_markdown" validate:"notblank"`
	Current             bool   `form:"current"`
}

type ExperienceForm struct {
	existing *models.Experience
	Draft    ExperienceDraft
}

func NewExperienceForm(existing *models.Experience) *ExperienceForm {
	f := &ExperienceForm{existing: existing}
	if existing != nil {
		f.Draft = ExperienceDraft{
			Company:             existing.Company,
			Role:                existing.Role,
			StartDate:           existing.StartDate,
			EndDate:             models.Deref(existing.EndDate),
			DescriptionMarkdown: existing.DescriptionMarkdown,
			Current:             existing.Current(),
		}
	}
	return f
}

func (f *ExperienceForm) Editing() bool { return f.existing != nil }

// SetCurrent toggles the "current position" box. Checking it clears the end date.
func (f *ExperienceForm) SetCurrent(current bool) {
	f.Draft.Current = current
	if current {
		f.Draft.EndDate = ""
	}
}

// EndDateEnabled reports whether the end date control accepts input.
func (f *ExperienceForm) EndDateEnabled() bool {
	return !f.Draft.Current
}

// Validate also rejects an end date earlier than the start date. The end
// date is not checked for a current position.
func (f *ExperienceForm) Validate() error {
	verr := check(f.Draft)
	if f.Draft.Current {
		delete(verr.Fields, "end_date")
	}
	if _, bad := verr.Fields["start_date"]; !bad {
		if end := f.endDate(); end != nil && *end < f.Draft.StartDate {
			verr.add("end_date", "end date must not be before start date")
		}
	}
	return verr.orNil()
}

func (f *ExperienceForm) endDate() *string {
	if f.Draft.Current {
		return nil
	}
	return models.NullIfEmpty(f.Draft.EndDate)
}

// Payload is the row to write. The end date is NULL for a current position
// or when left blank.
func (f *ExperienceForm) Payload() models.Experience {
	return models.Experience{
		Company:             f.Draft.Company,
		Role:                f.Draft.Role,
		StartDate:           f.Draft.StartDate,
		EndDate:             f.endDate(),
		DescriptionMarkdown: f.Draft.DescriptionMarkdown,
	}
}

func (f *ExperienceForm) Submit(ctx context.Context, c *store.Client) (models.Experience, error) {
	if err := f.Validate(); err != nil {
		return models.Experience{}, err
	}
	row := f.Payload()
	var id string
	if f.existing != nil {
		id = f.existing.ID
	}
	if err := save(ctx, c, id, &row); err != nil {
		return models.Experience{}, err
	}
	return row, nil
}
