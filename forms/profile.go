package forms

import (
	"context"

	"portfolio/models"
	"portfolio/store"
)

type ProfileDraft struct {
	Name        string `form:"name" validate:"notblank"`
	Headline    string `form:"headline" validate:"notblank"`
	Bio         string `form:"bio" validate:"notblank"`
	GithubURL   string `form:"github_url" validate:"omitempty,url"`
	LinkedinURL string `form:"linkedin_url" validate:"omitempty,url"`
	Email       string `form:"email" validate:"omitempty,email"`
}

type ProfileForm struct {
	existing *models.Profile
	Draft    ProfileDraft
}

func NewProfileForm(existing *models.Profile) *ProfileForm {
	f := &ProfileForm{existing: existing}
	if existing != nil {
		f.Draft = ProfileDraft{
			Name:        existing.Name,
			Headline:    existing.Headline,
			Bio:         existing.Bio,
			GithubURL:   models.Deref(existing.GithubURL),
			LinkedinURL: models.Deref(existing.LinkedinURL),
			Email:       models.Deref(existing.Email),
		}
	}
	return f
}

func (f *ProfileForm) Editing() bool { return f.existing != nil }

func (f *ProfileForm) Validate() error {
	return check(f.Draft).orNil()
}

// Payload is the row to write. Blank optional fields become NULL.
func (f *ProfileForm) Payload() models.Profile {
	return models.Profile{
		Name:        f.Draft.Name,
		Headline:    f.Draft.Headline,
		Bio:         f.Draft.Bio,
		GithubURL:   models.NullIfEmpty(f.Draft.GithubURL),
		LinkedinURL: models.NullIfEmpty(f.Draft.LinkedinURL),
		Email:       models.NullIfEmpty(f.Draft.Email),
	}
}

func (f *ProfileForm) Submit(ctx context.Context, c *store.Client) (models.Profile, error) {
	if err := f.Validate(); err != nil {
		return models.Profile{}, err
	}
	row := f.Payload()
	var id string
	if f.existing != nil {
		id = f.existing.ID
	}
	if err := save(ctx, c, id, &row); err != nil {
		return models.Profile{}, err
	}
	return row, nil
}
