package forms

import (
	"context"
	"math"
	"strconv"
	"strings"

	"portfolio/models"
	"portfolio/store"
)

const (
	DefaultLevel = 3
	MaxYears     = 50
	YearsStep    = 0.5
)

type SkillDraft struct {
	Name            string `form:"name" validate:"notblank"`
	Category        string `form:"category" validate:"notblank,skillcategory"`
	Level           int    `form:"level" validate:"min=1,max=5"`
	YearsExperience string `form:"years_experience"`
	Description     string `form:"description"`
	ProjectsUsed    string `form:"projects_used"`
	LastUsed        string `form:"last_used"`
}

type SkillForm struct {
	existing *models.Skill
	Draft    SkillDraft
}

func NewSkillForm(existing *models.Skill) *SkillForm {
	f := &SkillForm{existing: existing, Draft: SkillDraft{Level: DefaultLevel}}
	if existing != nil {
		f.Draft = SkillDraft{
			Name:         existing.Name,
			Category:     existing.Category,
			Level:        existing.Level,
			Description:  models.Deref(existing.Description),
			ProjectsUsed: strings.Join(existing.ProjectsUsed, ", "),
			LastUsed:     models.Deref(existing.LastUsed),
		}
		if existing.YearsExperience != nil {
			f.Draft.YearsExperience = strconv.FormatFloat(*existing.YearsExperience, 'f', -1, 64)
		}
	}
	return f
}

func (f *SkillForm) Editing() bool { return f.existing != nil }

// LevelLabel is the label for the level currently selected.
func (f *SkillForm) LevelLabel() string {
	return models.LevelLabel(f.Draft.Level)
}

// LevelDescription is the live text shown under the level control.
func (f *SkillForm) LevelDescription() string {
	return models.LevelDescription(f.Draft.Level)
}

func (f *SkillForm) Validate() error {
	verr := check(f.Draft)
	if _, err := f.years(); err != nil {
		verr.add("years_experience", "years experience must be between 0 and 50 in steps of 0.5")
	}
	return verr.orNil()
}

func (f *SkillForm) years() (*float64, error) {
	s := strings.TrimSpace(f.Draft.YearsExperience)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	if v < 0 || v > MaxYears || math.Mod(v, YearsStep) != 0 {
		return nil, strconv.ErrRange
	}
	return &v, nil
}

// SplitList splits a comma separated field, trimming entries and dropping
// blanks.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (f *SkillForm) Payload() models.Skill {
	years, _ := f.years()
	return models.Skill{
		Name:            f.Draft.Name,
		Category:        f.Draft.Category,
		Level:           f.Draft.Level,
		YearsExperience: years,
		Description:     models.NullIfEmpty(f.Draft.Description),
		ProjectsUsed:    SplitList(f.Draft.ProjectsUsed),
		LastUsed:        models.NullIfEmpty(f.Draft.LastUsed),
	}
}

func (f *SkillForm) Submit(ctx context.Context, c *store.Client) (models.Skill, error) {
	if err := f.Validate(); err != nil {
		return models.Skill{}, err
	}
	row := f.Payload()
	var id string
	if f.existing != nil {
		id = f.existing.ID
	}
	if err := save(ctx, c, id, &row); err != nil {
		return models.Skill{}, err
	}
	return row, nil
}
