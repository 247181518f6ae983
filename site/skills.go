package site

import (
	"sort"
	"strings"

	"portfolio/models"
)

const (
	CategoryAll = "All"

	SortLevel      = "level"
	SortName       = "name"
	SortExperience = "experience"

	// ExpertLevel is the lowest level kept by the expert-only toggle.
	ExpertLevel = 4
)

// SkillQuery is the skills page state, read from the query string.
type SkillQuery struct {
	Category   string `form:"category"`
	ExpertOnly bool   `form:"expert"`
	Sort       string `form:"sort"`
}

func (q SkillQuery) normalized() SkillQuery {
	if q.Category == "" {
		q.Category = CategoryAll
	}
	switch q.Sort {
	case SortName, SortExperience:
	default:
		q.Sort = SortLevel
	}
	return q
}

// SkillGroup is one category section of the skills page.
type SkillGroup struct {
	Category string
	Skills   []models.Skill
}

// MergeSkillDefaults fills missing extended metadata (years, description,
// projects, last used) of stored skills from the default skill with the
// same name. Stored values win. An empty stored set yields the defaults.
func MergeSkillDefaults(stored, defaults []models.Skill) []models.Skill {
	if len(stored) == 0 {
		return append([]models.Skill(nil), defaults...)
	}

	byName := make(map[string]models.Skill, len(defaults))
	for _, d := range defaults {
		byName[d.Name] = d
	}

	merged := make([]models.Skill, len(stored))
	for i, s := range stored {
		if d, ok := byName[s.Name]; ok {
			if s.YearsExperience == nil {
				s.YearsExperience = d.YearsExperience
			}
			if s.Description == nil || *s.Description == "" {
				s.Description = d.Description
			}
			if len(s.ProjectsUsed) == 0 {
				s.ProjectsUsed = d.ProjectsUsed
			}
			if s.LastUsed == nil || *s.LastUsed == "" {
				s.LastUsed = d.LastUsed
			}
		}
		merged[i] = s
	}
	return merged
}

// FilterSkills keeps skills of the selected category (All keeps every
// category) and, when expertOnly is set, level ExpertLevel and above.
func FilterSkills(skills []models.Skill, category string, expertOnly bool) []models.Skill {
	out := make([]models.Skill, 0, len(skills))
	for _, s := range skills {
		if category != "" && category != CategoryAll && s.Category != category {
			continue
		}
		if expertOnly && s.Level < ExpertLevel {
			continue
		}
		out = append(out, s)
	}
	return out
}

// SortSkills orders a copy of skills by level descending (default), name
// ascending or years of experience descending. Missing years count as zero.
func SortSkills(skills []models.Skill, by string) []models.Skill {
	out := append([]models.Skill(nil), skills...)
	switch by {
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	case SortExperience:
		sort.SliceStable(out, func(i, j int) bool {
			return yearsOf(out[i]) > yearsOf(out[j])
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Level > out[j].Level
		})
	}
	return out
}

func yearsOf(s models.Skill) float64 {
	if s.YearsExperience == nil {
		return 0
	}
	return *s.YearsExperience
}

// Categories returns the sorted distinct categories of skills.
func Categories(skills []models.Skill) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range skills {
		if !seen[s.Category] {
			seen[s.Category] = true
			out = append(out, s.Category)
		}
	}
	sort.Strings(out)
	return out
}

// GroupByCategory groups skills by category, keeping the order of skills
// inside each group and ordering the groups by category name.
func GroupByCategory(skills []models.Skill) []SkillGroup {
	index := make(map[string]int)
	var groups []SkillGroup
	for _, s := range skills {
		i, ok := index[s.Category]
		if !ok {
			i = len(groups)
			index[s.Category] = i
			groups = append(groups, SkillGroup{Category: s.Category})
		}
		groups[i].Skills = append(groups[i].Skills, s)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Category < groups[j].Category
	})
	return groups
}
