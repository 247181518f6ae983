package models

import (
	"regexp"
	"strings"
)

// WorkTypes are the values offered by the project form's work type selector.
var WorkTypes = []string{"Personal", "Client", "Open Source", "Freelance", "Company"}

// SkillCategories are the values offered by the skill form's category selector.
// The store itself accepts any string.
var SkillCategories = []string{
	"Languages",
	"Frontend",
	"Backend",
	"Database",
	"DevOps",
	"Mobile",
	"IoT",
	"Cloud",
	"Testing",
	"Design",
	"Other",
}

const (
	MinLevel = 1
	MaxLevel = 5
)

var levelLabels = map[int]string{
	1: "Beginner",
	2: "Novice",
	3: "Intermediate",
	4: "Advanced",
	5: "Expert",
}

var levelDescriptions = map[int]string{
	1: "Just getting started with this technology",
	2: "Basic understanding with some hands-on experience",
	3: "Comfortable using this in projects with good understanding",
	4: "Very experienced, can handle complex tasks independently",
	5: "Expert level, can teach others and solve complex problems",
}

// LevelLabel returns the label for a proficiency level, or "" outside 1..5.
func LevelLabel(level int) string {
	return levelLabels[level]
}

// LevelDescription returns the explanation shown next to the level control.
func LevelDescription(level int) string {
	return levelDescriptions[level]
}

func IsWorkType(v string) bool {
	return contains(WorkTypes, v)
}

func IsSkillCategory(v string) bool {
	return contains(SkillCategories, v)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug lowercases the title, collapses every run of non-alphanumeric
// characters into a single hyphen and trims hyphens at both ends.
func GenerateSlug(title string) string {
	slug := nonSlugRun.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// NullIfEmpty trims s and returns nil when nothing is left.
func NullIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
