package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"My, Awesome   Project!!", "my-awesome-project"},
		{"Hello World", "hello-world"},
		{"Testing 123", "testing-123"},
		{"---Dashes---", "dashes"},
		{"Next.js + Go", "next-js-go"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateSlug(tt.input))
		})
	}
}

func TestLevelLabel(t *testing.T) {
	assert.Equal(t, "Beginner", LevelLabel(1))
	assert.Equal(t, "Novice", LevelLabel(2))
	assert.Equal(t, "Intermediate", LevelLabel(3))
	assert.Equal(t, "Advanced", LevelLabel(4))
	assert.Equal(t, "Expert", LevelLabel(5))
	assert.Empty(t, LevelLabel(0))
	assert.Empty(t, LevelLabel(6))
	assert.NotEmpty(t, LevelDescription(3))
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, NullIfEmpty(""))
	assert.Nil(t, NullIfEmpty("   "))
	v := NullIfEmpty(" https://github.com ")
	if assert.NotNil(t, v) {
		assert.Equal(t, "https://github.com", *v)
	}
	assert.Equal(t, "", Deref(nil))
}

func TestExperienceCurrent(t *testing.T) {
	end := "2021-12-31"
	assert.True(t, Experience{}.Current())
	assert.False(t, Experience{EndDate: &end}.Current())
}

func TestLabelSets(t *testing.T) {
	assert.True(t, IsWorkType("Open Source"))
	assert.False(t, IsWorkType("open source"))
	assert.True(t, IsSkillCategory("IoT"))
	assert.Len(t, SkillCategories, 11)
}
