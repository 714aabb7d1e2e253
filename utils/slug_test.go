package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Go":               "go",
		"Web Development":  "web-development",
		"  Trim Me  ":      "trim-me",
		"snake_case_name":  "snake-case-name",
		"already-sluggy":   "already-sluggy",
		"Multiple   Gaps":  "multiple-gaps",
		"Mixed_  spacing ": "mixed-spacing",
		"C++":              "c",
		"2024 review":      "2024-review",
	}

	for input, want := range cases {
		assert.Equal(t, want, Slugify(input), "input %q", input)
	}
}

func TestNormalizeTagName(t *testing.T) {
	assert.Equal(t, "golang", NormalizeTagName("  GoLang "))
	assert.Equal(t, "web dev", NormalizeTagName("Web Dev"))
	assert.Equal(t, "", NormalizeTagName("   "))
}

func TestIsValidTagName(t *testing.T) {
	assert.True(t, IsValidTagName("golang"))
	assert.True(t, IsValidTagName("web dev"))
	assert.True(t, IsValidTagName("c-1_x"))
	assert.False(t, IsValidTagName(""))
	assert.False(t, IsValidTagName("tag!"))
	assert.False(t, IsValidTagName("a,b"))
}
