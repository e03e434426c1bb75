package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSkills(t *testing.T) {
	got := NormalizeSkills([]string{" Python ", "", "Canva", "Python", "python", "   "})
	assert.Equal(t, []string{"Python", "Canva", "python"}, got)

	assert.Empty(t, NormalizeSkills(nil))
	assert.NotNil(t, NormalizeSkills(nil))
}

func TestValidSkills(t *testing.T) {
	assert.True(t, ValidSkills([]string{"Go", "Figma"}))
	assert.False(t, ValidSkills([]string{strings.Repeat("x", SkillMaxLength+1)}))

	many := make([]string, MaxSkills+1)
	for i := range many {
		many[i] = "s"
	}
	assert.False(t, ValidSkills(many))
}

func TestStringValidation(t *testing.T) {
	assert.True(t, NewStringValidation("Ada").WithMinLength(2).WithMaxLength(5).Validate())
	assert.False(t, NewStringValidation("A").WithMinLength(2).Validate())
	assert.True(t, NewStringValidation("").WithRequired(false).WithMinLength(2).Validate())
	assert.False(t, NewStringValidation("").Validate())
	// rune count, not bytes
	assert.True(t, NewStringValidation("ğüş").WithMaxLength(3).Validate())
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("Student@SRMAP.edu.in"))
	assert.False(t, IsValidEmail("not-an-email"))
}
