package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/skillswap/internal/app/models"
)

func profile(id string, teach, learn []string) models.Profile {
	return models.Profile{ID: uuid.MustParse(id), SkillsTeach: teach, SkillsLearn: learn}
}

const (
	idA = "00000000-0000-0000-0000-00000000000a"
	idB = "00000000-0000-0000-0000-00000000000b"
	idC = "00000000-0000-0000-0000-00000000000c"
	idD = "00000000-0000-0000-0000-00000000000d"
)

func TestComputeMatchesMutualSwap(t *testing.T) {
	a := profile(idA, []string{"Python"}, []string{"Canva"})
	b := profile(idB, []string{"Canva"}, []string{"Python"})

	got := ComputeMatches(a, []models.Profile{a, b})
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].Profile.ID)
	assert.Equal(t, 100, got[0].Compatibility)
	assert.Equal(t, []string{"canva"}, got[0].MatchingTeach)
	assert.Equal(t, []string{"python"}, got[0].MatchingLearn)
}

func TestComputeMatchesIsCaseInsensitive(t *testing.T) {
	a := profile(idA, []string{"PYTHON"}, []string{"canva"})
	b := profile(idB, []string{"Canva"}, []string{"python"})

	got := ComputeMatches(a, []models.Profile{b})
	require.Len(t, got, 1)
	assert.Equal(t, 100, got[0].Compatibility)
}

func TestComputeMatchesIsNotSymmetric(t *testing.T) {
	a := profile(idA, []string{"Python", "Go", "SQL"}, []string{"Canva"})
	b := profile(idB, []string{"Canva"}, []string{"Python"})

	fromA := ComputeMatches(a, []models.Profile{b})
	fromB := ComputeMatches(b, []models.Profile{a})
	require.Len(t, fromA, 1)
	require.Len(t, fromB, 1)

	// A: (1 + 1) / 4 = 50. B: (1 + 1) / 2 = 100.
	assert.Equal(t, 50, fromA[0].Compatibility)
	assert.Equal(t, 100, fromB[0].Compatibility)

	// What A can learn from B is what B can teach A, and the other way round.
	assert.ElementsMatch(t, fromA[0].MatchingTeach, fromB[0].MatchingLearn)
	assert.ElementsMatch(t, fromA[0].MatchingLearn, fromB[0].MatchingTeach)
	assert.Equal(t, []string{"canva"}, fromA[0].MatchingTeach)
	assert.Equal(t, []string{"python"}, fromA[0].MatchingLearn)
}

func TestComputeMatchesWithoutSkills(t *testing.T) {
	empty := profile(idA, nil, nil)
	b := profile(idB, []string{"Canva"}, []string{"Python"})

	got := ComputeMatches(empty, []models.Profile{b})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestComputeMatchesDropsZeroScores(t *testing.T) {
	a := profile(idA, []string{"Python"}, []string{"Canva"})
	c := profile(idC, []string{"Piano"}, []string{"Chess"})

	assert.Empty(t, ComputeMatches(a, []models.Profile{c}))
}

func TestComputeMatchesOrdering(t *testing.T) {
	a := profile(idA, []string{"Python", "Go"}, []string{"Canva", "Figma"})
	full := profile(idD, []string{"Canva", "Figma"}, []string{"Python", "Go"})
	halfB := profile(idB, []string{"Canva"}, []string{"Python"})
	halfC := profile(idC, []string{"Figma"}, []string{"Go"})

	got := ComputeMatches(a, []models.Profile{halfC, full, halfB})
	require.Len(t, got, 3)
	assert.Equal(t, full.ID, got[0].Profile.ID)
	assert.Equal(t, 100, got[0].Compatibility)
	// equal scores fall back to id order
	assert.Equal(t, halfB.ID, got[1].Profile.ID)
	assert.Equal(t, halfC.ID, got[2].Profile.ID)
	assert.Equal(t, 50, got[1].Compatibility)
}

func TestComputeMatchesCountsDuplicateEntries(t *testing.T) {
	a := profile(idA, []string{"Python"}, []string{"Canva", "canva"})
	b := profile(idB, []string{"Canva"}, nil)

	got := ComputeMatches(a, []models.Profile{b})
	require.Len(t, got, 1)
	assert.Equal(t, []string{"canva", "canva"}, got[0].MatchingTeach)
	// (2 + 0) / 3
	assert.Equal(t, 67, got[0].Compatibility)
}

func TestScoreRoundsHalfUp(t *testing.T) {
	assert.Equal(t, 50, Score(1, 2))
	assert.Equal(t, 33, Score(1, 3))
	assert.Equal(t, 67, Score(2, 3))
	// 100 * 1 / 8 = 12.5
	assert.Equal(t, 13, Score(1, 8))
	assert.Equal(t, 0, Score(0, 0))
	assert.Equal(t, 100, Score(1, 0))
}
