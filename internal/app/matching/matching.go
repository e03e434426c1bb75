// Package matching ranks candidate profiles by how well their skills
// complement a viewer's.
//
// For a viewer V and candidate C:
//
//	matchingTeach = V.learn entries that C teaches
//	matchingLearn = V.teach entries that C wants to learn
//	compatibility = round(100 * (|matchingTeach| + |matchingLearn|) / max(|V.learn| + |V.teach|, 1))
//
// Skills are compared case-insensitively and reported lower-cased. Every
// entry of the viewer's lists counts, duplicates included. Rounding is
// half-up. The score is relative to the viewer, so it is not symmetric.
package matching

import (
	"math"
	"sort"
	"strings"

	"github.com/yigit/skillswap/internal/app/models"
)

// ComputeMatches ranks candidates for self. The viewer is never matched
// with itself, candidates scoring 0 are dropped, and results are ordered
// by compatibility descending then candidate id ascending. A viewer with
// no skills at all gets no matches. ComputeMatches does no I/O and keeps
// no state.
func ComputeMatches(self models.Profile, candidates []models.Profile) []models.MatchResult {
	results := []models.MatchResult{}
	if !self.HasSkills() {
		return results
	}

	selfTeach := lowerAll(self.SkillsTeach)
	selfLearn := lowerAll(self.SkillsLearn)
	denominator := max(len(selfLearn)+len(selfTeach), 1)

	for _, candidate := range candidates {
		if candidate.ID == self.ID {
			continue
		}

		matchingTeach := intersect(selfLearn, lowerSet(candidate.SkillsTeach))
		matchingLearn := intersect(selfTeach, lowerSet(candidate.SkillsLearn))

		score := Score(len(matchingTeach)+len(matchingLearn), denominator)
		if score == 0 {
			continue
		}

		results = append(results, models.MatchResult{
			Profile:       candidate,
			Compatibility: score,
			MatchingTeach: matchingTeach,
			MatchingLearn: matchingLearn,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Compatibility != results[j].Compatibility {
			return results[i].Compatibility > results[j].Compatibility
		}
		return results[i].Profile.ID.String() < results[j].Profile.ID.String()
	})

	return results
}

// Score returns round-half-up(100 * matched / denominator).
func Score(matched, denominator int) int {
	if denominator < 1 {
		denominator = 1
	}
	return int(math.Floor(100*float64(matched)/float64(denominator) + 0.5))
}

func lowerAll(skills []string) []string {
	out := make([]string, len(skills))
	for i, s := range skills {
		out[i] = strings.ToLower(s)
	}
	return out
}

func lowerSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		set[strings.ToLower(s)] = struct{}{}
	}
	return set
}

// intersect keeps the entries of list present in set, in list order.
func intersect(list []string, set map[string]struct{}) []string {
	out := []string{}
	for _, s := range list {
		if _, ok := set[s]; ok {
			out = append(out, s)
		}
	}
	return out
}
