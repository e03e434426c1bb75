package dto

import (
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/app/services"
)

// MatchResponse is a ranked candidate
type MatchResponse struct {
	Profile       ProfileResponse `json:"profile"`
	Compatibility int             `json:"compatibility" example:"100"`
	MatchingTeach []string        `json:"matchingTeach"`
	MatchingLearn []string        `json:"matchingLearn"`
	Relation      string          `json:"relation,omitempty" example:"none"`
	ConnectionID  *string         `json:"connectionId,omitempty"`
}

// DashboardResponse is the signed-in summary page
type DashboardResponse struct {
	Profile           ProfileResponse `json:"profile"`
	TeachCount        int             `json:"teachCount"`
	LearnCount        int             `json:"learnCount"`
	MatchCount        int             `json:"matchCount"`
	PendingReceived   int             `json:"pendingReceived"`
	PendingSent       int             `json:"pendingSent"`
	AcceptedCount     int             `json:"acceptedCount"`
	Matches           []MatchResponse `json:"matches"`
	NeedsSkillsPrompt bool            `json:"needsSkillsPrompt"`
}

// NewMatchResponse converts a match result
func NewMatchResponse(r models.MatchResult) MatchResponse {
	return MatchResponse{
		Profile:       NewPublicProfileResponse(r.Profile),
		Compatibility: r.Compatibility,
		MatchingTeach: nonNilStrings(r.MatchingTeach),
		MatchingLearn: nonNilStrings(r.MatchingLearn),
	}
}

// NewMatchResponses converts ranked match results, keeping their order
func NewMatchResponses(results []models.MatchResult) []MatchResponse {
	out := make([]MatchResponse, 0, len(results))
	for _, r := range results {
		out = append(out, NewMatchResponse(r))
	}
	return out
}

// NewDashboardResponse converts the dashboard summary
func NewDashboardResponse(d *services.Dashboard) DashboardResponse {
	resp := DashboardResponse{
		Profile:           NewProfileResponse(d.Profile),
		TeachCount:        d.TeachCount,
		LearnCount:        d.LearnCount,
		MatchCount:        d.MatchCount,
		PendingReceived:   d.PendingReceived,
		PendingSent:       d.PendingSent,
		AcceptedCount:     d.AcceptedCount,
		Matches:           make([]MatchResponse, 0, len(d.Matches)),
		NeedsSkillsPrompt: d.NeedsSkillsPrompt,
	}
	for _, m := range d.Matches {
		item := NewMatchResponse(m.MatchResult)
		item.Relation = string(m.Relation)
		if m.ConnectionID != nil {
			id := m.ConnectionID.String()
			item.ConnectionID = &id
		}
		resp.Matches = append(resp.Matches, item)
	}
	return resp
}
