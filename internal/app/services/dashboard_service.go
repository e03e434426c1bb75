package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/skillswap/internal/app/models"
	"golang.org/x/sync/errgroup"
)

// DashboardMatch is a ranked match with the viewer's relation to it.
type DashboardMatch struct {
	models.MatchResult
	Relation     models.RelationStatus `json:"relation"`
	ConnectionID *uuid.UUID            `json:"connectionId,omitempty"`
}

// Dashboard is the signed-in summary page.
type Dashboard struct {
	Profile           models.Profile   `json:"profile"`
	TeachCount        int              `json:"teachCount"`
	LearnCount        int              `json:"learnCount"`
	MatchCount        int              `json:"matchCount"`
	PendingReceived   int              `json:"pendingReceived"`
	PendingSent       int              `json:"pendingSent"`
	AcceptedCount     int              `json:"acceptedCount"`
	Matches           []DashboardMatch `json:"matches"`
	NeedsSkillsPrompt bool             `json:"needsSkillsPrompt"`
}

// DashboardService assembles the dashboard from matches and connections.
type DashboardService struct {
	profiles    ProfileStore
	matches     *MatchService
	connections *ConnectionService
	logger      zerolog.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(profiles ProfileStore, matches *MatchService, connections *ConnectionService, logger zerolog.Logger) *DashboardService {
	return &DashboardService{profiles: profiles, matches: matches, connections: connections, logger: logger}
}

// Summary builds the dashboard of userID.
func (s *DashboardService) Summary(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	var (
		profile *models.Profile
		results []models.MatchResult
		conns   []models.Connection
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.profiles.GetByID(gctx, userID)
		return wrapNotFound(err, "Profile not found")
	})
	g.Go(func() error {
		var err error
		results, err = s.matches.MatchesFor(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		conns, err = s.connections.ListFor(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	part := Partition(userID, conns)
	d := &Dashboard{
		Profile:           *profile,
		TeachCount:        len(profile.SkillsTeach),
		LearnCount:        len(profile.SkillsLearn),
		MatchCount:        len(results),
		PendingReceived:   len(part.PendingReceived),
		PendingSent:       len(part.PendingSent),
		AcceptedCount:     len(part.Accepted),
		Matches:           make([]DashboardMatch, 0, len(results)),
		NeedsSkillsPrompt: !profile.HasSkills(),
	}
	for _, r := range results {
		relation, conn := RelationBetween(userID, r.Profile.ID, conns)
		m := DashboardMatch{MatchResult: r, Relation: relation}
		if conn != nil {
			id := conn.ID
			m.ConnectionID = &id
		}
		d.Matches = append(d.Matches, m)
	}
	return d, nil
}
