package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/skillswap/internal/app/matching"
	"github.com/yigit/skillswap/internal/app/models"
)

// MatchService loads profiles and ranks them for a viewer. Nothing is
// cached; every call sees the profiles as they are now.
type MatchService struct {
	profiles ProfileStore
	logger   zerolog.Logger
}

// NewMatchService creates a new MatchService
func NewMatchService(profiles ProfileStore, logger zerolog.Logger) *MatchService {
	return &MatchService{profiles: profiles, logger: logger}
}

// MatchesFor returns the ranked matches of the given profile.
func (s *MatchService) MatchesFor(ctx context.Context, viewerID uuid.UUID) ([]models.MatchResult, error) {
	self, err := s.profiles.GetByID(ctx, viewerID)
	if err != nil {
		return nil, wrapNotFound(err, "Profile not found")
	}

	candidates, err := s.profiles.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list profiles for matching")
		return nil, err
	}

	results := matching.ComputeMatches(*self, candidates)
	s.logger.Debug().
		Str("viewerID", viewerID.String()).
		Int("candidates", len(candidates)).
		Int("matches", len(results)).
		Msg("Computed matches")
	return results, nil
}
