package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/skillswap/internal/app/models"
)

// CampusService serves the campus map.
type CampusService struct {
	connections *ConnectionService
	profiles    ProfileStore
	logger      zerolog.Logger
}

// NewCampusService creates a new CampusService
func NewCampusService(connections *ConnectionService, profiles ProfileStore, logger zerolog.Logger) *CampusService {
	return &CampusService{connections: connections, profiles: profiles, logger: logger}
}

// Locations returns the map centre and the location catalogue.
func (s *CampusService) Locations() (models.CampusLocation, []models.CampusLocation) {
	return models.CampusCenter, append([]models.CampusLocation(nil), models.CampusLocations...)
}

// Peers returns the user's accepted connections that have a known campus location.
func (s *CampusService) Peers(ctx context.Context, userID uuid.UUID) ([]models.CampusPeer, error) {
	conns, err := s.connections.ListFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := []uuid.UUID{}
	for _, c := range Partition(userID, conns).Accepted {
		ids = append(ids, c.Other(userID))
	}

	profiles, err := s.profiles.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load campus peers")
		return nil, err
	}

	peers := []models.CampusPeer{}
	for _, p := range profiles {
		loc, ok := models.FindCampusLocation(p.CampusLocation)
		if !ok {
			continue
		}
		peers = append(peers, models.CampusPeer{Profile: p, Location: loc})
	}
	return peers, nil
}
