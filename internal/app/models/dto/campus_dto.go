package dto

import "github.com/yigit/skillswap/internal/app/models"

// CampusLocationsResponse is the campus map catalogue
type CampusLocationsResponse struct {
	Center    models.CampusLocation   `json:"center"`
	Locations []models.CampusLocation `json:"locations"`
}

// CampusPeerResponse is a connected student placed on the map
type CampusPeerResponse struct {
	Profile  ProfileResponse       `json:"profile"`
	Location models.CampusLocation `json:"location"`
}

// NewCampusPeerResponses converts campus peers
func NewCampusPeerResponses(peers []models.CampusPeer) []CampusPeerResponse {
	out := make([]CampusPeerResponse, 0, len(peers))
	for _, p := range peers {
		out = append(out, CampusPeerResponse{Profile: NewPublicProfileResponse(p.Profile), Location: p.Location})
	}
	return out
}
