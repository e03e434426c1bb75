package dto

import (
	"time"

	"github.com/yigit/skillswap/internal/app/models"
)

// ProfileResponse is a profile as shown to its owner. Email is left out
// when another student is looking.
type ProfileResponse struct {
	ID             string    `json:"id" example:"7b0c0e7e-3b8e-4f0e-9a55-1f0c1c7a4a10"`
	Email          string    `json:"email,omitempty" example:"ada@campus.edu"`
	FullName       string    `json:"fullName" example:"Ada Lovelace"`
	Department     string    `json:"department" example:"Computer Science"`
	YearOfStudy    string    `json:"yearOfStudy" example:"2nd Year"`
	Bio            string    `json:"bio"`
	CampusLocation string    `json:"campusLocation" example:"Library"`
	SkillsTeach    []string  `json:"skillsTeach"`
	SkillsLearn    []string  `json:"skillsLearn"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UpdateProfileRequest is a partial profile update. Absent fields are left
// unchanged; an explicit empty list clears the skills.
type UpdateProfileRequest struct {
	FullName       *string   `json:"fullName,omitempty" binding:"omitempty,max=100"`
	Department     *string   `json:"department,omitempty"`
	YearOfStudy    *string   `json:"yearOfStudy,omitempty"`
	Bio            *string   `json:"bio,omitempty"`
	CampusLocation *string   `json:"campusLocation,omitempty"`
	SkillsTeach    *[]string `json:"skillsTeach,omitempty"`
	SkillsLearn    *[]string `json:"skillsLearn,omitempty"`
}

// ProfileOptionsResponse lists the values the profile form offers.
type ProfileOptionsResponse struct {
	Departments     []string `json:"departments"`
	YearsOfStudy    []string `json:"yearsOfStudy"`
	CampusLocations []string `json:"campusLocations"`
}

// NewProfileResponse converts a profile for its owner
func NewProfileResponse(p models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:             p.ID.String(),
		Email:          p.Email,
		FullName:       p.FullName,
		Department:     p.Department,
		YearOfStudy:    p.YearOfStudy,
		Bio:            p.Bio,
		CampusLocation: p.CampusLocation,
		SkillsTeach:    nonNilStrings(p.SkillsTeach),
		SkillsLearn:    nonNilStrings(p.SkillsLearn),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// NewPublicProfileResponse converts a profile for other students
func NewPublicProfileResponse(p models.Profile) ProfileResponse {
	resp := NewProfileResponse(p)
	resp.Email = ""
	return resp
}

// NewProfileOptionsResponse lists departments, years and campus locations
func NewProfileOptionsResponse() ProfileOptionsResponse {
	locations := make([]string, 0, len(models.CampusLocations))
	for _, l := range models.CampusLocations {
		locations = append(locations, l.Name)
	}
	return ProfileOptionsResponse{
		Departments:     append([]string(nil), models.Departments...),
		YearsOfStudy:    append([]string(nil), models.YearsOfStudy...),
		CampusLocations: locations,
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
