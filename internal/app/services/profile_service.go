package services

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/pkg/apperrors"
	"github.com/yigit/skillswap/internal/pkg/validation"
)

// UpdateProfileInput carries the fields a student edits; nil fields are untouched.
type UpdateProfileInput struct {
	FullName       *string
	Department     *string
	YearOfStudy    *string
	Bio            *string
	CampusLocation *string
	SkillsTeach    []string
	SkillsLearn    []string
	// SetSkillsTeach and SetSkillsLearn distinguish "clear the list" from "leave it".
	SetSkillsTeach bool
	SetSkillsLearn bool
}

// ProfileService reads and edits profiles
type ProfileService struct {
	profiles ProfileStore
	logger   zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(profiles ProfileStore, logger zerolog.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, logger: logger}
}

// GetProfile returns a profile by id.
func (s *ProfileService) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "Profile not found")
	}
	return profile, nil
}

// UpdateProfile validates and applies a partial update.
func (s *ProfileService) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*models.Profile, error) {
	patch, err := s.buildPatch(in)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.Update(ctx, id, patch)
	if err != nil {
		return nil, wrapNotFound(err, "Profile not found")
	}

	s.logger.Info().Str("profileID", id.String()).Msg("Profile updated")
	return profile, nil
}

func (s *ProfileService) buildPatch(in UpdateProfileInput) (models.ProfilePatch, error) {
	var patch models.ProfilePatch

	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		ok := validation.NewStringValidation(name).
			WithMinLength(validation.NameMinLength).
			WithMaxLength(validation.NameMaxLength).
			Validate()
		if !ok {
			return patch, invalidField("fullName", "Full name must be between 2 and 100 characters")
		}
		patch.FullName = &name
	}

	if in.Department != nil {
		dept := strings.TrimSpace(*in.Department)
		if dept != "" && !slices.Contains(models.Departments, dept) {
			return patch, invalidField("department", "Unknown department")
		}
		patch.Department = &dept
	}

	if in.YearOfStudy != nil {
		year := strings.TrimSpace(*in.YearOfStudy)
		if year != "" && !slices.Contains(models.YearsOfStudy, year) {
			return patch, invalidField("yearOfStudy", "Unknown year of study")
		}
		patch.YearOfStudy = &year
	}

	if in.Bio != nil {
		bio := strings.TrimSpace(*in.Bio)
		if !validation.NewStringValidation(bio).WithRequired(false).WithMaxLength(validation.BioMaxLength).Validate() {
			return patch, invalidField("bio", "Bio is too long")
		}
		patch.Bio = &bio
	}

	if in.CampusLocation != nil {
		loc := strings.TrimSpace(*in.CampusLocation)
		if _, ok := models.FindCampusLocation(loc); loc != "" && !ok {
			return patch, invalidField("campusLocation", "Unknown campus location")
		}
		patch.CampusLocation = &loc
	}

	if in.SetSkillsTeach {
		skills := validation.NormalizeSkills(in.SkillsTeach)
		if !validation.ValidSkills(skills) {
			return patch, invalidField("skillsTeach", "Too many skills or a skill is too long")
		}
		patch.SkillsTeach = &skills
	}

	if in.SetSkillsLearn {
		skills := validation.NormalizeSkills(in.SkillsLearn)
		if !validation.ValidSkills(skills) {
			return patch, invalidField("skillsLearn", "Too many skills or a skill is too long")
		}
		patch.SkillsLearn = &skills
	}

	return patch, nil
}

func invalidField(field, message string) error {
	return apperrors.NewCustomError(apperrors.ErrValidationFailed, message).
		WithDetails(map[string]interface{}{"field": field})
}

// wrapNotFound attaches a user-facing message to a not-found error and
// passes any other error through.
func wrapNotFound(err error, message string) error {
	if apperrors.Is(err, apperrors.ErrResourceNotFound) {
		return apperrors.NewResourceNotFoundError(message)
	}
	return err
}
