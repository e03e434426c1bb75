package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/pkg/apperrors"
	"github.com/yigit/skillswap/internal/pkg/auth"
)

// DemoPassword is the password of every demo account.
const DemoPassword = "skillswap-demo"

// AccountCreator creates a profile together with its credential.
type AccountCreator interface {
	CreateAccount(ctx context.Context, profile *models.Profile, passwordHash string) error
}

// DemoProfiles are created by CreateDemoData.
var DemoProfiles = []models.Profile{
	{
		Email: "ananya@demo.skillswap.app", FullName: "Ananya Rao",
		Department: "Computer Science", YearOfStudy: "2nd Year", CampusLocation: "Library",
		Bio:         "Happy to pair on Python scripts in exchange for design help.",
		SkillsTeach: []string{"Python", "Data Structures"}, SkillsLearn: []string{"Canva", "Public Speaking"},
	},
	{
		Email: "rahul@demo.skillswap.app", FullName: "Rahul Verma",
		Department: "Business", YearOfStudy: "3rd Year", CampusLocation: "Cafeteria",
		Bio:         "Poster and pitch deck person. Wants to finally learn to code.",
		SkillsTeach: []string{"Canva", "Public Speaking"}, SkillsLearn: []string{"Python", "Data Structures"},
	},
	{
		Email: "meera@demo.skillswap.app", FullName: "Meera Iyer",
		Department: "Electronics", YearOfStudy: "1st Year", CampusLocation: "Innovation Lab",
		SkillsTeach: []string{"Arduino", "Guitar"}, SkillsLearn: []string{"Data Structures", "Canva"},
	},
	{
		Email: "arjun@demo.skillswap.app", FullName: "Arjun Nair",
		Department: "Mechanical", YearOfStudy: "4th Year", CampusLocation: "Sports Complex",
		SkillsTeach: []string{"Photography"}, SkillsLearn: []string{"Guitar", "Arduino"},
	},
}

// CreateDemoData creates the demo profiles that do not exist yet. Running it
// again is a no-op.
func CreateDemoData(ctx context.Context, accounts AccountCreator, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating demo profiles...")

	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return err
	}

	var finalErr error // collect errors without stopping the process
	created := 0
	for _, demo := range DemoProfiles {
		profile := demo
		profile.SkillsTeach = append([]string(nil), demo.SkillsTeach...)
		profile.SkillsLearn = append([]string(nil), demo.SkillsLearn...)

		err := accounts.CreateAccount(ctx, &profile, hash)
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		default:
			lgr.Error().Err(err).Str("email", demo.Email).Msg("Error creating demo profile")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Int("created", created).Msg("Demo profiles ready")
	return finalErr
}
