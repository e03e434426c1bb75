package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/db"
	"github.com/yigit/skillswap/internal/pkg/apperrors"
	"github.com/yigit/skillswap/internal/pkg/dberrors"
)

var profileColumns = []string{
	"id", "email", "full_name", "department", "year_of_study", "bio",
	"campus_location", "skills_teach", "skills_learn", "created_at", "updated_at",
}

// ProfileRepository handles database operations for profiles
type ProfileRepository struct {
	db db.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(pool db.Pool) *ProfileRepository {
	return &ProfileRepository{db: pool}
}

// Create inserts a profile. A nil ID is replaced with a fresh one.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return insertProfile(ctx, r.db, profile)
}

func insertProfile(ctx context.Context, q querier, profile *models.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if profile.SkillsTeach == nil {
		profile.SkillsTeach = []string{}
	}
	if profile.SkillsLearn == nil {
		profile.SkillsLearn = []string{}
	}

	sql, args, err := squirrel.Insert("profiles").
		Columns("id", "email", "full_name", "department", "year_of_study", "bio",
			"campus_location", "skills_teach", "skills_learn").
		Values(profile.ID, profile.Email, profile.FullName, profile.Department, profile.YearOfStudy,
			profile.Bio, profile.CampusLocation, profile.SkillsTeach, profile.SkillsLearn).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building profile insert: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&profile.CreatedAt, &profile.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintProfileEmail) {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating profile: %w", err)
	}
	return nil
}

// GetByID retrieves a profile by its ID
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	sql, args, err := squirrel.Select(profileColumns...).
		From("profiles").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building profile query: %w", err)
	}

	profile, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}
	return profile, nil
}

// List returns every profile, oldest first.
func (r *ProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	sql, args, err := squirrel.Select(profileColumns...).
		From("profiles").
		OrderBy("created_at", "id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building profile list query: %w", err)
	}
	return r.queryProfiles(ctx, sql, args...)
}

// ListByIDs returns the profiles with the given ids; unknown ids are skipped.
func (r *ProfileRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error) {
	if len(ids) == 0 {
		return []models.Profile{}, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	sql, args, err := squirrel.Select(profileColumns...).
		From("profiles").
		Where("id = ANY(?::uuid[])", raw).
		OrderBy("created_at", "id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building profile query: %w", err)
	}
	return r.queryProfiles(ctx, sql, args...)
}

// Update applies a partial update and returns the stored profile.
func (r *ProfileRepository) Update(ctx context.Context, id uuid.UUID, patch models.ProfilePatch) (*models.Profile, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	set := map[string]interface{}{"updated_at": time.Now()}
	if patch.FullName != nil {
		set["full_name"] = *patch.FullName
	}
	if patch.Department != nil {
		set["department"] = *patch.Department
	}
	if patch.YearOfStudy != nil {
		set["year_of_study"] = *patch.YearOfStudy
	}
	if patch.Bio != nil {
		set["bio"] = *patch.Bio
	}
	if patch.CampusLocation != nil {
		set["campus_location"] = *patch.CampusLocation
	}
	if patch.SkillsTeach != nil {
		set["skills_teach"] = nonNil(*patch.SkillsTeach)
	}
	if patch.SkillsLearn != nil {
		set["skills_learn"] = nonNil(*patch.SkillsLearn)
	}

	sql, args, err := squirrel.Update("profiles").
		SetMap(set).
		Where("id = ?", id).
		Suffix("RETURNING " + strings.Join(profileColumns, ", ")).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building profile update: %w", err)
	}

	profile, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return profile, nil
}

func (r *ProfileRepository) queryProfiles(ctx context.Context, sql string, args ...interface{}) ([]models.Profile, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying profiles: %w", err)
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning profile: %w", err)
		}
		profiles = append(profiles, *profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}
	return profiles, nil
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID, &p.Email, &p.FullName, &p.Department, &p.YearOfStudy, &p.Bio,
		&p.CampusLocation, &p.SkillsTeach, &p.SkillsLearn, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.SkillsTeach = nonNil(p.SkillsTeach)
	p.SkillsLearn = nonNil(p.SkillsLearn)
	return &p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
