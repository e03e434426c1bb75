// Package memory is an in-process implementation of the profile, account,
// connection and message stores. One mutex guards everything, which gives
// it the same atomicity the PostgreSQL constraints and row locks give the
// SQL repositories.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/pkg/apperrors"
)

type pairKey [2]uuid.UUID

func keyFor(a, b uuid.UUID) pairKey {
	if a.String() > b.String() {
		a, b = b, a
	}
	return pairKey{a, b}
}

type conversation struct {
	messages []models.Message
	lastAt   time.Time
}

// Store keeps everything in maps.
type Store struct {
	mu sync.Mutex
	// Now is the clock; tests may replace it.
	Now func() time.Time

	profiles      map[uuid.UUID]models.Profile
	profileOrder  []uuid.UUID
	accounts      map[string]models.Account
	connections   map[uuid.UUID]models.Connection
	connOrder     []uuid.UUID
	pairs         map[pairKey]uuid.UUID
	conversations map[uuid.UUID]*conversation
	lastCreated   time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		Now:           time.Now,
		profiles:      make(map[uuid.UUID]models.Profile),
		accounts:      make(map[string]models.Account),
		connections:   make(map[uuid.UUID]models.Connection),
		pairs:         make(map[pairKey]uuid.UUID),
		conversations: make(map[uuid.UUID]*conversation),
	}
}

// now returns a UTC timestamp that never goes backwards. Caller holds mu.
func (s *Store) now() time.Time {
	t := s.Now().UTC()
	if t.Before(s.lastCreated) {
		t = s.lastCreated
	}
	s.lastCreated = t
	return t
}

func cloneProfile(p models.Profile) models.Profile {
	p.SkillsTeach = append([]string{}, p.SkillsTeach...)
	p.SkillsLearn = append([]string{}, p.SkillsLearn...)
	return p
}

// Create inserts a profile.
func (s *Store) Create(ctx context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createProfileLocked(profile)
}

func (s *Store) createProfileLocked(profile *models.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if _, exists := s.profiles[profile.ID]; exists {
		return apperrors.ErrConflict
	}
	email := strings.ToLower(profile.Email)
	for _, p := range s.profiles {
		if strings.ToLower(p.Email) == email {
			return apperrors.ErrEmailAlreadyExists
		}
	}

	now := s.now()
	profile.CreatedAt, profile.UpdatedAt = now, now
	stored := cloneProfile(*profile)
	*profile = cloneProfile(stored)

	s.profiles[profile.ID] = stored
	s.profileOrder = append(s.profileOrder, profile.ID)
	return nil
}

// GetByID returns a copy of the profile.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	clone := cloneProfile(p)
	return &clone, nil
}

// List returns all profiles in creation order.
func (s *Store) List(ctx context.Context) ([]models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Profile, 0, len(s.profileOrder))
	for _, id := range s.profileOrder {
		out = append(out, cloneProfile(s.profiles[id]))
	}
	return out, nil
}

// ListByIDs returns the known profiles among ids in creation order.
func (s *Store) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := []models.Profile{}
	for _, id := range s.profileOrder {
		if _, ok := want[id]; ok {
			out = append(out, cloneProfile(s.profiles[id]))
		}
	}
	return out, nil
}

// Update applies a partial update.
func (s *Store) Update(ctx context.Context, id uuid.UUID, patch models.ProfilePatch) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	if !patch.IsEmpty() {
		p = patch.Apply(p)
		p.UpdatedAt = s.now()
		s.profiles[id] = cloneProfile(p)
	}
	clone := cloneProfile(p)
	return &clone, nil
}

// CreateAccount inserts the profile and its credential together.
func (s *Store) CreateAccount(ctx context.Context, profile *models.Profile, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(profile.Email)
	if _, exists := s.accounts[email]; exists {
		return apperrors.ErrEmailAlreadyExists
	}
	if err := s.createProfileLocked(profile); err != nil {
		return err
	}
	s.accounts[email] = models.Account{
		ProfileID:    profile.ID,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    profile.CreatedAt,
	}
	return nil
}

// GetAccountByEmail looks a credential up case-insensitively.
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[strings.ToLower(email)]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return &a, nil
}
