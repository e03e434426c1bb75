package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/pkg/apperrors"
	"github.com/yigit/skillswap/internal/pkg/auth"
	"github.com/yigit/skillswap/internal/pkg/validation"
)

// RegisterInput is what a new student signs up with.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

// AuthResult is a signed-in profile with its access token.
type AuthResult struct {
	Profile     *models.Profile
	AccessToken string
	ExpiresIn   int
}

// AuthService handles authentication operations
type AuthService struct {
	accounts   AccountStore
	profiles   ProfileStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(accounts AccountStore, profiles ProfileStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		accounts:   accounts,
		profiles:   profiles,
		jwtService: jwtService,
		logger:     logger,
	}
}

func (s *AuthService) validateRegistration(in *RegisterInput) error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)

	if !validation.IsValidEmail(in.Email) {
		return invalidField("email", "Email format is invalid")
	}
	if len(in.Password) < validation.PasswordMinLength {
		return invalidField("password", "Password must be at least 6 characters long")
	}
	ok := validation.NewStringValidation(in.FullName).
		WithMinLength(validation.NameMinLength).
		WithMaxLength(validation.NameMaxLength).
		Validate()
	if !ok {
		return invalidField("fullName", "Full name must be between 2 and 100 characters")
	}
	return nil
}

// Register creates a profile with a credential and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := s.validateRegistration(&in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	profile := &models.Profile{
		Email:       in.Email,
		FullName:    in.FullName,
		SkillsTeach: []string{},
		SkillsLearn: []string{},
	}
	if err := s.accounts.CreateAccount(ctx, profile, hash); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "An account with this email already exists")
		}
		s.logger.Error().Err(err).Str("email", in.Email).Msg("Failed to create account")
		return nil, err
	}

	s.logger.Info().Str("profileID", profile.ID.String()).Msg("Profile registered")
	return s.issue(profile)
}

// Login checks a credential and signs the profile in.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(account.PasswordHash, password) {
		s.logger.Debug().Str("profileID", account.ProfileID.String()).Msg("Password mismatch")
		return nil, apperrors.ErrInvalidCredentials
	}

	profile, err := s.profiles.GetByID(ctx, account.ProfileID)
	if err != nil {
		return nil, err
	}
	return s.issue(profile)
}

func (s *AuthService) issue(profile *models.Profile) (*AuthResult, error) {
	token, expiresIn, err := s.jwtService.GenerateAccessToken(profile.ID, profile.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign access token")
		return nil, err
	}
	return &AuthResult{Profile: profile, AccessToken: token, ExpiresIn: expiresIn}, nil
}
