package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/skillswap/internal/app/models"
	"github.com/yigit/skillswap/internal/db"
	"github.com/yigit/skillswap/internal/pkg/apperrors"
	"github.com/yigit/skillswap/internal/pkg/dberrors"
)

// AccountRepository stores login credentials next to profiles.
type AccountRepository struct {
	db db.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(pool db.Pool) *AccountRepository {
	return &AccountRepository{db: pool}
}

// CreateAccount inserts the profile and its credential in one transaction.
func (r *AccountRepository) CreateAccount(ctx context.Context, profile *models.Profile, passwordHash string) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := insertProfile(ctx, tx, profile); err != nil {
			return err
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO accounts (profile_id, email, password_hash) VALUES ($1, $2, $3)`,
			profile.ID, strings.ToLower(profile.Email), passwordHash,
		)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, constraintAccountEmail) {
				return apperrors.ErrEmailAlreadyExists
			}
			return fmt.Errorf("error creating account: %w", err)
		}
		return nil
	})
}

// GetAccountByEmail looks up a credential, case-insensitively.
func (r *AccountRepository) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var a models.Account
	err := r.db.QueryRow(ctx,
		`SELECT profile_id, email, password_hash, created_at FROM accounts WHERE LOWER(email) = LOWER($1)`,
		email,
	).Scan(&a.ProfileID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving account: %w", err)
	}
	return &a, nil
}
