package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/sunshineiot/evolte-auth/internal/database"
)

var ErrNotFound = errors.New("user not found")

// Repository handles user data persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// UpsertLoginOTP stores a freshly issued passcode for email in a single
// statement: inserts a new row for an unseen address or overwrites
// otp/otp_created on the existing one. The name column is only written on
// the insert path; it never changes for an existing user. The returned bool
// reports whether a new row was created.
func (r *Repository) UpsertLoginOTP(ctx context.Context, name, email, otp string) (*User, bool, error) {
	dbUser := &database.User{
		Name:       name,
		Email:      email,
		OTP:        otp,
		OTPCreated: time.Now(),
	}

	// (xmax = 0) is true only for rows created by this statement, which lets
	// one round trip distinguish the insert path from the update path.
	_, err := r.db.NewInsert().
		Model(dbUser).
		On("CONFLICT (email) DO UPDATE").
		Set("otp = EXCLUDED.otp").
		Set("otp_created = EXCLUDED.otp_created").
		Set("updated_at = NOW()").
		Returning("*, (xmax = 0) AS inserted").
		Exec(ctx)

	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert login otp: %w", err)
	}

	return mapDBUserToModel(dbUser), dbUser.Inserted, nil
}

// GetByEmail retrieves a user by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("email = ?", email).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByEmailAndOTP retrieves a user by the exact email/otp pair. Expiry is
// the caller's concern; this only answers whether the pair matches a row.
func (r *Repository) GetByEmailAndOTP(ctx context.Context, email, otp string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("email = ?", email).
		Where("otp = ?", otp).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email and otp: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// UpdateProfilePicture overwrites the stored picture path for email
func (r *Repository) UpdateProfilePicture(ctx context.Context, email, path string) error {
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("profile_picture = ?", path).
		Set("updated_at = NOW()").
		Where("email = ?", email).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update profile picture: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	return &User{
		ID:             dbu.ID,
		Name:           dbu.Name,
		Email:          dbu.Email,
		OTP:            dbu.OTP,
		OTPCreated:     dbu.OTPCreated,
		ProfilePicture: dbu.ProfilePicture,
		CreatedAt:      dbu.CreatedAt,
		UpdatedAt:      dbu.UpdatedAt,
	}
}
