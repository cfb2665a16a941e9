package auth

import (
	"context"
	"io"

	"github.com/sunshineiot/evolte-auth/internal/user"
)

// UserRepository defines the storage operations the workflow needs.
// Implemented by user.Repository; tests substitute fakes.
type UserRepository interface {
	UpsertLoginOTP(ctx context.Context, name, email, otp string) (*user.User, bool, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByEmailAndOTP(ctx context.Context, email, otp string) (*user.User, error)
	UpdateProfilePicture(ctx context.Context, email, path string) error
}

// OTPService defines the interface for passcode issuance. IssueOTP must
// return only after the transport accepted the message.
type OTPService interface {
	IssueOTP(ctx context.Context, toEmail string) (string, error)
}

// FileStore defines the interface for persisting uploaded profile pictures.
// Save returns the storage-relative path the file is addressable under.
type FileStore interface {
	Save(email, ext string, src io.Reader) (string, error)
}
