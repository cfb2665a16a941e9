package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"time"

	"github.com/sunshineiot/evolte-auth/internal/logging"
	"github.com/sunshineiot/evolte-auth/internal/user"
)

var (
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrOTPRequired        = errors.New("otp is required")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrInvalidOTP         = errors.New("invalid OTP")
	ErrOTPExpired         = errors.New("OTP expired")
)

// Service handles the passwordless login workflow: OTP issuance,
// verification, and profile data.
type Service struct {
	userRepo    UserRepository
	otpService  OTPService
	fileStore   FileStore
	logger      *logging.Logger
	otpTTL      time.Duration
	bypassEmail string
}

func NewService(
	userRepo UserRepository,
	otpService OTPService,
	fileStore FileStore,
	logger *logging.Logger,
	otpTTL time.Duration,
	bypassEmail string,
) *Service {
	return &Service{
		userRepo:    userRepo,
		otpService:  otpService,
		fileStore:   fileStore,
		logger:      logger,
		otpTTL:      otpTTL,
		bypassEmail: bypassEmail,
	}
}

// Login registers an unseen email or re-issues a passcode for a known one.
// Exactly one email is sent and exactly one row is written per call; the
// write is a single conditional upsert, so two concurrent logins for the
// same unseen address cannot both insert. Returns true when a new user was
// created.
func (s *Service) Login(ctx context.Context, name, email string) (bool, error) {
	if name == "" {
		return false, ErrNameRequired
	}
	if email == "" {
		return false, ErrEmailRequired
	}
	if len(email) > 254 {
		return false, ErrInvalidEmailFormat
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return false, ErrInvalidEmailFormat
	}

	// Issuance is awaited: the passcode is only stored once the mail
	// transport accepted the message carrying it.
	otp, err := s.otpService.IssueOTP(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to issue OTP: %w", err)
	}

	_, created, err := s.userRepo.UpsertLoginOTP(ctx, name, email, otp)
	if err != nil {
		return false, fmt.Errorf("failed to store OTP: %w", err)
	}

	return created, nil
}

// VerifyOTP succeeds iff a row matches the email/otp pair exactly and the
// pair's own issuance time is within the freshness window. The bypass
// address, when configured, short-circuits without consulting storage.
func (s *Service) VerifyOTP(ctx context.Context, email, otp string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if otp == "" {
		return ErrOTPRequired
	}

	if s.bypassEmail != "" && email == s.bypassEmail {
		s.logger.Warn("OTP verification bypassed", "email", email)
		return nil
	}

	matched, err := s.userRepo.GetByEmailAndOTP(ctx, email, otp)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrInvalidOTP
		}
		return fmt.Errorf("failed to look up OTP: %w", err)
	}

	// Expiry is measured against the matched row's own issuance time.
	if time.Now().After(matched.OTPCreated.Add(s.otpTTL)) {
		return ErrOTPExpired
	}

	return nil
}

// UploadProfilePicture persists the image for an existing user and records
// its path, replacing any previous picture. ext must include the leading
// dot. Returns the stored storage-relative path.
func (s *Service) UploadProfilePicture(ctx context.Context, email, ext string, src io.Reader) (string, error) {
	if email == "" {
		return "", ErrEmailRequired
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", user.ErrNotFound
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	path, err := s.fileStore.Save(email, ext, src)
	if err != nil {
		return "", fmt.Errorf("failed to store profile picture: %w", err)
	}

	if err := s.userRepo.UpdateProfilePicture(ctx, email, path); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", user.ErrNotFound
		}
		return "", fmt.Errorf("failed to record profile picture: %w", err)
	}

	return path, nil
}

// GetUserInfo looks up a user's public profile by email.
func (s *Service) GetUserInfo(ctx context.Context, email string) (*user.User, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}

	found, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return found, nil
}
