package auth

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunshineiot/evolte-auth/internal/email"
	"github.com/sunshineiot/evolte-auth/internal/logging"
	"github.com/sunshineiot/evolte-auth/internal/user"
)

// --- fakes ---

type fakeUserRepo struct {
	upsertOut     *user.User
	upsertCreated bool
	upsertErr     error
	upsertCalls   int
	upsertOTP     string

	byEmailOut *user.User
	byEmailErr error

	byEmailOTPOut *user.User
	byEmailOTPErr error
	lookupCalls   int

	updatePictureErr  error
	updatePicturePath string
}

func (f *fakeUserRepo) UpsertLoginOTP(_ context.Context, name, email, otp string) (*user.User, bool, error) {
	f.upsertCalls++
	f.upsertOTP = otp
	return f.upsertOut, f.upsertCreated, f.upsertErr
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	return f.byEmailOut, f.byEmailErr
}

func (f *fakeUserRepo) GetByEmailAndOTP(_ context.Context, email, otp string) (*user.User, error) {
	f.lookupCalls++
	return f.byEmailOTPOut, f.byEmailOTPErr
}

func (f *fakeUserRepo) UpdateProfilePicture(_ context.Context, email, path string) error {
	f.updatePicturePath = path
	return f.updatePictureErr
}

type fakeOTPService struct {
	out   string
	err   error
	calls int
	sent  []string
}

func (f *fakeOTPService) IssueOTP(_ context.Context, toEmail string) (string, error) {
	f.calls++
	f.sent = append(f.sent, toEmail)
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

type fakeFileStore struct {
	out string
	err error
}

func (f *fakeFileStore) Save(email, ext string, src io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	io.Copy(io.Discard, src)
	return f.out, nil
}

func newTestService(repo *fakeUserRepo, otp *fakeOTPService, store *fakeFileStore, bypass string) *Service {
	return NewService(repo, otp, store, logging.NewLogger(true), 5*time.Minute, bypass)
}

func sampleUser(otpCreated time.Time) *user.User {
	return &user.User{
		ID:         uuid.New(),
		Name:       "A",
		Email:      "a@x.com",
		OTP:        "1234",
		OTPCreated: otpCreated,
	}
}

// --- Login ---

func TestLogin_CreatesUnseenUser(t *testing.T) {
	repo := &fakeUserRepo{upsertOut: sampleUser(time.Now()), upsertCreated: true}
	otp := &fakeOTPService{out: "1234"}
	svc := newTestService(repo, otp, &fakeFileStore{}, "")

	created, err := svc.Login(context.Background(), "A", "a@x.com")
	require.NoError(t, err)
	assert.True(t, created)

	assert.Equal(t, 1, otp.calls, "exactly one email per invocation")
	assert.Equal(t, []string{"a@x.com"}, otp.sent)
	assert.Equal(t, 1, repo.upsertCalls, "exactly one storage write per invocation")
	assert.Equal(t, "1234", repo.upsertOTP, "stored code must be the issued one")
}

func TestLogin_ExistingUserGetsFreshOTP(t *testing.T) {
	repo := &fakeUserRepo{upsertOut: sampleUser(time.Now()), upsertCreated: false}
	otp := &fakeOTPService{out: "9876"}
	svc := newTestService(repo, otp, &fakeFileStore{}, "")

	created, err := svc.Login(context.Background(), "A", "a@x.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, otp.calls)
	assert.Equal(t, "9876", repo.upsertOTP)
}

func TestLogin_Validation(t *testing.T) {
	tests := []struct {
		name      string
		userName  string
		userEmail string
		wantErr   error
	}{
		{"missing name", "", "a@x.com", ErrNameRequired},
		{"missing email", "A", "", ErrEmailRequired},
		{"malformed email", "A", "not-an-email", ErrInvalidEmailFormat},
		{"oversized email", "A", strings.Repeat("a", 250) + "@x.com", ErrInvalidEmailFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUserRepo{}
			otp := &fakeOTPService{out: "1234"}
			svc := newTestService(repo, otp, &fakeFileStore{}, "")

			_, err := svc.Login(context.Background(), tt.userName, tt.userEmail)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, otp.calls, "no email may be sent for invalid input")
			assert.Zero(t, repo.upsertCalls, "no write may happen for invalid input")
		})
	}
}

func TestLogin_DeliveryFailureAbortsBeforeWrite(t *testing.T) {
	repo := &fakeUserRepo{}
	otp := &fakeOTPService{err: email.ErrDeliveryFailed}
	svc := newTestService(repo, otp, &fakeFileStore{}, "")

	_, err := svc.Login(context.Background(), "A", "a@x.com")
	assert.ErrorIs(t, err, email.ErrDeliveryFailed)
	assert.Zero(t, repo.upsertCalls, "a code that was never delivered must not be stored")
}

func TestLogin_StorageFailure(t *testing.T) {
	repo := &fakeUserRepo{upsertErr: errors.New("connection refused")}
	svc := newTestService(repo, &fakeOTPService{out: "1234"}, &fakeFileStore{}, "")

	_, err := svc.Login(context.Background(), "A", "a@x.com")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, email.ErrDeliveryFailed)
}

// --- VerifyOTP ---

func TestVerifyOTP_FreshCode(t *testing.T) {
	repo := &fakeUserRepo{byEmailOTPOut: sampleUser(time.Now().Add(-4 * time.Minute))}
	svc := newTestService(repo, &fakeOTPService{}, &fakeFileStore{}, "")

	err := svc.VerifyOTP(context.Background(), "a@x.com", "1234")
	assert.NoError(t, err)
}

func TestVerifyOTP_ExpiredCode(t *testing.T) {
	repo := &fakeUserRepo{byEmailOTPOut: sampleUser(time.Now().Add(-5*time.Minute - time.Second))}
	svc := newTestService(repo, &fakeOTPService{}, &fakeFileStore{}, "")

	err := svc.VerifyOTP(context.Background(), "a@x.com", "1234")
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestVerifyOTP_NoMatchingPair(t *testing.T) {
	repo := &fakeUserRepo{byEmailOTPErr: user.ErrNotFound}
	svc := newTestService(repo, &fakeOTPService{}, &fakeFileStore{}, "")

	err := svc.VerifyOTP(context.Background(), "a@x.com", "0000")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerifyOTP_Validation(t *testing.T) {
	svc := newTestService(&fakeUserRepo{}, &fakeOTPService{}, &fakeFileStore{}, "")

	assert.ErrorIs(t, svc.VerifyOTP(context.Background(), "", "1234"), ErrEmailRequired)
	assert.ErrorIs(t, svc.VerifyOTP(context.Background(), "a@x.com", ""), ErrOTPRequired)
}

func TestVerifyOTP_BypassEmailSkipsStorage(t *testing.T) {
	repo := &fakeUserRepo{byEmailOTPErr: user.ErrNotFound}
	svc := newTestService(repo, &fakeOTPService{}, &fakeFileStore{}, "qa@example.com")

	err := svc.VerifyOTP(context.Background(), "qa@example.com", "anything")
	assert.NoError(t, err)
	assert.Zero(t, repo.lookupCalls, "bypass must not consult storage")
}

func TestVerifyOTP_BypassDisabledByDefault(t *testing.T) {
	repo := &fakeUserRepo{byEmailOTPErr: user.ErrNotFound}
	svc := newTestService(repo, &fakeOTPService{}, &fakeFileStore{}, "")

	err := svc.VerifyOTP(context.Background(), "qa@example.com", "anything")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

// --- UploadProfilePicture / GetUserInfo ---

func TestUploadProfilePicture_StoresAndRecordsPath(t *testing.T) {
	repo := &fakeUserRepo{byEmailOut: sampleUser(time.Now())}
	store := &fakeFileStore{out: "uploads/profile-pictures/a_x_com.png"}
	svc := newTestService(repo, &fakeOTPService{}, store, "")

	path, err := svc.UploadProfilePicture(context.Background(), "a@x.com", ".png", strings.NewReader("img"))
	require.NoError(t, err)
	assert.Equal(t, "uploads/profile-pictures/a_x_com.png", path)
	assert.Equal(t, path, repo.updatePicturePath)
}

func TestUploadProfilePicture_UnknownUser(t *testing.T) {
	repo := &fakeUserRepo{byEmailErr: user.ErrNotFound}
	store := &fakeFileStore{out: "uploads/profile-pictures/x.png"}
	svc := newTestService(repo, &fakeOTPService{}, store, "")

	_, err := svc.UploadProfilePicture(context.Background(), "nobody@x.com", ".png", strings.NewReader("img"))
	assert.ErrorIs(t, err, user.ErrNotFound)
	assert.Empty(t, repo.updatePicturePath, "no write may happen for an unknown user")
}

func TestUploadProfilePicture_StoreFailure(t *testing.T) {
	repo := &fakeUserRepo{byEmailOut: sampleUser(time.Now())}
	store := &fakeFileStore{err: errors.New("disk full")}
	svc := newTestService(repo, &fakeOTPService{}, store, "")

	_, err := svc.UploadProfilePicture(context.Background(), "a@x.com", ".png", strings.NewReader("img"))
	assert.Error(t, err)
	assert.Empty(t, repo.updatePicturePath)
}

func TestGetUserInfo(t *testing.T) {
	want := sampleUser(time.Now())
	repo := &fakeUserRepo{byEmailOut: want}
	svc := newTestService(repo, &fakeOTPService{}, &fakeFileStore{}, "")

	got, err := svc.GetUserInfo(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetUserInfo_UnknownUser(t *testing.T) {
	repo := &fakeUserRepo{byEmailErr: user.ErrNotFound}
	svc := newTestService(repo, &fakeOTPService{}, &fakeFileStore{}, "")

	_, err := svc.GetUserInfo(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, user.ErrNotFound)
}
