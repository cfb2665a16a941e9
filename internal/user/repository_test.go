package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunshineiot/evolte-auth/internal/database"
)

var userColumns = []string{"id", "name", "email", "otp", "otp_created", "profile_picture", "created_at", "updated_at"}

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return NewRepository(database.NewBunDB(sqlDB)), mock
}

func userRow(mock sqlmock.Sqlmock, otpCreated time.Time) *sqlmock.Rows {
	return mock.NewRows(userColumns).
		AddRow(uuid.NewString(), "A", "a@x.com", "1234", otpCreated, nil, time.Now(), time.Now())
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT .+ FROM "users"`).WillReturnRows(userRow(mock, time.Now()))

	got, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Equal(t, "1234", got.OTP)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT .+ FROM "users"`).WillReturnRows(mock.NewRows(userColumns))

	_, err := repo.GetByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByEmailAndOTP_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT .+ FROM "users" .+ WHERE`).WillReturnRows(mock.NewRows(userColumns))

	_, err := repo.GetByEmailAndOTP(context.Background(), "a@x.com", "9999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertLoginOTP_InsertPath(t *testing.T) {
	repo, mock := newMockRepository(t)

	rows := mock.NewRows(append(userColumns, "inserted")).
		AddRow(uuid.NewString(), "A", "a@x.com", "1234", time.Now(), nil, time.Now(), time.Now(), true)
	mock.ExpectQuery(`INSERT INTO "users" .+ ON CONFLICT \(email\) DO UPDATE`).WillReturnRows(rows)

	got, created, err := repo.UpsertLoginOTP(context.Background(), "A", "a@x.com", "1234")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "a@x.com", got.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertLoginOTP_UpdatePath(t *testing.T) {
	repo, mock := newMockRepository(t)

	rows := mock.NewRows(append(userColumns, "inserted")).
		AddRow(uuid.NewString(), "A", "a@x.com", "5678", time.Now(), nil, time.Now(), time.Now(), false)
	mock.ExpectQuery(`INSERT INTO "users" .+ ON CONFLICT \(email\) DO UPDATE`).WillReturnRows(rows)

	got, created, err := repo.UpsertLoginOTP(context.Background(), "A", "a@x.com", "5678")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "5678", got.OTP)
}

func TestUpdateProfilePicture(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`UPDATE "users" .+ SET profile_picture`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateProfilePicture(context.Background(), "a@x.com", "uploads/profile-pictures/a_x_com.png")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfilePicture_NoSuchUser(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`UPDATE "users" .+ SET profile_picture`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateProfilePicture(context.Background(), "nobody@x.com", "uploads/profile-pictures/x.png")
	assert.ErrorIs(t, err, ErrNotFound)
}
