package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the database representation of a registrant. One row per email;
// otp and otp_created are always written by the same statement.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID             uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name           string    `bun:"name,notnull"`
	Email          string    `bun:"email,notnull,unique"`
	OTP            string    `bun:"otp,notnull"`
	OTPCreated     time.Time `bun:"otp_created,notnull"`
	ProfilePicture *string   `bun:"profile_picture"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt      time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	// Inserted reports whether the row was created (rather than updated) by
	// an upsert statement. Populated from `(xmax = 0) AS inserted`.
	Inserted bool `bun:"inserted,scanonly"`
}
