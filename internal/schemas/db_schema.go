// Package schemas defines the data structures
package schemas

import (
	"time"

	"github.com/google/uuid"
)

// VerificationTokenTTL is the validity window of a verification token,
// counted from the moment it was issued.
const VerificationTokenTTL = 24 * time.Hour

// User represents the data model for a user account in the system.
type User struct {
	ID        uuid.UUID  `json:"id"`         // Unique identifier for the user.
	Username  string     `json:"username"`   // Username of the user, unique system-wide.
	Email     string     `json:"email"`      // Email address of the user.
	FirstName string     `json:"first_name"` // First name of the user.
	LastName  string     `json:"last_name"`  // Last name of the user.
	Password  string     `json:"-"`          // Bcrypt hash of the user's password.
	IsActive  bool       `json:"is_active"`  // Whether the account may log in.
	CreatedAt *time.Time `json:"created_at"` // Timestamp when the user was created.
}

// DisplayName returns the first name when present, the username otherwise.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// UserProfile is the verification record attached 1:1 to a user account.
// It carries the current verification token and its issuance time.
type UserProfile struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	IsEmailVerified bool       `json:"is_email_verified"`
	Token           uuid.UUID  `json:"token"`
	TokenIssuedAt   *time.Time `json:"token_issued_at"` // Nil until a token has been issued.
}

// TokenExpired reports whether the profile's verification token is past
// its validity window at the given instant. A profile that never had a
// token issued is always expired.
func (p *UserProfile) TokenExpired(now time.Time) bool {
	if p.TokenIssuedAt == nil {
		return true
	}
	return now.After(p.TokenIssuedAt.Add(VerificationTokenTTL))
}

// Post represents a single message published by a user. Posts are
// immutable once created.
type Post struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
