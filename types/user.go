package types

import "time"

// User represents an account in the system.
// It contains identity, profile fields, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Email is the user's email address. It is unique across accounts
	// and doubles as the login name.
	Email string `json:"email" db:"email"`

	// Name is the user's display name.
	Name string `json:"name" db:"name"`

	// AvatarURL points at the user's avatar image. A deterministic
	// placeholder is generated at registration; the user may replace it
	// through a profile update.
	AvatarURL string `json:"avatar_url" db:"avatar_url"`

	// DateOfBirth is an optional profile field.
	DateOfBirth *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`

	// Bio is an optional free-form self description.
	Bio string `json:"bio,omitempty" db:"bio"`

	// Location is an optional free-form location string.
	Location string `json:"location,omitempty" db:"location"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// Followers are the follow edges pointing at this user. Populated
	// only when the caller asks for the expanded aggregate.
	Followers []Follow `json:"followers,omitempty" db:"-"`

	// Following are the follow edges originating from this user.
	// Populated only when the caller asks for the expanded aggregate.
	Following []Follow `json:"following,omitempty" db:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
