package domain

import "time"

// Role is fixed when a user registers.
type Role string

const (
	RoleRider  Role = "rider"
	RoleDriver Role = "driver"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleRider || r == RoleDriver
}

// Language is the user's interface language preference.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageAmharic Language = "am"
)

// Profile holds optional display data for a user.
type Profile struct {
	Name   string
	Avatar string
}

// User represents a rider or driver account, keyed by phone number.
type User struct {
	ID        string
	Phone     string
	Role      Role
	Language  Language
	Profile   *Profile
	CreatedAt time.Time
}
