package models

import "time"

// User is a platform account. Only the fields the wall subsystem needs are
// modeled here; account issuance itself lives with the auth provider.
type User struct {
	ID          int64
	DisplayName string

	// Birth month/day place the user in their tribe and anchor the wall
	// creation window. Timezone is an IANA name; the birthday instant is
	// local midnight there.
	BirthMonth time.Month
	BirthDay   int
	Timezone   string

	CreatedAt time.Time
}

// SameTribe reports whether two users share a birthday tribe (same birth
// month and day).
func (u *User) SameTribe(other *User) bool {
	return u.BirthMonth == other.BirthMonth && u.BirthDay == other.BirthDay
}
