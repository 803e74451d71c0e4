package domain

import "time"

// User is a registered shopper account.
type User struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Gender       string     `json:"gender,omitempty"`
	BirthDate    *time.Time `json:"birthDate,omitempty"`
	Address      string     `json:"address,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// UserPatch carries the optional fields of a profile update.
type UserPatch struct {
	Name      *string
	Address   *string
	Phone     *string
	Gender    *string
	BirthDate *time.Time
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Address == nil && p.Phone == nil && p.Gender == nil && p.BirthDate == nil
}
