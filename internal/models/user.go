package models

import "time"

// Roles.
const (
	RoleAdmin       = "ADMIN"
	RoleResponsable = "RESPONSABLE"
)

// ValidRole reports whether r is a known role.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleResponsable
}

// User is an authenticated actor.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Username  string `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Email     string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Role      string `gorm:"size:20;not null;default:RESPONSABLE" json:"role"`

	// PersonneID optionally links the account to a citizen record for display.
	PersonneID *uint     `gorm:"uniqueIndex" json:"personneId,omitempty"`
	Personne   *Personne `gorm:"foreignKey:PersonneID;constraint:OnDelete:SET NULL" json:"personne,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// DisplayName returns the linked Personne's name, falling back to the username.
func (u *User) DisplayName() string {
	if u.Personne != nil {
		if n := u.Personne.FullName(); n != "" {
			return n
		}
	}
	return u.Username
}
