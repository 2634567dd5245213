package domain

import "time"

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// MaxPasswordBytes is the bcrypt input limit. Longer passwords are refused
// rather than silently truncated.
const MaxPasswordBytes = 72

// Member is a library patron. PasswordHash is empty for members created
// without credentials and is never serialised.
type Member struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"hashed_password"`
	JoinedDate   time.Time `json:"joined_date" db:"joined_date"`
	Role         string    `json:"role" db:"role"`
}
