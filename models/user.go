package models

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID           int        `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Role         string     `json:"role"`
	Language     string     `json:"language"`
	GoogleID     *string    `json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity is what a verified bearer token says about the caller.
type Identity struct {
	UserID int
	Email  string
	Role   string
}

type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
}

// Viewer is whoever is asking: an optional signed-in identity and an
// optional cart session token.
type Viewer struct {
	User         *Identity
	SessionToken string
}

func (v Viewer) UserID() *int {
	if v.User == nil {
		return nil
	}
	id := v.User.UserID
	return &id
}

func (v Viewer) IsAdmin() bool {
	return v.User != nil && v.User.Role == RoleAdmin
}
