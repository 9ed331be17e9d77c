package models

import "time"

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleClient       Role = "client"
	RoleOrderManager Role = "gestionnaire_commande"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleClient, RoleOrderManager:
		return true
	}
	return false
}

// User is an account of the shop: customer, order manager or administrator.
type User struct {
	ID              int        `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	Email           string     `db:"email" json:"email"`
	Phone           string     `db:"phone" json:"phone"`
	PasswordHash    string     `db:"password_hash" json:"-"`
	Role            Role       `db:"role" json:"role"`
	IsBlocked       bool       `db:"is_blocked" json:"is_blocked"`
	EmailVerifiedAt *time.Time `db:"email_verified_at" json:"email_verified_at"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

func (u *User) IsVerified() bool {
	return u.EmailVerifiedAt != nil
}
