package user

import (
	"strings"
	"time"

	"incorporation-portal/pkg/search"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// User is a registered account. Role is assigned server-side and is the only
// source of truth for authorization.
type User struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"-"`
	UID          string    `gorm:"column:uid;size:36;uniqueIndex:ux_users_uid" json:"uid"`
	Name         string    `gorm:"column:name;size:255" json:"name"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex:ux_users_email" json:"email"`
	Phone        string    `gorm:"column:phone;size:32" json:"phone"`
	Company      string    `gorm:"column:company;size:255" json:"company"`
	Role         Role      `gorm:"column:role;type:enum('user','admin');default:'user'" json:"role"`
	PasswordHash string    `gorm:"column:password_hash;size:255" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (User) TableName() string { return "users" }

// Matches reports whether name, email or company contains the term prepared
// by search.Term.
func (u User) Matches(term string) bool {
	return search.Any(term, u.Name, u.Email, u.Company)
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
