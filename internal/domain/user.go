package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// RoleForEmail derives the effective role from the account's email address.
// The stored role column is only a cache refreshed at login; authorization
// always goes through this function so an email change takes effect
// immediately.
func RoleForEmail(email, adminDomain string) Role {
	if adminDomain != "" && strings.HasSuffix(strings.ToLower(email), strings.ToLower(adminDomain)) {
		return RoleAdmin
	}
	return RoleUser
}

type User struct {
	ID           int32      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Department   string     `json:"department,omitempty"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedOn    time.Time  `json:"created_on"`
	UpdatedOn    time.Time  `json:"updated_on"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
