package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleHost  Role = "host"
	RoleAdmin Role = "admin"
)

// ParseRole maps a caller-supplied string onto the closed role set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleHost, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated caller, threaded explicitly from the
// auth middleware into every service call.
type Identity struct {
	ID   int64
	Role Role
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r *SignupRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.TrimSpace(r.Role)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// UserInfo is the public projection of a user: never the hash.
type UserInfo struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}

func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{ID: u.ID, Role: u.Role}
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}
