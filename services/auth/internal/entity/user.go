package entity

import "time"

type AccountRole string

const (
	RoleMember AccountRole = "member"
	RoleStaff  AccountRole = "staff"
)

type User struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Username    string      `json:"username"`
	Password    string      `json:"-"`
	AvatarURL   string      `json:"avatar_url"`
	Role        AccountRole `json:"role"`
	IsActive    bool        `json:"is_active"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
