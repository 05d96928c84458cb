package dto

import "time"

// UserListRequest admin user listing filter
type UserListRequest struct {
	Role string `form:"role" binding:"omitempty,oneof=admin quality welder"`
}

// UserListItem a login with its welder record, when it has one
type UserListItem struct {
	ID           uint       `json:"id"`
	Username     string     `json:"username"`
	FullName     string     `json:"full_name"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	WorkerID     *uint      `json:"worker_id,omitempty"`
	WorkerActive *bool      `json:"worker_active,omitempty"`
}
