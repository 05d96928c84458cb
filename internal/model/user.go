package model

import "time"

// User roles
const (
	RoleAdmin   = "admin"
	RoleQuality = "quality"
	RoleWelder  = "welder"
)

// User login credential (table users)
type User struct {
	ID           uint       `gorm:"primaryKey"                                  json:"id"`
	Username     string     `gorm:"type:varchar(50);not null;uniqueIndex"      json:"username"`
	FullName     string     `gorm:"type:varchar(120);not null"                 json:"full_name"`
	Role         string     `gorm:"type:varchar(20);not null;default:'welder'" json:"role"`
	PasswordHash string     `gorm:"type:varchar(255);not null"                 json:"-"`
	IsActive     bool       `gorm:"not null"                                   json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	BaseModel
}

// TableName table name
func (User) TableName() string { return "users" }
