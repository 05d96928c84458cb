package model

import "time"

// BaseModel common timestamps embedded by mutable reference tables
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Record origins written to the audit log
const (
	OriginOnline  = "online"
	OriginOffline = "offline"
	OriginSystem  = "system"
)
