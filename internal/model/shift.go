package model

import "time"

// Shift statuses
const (
	ShiftActive   = "active"
	ShiftFinished = "finished"
)

// Shift a worker's daily session (table shifts).
// At most one active row per worker (partial unique index).
type Shift struct {
	ID             uint       `gorm:"primaryKey"                                  json:"id"`
	WorkerID       uint       `gorm:"not null;index"                              json:"worker_id"`
	ShiftDate      time.Time  `gorm:"type:date;not null;index"                    json:"shift_date"`
	StartedAt      time.Time  `gorm:"not null"                                    json:"started_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	AvailableHours float64    `gorm:"not null;default:8"                          json:"available_hours"`
	Status         string     `gorm:"type:varchar(20);not null;default:'active'" json:"status"` // active | finished
	BaseModel
}

// TableName table name
func (Shift) TableName() string { return "shifts" }
