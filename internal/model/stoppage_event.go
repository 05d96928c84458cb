package model

import "time"

// StoppageEvent one downtime interval (table stoppage_events)
type StoppageEvent struct {
	ID              uint       `gorm:"primaryKey"       json:"id"`
	WorkerID        uint       `gorm:"not null;index"   json:"worker_id"`
	ShiftID         uint       `gorm:"not null;index"   json:"shift_id"`
	StoppageTypeID  uint       `gorm:"not null"         json:"stoppage_type_id"`
	StartedAt       time.Time  `gorm:"not null;index"   json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationMinutes *float64   `json:"duration_minutes,omitempty"`
	Reason          string     `gorm:"type:text"        json:"reason,omitempty"`
	CreatedAt       time.Time  `gorm:"not null"         json:"created_at"`

	StoppageType *StoppageType `gorm:"foreignKey:StoppageTypeID" json:"stoppage_type,omitempty"`
}

// TableName table name
func (StoppageEvent) TableName() string { return "stoppage_events" }
