package model

import "time"

// Defect weld defect found on a finished work item (table defects)
type Defect struct {
	ID              uint      `gorm:"primaryKey"     json:"id"`
	WorkItemEventID uint      `gorm:"not null;index" json:"work_item_event_id"`
	DefectArea      float64   `gorm:"not null"       json:"defect_area"` // mm²
	Description     string    `gorm:"type:text"      json:"description,omitempty"`
	InspectorID     *uint     `json:"inspector_id,omitempty"`
	CreatedAt       time.Time `gorm:"not null"       json:"created_at"`
}

// TableName table name
func (Defect) TableName() string { return "defects" }
