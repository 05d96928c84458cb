package model

import "time"

// WorkItemEvent one timed unit of welding work (table work_item_events).
// EndedAt, ActualTime and Efficiency are written exactly once on finish.
type WorkItemEvent struct {
	ID           uint       `gorm:"primaryKey"                json:"id"`
	WorkerID     uint       `gorm:"not null;index"            json:"worker_id"`
	ModuleID     uint       `gorm:"not null;index"            json:"module_id"`
	ComponentID  uint       `gorm:"not null"                  json:"component_id"`
	OrderID      uint       `gorm:"not null"                  json:"order_id"`
	ShiftID      uint       `gorm:"not null;index"            json:"shift_id"`
	PostNumber   string     `gorm:"type:varchar(50)"          json:"post_number,omitempty"`
	Diameter     *float64   `json:"diameter,omitempty"`
	StartedAt    time.Time  `gorm:"not null;index"            json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	StandardTime float64    `gorm:"not null"                  json:"standard_time"` // minutes
	ActualTime   *float64   `json:"actual_time,omitempty"`                         // minutes
	Efficiency   *float64   `json:"efficiency,omitempty"`                          // percent
	CreatedAt    time.Time  `gorm:"not null"                  json:"created_at"`

	Worker    *Worker    `gorm:"foreignKey:WorkerID"    json:"worker,omitempty"`
	Module    *Module    `gorm:"foreignKey:ModuleID"    json:"module,omitempty"`
	Component *Component `gorm:"foreignKey:ComponentID" json:"component,omitempty"`
	Order     *Order     `gorm:"foreignKey:OrderID"     json:"order,omitempty"`
}

// TableName table name
func (WorkItemEvent) TableName() string { return "work_item_events" }

// IsOpen reports whether the work item is still running
func (e *WorkItemEvent) IsOpen() bool { return e.EndedAt == nil }
