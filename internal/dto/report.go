package dto

import "time"

// ReportFilter report scope. From and To are calendar days (inclusive);
// nil means unbounded.
type ReportFilter struct {
	WorkerID    *uint
	ModuleID    *uint
	ComponentID *uint
	From        *time.Time
	To          *time.Time
}

// OEEQuery single-worker OEE over calendar days [From, To]
type OEEQuery struct {
	WorkerID    uint
	From        time.Time
	To          time.Time
	ModuleID    *uint
	ComponentID *uint
}

// ReportQuery query string of the report endpoints. Dates are YYYY-MM-DD.
type ReportQuery struct {
	WorkerID    *uint  `form:"worker_id"`
	ModuleID    *uint  `form:"module_id"`
	ComponentID *uint  `form:"component_id"`
	From        string `form:"from"`
	To          string `form:"to"`
	Limit       int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Days        int    `form:"days"  binding:"omitempty,min=1,max=90"`
}
