package dto

import (
	"time"

	"weld-oee/backend/internal/repository"
)

// ── Auth ──

// TokenResponse issued access token
type TokenResponse struct {
	AccessToken string         `json:"access_token"`
	ExpiresIn   int            `json:"expires_in"` // seconds
	User        UserResponse   `json:"user"`
	Shift       *ShiftResponse `json:"shift,omitempty"`
}

// UserResponse user without credentials
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	WorkerID uint   `json:"worker_id,omitempty"`
}

// WorkerOption entry of the shop-floor login picker
type WorkerOption struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ShiftResponse shift state
type ShiftResponse struct {
	ID             uint       `json:"id"`
	WorkerID       uint       `json:"worker_id"`
	ShiftDate      string     `json:"shift_date"`
	StartedAt      time.Time  `json:"started_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	AvailableHours float64    `json:"available_hours"`
	Status         string     `json:"status"`
}

// ── Tracking ──

// StartWorkItemResult started work item
type StartWorkItemResult struct {
	EventID       uint    `json:"event_id"`
	StandardTime  float64 `json:"standard_time"`
	ComponentName string  `json:"component_name"`
}

// FinishWorkItemResult finished work item, values rounded to 2 decimals
type FinishWorkItemResult struct {
	EventID    uint    `json:"event_id"`
	ActualTime float64 `json:"actual_time"`
	Efficiency float64 `json:"efficiency"`
}

// StartStoppageResult started stoppage
type StartStoppageResult struct {
	StoppageID uint   `json:"stoppage_id"`
	TypeName   string `json:"type_name"`
	Category   string `json:"category"`
}

// FinishStoppageResult finished stoppage
type FinishStoppageResult struct {
	StoppageID      uint    `json:"stoppage_id"`
	DurationMinutes float64 `json:"duration_minutes"`
}

// ActiveWorkItem open work item summary
type ActiveWorkItem struct {
	EventID       uint      `json:"event_id"`
	ModuleName    string    `json:"module_name"`
	ComponentName string    `json:"component_name"`
	StandardTime  float64   `json:"standard_time"`
	StartedAt     time.Time `json:"started_at"`
}

// ActiveStoppage open stoppage summary
type ActiveStoppage struct {
	StoppageID uint      `json:"stoppage_id"`
	TypeName   string    `json:"type_name"`
	StartedAt  time.Time `json:"started_at"`
}

// ActiveStatus what the worker currently has open
type ActiveStatus struct {
	WorkItem *ActiveWorkItem `json:"work_item"`
	Stoppage *ActiveStoppage `json:"stoppage"`
}

// ── Sync ──

// SyncFailure one rejected offline item
type SyncFailure struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// SyncResult batch outcome; Errors keep submission order
type SyncResult struct {
	Processed int           `json:"processed"`
	Failed    int           `json:"failed"`
	Errors    []SyncFailure `json:"errors"`
}

// ── Catalog ──

// PrepareModuleResult module chosen with its resolved order
type PrepareModuleResult struct {
	ModuleID    uint                `json:"module_id"`
	ModuleName  string              `json:"module_name"`
	OrderID     uint                `json:"order_id"`
	OrderNumber string              `json:"order_number"`
	Components  []ComponentResponse `json:"components"`
}

// ComponentResponse component option
type ComponentResponse struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	StandardTime float64 `json:"standard_time"`
	Formula      string  `json:"formula,omitempty"`
	Variable     string  `json:"variable,omitempty"`
}

// ── Reports ──

// OEEFigures the five figures as percentages rounded to 2 decimals
type OEEFigures struct {
	Availability float64 `json:"availability"`
	Performance  float64 `json:"performance"`
	Quality      float64 `json:"quality"`
	Productivity float64 `json:"productivity"`
	OEE          float64 `json:"oee"`
}

// WorkerOEE per-worker report line
type WorkerOEE struct {
	WorkerID      uint    `json:"worker_id"`
	WorkerName    string  `json:"worker_name"`
	Items         int     `json:"items"`
	TotalActual   float64 `json:"total_actual"`
	TotalStandard float64 `json:"total_standard"`
	OEEFigures
}

// ReportItem finished work item row
type ReportItem struct {
	ID            uint      `json:"id"`
	WorkerID      uint      `json:"worker_id"`
	WorkerName    string    `json:"worker_name"`
	ModuleName    string    `json:"module_name"`
	ComponentName string    `json:"component_name"`
	OrderNumber   string    `json:"order_number"`
	PostNumber    string    `json:"post_number,omitempty"`
	StartedAt     time.Time `json:"started_at"`
	EndedAt       time.Time `json:"ended_at"`
	StandardTime  float64   `json:"standard_time"`
	ActualTime    float64   `json:"actual_time"`
	Efficiency    float64   `json:"efficiency"`
}

// ReportSummary production totals over the period, all workers
type ReportSummary struct {
	Workers             int                        `json:"workers"`
	Items               int                        `json:"items"`
	TotalActual         float64                    `json:"total_actual"`
	TotalStandard       float64                    `json:"total_standard"`
	AverageEfficiency   float64                    `json:"average_efficiency"`
	Modules             int                        `json:"modules"`
	ProductionDays      int                        `json:"production_days"`
	StoppagesByCategory []repository.CategoryTotal `json:"stoppages_by_category"`
}

// Report multi-worker OEE report
type Report struct {
	From    string        `json:"from"`
	To      string        `json:"to"`
	Items   []ReportItem  `json:"items"`
	Workers []WorkerOEE   `json:"workers"`
	Summary ReportSummary `json:"summary"`
}

// DailyPoint one day of the production trend
type DailyPoint struct {
	Date              string  `json:"date"`
	Items             int     `json:"items"`
	AverageEfficiency float64 `json:"average_efficiency"`
	TotalActual       float64 `json:"total_actual"`
}

// Dashboard admin landing figures
type Dashboard struct {
	Date          string       `json:"date"`
	ActiveWorkers int64        `json:"active_workers"`
	WorkItems     int64        `json:"work_items_today"`
	Stoppages     int64        `json:"stoppages_today"`
	Shifts        int64        `json:"shifts_today"`
	TopWorkers    []WorkerOEE  `json:"top_workers"`
	Recent        []ReportItem `json:"recent"`
}
