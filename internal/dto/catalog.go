package dto

// CreateComponentRequest new component with optional size formula
type CreateComponentRequest struct {
	Name         string  `json:"name"          binding:"required,max=100"`
	StandardTime float64 `json:"standard_time" binding:"required,gt=0"`
	Formula      string  `json:"formula"       binding:"max=255"`
}

// PrepareModuleRequest select module and order before starting work
type PrepareModuleRequest struct {
	ModuleID    uint   `json:"module_id"    binding:"required"`
	OrderNumber string `json:"order_number" binding:"required,max=50"`
}

// RecordDefectRequest defect found by quality inspection
type RecordDefectRequest struct {
	WorkItemEventID uint    `json:"work_item_event_id" binding:"required"`
	DefectArea      float64 `json:"defect_area"        binding:"required,gt=0"`
	Description     string  `json:"description"        binding:"max=1000"`
}
