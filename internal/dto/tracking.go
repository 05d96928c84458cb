package dto

// ── Work items ──

// StartWorkItemRequest begin welding a component
type StartWorkItemRequest struct {
	ModuleID    uint     `json:"module_id"    binding:"required"`
	ComponentID uint     `json:"component_id" binding:"required"`
	OrderNumber string   `json:"order_number" binding:"required,max=50"`
	PostNumber  string   `json:"post_number"  binding:"max=50"`
	ExtraParam  *float64 `json:"extra_param"` // size variable for formula components
}

// FinishWorkItemRequest end an open work item
type FinishWorkItemRequest struct {
	EventID uint `json:"event_id" binding:"required"`
}

// ── Stoppages ──

// StartStoppageRequest begin a downtime interval
type StartStoppageRequest struct {
	StoppageTypeID uint   `json:"stoppage_type_id" binding:"required"`
	Reason         string `json:"reason"           binding:"max=500"`
}

// FinishStoppageRequest end an open stoppage
type FinishStoppageRequest struct {
	StoppageID uint `json:"stoppage_id" binding:"required"`
}
