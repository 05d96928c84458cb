package dto

import (
	"encoding/json"
	"time"
)

// Offline item types
const (
	SyncStartWorkItem  = "start_work_item"
	SyncFinishWorkItem = "finish_work_item"
	SyncStartStoppage  = "start_stoppage"
	SyncFinishStoppage = "finish_stoppage"
)

// SyncItem one buffered offline command. Data holds the matching request
// body (StartWorkItemRequest and so on) and is validated per type.
type SyncItem struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt *time.Time      `json:"occurred_at,omitempty"`
	Data       json.RawMessage `json:"data"`
}

// SyncRequest a batch of offline commands in submission order
type SyncRequest struct {
	Items []SyncItem `json:"items" binding:"required"`
}
