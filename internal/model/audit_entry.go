package model

import "time"

// AuditEntry append-only audit log row (table audit_entries)
type AuditEntry struct {
	ID            uint      `gorm:"primaryKey"                json:"id"`
	ActorID       *uint     `gorm:"index"                     json:"actor_id,omitempty"`
	Action        string    `gorm:"type:varchar(50);not null" json:"action"`
	AffectedTable string    `gorm:"type:varchar(50);not null" json:"affected_table"`
	RecordID      string    `gorm:"type:varchar(50);not null" json:"record_id"`
	BeforeState   string    `gorm:"type:text"                 json:"before_state"`
	AfterState    string    `gorm:"type:text"                 json:"after_state"`
	Origin        string    `gorm:"type:varchar(20);not null" json:"origin"`
	ClientIP      string    `gorm:"type:varchar(64)"          json:"client_ip,omitempty"`
	UserAgent     string    `gorm:"type:varchar(255)"         json:"user_agent,omitempty"`
	CreatedAt     time.Time `gorm:"not null;index"            json:"created_at"`
}

// TableName table name
func (AuditEntry) TableName() string { return "audit_entries" }
