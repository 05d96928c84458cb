package model

// Worker shop-floor welder linked to a login (table workers)
type Worker struct {
	ID       uint   `gorm:"primaryKey"                         json:"id"`
	UserID   uint   `gorm:"not null;uniqueIndex"               json:"user_id"`
	PinHash  string `gorm:"type:varchar(255);not null"         json:"-"`
	IsActive bool   `gorm:"not null"                           json:"is_active"`
	BaseModel

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName table name
func (Worker) TableName() string { return "workers" }

// DisplayName full name of the linked user, if loaded
func (w *Worker) DisplayName() string {
	if w.User != nil {
		return w.User.FullName
	}
	return ""
}
