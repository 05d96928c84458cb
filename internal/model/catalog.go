package model

// Module production line section (table modules)
type Module struct {
	ID           uint   `gorm:"primaryKey"                 json:"id"`
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	DisplayOrder int    `gorm:"not null;default:0"         json:"display_order"`
	IsActive     bool   `gorm:"not null"                   json:"is_active"`
	BaseModel
}

// TableName table name
func (Module) TableName() string { return "modules" }

// Component welded component with its standard time (table components).
// Formula, when set, is an arithmetic expression over one size variable
// (e.g. "diameter * 2 + 5") that overrides StandardTime.
type Component struct {
	ID           uint    `gorm:"primaryKey"                 json:"id"`
	Name         string  `gorm:"type:varchar(100);not null" json:"name"`
	StandardTime float64 `gorm:"not null"                   json:"standard_time"` // minutes
	Formula      string  `gorm:"type:varchar(255)"          json:"formula,omitempty"`
	IsActive     bool    `gorm:"not null"                   json:"is_active"`
	BaseModel
}

// TableName table name
func (Component) TableName() string { return "components" }

// Order production order / ticket (table orders)
type Order struct {
	ID          uint   `gorm:"primaryKey"                                  json:"id"`
	Number      string `gorm:"type:varchar(50);not null;uniqueIndex"      json:"number"`
	Description string `gorm:"type:varchar(255)"                          json:"description"`
	Status      string `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	BaseModel
}

// TableName table name
func (Order) TableName() string { return "orders" }

// StoppageType downtime category (table stoppage_types)
type StoppageType struct {
	ID                        uint   `gorm:"primaryKey"                 json:"id"`
	Name                      string `gorm:"type:varchar(100);not null" json:"name"`
	Category                  string `gorm:"type:varchar(50);not null;index" json:"category"`
	Color                     string `gorm:"type:varchar(20)"           json:"color,omitempty"`
	CountsAgainstAvailability bool   `gorm:"not null"     json:"counts_against_availability"`
	IsActive                  bool   `gorm:"not null"                   json:"is_active"`
	BaseModel
}

// TableName table name
func (StoppageType) TableName() string { return "stoppage_types" }
