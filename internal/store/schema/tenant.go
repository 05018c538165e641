package schema

import (
	"time"
)

// Tenant represents the tenants table - an isolated logical owner of articles
// and configuration (a "system" in the external API vocabulary).
type Tenant struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	// Code is the unique human-readable tenant identifier (e.g. "news-a")
	Code string `gorm:"column:code;not null;uniqueIndex:idx_tenants_code;type:varchar(64)" json:"code"`
	// Name is the display name
	Name string `gorm:"column:name;not null;type:varchar(128)" json:"name"`
	// Description is free-form text
	Description *string `gorm:"column:description;type:text" json:"description,omitempty"`
	// IsActive gates schedule registration and tenant context resolution.
	// Deactivation never cascades into article deletion.
	IsActive bool `gorm:"column:is_active;not null;default:true;index:idx_tenants_active" json:"is_active"`
	// CreatedAt is the timestamp when the tenant was registered
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()" json:"created_at"`
	// UpdatedAt is the timestamp of the last mutation
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()" json:"updated_at"`

	// Associations
	Config   *TenantConfig `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE" json:"config,omitempty"`
	Articles []Article     `gorm:"foreignKey:TenantID" json:"-"`
}

// TableName specifies the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}
