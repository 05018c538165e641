package schema

import (
	"time"
)

// TenantConfig represents the tenant_configs table - one-to-one clustering and
// scheduling parameters for a tenant. A config row is created atomically with
// its tenant, so a tenant always has a config.
type TenantConfig struct {
	// TenantID is both the primary key and the foreign key to tenants
	TenantID int64 `gorm:"column:tenant_id;primaryKey" json:"tenant_id"`
	// DefaultHours is the default clustering lookback window in hours
	DefaultHours int `gorm:"column:default_hours;not null;default:24" json:"default_hours"`
	// DefaultEps is the default DBSCAN density threshold
	DefaultEps float64 `gorm:"column:default_eps;not null;default:0.38" json:"default_eps"`
	// DefaultMinSamples is the default minimum cluster size
	DefaultMinSamples int `gorm:"column:default_min_samples;not null;default:3" json:"default_min_samples"`
	// EmbeddingCron is the cadence of the batch embedding job
	EmbeddingCron string `gorm:"column:embedding_cron;not null;type:varchar(64);default:'*/8 * * * *'" json:"embedding_cron"`
	// ClusteringCron is the cadence of the snapshot refresh job
	ClusteringCron string `gorm:"column:clustering_cron;not null;type:varchar(64);default:'*/12 * * * *'" json:"clustering_cron"`
	// MaxArticlesLimit caps how many articles the engine considers per run
	MaxArticlesLimit int `gorm:"column:max_articles_limit;not null;default:80000" json:"max_articles_limit"`
	// SnapshotLimit caps how many ranked rows a refresh materializes
	SnapshotLimit int `gorm:"column:snapshot_limit;not null;default:100" json:"snapshot_limit"`
	// CreatedAt is the timestamp when this config was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()" json:"created_at"`
	// UpdatedAt is the timestamp of the last partial update
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()" json:"updated_at"`

	// Associations
	Tenant *Tenant `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for the TenantConfig model
func (TenantConfig) TableName() string {
	return "tenant_configs"
}
