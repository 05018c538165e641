package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventSnapshot represents the event_snapshots table - one ranked row of a
// materialized hot-event generation. Rows are immutable: a refresh writes a
// complete new generation under a new snapshot time, so the latest generation
// for a tenant is max(snapshot_time) and ranks within it are contiguous from 1.
type EventSnapshot struct {
	// SnapshotTime identifies the generation this row belongs to
	SnapshotTime time.Time `gorm:"column:snapshot_time;primaryKey" json:"snapshot_time"`
	// RankNo is the 1-based position within the generation
	RankNo int `gorm:"column:rank_no;primaryKey" json:"rank_no"`
	// TenantID scopes the generation to one tenant
	TenantID int64 `gorm:"column:tenant_id;primaryKey" json:"tenant_id"`
	// ClusterID is the engine's cluster identifier
	ClusterID int64 `gorm:"column:cluster_id;not null" json:"cluster_id"`
	// Title is the representative title of the cluster
	Title string `gorm:"column:title;type:varchar(1000)" json:"title"`
	// ArticleCount is the number of member articles at snapshot time
	ArticleCount int64 `gorm:"column:article_count;not null" json:"article_count"`
	// TotalWeight is the summed member weight at snapshot time
	TotalWeight decimal.Decimal `gorm:"column:total_weight;type:numeric(16,4)" json:"total_weight"`
	// HotScore is the engine's ranking score
	HotScore decimal.Decimal `gorm:"column:hot_score;type:numeric(18,6)" json:"hot_score"`
	// SampleTitles is a newline-joined sample of member titles
	SampleTitles string `gorm:"column:sample_titles;type:text" json:"sample_titles"`
	// HoursWindow records the lookback window the generation was computed over
	HoursWindow int `gorm:"column:hours_window" json:"hours_window"`
	// ModelName records the embedding model in effect at snapshot time
	ModelName string `gorm:"column:model_name;type:varchar(128)" json:"model_name"`

	// Associations
	Articles []EventArticleLink `gorm:"foreignKey:SnapshotTime,RankNo,TenantID;references:SnapshotTime,RankNo,TenantID" json:"-"`
}

// TableName specifies the table name for the EventSnapshot model
func (EventSnapshot) TableName() string {
	return "event_snapshots"
}
