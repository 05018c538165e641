package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventArticleLink represents the event_articles table - membership of an
// article in one ranked slot of a snapshot generation. Rows are written
// atomically with their EventSnapshot rows by the external refresh function.
type EventArticleLink struct {
	// SnapshotTime identifies the generation
	SnapshotTime time.Time `gorm:"column:snapshot_time;primaryKey" json:"snapshot_time"`
	// RankNo is the slot within the generation
	RankNo int `gorm:"column:rank_no;primaryKey" json:"rank_no"`
	// ArticleID references the member article
	ArticleID int64 `gorm:"column:article_id;primaryKey;index:idx_event_articles_article" json:"article_id"`
	// TenantID scopes the membership to the generation's tenant
	TenantID int64 `gorm:"column:tenant_id;primaryKey" json:"tenant_id"`
	// ClusterID is the engine's cluster identifier
	ClusterID int64 `gorm:"column:cluster_id;index:idx_event_articles_cluster" json:"cluster_id"`
	// ArticleWeight is the article's weight frozen at snapshot time
	ArticleWeight decimal.Decimal `gorm:"column:article_weight;type:numeric(16,4)" json:"article_weight"`
}

// TableName specifies the table name for the EventArticleLink model
func (EventArticleLink) TableName() string {
	return "event_articles"
}
