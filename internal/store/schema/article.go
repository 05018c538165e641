package schema

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Article represents the articles table - an ingested content item.
//
// Visibility of an article to tenant T holds iff it is owned by T, linked to T
// through article_tenants, or globally shared (is_shared and owned by some
// tenant). A nil TenantID marks a legacy row visible to callers without a
// tenant context. Articles are never hard-deleted; weight and the delete flag
// are the only post-creation mutations.
type Article struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	// TenantID is the owning tenant; nil for legacy global rows
	TenantID *int64 `gorm:"column:tenant_id;index:idx_articles_tenant" json:"tenant_id,omitempty"`
	// IsShared marks the article visible to every tenant regardless of links
	IsShared bool `gorm:"column:is_shared;not null;default:false" json:"is_shared"`
	// Title is the only required content field
	Title string `gorm:"column:title;not null;type:varchar(1000)" json:"title"`
	// Summary is a short abstract
	Summary *string `gorm:"column:summary;type:text" json:"summary,omitempty"`
	// FullText is the complete article body
	FullText *string `gorm:"column:full_text;type:text" json:"full_text,omitempty"`
	// Weight is a positive ranking multiplier, defaulting to 1
	Weight decimal.Decimal `gorm:"column:weight;not null;type:numeric(16,4);default:1" json:"weight"`
	// Source identifies where the article was ingested from
	Source *string `gorm:"column:source;type:varchar(255)" json:"source,omitempty"`
	// Attr holds arbitrary structured metadata (author, tags, category, publish time, url, counters)
	Attr datatypes.JSON `gorm:"column:attr;type:jsonb" json:"attr,omitempty"`
	// Embedding is the vector written by the external embedding function; never read in Go
	Embedding *string `gorm:"column:embedding;type:vector(1024)" json:"-"`
	// IsDeleted is the soft-delete flag; deleted rows stay in place
	IsDeleted bool `gorm:"column:is_deleted;not null;default:false;index:idx_articles_deleted" json:"is_deleted"`
	// CreatedAt is immutable once written
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();index:idx_articles_time,sort:desc" json:"created_at"`

	// Associations
	TenantLinks []ArticleTenantLink `gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for the Article model
func (Article) TableName() string {
	return "articles"
}
