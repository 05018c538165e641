package schema

import (
	"time"
)

// ArticleTenantLink represents the article_tenants table - an explicit grant
// that lets a tenant see an article it does not own. The composite key makes
// grants naturally idempotent.
type ArticleTenantLink struct {
	// ArticleID references the shared article
	ArticleID int64 `gorm:"column:article_id;primaryKey" json:"article_id"`
	// TenantID references the tenant the article is shared with. Target ids
	// are not validated against the tenants table; a dangling grant is inert.
	TenantID int64 `gorm:"column:tenant_id;primaryKey;index:idx_article_tenants_tenant" json:"tenant_id"`
	// CreatedAt is the timestamp when the grant was made
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()" json:"created_at"`

	// Associations
	Article *Article `gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for the ArticleTenantLink model
func (ArticleTenantLink) TableName() string {
	return "article_tenants"
}
