package store

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/newsforge/hotevents/internal/store/schema"
)

// CreateTenantInput holds the data for registering a tenant together with its config
type CreateTenantInput struct {
	Code        string
	Name        string
	Description *string
	Config      *TenantConfigInput
}

// TenantConfigInput holds a partial tenant configuration; nil fields keep
// their current (or default) values.
type TenantConfigInput struct {
	DefaultHours      *int
	DefaultEps        *float64
	DefaultMinSamples *int
	EmbeddingCron     *string
	ClusteringCron    *string
	MaxArticlesLimit  *int
	SnapshotLimit     *int
}

// CreateArticleInput holds the data for ingesting one article
type CreateArticleInput struct {
	Title    string
	Summary  *string
	FullText *string
	Source   *string
	Weight   *decimal.Decimal
	IsShared *bool
	Attr     datatypes.JSON
}

// ArticleFilter holds the optional predicates of an article query
type ArticleFilter struct {
	Source    *string
	MinWeight *decimal.Decimal
	MaxWeight *decimal.Decimal
	Keyword   *string
}

// Store defines the interface for database operations
type Store interface {
	// CreateTenant registers a tenant and its config row in one transaction
	CreateTenant(ctx context.Context, input CreateTenantInput) (*schema.Tenant, error)
	// GetTenantByID retrieves a tenant by id, nil if unknown
	GetTenantByID(ctx context.Context, id int64) (*schema.Tenant, error)
	// GetTenantByCode retrieves a tenant by its unique code, nil if unknown
	GetTenantByCode(ctx context.Context, code string) (*schema.Tenant, error)
	// ListTenants retrieves tenants, optionally filtered by active flag
	ListTenants(ctx context.Context, isActive *bool) ([]*schema.Tenant, error)
	// GetTenantConfig retrieves a tenant's config row
	GetTenantConfig(ctx context.Context, tenantID int64) (*schema.TenantConfig, error)
	// UpdateTenantConfig applies a partial update; nil fields are left untouched
	UpdateTenantConfig(ctx context.Context, tenantID int64, input TenantConfigInput) (*schema.TenantConfig, error)

	// CreateArticle ingests one article, stamping the owning tenant when given
	CreateArticle(ctx context.Context, input CreateArticleInput, ownerTenantID *int64) (*schema.Article, error)
	// CreateArticles ingests a batch atomically; any failure rolls back the whole batch
	CreateArticles(ctx context.Context, inputs []CreateArticleInput, ownerTenantID *int64) ([]*schema.Article, error)
	// GetArticleByID retrieves an article by id, nil if unknown
	GetArticleByID(ctx context.Context, id int64) (*schema.Article, error)
	// QueryArticles returns a page of non-deleted articles matching the filter,
	// restricted to the tenant's visibility when tenantID is non-nil
	QueryArticles(ctx context.Context, filter ArticleFilter, tenantID *int64, limit, offset int) ([]*schema.Article, int64, error)
	// UpdateArticleWeight sets a new weight; domain.ErrArticleNotFound if the id is unknown
	UpdateArticleWeight(ctx context.Context, id int64, weight decimal.Decimal) error
	// SoftDeleteArticle sets the delete flag; sharing links and snapshot memberships stay
	SoftDeleteArticle(ctx context.Context, id int64) error
	// ShareArticle idempotently grants the listed tenants visibility of the article
	ShareArticle(ctx context.Context, articleID int64, tenantIDs []int64) error
	// CountPendingEmbeddings counts recent articles still waiting for a vector
	CountPendingEmbeddings(ctx context.Context) (int64, error)

	// LatestSnapshot returns the most recent complete snapshot generation,
	// scoped to a tenant when given, ordered by rank
	LatestSnapshot(ctx context.Context, tenantID *int64, limit int) ([]*schema.EventSnapshot, error)
	// SnapshotArticles returns the live articles behind one ranked slot of the
	// latest generation, soft-deleted rows excluded
	SnapshotArticles(ctx context.Context, tenantID int64, rankNo int, limit int) ([]*schema.Article, error)
}
