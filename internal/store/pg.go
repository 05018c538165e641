package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/newsforge/hotevents/internal/domain"
	"github.com/newsforge/hotevents/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to defaults: 20 open, 5 idle,
// 5m lifetime, 10m idle time.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// CreateTenant registers a tenant and its config row in one transaction
func (s *pgStore) CreateTenant(ctx context.Context, input CreateTenantInput) (*schema.Tenant, error) {
	var tenant schema.Tenant

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing schema.Tenant
		err := tx.Where("code = ?", input.Code).First(&existing).Error
		if err == nil {
			return domain.ErrTenantCodeExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check tenant code: %w", err)
		}

		tenant = schema.Tenant{
			Code:        input.Code,
			Name:        input.Name,
			Description: input.Description,
			IsActive:    true,
		}
		if err := tx.Create(&tenant).Error; err != nil {
			return fmt.Errorf("failed to create tenant: %w", err)
		}

		config := schema.TenantConfig{
			TenantID:          tenant.ID,
			DefaultHours:      domain.DefaultHours,
			DefaultEps:        domain.DefaultEps,
			DefaultMinSamples: domain.DefaultMinSamples,
			EmbeddingCron:     domain.DefaultEmbeddingCron,
			ClusteringCron:    domain.DefaultClusteringCron,
			MaxArticlesLimit:  domain.DefaultMaxArticlesLimit,
			SnapshotLimit:     domain.DefaultSnapshotLimit,
		}
		if input.Config != nil {
			applyConfigInput(&config, *input.Config)
		}
		if err := tx.Create(&config).Error; err != nil {
			return fmt.Errorf("failed to create tenant config: %w", err)
		}

		tenant.Config = &config
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &tenant, nil
}

// GetTenantByID retrieves a tenant by its internal id
func (s *pgStore) GetTenantByID(ctx context.Context, id int64) (*schema.Tenant, error) {
	var tenant schema.Tenant
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return &tenant, nil
}

// GetTenantByCode retrieves a tenant by its unique code
func (s *pgStore) GetTenantByCode(ctx context.Context, code string) (*schema.Tenant, error) {
	var tenant schema.Tenant
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tenant by code: %w", err)
	}
	return &tenant, nil
}

// ListTenants retrieves tenants, optionally filtered by active flag
func (s *pgStore) ListTenants(ctx context.Context, isActive *bool) ([]*schema.Tenant, error) {
	q := s.db.WithContext(ctx).Model(&schema.Tenant{})
	if isActive != nil {
		q = q.Where("is_active = ?", *isActive)
	}

	var tenants []*schema.Tenant
	if err := q.Order("id ASC").Find(&tenants).Error; err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}

// GetTenantConfig retrieves a tenant's config row
func (s *pgStore) GetTenantConfig(ctx context.Context, tenantID int64) (*schema.TenantConfig, error) {
	var config schema.TenantConfig
	err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to get tenant config: %w", err)
	}
	return &config, nil
}

// UpdateTenantConfig applies a partial update; nil input fields keep their current values
func (s *pgStore) UpdateTenantConfig(ctx context.Context, tenantID int64, input TenantConfigInput) (*schema.TenantConfig, error) {
	var config schema.TenantConfig

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("tenant_id = ?", tenantID).First(&config).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrConfigNotFound
			}
			return fmt.Errorf("failed to get tenant config: %w", err)
		}

		applyConfigInput(&config, input)
		if err := tx.Save(&config).Error; err != nil {
			return fmt.Errorf("failed to update tenant config: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func applyConfigInput(config *schema.TenantConfig, input TenantConfigInput) {
	if input.DefaultHours != nil {
		config.DefaultHours = *input.DefaultHours
	}
	if input.DefaultEps != nil {
		config.DefaultEps = *input.DefaultEps
	}
	if input.DefaultMinSamples != nil {
		config.DefaultMinSamples = *input.DefaultMinSamples
	}
	if input.EmbeddingCron != nil {
		config.EmbeddingCron = *input.EmbeddingCron
	}
	if input.ClusteringCron != nil {
		config.ClusteringCron = *input.ClusteringCron
	}
	if input.MaxArticlesLimit != nil {
		config.MaxArticlesLimit = *input.MaxArticlesLimit
	}
	if input.SnapshotLimit != nil {
		config.SnapshotLimit = *input.SnapshotLimit
	}
}

func newArticle(input CreateArticleInput, ownerTenantID *int64) schema.Article {
	article := schema.Article{
		TenantID: ownerTenantID,
		Title:    input.Title,
		Summary:  input.Summary,
		FullText: input.FullText,
		Source:   input.Source,
		Attr:     input.Attr,
		Weight:   decimal.NewFromInt(1),
	}
	if input.Weight != nil {
		article.Weight = *input.Weight
	}
	if input.IsShared != nil {
		article.IsShared = *input.IsShared
	}
	return article
}

// CreateArticle ingests one article
func (s *pgStore) CreateArticle(ctx context.Context, input CreateArticleInput, ownerTenantID *int64) (*schema.Article, error) {
	article := newArticle(input, ownerTenantID)
	if err := s.db.WithContext(ctx).Create(&article).Error; err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}
	return &article, nil
}

// CreateArticles ingests a batch in a single transaction
func (s *pgStore) CreateArticles(ctx context.Context, inputs []CreateArticleInput, ownerTenantID *int64) ([]*schema.Article, error) {
	if len(inputs) == 0 {
		return []*schema.Article{}, nil
	}

	articles := make([]*schema.Article, 0, len(inputs))
	for _, input := range inputs {
		article := newArticle(input, ownerTenantID)
		articles = append(articles, &article)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&articles).Error; err != nil {
			return fmt.Errorf("failed to create articles: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return articles, nil
}

// GetArticleByID retrieves an article by its internal id
func (s *pgStore) GetArticleByID(ctx context.Context, id int64) (*schema.Article, error) {
	var article schema.Article
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return &article, nil
}

// QueryArticles returns a page of non-deleted articles matching the filter.
// With a tenant, rows are restricted to the visibility rule: owned by the
// tenant, explicitly linked to it, or globally shared by some owner. Without
// a tenant the query degrades to a plain predicate scan (legacy mode).
// Ordering is pinned to id ascending so pages are stable for a fixed filter.
func (s *pgStore) QueryArticles(ctx context.Context, filter ArticleFilter, tenantID *int64, limit, offset int) ([]*schema.Article, int64, error) {
	q := s.db.WithContext(ctx).Model(&schema.Article{}).Where("articles.is_deleted = ?", false)

	if tenantID != nil {
		q = q.
			Joins("LEFT JOIN article_tenants ON article_tenants.article_id = articles.id AND article_tenants.tenant_id = ?", *tenantID).
			Where("(articles.tenant_id = ? OR article_tenants.tenant_id IS NOT NULL OR (articles.is_shared = ? AND articles.tenant_id IS NOT NULL))", *tenantID, true)
	}

	if filter.Source != nil {
		q = q.Where("articles.source = ?", *filter.Source)
	}
	if filter.MinWeight != nil {
		q = q.Where("articles.weight >= ?", *filter.MinWeight)
	}
	if filter.MaxWeight != nil {
		q = q.Where("articles.weight <= ?", *filter.MaxWeight)
	}
	if filter.Keyword != nil {
		q = q.Where("articles.title ILIKE ?", "%"+*filter.Keyword+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	var articles []*schema.Article
	err := q.Order("articles.id ASC").Limit(limit).Offset(offset).Find(&articles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query articles: %w", err)
	}

	return articles, total, nil
}

// UpdateArticleWeight sets a new weight for an article
func (s *pgStore) UpdateArticleWeight(ctx context.Context, id int64, weight decimal.Decimal) error {
	res := s.db.WithContext(ctx).Model(&schema.Article{}).Where("id = ?", id).Update("weight", weight)
	if res.Error != nil {
		return fmt.Errorf("failed to update article weight: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

// SoftDeleteArticle flags an article as deleted without removing the row
func (s *pgStore) SoftDeleteArticle(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Model(&schema.Article{}).Where("id = ?", id).Update("is_deleted", true)
	if res.Error != nil {
		return fmt.Errorf("failed to soft-delete article: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

// ShareArticle grants the listed tenants visibility of the article. Existing
// grants are skipped via ON CONFLICT DO NOTHING, so repeated shares converge.
func (s *pgStore) ShareArticle(ctx context.Context, articleID int64, tenantIDs []int64) error {
	if len(tenantIDs) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var article schema.Article
		err := tx.Where("id = ?", articleID).First(&article).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrArticleNotFound
			}
			return fmt.Errorf("failed to get article: %w", err)
		}

		links := make([]schema.ArticleTenantLink, 0, len(tenantIDs))
		for _, tenantID := range tenantIDs {
			links = append(links, schema.ArticleTenantLink{
				ArticleID: articleID,
				TenantID:  tenantID,
			})
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "article_id"}, {Name: "tenant_id"}},
			DoNothing: true,
		}).Create(&links).Error; err != nil {
			return fmt.Errorf("failed to create article tenant links: %w", err)
		}

		return nil
	})
}

// CountPendingEmbeddings counts recent articles with no vector yet. The zero
// vector is what the engine writes for rows it could not embed; both count as
// backlog.
func (s *pgStore) CountPendingEmbeddings(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&schema.Article{}).
		Where("(embedding IS NULL OR embedding = '[0]'::vector)").
		Where("created_at > now() - INTERVAL '60 days'").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count pending embeddings: %w", err)
	}
	return count, nil
}

// LatestSnapshot returns the rows of the most recent snapshot generation
// ordered by rank. The max-snapshot-time subquery guarantees the result is one
// complete generation; refresh writes generations atomically, so a concurrent
// refresh can never expose a mix of two generations here.
func (s *pgStore) LatestSnapshot(ctx context.Context, tenantID *int64, limit int) ([]*schema.EventSnapshot, error) {
	q := s.db.WithContext(ctx).Model(&schema.EventSnapshot{})
	if tenantID != nil {
		q = q.
			Where("tenant_id = ?", *tenantID).
			Where("snapshot_time = (SELECT MAX(snapshot_time) FROM event_snapshots WHERE tenant_id = ?)", *tenantID)
	} else {
		q = q.Where("snapshot_time = (SELECT MAX(snapshot_time) FROM event_snapshots)")
	}

	if limit > 0 {
		q = q.Limit(limit)
	}

	var snapshots []*schema.EventSnapshot
	if err := q.Order("rank_no ASC").Find(&snapshots).Error; err != nil {
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}
	return snapshots, nil
}

// SnapshotArticles joins the latest generation's membership rows of one ranked
// slot to the live article rows, excluding soft-deleted articles.
func (s *pgStore) SnapshotArticles(ctx context.Context, tenantID int64, rankNo int, limit int) ([]*schema.Article, error) {
	var articles []*schema.Article
	err := s.db.WithContext(ctx).
		Table("event_snapshots AS es").
		Select("a.*").
		Joins("JOIN event_articles ea ON es.snapshot_time = ea.snapshot_time AND es.rank_no = ea.rank_no AND es.tenant_id = ea.tenant_id").
		Joins("JOIN articles a ON a.id = ea.article_id").
		Where("es.snapshot_time = (SELECT MAX(snapshot_time) FROM event_snapshots WHERE tenant_id = ?)", tenantID).
		Where("es.tenant_id = ?", tenantID).
		Where("es.rank_no = ?", rankNo).
		Where("a.is_deleted = ?", false).
		Order("a.weight DESC, a.created_at DESC").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot articles: %w", err)
	}
	return articles, nil
}
