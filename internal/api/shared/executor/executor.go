package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/newsforge/hotevents/internal/api/shared/constants"
	"github.com/newsforge/hotevents/internal/api/shared/dto"
	apierrors "github.com/newsforge/hotevents/internal/api/shared/errors"
	"github.com/newsforge/hotevents/internal/domain"
	"github.com/newsforge/hotevents/internal/engine"
	"github.com/newsforge/hotevents/internal/logger"
	"github.com/newsforge/hotevents/internal/messaging"
	"github.com/newsforge/hotevents/internal/schedule"
	"github.com/newsforge/hotevents/internal/store"
)

// Executor is the interface for the API executor. Methods that depend on the
// caller's tenant take the resolved reference explicitly; nil means the
// legacy global scope.
type Executor interface {
	// CreateArticle ingests one article owned by the resolved tenant
	CreateArticle(ctx context.Context, req *dto.ArticleCreateRequest, tenant *domain.TenantRef) (*dto.ArticleResponse, error)
	// CreateArticleBatch ingests a batch atomically
	CreateArticleBatch(ctx context.Context, req *dto.ArticleBatchRequest, tenant *domain.TenantRef) ([]dto.ArticleResponse, error)
	// GetArticle retrieves one article, nil if unknown
	GetArticle(ctx context.Context, id int64) (*dto.ArticleResponse, error)
	// QueryArticles returns a visibility-filtered page
	QueryArticles(ctx context.Context, filter store.ArticleFilter, tenant *domain.TenantRef, page, size *int) (*dto.ArticlePageResponse, error)
	// UpdateArticleWeight sets a new positive weight
	UpdateArticleWeight(ctx context.Context, id int64, weight decimal.Decimal) error
	// DeleteArticle soft-deletes an article
	DeleteArticle(ctx context.Context, id int64, tenant *domain.TenantRef) error
	// ShareArticle grants the listed tenants visibility
	ShareArticle(ctx context.Context, id int64, req *dto.ShareRequest, tenant *domain.TenantRef) error

	// LiveHotEvents recomputes ranked clusters from current article state
	LiveHotEvents(ctx context.Context, tenant *domain.TenantRef, hours *int, eps *float64, minSamples, limit *int) ([]dto.HotEventResponse, error)
	// LiveClusterArticles lists the member articles of one live cluster
	LiveClusterArticles(ctx context.Context, tenant *domain.TenantRef, clusterID int64, hours, limit *int) ([]dto.ArticleResponse, error)
	// SnapshotHotEvents reads the latest materialized generation
	SnapshotHotEvents(ctx context.Context, tenant *domain.TenantRef, limit *int) ([]dto.SnapshotEventResponse, error)
	// SnapshotSlotArticles lists the live articles behind one ranked slot
	SnapshotSlotArticles(ctx context.Context, tenant *domain.TenantRef, rankNo int, limit *int) ([]dto.ArticleResponse, error)
	// RefreshSnapshot materializes a new generation for the resolved tenant
	RefreshSnapshot(ctx context.Context, tenant *domain.TenantRef) error

	// CreateTenant registers a system, its config, and its refresh schedule
	CreateTenant(ctx context.Context, req *dto.TenantCreateRequest) (*dto.TenantResponse, error)
	// GetTenant retrieves one system by id, nil if unknown
	GetTenant(ctx context.Context, id int64) (*dto.TenantResponse, error)
	// GetTenantByCode retrieves one system by code, nil if unknown
	GetTenantByCode(ctx context.Context, code string) (*dto.TenantResponse, error)
	// ListTenants lists systems, optionally filtered by active flag
	ListTenants(ctx context.Context, isActive *bool) ([]dto.TenantResponse, error)
	// UpdateTenantConfig applies a partial config update and re-reconciles the
	// schedule when the clustering cadence changed
	UpdateTenantConfig(ctx context.Context, tenantID int64, req *dto.TenantConfigRequest) (*dto.TenantConfigResponse, error)
	// SetupTenantCron reconciles one system's refresh schedule
	SetupTenantCron(ctx context.Context, tenantID int64) error
	// SetupAllCron reconciles every active system's refresh schedule
	SetupAllCron(ctx context.Context) (*dto.ReconcileResponse, error)

	// TriggerEmbedding fires the batch embedding function
	TriggerEmbedding(ctx context.Context) (*dto.TriggerResponse, error)
	// PendingEmbeddings reports the embedding backlog size
	PendingEmbeddings(ctx context.Context) (*dto.PendingEmbeddingsResponse, error)
}

type executor struct {
	store       store.Store
	clustering  engine.Clustering
	embedding   engine.Embedding
	coordinator *schedule.Coordinator
	publisher   messaging.Publisher
}

func NewExecutor(
	s store.Store,
	clustering engine.Clustering,
	embedding engine.Embedding,
	coordinator *schedule.Coordinator,
	publisher messaging.Publisher,
) Executor {
	return &executor{
		store:       s,
		clustering:  clustering,
		embedding:   embedding,
		coordinator: coordinator,
		publisher:   publisher,
	}
}

// publish sends a lifecycle event after a successful commit. Failures are
// logged and never fail the request.
func (e *executor) publish(ctx context.Context, event *messaging.Event) {
	if err := e.publisher.PublishEvent(ctx, event); err != nil {
		logger.WarnCtx(ctx, "failed to publish lifecycle event",
			zap.String("event_type", event.Type),
			zap.Error(err))
	}
}

func tenantID(tenant *domain.TenantRef) *int64 {
	if tenant == nil {
		return nil
	}
	return &tenant.ID
}

func (e *executor) CreateArticle(ctx context.Context, req *dto.ArticleCreateRequest, tenant *domain.TenantRef) (*dto.ArticleResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	input, err := dto.ToCreateArticleInput(req)
	if err != nil {
		return nil, apierrors.NewBadRequestError(fmt.Sprintf("Invalid article payload: %v", err))
	}

	article, err := e.store.CreateArticle(ctx, input, tenantID(tenant))
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to create article: %v", err))
	}

	e.publish(ctx, messaging.NewEvent(messaging.EventArticleCreated, article.TenantID, article.ID))

	resp := dto.ToArticleResponse(article)
	return &resp, nil
}

func (e *executor) CreateArticleBatch(ctx context.Context, req *dto.ArticleBatchRequest, tenant *domain.TenantRef) ([]dto.ArticleResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inputs, err := dto.ToCreateArticleInputs(req)
	if err != nil {
		return nil, apierrors.NewBadRequestError(fmt.Sprintf("Invalid article payload: %v", err))
	}

	articles, err := e.store.CreateArticles(ctx, inputs, tenantID(tenant))
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to create articles: %v", err))
	}

	for _, a := range articles {
		e.publish(ctx, messaging.NewEvent(messaging.EventArticleCreated, a.TenantID, a.ID))
	}

	return dto.ToArticleResponses(articles), nil
}

func (e *executor) GetArticle(ctx context.Context, id int64) (*dto.ArticleResponse, error) {
	article, err := e.store.GetArticleByID(ctx, id)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get article: %v", err))
	}
	if article == nil {
		return nil, nil
	}

	resp := dto.ToArticleResponse(article)
	return &resp, nil
}

func (e *executor) QueryArticles(ctx context.Context, filter store.ArticleFilter, tenant *domain.TenantRef, page, size *int) (*dto.ArticlePageResponse, error) {
	p := constants.DEFAULT_PAGE
	if page != nil && *page >= 0 {
		p = *page
	}
	s := constants.DEFAULT_PAGE_SIZE
	if size != nil && *size > 0 {
		s = *size
	}
	if s > constants.MAX_PAGE_SIZE {
		s = constants.MAX_PAGE_SIZE
	}

	articles, total, err := e.store.QueryArticles(ctx, filter, tenantID(tenant), s, p*s)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to query articles: %v", err))
	}

	return &dto.ArticlePageResponse{
		Items: dto.ToArticleResponses(articles),
		Total: total,
		Page:  p,
		Size:  s,
	}, nil
}

func (e *executor) UpdateArticleWeight(ctx context.Context, id int64, weight decimal.Decimal) error {
	if weight.LessThanOrEqual(decimal.Zero) {
		return apierrors.NewValidationError(map[string]string{"weight": "weight must be positive"})
	}

	if err := e.store.UpdateArticleWeight(ctx, id, weight); err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			return apierrors.NewNotFoundError("Article not found")
		}
		return apierrors.NewDatabaseError(fmt.Sprintf("Failed to update article weight: %v", err))
	}
	return nil
}

func (e *executor) DeleteArticle(ctx context.Context, id int64, tenant *domain.TenantRef) error {
	if err := e.store.SoftDeleteArticle(ctx, id); err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			return apierrors.NewNotFoundError("Article not found")
		}
		return apierrors.NewDatabaseError(fmt.Sprintf("Failed to delete article: %v", err))
	}

	e.publish(ctx, messaging.NewEvent(messaging.EventArticleDeleted, tenantID(tenant), id))
	return nil
}

func (e *executor) ShareArticle(ctx context.Context, id int64, req *dto.ShareRequest, tenant *domain.TenantRef) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if len(req.SystemIDs) == 0 {
		return nil
	}

	if err := e.store.ShareArticle(ctx, id, req.SystemIDs); err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			return apierrors.NewNotFoundError("Article not found")
		}
		return apierrors.NewDatabaseError(fmt.Sprintf("Failed to share article: %v", err))
	}

	e.publish(ctx, messaging.NewEvent(messaging.EventArticleShared, tenantID(tenant), id))
	return nil
}

// clusterDefaults resolves the effective clustering parameters: explicit
// request values win, then the tenant's config, then the engine defaults.
func (e *executor) clusterDefaults(ctx context.Context, tenant *domain.TenantRef, hours *int, eps *float64, minSamples, limit *int) (engine.ClusterParams, error) {
	params := engine.ClusterParams{
		TenantID:   tenantID(tenant),
		Hours:      domain.DefaultHours,
		Eps:        domain.DefaultEps,
		MinSamples: domain.DefaultMinSamples,
		Limit:      constants.DEFAULT_HOT_EVENTS_LIMIT,
	}

	if tenant != nil {
		cfg, err := e.store.GetTenantConfig(ctx, tenant.ID)
		if err != nil && !errors.Is(err, domain.ErrConfigNotFound) {
			return params, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get tenant config: %v", err))
		}
		if cfg != nil {
			params.Hours = cfg.DefaultHours
			params.Eps = cfg.DefaultEps
			params.MinSamples = cfg.DefaultMinSamples
			params.Limit = cfg.SnapshotLimit
		}
	}

	if hours != nil && *hours > 0 {
		params.Hours = *hours
	}
	if eps != nil && *eps > 0 {
		params.Eps = *eps
	}
	if minSamples != nil && *minSamples > 0 {
		params.MinSamples = *minSamples
	}
	if limit != nil && *limit > 0 {
		params.Limit = *limit
	}

	return params, nil
}

func (e *executor) LiveHotEvents(ctx context.Context, tenant *domain.TenantRef, hours *int, eps *float64, minSamples, limit *int) ([]dto.HotEventResponse, error) {
	params, err := e.clusterDefaults(ctx, tenant, hours, eps, minSamples, limit)
	if err != nil {
		return nil, err
	}

	rows, err := e.clustering.LiveClusters(ctx, params)
	if err != nil {
		return nil, apierrors.NewServiceError(fmt.Sprintf("Clustering engine call failed: %v", err))
	}

	return dto.ToHotEventResponses(rows), nil
}

func (e *executor) LiveClusterArticles(ctx context.Context, tenant *domain.TenantRef, clusterID int64, hours, limit *int) ([]dto.ArticleResponse, error) {
	if tenant == nil {
		return nil, apierrors.NewBadRequestError("A resolvable system is required for cluster article listing")
	}

	params, err := e.clusterDefaults(ctx, tenant, hours, nil, nil, limit)
	if err != nil {
		return nil, err
	}

	articles, err := e.clustering.LiveClusterArticles(ctx, tenant.ID, clusterID, params.Hours, params.Limit)
	if err != nil {
		return nil, apierrors.NewServiceError(fmt.Sprintf("Clustering engine call failed: %v", err))
	}

	return dto.ToArticleResponses(articles), nil
}

func (e *executor) SnapshotHotEvents(ctx context.Context, tenant *domain.TenantRef, limit *int) ([]dto.SnapshotEventResponse, error) {
	l := domain.DefaultSnapshotLimit
	if limit != nil && *limit > 0 {
		l = *limit
	}

	rows, err := e.store.LatestSnapshot(ctx, tenantID(tenant), l)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to read snapshot: %v", err))
	}

	return dto.ToSnapshotEventResponses(rows), nil
}

func (e *executor) SnapshotSlotArticles(ctx context.Context, tenant *domain.TenantRef, rankNo int, limit *int) ([]dto.ArticleResponse, error) {
	if tenant == nil {
		return nil, apierrors.NewBadRequestError("A resolvable system is required for slot article listing")
	}
	if rankNo < 1 {
		return nil, apierrors.NewValidationError(map[string]string{"rankNo": "rank must be at least 1"})
	}

	l := constants.DEFAULT_SLOT_ARTICLES_LIMIT
	if limit != nil && *limit > 0 {
		l = *limit
	}

	articles, err := e.store.SnapshotArticles(ctx, tenant.ID, rankNo, l)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to read slot articles: %v", err))
	}

	return dto.ToArticleResponses(articles), nil
}

func (e *executor) RefreshSnapshot(ctx context.Context, tenant *domain.TenantRef) error {
	if tenant == nil {
		return apierrors.NewBadRequestError("A resolvable system is required for snapshot refresh")
	}

	if err := e.clustering.RefreshSnapshot(ctx, tenant.ID); err != nil {
		return apierrors.NewServiceError(fmt.Sprintf("Snapshot refresh failed: %v", err))
	}

	e.publish(ctx, messaging.NewEvent(messaging.EventSnapshotRefreshed, &tenant.ID, 0))
	return nil
}

func (e *executor) CreateTenant(ctx context.Context, req *dto.TenantCreateRequest) (*dto.TenantResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Config != nil {
		if err := e.validateCrons(req.Config); err != nil {
			return nil, err
		}
	}

	t, err := e.store.CreateTenant(ctx, dto.ToCreateTenantInput(req))
	if err != nil {
		if errors.Is(err, domain.ErrTenantCodeExists) {
			return nil, apierrors.NewBadRequestError(fmt.Sprintf("System code %q already exists", req.Code))
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to create system: %v", err))
	}

	// Initial schedule setup. The tenant exists either way; a scheduler
	// failure here is repairable via setup-cron.
	if err := e.coordinator.Reconcile(ctx, t); err != nil {
		logger.WarnCtx(ctx, "initial schedule setup failed",
			zap.String("tenant_code", t.Code),
			zap.Error(err))
	}

	resp := dto.ToTenantResponse(t)
	return &resp, nil
}

func (e *executor) GetTenant(ctx context.Context, id int64) (*dto.TenantResponse, error) {
	t, err := e.store.GetTenantByID(ctx, id)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get system: %v", err))
	}
	if t == nil {
		return nil, nil
	}

	resp := dto.ToTenantResponse(t)
	return &resp, nil
}

func (e *executor) GetTenantByCode(ctx context.Context, code string) (*dto.TenantResponse, error) {
	t, err := e.store.GetTenantByCode(ctx, code)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get system: %v", err))
	}
	if t == nil {
		return nil, nil
	}

	resp := dto.ToTenantResponse(t)
	return &resp, nil
}

func (e *executor) ListTenants(ctx context.Context, isActive *bool) ([]dto.TenantResponse, error) {
	tenants, err := e.store.ListTenants(ctx, isActive)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list systems: %v", err))
	}
	return dto.ToTenantResponses(tenants), nil
}

func (e *executor) validateCrons(req *dto.TenantConfigRequest) error {
	fields := map[string]string{}
	if req.EmbeddingCron != nil {
		if err := e.coordinator.ValidateCron(*req.EmbeddingCron); err != nil {
			fields["embedding_cron"] = "invalid cron expression"
		}
	}
	if req.ClusteringCron != nil {
		if err := e.coordinator.ValidateCron(*req.ClusteringCron); err != nil {
			fields["clustering_cron"] = "invalid cron expression"
		}
	}
	if len(fields) > 0 {
		return apierrors.NewValidationError(fields)
	}
	return nil
}

func (e *executor) UpdateTenantConfig(ctx context.Context, tenantID int64, req *dto.TenantConfigRequest) (*dto.TenantConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := e.validateCrons(req); err != nil {
		return nil, err
	}

	t, err := e.store.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get system: %v", err))
	}
	if t == nil {
		return nil, apierrors.NewNotFoundError("System not found")
	}

	cfg, err := e.store.UpdateTenantConfig(ctx, tenantID, dto.ToTenantConfigInput(req))
	if err != nil {
		if errors.Is(err, domain.ErrConfigNotFound) {
			return nil, apierrors.NewNotFoundError("System config not found")
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to update system config: %v", err))
	}

	// A cadence change must reach the scheduler to take effect
	if req.ClusteringCron != nil {
		if err := e.coordinator.Reconcile(ctx, t); err != nil {
			logger.WarnCtx(ctx, "schedule re-registration after config update failed",
				zap.String("tenant_code", t.Code),
				zap.Error(err))
		}
	}

	resp := dto.ToTenantConfigResponse(cfg)
	return &resp, nil
}

func (e *executor) SetupTenantCron(ctx context.Context, tenantID int64) error {
	t, err := e.store.GetTenantByID(ctx, tenantID)
	if err != nil {
		return apierrors.NewDatabaseError(fmt.Sprintf("Failed to get system: %v", err))
	}
	if t == nil {
		return apierrors.NewNotFoundError("System not found")
	}

	if err := e.coordinator.Reconcile(ctx, t); err != nil {
		if errors.Is(err, domain.ErrInvalidCron) {
			return apierrors.NewValidationError(map[string]string{"clustering_cron": "invalid cron expression"})
		}
		return apierrors.NewServiceError(fmt.Sprintf("Schedule setup failed: %v", err))
	}
	return nil
}

func (e *executor) SetupAllCron(ctx context.Context) (*dto.ReconcileResponse, error) {
	reconciled, err := e.coordinator.ReconcileAll(ctx)
	if err != nil {
		return nil, apierrors.NewServiceError(fmt.Sprintf("Schedule reconciliation failed: %v", err))
	}
	return &dto.ReconcileResponse{ReconciledCount: reconciled}, nil
}

func (e *executor) TriggerEmbedding(ctx context.Context) (*dto.TriggerResponse, error) {
	if err := e.embedding.TriggerBatch(ctx); err != nil {
		return nil, apierrors.NewServiceError(fmt.Sprintf("Embedding engine call failed: %v", err))
	}
	return &dto.TriggerResponse{Triggered: true}, nil
}

func (e *executor) PendingEmbeddings(ctx context.Context) (*dto.PendingEmbeddingsResponse, error) {
	count, err := e.store.CountPendingEmbeddings(ctx)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to count pending embeddings: %v", err))
	}
	return &dto.PendingEmbeddingsResponse{PendingCount: count}, nil
}
