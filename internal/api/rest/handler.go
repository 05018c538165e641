package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/newsforge/hotevents/internal/api/middleware"
	"github.com/newsforge/hotevents/internal/api/shared/dto"
	"github.com/newsforge/hotevents/internal/api/shared/executor"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// CreateArticle ingests one article
	// POST /api/articles
	CreateArticle(c *gin.Context)

	// CreateArticleBatch ingests a batch of articles atomically
	// POST /api/articles/batch
	CreateArticleBatch(c *gin.Context)

	// ListArticles runs a visibility-filtered paged query
	// GET /api/articles?systemId&source&minWeight&maxWeight&keyword&page&size
	ListArticles(c *gin.Context)

	// GetArticle retrieves a single article by id
	// GET /api/articles/:id
	GetArticle(c *gin.Context)

	// UpdateArticleWeight sets a new positive weight
	// PUT /api/articles/:id/weight?weight=<decimal>
	UpdateArticleWeight(c *gin.Context)

	// DeleteArticle soft-deletes an article
	// DELETE /api/articles/:id
	DeleteArticle(c *gin.Context)

	// ShareArticle grants target systems visibility of an article
	// POST /api/articles/:id/share
	ShareArticle(c *gin.Context)

	// GetRealtimeHotEvents recomputes ranked clusters on demand
	// GET /api/hot-events/realtime?systemId&hours&eps&minSamples&limit
	GetRealtimeHotEvents(c *gin.Context)

	// GetRealtimeClusterArticles lists the member articles of one live cluster
	// GET /api/hot-events/realtime/:clusterId/articles?systemId&hours&limit
	GetRealtimeClusterArticles(c *gin.Context)

	// GetSnapshotHotEvents reads the latest materialized generation
	// GET /api/hot-events/snapshot?systemId&limit
	GetSnapshotHotEvents(c *gin.Context)

	// GetSnapshotSlotArticles lists the articles behind one ranked slot
	// GET /api/hot-events/snapshot/:rankNo/articles?systemId&limit
	GetSnapshotSlotArticles(c *gin.Context)

	// RefreshSnapshot materializes a new generation for the resolved system
	// POST /api/hot-events/snapshot/refresh?systemId
	RefreshSnapshot(c *gin.Context)

	// CreateSystem registers a system with its config and refresh schedule
	// POST /api/systems
	CreateSystem(c *gin.Context)

	// ListSystems lists systems
	// GET /api/systems?isActive
	ListSystems(c *gin.Context)

	// GetSystem retrieves a system by id
	// GET /api/systems/:id
	GetSystem(c *gin.Context)

	// GetSystemByCode retrieves a system by its unique code
	// GET /api/systems/code/:code
	GetSystemByCode(c *gin.Context)

	// UpdateSystemConfig applies a partial config update
	// PUT /api/systems/:id/config
	UpdateSystemConfig(c *gin.Context)

	// SetupSystemCron reconciles one system's refresh schedule
	// POST /api/systems/:id/setup-cron
	SetupSystemCron(c *gin.Context)

	// SetupAllCron reconciles every active system's refresh schedule
	// POST /api/systems/setup-all-cron
	SetupAllCron(c *gin.Context)

	// TriggerEmbedding fires the batch embedding function
	// POST /api/embedding/trigger
	TriggerEmbedding(c *gin.Context)

	// GetPendingEmbeddings reports the embedding backlog size
	// GET /api/embedding/pending-count
	GetPendingEmbeddings(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor) Handler {
	return &handler{executor: exec}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, "Invalid "+name+" path parameter")
		return 0, false
	}
	return id, true
}

func (h *handler) CreateArticle(c *gin.Context) {
	var req dto.ArticleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	resp, err := h.executor.CreateArticle(c.Request.Context(), &req, middleware.TenantFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *handler) CreateArticleBatch(c *gin.Context) {
	var req dto.ArticleBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	resp, err := h.executor.CreateArticleBatch(c.Request.Context(), &req, middleware.TenantFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *handler) ListArticles(c *gin.Context) {
	params, err := ParseListArticlesQuery(c)
	if err != nil {
		respondBadRequest(c, "Invalid query parameters", err.Error())
		return
	}

	resp, err := h.executor.QueryArticles(c.Request.Context(), params.Filter(),
		middleware.TenantFromContext(c), params.Page, params.Size)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetArticle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.executor.GetArticle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if resp == nil {
		respondNotFound(c, "Article not found")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) UpdateArticleWeight(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	raw := c.Query("weight")
	if raw == "" {
		respondValidationError(c, map[string]string{"weight": "weight is required"})
		return
	}
	weight, err := decimal.NewFromString(raw)
	if err != nil {
		respondValidationError(c, map[string]string{"weight": "weight must be a decimal number"})
		return
	}

	if err := h.executor.UpdateArticleWeight(c.Request.Context(), id, weight); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handler) DeleteArticle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.executor.DeleteArticle(c.Request.Context(), id, middleware.TenantFromContext(c)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handler) ShareArticle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	if err := h.executor.ShareArticle(c.Request.Context(), id, &req, middleware.TenantFromContext(c)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handler) GetRealtimeHotEvents(c *gin.Context) {
	params, err := ParseRealtimeQuery(c)
	if err != nil {
		respondBadRequest(c, "Invalid query parameters", err.Error())
		return
	}

	resp, err := h.executor.LiveHotEvents(c.Request.Context(), middleware.TenantFromContext(c),
		params.Hours, params.Eps, params.MinSamples, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetRealtimeClusterArticles(c *gin.Context) {
	clusterID, ok := pathID(c, "clusterId")
	if !ok {
		return
	}

	params, err := ParseClusterArticlesQuery(c)
	if err != nil {
		respondBadRequest(c, "Invalid query parameters", err.Error())
		return
	}

	resp, err := h.executor.LiveClusterArticles(c.Request.Context(), middleware.TenantFromContext(c),
		clusterID, params.Hours, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetSnapshotHotEvents(c *gin.Context) {
	params, err := ParseSnapshotQuery(c)
	if err != nil {
		respondBadRequest(c, "Invalid query parameters", err.Error())
		return
	}

	resp, err := h.executor.SnapshotHotEvents(c.Request.Context(), middleware.TenantFromContext(c), params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetSnapshotSlotArticles(c *gin.Context) {
	rankNo, ok := pathID(c, "rankNo")
	if !ok {
		return
	}

	params, err := ParseClusterArticlesQuery(c)
	if err != nil {
		respondBadRequest(c, "Invalid query parameters", err.Error())
		return
	}

	resp, err := h.executor.SnapshotSlotArticles(c.Request.Context(), middleware.TenantFromContext(c),
		int(rankNo), params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) RefreshSnapshot(c *gin.Context) {
	if err := h.executor.RefreshSnapshot(c.Request.Context(), middleware.TenantFromContext(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"refreshed": true})
}

func (h *handler) CreateSystem(c *gin.Context) {
	var req dto.TenantCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	resp, err := h.executor.CreateTenant(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *handler) ListSystems(c *gin.Context) {
	params, err := ParseListSystemsQuery(c)
	if err != nil {
		respondBadRequest(c, "Invalid query parameters", err.Error())
		return
	}

	resp, err := h.executor.ListTenants(c.Request.Context(), params.IsActive)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetSystem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.executor.GetTenant(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if resp == nil {
		respondNotFound(c, "System not found")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetSystemByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		respondBadRequest(c, "System code is required")
		return
	}

	resp, err := h.executor.GetTenantByCode(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}
	if resp == nil {
		respondNotFound(c, "System not found")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) UpdateSystemConfig(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.TenantConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	resp, err := h.executor.UpdateTenantConfig(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) SetupSystemCron(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.executor.SetupTenantCron(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scheduled": true})
}

func (h *handler) SetupAllCron(c *gin.Context) {
	resp, err := h.executor.SetupAllCron(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) TriggerEmbedding(c *gin.Context) {
	resp, err := h.executor.TriggerEmbedding(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, resp)
}

func (h *handler) GetPendingEmbeddings(c *gin.Context) {
	resp, err := h.executor.PendingEmbeddings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
