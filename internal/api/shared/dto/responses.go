package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ArticleResponse represents one article on the wire. The embedding vector is
// never exposed.
type ArticleResponse struct {
	ID        int64           `json:"id"`
	TenantID  *int64          `json:"tenant_id,omitempty"`
	IsShared  bool            `json:"is_shared"`
	Title     string          `json:"title"`
	Summary   *string         `json:"summary,omitempty"`
	FullText  *string         `json:"full_text,omitempty"`
	Source    *string         `json:"source,omitempty"`
	Weight    decimal.Decimal `json:"weight"`
	Attr      datatypes.JSON  `json:"attr,omitempty"`
	IsDeleted bool            `json:"is_deleted"`
	CreatedAt time.Time       `json:"created_at"`
}

// ArticlePageResponse represents one page of a visibility-filtered query
type ArticlePageResponse struct {
	Items []ArticleResponse `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
}

// HotEventResponse represents one ranked cluster, from either retrieval path
type HotEventResponse struct {
	Rank         int             `json:"rank"`
	ClusterID    int64           `json:"cluster_id"`
	Title        string          `json:"title"`
	ArticleCount int64           `json:"article_count"`
	TotalWeight  decimal.Decimal `json:"total_weight"`
	HotScore     decimal.Decimal `json:"hot_score"`
	SampleTitles string          `json:"sample_titles"`
	ArticleIDs   []int64         `json:"article_ids,omitempty"`
}

// SnapshotEventResponse represents one ranked row of a materialized generation
type SnapshotEventResponse struct {
	SnapshotTime time.Time       `json:"snapshot_time"`
	Rank         int             `json:"rank"`
	ClusterID    int64           `json:"cluster_id"`
	Title        string          `json:"title"`
	ArticleCount int64           `json:"article_count"`
	TotalWeight  decimal.Decimal `json:"total_weight"`
	HotScore     decimal.Decimal `json:"hot_score"`
	SampleTitles string          `json:"sample_titles"`
	HoursWindow  int             `json:"hours_window"`
	ModelName    string          `json:"model_name,omitempty"`
}

// TenantResponse represents one system
type TenantResponse struct {
	ID          int64                 `json:"id"`
	Code        string                `json:"code"`
	Name        string                `json:"name"`
	Description *string               `json:"description,omitempty"`
	IsActive    bool                  `json:"is_active"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	Config      *TenantConfigResponse `json:"config,omitempty"`
}

// TenantConfigResponse represents a system's clustering and scheduling config
type TenantConfigResponse struct {
	TenantID          int64     `json:"tenant_id"`
	DefaultHours      int       `json:"default_hours"`
	DefaultEps        float64   `json:"default_eps"`
	DefaultMinSamples int       `json:"default_min_samples"`
	EmbeddingCron     string    `json:"embedding_cron"`
	ClusteringCron    string    `json:"clustering_cron"`
	MaxArticlesLimit  int       `json:"max_articles_limit"`
	SnapshotLimit     int       `json:"snapshot_limit"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PendingEmbeddingsResponse reports the embedding backlog size
type PendingEmbeddingsResponse struct {
	PendingCount int64 `json:"pending_count"`
}

// TriggerResponse acknowledges a fire-and-forget engine call
type TriggerResponse struct {
	Triggered bool `json:"triggered"`
}

// ReconcileResponse reports a schedule reconciliation sweep
type ReconcileResponse struct {
	ReconciledCount int `json:"reconciled_count"`
}
