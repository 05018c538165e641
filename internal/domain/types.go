package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clustering defaults applied when neither the request nor the tenant config
// supplies a value. They mirror the defaults baked into the engine functions.
const (
	DefaultHours      = 24
	DefaultEps        = 0.38
	DefaultMinSamples = 3

	DefaultEmbeddingCron  = "*/8 * * * *"
	DefaultClusteringCron = "*/12 * * * *"

	DefaultMaxArticlesLimit = 80000
	DefaultSnapshotLimit    = 100
)

// PendingEmbeddingWindow bounds how far back the embedding backlog is counted.
// Articles older than this are never vectorized.
const PendingEmbeddingWindow = 60 * 24 * time.Hour

// ClusterRow is one ranked cluster produced by the external clustering engine.
// Rank is dense, 1-based, assigned by descending hot score; the engine's row
// order is stable so ties keep their relative order.
type ClusterRow struct {
	Rank         int             `json:"rank"`
	ClusterID    int64           `json:"cluster_id"`
	Title        string          `json:"title"`
	ArticleCount int64           `json:"article_count"`
	TotalWeight  decimal.Decimal `json:"total_weight"`
	HotScore     decimal.Decimal `json:"hot_score"`
	SampleTitles string          `json:"sample_titles"`
	ArticleIDs   []int64         `json:"article_ids"`
}

// TenantRef identifies a resolved tenant for the duration of one request.
// It is constructed by the tenant middleware and passed explicitly; there is
// no ambient per-worker tenant state.
type TenantRef struct {
	ID   int64
	Code string
}
