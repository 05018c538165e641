// Package engine holds the typed gateways to the external compute functions
// living next to the data in PostgreSQL: DBSCAN clustering, snapshot refresh,
// batch embedding, and the pg_cron scheduler primitives. The functions are
// installed with the clustering engine deployment; this package only calls
// them and parses their rows. Failures are wrapped and surfaced, never retried.
package engine

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/newsforge/hotevents/internal/domain"
	"github.com/newsforge/hotevents/internal/store/schema"
)

// ClusterParams are the inputs of one live clustering run. Zero values are
// filled with the tenant-config or engine defaults by the caller before the
// gateway is invoked.
type ClusterParams struct {
	// TenantID scopes clustering to one tenant's visible articles; nil runs
	// the global legacy function over all non-deleted rows.
	TenantID   *int64
	Hours      int
	Eps        float64
	MinSamples int
	Limit      int
}

// Clustering is the boundary to the external clustering engine.
//
// LiveClusters recomputes clusters from current article state on every call;
// it performs no persistence and its cost is O(visible articles) inside the
// engine. RefreshSnapshot delegates to the engine's refresh function, which
// materializes a complete new snapshot generation atomically; on failure the
// prior generation stays untouched and readable.
type Clustering interface {
	LiveClusters(ctx context.Context, params ClusterParams) ([]domain.ClusterRow, error)
	LiveClusterArticles(ctx context.Context, tenantID, clusterID int64, hours, limit int) ([]*schema.Article, error)
	RefreshSnapshot(ctx context.Context, tenantID int64) error
}

type pgClustering struct {
	db *gorm.DB
}

// NewPGClustering creates a clustering gateway backed by the in-database engine functions
func NewPGClustering(db *gorm.DB) Clustering {
	return &pgClustering{db: db}
}

// LiveClusters calls the engine's clustering function and returns its rows
// ranked 1..N by descending hot score. The rank is assigned in SQL with a
// row_number window; the engine's row order is stable, so ties keep their
// relative order across calls.
func (g *pgClustering) LiveClusters(ctx context.Context, params ClusterParams) ([]domain.ClusterRow, error) {
	var (
		query string
		args  []interface{}
	)

	if params.TenantID != nil {
		query = `
			SELECT
				row_number() OVER (ORDER BY hot_score DESC) AS rank_no,
				cluster_id, title, article_count,
				total_weight, hot_score, sample_titles, article_ids
			FROM hotd_event_clusters_by_system(?, ?, ?, ?)
			LIMIT ?`
		args = []interface{}{*params.TenantID, params.Hours, params.Eps, params.MinSamples, params.Limit}
	} else {
		query = `
			SELECT
				row_number() OVER (ORDER BY hot_score DESC) AS rank_no,
				cluster_id, title, article_count,
				total_weight, hot_score, sample_titles, article_ids
			FROM hotd_event_clusters(?, ?, ?)
			LIMIT ?`
		args = []interface{}{params.Hours, params.Eps, params.MinSamples, params.Limit}
	}

	rows, err := g.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("clustering engine call failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var clusters []domain.ClusterRow
	for rows.Next() {
		var (
			row        domain.ClusterRow
			articleIDs pq.Int64Array
		)
		if err := rows.Scan(
			&row.Rank, &row.ClusterID, &row.Title, &row.ArticleCount,
			&row.TotalWeight, &row.HotScore, &row.SampleTitles, &articleIDs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cluster row: %w", err)
		}
		row.ArticleIDs = articleIDs
		clusters = append(clusters, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cluster rows: %w", err)
	}

	return clusters, nil
}

// LiveClusterArticles resolves one live cluster's member ids to article rows,
// ordered by weight then recency.
func (g *pgClustering) LiveClusterArticles(ctx context.Context, tenantID, clusterID int64, hours, limit int) ([]*schema.Article, error) {
	query := `
		SELECT a.*
		FROM hotd_event_clusters_by_system(?, ?, NULL, NULL) ec
		CROSS JOIN LATERAL unnest(ec.article_ids) AS member_id
		JOIN articles a ON a.id = member_id
		WHERE ec.cluster_id = ?
		ORDER BY a.weight DESC, a.created_at DESC
		LIMIT ?`

	var articles []*schema.Article
	err := g.db.WithContext(ctx).Raw(query, tenantID, hours, clusterID, limit).Scan(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("clustering engine call failed: %w", err)
	}
	return articles, nil
}

// RefreshSnapshot asks the engine to materialize a new snapshot generation for
// the tenant. The function serializes per tenant server-side and writes the
// generation all-or-nothing.
func (g *pgClustering) RefreshSnapshot(ctx context.Context, tenantID int64) error {
	err := g.db.WithContext(ctx).Exec("SELECT hotd_refresh_snapshot_by_system(?)", tenantID).Error
	if err != nil {
		return fmt.Errorf("snapshot refresh failed for tenant %d: %w", tenantID, err)
	}
	return nil
}
