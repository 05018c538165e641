package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/newsforge/hotevents/internal/store"
)

// ListArticlesQueryParams holds query parameters for GET /api/articles
type ListArticlesQueryParams struct {
	Source    *string  `form:"source"`
	MinWeight *float64 `form:"minWeight"`
	MaxWeight *float64 `form:"maxWeight"`
	Keyword   *string  `form:"keyword"`
	Page      *int     `form:"page"`
	Size      *int     `form:"size"`
}

// Filter converts the parsed parameters into a store filter
func (p *ListArticlesQueryParams) Filter() store.ArticleFilter {
	filter := store.ArticleFilter{
		Source:  p.Source,
		Keyword: p.Keyword,
	}
	if p.MinWeight != nil {
		w := decimal.NewFromFloat(*p.MinWeight)
		filter.MinWeight = &w
	}
	if p.MaxWeight != nil {
		w := decimal.NewFromFloat(*p.MaxWeight)
		filter.MaxWeight = &w
	}
	return filter
}

// ParseListArticlesQuery parses query parameters for GET /api/articles
func ParseListArticlesQuery(c *gin.Context) (*ListArticlesQueryParams, error) {
	var params ListArticlesQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	return &params, nil
}

// RealtimeQueryParams holds query parameters for GET /api/hot-events/realtime
type RealtimeQueryParams struct {
	Hours      *int     `form:"hours"`
	Eps        *float64 `form:"eps"`
	MinSamples *int     `form:"minSamples"`
	Limit      *int     `form:"limit"`
}

// ParseRealtimeQuery parses query parameters for the live retrieval path
func ParseRealtimeQuery(c *gin.Context) (*RealtimeQueryParams, error) {
	var params RealtimeQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	return &params, nil
}

// SnapshotQueryParams holds query parameters for GET /api/hot-events/snapshot
type SnapshotQueryParams struct {
	Limit *int `form:"limit"`
}

// ParseSnapshotQuery parses query parameters for the cached retrieval path
func ParseSnapshotQuery(c *gin.Context) (*SnapshotQueryParams, error) {
	var params SnapshotQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	return &params, nil
}

// ClusterArticlesQueryParams holds query parameters for the article listings
// behind a live cluster or snapshot slot
type ClusterArticlesQueryParams struct {
	Hours *int `form:"hours"`
	Limit *int `form:"limit"`
}

// ParseClusterArticlesQuery parses query parameters for cluster article listings
func ParseClusterArticlesQuery(c *gin.Context) (*ClusterArticlesQueryParams, error) {
	var params ClusterArticlesQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	return &params, nil
}

// ListSystemsQueryParams holds query parameters for GET /api/systems
type ListSystemsQueryParams struct {
	IsActive *bool `form:"isActive"`
}

// ParseListSystemsQuery parses query parameters for GET /api/systems
func ParseListSystemsQuery(c *gin.Context) (*ListSystemsQueryParams, error) {
	var params ListSystemsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	return &params, nil
}
