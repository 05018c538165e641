package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/newsforge/hotevents/internal/api/shared/constants"
	apierrors "github.com/newsforge/hotevents/internal/api/shared/errors"
)

// ArticleCreateRequest represents the request body for ingesting one article
type ArticleCreateRequest struct {
	Title    string                 `json:"title"`
	Summary  *string                `json:"summary,omitempty"`
	FullText *string                `json:"full_text,omitempty"`
	Source   *string                `json:"source,omitempty"`
	Weight   *decimal.Decimal       `json:"weight,omitempty"`
	IsShared *bool                  `json:"is_shared,omitempty"`
	Attr     map[string]interface{} `json:"attr,omitempty"`
}

// Validate validates the request body
func (r *ArticleCreateRequest) Validate() error {
	fields := r.fieldErrors("")
	if len(fields) > 0 {
		return apierrors.NewValidationError(fields)
	}
	return nil
}

// fieldErrors collects per-field messages, prefixing keys for batch items
func (r *ArticleCreateRequest) fieldErrors(prefix string) map[string]string {
	fields := map[string]string{}
	if r.Title == "" {
		fields[prefix+"title"] = "title is required"
	}
	if r.Weight != nil && r.Weight.LessThanOrEqual(decimal.Zero) {
		fields[prefix+"weight"] = "weight must be positive"
	}
	return fields
}

// ArticleBatchRequest represents the request body for atomic batch ingestion
type ArticleBatchRequest struct {
	Articles []ArticleCreateRequest `json:"articles"`
}

// Validate validates the request body
func (r *ArticleBatchRequest) Validate() error {
	fields := map[string]string{}
	if len(r.Articles) == 0 {
		fields["articles"] = "articles is required"
	}
	if len(r.Articles) > constants.MAX_ARTICLES_PER_BATCH {
		fields["articles"] = fmt.Sprintf("maximum %d articles allowed per batch", constants.MAX_ARTICLES_PER_BATCH)
	}
	for i := range r.Articles {
		for k, v := range r.Articles[i].fieldErrors(fmt.Sprintf("articles[%d].", i)) {
			fields[k] = v
		}
	}
	if len(fields) > 0 {
		return apierrors.NewValidationError(fields)
	}
	return nil
}

// ShareRequest represents the request body for granting tenants visibility of
// an article. An empty list is accepted and treated as a no-op; target ids are
// not checked for existence.
type ShareRequest struct {
	SystemIDs []int64 `json:"systemIds"`
}

// Validate validates the request body
func (r *ShareRequest) Validate() error {
	fields := map[string]string{}
	if len(r.SystemIDs) > constants.MAX_SHARE_TARGETS_PER_REQUEST {
		fields["systemIds"] = fmt.Sprintf("maximum %d target systems allowed", constants.MAX_SHARE_TARGETS_PER_REQUEST)
	}
	for _, id := range r.SystemIDs {
		if id <= 0 {
			fields["systemIds"] = "system ids must be positive"
			break
		}
	}
	if len(fields) > 0 {
		return apierrors.NewValidationError(fields)
	}
	return nil
}

// TenantCreateRequest represents the request body for registering a system
type TenantCreateRequest struct {
	Code        string               `json:"code"`
	Name        string               `json:"name"`
	Description *string              `json:"description,omitempty"`
	Config      *TenantConfigRequest `json:"config,omitempty"`
}

// Validate validates the request body
func (r *TenantCreateRequest) Validate() error {
	fields := map[string]string{}
	if r.Code == "" {
		fields["code"] = "code is required"
	}
	if r.Name == "" {
		fields["name"] = "name is required"
	}
	if r.Config != nil {
		for k, v := range r.Config.fieldErrors() {
			fields["config."+k] = v
		}
	}
	if len(fields) > 0 {
		return apierrors.NewValidationError(fields)
	}
	return nil
}

// TenantConfigRequest represents a partial config update; absent fields keep
// their current values.
type TenantConfigRequest struct {
	DefaultHours      *int     `json:"default_hours,omitempty"`
	DefaultEps        *float64 `json:"default_eps,omitempty"`
	DefaultMinSamples *int     `json:"default_min_samples,omitempty"`
	EmbeddingCron     *string  `json:"embedding_cron,omitempty"`
	ClusteringCron    *string  `json:"clustering_cron,omitempty"`
	MaxArticlesLimit  *int     `json:"max_articles_limit,omitempty"`
	SnapshotLimit     *int     `json:"snapshot_limit,omitempty"`
}

// Validate validates the request body. Cron expressions are syntax-checked
// later, against the scheduler's parser, by the executor.
func (r *TenantConfigRequest) Validate() error {
	if fields := r.fieldErrors(); len(fields) > 0 {
		return apierrors.NewValidationError(fields)
	}
	return nil
}

func (r *TenantConfigRequest) fieldErrors() map[string]string {
	fields := map[string]string{}
	if r.DefaultHours != nil && *r.DefaultHours <= 0 {
		fields["default_hours"] = "default_hours must be positive"
	}
	if r.DefaultEps != nil && *r.DefaultEps <= 0 {
		fields["default_eps"] = "default_eps must be positive"
	}
	if r.DefaultMinSamples != nil && *r.DefaultMinSamples <= 0 {
		fields["default_min_samples"] = "default_min_samples must be positive"
	}
	if r.EmbeddingCron != nil && *r.EmbeddingCron == "" {
		fields["embedding_cron"] = "embedding_cron must not be empty"
	}
	if r.ClusteringCron != nil && *r.ClusteringCron == "" {
		fields["clustering_cron"] = "clustering_cron must not be empty"
	}
	if r.MaxArticlesLimit != nil && *r.MaxArticlesLimit <= 0 {
		fields["max_articles_limit"] = "max_articles_limit must be positive"
	}
	if r.SnapshotLimit != nil && *r.SnapshotLimit <= 0 {
		fields["snapshot_limit"] = "snapshot_limit must be positive"
	}
	return fields
}
