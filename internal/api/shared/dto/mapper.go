package dto

import (
	"encoding/json"
	"fmt"

	"github.com/newsforge/hotevents/internal/domain"
	"github.com/newsforge/hotevents/internal/store"
	"github.com/newsforge/hotevents/internal/store/schema"
)

// ToArticleResponse converts a schema article to its wire representation
func ToArticleResponse(a *schema.Article) ArticleResponse {
	return ArticleResponse{
		ID:        a.ID,
		TenantID:  a.TenantID,
		IsShared:  a.IsShared,
		Title:     a.Title,
		Summary:   a.Summary,
		FullText:  a.FullText,
		Source:    a.Source,
		Weight:    a.Weight,
		Attr:      a.Attr,
		IsDeleted: a.IsDeleted,
		CreatedAt: a.CreatedAt,
	}
}

// ToArticleResponses converts a slice of schema articles
func ToArticleResponses(articles []*schema.Article) []ArticleResponse {
	out := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, ToArticleResponse(a))
	}
	return out
}

// ToHotEventResponse converts a ranked cluster row from the live path
func ToHotEventResponse(row domain.ClusterRow) HotEventResponse {
	return HotEventResponse{
		Rank:         row.Rank,
		ClusterID:    row.ClusterID,
		Title:        row.Title,
		ArticleCount: row.ArticleCount,
		TotalWeight:  row.TotalWeight,
		HotScore:     row.HotScore,
		SampleTitles: row.SampleTitles,
		ArticleIDs:   row.ArticleIDs,
	}
}

// ToHotEventResponses converts a slice of ranked cluster rows
func ToHotEventResponses(rows []domain.ClusterRow) []HotEventResponse {
	out := make([]HotEventResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToHotEventResponse(row))
	}
	return out
}

// ToSnapshotEventResponse converts one materialized ranking row
func ToSnapshotEventResponse(s *schema.EventSnapshot) SnapshotEventResponse {
	return SnapshotEventResponse{
		SnapshotTime: s.SnapshotTime,
		Rank:         s.RankNo,
		ClusterID:    s.ClusterID,
		Title:        s.Title,
		ArticleCount: s.ArticleCount,
		TotalWeight:  s.TotalWeight,
		HotScore:     s.HotScore,
		SampleTitles: s.SampleTitles,
		HoursWindow:  s.HoursWindow,
		ModelName:    s.ModelName,
	}
}

// ToSnapshotEventResponses converts a snapshot generation
func ToSnapshotEventResponses(rows []*schema.EventSnapshot) []SnapshotEventResponse {
	out := make([]SnapshotEventResponse, 0, len(rows))
	for _, s := range rows {
		out = append(out, ToSnapshotEventResponse(s))
	}
	return out
}

// ToTenantResponse converts a schema tenant, including its config when loaded
func ToTenantResponse(t *schema.Tenant) TenantResponse {
	resp := TenantResponse{
		ID:          t.ID,
		Code:        t.Code,
		Name:        t.Name,
		Description: t.Description,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Config != nil {
		cfg := ToTenantConfigResponse(t.Config)
		resp.Config = &cfg
	}
	return resp
}

// ToTenantResponses converts a slice of schema tenants
func ToTenantResponses(tenants []*schema.Tenant) []TenantResponse {
	out := make([]TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, ToTenantResponse(t))
	}
	return out
}

// ToTenantConfigResponse converts a schema tenant config
func ToTenantConfigResponse(c *schema.TenantConfig) TenantConfigResponse {
	return TenantConfigResponse{
		TenantID:          c.TenantID,
		DefaultHours:      c.DefaultHours,
		DefaultEps:        c.DefaultEps,
		DefaultMinSamples: c.DefaultMinSamples,
		EmbeddingCron:     c.EmbeddingCron,
		ClusteringCron:    c.ClusteringCron,
		MaxArticlesLimit:  c.MaxArticlesLimit,
		SnapshotLimit:     c.SnapshotLimit,
		UpdatedAt:         c.UpdatedAt,
	}
}

// ToCreateArticleInput converts a validated create request to a store input
func ToCreateArticleInput(r *ArticleCreateRequest) (store.CreateArticleInput, error) {
	input := store.CreateArticleInput{
		Title:    r.Title,
		Summary:  r.Summary,
		FullText: r.FullText,
		Source:   r.Source,
		Weight:   r.Weight,
		IsShared: r.IsShared,
	}
	if r.Attr != nil {
		raw, err := json.Marshal(r.Attr)
		if err != nil {
			return store.CreateArticleInput{}, fmt.Errorf("failed to marshal attr: %w", err)
		}
		input.Attr = raw
	}
	return input, nil
}

// ToCreateArticleInputs converts a validated batch request to store inputs
func ToCreateArticleInputs(r *ArticleBatchRequest) ([]store.CreateArticleInput, error) {
	inputs := make([]store.CreateArticleInput, 0, len(r.Articles))
	for i := range r.Articles {
		input, err := ToCreateArticleInput(&r.Articles[i])
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

// ToTenantConfigInput converts a validated config request to a store input
func ToTenantConfigInput(r *TenantConfigRequest) store.TenantConfigInput {
	return store.TenantConfigInput{
		DefaultHours:      r.DefaultHours,
		DefaultEps:        r.DefaultEps,
		DefaultMinSamples: r.DefaultMinSamples,
		EmbeddingCron:     r.EmbeddingCron,
		ClusteringCron:    r.ClusteringCron,
		MaxArticlesLimit:  r.MaxArticlesLimit,
		SnapshotLimit:     r.SnapshotLimit,
	}
}

// ToCreateTenantInput converts a validated tenant create request to a store input
func ToCreateTenantInput(r *TenantCreateRequest) store.CreateTenantInput {
	input := store.CreateTenantInput{
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
	}
	if r.Config != nil {
		cfg := ToTenantConfigInput(r.Config)
		input.Config = &cfg
	}
	return input
}
