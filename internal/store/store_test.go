package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/newsforge/hotevents/internal/domain"
	"github.com/newsforge/hotevents/internal/store/schema"
)

// StoreTestSuite provides the interface for running store tests against different implementations
type StoreTestSuite struct {
	Store Store
	// InitDB should be called before each test to initialize the database
	InitDB func(t *testing.T) Store
	// CleanupDB should be called after each test to clean up the database
	CleanupDB func(t *testing.T)
}

// =============================================================================
// Test Data Builders
// =============================================================================

// buildTestTenant creates a test tenant input
func buildTestTenant(code string) CreateTenantInput {
	description := "test tenant " + code
	return CreateTenantInput{
		Code:        code,
		Name:        "Tenant " + code,
		Description: &description,
	}
}

// buildTestArticle creates a test article input
func buildTestArticle(title string) CreateArticleInput {
	summary := "summary of " + title
	source := "test-feed"
	return CreateArticleInput{
		Title:   title,
		Summary: &summary,
		Source:  &source,
		Attr:    datatypes.JSON([]byte(`{"category":"news"}`)),
	}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func float64Ptr(v float64) *float64 { return &v }

func decPtr(v decimal.Decimal) *decimal.Decimal { return &v }

// storeDB exposes the raw connection behind a pgStore. The snapshot tables are
// written by the external refresh function in production, so tests seed them
// directly.
func storeDB(t *testing.T, s Store) *gorm.DB {
	pg, ok := s.(*pgStore)
	require.True(t, ok, "expected a pgStore-backed store")
	return pg.db
}

// seedSnapshotRow inserts one ranked snapshot row plus its membership links
func seedSnapshotRow(t *testing.T, db *gorm.DB, tenantID int64, at time.Time, rankNo int, clusterID int64, articleIDs []int64) {
	row := schema.EventSnapshot{
		SnapshotTime: at,
		RankNo:       rankNo,
		TenantID:     tenantID,
		ClusterID:    clusterID,
		Title:        "cluster title",
		ArticleCount: int64(len(articleIDs)),
		TotalWeight:  decimal.NewFromInt(int64(len(articleIDs))),
		HotScore:     decimal.NewFromFloat(1.5),
		SampleTitles: "a\nb",
		HoursWindow:  24,
		ModelName:    "test-model",
	}
	require.NoError(t, db.Create(&row).Error)

	for _, articleID := range articleIDs {
		link := schema.EventArticleLink{
			SnapshotTime:  at,
			RankNo:        rankNo,
			ArticleID:     articleID,
			TenantID:      tenantID,
			ClusterID:     clusterID,
			ArticleWeight: decimal.NewFromInt(1),
		}
		require.NoError(t, db.Create(&link).Error)
	}
}

// makeVector builds a pgvector literal with the given number of dimensions
func makeVector(dims int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < dims; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString("0.1")
	}
	b.WriteByte(']')
	return b.String()
}

// =============================================================================
// Test: Tenants
// =============================================================================

func testCreateTenant(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("creates tenant with default config", func(t *testing.T) {
		tenant, err := store.CreateTenant(ctx, buildTestTenant("news-a"))
		require.NoError(t, err)
		require.NotNil(t, tenant)
		assert.NotZero(t, tenant.ID)
		assert.Equal(t, "news-a", tenant.Code)
		assert.True(t, tenant.IsActive)

		config, err := store.GetTenantConfig(ctx, tenant.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultHours, config.DefaultHours)
		assert.Equal(t, domain.DefaultEps, config.DefaultEps)
		assert.Equal(t, domain.DefaultMinSamples, config.DefaultMinSamples)
		assert.Equal(t, domain.DefaultEmbeddingCron, config.EmbeddingCron)
		assert.Equal(t, domain.DefaultClusteringCron, config.ClusteringCron)
		assert.Equal(t, domain.DefaultMaxArticlesLimit, config.MaxArticlesLimit)
		assert.Equal(t, domain.DefaultSnapshotLimit, config.SnapshotLimit)
	})

	t.Run("applies config overrides at creation", func(t *testing.T) {
		input := buildTestTenant("news-b")
		input.Config = &TenantConfigInput{
			DefaultHours:   intPtr(48),
			DefaultEps:     float64Ptr(0.25),
			ClusteringCron: strPtr("*/30 * * * *"),
		}

		tenant, err := store.CreateTenant(ctx, input)
		require.NoError(t, err)

		config, err := store.GetTenantConfig(ctx, tenant.ID)
		require.NoError(t, err)
		assert.Equal(t, 48, config.DefaultHours)
		assert.Equal(t, 0.25, config.DefaultEps)
		assert.Equal(t, "*/30 * * * *", config.ClusteringCron)
		// Untouched fields keep their defaults
		assert.Equal(t, domain.DefaultMinSamples, config.DefaultMinSamples)
		assert.Equal(t, domain.DefaultEmbeddingCron, config.EmbeddingCron)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		_, err := store.CreateTenant(ctx, buildTestTenant("news-dup"))
		require.NoError(t, err)

		_, err = store.CreateTenant(ctx, buildTestTenant("news-dup"))
		require.ErrorIs(t, err, domain.ErrTenantCodeExists)
	})
}

func testGetTenant(t *testing.T, store Store) {
	ctx := context.Background()

	created, err := store.CreateTenant(ctx, buildTestTenant("lookup"))
	require.NoError(t, err)

	t.Run("by id", func(t *testing.T) {
		tenant, err := store.GetTenantByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, tenant)
		assert.Equal(t, "lookup", tenant.Code)
	})

	t.Run("by code", func(t *testing.T) {
		tenant, err := store.GetTenantByCode(ctx, "lookup")
		require.NoError(t, err)
		require.NotNil(t, tenant)
		assert.Equal(t, created.ID, tenant.ID)
	})

	t.Run("unknown id returns nil", func(t *testing.T) {
		tenant, err := store.GetTenantByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, tenant)
	})

	t.Run("unknown code returns nil", func(t *testing.T) {
		tenant, err := store.GetTenantByCode(ctx, "no-such-code")
		require.NoError(t, err)
		assert.Nil(t, tenant)
	})
}

func testListTenants(t *testing.T, store Store) {
	ctx := context.Background()

	active, err := store.CreateTenant(ctx, buildTestTenant("list-active"))
	require.NoError(t, err)
	inactive, err := store.CreateTenant(ctx, buildTestTenant("list-inactive"))
	require.NoError(t, err)

	// Deactivation has no store operation of its own; flip the flag directly
	db := storeDB(t, store)
	require.NoError(t, db.Model(&schema.Tenant{}).Where("id = ?", inactive.ID).Update("is_active", false).Error)

	t.Run("no filter returns all", func(t *testing.T) {
		tenants, err := store.ListTenants(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, tenants, 2)
	})

	t.Run("active filter", func(t *testing.T) {
		tenants, err := store.ListTenants(ctx, boolPtr(true))
		require.NoError(t, err)
		require.Len(t, tenants, 1)
		assert.Equal(t, active.ID, tenants[0].ID)
	})

	t.Run("inactive filter", func(t *testing.T) {
		tenants, err := store.ListTenants(ctx, boolPtr(false))
		require.NoError(t, err)
		require.Len(t, tenants, 1)
		assert.Equal(t, inactive.ID, tenants[0].ID)
	})
}

func testUpdateTenantConfig(t *testing.T, store Store) {
	ctx := context.Background()

	tenant, err := store.CreateTenant(ctx, buildTestTenant("config"))
	require.NoError(t, err)

	t.Run("partial update leaves other fields untouched", func(t *testing.T) {
		updated, err := store.UpdateTenantConfig(ctx, tenant.ID, TenantConfigInput{
			DefaultEps:    float64Ptr(0.5),
			SnapshotLimit: intPtr(25),
		})
		require.NoError(t, err)
		assert.Equal(t, 0.5, updated.DefaultEps)
		assert.Equal(t, 25, updated.SnapshotLimit)
		assert.Equal(t, domain.DefaultHours, updated.DefaultHours)
		assert.Equal(t, domain.DefaultClusteringCron, updated.ClusteringCron)

		reread, err := store.GetTenantConfig(ctx, tenant.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.5, reread.DefaultEps)
		assert.Equal(t, 25, reread.SnapshotLimit)
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		updated, err := store.UpdateTenantConfig(ctx, tenant.ID, TenantConfigInput{})
		require.NoError(t, err)
		assert.Equal(t, 0.5, updated.DefaultEps)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		_, err := store.UpdateTenantConfig(ctx, 999999, TenantConfigInput{DefaultHours: intPtr(1)})
		require.ErrorIs(t, err, domain.ErrConfigNotFound)

		_, err = store.GetTenantConfig(ctx, 999999)
		require.ErrorIs(t, err, domain.ErrConfigNotFound)
	})
}

// =============================================================================
// Test: Articles
// =============================================================================

func testCreateArticle(t *testing.T, store Store) {
	ctx := context.Background()

	tenant, err := store.CreateTenant(ctx, buildTestTenant("ingest"))
	require.NoError(t, err)

	t.Run("stamps owner and defaults weight to 1", func(t *testing.T) {
		article, err := store.CreateArticle(ctx, buildTestArticle("owned article"), &tenant.ID)
		require.NoError(t, err)
		require.NotNil(t, article)
		assert.NotZero(t, article.ID)
		require.NotNil(t, article.TenantID)
		assert.Equal(t, tenant.ID, *article.TenantID)
		assert.True(t, article.Weight.Equal(decimal.NewFromInt(1)))
		assert.False(t, article.IsShared)
		assert.False(t, article.IsDeleted)

		reread, err := store.GetArticleByID(ctx, article.ID)
		require.NoError(t, err)
		require.NotNil(t, reread)
		assert.Equal(t, "owned article", reread.Title)
		require.NotNil(t, reread.Summary)
		assert.Equal(t, "summary of owned article", *reread.Summary)
	})

	t.Run("nil owner creates a legacy global row", func(t *testing.T) {
		article, err := store.CreateArticle(ctx, buildTestArticle("orphan"), nil)
		require.NoError(t, err)
		assert.Nil(t, article.TenantID)
	})

	t.Run("explicit weight and shared flag", func(t *testing.T) {
		input := buildTestArticle("weighted")
		input.Weight = decPtr(decimal.NewFromFloat(2.75))
		input.IsShared = boolPtr(true)

		article, err := store.CreateArticle(ctx, input, &tenant.ID)
		require.NoError(t, err)
		assert.True(t, article.Weight.Equal(decimal.NewFromFloat(2.75)))
		assert.True(t, article.IsShared)
	})

	t.Run("unknown id returns nil", func(t *testing.T) {
		article, err := store.GetArticleByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, article)
	})
}

func testCreateArticlesBatch(t *testing.T, store Store) {
	ctx := context.Background()

	tenant, err := store.CreateTenant(ctx, buildTestTenant("batch"))
	require.NoError(t, err)

	t.Run("creates all articles with ids assigned", func(t *testing.T) {
		inputs := []CreateArticleInput{
			buildTestArticle("batch one"),
			buildTestArticle("batch two"),
			buildTestArticle("batch three"),
		}

		articles, err := store.CreateArticles(ctx, inputs, &tenant.ID)
		require.NoError(t, err)
		require.Len(t, articles, 3)
		for i, article := range articles {
			assert.NotZero(t, article.ID)
			assert.Equal(t, inputs[i].Title, article.Title)
			require.NotNil(t, article.TenantID)
			assert.Equal(t, tenant.ID, *article.TenantID)
		}
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		articles, err := store.CreateArticles(ctx, nil, &tenant.ID)
		require.NoError(t, err)
		assert.Empty(t, articles)
	})

	t.Run("one bad row rolls back the whole batch", func(t *testing.T) {
		// The title column caps at 1000 characters, so the second row fails
		inputs := []CreateArticleInput{
			buildTestArticle("batch good"),
			buildTestArticle(strings.Repeat("x", 1001)),
		}

		_, err := store.CreateArticles(ctx, inputs, &tenant.ID)
		require.Error(t, err)

		_, total, err := store.QueryArticles(ctx, ArticleFilter{Keyword: strPtr("batch good")}, nil, 10, 0)
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

func testQueryArticlesVisibility(t *testing.T, store Store) {
	ctx := context.Background()

	tenantA, err := store.CreateTenant(ctx, buildTestTenant("vis-a"))
	require.NoError(t, err)
	tenantB, err := store.CreateTenant(ctx, buildTestTenant("vis-b"))
	require.NoError(t, err)

	_, err = store.CreateArticle(ctx, buildTestArticle("owned by a"), &tenantA.ID)
	require.NoError(t, err)

	linkedToA, err := store.CreateArticle(ctx, buildTestArticle("owned by b, linked to a"), &tenantB.ID)
	require.NoError(t, err)
	require.NoError(t, store.ShareArticle(ctx, linkedToA.ID, []int64{tenantA.ID}))

	globalInput := buildTestArticle("owned by b, shared globally")
	globalInput.IsShared = boolPtr(true)
	globalShared, err := store.CreateArticle(ctx, globalInput, &tenantB.ID)
	require.NoError(t, err)

	_, err = store.CreateArticle(ctx, buildTestArticle("orphan"), nil)
	require.NoError(t, err)

	// A shared flag without an owner grants nothing under tenant scoping
	sharedOrphanInput := buildTestArticle("shared orphan")
	sharedOrphanInput.IsShared = boolPtr(true)
	_, err = store.CreateArticle(ctx, sharedOrphanInput, nil)
	require.NoError(t, err)

	titlesOf := func(articles []*schema.Article) []string {
		titles := make([]string, 0, len(articles))
		for _, a := range articles {
			titles = append(titles, a.Title)
		}
		return titles
	}

	t.Run("tenant sees owned, linked, and globally shared rows", func(t *testing.T) {
		articles, total, err := store.QueryArticles(ctx, ArticleFilter{}, &tenantA.ID, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.ElementsMatch(t, []string{
			"owned by a",
			"owned by b, linked to a",
			"owned by b, shared globally",
		}, titlesOf(articles))
	})

	t.Run("owner visibility is not widened by outgoing grants", func(t *testing.T) {
		articles, total, err := store.QueryArticles(ctx, ArticleFilter{}, &tenantB.ID, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.ElementsMatch(t, []string{
			"owned by b, linked to a",
			"owned by b, shared globally",
		}, titlesOf(articles))
	})

	t.Run("no tenant scans everything", func(t *testing.T) {
		_, total, err := store.QueryArticles(ctx, ArticleFilter{}, nil, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
	})

	t.Run("soft-deleted rows disappear from every scope", func(t *testing.T) {
		require.NoError(t, store.SoftDeleteArticle(ctx, globalShared.ID))

		_, total, err := store.QueryArticles(ctx, ArticleFilter{}, &tenantA.ID, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)

		_, total, err = store.QueryArticles(ctx, ArticleFilter{}, nil, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
	})

	t.Run("deleted article stays readable by id", func(t *testing.T) {
		article, err := store.GetArticleByID(ctx, globalShared.ID)
		require.NoError(t, err)
		require.NotNil(t, article)
		assert.True(t, article.IsDeleted)
	})
}

func testQueryArticlesFilters(t *testing.T, store Store) {
	ctx := context.Background()

	heavy := buildTestArticle("Breaking: heavy story")
	heavy.Weight = decPtr(decimal.NewFromInt(5))
	heavy.Source = strPtr("wire")
	_, err := store.CreateArticle(ctx, heavy, nil)
	require.NoError(t, err)

	light := buildTestArticle("light feature story")
	light.Weight = decPtr(decimal.NewFromFloat(0.5))
	light.Source = strPtr("blog")
	_, err = store.CreateArticle(ctx, light, nil)
	require.NoError(t, err)

	medium := buildTestArticle("medium update")
	medium.Weight = decPtr(decimal.NewFromInt(2))
	medium.Source = strPtr("wire")
	_, err = store.CreateArticle(ctx, medium, nil)
	require.NoError(t, err)

	t.Run("by source", func(t *testing.T) {
		_, total, err := store.QueryArticles(ctx, ArticleFilter{Source: strPtr("wire")}, nil, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("by weight range", func(t *testing.T) {
		filter := ArticleFilter{
			MinWeight: decPtr(decimal.NewFromInt(1)),
			MaxWeight: decPtr(decimal.NewFromInt(3)),
		}
		articles, total, err := store.QueryArticles(ctx, filter, nil, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, articles, 1)
		assert.Equal(t, "medium update", articles[0].Title)
	})

	t.Run("keyword match is case-insensitive", func(t *testing.T) {
		articles, total, err := store.QueryArticles(ctx, ArticleFilter{Keyword: strPtr("STORY")}, nil, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, articles, 2)
	})

	t.Run("pagination keeps the total and a stable order", func(t *testing.T) {
		first, total, err := store.QueryArticles(ctx, ArticleFilter{}, nil, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, first, 2)

		second, total, err := store.QueryArticles(ctx, ArticleFilter{}, nil, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, second, 1)
		assert.Greater(t, second[0].ID, first[1].ID)
	})
}

func testUpdateArticleWeight(t *testing.T, store Store) {
	ctx := context.Background()

	article, err := store.CreateArticle(ctx, buildTestArticle("reweigh me"), nil)
	require.NoError(t, err)

	t.Run("updates the weight", func(t *testing.T) {
		err := store.UpdateArticleWeight(ctx, article.ID, decimal.NewFromFloat(3.25))
		require.NoError(t, err)

		reread, err := store.GetArticleByID(ctx, article.ID)
		require.NoError(t, err)
		assert.True(t, reread.Weight.Equal(decimal.NewFromFloat(3.25)))
	})

	t.Run("unknown id", func(t *testing.T) {
		err := store.UpdateArticleWeight(ctx, 999999, decimal.NewFromInt(1))
		require.ErrorIs(t, err, domain.ErrArticleNotFound)
	})
}

func testSoftDeleteArticle(t *testing.T, store Store) {
	ctx := context.Background()

	tenant, err := store.CreateTenant(ctx, buildTestTenant("delete"))
	require.NoError(t, err)

	article, err := store.CreateArticle(ctx, buildTestArticle("delete me"), &tenant.ID)
	require.NoError(t, err)
	require.NoError(t, store.ShareArticle(ctx, article.ID, []int64{tenant.ID + 1}))

	t.Run("flags the row and keeps sharing links", func(t *testing.T) {
		require.NoError(t, store.SoftDeleteArticle(ctx, article.ID))

		reread, err := store.GetArticleByID(ctx, article.ID)
		require.NoError(t, err)
		require.NotNil(t, reread)
		assert.True(t, reread.IsDeleted)

		var links int64
		db := storeDB(t, store)
		require.NoError(t, db.Model(&schema.ArticleTenantLink{}).Where("article_id = ?", article.ID).Count(&links).Error)
		assert.Equal(t, int64(1), links)
	})

	t.Run("idempotent on an already deleted row", func(t *testing.T) {
		require.NoError(t, store.SoftDeleteArticle(ctx, article.ID))
	})

	t.Run("unknown id", func(t *testing.T) {
		err := store.SoftDeleteArticle(ctx, 999999)
		require.ErrorIs(t, err, domain.ErrArticleNotFound)
	})
}

func testShareArticle(t *testing.T, store Store) {
	ctx := context.Background()

	tenantA, err := store.CreateTenant(ctx, buildTestTenant("share-a"))
	require.NoError(t, err)
	tenantB, err := store.CreateTenant(ctx, buildTestTenant("share-b"))
	require.NoError(t, err)

	article, err := store.CreateArticle(ctx, buildTestArticle("share me"), &tenantA.ID)
	require.NoError(t, err)

	countLinks := func() int64 {
		var links int64
		db := storeDB(t, store)
		require.NoError(t, db.Model(&schema.ArticleTenantLink{}).Where("article_id = ?", article.ID).Count(&links).Error)
		return links
	}

	t.Run("grants visibility to the target tenant", func(t *testing.T) {
		require.NoError(t, store.ShareArticle(ctx, article.ID, []int64{tenantB.ID}))
		assert.Equal(t, int64(1), countLinks())

		_, total, err := store.QueryArticles(ctx, ArticleFilter{}, &tenantB.ID, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("repeated shares converge", func(t *testing.T) {
		require.NoError(t, store.ShareArticle(ctx, article.ID, []int64{tenantB.ID, tenantB.ID}))
		assert.Equal(t, int64(1), countLinks())
	})

	t.Run("dangling target ids are accepted", func(t *testing.T) {
		require.NoError(t, store.ShareArticle(ctx, article.ID, []int64{999999}))
		assert.Equal(t, int64(2), countLinks())
	})

	t.Run("empty target list is a no-op", func(t *testing.T) {
		require.NoError(t, store.ShareArticle(ctx, 999999, nil))
	})

	t.Run("unknown article", func(t *testing.T) {
		err := store.ShareArticle(ctx, 999999, []int64{tenantA.ID})
		require.ErrorIs(t, err, domain.ErrArticleNotFound)
	})
}

func testCountPendingEmbeddings(t *testing.T, store Store) {
	ctx := context.Background()
	db := storeDB(t, store)

	first, err := store.CreateArticle(ctx, buildTestArticle("pending one"), nil)
	require.NoError(t, err)
	second, err := store.CreateArticle(ctx, buildTestArticle("pending two"), nil)
	require.NoError(t, err)

	t.Run("new articles count as backlog", func(t *testing.T) {
		count, err := store.CountPendingEmbeddings(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("vectorized articles drop out", func(t *testing.T) {
		err := db.Exec("UPDATE articles SET embedding = ?::vector WHERE id = ?", makeVector(1024), first.ID).Error
		require.NoError(t, err)

		count, err := store.CountPendingEmbeddings(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("articles beyond the window drop out", func(t *testing.T) {
		err := db.Exec("UPDATE articles SET created_at = now() - INTERVAL '61 days' WHERE id = ?", second.ID).Error
		require.NoError(t, err)

		count, err := store.CountPendingEmbeddings(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

// =============================================================================
// Test: Snapshots
// =============================================================================

func testLatestSnapshot(t *testing.T, store Store) {
	ctx := context.Background()
	db := storeDB(t, store)

	tenantA, err := store.CreateTenant(ctx, buildTestTenant("snap-a"))
	require.NoError(t, err)
	tenantB, err := store.CreateTenant(ctx, buildTestTenant("snap-b"))
	require.NoError(t, err)

	gen1 := time.Now().UTC().Truncate(time.Second).Add(-10 * time.Minute)
	gen2 := gen1.Add(5 * time.Minute)

	seedSnapshotRow(t, db, tenantA.ID, gen1, 1, 100, nil)
	seedSnapshotRow(t, db, tenantA.ID, gen1, 2, 101, nil)
	seedSnapshotRow(t, db, tenantA.ID, gen1, 3, 102, nil)
	seedSnapshotRow(t, db, tenantA.ID, gen2, 1, 200, nil)
	seedSnapshotRow(t, db, tenantA.ID, gen2, 2, 201, nil)
	seedSnapshotRow(t, db, tenantB.ID, gen1, 1, 300, nil)

	t.Run("returns only the newest generation ordered by rank", func(t *testing.T) {
		rows, err := store.LatestSnapshot(ctx, &tenantA.ID, 0)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, 1, rows[0].RankNo)
		assert.Equal(t, int64(200), rows[0].ClusterID)
		assert.Equal(t, 2, rows[1].RankNo)
		assert.True(t, rows[0].SnapshotTime.Equal(gen2))
	})

	t.Run("older generation stays reachable for the other tenant", func(t *testing.T) {
		rows, err := store.LatestSnapshot(ctx, &tenantB.ID, 0)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(300), rows[0].ClusterID)
	})

	t.Run("limit caps the ranked rows", func(t *testing.T) {
		rows, err := store.LatestSnapshot(ctx, &tenantA.ID, 1)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, 1, rows[0].RankNo)
	})

	t.Run("no tenant reads the globally newest generation", func(t *testing.T) {
		rows, err := store.LatestSnapshot(ctx, nil, 0)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.True(t, rows[0].SnapshotTime.Equal(gen2))
	})

	t.Run("unknown tenant yields an empty generation", func(t *testing.T) {
		unknown := int64(999999)
		rows, err := store.LatestSnapshot(ctx, &unknown, 0)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func testSnapshotArticles(t *testing.T, store Store) {
	ctx := context.Background()
	db := storeDB(t, store)

	tenant, err := store.CreateTenant(ctx, buildTestTenant("slot"))
	require.NoError(t, err)

	heavy := buildTestArticle("heavy member")
	heavy.Weight = decPtr(decimal.NewFromInt(3))
	heavyArticle, err := store.CreateArticle(ctx, heavy, &tenant.ID)
	require.NoError(t, err)

	lightArticle, err := store.CreateArticle(ctx, buildTestArticle("light member"), &tenant.ID)
	require.NoError(t, err)

	deletedArticle, err := store.CreateArticle(ctx, buildTestArticle("deleted member"), &tenant.ID)
	require.NoError(t, err)
	require.NoError(t, store.SoftDeleteArticle(ctx, deletedArticle.ID))

	at := time.Now().UTC().Truncate(time.Second)
	seedSnapshotRow(t, db, tenant.ID, at, 1, 500, []int64{heavyArticle.ID, lightArticle.ID, deletedArticle.ID})
	seedSnapshotRow(t, db, tenant.ID, at, 2, 501, nil)

	t.Run("returns live members ordered by weight", func(t *testing.T) {
		articles, err := store.SnapshotArticles(ctx, tenant.ID, 1, 10)
		require.NoError(t, err)
		require.Len(t, articles, 2)
		assert.Equal(t, "heavy member", articles[0].Title)
		assert.Equal(t, "light member", articles[1].Title)
	})

	t.Run("limit caps the member list", func(t *testing.T) {
		articles, err := store.SnapshotArticles(ctx, tenant.ID, 1, 1)
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "heavy member", articles[0].Title)
	})

	t.Run("empty slot yields no members", func(t *testing.T) {
		articles, err := store.SnapshotArticles(ctx, tenant.ID, 2, 10)
		require.NoError(t, err)
		assert.Empty(t, articles)
	})

	t.Run("unknown rank yields no members", func(t *testing.T) {
		articles, err := store.SnapshotArticles(ctx, tenant.ID, 99, 10)
		require.NoError(t, err)
		assert.Empty(t, articles)
	})
}

// =============================================================================
// Test Runner
// =============================================================================

// RunStoreTests runs the full store suite against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"CreateTenant", testCreateTenant},
		{"GetTenant", testGetTenant},
		{"ListTenants", testListTenants},
		{"UpdateTenantConfig", testUpdateTenantConfig},
		{"CreateArticle", testCreateArticle},
		{"CreateArticlesBatch", testCreateArticlesBatch},
		{"QueryArticlesVisibility", testQueryArticlesVisibility},
		{"QueryArticlesFilters", testQueryArticlesFilters},
		{"UpdateArticleWeight", testUpdateArticleWeight},
		{"SoftDeleteArticle", testSoftDeleteArticle},
		{"ShareArticle", testShareArticle},
		{"CountPendingEmbeddings", testCountPendingEmbeddings},
		{"LatestSnapshot", testLatestSnapshot},
		{"SnapshotArticles", testSnapshotArticles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
