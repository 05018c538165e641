package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsforge/hotevents/internal/domain"
	"github.com/newsforge/hotevents/internal/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeResolver struct {
	byID   map[int64]*domain.TenantRef
	byCode map[string]*domain.TenantRef
}

func (f *fakeResolver) ResolveByID(_ context.Context, id int64) (*domain.TenantRef, error) {
	return f.byID[id], nil
}

func (f *fakeResolver) ResolveByCode(_ context.Context, code string) (*domain.TenantRef, error) {
	return f.byCode[code], nil
}

func runResolution(t *testing.T, resolver TenantResolver, target string, header map[string]string) *domain.TenantRef {
	t.Helper()

	var got *domain.TenantRef
	router := gin.New()
	router.Use(ResolveTenant(resolver))
	router.GET("/probe", func(c *gin.Context) {
		got = TenantFromContext(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return got
}

func TestResolveBySystemIDParam(t *testing.T) {
	resolver := &fakeResolver{
		byID: map[int64]*domain.TenantRef{7: {ID: 7, Code: "news-a"}},
	}

	ref := runResolution(t, resolver, "/probe?systemId=7", nil)
	require.NotNil(t, ref)
	assert.Equal(t, "news-a", ref.Code)
}

func TestResolveByHeaderBeatsCodeParam(t *testing.T) {
	resolver := &fakeResolver{
		byCode: map[string]*domain.TenantRef{
			"from-header": {ID: 1, Code: "from-header"},
			"from-param":  {ID: 2, Code: "from-param"},
		},
	}

	ref := runResolution(t, resolver, "/probe?systemCode=from-param",
		map[string]string{"X-System-Code": "from-header"})
	require.NotNil(t, ref)
	assert.Equal(t, "from-header", ref.Code)
}

func TestResolveBySystemCodeParam(t *testing.T) {
	resolver := &fakeResolver{
		byCode: map[string]*domain.TenantRef{"news-b": {ID: 2, Code: "news-b"}},
	}

	ref := runResolution(t, resolver, "/probe?systemCode=news-b", nil)
	require.NotNil(t, ref)
	assert.Equal(t, int64(2), ref.ID)
}

func TestUnresolvedHintFallsThroughToGlobal(t *testing.T) {
	resolver := &fakeResolver{}

	ref := runResolution(t, resolver, "/probe?systemId=99&systemCode=ghost",
		map[string]string{"X-System-Code": "ghost"})
	assert.Nil(t, ref)
}

func TestNoHintIsGlobalScope(t *testing.T) {
	ref := runResolution(t, &fakeResolver{}, "/probe", nil)
	assert.Nil(t, ref)
}

func TestMalformedSystemIDFallsThrough(t *testing.T) {
	resolver := &fakeResolver{
		byCode: map[string]*domain.TenantRef{"news-a": {ID: 1, Code: "news-a"}},
	}

	ref := runResolution(t, resolver, "/probe?systemId=abc",
		map[string]string{"X-System-Code": "news-a"})
	require.NotNil(t, ref)
	assert.Equal(t, "news-a", ref.Code)
}
