package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tekbug/log-manager/internal/platform/logctx"
)

func userContextRouter(cfg UserContextConfig, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(UserContext(cfg))
	router.GET("/test", handler)
	return router
}

func defaultUserContextConfig() UserContextConfig {
	return UserContextConfig{Header: "X-User-ID", Key: "userID"}
}

func TestUserContext_SeedsHeaderValue(t *testing.T) {
	var seen map[string]string

	router := userContextRouter(defaultUserContextConfig(), func(c *gin.Context) {
		store := logctx.FromContext(c.Request.Context())
		require.NotNil(t, store)
		seen = store.Snapshot()
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-User-ID", "user-456")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"userID": "user-456"}, seen)
}

func TestUserContext_MissingHeader(t *testing.T) {
	var seen map[string]string

	router := userContextRouter(defaultUserContextConfig(), func(c *gin.Context) {
		seen = logctx.FromContext(c.Request.Context()).Snapshot()
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	// A store is installed, but nothing is seeded.
	assert.Empty(t, seen)
}

func TestUserContext_BlankHeaderTreatedAsAbsent(t *testing.T) {
	var seen map[string]string

	router := userContextRouter(defaultUserContextConfig(), func(c *gin.Context) {
		seen = logctx.FromContext(c.Request.Context()).Snapshot()
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-User-ID", "   ")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Empty(t, seen)
}

func TestUserContext_CustomHeaderAndKey(t *testing.T) {
	var seen map[string]string

	cfg := UserContextConfig{Header: "X-Tenant-ID", Key: "tenantID"}
	router := userContextRouter(cfg, func(c *gin.Context) {
		seen = logctx.FromContext(c.Request.Context()).Snapshot()
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Tenant-ID", "tenant-9")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, map[string]string{"tenantID": "tenant-9"}, seen)
}

func TestUserContext_ClearsStoreAfterRequest(t *testing.T) {
	var store logctx.Store

	router := userContextRouter(defaultUserContextConfig(), func(c *gin.Context) {
		store = logctx.FromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-User-ID", "user-456")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.NotNil(t, store)
	assert.Empty(t, store.Snapshot())
}

func TestUserContext_ClearsStoreOnPanic(t *testing.T) {
	var store logctx.Store

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(UserContext(defaultUserContextConfig()))
	router.GET("/test", func(c *gin.Context) {
		store = logctx.FromContext(c.Request.Context())
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-User-ID", "user-456")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, store)
	assert.Empty(t, store.Snapshot())
}

func TestUserContext_IsolatesRequests(t *testing.T) {
	var stores []logctx.Store

	router := userContextRouter(defaultUserContextConfig(), func(c *gin.Context) {
		stores = append(stores, logctx.FromContext(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	}

	require.Len(t, stores, 2)
	assert.NotSame(t, stores[0], stores[1])
}
