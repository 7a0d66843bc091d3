package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatgrid/theatre-booking/internal/config"
)

func TestCacheKeyIsPerConcretePath(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}

	// Two screens must never share a cached layout; the same screen
	// must hit the same key so a replace can evict the read.
	one := cacheKey(cfg, "/v1/screens/1/layout", "")
	two := cacheKey(cfg, "/v1/screens/2/layout", "")
	assert.NotEqual(t, one, two)
	assert.Equal(t, one, cacheKey(cfg, "/v1/screens/1/layout", ""))

	withQuery := cacheKey(cfg, "/v1/screens/1/layout", "pretty=1")
	assert.NotEqual(t, one, withQuery)
}

func TestCacheMiddlewarePassthroughWhenDisabled(t *testing.T) {
	cfg := config.CacheConfig{Enabled: false}
	e := echo.New()

	for name, mw := range map[string]echo.MiddlewareFunc{
		"cache": NewRedisCache(cfg, nil),
		"bust":  NewCacheBust(cfg, nil),
	} {
		called := false
		h := mw(func(c echo.Context) error {
			called = true
			return c.NoContent(http.StatusOK)
		})
		req := httptest.NewRequest(http.MethodGet, "/v1/screens/1/layout", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, h(e.NewContext(req, rec)))
		assert.True(t, called, "%s middleware must pass through", name)
	}
}
