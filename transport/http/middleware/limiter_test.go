package middleware_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"smashroom/config"
	otelMocks "smashroom/infras/otel/mocks"
	"smashroom/shared/cache"
	cacheMocks "smashroom/shared/cache/mocks"
	"smashroom/shared/constant"
	"smashroom/transport/http/middleware"
)

func limitedRouter(t *testing.T) (*cacheMocks.MockRedisCache, chi.Router) {
	t.Helper()

	ctrl := gomock.NewController(t)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, redisCache)

	router := chi.NewRouter()
	router.Use(app.RateLimit())
	router.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	return redisCache, router
}

func TestRateLimit(t *testing.T) {
	t.Run("first request", func(t *testing.T) {
		redisCache, router := limitedRouter(t)

		redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		redisCache.EXPECT().Save(gomock.Any(), gomock.Any(), 1, 60).Return(nil)

		rec := serve(router, http.MethodGet, "/ping", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "1", rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
	})

	t.Run("over the limit", func(t *testing.T) {
		redisCache, router := limitedRouter(t)

		redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, _ string, value any) error {
				*(value.(*int)) = 2

				return nil
			})

		rec := serve(router, http.MethodGet, "/ping", nil)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("cache down lets the request through", func(t *testing.T) {
		redisCache, router := limitedRouter(t)

		redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

		rec := serve(router, http.MethodGet, "/ping", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
