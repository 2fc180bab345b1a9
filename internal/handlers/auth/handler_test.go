package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"smashroom/config"
	"smashroom/infras/otel/mocks"
	"smashroom/internal/domains/auth/model/dto"
	authMocks "smashroom/internal/domains/auth/service/mocks"
	"smashroom/internal/handlers/auth"
	"smashroom/shared/constant"
	"smashroom/shared/failure"
)

func setup(t *testing.T) (*authMocks.MockAuth, chi.Router) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := authMocks.NewMockAuth(ctrl)

	cfg := &config.Config{}
	cfg.JWT.CookieName = "access_token"

	handler := auth.New(svc, cfg, mocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/api", handler.Router)

	return svc, router
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "access_token" {
			return cookie
		}
	}

	return nil
}

func TestLogin(t *testing.T) {
	t.Run("sets the session cookie", func(t *testing.T) {
		svc, router := setup(t)

		svc.EXPECT().Login(gomock.Any(), dto.LoginRequest{Email: "admin@smashroom.pl", Password: "secret-pass"}).
			Return(dto.LoginResponse{AccessToken: "token-1", ExpiresIn: 3600}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"admin@smashroom.pl","password":"secret-pass"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		cookie := sessionCookie(rec)
		require.NotNil(t, cookie)
		assert.Equal(t, "token-1", cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, 3600, cookie.MaxAge)
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc, router := setup(t)

		svc.EXPECT().Login(gomock.Any(), gomock.Any()).Return(dto.LoginResponse{}, failure.Unauthorized("invalid email or password"))

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"admin@smashroom.pl","password":"wrong-pass"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, sessionCookie(rec))
	})
}

func TestLogout(t *testing.T) {
	svc, router := setup(t)

	svc.EXPECT().Logout(gomock.Any(), dto.LogoutRequest{AccessToken: "token-1"}).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "token-1"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestChangePassword(t *testing.T) {
	body := `{"currentPassword":"old-password","newPassword":"new-password"}`

	t.Run("anonymous", func(t *testing.T) {
		_, router := setup(t)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/change-password", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("signed in", func(t *testing.T) {
		svc, router := setup(t)

		svc.EXPECT().ChangePassword(gomock.Any(), gomock.Any(), int64(12)).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/change-password", strings.NewReader(body))
		req = req.WithContext(context.WithValue(req.Context(), constant.ContextKeyUserID, "12"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
