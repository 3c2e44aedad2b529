package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"crystalos/internal/adapter/http/middleware"
	"crystalos/internal/core/domain"
	"crystalos/internal/core/ports"
	"crystalos/pkg/apierrors"
	"crystalos/pkg/translator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	translator.InitTranslator(translator.Config{
		TranslationFolder:  "../../../../pkg/translator/translation",
		SupportedLanguages: []string{translator.LanguageEn, translator.LanguageFr},
	})
	os.Exit(m.Run())
}

type sessionsMock struct {
	mock.Mock
}

func (m *sessionsMock) SignUp(ctx context.Context, email, password, username string) (domain.Session, error) {
	args := m.Called(ctx, email, password, username)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *sessionsMock) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *sessionsMock) SignOut(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *sessionsMock) Resolve(ctx context.Context, token string) (domain.Session, ports.Dashboard, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Session), nil, args.Error(2)
}

func serve(router *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, apierrors.JsonErr) {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body apierrors.JsonErr
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestLanguageMiddleware(t *testing.T) {
	router := gin.New()
	router.GET("/lang", middleware.LanguageMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetLang(c))
	})

	for header, want := range map[string]string{"fr-FR,fr;q=0.9": "fr", "es": "en", "": "en"} {
		req := httptest.NewRequest(http.MethodGet, "/lang", nil)
		req.Header.Set("Accept-Language", header)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Body.String(), "header %q", header)
	}
}

func TestAPIKeyMiddleware(t *testing.T) {
	router := gin.New()
	router.GET("/ping", middleware.LanguageMiddleware(), middleware.APIKeyMiddleware("anon-key"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec, body := serve(router, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Missing or invalid API key.", body.ErrDetails.Message)

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("apikey", "anon-key")
	rec, _ = serve(router, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/ping?apikey=anon-key", nil)
	rec, _ = serve(router, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAPIKeyMiddleware_DisabledWithoutKey(t *testing.T) {
	router := gin.New()
	router.GET("/ping", middleware.APIKeyMiddleware(""), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec, _ := serve(router, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSessionMiddleware(t *testing.T) {
	session := domain.Session{Token: "good", User: domain.User{ID: "user-1"}}
	sessions := new(sessionsMock)
	sessions.On("Resolve", mock.Anything, "good").Return(session, nil, nil)
	sessions.On("Resolve", mock.Anything, "stale").Return(domain.Session{}, nil, domain.ErrSessionExpired)
	sessions.On("Resolve", mock.Anything, "unknown").Return(domain.Session{}, nil, domain.ErrSessionNotFound)
	sessions.On("Resolve", mock.Anything, "broken").Return(domain.Session{}, nil, errors.New("db is down"))

	router := gin.New()
	router.GET("/me", middleware.LanguageMiddleware(), middleware.SessionMiddleware(sessions), func(c *gin.Context) {
		got, ok := middleware.GetSession(c)
		require.True(t, ok)
		c.String(http.StatusOK, got.User.ID+"/"+middleware.GetToken(c))
	})

	cases := []struct {
		name    string
		target  string
		auth    string
		status  int
		message string
	}{
		{name: "missing token", target: "/me", status: http.StatusUnauthorized, message: "A valid session token is required."},
		{name: "expired", target: "/me", auth: "Bearer stale", status: http.StatusUnauthorized, message: "Your session has expired. Please sign in again."},
		{name: "unknown", target: "/me", auth: "Bearer unknown", status: http.StatusUnauthorized, message: "A valid session token is required."},
		{name: "gateway failure", target: "/me", auth: "Bearer broken", status: http.StatusInternalServerError, message: "Could not load the session."},
		{name: "header token", target: "/me", auth: "Bearer good", status: http.StatusOK},
		{name: "query token", target: "/me?access_token=good", status: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			rec, body := serve(router, req)

			require.Equal(t, tc.status, rec.Code)
			if tc.message != "" {
				assert.Equal(t, tc.message, body.ErrDetails.Message)
				return
			}
			assert.Equal(t, "user-1/good", rec.Body.String())
		})
	}
}
