package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"pc-store/i18n"
	"pc-store/models"
	"pc-store/utils"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestLanguageSelection(t *testing.T) {
	router := gin.New()
	router.Use(Language(i18n.NewCatalog(i18n.English)))
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, Lang(c)) })

	tests := []struct {
		name   string
		query  string
		cookie string
		accept string
		want   string
	}{
		{name: "japanese browser", accept: "ja-JP,ja;q=0.9", want: "ja"},
		{name: "english browser", accept: "en-US,en;q=0.9", want: "en"},
		{name: "unsupported language", accept: "fr-FR,fr;q=0.9", want: "en"},
		{name: "no header", want: "en"},
		{name: "garbage header", accept: ";;;", want: "en"},
		{name: "query wins", query: "?lang=ja", accept: "en-US", want: "ja"},
		{name: "cookie beats header", cookie: "ja", accept: "en-US", want: "ja"},
		{name: "unsupported query ignored", query: "?lang=de", accept: "ja", want: "ja"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "lang", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Body.String())
			assert.Equal(t, tt.want, w.Header().Get("Content-Language"))
		})
	}
}

func TestLanguageDefaultFromCatalog(t *testing.T) {
	router := gin.New()
	router.Use(Language(i18n.NewCatalog(i18n.Japanese)))
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, Lang(c)) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "ja", w.Body.String())
}

type roleMap map[int]string

func (m roleMap) CurrentRole(_ context.Context, userID int) (string, error) {
	if userID == 99 {
		return "", errors.New("users: connection refused")
	}
	return m[userID], nil
}

func authRouter(tokens *utils.TokenManager) *gin.Engine {
	return authRouterWithRoles(tokens, nil)
}

func authRouterWithRoles(tokens *utils.TokenManager, roles RoleSource) *gin.Engine {
	router := gin.New()
	router.Use(Language(i18n.NewCatalog(i18n.English)), AttachUser(tokens))
	router.GET("/public", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": CurrentUser(c)})
	})
	router.GET("/me", RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": CurrentUser(c)})
	})
	router.GET("/admin", RequireAuth(), RequireAdmin(roles), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRequireAdminRechecksStoredRole(t *testing.T) {
	tokens := utils.NewTokenManager("middleware-test-secret", time.Hour)
	roles := roleMap{1: models.RoleAdmin, 2: models.RoleCustomer}
	router := authRouterWithRoles(tokens, roles)

	admin, _, err := tokens.Generate(1, "admin@example.jp", models.RoleAdmin)
	require.NoError(t, err)
	demoted, _, err := tokens.Generate(2, "former@example.jp", models.RoleAdmin)
	require.NoError(t, err)
	deleted, _, err := tokens.Generate(3, "gone@example.jp", models.RoleAdmin)
	require.NoError(t, err)
	broken, _, err := tokens.Generate(99, "x@example.jp", models.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, do(router, "/admin", "Bearer "+admin, "").Code)

	w := do(router, "/admin", "Bearer "+demoted, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, i18n.KeyForbidden, decode(t, w).Error)

	assert.Equal(t, http.StatusForbidden, do(router, "/admin", "Bearer "+deleted, "").Code)

	w = do(router, "/admin", "Bearer "+broken, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, i18n.KeyInternalError, decode(t, w).Error)
}

func do(router *gin.Engine, path, authorization, lang string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) models.Response {
	t.Helper()
	var resp models.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAuthFlow(t *testing.T) {
	tokens := utils.NewTokenManager("middleware-test-secret", time.Hour)
	router := authRouter(tokens)

	customer, _, err := tokens.Generate(5, "taro@example.jp", models.RoleCustomer)
	require.NoError(t, err)
	admin, _, err := tokens.Generate(1, "admin@example.jp", models.RoleAdmin)
	require.NoError(t, err)

	w := do(router, "/public", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, "/public", "Bearer not-a-jwt", "")
	assert.Equal(t, http.StatusOK, w.Code, "a bad token must not block public routes")

	w = do(router, "/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, i18n.KeyUnauthorized, decode(t, w).Error)

	w = do(router, "/me", "Bearer not-a-jwt", "ja")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, i18n.KeyInvalidToken, resp.Error)
	assert.Equal(t, i18n.NewCatalog(i18n.English).T(i18n.Japanese, i18n.KeyInvalidToken), resp.Message)

	w = do(router, "/me", "Token "+customer, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(router, "/me", "Bearer "+customer, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"UserID":5`)

	w = do(router, "/admin", "Bearer "+customer, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, i18n.KeyForbidden, decode(t, w).Error)

	w = do(router, "/admin", "Bearer "+admin, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	old := utils.NewTokenManager("middleware-test-secret", time.Hour).WithClock(func() time.Time { return issued })
	token, _, err := old.Generate(5, "taro@example.jp", models.RoleCustomer)
	require.NoError(t, err)

	router := authRouter(utils.NewTokenManager("middleware-test-secret", time.Hour))
	w := do(router, "/me", "Bearer "+token, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, i18n.KeyInvalidToken, decode(t, w).Error)
}

func TestSessionToken(t *testing.T) {
	router := gin.New()
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, SessionToken(c)) })

	req := httptest.NewRequest(http.MethodGet, "/?session_token=from-query", nil)
	req.Header.Set(SessionHeader, "from-header")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "from-header", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?session_token=from-query", nil))
	assert.Equal(t, "from-query", w.Body.String())
}

func TestCORSAllowsSessionHeader(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware("https://shop.example.jp"))
	router.GET("/cart", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/cart", nil)
	req.Header.Set("Origin", "https://shop.example.jp")
	req.Header.Set("Access-Control-Request-Method", "GET")
	req.Header.Set("Access-Control-Request-Headers", "X-Session-Token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://shop.example.jp", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Session-Token")
}
