package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "jwt-test-secret")

	router := gin.New()
	router.GET("/admin/ping", AdminAuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func get(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdminAuthRejectsMissingHeader(t *testing.T) {
	router := newAdminRouter(t)
	assert.Equal(t, http.StatusUnauthorized, get(router, "").Code)
}

func TestAdminAuthRejectsBadSignature(t *testing.T) {
	router := newAdminRouter(t)
	token := signToken(t, "wrong-secret", jwt.MapClaims{"admin": true})
	assert.Equal(t, http.StatusUnauthorized, get(router, token).Code)
}

func TestAdminAuthRejectsNonAdminClaims(t *testing.T) {
	router := newAdminRouter(t)
	token := signToken(t, "jwt-test-secret", jwt.MapClaims{"admin": false})
	assert.Equal(t, http.StatusForbidden, get(router, token).Code)
}

func TestAdminAuthAcceptsAdminToken(t *testing.T) {
	router := newAdminRouter(t)
	token := signToken(t, "jwt-test-secret", jwt.MapClaims{"admin": true})
	assert.Equal(t, http.StatusOK, get(router, token).Code)
}

func TestAdminAuthRejectsUnsignedAlgorithm(t *testing.T) {
	router := newAdminRouter(t)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"admin": true})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(router, signed).Code)
}

func TestAdminAuthAcceptsOtherHMACAlgorithms(t *testing.T) {
	router := newAdminRouter(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"admin": true})
	signed, err := token.SignedString([]byte("jwt-test-secret"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, get(router, signed).Code)
}

func TestRateLimitPassThroughWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/limited", RateLimitMiddleware(nil, 1, 0), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
