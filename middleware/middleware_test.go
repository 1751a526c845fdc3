package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"complaint-tracker-backend/app/model"
	"complaint-tracker-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memBlocklist struct {
	revoked map[string]bool
}

func (b *memBlocklist) Revoke(_ context.Context, jti string, _ time.Duration) error {
	b.revoked[jti] = true
	return nil
}

func (b *memBlocklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	return b.revoked[jti], nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func newAuthRouter(tm *utils.TokenManager, bl *memBlocklist) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler(false))
	r.GET("/me", AuthMiddleware(tm, bl), func(c *gin.Context) {
		id, role, ok := Identity(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		jti, exp := TokenInfo(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role, "jti": jti, "exp": exp.Unix()})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tm := utils.NewTokenManager("a", "r", time.Minute, time.Hour)
	bl := &memBlocklist{revoked: map[string]bool{}}
	r := newAuthRouter(tm, bl)
	userID := uuid.New()

	token, err := tm.GenerateAccessToken(userID, string(model.RoleWorker))
	require.NoError(t, err)
	refresh, err := tm.GenerateRefreshToken(userID)
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Unauthorized Access", body["message"])
		assert.Equal(t, []interface{}{}, body["errors"])
	})

	t.Run("bearer header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, userID.String(), body["id"])
		assert.Equal(t, "WORKER", body["role"])
	})

	t.Run("cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+refresh)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		claims, err := tm.ValidateAccessToken(token)
		require.NoError(t, err)
		bl.revoked[claims.ID] = true
		defer delete(bl.revoked, claims.ID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(true))
	r.GET("/conflict", func(c *gin.Context) {
		_ = c.Error(utils.NewConflictError("Complaint already assigned to another worker"))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(errors.New("db exploded"))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	r.NoRoute(NotFound())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/conflict", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(409), body["statusCode"])
	assert.Nil(t, body["data"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "Internal Server Error", body["message"])
	assert.Contains(t, body["stack"], "db exploded")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", decodeBody(t, w)["message"])
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Now()
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("1.1.1.1"))
	assert.False(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("2.2.2.2"), "bucket per IP")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("1.1.1.1"))

	now = now.Add(2 * time.Hour)
	rl.Cleanup(time.Hour)
	assert.Empty(t, rl.limiters)
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	r := gin.New()
	r.Use(ErrorHandler(false))
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(false), BodyLimit(16, 1<<20))
	r.POST("/", func(c *gin.Context) {
		var in map[string]interface{}
		if err := c.ShouldBindJSON(&in); err != nil {
			_ = c.Error(utils.NewValidationError("Invalid request body"))
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"`+strings.Repeat("x", 64)+`"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsMiddleware_DoesNotBreakChain(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/complaints/:complaintId", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/complaints/abc", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
