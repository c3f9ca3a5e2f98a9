package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret")
}

func protectedRouter(roles ...string) *gin.Engine {
	r := gin.New()
	r.GET("/staff", AuthMiddleware(), RequireRoles(roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint(ContextUserID), "role": c.GetString(ContextRole)})
	})
	return r
}

func doGet(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := protectedRouter(models.RoleStaff)

	w := doGet(r, "/staff", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"UNAUTHORIZED"`)

	w = doGet(r, "/staff", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := utils.GenerateToken(5, models.RoleStaff, time.Hour)
	require.NoError(t, err)
	w = doGet(r, "/staff", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":5`)
}

func TestRequireRoles(t *testing.T) {
	r := protectedRouter(models.RoleStaff)

	cleaner, err := utils.GenerateToken(6, models.RoleCleaner, time.Hour)
	require.NoError(t, err)
	w := doGet(r, "/staff", cleaner)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"FORBIDDEN"`)

	admin, err := utils.GenerateToken(1, models.RoleAdmin, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, doGet(r, "/staff", admin).Code)
}

func TestExpiredTokenRejected(t *testing.T) {
	r := protectedRouter(models.RoleStaff)
	token, err := utils.GenerateToken(5, models.RoleStaff, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/staff", token).Code)
}

func TestRateLimiterIsPerClient(t *testing.T) {
	rl := NewRateLimiter(time.Hour, 2)
	now := time.Now()

	assert.True(t, rl.allow("10.0.0.1", now))
	assert.True(t, rl.allow("10.0.0.1", now))
	assert.False(t, rl.allow("10.0.0.1", now))
	assert.True(t, rl.allow("10.0.0.2", now), "another client has its own bucket")
}

func TestRateLimitMiddlewareResponds429(t *testing.T) {
	r := gin.New()
	r.Use(NewRateLimiter(time.Hour, 1).RateLimit())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, doGet(r, "/ping", "").Code)
	w := doGet(r, "/ping", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"RATE_LIMITED"`)
}

func TestRoleCheckOnChannel(t *testing.T) {
	r := gin.New()
	r.GET("/ws/:role", WebSocketAuthMiddleware(), RoleCheck(), func(c *gin.Context) { c.Status(http.StatusOK) })

	staff, err := utils.GenerateToken(2, models.RoleStaff, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doGet(r, "/ws/staff?token="+staff, "").Code)
	assert.Equal(t, http.StatusForbidden, doGet(r, "/ws/admin?token="+staff, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/ws/staff", "").Code)
}
