package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/garment-crm/config"
	"github.com/kendall-kelly/garment-crm/controllers"
	"github.com/kendall-kelly/garment-crm/middleware"
	"github.com/kendall-kelly/garment-crm/services"
	"github.com/kendall-kelly/garment-crm/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokens accepted by fakeAuth, mapped to their scopes
var testTokens = map[string][]string{
	"staff-token":  {middleware.ScopeReadOrders, middleware.ScopeWriteOrders},
	"viewer-token": {middleware.ScopeReadOrders},
}

// fakeAuth stands in for EnsureValidToken and sets the same context keys
func fakeAuth(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	scopes, ok := testTokens[token]
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Invalid or missing authentication token",
			},
		})
		c.Abort()
		return
	}
	subject := "auth0|" + strings.TrimSuffix(token, "-token")
	c.Set("user_id", subject)
	c.Set("validated_claims", &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: subject},
		CustomClaims:     &middleware.CustomClaims{Scope: strings.Join(scopes, " ")},
	})
	c.Next()
}

// setupTestApp wires the full router against an in-memory database
func setupTestApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := config.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	config.SetDB(db)

	cfg := &config.Config{
		GoEnv:              "test",
		FetchAttempts:      1,
		FetchTimeout:       time.Second,
		CORSAllowedOrigins: []string{"http://localhost:5173"},
	}
	config.SetConfig(cfg)

	services.SetOrderService(services.NewGormOrderService(db))
	services.SetClientService(services.NewGormClientService(db))
	services.SetFactoryService(services.NewGormFactoryService(db))
	services.SetDocumentService(services.NewDocumentService(services.NewMockStorage(), "order-docs", time.Hour))
	services.NewMockSummaryService("On schedule.").SetAsMockForTesting()

	controllers.SetCache(session.NewMemoryCache())
	controllers.SetClock(func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC) })

	return setupRouter(cfg, fakeAuth)
}

func call(router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestHealthEndpointIntegration tests the /api/v1/health endpoint with full routing
func TestHealthEndpointIntegration(t *testing.T) {
	router := setupTestApp(t)

	w := call(router, http.MethodGet, "/api/v1/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code, "Expected status 200 OK")

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err, "Response should be valid JSON")
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "Garment CRM API is running", response["message"])
}

// TestHealthEndpointMethod tests that only GET method is allowed
func TestHealthEndpointMethod(t *testing.T) {
	router := setupTestApp(t)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		w := call(router, method, "/api/v1/health", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s should not be allowed", method)
	}
}

// TestAPIV1Prefix tests that the endpoint requires /api/v1 prefix
func TestAPIV1Prefix(t *testing.T) {
	router := setupTestApp(t)

	w := call(router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "Endpoint should require /api/v1 prefix")

	w = call(router, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code, "Endpoint should work with /api/v1 prefix")
}

func TestOrderEndpointsRequireAuth(t *testing.T) {
	router := setupTestApp(t)

	w := call(router, http.MethodGet, "/api/v1/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(router, http.MethodGet, "/api/v1/orders", "viewer-token", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(router, http.MethodPost, "/api/v1/orders", "viewer-token", map[string]any{"clientId": "cl-1"})
	assert.Equal(t, http.StatusForbidden, w.Code, "read-only tokens cannot create orders")
}

func TestCORSPreflight(t *testing.T) {
	router := setupTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/orders", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/orders", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

// TestHealthEndpointHeaders tests that proper headers are set
func TestHealthEndpointHeaders(t *testing.T) {
	router := setupTestApp(t)

	w := call(router, http.MethodGet, "/api/v1/health", "", nil)

	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
}
