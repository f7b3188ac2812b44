package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/garment-crm/config"
	"github.com/kendall-kelly/garment-crm/middleware"
	"github.com/kendall-kelly/garment-crm/models"
	"github.com/kendall-kelly/garment-crm/services"
	"github.com/kendall-kelly/garment-crm/session"
	"github.com/stretchr/testify/require"
)

var errOffline = errors.New("data service offline")

type testEnv struct {
	orders  *services.GormOrderService
	storage *services.MockStorage
	summary *services.MockSummaryService
}

func fixedNow() time.Time {
	return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := config.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	config.SetDB(db)
	config.SetConfig(&config.Config{GoEnv: "test", FetchAttempts: 1, FetchTimeout: time.Second})

	env := &testEnv{
		orders:  services.NewGormOrderService(db),
		storage: services.NewMockStorage(),
		summary: services.NewMockSummaryService("Production is on track."),
	}
	services.SetOrderService(env.orders)
	services.SetClientService(services.NewGormClientService(db))
	services.SetFactoryService(services.NewGormFactoryService(db))
	services.SetDocumentService(services.NewDocumentService(env.storage, "order-docs", time.Hour))
	env.summary.SetAsMockForTesting()

	SetCache(session.NewMemoryCache())
	SetClock(fixedNow)
	return env
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// mockAuthMiddleware sets up the context exactly as the real EnsureValidToken middleware does
func mockAuthMiddleware(userID string, scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("validated_claims", &validator.ValidatedClaims{
			RegisteredClaims: validator.RegisteredClaims{Subject: userID},
			CustomClaims:     &middleware.CustomClaims{Scope: strings.Join(scopes, " ")},
		})
		c.Next()
	}
}

func newTestRouter(scopes ...string) *gin.Engine {
	router := setupTestRouter()
	RegisterRoutes(router.Group("/api/v1", mockAuthMiddleware("auth0|staff", scopes...)))
	return router
}

func staffRouter() *gin.Engine {
	return newTestRouter(middleware.ScopeReadOrders, middleware.ScopeWriteOrders)
}

func seedOrder(t *testing.T, env *testEnv, id, clientID string) models.Order {
	t.Helper()
	qty := 1200
	o := models.Order{
		ID:        id,
		ClientID:  clientID,
		Customer:  "Acme Apparel",
		Product:   "Polo Shirts",
		Status:    models.OrderPending,
		FactoryID: "fac-1",
		Products: []models.Product{
			{ID: "p1", Name: "Polo Shirts", Quantity: &qty, Category: "Knits"},
		},
		Tasks: []models.Task{
			{ID: 1, Name: "Order Confirmation", Status: models.TaskComplete, Progress: 100, Priority: models.PriorityMedium, ProductID: "p1",
				PlannedStartDate: "2024-06-01", PlannedEndDate: "2024-06-03", ActualStartDate: "2024-06-01", ActualEndDate: "2024-06-03"},
			{ID: 2, Name: "Fabric Sourcing", Status: models.TaskInProgress, Progress: 40, Priority: models.PriorityHigh, ProductID: "p1",
				PlannedStartDate: "2024-06-03", PlannedEndDate: "2024-06-10", ActualStartDate: "2024-06-04"},
			{ID: 3, Name: "Cutting", Status: models.TaskToDo, Priority: models.PriorityMedium, ProductID: "p1",
				PlannedStartDate: "2024-06-10", PlannedEndDate: "2024-06-20"},
		},
		Documents: []models.Document{},
	}
	require.NoError(t, env.orders.Create(context.Background(), o))
	return o
}

func performRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewBuffer(b)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func performUpload(router *gin.Engine, path, filename string, content []byte, source string) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, _ := writer.CreateFormFile("file", filename)
		_, _ = part.Write(content)
	}
	_ = writer.WriteField("source", source)
	_ = writer.Close()

	req, _ := http.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	response := decode(t, w)
	errorData, ok := response["error"].(map[string]interface{})
	require.True(t, ok, w.Body.String())
	return errorData["code"].(string)
}

func storedOrder(t *testing.T, env *testEnv, id string) models.RawOrder {
	t.Helper()
	raw, err := env.orders.Get(context.Background(), id)
	require.NoError(t, err)
	return raw
}

// offlineOrders fails every read and write
type offlineOrders struct {
	services.OrderService
}

func (offlineOrders) GetOrdersByClient(ctx context.Context, clientID string) ([]models.RawOrder, error) {
	return nil, errOffline
}

func (offlineOrders) GetAll(ctx context.Context) ([]models.RawOrder, error) {
	return nil, errOffline
}

// failingWrites reads through and fails every write
type failingWrites struct {
	services.OrderService
}

func (failingWrites) Update(ctx context.Context, id string, p models.OrderPatch) error {
	return errOffline
}
