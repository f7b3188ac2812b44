package controllers

import (
	"net/http"
	"testing"

	"github.com/kendall-kelly/garment-crm/middleware"
	"github.com/kendall-kelly/garment-crm/models"
	"github.com/kendall-kelly/garment-crm/normalize"
	"github.com/kendall-kelly/garment-crm/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, env *testEnv, data map[string]interface{})
	}{
		{
			name: "Successfully create order",
			requestBody: map[string]interface{}{
				"clientId":  "cl-1",
				"customer":  "Acme Apparel",
				"factoryId": "fac-1",
				"products":  []map[string]interface{}{{"name": "Polo Shirts", "quantity": 1200}},
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, env *testEnv, data map[string]interface{}) {
				assert.Equal(t, "Polo Shirts", data["product"])
				assert.Equal(t, "Pending", data["status"])

				raw := storedOrder(t, env, data["id"].(string))
				assert.Equal(t, "Polo Shirts", raw["product_name"])
				assert.Equal(t, "Pending", raw["status"])
				o := normalize.Normalize(raw)
				require.Len(t, o.Tasks, 2)
				for _, task := range o.Tasks {
					assert.Equal(t, "TO DO", string(task.Status))
				}
			},
		},
		{
			name: "Create order with custom factory",
			requestBody: map[string]interface{}{
				"clientId":      "cl-1",
				"customFactory": map[string]interface{}{"name": "Sunrise Knits", "location": "Dhaka"},
				"products":      []map[string]interface{}{{"name": "Tees"}, {"name": "Hoodies"}},
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, env *testEnv, data map[string]interface{}) {
				assert.Equal(t, "2 Items Order", data["product"])
				raw := storedOrder(t, env, data["id"].(string))
				assert.Equal(t, "Sunrise Knits", raw["custom_factory_name"])
				assert.Nil(t, raw["factory_id"])
			},
		},
		{
			name: "Fail with missing client",
			requestBody: map[string]interface{}{
				"factoryId": "fac-1",
				"products":  []map[string]interface{}{{"name": "Polo Shirts"}},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "MISSING_CLIENT",
		},
		{
			name: "Fail with no products",
			requestBody: map[string]interface{}{
				"clientId":  "cl-1",
				"factoryId": "fac-1",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "MISSING_PRODUCTS",
		},
		{
			name: "Fail with missing factory",
			requestBody: map[string]interface{}{
				"clientId": "cl-1",
				"products": []map[string]interface{}{{"name": "Polo Shirts"}},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "MISSING_FACTORY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			router := staffRouter()

			w := performRequest(router, http.MethodPost, "/api/v1/orders", tt.requestBody)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(t, w))
				all, err := env.orders.GetAll(t.Context())
				require.NoError(t, err)
				assert.Empty(t, all, "validation failures send nothing")
			}
			if tt.checkResponse != nil {
				response := decode(t, w)
				assert.True(t, response["success"].(bool))
				tt.checkResponse(t, env, response["data"].(map[string]interface{}))
			}
		})
	}
}

func TestCreateOrder_ReadOnlyToken(t *testing.T) {
	setupTestEnv(t)
	router := newTestRouter(middleware.ScopeReadOrders)

	w := performRequest(router, http.MethodPost, "/api/v1/orders", map[string]interface{}{"clientId": "cl-1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "INSUFFICIENT_SCOPE", errorCode(t, w))
}

func TestListClientOrders(t *testing.T) {
	env := setupTestEnv(t)
	seedOrder(t, env, "ord-1", "cl-1")
	seedOrder(t, env, "ord-2", "cl-1")
	seedOrder(t, env, "ord-3", "cl-2")
	router := staffRouter()

	w := performRequest(router, http.MethodGet, "/api/v1/clients/cl-1/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	response := decode(t, w)
	assert.Len(t, response["data"].([]interface{}), 2)
	assert.False(t, response["stale"].(bool))

	w = performRequest(router, http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"].([]interface{}), 3)
}

func TestListClientOrders_ServesCacheWhenOffline(t *testing.T) {
	env := setupTestEnv(t)
	seedOrder(t, env, "ord-1", "cl-1")
	router := staffRouter()

	w := performRequest(router, http.MethodGet, "/api/v1/clients/cl-1/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)

	services.SetOrderService(offlineOrders{OrderService: env.orders})
	defer services.SetOrderService(env.orders)

	w = performRequest(router, http.MethodGet, "/api/v1/clients/cl-1/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	response := decode(t, w)
	assert.True(t, response["stale"].(bool))
	assert.Len(t, response["data"].([]interface{}), 1)
	assert.NotEmpty(t, response["notifications"])

	w = performRequest(router, http.MethodGet, "/api/v1/clients/cl-9/orders", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "FETCH_FAILED", errorCode(t, w))
}

func TestGetOrder(t *testing.T) {
	env := setupTestEnv(t)
	seedOrder(t, env, "ord-1", "cl-1")
	router := staffRouter()

	w := performRequest(router, http.MethodGet, "/api/v1/orders/ord-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "ord-1", data["id"])
	assert.Len(t, data["tasks"].([]interface{}), 3)

	w = performRequest(router, http.MethodGet, "/api/v1/orders/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", errorCode(t, w))
}

func TestUpdateOrder(t *testing.T) {
	env := setupTestEnv(t)
	seedOrder(t, env, "ord-1", "cl-1")
	router := staffRouter()

	w := performRequest(router, http.MethodPatch, "/api/v1/orders/ord-1", map[string]interface{}{
		"status":        "In Production",
		"customFactory": map[string]interface{}{"name": "Sunrise Knits", "location": "Dhaka"},
		"products": []map[string]interface{}{
			{"name": "Tees", "category": "Knits"},
			{"name": "Hoodies"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	o := normalize.Normalize(storedOrder(t, env, "ord-1"))
	assert.Equal(t, "In Production", string(o.Status))
	assert.Equal(t, "2 Items Order", o.Product)
	assert.Empty(t, o.FactoryID)
	require.NotNil(t, o.CustomFactory)
	assert.Equal(t, "Sunrise Knits", o.CustomFactory.Name)
	require.Len(t, o.Products, 2)
	for _, task := range o.Tasks {
		assert.Empty(t, models.OwningProductID(task, o.Products), "tasks of removed products are unassigned")
	}
}

func TestUpdateOrder_Errors(t *testing.T) {
	env := setupTestEnv(t)
	seedOrder(t, env, "ord-1", "cl-1")
	router := staffRouter()

	w := performRequest(router, http.MethodPatch, "/api/v1/orders/ord-1", map[string]interface{}{"status": "Lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_STATUS", errorCode(t, w))

	w = performRequest(router, http.MethodPatch, "/api/v1/orders/ord-1", map[string]interface{}{
		"status":   "Shipped",
		"products": []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_PRODUCTS", errorCode(t, w))
	stored := normalize.Normalize(storedOrder(t, env, "ord-1"))
	assert.Equal(t, models.OrderPending, stored.Status)
	require.Len(t, stored.Products, 1)
	assert.Equal(t, "Polo Shirts", stored.Products[0].Name)

	services.SetOrderService(failingWrites{OrderService: env.orders})
	defer services.SetOrderService(env.orders)

	w = performRequest(router, http.MethodPatch, "/api/v1/orders/ord-1", map[string]interface{}{"status": "Shipped"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Pending", storedOrder(t, env, "ord-1")["status"])
}

func TestDeleteOrder(t *testing.T) {
	env := setupTestEnv(t)
	seedOrder(t, env, "ord-1", "cl-1")
	router := staffRouter()

	w := performRequest(router, http.MethodDelete, "/api/v1/orders/ord-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodGet, "/api/v1/orders/ord-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
