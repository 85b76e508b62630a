package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ordertrack/order-service/internal/models"
	"github.com/ordertrack/order-service/internal/repo"
	"github.com/ordertrack/order-service/internal/service"
)

type testEnv struct {
	T *testing.T
	E *echo.Echo
	H *OrderHTTP
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return &testEnv{
		T: t,
		E: echo.New(),
		H: &OrderHTTP{Svc: &service.OrderService{Repo: &repo.GormRepo{DB: db}}},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func createOrderPayload() map[string]any {
	return map[string]any{
		"email":      "customer@example.com",
		"total":      "19.99",
		"user_id":    "u1",
		"payment_id": "p1",
	}
}

func (env *testEnv) createOrder(t *testing.T) models.Order {
	t.Helper()

	rec, c := env.doJSONRequest(http.MethodPost, "/orders", createOrderPayload())
	require.NoError(t, env.H.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	return order
}

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t)

	order := env.createOrder(t)

	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.Equal(t, "customer@example.com", order.Email)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "19.99", order.Total.StringFixed(2))
}

func TestCreateOrder_InvalidEmail(t *testing.T) {
	env := newTestEnv(t)

	payload := createOrderPayload()
	payload["email"] = "not-an-email"
	_, c := env.doJSONRequest(http.MethodPost, "/orders", payload)

	err := env.H.CreateOrder(c)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestGetOrder(t *testing.T) {
	env := newTestEnv(t)
	created := env.createOrder(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/orders/"+created.ID.String(), nil)
	c.SetParamNames("id")
	c.SetParamValues(created.ID.String())
	require.NoError(t, env.H.GetOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)
}

func TestGetOrder_NotFound(t *testing.T) {
	env := newTestEnv(t)

	unknown := uuid.NewString()
	_, c := env.doJSONRequest(http.MethodGet, "/orders/"+unknown, nil)
	c.SetParamNames("id")
	c.SetParamValues(unknown)

	err := env.H.GetOrder(c)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestUpdateOrder_Status(t *testing.T) {
	env := newTestEnv(t)
	created := env.createOrder(t)

	rec, c := env.doJSONRequest(http.MethodPatch, "/orders/"+created.ID.String(), map[string]any{"status": "paid"})
	c.SetParamNames("id")
	c.SetParamValues(created.ID.String())
	require.NoError(t, env.H.UpdateOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.OrderStatusPaid, got.Status)
}

func TestUpdateOrder_BogusStatus(t *testing.T) {
	env := newTestEnv(t)
	created := env.createOrder(t)

	_, c := env.doJSONRequest(http.MethodPatch, "/orders/"+created.ID.String(), map[string]any{"status": "bogus"})
	c.SetParamNames("id")
	c.SetParamValues(created.ID.String())

	err := env.H.UpdateOrder(c)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestListOrders_ByUserID(t *testing.T) {
	env := newTestEnv(t)
	created := env.createOrder(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/orders?user_id=u1", nil)
	require.NoError(t, env.H.ListOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, created.ID, orders[0].ID)
}

func TestListOrders_ByStatusRejectsUnknown(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/orders?status=bogus", nil)

	err := env.H.ListOrders(c)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestListOrders_NoMatchIsEmptyArray(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/orders?payment_id=nothing", nil)
	require.NoError(t, env.H.ListOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListOrders_MissingFilter(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/orders", nil)

	err := env.H.ListOrders(c)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
