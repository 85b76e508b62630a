package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ordertrack/order-service/internal/service"
	"github.com/ordertrack/order-service/internal/transport"
	"github.com/ordertrack/order-service/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Create(ctx, req)
	if err != nil {
		return httpError(l, "create_order_error", err)
	}

	l.Info("create_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_order_error", "status", 400, "reason", "invalid id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	order, err := h.Svc.Get(ctx, id)
	if err != nil {
		return httpError(l, "get_order_error", err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_order")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_order_error", "status", 400, "reason", "invalid id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req transport.UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return httpError(l, "update_order_error", err)
	}

	l.Info("update_order_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, order)
}

// ListOrders serves the four exact-match lookups, one filter per request.
func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	switch {
	case c.QueryParam("user_id") != "":
		orders, err := h.Svc.GetByUserID(ctx, c.QueryParam("user_id"))
		if err != nil {
			return httpError(l, "list_orders_error", err)
		}
		return c.JSON(http.StatusOK, orders)

	case c.QueryParam("payment_id") != "":
		orders, err := h.Svc.GetByPaymentID(ctx, c.QueryParam("payment_id"))
		if err != nil {
			return httpError(l, "list_orders_error", err)
		}
		return c.JSON(http.StatusOK, orders)

	case c.QueryParam("status") != "":
		orders, err := h.Svc.GetByStatus(ctx, c.QueryParam("status"))
		if err != nil {
			return httpError(l, "list_orders_error", err)
		}
		return c.JSON(http.StatusOK, orders)

	case c.QueryParam("created_at") != "":
		createdAt, err := time.Parse(time.RFC3339Nano, c.QueryParam("created_at"))
		if err != nil {
			l.Warn("list_orders_error", "status", 400, "reason", "invalid created_at", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid created_at")
		}
		orders, err := h.Svc.GetByCreatedAt(ctx, createdAt)
		if err != nil {
			return httpError(l, "list_orders_error", err)
		}
		return c.JSON(http.StatusOK, orders)
	}

	l.Warn("list_orders_error", "status", 400, "reason", "missing filter")
	return echo.NewHTTPError(http.StatusBadRequest, "one of user_id, payment_id, status, created_at is required")
}

func httpError(l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	default:
		l.Warn(event, "status", 500, "reason", "internal error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
