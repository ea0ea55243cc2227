package httpserver

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kmazurov/order_service/internal/logging"
	"github.com/kmazurov/order_service/internal/service"
	"github.com/kmazurov/order_service/internal/service/search"
	"github.com/kmazurov/order_service/internal/transport"
	"github.com/kmazurov/order_service/internal/util"
)

type OrderHTTP struct {
	Svc    *service.OrderService
	Search *search.Client
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func orderID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	return id, nil
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Create(ctx, req)
	if err != nil {
		l.Warn("create_order_error", "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	page := parseIntDefault(c.QueryParam("page"), 1)
	limit := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)

	list, err := h.Svc.FindAll(ctx, page, limit)
	if err != nil {
		l.Error("list_orders_error", "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, list)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	id, err := orderID(c)
	if err != nil {
		return err
	}

	order, err := h.Svc.FindOne(ctx, id)
	if err != nil {
		l.Warn("get_order_error", "order_id", id, "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel")

	id, err := orderID(c)
	if err != nil {
		return err
	}

	order, err := h.Svc.Cancel(ctx, id)
	if err != nil {
		l.Warn("cancel_order_error", "order_id", id, "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) SearchOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.search")

	if h.Search == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search disabled")
	}

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	limit := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	from, size := util.Calculate(page, limit)

	total, orders, err := h.Search.Search(ctx, q, from, size)
	if err != nil {
		l.Error("search_orders_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "orders": orders})
}
