package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_client/internal/backend/service"
	wire "github.com/Skotchmaster/food_client/internal/models"
	authmw "github.com/Skotchmaster/food_client/pkg/middleware/auth"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	var req wire.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	order, err := h.Svc.CreateOrder(c.Request().Context(), uid, req)
	if err != nil {
		return fail(c, "create_order_error", err)
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) MyOrders(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	orders, err := h.Svc.MyOrders(c.Request().Context(), uid)
	if err != nil {
		return fail(c, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	order, err := h.Svc.GetOrder(c.Request().Context(), uid, id, authmw.IsAdmin(c))
	if err != nil {
		return fail(c, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req wire.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	order, err := h.Svc.UpdateStatus(c.Request().Context(), uid, id, authmw.IsAdmin(c), req.Status)
	if err != nil {
		return fail(c, "update_order_status_error", err)
	}
	return c.JSON(http.StatusOK, order)
}
