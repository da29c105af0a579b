package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_client/internal/backend/service"
	wire "github.com/Skotchmaster/food_client/internal/models"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	cart, err := h.Svc.GetCart(c.Request().Context(), uid)
	if err != nil {
		return fail(c, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	var req wire.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	cart, err := h.Svc.AddItem(c.Request().Context(), uid, req)
	if err != nil {
		return fail(c, "add_to_cart_error", err)
	}
	return c.JSON(http.StatusCreated, cart)
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	itemID, err := idParam(c, "itemId")
	if err != nil {
		return err
	}
	var req wire.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	cart, err := h.Svc.SetQuantity(c.Request().Context(), uid, itemID, req.Quantity)
	if err != nil {
		return fail(c, "update_cart_item_error", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	itemID, err := idParam(c, "itemId")
	if err != nil {
		return err
	}
	if err := h.Svc.RemoveItem(c.Request().Context(), uid, itemID); err != nil {
		return fail(c, "delete_cart_item_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Clear(c.Request().Context(), uid); err != nil {
		return fail(c, "clear_cart_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
