package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_client/internal/backend/service"
	wire "github.com/Skotchmaster/food_client/internal/models"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) Restaurants(c echo.Context) error {
	items, err := h.Svc.Restaurants(c.Request().Context(), c.QueryParam("searchTerm"))
	if err != nil {
		return fail(c, "list_restaurants_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) Restaurant(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	rest, err := h.Svc.Restaurant(c.Request().Context(), id)
	if err != nil {
		return fail(c, "get_restaurant_error", err)
	}
	return c.JSON(http.StatusOK, rest)
}

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewHTTP) ByRestaurant(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	reviews, err := h.Svc.ByRestaurant(c.Request().Context(), id)
	if err != nil {
		return fail(c, "list_reviews_error", err)
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHTTP) Create(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	var req wire.NewReview
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	review, err := h.Svc.Create(c.Request().Context(), uid, req)
	if err != nil {
		return fail(c, "create_review_error", err)
	}
	return c.JSON(http.StatusCreated, review)
}
