package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_client/internal/backend/service"
	wire "github.com/Skotchmaster/food_client/internal/models"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	var req wire.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	resp, err := h.Svc.Register(c.Request().Context(), req)
	if err != nil {
		return fail(c, "register_error", err)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	var req wire.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	resp, err := h.Svc.Login(c.Request().Context(), req.LoginIdentifier, req.Password)
	if err != nil {
		return fail(c, "login_error", err)
	}
	return c.JSON(http.StatusOK, resp)
}

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) Me(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	u, err := h.Svc.Me(c.Request().Context(), uid)
	if err != nil {
		return fail(c, "get_me_error", err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHTTP) UpdateMe(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	var req wire.ProfileUpdate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	u, err := h.Svc.UpdateMe(c.Request().Context(), uid, req)
	if err != nil {
		return fail(c, "update_me_error", err)
	}
	return c.JSON(http.StatusOK, u)
}
