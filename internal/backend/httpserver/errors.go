package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_client/internal/backend/service"
	authmw "github.com/Skotchmaster/food_client/pkg/middleware/auth"
	"github.com/Skotchmaster/food_client/pkg/logging"
)

var statusBySentinel = []struct {
	err    error
	status int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrConflict, http.StatusConflict},
}

// fail logs err under event and turns it into the JSON error response.
func fail(c echo.Context, event string, err error) error {
	l := logging.FromContext(c.Request().Context())
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			l.Warn(event, "status", s.status, "error", err)
			msg := strings.TrimPrefix(err.Error(), s.err.Error()+": ")
			return echo.NewHTTPError(s.status, msg)
		}
	}
	l.Error(event, "status", 500, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

func userID(c echo.Context) (int64, error) {
	id, ok := authmw.UserID(c)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}

func idParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
