package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/food_client/pkg/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	UserHandler    *UserHTTP
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
	ReviewHandler  *ReviewHTTP
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := authmw.NewBearerMiddleware(d.JWTSecret)

	api := e.Group("/api")

	api.POST("/auth/register", d.AuthHandler.Register)
	api.POST("/auth/login", d.AuthHandler.Login)

	api.GET("/restaurants", d.CatalogHandler.Restaurants)
	api.GET("/restaurants/:id", d.CatalogHandler.Restaurant)
	api.GET("/reviews/restaurant/:id", d.ReviewHandler.ByRestaurant)

	private := api.Group("", authMW.RequireAuth)

	private.GET("/users/me", d.UserHandler.Me)
	private.PUT("/users/me", d.UserHandler.UpdateMe)

	private.GET("/carts/my-cart", d.CartHandler.GetCart)
	private.POST("/carts/items", d.CartHandler.AddItem)
	private.PUT("/carts/items/:itemId", d.CartHandler.UpdateItem)
	private.DELETE("/carts/items/:itemId", d.CartHandler.RemoveItem)
	private.DELETE("/carts/clear", d.CartHandler.Clear)

	private.POST("/orders", d.OrderHandler.CreateOrder)
	private.GET("/orders/my-orders", d.OrderHandler.MyOrders)
	private.GET("/orders/:id", d.OrderHandler.GetOrder)
	private.PUT("/orders/:id/status", d.OrderHandler.UpdateStatus)

	private.POST("/reviews", d.ReviewHandler.Create)
}
