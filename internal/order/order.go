// Package order places orders from the cart and manages the customer's order
// history.
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/Skotchmaster/food_client/internal/events"
	"github.com/Skotchmaster/food_client/internal/models"
	"github.com/Skotchmaster/food_client/internal/session"
	"github.com/Skotchmaster/food_client/pkg/apierr"
	"github.com/Skotchmaster/food_client/pkg/logging"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrMixedRestaurants  = errors.New("cart holds dishes from more than one restaurant")
	ErrRestaurantUnknown = errors.New("restaurant for the order is unknown")
	ErrNotCancellable    = errors.New("order can no longer be cancelled")
)

type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
}

type Session interface {
	Authenticated() bool
	UserID() int64
	Invalidate(ctx context.Context, err error) bool
}

// CartSource supplies the cart Checkout turns into an order.
type CartSource interface {
	GetCart(ctx context.Context) (*models.Cart, error)
}

type Flow struct {
	api     API
	session Session
	carts   CartSource
	events  events.Publisher
}

func NewFlow(api API, s Session, carts CartSource, pub events.Publisher) *Flow {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Flow{api: api, session: s, carts: carts, events: pub}
}

func (f *Flow) logger(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx).With("component", "order")
}

func (f *Flow) failed(ctx context.Context, event string, err error) error {
	f.session.Invalidate(ctx, err)
	f.logger(ctx).Warn(event, "error", err)
	return err
}

func validatePlaceOrder(req models.PlaceOrderRequest) error {
	if req.RestaurantID <= 0 {
		return apierr.Invalid("restaurant id must be positive")
	}
	if strings.TrimSpace(req.ShippingAddress) == "" {
		return apierr.Invalid("shipping address is required")
	}
	if len(req.OrderItems) == 0 {
		return apierr.Invalid("order has no items")
	}
	for _, it := range req.OrderItems {
		if it.DishID <= 0 {
			return apierr.Invalid("dish id must be positive")
		}
		if it.Quantity < 1 {
			return apierr.Invalid("quantity must be at least 1")
		}
	}
	return nil
}

func (f *Flow) PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (*models.Order, error) {
	if !f.session.Authenticated() {
		return nil, session.ErrNotAuthenticated
	}
	req.ShippingAddress = strings.TrimSpace(req.ShippingAddress)
	req.Notes = strings.TrimSpace(req.Notes)
	if err := validatePlaceOrder(req); err != nil {
		return nil, err
	}

	var out models.Order
	if err := f.api.Post(ctx, "/orders", req, &out); err != nil {
		return nil, f.failed(ctx, "place_order_error", err)
	}

	f.logger(ctx).Info("place_order_ok", "order_id", out.ID)
	events.Emit(ctx, f.events, events.New("order_placed", f.session.UserID(), map[string]any{
		"orderID":      out.ID,
		"restaurantID": out.RestaurantID,
		"total":        out.TotalAmount,
	}))
	return &out, nil
}

type CheckoutRequest struct {
	// RestaurantID is optional when the cart lines identify the restaurant.
	RestaurantID    int64
	ShippingAddress string
	Notes           string
}

// Checkout turns the current cart into an order.
func (f *Flow) Checkout(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	if !f.session.Authenticated() {
		return nil, session.ErrNotAuthenticated
	}
	if strings.TrimSpace(req.ShippingAddress) == "" {
		return nil, apierr.Invalid("shipping address is required")
	}

	c, err := f.carts.GetCart(ctx)
	if err != nil {
		return nil, err
	}
	if c.Empty() {
		return nil, ErrEmptyCart
	}

	restaurantID, err := ResolveRestaurant(c, req.RestaurantID)
	if err != nil {
		return nil, err
	}

	lines := make([]models.OrderLine, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, models.OrderLine{DishID: it.DishID, Quantity: it.Quantity})
	}

	return f.PlaceOrder(ctx, models.PlaceOrderRequest{
		RestaurantID:    restaurantID,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
		OrderItems:      lines,
	})
}

// ResolveRestaurant picks the single restaurant an order for c goes to.
// Cart lines that name a restaurant must all agree with each other and with
// requested (when set); lines without one fall back to requested.
func ResolveRestaurant(c *models.Cart, requested int64) (int64, error) {
	var found int64
	for _, it := range c.Items {
		if it.RestaurantID == 0 {
			continue
		}
		if found != 0 && it.RestaurantID != found {
			return 0, ErrMixedRestaurants
		}
		found = it.RestaurantID
	}

	switch {
	case found != 0 && requested > 0 && requested != found:
		return 0, fmt.Errorf("%w: cart is for restaurant %d, not %d", ErrMixedRestaurants, found, requested)
	case found != 0:
		return found, nil
	case requested > 0:
		return requested, nil
	}
	return 0, ErrRestaurantUnknown
}

func (f *Flow) MyOrders(ctx context.Context) ([]models.Order, error) {
	if !f.session.Authenticated() {
		return nil, session.ErrNotAuthenticated
	}
	var out []models.Order
	if err := f.api.Get(ctx, "/orders/my-orders", nil, &out); err != nil {
		return nil, f.failed(ctx, "list_orders_error", err)
	}
	return out, nil
}

func (f *Flow) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	if !f.session.Authenticated() {
		return nil, session.ErrNotAuthenticated
	}
	if id <= 0 {
		return nil, apierr.Invalid("order id must be positive")
	}
	var out models.Order
	if err := f.api.Get(ctx, fmt.Sprintf("/orders/%d", id), nil, &out); err != nil {
		return nil, f.failed(ctx, "get_order_error", err)
	}
	return &out, nil
}

// CancelOrder cancels o. Orders past Pending are refused without contacting
// the backend.
func (f *Flow) CancelOrder(ctx context.Context, o models.Order) (*models.Order, error) {
	if !f.session.Authenticated() {
		return nil, session.ErrNotAuthenticated
	}
	if !models.CanCustomerTransition(o.Status, models.StatusCancelled) {
		return nil, fmt.Errorf("%w: order %d is %s", ErrNotCancellable, o.ID, o.Status)
	}

	var out models.Order
	req := models.UpdateOrderStatusRequest{Status: models.StatusCancelled}
	if err := f.api.Put(ctx, fmt.Sprintf("/orders/%d/status", o.ID), req, &out); err != nil {
		return nil, f.failed(ctx, "cancel_order_error", err)
	}

	f.logger(ctx).Info("cancel_order_ok", "order_id", o.ID)
	events.Emit(ctx, f.events, events.New("order_cancelled", f.session.UserID(), map[string]any{
		"orderID": o.ID,
	}))
	return &out, nil
}

// CancelOrderByID loads the order first so the status check uses the
// backend's current view.
func (f *Flow) CancelOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	o, err := f.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return f.CancelOrder(ctx, *o)
}
