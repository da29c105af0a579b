// Package cart drives the server-owned shopping cart. Every mutation is
// followed by a fresh GET of the cart; nothing is computed locally.
package cart

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/Skotchmaster/food_client/internal/events"
	"github.com/Skotchmaster/food_client/internal/models"
	"github.com/Skotchmaster/food_client/internal/session"
	"github.com/Skotchmaster/food_client/pkg/apierr"
	"github.com/Skotchmaster/food_client/pkg/logging"
)

const cartPath = "/carts/my-cart"

type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// Session is the part of the session manager the flows depend on.
type Session interface {
	Authenticated() bool
	UserID() int64
	Invalidate(ctx context.Context, err error) bool
}

type Flow struct {
	api     API
	session Session
	events  events.Publisher
}

func NewFlow(api API, s Session, pub events.Publisher) *Flow {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Flow{api: api, session: s, events: pub}
}

func (f *Flow) logger(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx).With("component", "cart")
}

func (f *Flow) requireSession() error {
	if !f.session.Authenticated() {
		return session.ErrNotAuthenticated
	}
	return nil
}

// failed hands the error to the session (a 401 ends it) and returns it.
func (f *Flow) failed(ctx context.Context, event string, err error) error {
	f.session.Invalidate(ctx, err)
	f.logger(ctx).Warn(event, "error", err)
	return err
}

func (f *Flow) GetCart(ctx context.Context) (*models.Cart, error) {
	if err := f.requireSession(); err != nil {
		return nil, err
	}
	return f.fetch(ctx)
}

func (f *Flow) fetch(ctx context.Context) (*models.Cart, error) {
	var c models.Cart
	if err := f.api.Get(ctx, cartPath, nil, &c); err != nil {
		return nil, f.failed(ctx, "get_cart_error", err)
	}
	return &c, nil
}

func (f *Flow) AddItem(ctx context.Context, dishID int64, quantity int) (*models.Cart, error) {
	if err := f.requireSession(); err != nil {
		return nil, err
	}
	if dishID <= 0 {
		return nil, apierr.Invalid("dish id must be positive")
	}
	if quantity < 1 {
		return nil, apierr.Invalid("quantity must be at least 1")
	}

	req := models.AddCartItemRequest{DishID: dishID, Quantity: quantity}
	if err := f.api.Post(ctx, "/carts/items", req, nil); err != nil {
		return nil, f.failed(ctx, "add_to_cart_error", err)
	}
	events.Emit(ctx, f.events, events.New("cart_item_added", f.session.UserID(), map[string]any{
		"dishID":   dishID,
		"quantity": quantity,
	}))
	return f.fetch(ctx)
}

// SetItemQuantity sets the line's quantity. A quantity below 1 removes the line.
func (f *Flow) SetItemQuantity(ctx context.Context, itemID int64, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return f.RemoveItem(ctx, itemID)
	}
	if err := f.requireSession(); err != nil {
		return nil, err
	}
	if itemID <= 0 {
		return nil, apierr.Invalid("cart item id must be positive")
	}

	req := models.UpdateCartItemRequest{Quantity: quantity}
	if err := f.api.Put(ctx, fmt.Sprintf("/carts/items/%d", itemID), req, nil); err != nil {
		return nil, f.failed(ctx, "update_cart_item_error", err)
	}
	events.Emit(ctx, f.events, events.New("cart_item_updated", f.session.UserID(), map[string]any{
		"itemID":   itemID,
		"quantity": quantity,
	}))
	return f.fetch(ctx)
}

func (f *Flow) RemoveItem(ctx context.Context, itemID int64) (*models.Cart, error) {
	if err := f.requireSession(); err != nil {
		return nil, err
	}
	if itemID <= 0 {
		return nil, apierr.Invalid("cart item id must be positive")
	}

	if err := f.api.Delete(ctx, fmt.Sprintf("/carts/items/%d", itemID), nil); err != nil {
		return nil, f.failed(ctx, "delete_cart_item_error", err)
	}
	events.Emit(ctx, f.events, events.New("cart_item_removed", f.session.UserID(), map[string]any{
		"itemID": itemID,
	}))
	return f.fetch(ctx)
}

func (f *Flow) Clear(ctx context.Context) (*models.Cart, error) {
	if err := f.requireSession(); err != nil {
		return nil, err
	}
	if err := f.api.Delete(ctx, "/carts/clear", nil); err != nil {
		return nil, f.failed(ctx, "clear_cart_error", err)
	}
	events.Emit(ctx, f.events, events.New("cart_cleared", f.session.UserID(), nil))
	return f.fetch(ctx)
}
