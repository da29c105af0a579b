package order

import (
	"context"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_client/internal/cart"
	"github.com/Skotchmaster/food_client/internal/catalog"
	"github.com/Skotchmaster/food_client/internal/models"
	"github.com/Skotchmaster/food_client/internal/session"
	"github.com/Skotchmaster/food_client/internal/testutil"
	"github.com/Skotchmaster/food_client/pkg/apierr"
)

type countingAPI struct {
	API
	calls atomic.Int32
}

func (c *countingAPI) Get(ctx context.Context, path string, q url.Values, out any) error {
	c.calls.Add(1)
	return c.API.Get(ctx, path, q, out)
}

func (c *countingAPI) Post(ctx context.Context, path string, body, out any) error {
	c.calls.Add(1)
	return c.API.Post(ctx, path, body, out)
}

func (c *countingAPI) Put(ctx context.Context, path string, body, out any) error {
	c.calls.Add(1)
	return c.API.Put(ctx, path, body, out)
}

type harness struct {
	client *testutil.Client
	carts  *cart.Flow
	orders *Flow
	api    *countingAPI
}

func newHarness(t *testing.T, env *testutil.Env) *harness {
	t.Helper()
	c := testutil.LoggedIn(t, env, "alice", "secret")
	carts := cart.NewFlow(c.API, c.Session, c.Events)
	api := &countingAPI{API: c.API}
	return &harness{
		client: c,
		carts:  carts,
		orders: NewFlow(api, c.Session, carts, c.Events),
		api:    api,
	}
}

func restaurantDishes(t *testing.T, c *testutil.Client, term string) (int64, []models.Dish) {
	t.Helper()
	svc := catalog.NewService(c.API)
	list, err := svc.Restaurants(c.Ctx, term)
	require.NoError(t, err)
	require.Len(t, list, 1)
	rest, err := svc.Restaurant(c.Ctx, list[0].ID)
	require.NoError(t, err)
	var dishes []models.Dish
	for _, m := range rest.Menus {
		dishes = append(dishes, m.Dishes...)
	}
	return rest.ID, dishes
}

func TestCheckout_PlacesOrderFromCart(t *testing.T) {
	env := testutil.StartBackend(t)
	h := newHarness(t, env)
	ctx := h.client.Ctx
	restID, dishes := restaurantDishes(t, h.client, "pasta")

	_, err := h.carts.AddItem(ctx, dishes[0].ID, 2)
	require.NoError(t, err)
	_, err = h.carts.AddItem(ctx, dishes[1].ID, 1)
	require.NoError(t, err)

	o, err := h.orders.Checkout(ctx, CheckoutRequest{ShippingAddress: "1 Main St", Notes: "no onions"})
	require.NoError(t, err)
	assert.Equal(t, restID, o.RestaurantID)
	assert.Equal(t, models.StatusPending, o.Status)
	assert.Len(t, o.OrderItems, 2)
	assert.InDelta(t, dishes[0].Price*2+dishes[1].Price, o.TotalAmount, 0.001)
	assert.Equal(t, "no onions", o.Notes)

	c, err := h.carts.GetCart(ctx)
	require.NoError(t, err)
	assert.True(t, c.Empty())

	mine, err := h.orders.MyOrders(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, o.ID, mine[0].ID)
	assert.Contains(t, h.client.Events.Types(), "order_placed")
}

func TestCheckout_Rejections(t *testing.T) {
	env := testutil.StartBackend(t)
	h := newHarness(t, env)
	ctx := h.client.Ctx

	_, err := h.orders.Checkout(ctx, CheckoutRequest{ShippingAddress: "1 Main St"})
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = h.orders.Checkout(ctx, CheckoutRequest{ShippingAddress: "  "})
	assert.True(t, apierr.Is(err, apierr.KindValidation))

	pastaID, pasta := restaurantDishes(t, h.client, "pasta")
	_, sushi := restaurantDishes(t, h.client, "sushi")
	_, err = h.carts.AddItem(ctx, pasta[0].ID, 1)
	require.NoError(t, err)

	_, err = h.orders.Checkout(ctx, CheckoutRequest{RestaurantID: pastaID + 1, ShippingAddress: "1 Main St"})
	assert.ErrorIs(t, err, ErrMixedRestaurants)

	_, err = h.carts.AddItem(ctx, sushi[0].ID, 1)
	require.NoError(t, err)
	_, err = h.orders.Checkout(ctx, CheckoutRequest{ShippingAddress: "1 Main St"})
	assert.ErrorIs(t, err, ErrMixedRestaurants)

	mine, err := h.orders.MyOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestResolveRestaurant(t *testing.T) {
	cart := func(ids ...int64) *models.Cart {
		c := &models.Cart{}
		for _, id := range ids {
			c.Items = append(c.Items, models.CartItem{DishID: 1, Quantity: 1, RestaurantID: id})
		}
		return c
	}

	tests := []struct {
		name      string
		cart      *models.Cart
		requested int64
		want      int64
		err       error
	}{
		{name: "from lines", cart: cart(3, 3), want: 3},
		{name: "lines agree with request", cart: cart(3), requested: 3, want: 3},
		{name: "lines disagree with request", cart: cart(3), requested: 4, err: ErrMixedRestaurants},
		{name: "mixed lines", cart: cart(3, 4), err: ErrMixedRestaurants},
		{name: "unknown lines use request", cart: cart(0, 0), requested: 5, want: 5},
		{name: "partially known", cart: cart(0, 6), want: 6},
		{name: "nothing known", cart: cart(0), err: ErrRestaurantUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveRestaurant(tt.cart, tt.requested)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlaceOrder_ValidatesBeforeCalling(t *testing.T) {
	env := testutil.StartBackend(t)
	h := newHarness(t, env)
	ctx := h.client.Ctx

	bad := []models.PlaceOrderRequest{
		{RestaurantID: 1, ShippingAddress: "x"},
		{RestaurantID: 0, ShippingAddress: "x", OrderItems: []models.OrderLine{{DishID: 1, Quantity: 1}}},
		{RestaurantID: 1, ShippingAddress: " ", OrderItems: []models.OrderLine{{DishID: 1, Quantity: 1}}},
		{RestaurantID: 1, ShippingAddress: "x", OrderItems: []models.OrderLine{{DishID: 0, Quantity: 1}}},
		{RestaurantID: 1, ShippingAddress: "x", OrderItems: []models.OrderLine{{DishID: 1, Quantity: 0}}},
	}
	for _, req := range bad {
		_, err := h.orders.PlaceOrder(ctx, req)
		assert.True(t, apierr.Is(err, apierr.KindValidation), "%+v", req)
	}
	assert.Zero(t, h.api.calls.Load())
}

func TestCancelOrder(t *testing.T) {
	env := testutil.StartBackend(t)
	h := newHarness(t, env)
	ctx := h.client.Ctx
	restID, dishes := restaurantDishes(t, h.client, "burger")

	o, err := h.orders.PlaceOrder(ctx, models.PlaceOrderRequest{
		RestaurantID:    restID,
		ShippingAddress: "1 Main St",
		OrderItems:      []models.OrderLine{{DishID: dishes[0].ID, Quantity: 1}},
	})
	require.NoError(t, err)

	cancelled, err := h.orders.CancelOrderByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Contains(t, h.client.Events.Types(), "order_cancelled")

	before := h.api.calls.Load()
	_, err = h.orders.CancelOrder(ctx, *cancelled)
	assert.ErrorIs(t, err, ErrNotCancellable)
	assert.Equal(t, before, h.api.calls.Load())
}

func TestCancelOrder_NonPendingMakesNoCall(t *testing.T) {
	env := testutil.StartBackend(t)
	h := newHarness(t, env)

	for _, st := range models.AllStatuses() {
		if st == models.StatusPending {
			continue
		}
		_, err := h.orders.CancelOrder(h.client.Ctx, models.Order{ID: 1, Status: st})
		assert.ErrorIs(t, err, ErrNotCancellable, st)
	}
	assert.Zero(t, h.api.calls.Load())
}

func TestCancelOrderByID_UsesBackendStatus(t *testing.T) {
	env := testutil.StartBackend(t)
	h := newHarness(t, env)
	ctx := h.client.Ctx
	restID, dishes := restaurantDishes(t, h.client, "sushi")

	o, err := h.orders.PlaceOrder(ctx, models.PlaceOrderRequest{
		RestaurantID:    restID,
		ShippingAddress: "1 Main St",
		OrderItems:      []models.OrderLine{{DishID: dishes[0].ID, Quantity: 1}},
	})
	require.NoError(t, err)

	admin := testutil.LoggedIn(t, env, "admin", "admin")
	require.NoError(t, admin.API.Put(admin.Ctx, "/orders/"+itoa(o.ID)+"/status",
		models.UpdateOrderStatusRequest{Status: models.StatusProcessing}, nil))

	_, err = h.orders.CancelOrderByID(ctx, o.ID)
	assert.ErrorIs(t, err, ErrNotCancellable)

	got, err := h.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, got.Status)
}

func TestRequiresSession(t *testing.T) {
	env := testutil.StartBackend(t)
	c := testutil.NewClient(t, env)
	f := NewFlow(c.API, c.Session, cart.NewFlow(c.API, c.Session, nil), nil)

	_, err := f.MyOrders(c.Ctx)
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
	_, err = f.Checkout(c.Ctx, CheckoutRequest{ShippingAddress: "x"})
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
	_, err = f.CancelOrder(c.Ctx, models.Order{ID: 1, Status: models.StatusPending})
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
