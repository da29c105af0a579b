package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/food_client/internal/backend/models"
	"github.com/Skotchmaster/food_client/internal/backend/repo"
	"github.com/Skotchmaster/food_client/internal/events"
	wire "github.com/Skotchmaster/food_client/internal/models"
	"github.com/Skotchmaster/food_client/pkg/logging"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *OrderService) CreateOrder(ctx context.Context, userID int64, req wire.PlaceOrderRequest) (*wire.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create", "user_id", userID)

	if req.RestaurantID <= 0 {
		return nil, fmt.Errorf("%w: restaurantId required", ErrValidation)
	}
	if strings.TrimSpace(req.ShippingAddress) == "" {
		return nil, fmt.Errorf("%w: shippingAddress required", ErrValidation)
	}
	if len(req.OrderItems) == 0 {
		return nil, fmt.Errorf("%w: orderItems required", ErrValidation)
	}

	quantities := make(map[int64]int, len(req.OrderItems))
	ids := make([]int64, 0, len(req.OrderItems))
	for _, line := range req.OrderItems {
		if line.DishID <= 0 {
			return nil, fmt.Errorf("%w: dishId required", ErrValidation)
		}
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
		}
		if _, seen := quantities[line.DishID]; !seen {
			ids = append(ids, line.DishID)
		}
		quantities[line.DishID] += line.Quantity
	}

	dishes, err := s.Repo.GetDishes(ctx, ids)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		UserID:          userID,
		RestaurantID:    req.RestaurantID,
		ShippingAddress: strings.TrimSpace(req.ShippingAddress),
		Notes:           strings.TrimSpace(req.Notes),
		Status:          string(wire.StatusPending),
	}
	var total float64
	for _, id := range ids {
		d, ok := dishes[id]
		if !ok {
			return nil, fmt.Errorf("%w: dish %d", ErrNotFound, id)
		}
		if d.RestaurantID != req.RestaurantID {
			return nil, fmt.Errorf("%w: dish %d does not belong to restaurant %d", ErrValidation, id, req.RestaurantID)
		}
		q := quantities[id]
		line := models.Round2(d.Price * float64(q))
		total += line
		order.Items = append(order.Items, models.OrderItem{
			DishID:    d.ID,
			DishName:  d.Name,
			UnitPrice: d.Price,
			Quantity:  q,
			LineTotal: line,
		})
	}
	order.TotalAmount = models.Round2(total)

	if err := s.Repo.CreateOrder(ctx, &order); err != nil {
		l.Error("create_order_error", "status", 500, "error", err)
		return nil, err
	}

	l.Info("create_order_success", "order_id", order.ID)
	events.Emit(ctx, s.Events, events.New("order_created", userID, map[string]any{
		"orderID":      order.ID,
		"restaurantID": order.RestaurantID,
		"total":        order.TotalAmount,
	}))

	dto := order.DTO()
	return &dto, nil
}

func (s *OrderService) MyOrders(ctx context.Context, userID int64) ([]wire.Order, error) {
	orders, err := s.Repo.ListOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]wire.Order, 0, len(orders))
	for i := range orders {
		out = append(out, orders[i].DTO())
	}
	return out, nil
}

// load returns the order when the caller may see it. Other users' orders are
// reported as missing.
func (s *OrderService) load(ctx context.Context, userID, orderID int64, admin bool) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}
	if order.UserID != userID && !admin {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID int64, admin bool) (*wire.Order, error) {
	order, err := s.load(ctx, userID, orderID, admin)
	if err != nil {
		return nil, err
	}
	dto := order.DTO()
	return &dto, nil
}

// UpdateStatus applies a status change allowed for the caller's role. Admins
// acting on their own orders are still checked against the admin table.
func (s *OrderService) UpdateStatus(ctx context.Context, userID, orderID int64, admin bool, to wire.OrderStatus) (*wire.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.update_status", "order_id", orderID)

	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, to)
	}

	order, err := s.load(ctx, userID, orderID, admin)
	if err != nil {
		return nil, err
	}

	actor := ActorCustomer
	if admin {
		actor = ActorAdmin
	}
	from := wire.OrderStatus(order.Status)
	if err := CanTransition(from, to, actor); err != nil {
		l.Warn("update_status_rejected", "status", 409, "from", from, "to", to, "actor", actor)
		return nil, err
	}

	updated, err := s.Repo.UpdateOrderStatus(ctx, orderID, string(from), string(to))
	if err != nil {
		if errors.Is(err, repo.ErrStatusChanged) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		l.Error("update_status_error", "status", 500, "error", err)
		return nil, err
	}

	l.Info("update_status_success", "from", from, "to", to)
	events.Emit(ctx, s.Events, events.New("order_status_changed", order.UserID, map[string]any{
		"orderID": orderID,
		"from":    string(from),
		"to":      string(to),
		"actor":   string(actor),
	}))

	dto := updated.DTO()
	return &dto, nil
}
