package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/food_client/internal/backend/models"
	"github.com/Skotchmaster/food_client/internal/backend/repo"
	wire "github.com/Skotchmaster/food_client/internal/models"
)

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) GetCart(ctx context.Context, userID int64) (*wire.Cart, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart := models.CartDTO(userID, items)
	return &cart, nil
}

func (s *CartService) AddItem(ctx context.Context, userID int64, req wire.AddCartItemRequest) (*wire.Cart, error) {
	if req.DishID <= 0 {
		return nil, fmt.Errorf("%w: dishId required", ErrValidation)
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	if _, err := s.Repo.GetDish(ctx, req.DishID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: dish %d", ErrNotFound, req.DishID)
		}
		return nil, err
	}

	item := models.CartItem{UserID: userID, DishID: req.DishID, Quantity: req.Quantity}
	if err := s.Repo.AddToCart(ctx, &item); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) SetQuantity(ctx context.Context, userID, itemID int64, quantity int) (*wire.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	if err := s.Repo.SetCartItemQuantity(ctx, userID, itemID, quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart item %d", ErrNotFound, itemID)
		}
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	if err := s.Repo.DeleteCartItem(ctx, userID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: cart item %d", ErrNotFound, itemID)
		}
		return err
	}
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID int64) error {
	return s.Repo.DeleteAllFromCart(ctx, userID)
}
