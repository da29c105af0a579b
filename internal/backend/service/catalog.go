package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/food_client/internal/backend/repo"
	wire "github.com/Skotchmaster/food_client/internal/models"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

func (s *CatalogService) Restaurants(ctx context.Context, searchTerm string) ([]wire.Restaurant, error) {
	items, err := s.Repo.ListRestaurants(ctx, searchTerm)
	if err != nil {
		return nil, err
	}
	out := make([]wire.Restaurant, 0, len(items))
	for i := range items {
		out = append(out, items[i].DTO(false))
	}
	return out, nil
}

func (s *CatalogService) Restaurant(ctx context.Context, id int64) (*wire.Restaurant, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid restaurant id", ErrValidation)
	}
	rest, err := s.Repo.GetRestaurant(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: restaurant %d", ErrNotFound, id)
		}
		return nil, err
	}
	dto := rest.DTO(true)
	return &dto, nil
}
