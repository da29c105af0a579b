package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Skotchmaster/food_client/internal/models"
	"github.com/Skotchmaster/food_client/pkg/apierr"
	"github.com/Skotchmaster/food_client/pkg/logging"
)

type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
}

type Service struct {
	api API
}

func NewService(api API) *Service {
	return &Service{api: api}
}

// Restaurants lists restaurants matching searchTerm. The term is always sent,
// even when empty.
func (s *Service) Restaurants(ctx context.Context, searchTerm string) ([]models.Restaurant, error) {
	q := url.Values{"searchTerm": {strings.TrimSpace(searchTerm)}}

	var out []models.Restaurant
	if err := s.api.Get(ctx, "/restaurants", q, &out); err != nil {
		logging.FromContext(ctx).Warn("list_restaurants_error", "error", err)
		return nil, err
	}
	return out, nil
}

// Restaurant returns one restaurant with its menus and dishes.
func (s *Service) Restaurant(ctx context.Context, id int64) (*models.Restaurant, error) {
	if id <= 0 {
		return nil, apierr.Invalid("restaurant id must be positive")
	}

	var out models.Restaurant
	if err := s.api.Get(ctx, fmt.Sprintf("/restaurants/%d", id), nil, &out); err != nil {
		logging.FromContext(ctx).Warn("get_restaurant_error", "restaurant_id", id, "error", err)
		return nil, err
	}
	return &out, nil
}
