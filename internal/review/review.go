package review

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Skotchmaster/food_client/internal/models"
	"github.com/Skotchmaster/food_client/internal/session"
	"github.com/Skotchmaster/food_client/pkg/apierr"
	"github.com/Skotchmaster/food_client/pkg/logging"
)

const (
	MinRating = 1
	MaxRating = 5
)

type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

type Session interface {
	Authenticated() bool
	Invalidate(ctx context.Context, err error) bool
}

type Service struct {
	api     API
	session Session
}

func NewService(api API, s Session) *Service {
	return &Service{api: api, session: s}
}

func (s *Service) ByRestaurant(ctx context.Context, restaurantID int64) ([]models.Review, error) {
	if restaurantID <= 0 {
		return nil, apierr.Invalid("restaurant id must be positive")
	}

	var out []models.Review
	if err := s.api.Get(ctx, fmt.Sprintf("/reviews/restaurant/%d", restaurantID), nil, &out); err != nil {
		logging.FromContext(ctx).Warn("list_reviews_error", "restaurant_id", restaurantID, "error", err)
		return nil, err
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, r models.NewReview) (*models.Review, error) {
	if !s.session.Authenticated() {
		return nil, session.ErrNotAuthenticated
	}
	if r.RestaurantID <= 0 {
		return nil, apierr.Invalid("restaurant id must be positive")
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return nil, apierr.Invalid("rating must be between %d and %d", MinRating, MaxRating)
	}
	r.Comment = strings.TrimSpace(r.Comment)

	var out models.Review
	if err := s.api.Post(ctx, "/reviews", r, &out); err != nil {
		s.session.Invalidate(ctx, err)
		logging.FromContext(ctx).Warn("create_review_error", "restaurant_id", r.RestaurantID, "error", err)
		return nil, err
	}
	return &out, nil
}
