package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/food_client/internal/backend/models"
	"github.com/Skotchmaster/food_client/internal/backend/repo"
	wire "github.com/Skotchmaster/food_client/internal/models"
)

type ReviewService struct {
	Repo *repo.GormRepo
}

func (s *ReviewService) ByRestaurant(ctx context.Context, restaurantID int64) ([]wire.Review, error) {
	reviews, err := s.Repo.ListReviews(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	out := make([]wire.Review, 0, len(reviews))
	for i := range reviews {
		out = append(out, reviews[i].DTO())
	}
	return out, nil
}

func (s *ReviewService) Create(ctx context.Context, userID int64, req wire.NewReview) (*wire.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if req.RestaurantID <= 0 {
		return nil, fmt.Errorf("%w: restaurantId required", ErrValidation)
	}
	if _, err := s.Repo.GetRestaurant(ctx, req.RestaurantID); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: restaurant %d", ErrNotFound, req.RestaurantID)
		}
		return nil, err
	}
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
		}
		return nil, err
	}

	review := models.Review{
		RestaurantID: req.RestaurantID,
		UserID:       userID,
		Username:     user.Username,
		Rating:       req.Rating,
		Comment:      strings.TrimSpace(req.Comment),
	}
	if err := s.Repo.CreateReview(ctx, &review); err != nil {
		return nil, err
	}
	dto := review.DTO()
	return &dto, nil
}
