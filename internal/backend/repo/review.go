package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/food_client/internal/backend/models"
)

func (r *GormRepo) ListReviews(ctx context.Context, restaurantID int64) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.DB.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview stores the review and recomputes the restaurant's rating as
// the mean of all its reviews.
func (r *GormRepo) CreateReview(ctx context.Context, review *models.Review) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		var avg float64
		if err := tx.Model(&models.Review{}).
			Where("restaurant_id = ?", review.RestaurantID).
			Select("COALESCE(AVG(rating), 0)").
			Scan(&avg).Error; err != nil {
			return err
		}

		return tx.Model(&models.Restaurant{}).
			Where("id = ?", review.RestaurantID).
			Update("rating", models.Round2(avg)).Error
	})
}
