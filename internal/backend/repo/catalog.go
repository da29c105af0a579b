package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/food_client/internal/backend/models"
)

func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}

// ListRestaurants returns restaurants whose name, description or address
// contains term, case-insensitively. An empty term lists everything.
func (r *GormRepo) ListRestaurants(ctx context.Context, term string) ([]models.Restaurant, error) {
	q := r.DB.WithContext(ctx).Model(&models.Restaurant{})
	if term = strings.TrimSpace(term); term != "" {
		p := likePattern(term)
		q = q.Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(address) LIKE ? ESCAPE '\'`,
			p, p, p,
		)
	}

	var items []models.Restaurant
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetRestaurant(ctx context.Context, id int64) (*models.Restaurant, error) {
	var rest models.Restaurant
	err := r.DB.WithContext(ctx).
		Preload("Menus", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Menus.Dishes", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&rest, id).Error
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *GormRepo) CreateRestaurant(ctx context.Context, rest *models.Restaurant) error {
	return r.DB.WithContext(ctx).Create(rest).Error
}

func (r *GormRepo) CountRestaurants(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Restaurant{}).Count(&n).Error
	return n, err
}

func (r *GormRepo) GetDish(ctx context.Context, id int64) (*models.Dish, error) {
	var d models.Dish
	if err := r.DB.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDishes loads the dishes with the given ids, keyed by id.
func (r *GormRepo) GetDishes(ctx context.Context, ids []int64) (map[int64]models.Dish, error) {
	var dishes []models.Dish
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&dishes).Error; err != nil {
		return nil, err
	}
	out := make(map[int64]models.Dish, len(dishes))
	for _, d := range dishes {
		out[d.ID] = d
	}
	return out, nil
}

// CreateMenus inserts menus together with their dishes.
func (r *GormRepo) CreateMenus(ctx context.Context, menus []models.Menu) error {
	if len(menus) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(&menus).Error
}
