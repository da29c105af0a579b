// Package seed fills an empty dev database with restaurants and demo users.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/food_client/internal/backend/models"
	"github.com/Skotchmaster/food_client/internal/backend/repo"
	"github.com/Skotchmaster/food_client/internal/backend/service"
	wire "github.com/Skotchmaster/food_client/internal/models"
	"github.com/Skotchmaster/food_client/pkg/logging"
)

type DemoUser struct {
	Username string
	Email    string
	Password string
	Admin    bool
}

var DemoUsers = []DemoUser{
	{Username: "alice", Email: "alice@example.com", Password: "secret"},
	{Username: "admin", Email: "admin@example.com", Password: "admin", Admin: true},
}

func Restaurants() []models.Restaurant {
	return []models.Restaurant{
		{
			Name:        "Pasta Palace",
			Description: "Fresh pasta and wood-fired pizza",
			Address:     "12 Via Roma",
			Menus: []models.Menu{
				{Name: "Pasta", Dishes: []models.Dish{
					{Name: "Spaghetti Carbonara", Description: "Egg, pecorino, guanciale", Price: 12.5},
					{Name: "Penne Arrabbiata", Description: "Spicy tomato sauce", Price: 10},
				}},
				{Name: "Pizza", Dishes: []models.Dish{
					{Name: "Margherita", Description: "Tomato, mozzarella, basil", Price: 9.5},
					{Name: "Diavola", Description: "Spicy salami", Price: 11},
				}},
			},
		},
		{
			Name:        "Sushi Corner",
			Description: "Nigiri, maki and ramen",
			Address:     "3 Sakura Street",
			Menus: []models.Menu{
				{Name: "Rolls", Dishes: []models.Dish{
					{Name: "California Roll", Description: "Crab, avocado, cucumber", Price: 8},
					{Name: "Salmon Nigiri", Description: "Two pieces", Price: 6.25},
				}},
				{Name: "Hot", Dishes: []models.Dish{
					{Name: "Tonkotsu Ramen", Description: "Pork broth, chashu, egg", Price: 13.75},
				}},
			},
		},
		{
			Name:        "Burger Barn",
			Description: "Smash burgers and fries",
			Address:     "99 Main Road",
			Menus: []models.Menu{
				{Name: "Burgers", Dishes: []models.Dish{
					{Name: "Classic Burger", Description: "Beef, cheddar, pickles", Price: 9},
					{Name: "Veggie Burger", Description: "Black bean patty", Price: 8.5},
				}},
				{Name: "Sides", Dishes: []models.Dish{
					{Name: "Fries", Price: 3.5},
				}},
			},
		},
	}
}

// Run seeds restaurants when the table is empty and registers the demo users
// that do not exist yet.
func Run(ctx context.Context, r *repo.GormRepo, auth *service.AuthService) error {
	l := logging.FromContext(ctx).With("component", "seed")

	n, err := r.CountRestaurants(ctx)
	if err != nil {
		return fmt.Errorf("count restaurants: %w", err)
	}
	if n == 0 {
		for _, rest := range Restaurants() {
			if err := createRestaurant(ctx, r, &rest); err != nil {
				return err
			}
		}
		l.Info("seed_restaurants_done")
	}

	for _, u := range DemoUsers {
		resp, err := auth.Register(ctx, wire.RegisterRequest{Username: u.Username, Email: u.Email, Password: u.Password})
		if err != nil {
			if errors.Is(err, service.ErrConflict) {
				continue
			}
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
		if u.Admin {
			if err := auth.MakeAdmin(ctx, resp.UserID); err != nil {
				return fmt.Errorf("seed admin %s: %w", u.Username, err)
			}
		}
	}
	return nil
}

// createRestaurant inserts the restaurant first so its id can be copied onto
// every dish.
func createRestaurant(ctx context.Context, r *repo.GormRepo, rest *models.Restaurant) error {
	menus := rest.Menus
	rest.Menus = nil
	if err := r.CreateRestaurant(ctx, rest); err != nil {
		return fmt.Errorf("create restaurant %s: %w", rest.Name, err)
	}
	for mi := range menus {
		menus[mi].RestaurantID = rest.ID
		for di := range menus[mi].Dishes {
			menus[mi].Dishes[di].RestaurantID = rest.ID
		}
	}
	if err := r.CreateMenus(ctx, menus); err != nil {
		return fmt.Errorf("create menus for %s: %w", rest.Name, err)
	}
	rest.Menus = menus
	return nil
}
