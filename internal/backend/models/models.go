// Package models holds the dev backend's gorm tables and their wire views.
package models

import (
	"math"
	"strings"
	"time"

	wire "github.com/Skotchmaster/food_client/internal/models"
)

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"uniqueIndex;size:64;not null"`
	Email        string    `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `gorm:"not null"`
	Roles        string    `gorm:"size:128;not null"`
	FullName     string    `gorm:"size:255"`
	Address      string    `gorm:"size:512"`
	PhoneNumber  string    `gorm:"size:32"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (u *User) RoleList() []string {
	if u.Roles == "" {
		return []string{}
	}
	return strings.Split(u.Roles, ",")
}

func (u *User) DTO() wire.User {
	return wire.User{
		UserID:      u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Roles:       u.RoleList(),
		FullName:    u.FullName,
		Address:     u.Address,
		PhoneNumber: u.PhoneNumber,
	}
}

type Restaurant struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"size:255;not null"`
	Description string  `gorm:"type:text"`
	Address     string  `gorm:"size:512"`
	Rating      float64 `gorm:"not null;default:0"`
	ImageURL    string  `gorm:"size:512"`
	Menus       []Menu  `gorm:"constraint:OnDelete:CASCADE"`
}

func (r *Restaurant) DTO(withMenus bool) wire.Restaurant {
	out := wire.Restaurant{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Address:     r.Address,
		Rating:      r.Rating,
		ImageURL:    r.ImageURL,
	}
	if withMenus {
		out.Menus = make([]wire.Menu, 0, len(r.Menus))
		for i := range r.Menus {
			out.Menus = append(out.Menus, r.Menus[i].DTO())
		}
	}
	return out
}

type Menu struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	RestaurantID int64  `gorm:"index;not null"`
	Name         string `gorm:"size:255;not null"`
	Dishes       []Dish `gorm:"constraint:OnDelete:CASCADE"`
}

func (m *Menu) DTO() wire.Menu {
	out := wire.Menu{ID: m.ID, Name: m.Name, Dishes: make([]wire.Dish, 0, len(m.Dishes))}
	for i := range m.Dishes {
		out.Dishes = append(out.Dishes, m.Dishes[i].DTO())
	}
	return out
}

type Dish struct {
	ID           int64   `gorm:"primaryKey;autoIncrement"`
	MenuID       int64   `gorm:"index;not null"`
	RestaurantID int64   `gorm:"index;not null"`
	Name         string  `gorm:"size:255;not null"`
	Description  string  `gorm:"type:text"`
	Price        float64 `gorm:"not null"`
	ImageURL     string  `gorm:"size:512"`
}

func (d *Dish) DTO() wire.Dish {
	return wire.Dish{
		ID:           d.ID,
		Name:         d.Name,
		Description:  d.Description,
		Price:        d.Price,
		ImageURL:     d.ImageURL,
		RestaurantID: d.RestaurantID,
	}
}

type CartItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	UserID    int64 `gorm:"uniqueIndex:idx_user_dish;not null"`
	DishID    int64 `gorm:"uniqueIndex:idx_user_dish;not null"`
	Quantity  int   `gorm:"not null;default:1;check:quantity > 0"`
	Dish      Dish
	CreatedAt time.Time
}

func (CartItem) TableName() string {
	return "cart_items"
}

// CartDTO prices the cart lines. The cart id is the owner's user id.
func CartDTO(userID int64, items []CartItem) wire.Cart {
	out := wire.Cart{ID: userID, Items: make([]wire.CartItem, 0, len(items))}
	var total float64
	for i := range items {
		it := &items[i]
		line := Round2(it.Dish.Price * float64(it.Quantity))
		total += line
		out.Items = append(out.Items, wire.CartItem{
			ID:             it.ID,
			DishID:         it.DishID,
			DishName:       it.Dish.Name,
			UnitPrice:      it.Dish.Price,
			Quantity:       it.Quantity,
			TotalItemPrice: line,
			DishImageURL:   it.Dish.ImageURL,
			RestaurantID:   it.Dish.RestaurantID,
		})
	}
	out.TotalPrice = Round2(total)
	return out
}

type Order struct {
	ID              int64       `gorm:"primaryKey;autoIncrement"`
	UserID          int64       `gorm:"index;not null"`
	RestaurantID    int64       `gorm:"index;not null"`
	ShippingAddress string      `gorm:"size:512;not null"`
	Notes           string      `gorm:"type:text"`
	Status          string      `gorm:"size:32;not null"`
	TotalAmount     float64     `gorm:"not null"`
	Items           []OrderItem `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time   `gorm:"index;not null"`
	UpdatedAt       time.Time
}

func (o *Order) DTO() wire.Order {
	out := wire.Order{
		ID:              o.ID,
		RestaurantID:    o.RestaurantID,
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		Status:          wire.OrderStatus(o.Status),
		TotalAmount:     o.TotalAmount,
		OrderDate:       o.CreatedAt,
		OrderItems:      make([]wire.OrderItem, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		out.OrderItems = append(out.OrderItems, wire.OrderItem{
			ID:             it.ID,
			DishID:         it.DishID,
			DishName:       it.DishName,
			UnitPrice:      it.UnitPrice,
			Quantity:       it.Quantity,
			TotalItemPrice: it.LineTotal,
		})
	}
	return out
}

type OrderItem struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"`
	OrderID   int64   `gorm:"index;not null"`
	DishID    int64   `gorm:"not null"`
	DishName  string  `gorm:"size:255;not null"`
	UnitPrice float64 `gorm:"not null"`
	Quantity  int     `gorm:"not null;check:quantity > 0"`
	LineTotal float64 `gorm:"not null"`
}

type Review struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	RestaurantID int64     `gorm:"index;not null"`
	UserID       int64     `gorm:"index;not null"`
	Username     string    `gorm:"size:64;not null"`
	Rating       int       `gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Comment      string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"index;not null"`
}

func (r *Review) DTO() wire.Review {
	return wire.Review{
		ID:           r.ID,
		RestaurantID: r.RestaurantID,
		UserID:       r.UserID,
		Username:     r.Username,
		Rating:       r.Rating,
		Comment:      r.Comment,
		CreatedAt:    r.CreatedAt,
	}
}

// All lists every table for AutoMigrate.
func All() []any {
	return []any{&User{}, &Restaurant{}, &Menu{}, &Dish{}, &CartItem{}, &Order{}, &OrderItem{}, &Review{}}
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
