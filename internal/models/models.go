package models

import "time"

type User struct {
	UserID      int64    `json:"userId"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	FullName    string   `json:"fullName,omitempty"`
	Address     string   `json:"address,omitempty"`
	PhoneNumber string   `json:"phoneNumber,omitempty"`
}

// ProfileUpdate carries the editable profile fields; nil means "leave as is".
type ProfileUpdate struct {
	FullName    *string `json:"fullName,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Address     *string `json:"address,omitempty"`
}

// Apply merges the non-nil fields of p into u.
func (p ProfileUpdate) Apply(u *User) {
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = *p.PhoneNumber
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
}

type LoginRequest struct {
	LoginIdentifier string `json:"loginIdentifier"`
	Password        string `json:"password"`
}

type LoginResponse struct {
	Token       string   `json:"token"`
	UserID      int64    `json:"userId"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	FullName    string   `json:"fullName,omitempty"`
	Address     string   `json:"address,omitempty"`
	PhoneNumber string   `json:"phoneNumber,omitempty"`
}

func (r LoginResponse) User() User {
	return User{
		UserID:      r.UserID,
		Username:    r.Username,
		Email:       r.Email,
		Roles:       r.Roles,
		FullName:    r.FullName,
		Address:     r.Address,
		PhoneNumber: r.PhoneNumber,
	}
}

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
}

type RegisterResponse struct {
	Message  string `json:"message"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

type Dish struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	RestaurantID int64   `json:"restaurantId"`
}

type Menu struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Dishes []Dish `json:"dishes"`
}

type Restaurant struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Address     string  `json:"address,omitempty"`
	Rating      float64 `json:"rating"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Menus       []Menu  `json:"menus,omitempty"`
}

type CartItem struct {
	ID             int64   `json:"id"`
	DishID         int64   `json:"dishId"`
	DishName       string  `json:"dishName"`
	UnitPrice      float64 `json:"unitPrice"`
	Quantity       int     `json:"quantity"`
	TotalItemPrice float64 `json:"totalItemPrice"`
	DishImageURL   string  `json:"dishImageUrl,omitempty"`
	RestaurantID   int64   `json:"restaurantId,omitempty"`
}

type Cart struct {
	ID         int64      `json:"id"`
	Items      []CartItem `json:"items"`
	TotalPrice float64    `json:"totalPrice"`
}

func (c *Cart) Empty() bool {
	return c == nil || len(c.Items) == 0
}

type AddCartItemRequest struct {
	DishID   int64 `json:"dishId"`
	Quantity int   `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type OrderLine struct {
	DishID   int64 `json:"dishId"`
	Quantity int   `json:"quantity"`
}

type PlaceOrderRequest struct {
	RestaurantID    int64       `json:"restaurantId"`
	ShippingAddress string      `json:"shippingAddress,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	OrderItems      []OrderLine `json:"orderItems"`
}

type OrderItem struct {
	ID             int64   `json:"id"`
	DishID         int64   `json:"dishId"`
	DishName       string  `json:"dishName"`
	UnitPrice      float64 `json:"unitPrice"`
	Quantity       int     `json:"quantity"`
	TotalItemPrice float64 `json:"totalItemPrice"`
}

type Order struct {
	ID              int64       `json:"id"`
	RestaurantID    int64       `json:"restaurantId"`
	ShippingAddress string      `json:"shippingAddress"`
	Notes           string      `json:"notes,omitempty"`
	Status          OrderStatus `json:"status"`
	OrderItems      []OrderItem `json:"orderItems"`
	TotalAmount     float64     `json:"totalAmount"`
	OrderDate       time.Time   `json:"orderDate"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}

type Review struct {
	ID           int64     `json:"id"`
	RestaurantID int64     `json:"restaurantId"`
	UserID       int64     `json:"userId"`
	Username     string    `json:"username"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type NewReview struct {
	RestaurantID int64  `json:"restaurantId"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment,omitempty"`
}

// ErrorResponse is the error body every backend endpoint answers with.
type ErrorResponse struct {
	Message string `json:"message"`
}
