package types

import (
	"github.com/google/uuid"
)

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Name          string `json:"name" binding:"required"`
	Username      string `json:"username" binding:"required,min=3,max=50"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6"`
	Phone         string `json:"phone" binding:"required"`
	IsChef        bool   `json:"is_chef"`
	ChefSpecialty string `json:"chef_specialty"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest represents a partial update of the current user's settings
type UpdateUserRequest struct {
	Name          *string `json:"name,omitempty"`
	Username      *string `json:"username,omitempty" binding:"omitempty,min=3,max=50"`
	Phone         *string `json:"phone,omitempty"`
	Password      *string `json:"password,omitempty" binding:"omitempty,min=6"`
	ChefSpecialty *string `json:"chef_specialty,omitempty"`
}

// BecomeChefRequest represents the request body for switching to a chef account
type BecomeChefRequest struct {
	Specialty string `json:"specialty" binding:"required"`
}

// AddressRequest represents the request body for saving an address
type AddressRequest struct {
	Street           string   `json:"street"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	PostalCode       string   `json:"postal_code"`
	Country          string   `json:"country"`
	FormattedAddress string   `json:"formatted_address"`
	Latitude         *float64 `json:"latitude" binding:"required"`
	Longitude        *float64 `json:"longitude" binding:"required"`
	SetActive        bool     `json:"set_active"`
}

// UpdateAddressRequest represents a partial address update
type UpdateAddressRequest struct {
	Street           *string  `json:"street,omitempty"`
	City             *string  `json:"city,omitempty"`
	State            *string  `json:"state,omitempty"`
	PostalCode       *string  `json:"postal_code,omitempty"`
	Country          *string  `json:"country,omitempty"`
	FormattedAddress *string  `json:"formatted_address,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
}

// NutritionalInfo is the nutrition block of a meal request
type NutritionalInfo struct {
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
	Fat      float64  `json:"fat"`
	Carbs    float64  `json:"carbs"`
	Vitamins []string `json:"vitamins"`
}

// CreateMealRequest represents the request body for creating a meal
type CreateMealRequest struct {
	Name                  string          `json:"name" binding:"required"`
	Description           string          `json:"description"`
	Price                 float64         `json:"price"`
	Category              string          `json:"category" binding:"required"`
	Cuisine               string          `json:"cuisine"`
	PortionSize           string          `json:"portion_size"`
	Ingredients           []string        `json:"ingredients"`
	DietaryRestrictions   []string        `json:"dietary_restrictions"`
	NutritionalInfo       NutritionalInfo `json:"nutritional_info"`
	Images                []string        `json:"images"`
	AddressID             uuid.UUID       `json:"address_id"`
	PickupDeliveryOptions []string        `json:"pickup_delivery_options"`
	PaymentOptions        []string        `json:"payment_options"`
	Tags                  []string        `json:"tags"`
	QuantityAvailable     int             `json:"quantity_available"`
	SellerRating          float64         `json:"seller_rating"`
}

// UpdateMealRequest represents a partial meal update; nil fields are left unchanged
type UpdateMealRequest struct {
	Name                  *string          `json:"name,omitempty"`
	Description           *string          `json:"description,omitempty"`
	Price                 *float64         `json:"price,omitempty"`
	Category              *string          `json:"category,omitempty"`
	Cuisine               *string          `json:"cuisine,omitempty"`
	PortionSize           *string          `json:"portion_size,omitempty"`
	Ingredients           []string         `json:"ingredients,omitempty"`
	DietaryRestrictions   []string         `json:"dietary_restrictions,omitempty"`
	NutritionalInfo       *NutritionalInfo `json:"nutritional_info,omitempty"`
	AddressID             *uuid.UUID       `json:"address_id,omitempty"`
	PickupDeliveryOptions []string         `json:"pickup_delivery_options,omitempty"`
	PaymentOptions        []string         `json:"payment_options,omitempty"`
	Tags                  []string         `json:"tags,omitempty"`
	QuantityAvailable     *int             `json:"quantity_available,omitempty"`
	SellerRating          *float64         `json:"seller_rating,omitempty"`
}

// AddCartItemRequest represents the request body for adding a meal to the cart
type AddCartItemRequest struct {
	MealID   uuid.UUID `json:"meal_id"`
	Quantity *int      `json:"quantity,omitempty" binding:"omitempty,min=1,max=1000"`
}

// UpdateCartItemRequest represents the request body for changing a cart line quantity
// A quantity of 0 removes the line.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0,max=1000"`
}
