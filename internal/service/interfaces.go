package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/mummysfood/backend/internal/cart"
	"github.com/mummysfood/backend/internal/geo"
	"github.com/mummysfood/backend/internal/models"
	"github.com/mummysfood/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*types.AuthResponse, error)
	Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *types.UpdateUserRequest) (*models.User, error)
	BecomeChef(ctx context.Context, userID uuid.UUID, specialty string) (*models.User, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.ProfileResponse, error)
	UploadProfilePicture(ctx context.Context, userID uuid.UUID, upload *Upload) (*models.User, error)
}

// IAddressService defines the interface for a user's saved addresses
type IAddressService interface {
	Add(ctx context.Context, userID uuid.UUID, req *types.AddressRequest) (*models.Address, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	Get(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, req *types.UpdateAddressRequest) (*models.Address, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
	SetActive(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
}

// IMealService defines the interface for meal operations
type IMealService interface {
	Search(ctx context.Context, q *MealQuery) (*MealPage, error)
	FilterOptions(ctx context.Context) (*FilterOptions, error)
	Create(ctx context.Context, userID uuid.UUID, req *types.CreateMealRequest) (*models.Meal, error)
	Get(ctx context.Context, mealID uuid.UUID) (*models.Meal, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Meal, error)
	Update(ctx context.Context, userID, mealID uuid.UUID, req *types.UpdateMealRequest) (*models.Meal, error)
	Delete(ctx context.Context, userID, mealID uuid.UUID) error
	AddImages(ctx context.Context, userID, mealID uuid.UUID, uploads []*Upload) (*models.Meal, error)
}

// ICartService defines the interface for the session cart
type ICartService interface {
	Get(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
	AddItem(ctx context.Context, userID, mealID uuid.UUID, qty int) (*cart.Cart, error)
	SetQuantity(ctx context.Context, userID, mealID uuid.UUID, qty int) (*cart.Cart, error)
	RemoveItem(ctx context.Context, userID, mealID uuid.UUID) (*cart.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// Geocoder resolves a point into a postal address
type Geocoder interface {
	ReverseGeocode(ctx context.Context, point geo.Point) (*Place, error)
}

// ImageStore persists uploaded images and returns their public URL
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}
