package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mummysfood/backend/internal/cart"
	"github.com/mummysfood/backend/internal/models"
)

// CartService edits the session cart of a user. Adding to the cart never reserves inventory.
type CartService struct {
	db    *gorm.DB
	store cart.Store
}

var _ ICartService = (*CartService)(nil)

// NewCartService creates a new CartService instance
func NewCartService(db *gorm.DB, store cart.Store) *CartService {
	return &CartService{db: db, store: store}
}

func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, &UpstreamError{Service: "cart store", Err: err}
	}
	return c, nil
}

// AddItem adds qty units of a meal, capturing its current name and price
func (s *CartService) AddItem(ctx context.Context, userID, mealID uuid.UUID, qty int) (*cart.Cart, error) {
	if qty < 1 {
		return nil, newValidationError("quantity", "must be at least 1")
	}
	if qty > cart.MaxLineQuantity {
		return nil, newValidationError("quantity", "must be at most %d", cart.MaxLineQuantity)
	}

	var meal models.Meal
	if err := s.db.WithContext(ctx).Select("id", "name", "price").First(&meal, "id = ?", mealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "meal", ID: mealID.String()}
		}
		return nil, err
	}

	line := cart.Line{MealID: meal.ID, Name: meal.Name, UnitPrice: meal.Price}
	return s.update(ctx, userID, func(c *cart.Cart) error {
		return c.AddItem(line, qty)
	})
}

// SetQuantity changes a line quantity; zero or less removes the line
func (s *CartService) SetQuantity(ctx context.Context, userID, mealID uuid.UUID, qty int) (*cart.Cart, error) {
	return s.update(ctx, userID, func(c *cart.Cart) error {
		return c.SetQuantity(mealID, qty)
	})
}

func (s *CartService) RemoveItem(ctx context.Context, userID, mealID uuid.UUID) (*cart.Cart, error) {
	return s.update(ctx, userID, func(c *cart.Cart) error {
		return c.RemoveItem(mealID)
	})
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		return &UpstreamError{Service: "cart store", Err: err}
	}
	return nil
}

func (s *CartService) update(ctx context.Context, userID uuid.UUID, fn func(*cart.Cart) error) (*cart.Cart, error) {
	c, err := s.store.Update(ctx, userID, fn)
	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, cart.ErrItemNotFound):
		return nil, &NotFoundError{Resource: "cart item"}
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrQuantityTooLarge):
		return nil, newValidationError("quantity", "%s", err.Error())
	default:
		return nil, &UpstreamError{Service: "cart store", Err: err}
	}
}
