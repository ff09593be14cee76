// Package cart holds the per-session shopping cart and its stores.
package cart

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MaxLineQuantity bounds the units of a single meal in one cart
const MaxLineQuantity = 1000

var (
	// ErrInvalidQuantity is returned when adding fewer than one unit
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrQuantityTooLarge is returned when a line would exceed MaxLineQuantity
	ErrQuantityTooLarge = fmt.Errorf("quantity must be at most %d", MaxLineQuantity)
	// ErrItemNotFound is returned when a line for the meal does not exist
	ErrItemNotFound = errors.New("cart item not found")
)

// Line is one meal in the cart. Name and UnitPrice are captured when the meal is first added.
type Line struct {
	MealID    uuid.UUID `json:"meal_id"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  int       `json:"quantity"`
}

// Subtotal returns the line price
func (l Line) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Cart is an ordered list of lines with at most one line per meal
type Cart struct {
	UserID    uuid.UUID `json:"user_id"`
	Items     []Line    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New returns an empty cart for the user
func New(userID uuid.UUID) *Cart {
	return &Cart{UserID: userID, Items: []Line{}}
}

// AddItem adds qty units of the line's meal, incrementing an existing line
func (c *Cart) AddItem(line Line, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if qty > MaxLineQuantity {
		return ErrQuantityTooLarge
	}
	if i := c.index(line.MealID); i >= 0 {
		if c.Items[i].Quantity > MaxLineQuantity-qty {
			return ErrQuantityTooLarge
		}
		c.Items[i].Quantity += qty
		return nil
	}
	line.Quantity = qty
	c.Items = append(c.Items, line)
	return nil
}

// RemoveItem drops the line for the meal
func (c *Cart) RemoveItem(mealID uuid.UUID) error {
	i := c.index(mealID)
	if i < 0 {
		return ErrItemNotFound
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return nil
}

// SetQuantity replaces the quantity of a line; qty <= 0 removes it
func (c *Cart) SetQuantity(mealID uuid.UUID, qty int) error {
	i := c.index(mealID)
	if i < 0 {
		return ErrItemNotFound
	}
	if qty <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return nil
	}
	if qty > MaxLineQuantity {
		return ErrQuantityTooLarge
	}
	c.Items[i].Quantity = qty
	return nil
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = []Line{}
}

// Len returns the number of lines
func (c *Cart) Len() int {
	return len(c.Items)
}

// Units returns the total number of units across all lines
func (c *Cart) Units() int {
	n := 0
	for _, l := range c.Items {
		n += l.Quantity
	}
	return n
}

// Total returns the sum of all line subtotals
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.Items {
		total += l.Subtotal()
	}
	return total
}

// Item returns the line for the meal
func (c *Cart) Item(mealID uuid.UUID) (Line, bool) {
	if i := c.index(mealID); i >= 0 {
		return c.Items[i], true
	}
	return Line{}, false
}

func (c *Cart) index(mealID uuid.UUID) int {
	for i, l := range c.Items {
		if l.MealID == mealID {
			return i
		}
	}
	return -1
}
