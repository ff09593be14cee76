package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mummysfood/backend/internal/cart"
	"github.com/mummysfood/backend/internal/middleware"
	"github.com/mummysfood/backend/internal/service"
	"github.com/mummysfood/backend/internal/types"
)

type CartHandler struct {
	cartService service.ICartService
	authService service.IAuthService
}

func NewCartHandler(cartService service.ICartService, authService service.IAuthService) *CartHandler {
	return &CartHandler{cartService: cartService, authService: authService}
}

func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup) {
	carts := router.Group("/cart")
	carts.Use(middleware.AuthMiddleware(h.authService))
	{
		carts.GET("", h.Get)
		carts.DELETE("", h.Clear)
		carts.POST("/items", h.AddItem)
		carts.PUT("/items/:mealId", h.SetQuantity)
		carts.DELETE("/items/:mealId", h.RemoveItem)
	}
}

type cartLine struct {
	cart.Line
	Subtotal float64 `json:"subtotal"`
}

type cartResponse struct {
	UserID    uuid.UUID  `json:"user_id"`
	Items     []cartLine `json:"items"`
	Units     int        `json:"units"`
	Total     float64    `json:"total"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func newCartResponse(c *cart.Cart) cartResponse {
	items := make([]cartLine, 0, len(c.Items))
	for _, l := range c.Items {
		items = append(items, cartLine{Line: l, Subtotal: l.Subtotal()})
	}
	return cartResponse{
		UserID:    c.UserID,
		Items:     items,
		Units:     c.Units(),
		Total:     c.Total(),
		UpdatedAt: c.UpdatedAt,
	}
}

func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	crt, err := h.cartService.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(crt))
}

// AddItem adds a meal to the cart; quantity defaults to one
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.AddCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.MealID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meal_id: is required", "field": "meal_id"})
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	crt, err := h.cartService.AddItem(c.Request.Context(), userID, req.MealID, qty)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(crt))
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	mealID, ok := pathID(c, "mealId")
	if !ok {
		return
	}
	var req types.UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	crt, err := h.cartService.SetQuantity(c.Request.Context(), userID, mealID, *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(crt))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	mealID, ok := pathID(c, "mealId")
	if !ok {
		return
	}

	crt, err := h.cartService.RemoveItem(c.Request.Context(), userID, mealID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(crt))
}

func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
