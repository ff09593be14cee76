package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mummysfood/backend/internal/middleware"
	"github.com/mummysfood/backend/internal/service"
	"github.com/mummysfood/backend/internal/types"
)

// AddressHandler handles the current user's saved addresses
type AddressHandler struct {
	addressService service.IAddressService
	authService    service.IAuthService
}

func NewAddressHandler(addressService service.IAddressService, authService service.IAuthService) *AddressHandler {
	return &AddressHandler{addressService: addressService, authService: authService}
}

func (h *AddressHandler) RegisterRoutes(router *gin.RouterGroup) {
	addresses := router.Group("/addresses")
	addresses.Use(middleware.AuthMiddleware(h.authService))
	{
		addresses.GET("", h.List)
		addresses.POST("", h.Add)
		addresses.GET("/:id", h.Get)
		addresses.PUT("/:id", h.Update)
		addresses.DELETE("/:id", h.Delete)
		addresses.POST("/:id/active", h.SetActive)
	}
}

func (h *AddressHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	addresses, err := h.addressService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": addresses})
}

func (h *AddressHandler) Add(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.AddressRequest
	if !bindJSON(c, &req) {
		return
	}

	addr, err := h.addressService.Add(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, addr)
}

func (h *AddressHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	addr, err := h.addressService.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, addr)
}

func (h *AddressHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.UpdateAddressRequest
	if !bindJSON(c, &req) {
		return
	}

	addr, err := h.addressService.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, addr)
}

func (h *AddressHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.addressService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AddressHandler) SetActive(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	addr, err := h.addressService.SetActive(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, addr)
}
