package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mummysfood/backend/internal/middleware"
	"github.com/mummysfood/backend/internal/service"
	"github.com/mummysfood/backend/internal/types"
)

const mealImagesField = "images"

type MealHandler struct {
	mealService     service.IMealService
	authService     service.IAuthService
	creationLimiter *middleware.RateLimiter
	uploadLimiter   *middleware.RateLimiter
}

func NewMealHandler(mealService service.IMealService, authService service.IAuthService, creationLimiter, uploadLimiter *middleware.RateLimiter) *MealHandler {
	return &MealHandler{
		mealService:     mealService,
		authService:     authService,
		creationLimiter: creationLimiter,
		uploadLimiter:   uploadLimiter,
	}
}

func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)

	meals := router.Group("/meals")
	{
		meals.GET("", h.Search)
		meals.GET("/filters", h.FilterOptions)
		meals.GET("/user", auth, h.ListMine)
		meals.GET("/:id", h.Get)
		meals.POST("", auth, h.creationLimiter.Middleware(), h.Create)
		meals.PUT("/:id", auth, h.Update)
		meals.DELETE("/:id", auth, h.Delete)
		meals.POST("/:id/images", auth, h.uploadLimiter.Middleware(), h.AddImages)
	}
}

// Search lists meals matching the query string filters
func (h *MealHandler) Search(c *gin.Context) {
	q, err := service.ParseMealQuery(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.mealService.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *MealHandler) FilterOptions(c *gin.Context) {
	opts, err := h.mealService.FilterOptions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

func (h *MealHandler) ListMine(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	meals, err := h.mealService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": meals})
}

func (h *MealHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	meal, err := h.mealService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.CreateMealRequest
	if !bindJSON(c, &req) {
		return
	}

	meal, err := h.mealService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func (h *MealHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.UpdateMealRequest
	if !bindJSON(c, &req) {
		return
	}

	meal, err := h.mealService.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.mealService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddImages accepts one or more files in the "images" multipart field
func (h *MealHandler) AddImages(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File[mealImagesField]) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "images: at least one file is required", "field": mealImagesField})
		return
	}

	uploads := make([]*service.Upload, 0, len(form.File[mealImagesField]))
	for _, fh := range form.File[mealImagesField] {
		upload, err := readUpload(fh)
		if err != nil {
			respondError(c, err)
			return
		}
		uploads = append(uploads, upload)
	}

	meal, err := h.mealService.AddImages(c.Request.Context(), userID, id, uploads)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}
