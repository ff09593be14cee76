package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mummysfood/backend/internal/database"
	"github.com/mummysfood/backend/internal/middleware"
	"github.com/mummysfood/backend/internal/service"
)

// Services are the domain services behind the API
type Services struct {
	Auth    service.IAuthService
	Profile service.IProfileService
	Address service.IAddressService
	Meal    service.IMealService
	Cart    service.ICartService
}

// Limiters are optional per-user rate limiters; nil limiters let every request through
type Limiters struct {
	MealCreation *middleware.RateLimiter
	ImageUpload  *middleware.RateLimiter
}

// HealthCheck reports whether the API can reach its database
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.HealthCheck(ctx, db); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Mummy's Food API is running",
		})
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, db *gorm.DB, svc *Services, limits Limiters) {
	useJSONFieldNames()

	router.GET("/health", HealthCheck(db))

	api := router.Group("/api")
	api.GET("/health", HealthCheck(db))

	NewAuthHandler(svc.Auth).RegisterRoutes(api)
	NewProfileHandler(svc.Profile, svc.Auth, limits.ImageUpload).RegisterRoutes(api)
	NewAddressHandler(svc.Address, svc.Auth).RegisterRoutes(api)
	NewMealHandler(svc.Meal, svc.Auth, limits.MealCreation, limits.ImageUpload).RegisterRoutes(api)
	NewCartHandler(svc.Cart, svc.Auth).RegisterRoutes(api)
}
