package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mummysfood/backend/internal/middleware"
	"github.com/mummysfood/backend/internal/service"
)

const profilePictureField = "profilePicture"

type ProfileHandler struct {
	profileService service.IProfileService
	authService    service.IAuthService
	uploadLimiter  *middleware.RateLimiter
}

func NewProfileHandler(profileService service.IProfileService, authService service.IAuthService, uploadLimiter *middleware.RateLimiter) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		authService:    authService,
		uploadLimiter:  uploadLimiter,
	}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	profile.Use(middleware.AuthMiddleware(h.authService))
	{
		profile.GET("", h.GetProfile)
		profile.POST("/upload-profile-picture", h.uploadLimiter.Middleware(), h.UploadProfilePicture)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UploadProfilePicture(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	fh, err := c.FormFile(profilePictureField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profilePicture: file is required", "field": profilePictureField})
		return
	}
	upload, err := readUpload(fh)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.profileService.UploadProfilePicture(c.Request.Context(), userID, upload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
