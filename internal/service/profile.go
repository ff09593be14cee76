package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mummysfood/backend/internal/models"
	"github.com/mummysfood/backend/internal/types"
)

// ProfileService handles user profile operations
type ProfileService struct {
	db     *gorm.DB
	images *ImageService
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB, images *ImageService) *ProfileService {
	return &ProfileService{
		db:     db,
		images: images,
	}
}

// GetProfile returns the user with their addresses and active address
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.ProfileResponse, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Addresses", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("ActiveAddress").
		First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "user", ID: userID.String()}
	}
	if err != nil {
		return nil, err
	}

	addresses := user.Addresses
	if addresses == nil {
		addresses = []models.Address{}
	}
	return &types.ProfileResponse{
		User:          &user,
		Addresses:     addresses,
		ActiveAddress: user.ActiveAddress,
	}, nil
}

// UploadProfilePicture stores a new profile picture and points the user at it
func (s *ProfileService) UploadProfilePicture(ctx context.Context, userID uuid.UUID, upload *Upload) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "user", ID: userID.String()}
		}
		return nil, err
	}

	url, err := s.images.Upload(ctx, "profile-pictures/"+userID.String(), upload)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&user).Update("profile_picture", url).Error; err != nil {
		return nil, err
	}
	user.ProfilePicture = url
	return &user, nil
}
