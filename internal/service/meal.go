package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mummysfood/backend/internal/models"
	"github.com/mummysfood/backend/internal/types"
)

const maxSellerRating = 5

// MealService handles meal operations
type MealService struct {
	db      *gorm.DB
	queries *MealQueryBuilder
	images  *ImageService
	log     *zap.SugaredLogger
}

var _ IMealService = (*MealService)(nil)

// NewMealService creates a new MealService instance
func NewMealService(db *gorm.DB, images *ImageService, log *zap.SugaredLogger) *MealService {
	return &MealService{
		db:      db,
		queries: NewMealQueryBuilder(db),
		images:  images,
		log:     log,
	}
}

// Search runs a meal search
func (s *MealService) Search(ctx context.Context, q *MealQuery) (*MealPage, error) {
	return s.queries.Apply(ctx, q)
}

// FilterOptions lists the values available for each search filter
func (s *MealService) FilterOptions(ctx context.Context) (*FilterOptions, error) {
	return s.queries.FilterOptions(ctx)
}

// Create lists a new meal for a chef at one of their addresses
func (s *MealService) Create(ctx context.Context, userID uuid.UUID, req *types.CreateMealRequest) (*models.Meal, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsChef {
		return nil, &AuthorizationError{Action: "create meals without a chef account"}
	}

	meal := &models.Meal{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Category:    strings.TrimSpace(req.Category),
		Cuisine:     strings.TrimSpace(req.Cuisine),
		PortionSize: strings.TrimSpace(req.PortionSize),
		Ingredients: cleanList(req.Ingredients, false),
		NutritionalInfo: models.NutritionalInfo{
			Calories: req.NutritionalInfo.Calories,
			Protein:  req.NutritionalInfo.Protein,
			Fat:      req.NutritionalInfo.Fat,
			Carbs:    req.NutritionalInfo.Carbs,
			Vitamins: cleanList(req.NutritionalInfo.Vitamins, true),
		},
		DietaryRestrictions:   cleanList(req.DietaryRestrictions, true),
		Images:                cleanList(req.Images, false),
		AddressID:             req.AddressID,
		PickupDeliveryOptions: cleanList(req.PickupDeliveryOptions, true),
		PaymentOptions:        cleanList(req.PaymentOptions, true),
		Tags:                  cleanList(req.Tags, true),
		QuantityAvailable:     req.QuantityAvailable,
		SellerRating:          req.SellerRating,
		UserID:                userID,
	}
	if err := validateMeal(meal); err != nil {
		return nil, err
	}
	if err := s.checkAddress(ctx, userID, meal.AddressID); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, err
	}

	s.log.Infow("meal created", "meal_id", meal.ID, "user_id", userID)
	return s.Get(ctx, meal.ID)
}

// Get retrieves a meal by ID
func (s *MealService) Get(ctx context.Context, mealID uuid.UUID) (*models.Meal, error) {
	var meal models.Meal
	if err := s.db.WithContext(ctx).Preload("Address").First(&meal, "id = ?", mealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "meal", ID: mealID.String()}
		}
		return nil, err
	}
	return &meal, nil
}

// ListByUser lists the meals created by a user, newest first
func (s *MealService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Meal, error) {
	meals := []models.Meal{}
	if err := s.db.WithContext(ctx).Preload("Address").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}

// Update applies a partial update; only the creator may change a meal
func (s *MealService) Update(ctx context.Context, userID, mealID uuid.UUID, req *types.UpdateMealRequest) (*models.Meal, error) {
	meal, err := s.ownedMeal(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		meal.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		meal.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		meal.Price = *req.Price
	}
	if req.Category != nil {
		meal.Category = strings.TrimSpace(*req.Category)
	}
	if req.Cuisine != nil {
		meal.Cuisine = strings.TrimSpace(*req.Cuisine)
	}
	if req.PortionSize != nil {
		meal.PortionSize = strings.TrimSpace(*req.PortionSize)
	}
	if req.Ingredients != nil {
		meal.Ingredients = cleanList(req.Ingredients, false)
	}
	if req.DietaryRestrictions != nil {
		meal.DietaryRestrictions = cleanList(req.DietaryRestrictions, true)
	}
	if req.NutritionalInfo != nil {
		meal.NutritionalInfo = models.NutritionalInfo{
			Calories: req.NutritionalInfo.Calories,
			Protein:  req.NutritionalInfo.Protein,
			Fat:      req.NutritionalInfo.Fat,
			Carbs:    req.NutritionalInfo.Carbs,
			Vitamins: cleanList(req.NutritionalInfo.Vitamins, true),
		}
	}
	if req.PickupDeliveryOptions != nil {
		meal.PickupDeliveryOptions = cleanList(req.PickupDeliveryOptions, true)
	}
	if req.PaymentOptions != nil {
		meal.PaymentOptions = cleanList(req.PaymentOptions, true)
	}
	if req.Tags != nil {
		meal.Tags = cleanList(req.Tags, true)
	}
	if req.QuantityAvailable != nil {
		meal.QuantityAvailable = *req.QuantityAvailable
	}
	if req.SellerRating != nil {
		meal.SellerRating = *req.SellerRating
	}
	if req.AddressID != nil && *req.AddressID != meal.AddressID {
		if err := s.checkAddress(ctx, userID, *req.AddressID); err != nil {
			return nil, err
		}
		meal.AddressID = *req.AddressID
	}

	if err := validateMeal(meal); err != nil {
		return nil, err
	}

	meal.Address = nil
	if err := s.db.WithContext(ctx).Save(meal).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, mealID)
}

// Delete removes a meal; only the creator may delete it
func (s *MealService) Delete(ctx context.Context, userID, mealID uuid.UUID) error {
	meal, err := s.ownedMeal(ctx, userID, mealID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(meal).Error; err != nil {
		return err
	}
	s.log.Infow("meal deleted", "meal_id", mealID, "user_id", userID)
	return nil
}

// AddImages uploads the files and appends their URLs to the meal images in order
func (s *MealService) AddImages(ctx context.Context, userID, mealID uuid.UUID, uploads []*Upload) (*models.Meal, error) {
	if len(uploads) == 0 {
		return nil, newValidationError("images", "at least one file is required")
	}
	meal, err := s.ownedMeal(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		url, err := s.images.Upload(ctx, "meals/"+mealID.String(), upload)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}

	images := append(models.StringArray{}, meal.Images...)
	images = append(images, urls...)
	if err := s.db.WithContext(ctx).Model(meal).Update("images", images).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, mealID)
}

func (s *MealService) user(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "user", ID: userID.String()}
		}
		return nil, err
	}
	return &user, nil
}

// ownedMeal loads a meal and rejects callers other than its creator
func (s *MealService) ownedMeal(ctx context.Context, userID, mealID uuid.UUID) (*models.Meal, error) {
	meal, err := s.Get(ctx, mealID)
	if err != nil {
		return nil, err
	}
	if meal.UserID != userID {
		return nil, &AuthorizationError{Action: "modify another chef's meal"}
	}
	return meal, nil
}

func (s *MealService) checkAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	if addressID == uuid.Nil {
		return newValidationError("address_id", "is required")
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Address{}).
		Where("id = ? AND user_id = ?", addressID, userID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &NotFoundError{Resource: "address", ID: addressID.String()}
	}
	return nil
}

func validateMeal(m *models.Meal) error {
	switch {
	case m.Name == "":
		return newValidationError("name", "is required")
	case m.Category == "":
		return newValidationError("category", "is required")
	case m.Price < 0 || math.IsNaN(m.Price) || math.IsInf(m.Price, 0):
		return newValidationError("price", "must be a non-negative number")
	case m.QuantityAvailable < 0:
		return newValidationError("quantity_available", "must not be negative")
	case m.SellerRating < 0 || m.SellerRating > maxSellerRating:
		return newValidationError("seller_rating", "must be between 0 and %d", maxSellerRating)
	}
	return nil
}

// cleanList trims entries and drops blanks; as a set it also drops duplicates
func cleanList(values []string, set bool) models.StringArray {
	out := models.StringArray{}
	seen := map[string]struct{}{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if set {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
		}
		out = append(out, v)
	}
	return out
}
