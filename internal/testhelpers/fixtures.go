package testhelpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mummysfood/backend/internal/models"
	"github.com/mummysfood/backend/internal/types"
)

// TestJWTSecret signs tokens created by CreateTestUserAndToken
const TestJWTSecret = "test-jwt-secret"

// TestPassword is the password of every user created by CreateTestUser
const TestPassword = "password123"

// Logger returns a logger that discards everything
func Logger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// CreateTestUser inserts a user with TestPassword
func CreateTestUser(t *testing.T, db *gorm.DB, isChef bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	suffix := uuid.NewString()[:8]
	user := &models.User{
		Name:         "Test User " + suffix,
		Username:     "user_" + suffix,
		Email:        "user_" + suffix + "@example.com",
		PasswordHash: string(hash),
		Phone:        "555-0100",
		IsChef:       isChef,
	}
	if isChef {
		user.ChefSpecialty = "home cooking"
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAddress inserts an address for the user at the given point
func CreateTestAddress(t *testing.T, db *gorm.DB, userID uuid.UUID, lat, lng float64) *models.Address {
	t.Helper()

	addr := &models.Address{
		UserID:    userID,
		Street:    "1 Test Street",
		City:      "Testville",
		Country:   "Testland",
		Latitude:  lat,
		Longitude: lng,
	}
	addr.FormattedAddress = addr.Format()
	if err := db.Create(addr).Error; err != nil {
		t.Fatalf("failed to create test address: %v", err)
	}
	return addr
}

// CreateTestMeal inserts a meal; mutate may adjust it before saving
func CreateTestMeal(t *testing.T, db *gorm.DB, userID, addressID uuid.UUID, mutate func(*models.Meal)) *models.Meal {
	t.Helper()

	meal := &models.Meal{
		Name:                  "Test Meal",
		Description:           "A tasty test meal",
		Price:                 10,
		Category:              "Main",
		Cuisine:               "Fusion",
		Ingredients:           models.StringArray{},
		DietaryRestrictions:   models.StringArray{},
		Images:                models.StringArray{},
		PickupDeliveryOptions: models.StringArray{"pickup"},
		PaymentOptions:        models.StringArray{"cash"},
		Tags:                  models.StringArray{},
		NutritionalInfo:       models.NutritionalInfo{Vitamins: models.StringArray{}},
		QuantityAvailable:     5,
		SellerRating:          4,
		AddressID:             addressID,
		UserID:                userID,
	}
	if mutate != nil {
		mutate(meal)
	}
	if err := db.Create(meal).Error; err != nil {
		t.Fatalf("failed to create test meal: %v", err)
	}
	return meal
}

// CreateTestToken signs a token for the user with TestJWTSecret
func CreateTestToken(t *testing.T, user *models.User) string {
	t.Helper()

	now := time.Now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UserID:   user.ID,
		Username: user.Username,
		IsChef:   user.IsChef,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}
