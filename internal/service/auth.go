package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mummysfood/backend/internal/models"
	"github.com/mummysfood/backend/internal/types"
)

const (
	minChefSpecialtyLength = 3
	defaultTokenTTL        = 24 * time.Hour
)

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	tokenTTL  time.Duration
	revoker   TokenRevoker
	log       *zap.SugaredLogger
}

var _ IAuthService = (*AuthService)(nil)

func NewAuthService(db *gorm.DB, jwtSecret string, tokenTTL time.Duration, revoker TokenRevoker, log *zap.SugaredLogger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	if revoker == nil {
		revoker = NewMemoryTokenRevoker()
	}
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		revoker:   revoker,
		log:       log,
	}
}

func (s *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (*types.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)
	specialty := strings.TrimSpace(req.ChefSpecialty)

	if req.IsChef && len(specialty) < minChefSpecialtyLength {
		return nil, newValidationError("chef_specialty", "must be at least %d characters for chefs", minChefSpecialtyLength)
	}
	if !req.IsChef {
		specialty = ""
	}

	// Check if user already exists
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, newValidationError("email", "is already registered")
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, newValidationError("username", "is already taken")
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:          strings.TrimSpace(req.Name),
		Username:      username,
		Email:         email,
		PasswordHash:  string(hashedPassword),
		Phone:         strings.TrimSpace(req.Phone),
		IsChef:        req.IsChef,
		ChefSpecialty: specialty,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return nil, err
	}

	s.log.Infow("user registered", "user_id", user.ID, "is_chef", user.IsChef)
	return &types.AuthResponse{Token: token, User: &user}, nil
}

func (s *AuthService) Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Compare password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return nil, err
	}

	return &types.AuthResponse{Token: token, User: &user}, nil
}

// Logout revokes the token described by claims
func (s *AuthService) Logout(ctx context.Context, claims *types.TokenClaims) error {
	if claims.ID == "" || claims.ExpiresAt == nil {
		return ErrInvalidToken
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return &UpstreamError{Service: "session store", Err: err}
	}
	return nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		UserID:   user.ID,
		Username: user.Username,
		IsChef:   user.IsChef,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.log.Errorw("failed to check token revocation", "user_id", claims.UserID, "error", err)
		return nil, &UpstreamError{Service: "session store", Err: err}
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "user", ID: userID.String()}
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies the non-nil fields of req to the user's settings
func (s *AuthService) UpdateUser(ctx context.Context, userID uuid.UUID, req *types.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, newValidationError("name", "must not be empty")
		}
		updates["name"] = name
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username != user.Username {
			var count int64
			if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ? AND id <> ?", username, userID).Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, newValidationError("username", "is already taken")
			}
		}
		updates["username"] = username
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password_hash"] = string(hashed)
	}
	if req.ChefSpecialty != nil {
		if !user.IsChef {
			return nil, newValidationError("chef_specialty", "only chefs have a specialty")
		}
		specialty := strings.TrimSpace(*req.ChefSpecialty)
		if len(specialty) < minChefSpecialtyLength {
			return nil, newValidationError("chef_specialty", "must be at least %d characters", minChefSpecialtyLength)
		}
		updates["chef_specialty"] = specialty
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetUser(ctx, userID)
}

// BecomeChef turns the user into a chef with the given specialty
func (s *AuthService) BecomeChef(ctx context.Context, userID uuid.UUID, specialty string) (*models.User, error) {
	specialty = strings.TrimSpace(specialty)
	if len(specialty) < minChefSpecialtyLength {
		return nil, newValidationError("specialty", "must be at least %d characters", minChefSpecialtyLength)
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"is_chef":        true,
		"chef_specialty": specialty,
	}).Error; err != nil {
		return nil, err
	}

	s.log.Infow("user became chef", "user_id", userID)
	return s.GetUser(ctx, userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
