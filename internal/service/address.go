package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mummysfood/backend/internal/geo"
	"github.com/mummysfood/backend/internal/models"
	"github.com/mummysfood/backend/internal/types"
)

// AddressService manages a user's saved addresses and their active address
type AddressService struct {
	db       *gorm.DB
	geocoder Geocoder
	log      *zap.SugaredLogger
}

var _ IAddressService = (*AddressService)(nil)

// NewAddressService creates a new AddressService instance
func NewAddressService(db *gorm.DB, geocoder Geocoder, log *zap.SugaredLogger) *AddressService {
	return &AddressService{db: db, geocoder: geocoder, log: log}
}

// Add saves a new address. The first address of a user becomes active.
func (s *AddressService) Add(ctx context.Context, userID uuid.UUID, req *types.AddressRequest) (*models.Address, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return nil, newValidationError("latitude/longitude", "are required")
	}

	addr := &models.Address{
		UserID:           userID,
		Street:           strings.TrimSpace(req.Street),
		City:             strings.TrimSpace(req.City),
		State:            strings.TrimSpace(req.State),
		PostalCode:       strings.TrimSpace(req.PostalCode),
		Country:          strings.TrimSpace(req.Country),
		FormattedAddress: strings.TrimSpace(req.FormattedAddress),
		Latitude:         *req.Latitude,
		Longitude:        *req.Longitude,
	}
	if err := addr.Point().Validate(); err != nil {
		return nil, &ValidationError{Field: "latitude/longitude", Message: err.Error()}
	}
	if err := s.complete(ctx, addr); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "user", ID: userID.String()}
			}
			return err
		}

		if err := tx.Create(addr).Error; err != nil {
			return err
		}

		if req.SetActive || user.ActiveAddressID == nil {
			return tx.Model(&user).Update("active_address_id", addr.ID).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return addr, nil
}

func (s *AddressService) List(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	addresses := []models.Address{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

// Get returns the address if it belongs to the user
func (s *AddressService) Get(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	return s.owned(s.db.WithContext(ctx), userID, addressID)
}

func (s *AddressService) Update(ctx context.Context, userID, addressID uuid.UUID, req *types.UpdateAddressRequest) (*models.Address, error) {
	addr, err := s.owned(s.db.WithContext(ctx), userID, addressID)
	if err != nil {
		return nil, err
	}

	changed := setString(&addr.Street, req.Street)
	changed = setString(&addr.City, req.City) || changed
	changed = setString(&addr.State, req.State) || changed
	changed = setString(&addr.PostalCode, req.PostalCode) || changed
	changed = setString(&addr.Country, req.Country) || changed
	if req.Latitude != nil && *req.Latitude != addr.Latitude {
		addr.Latitude = *req.Latitude
		changed = true
	}
	if req.Longitude != nil && *req.Longitude != addr.Longitude {
		addr.Longitude = *req.Longitude
		changed = true
	}
	if err := addr.Point().Validate(); err != nil {
		return nil, &ValidationError{Field: "latitude/longitude", Message: err.Error()}
	}
	if req.FormattedAddress != nil {
		addr.FormattedAddress = strings.TrimSpace(*req.FormattedAddress)
	} else if changed {
		addr.FormattedAddress = ""
	}
	if err := s.complete(ctx, addr); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(addr).Error; err != nil {
		return nil, err
	}
	return addr, nil
}

// Delete removes the address. Deleting the active address leaves the user with none.
func (s *AddressService) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		addr, err := s.owned(tx, userID, addressID)
		if err != nil {
			return err
		}

		var meals int64
		if err := tx.Model(&models.Meal{}).Where("address_id = ?", addr.ID).Count(&meals).Error; err != nil {
			return err
		}
		if meals > 0 {
			return newValidationError("address", "is used by %d meal(s)", meals)
		}

		if err := tx.Model(&models.User{}).
			Where("id = ? AND active_address_id = ?", userID, addr.ID).
			Update("active_address_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(addr).Error
	})
}

// SetActive marks the address as the user's active address
func (s *AddressService) SetActive(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	var addr *models.Address
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if addr, err = s.owned(tx, userID, addressID); err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).Update("active_address_id", addr.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return addr, nil
}

// owned loads an address, reporting other users' addresses as missing
func (s *AddressService) owned(tx *gorm.DB, userID, addressID uuid.UUID) (*models.Address, error) {
	var addr models.Address
	err := tx.Where("id = ? AND user_id = ?", addressID, userID).First(&addr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "address", ID: addressID.String()}
	}
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

// complete fills missing street or city from the geocoder and derives the formatted address
func (s *AddressService) complete(ctx context.Context, addr *models.Address) error {
	var place *Place
	if (addr.Street == "" || addr.City == "") && s.geocoder != nil {
		var err error
		place, err = s.geocoder.ReverseGeocode(ctx, geo.Point{Lat: addr.Latitude, Lng: addr.Longitude})
		if err != nil {
			var upstream *UpstreamError
			if !errors.As(err, &upstream) {
				err = &UpstreamError{Service: "geocoder", Err: err}
			}
			return err
		}
		fill(&addr.Street, place.Street)
		fill(&addr.City, place.City)
		fill(&addr.State, place.State)
		fill(&addr.PostalCode, place.PostalCode)
		fill(&addr.Country, place.Country)
	}

	if addr.FormattedAddress == "" {
		addr.FormattedAddress = addr.Format()
		if addr.FormattedAddress == "" && place != nil {
			addr.FormattedAddress = place.DisplayName
		}
	}
	return nil
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// setString assigns a provided value and reports whether it changed dst
func setString(dst *string, v *string) bool {
	if v == nil {
		return false
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == *dst {
		return false
	}
	*dst = trimmed
	return true
}
