package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NutritionalInfo is embedded into the meals table with a nutrition_ prefix
type NutritionalInfo struct {
	Calories float64     `gorm:"type:float" json:"calories"`
	Protein  float64     `gorm:"type:float" json:"protein"`
	Fat      float64     `gorm:"type:float" json:"fat"`
	Carbs    float64     `gorm:"type:float" json:"carbs"`
	Vitamins StringArray `gorm:"not null;default:'[]'" json:"vitamins"`
}

type Meal struct {
	ID                    uuid.UUID       `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt             time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	DeletedAt             gorm.DeletedAt  `gorm:"index" json:"-"`
	Name                  string          `gorm:"size:255;not null" json:"name"`
	Description           string          `gorm:"type:text" json:"description"`
	Price                 float64         `gorm:"not null;index" json:"price"`
	Category              string          `gorm:"size:50;index" json:"category"`
	Cuisine               string          `gorm:"size:50;index" json:"cuisine"`
	PortionSize           string          `gorm:"size:50" json:"portion_size"`
	Ingredients           StringArray     `gorm:"not null;default:'[]'" json:"ingredients"`
	DietaryRestrictions   StringArray     `gorm:"not null;default:'[]'" json:"dietary_restrictions"`
	NutritionalInfo       NutritionalInfo `gorm:"embedded;embeddedPrefix:nutrition_" json:"nutritional_info"`
	Images                StringArray     `gorm:"not null;default:'[]'" json:"images"`
	AddressID             uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"address_id"`
	Address               *Address        `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	PickupDeliveryOptions StringArray     `gorm:"not null;default:'[]'" json:"pickup_delivery_options"`
	PaymentOptions        StringArray     `gorm:"not null;default:'[]'" json:"payment_options"`
	Tags                  StringArray     `gorm:"not null;default:'[]'" json:"tags"`
	QuantityAvailable     int             `gorm:"not null;default:0" json:"quantity_available"`
	SellerRating          float64         `gorm:"not null;default:0;index" json:"seller_rating"`
	UserID                uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"user_id"`
}

// BeforeCreate assigns a fresh identifier
func (m *Meal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
