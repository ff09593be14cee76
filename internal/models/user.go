package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID              uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	Name            string         `gorm:"size:100;not null" json:"name"`
	Username        string         `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email           string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash    string         `gorm:"not null" json:"-"`
	Phone           string         `gorm:"size:30" json:"phone"`
	IsChef          bool           `gorm:"not null;default:false" json:"is_chef"`
	ChefSpecialty   string         `gorm:"size:100" json:"chef_specialty,omitempty"`
	ProfilePicture  string         `gorm:"size:512" json:"profile_picture,omitempty"`
	Addresses       []Address      `gorm:"foreignKey:UserID" json:"addresses,omitempty"`
	ActiveAddressID *uuid.UUID     `gorm:"type:varchar(36)" json:"active_address_id"`
	ActiveAddress   *Address       `gorm:"foreignKey:ActiveAddressID" json:"active_address,omitempty"`
}

// BeforeCreate assigns a fresh identifier
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
