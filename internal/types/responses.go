package types

import "github.com/mummysfood/backend/internal/models"

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// ProfileResponse is the current user with their saved addresses
type ProfileResponse struct {
	User          *models.User     `json:"user"`
	Addresses     []models.Address `json:"addresses"`
	ActiveAddress *models.Address  `json:"active_address"`
}
