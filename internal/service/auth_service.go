package service

import (
	"github.com/dgvaldes/rutero/rutero-backend/internal/domain"
)

// AuthService provisions application users from Auth0 identities
type AuthService struct {
	userRepo domain.UserRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// HandleCallback creates or retrieves the user for an Auth0 identity. New
// users start with the default commission rate and notifications enabled.
func (s *AuthService) HandleCallback(auth0ID, email string, name *string) (*domain.User, error) {
	return s.userRepo.CreateOrGetByAuth0ID(auth0ID, email, name)
}

// GetUserByAuth0ID retrieves the user for an Auth0 identity
func (s *AuthService) GetUserByAuth0ID(auth0ID string) (*domain.User, error) {
	return s.userRepo.GetByAuth0ID(auth0ID)
}
