package service

import (
	"github.com/dgvaldes/rutero/rutero-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProfileService handles driver profile business logic
type ProfileService struct {
	userRepo domain.UserRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo domain.UserRepository) *ProfileService {
	return &ProfileService{
		userRepo: userRepo,
	}
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfileInput holds the input for updating profile settings
type UpdateProfileInput struct {
	CommissionRate       decimal.Decimal
	MonthlySalary        decimal.Decimal
	NotificationsEnabled bool
}

// UpdateProfile updates the driver's settings. The commission rate applies to
// future settlement computations immediately; months already transferred are
// untouched.
func (s *ProfileService) UpdateProfile(userID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	one := decimal.NewFromInt(1)
	if input.CommissionRate.IsNegative() || input.CommissionRate.GreaterThan(one) {
		return nil, domain.ErrInvalidCommission
	}
	if input.MonthlySalary.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}

	return s.userRepo.UpdateSettings(userID, input.CommissionRate, input.MonthlySalary, input.NotificationsEnabled)
}
