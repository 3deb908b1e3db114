package handler

import (
	"errors"
	"net/http"

	"github.com/dgvaldes/rutero/rutero-backend/internal/domain"
	"github.com/dgvaldes/rutero/rutero-backend/internal/middleware"
	"github.com/dgvaldes/rutero/rutero-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProfileHandler handles driver profile HTTP requests
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// GetProfile returns the driver's profile
// GET /profile
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	user, err := h.profileService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "Profile not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get profile")
		return NewInternalError(c, "Failed to get profile")
	}

	return c.JSON(http.StatusOK, UserResponse{
		ID:                   user.ID.String(),
		Email:                user.Email,
		Name:                 user.Name,
		CommissionRate:       user.CommissionRate.String(),
		MonthlySalary:        user.MonthlySalary.StringFixed(2),
		NotificationsEnabled: user.NotificationsEnabled,
	})
}

// UpdateProfileRequest represents the JSON request for updating settings
type UpdateProfileRequest struct {
	CommissionRate       string `json:"commissionRate"`
	MonthlySalary        string `json:"monthlySalary"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
}

// UpdateProfile updates the driver's settings
// PUT /profile
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	rate, err := decimal.NewFromString(req.CommissionRate)
	if err != nil {
		return NewValidationError(c, "Invalid commission rate", []ValidationError{
			{Field: "commissionRate", Message: "Must be a decimal number"},
		})
	}
	salary, err := decimal.NewFromString(req.MonthlySalary)
	if err != nil {
		return NewValidationError(c, "Invalid monthly salary", []ValidationError{
			{Field: "monthlySalary", Message: "Must be a decimal number"},
		})
	}

	user, err := h.profileService.UpdateProfile(userID, service.UpdateProfileInput{
		CommissionRate:       rate,
		MonthlySalary:        salary,
		NotificationsEnabled: req.NotificationsEnabled,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCommission):
			return NewValidationError(c, "Commission rate must be between 0 and 1", nil)
		case errors.Is(err, domain.ErrNegativeAmount):
			return NewValidationError(c, "Monthly salary cannot be negative", nil)
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "Profile not found")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to update profile")
			return NewInternalError(c, "Failed to update profile")
		}
	}

	return c.JSON(http.StatusOK, UserResponse{
		ID:                   user.ID.String(),
		Email:                user.Email,
		Name:                 user.Name,
		CommissionRate:       user.CommissionRate.String(),
		MonthlySalary:        user.MonthlySalary.StringFixed(2),
		NotificationsEnabled: user.NotificationsEnabled,
	})
}
