package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/dgvaldes/rutero/rutero-backend/internal/domain"
	"github.com/dgvaldes/rutero/rutero-backend/internal/middleware"
	"github.com/dgvaldes/rutero/rutero-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SavingsHandler handles savings fund HTTP requests
type SavingsHandler struct {
	savingsService *service.SavingsService
}

// NewSavingsHandler creates a new SavingsHandler
func NewSavingsHandler(savingsService *service.SavingsService) *SavingsHandler {
	return &SavingsHandler{
		savingsService: savingsService,
	}
}

// SavingsTotalResponse represents the accumulated savings total
type SavingsTotalResponse struct {
	Total string `json:"total"`
}

// GetTotal returns the user's accumulated savings fund
// GET /savings/total
func (h *SavingsHandler) GetTotal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	total, err := h.savingsService.TotalSavings(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get savings total")
		return NewInternalError(c, "Failed to get savings total")
	}

	return c.JSON(http.StatusOK, SavingsTotalResponse{Total: total.StringFixed(2)})
}

// MovementResponse represents one line in the monthly savings feed
type MovementResponse struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
}

// GetMonthlyMovements returns the month's savings feed
// GET /savings/movements/:year/:month
func (h *SavingsHandler) GetMonthlyMovements(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	month, ok := parseYearMonth(c)
	if !ok {
		return NewValidationError(c, "Invalid year or month", nil)
	}

	movements, err := h.savingsService.GetMonthlyMovements(userID, month)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list savings movements")
		return NewInternalError(c, "Failed to list savings movements")
	}

	result := make([]MovementResponse, len(movements))
	for i, mv := range movements {
		result[i] = MovementResponse{
			Date:        mv.Date.Format(time.RFC3339),
			Description: mv.Description,
			Amount:      mv.Amount.StringFixed(2),
			Type:        mv.Type,
		}
	}
	return c.JSON(http.StatusOK, result)
}

// AddMovementRequest represents the JSON request for a manual savings
// adjustment
type AddMovementRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

// ExtraMovementResponse represents a recorded manual movement
type ExtraMovementResponse struct {
	ID          int32  `json:"id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

// AddMovement records a manual deposit or withdrawal
// POST /savings/movements
func (h *SavingsHandler) AddMovement(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req AddMovementRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a decimal number"},
		})
	}

	movement, err := h.savingsService.AddExtraMovement(userID, service.AddExtraMovementInput{
		Amount:      amount,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDescriptionRequired):
			return NewValidationError(c, "Description is required", nil)
		case errors.Is(err, domain.ErrInvalidAmount):
			return NewValidationError(c, "Amount cannot be zero", nil)
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Description is too long", nil)
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to add savings movement")
			return NewInternalError(c, "Failed to add savings movement")
		}
	}

	return c.JSON(http.StatusCreated, ExtraMovementResponse{
		ID:          movement.ID,
		Amount:      movement.Amount.StringFixed(2),
		Description: movement.Description,
		CreatedAt:   movement.CreatedAt.Format(time.RFC3339),
	})
}
