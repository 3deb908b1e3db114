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

// BillingHandler handles daily billing HTTP requests
type BillingHandler struct {
	billingService *service.BillingService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
	}
}

// SaveBillingRequest represents the JSON request for recording a day's
// activity
type SaveBillingRequest struct {
	BillingDate   string `json:"billingDate"`
	BilledAmount  string `json:"billedAmount"`
	AdvanceAmount string `json:"advanceAmount"`
	Km            string `json:"km"`
	Hours         string `json:"hours"`
}

// BillingEntryResponse represents a billing entry in API responses
type BillingEntryResponse struct {
	ID            int32  `json:"id"`
	BillingDate   string `json:"billingDate"`
	BilledAmount  string `json:"billedAmount"`
	AdvanceAmount string `json:"advanceAmount"`
	Km            string `json:"km"`
	Hours         string `json:"hours"`
}

// Save records one day's activity, replacing the day's entry if it exists
// PUT /billing
func (h *BillingHandler) Save(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req SaveBillingRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	billingDate, err := time.Parse("2006-01-02", req.BillingDate)
	if err != nil {
		return NewValidationError(c, "Invalid billing date", []ValidationError{
			{Field: "billingDate", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}

	billed, err := parseDecimalField(req.BilledAmount)
	if err != nil {
		return NewValidationError(c, "Invalid billed amount", nil)
	}
	advance, err := parseDecimalField(req.AdvanceAmount)
	if err != nil {
		return NewValidationError(c, "Invalid advance amount", nil)
	}
	km, err := parseDecimalField(req.Km)
	if err != nil {
		return NewValidationError(c, "Invalid km", nil)
	}
	hours, err := parseDecimalField(req.Hours)
	if err != nil {
		return NewValidationError(c, "Invalid hours", nil)
	}

	be, err := h.billingService.SaveBilling(userID, service.SaveBillingInput{
		BillingDate:   billingDate,
		BilledAmount:  billed,
		AdvanceAmount: advance,
		Km:            km,
		Hours:         hours,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidDate):
			return NewValidationError(c, "Billing date is required", nil)
		case errors.Is(err, domain.ErrNegativeAmount), errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Amounts cannot be negative", nil)
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to save billing")
			return NewInternalError(c, "Failed to save billing")
		}
	}

	return c.JSON(http.StatusOK, toBillingEntryResponse(be))
}

// ListMonth retrieves the month's billing entries
// GET /billing/:year/:month
func (h *BillingHandler) ListMonth(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	month, ok := parseYearMonth(c)
	if !ok {
		return NewValidationError(c, "Invalid year or month", nil)
	}

	entries, err := h.billingService.ListMonth(userID, month)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list billing")
		return NewInternalError(c, "Failed to list billing")
	}

	result := make([]BillingEntryResponse, len(entries))
	for i, be := range entries {
		result[i] = toBillingEntryResponse(be)
	}
	return c.JSON(http.StatusOK, result)
}

// MonthStatsResponse represents aggregated month billing stats
type MonthStatsResponse struct {
	Month             string `json:"month"`
	TotalBilled       string `json:"totalBilled"`
	TotalAdvances     string `json:"totalAdvances"`
	TotalKm           string `json:"totalKm"`
	TotalHours        string `json:"totalHours"`
	EstimatedEarnings string `json:"estimatedEarnings"`
}

// GetMonthStats aggregates the month's billing activity
// GET /billing/:year/:month/stats
func (h *BillingHandler) GetMonthStats(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	month, ok := parseYearMonth(c)
	if !ok {
		return NewValidationError(c, "Invalid year or month", nil)
	}

	stats, err := h.billingService.GetMonthStats(userID, month)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to compute billing stats")
		return NewInternalError(c, "Failed to compute billing stats")
	}

	return c.JSON(http.StatusOK, MonthStatsResponse{
		Month:             stats.Month.Format("2006-01"),
		TotalBilled:       stats.TotalBilled.StringFixed(2),
		TotalAdvances:     stats.TotalAdvances.StringFixed(2),
		TotalKm:           stats.TotalKm.StringFixed(2),
		TotalHours:        stats.TotalHours.StringFixed(2),
		EstimatedEarnings: stats.EstimatedEarnings.StringFixed(2),
	})
}

// Delete removes a billing entry
// DELETE /billing/entries/:id
func (h *BillingHandler) Delete(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid billing entry ID", nil)
	}

	if err := h.billingService.DeleteBilling(userID, id); err != nil {
		if errors.Is(err, domain.ErrBillingNotFound) {
			return NewNotFoundError(c, "Billing entry not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to delete billing")
		return NewInternalError(c, "Failed to delete billing")
	}

	return c.NoContent(http.StatusNoContent)
}

// parseDecimalField parses an optional decimal string, treating empty as zero
func parseDecimalField(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func toBillingEntryResponse(be *domain.BillingEntry) BillingEntryResponse {
	return BillingEntryResponse{
		ID:            be.ID,
		BillingDate:   be.BillingDate.Format("2006-01-02"),
		BilledAmount:  be.BilledAmount.StringFixed(2),
		AdvanceAmount: be.AdvanceAmount.StringFixed(2),
		Km:            be.Km.StringFixed(2),
		Hours:         be.Hours.StringFixed(2),
	}
}
