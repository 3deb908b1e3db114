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
)

// SettlementHandler handles monthly settlement HTTP requests
type SettlementHandler struct {
	settlementService *service.SettlementService
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(settlementService *service.SettlementService) *SettlementHandler {
	return &SettlementHandler{
		settlementService: settlementService,
	}
}

// SettlementSummaryResponse represents the month's settlement summary
type SettlementSummaryResponse struct {
	Month              string `json:"month"`
	TotalBilled        string `json:"totalBilled"`
	TotalAdvances      string `json:"totalAdvances"`
	TotalEarnings      string `json:"totalEarnings"`
	NetToTransfer      string `json:"netToTransfer"`
	AlreadyTransferred bool   `json:"alreadyTransferred"`
}

// GetSummary computes the month's settlement summary
// GET /settlements/:year/:month
func (h *SettlementHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	month, ok := parseYearMonth(c)
	if !ok {
		return NewValidationError(c, "Invalid year or month", nil)
	}

	summary, err := h.settlementService.ComputeSettlement(userID, month)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to compute settlement")
		return NewInternalError(c, "Failed to compute settlement")
	}

	return c.JSON(http.StatusOK, toSettlementSummaryResponse(summary))
}

// TransferResponse represents a committed savings transfer
type TransferResponse struct {
	ID        int32  `json:"id"`
	Month     string `json:"month"`
	Amount    string `json:"amount"`
	CreatedAt string `json:"createdAt"`
}

// Commit transfers the month's net earnings into the savings fund
// POST /settlements/:year/:month/commit
func (h *SettlementHandler) Commit(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	month, ok := parseYearMonth(c)
	if !ok {
		return NewValidationError(c, "Invalid year or month", nil)
	}

	transfer, err := h.settlementService.CommitTransfer(userID, month)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyTransferred):
			return NewConflictError(c, "This month's earnings were already transferred")
		case errors.Is(err, domain.ErrNotEligible):
			return NewConflictError(c, "The month can only be settled from its last day onwards")
		case errors.Is(err, domain.ErrNothingToTransfer):
			return NewConflictError(c, "There are no earnings to transfer for this month")
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "User not found")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to commit transfer")
			return NewInternalError(c, "Failed to commit transfer")
		}
	}

	return c.JSON(http.StatusCreated, TransferResponse{
		ID:        transfer.ID,
		Month:     transfer.Month.Format("2006-01"),
		Amount:    transfer.Amount.StringFixed(2),
		CreatedAt: transfer.CreatedAt.Format(time.RFC3339),
	})
}

func toSettlementSummaryResponse(summary *service.SettlementSummary) SettlementSummaryResponse {
	return SettlementSummaryResponse{
		Month:              summary.Month.Format("2006-01"),
		TotalBilled:        summary.TotalBilled.StringFixed(2),
		TotalAdvances:      summary.TotalAdvances.StringFixed(2),
		TotalEarnings:      summary.TotalEarnings.StringFixed(2),
		NetToTransfer:      summary.NetToTransfer.StringFixed(2),
		AlreadyTransferred: summary.AlreadyTransferred,
	}
}
