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
)

// MonthlyExpenseHandler handles monthly expense entry HTTP requests
type MonthlyExpenseHandler struct {
	monthlyExpenseService *service.MonthlyExpenseService
}

// NewMonthlyExpenseHandler creates a new MonthlyExpenseHandler
func NewMonthlyExpenseHandler(monthlyExpenseService *service.MonthlyExpenseService) *MonthlyExpenseHandler {
	return &MonthlyExpenseHandler{
		monthlyExpenseService: monthlyExpenseService,
	}
}

// MonthlyEntryResponse represents a monthly expense entry in API responses
type MonthlyEntryResponse struct {
	ID             int32  `json:"id"`
	FixedExpenseID int32  `json:"fixedExpenseId"`
	Concept        string `json:"concept"`
	Month          string `json:"month"`
	Amount         string `json:"amount"`
	Status         string `json:"status"`
}

// MonthViewResponse represents the month's materialized entries with totals
type MonthViewResponse struct {
	Month   string                 `json:"month"`
	Entries []MonthlyEntryResponse `json:"entries"`
	Total   string                 `json:"total"`
	Paid    string                 `json:"paid"`
	Pending string                 `json:"pending"`
}

// GetMonth returns the month's entries, materializing any due definitions
// first
// GET /monthly-expenses/:year/:month
func (h *MonthlyExpenseHandler) GetMonth(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	month, ok := parseYearMonth(c)
	if !ok {
		return NewValidationError(c, "Invalid year or month", nil)
	}

	view, err := h.monthlyExpenseService.GetMonthView(userID, month)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to build month view")
		return NewInternalError(c, "Failed to build month view")
	}

	entries := make([]MonthlyEntryResponse, len(view.Entries))
	for i, entry := range view.Entries {
		entries[i] = toMonthlyEntryResponse(entry)
	}

	return c.JSON(http.StatusOK, MonthViewResponse{
		Month:   view.Month.Format("2006-01"),
		Entries: entries,
		Total:   view.Total.StringFixed(2),
		Paid:    view.Paid.StringFixed(2),
		Pending: view.Pending.StringFixed(2),
	})
}

// TogglePaid flips an entry between pending and paid
// PATCH /monthly-expenses/entries/:id/toggle-paid
func (h *MonthlyExpenseHandler) TogglePaid(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid entry ID", nil)
	}

	entry, err := h.monthlyExpenseService.TogglePaid(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return NewNotFoundError(c, "Entry not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int32("entry_id", id).Msg("Failed to toggle entry")
		return NewInternalError(c, "Failed to toggle entry")
	}

	return c.JSON(http.StatusOK, toMonthlyEntryResponse(entry))
}

func toMonthlyEntryResponse(entry *domain.MonthlyEntry) MonthlyEntryResponse {
	resp := MonthlyEntryResponse{
		ID:             entry.ID,
		FixedExpenseID: entry.FixedExpenseID,
		Month:          entry.Month.Format("2006-01"),
		Amount:         entry.Amount.StringFixed(2),
		Status:         string(entry.Status),
	}
	if entry.Expense != nil {
		resp.Concept = entry.Expense.Concept
	}
	return resp
}
