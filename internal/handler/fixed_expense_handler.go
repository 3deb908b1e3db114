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

// FixedExpenseHandler handles fixed expense definition HTTP requests
type FixedExpenseHandler struct {
	fixedExpenseService *service.FixedExpenseService
}

// NewFixedExpenseHandler creates a new FixedExpenseHandler
func NewFixedExpenseHandler(fixedExpenseService *service.FixedExpenseService) *FixedExpenseHandler {
	return &FixedExpenseHandler{
		fixedExpenseService: fixedExpenseService,
	}
}

// FixedExpenseRequest represents the JSON request for creating or updating a
// fixed expense definition
type FixedExpenseRequest struct {
	Concept     string  `json:"concept"`
	Amount      string  `json:"amount"`
	Frequency   string  `json:"frequency"`
	StartDate   string  `json:"startDate"`
	TotalAmount *string `json:"totalAmount"`
}

// FixedExpenseResponse represents a fixed expense definition in API responses
type FixedExpenseResponse struct {
	ID              int32   `json:"id"`
	Concept         string  `json:"concept"`
	Amount          string  `json:"amount"`
	Frequency       string  `json:"frequency"`
	StartDate       string  `json:"startDate"`
	TotalAmount     *string `json:"totalAmount,omitempty"`
	RemainingAmount *string `json:"remainingAmount,omitempty"`
	NextDueDate     string  `json:"nextDueDate"`
	Status          string  `json:"status"`
}

// Create creates a new fixed expense definition
// POST /fixed-expenses
func (h *FixedExpenseHandler) Create(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	input, ok := h.bindInput(c)
	if !ok {
		return nil
	}

	fe, err := h.fixedExpenseService.CreateFixedExpense(userID, *input)
	if err != nil {
		return h.handleServiceError(c, userID, err)
	}

	return c.JSON(http.StatusCreated, toFixedExpenseResponse(fe))
}

// List retrieves all fixed expense definitions
// GET /fixed-expenses
func (h *FixedExpenseHandler) List(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	expenses, err := h.fixedExpenseService.ListFixedExpenses(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list fixed expenses")
		return NewInternalError(c, "Failed to list fixed expenses")
	}

	result := make([]FixedExpenseResponse, len(expenses))
	for i, fe := range expenses {
		result[i] = toFixedExpenseResponse(fe)
	}
	return c.JSON(http.StatusOK, result)
}

// Update updates a fixed expense definition
// PUT /fixed-expenses/:id
func (h *FixedExpenseHandler) Update(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid fixed expense ID", nil)
	}

	input, ok := h.bindInput(c)
	if !ok {
		return nil
	}

	fe, err := h.fixedExpenseService.UpdateFixedExpense(userID, id, service.UpdateFixedExpenseInput(*input))
	if err != nil {
		return h.handleServiceError(c, userID, err)
	}

	return c.JSON(http.StatusOK, toFixedExpenseResponse(fe))
}

// Delete removes a fixed expense definition and its materialized entries
// DELETE /fixed-expenses/:id
func (h *FixedExpenseHandler) Delete(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid fixed expense ID", nil)
	}

	if err := h.fixedExpenseService.DeleteFixedExpense(userID, id); err != nil {
		return h.handleServiceError(c, userID, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// bindInput parses and converts the request body into service input. On
// failure it writes the validation response and reports false.
func (h *FixedExpenseHandler) bindInput(c echo.Context) (*service.CreateFixedExpenseInput, bool) {
	var req FixedExpenseRequest
	if err := c.Bind(&req); err != nil {
		NewValidationError(c, "Invalid request body", nil)
		return nil, false
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a decimal number"},
		})
		return nil, false
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		NewValidationError(c, "Invalid start date", []ValidationError{
			{Field: "startDate", Message: "Must be a date in YYYY-MM-DD format"},
		})
		return nil, false
	}

	var totalAmount *decimal.Decimal
	if req.TotalAmount != nil && *req.TotalAmount != "" {
		total, err := decimal.NewFromString(*req.TotalAmount)
		if err != nil {
			NewValidationError(c, "Invalid total amount", []ValidationError{
				{Field: "totalAmount", Message: "Must be a decimal number"},
			})
			return nil, false
		}
		totalAmount = &total
	}

	return &service.CreateFixedExpenseInput{
		Concept:     req.Concept,
		Amount:      amount,
		Frequency:   domain.Frequency(req.Frequency),
		StartDate:   startDate,
		TotalAmount: totalAmount,
	}, true
}

// handleServiceError maps domain errors to appropriate HTTP responses
func (h *FixedExpenseHandler) handleServiceError(c echo.Context, userID uuid.UUID, err error) error {
	switch {
	case errors.Is(err, domain.ErrConceptRequired):
		return NewValidationError(c, "Concept is required", nil)
	case errors.Is(err, domain.ErrConceptTooLong):
		return NewValidationError(c, "Concept is too long", nil)
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Amount must be positive", nil)
	case errors.Is(err, domain.ErrInvalidFrequency):
		return NewValidationError(c, "Unknown frequency", nil)
	case errors.Is(err, domain.ErrInvalidDate):
		return NewValidationError(c, "Start date is required", nil)
	case errors.Is(err, domain.ErrFixedExpenseNotFound):
		return NewNotFoundError(c, "Fixed expense not found")
	default:
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Fixed expense operation failed")
		return NewInternalError(c, "Fixed expense operation failed")
	}
}

func toFixedExpenseResponse(fe *domain.FixedExpense) FixedExpenseResponse {
	resp := FixedExpenseResponse{
		ID:          fe.ID,
		Concept:     fe.Concept,
		Amount:      fe.Amount.StringFixed(2),
		Frequency:   string(fe.Frequency),
		StartDate:   fe.StartDate.Format("2006-01-02"),
		NextDueDate: fe.NextDueDate.Format("2006-01-02"),
		Status:      string(fe.Status),
	}
	if fe.TotalAmount != nil {
		total := fe.TotalAmount.StringFixed(2)
		resp.TotalAmount = &total
	}
	if fe.RemainingAmount != nil {
		remaining := fe.RemainingAmount.StringFixed(2)
		resp.RemainingAmount = &remaining
	}
	return resp
}
