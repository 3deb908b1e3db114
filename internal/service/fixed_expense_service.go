package service

import (
	"strings"
	"time"

	"github.com/dgvaldes/rutero/rutero-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FixedExpenseService handles fixed expense definition business logic
type FixedExpenseService struct {
	fixedExpenseRepo domain.FixedExpenseRepository
}

// NewFixedExpenseService creates a new FixedExpenseService
func NewFixedExpenseService(fixedExpenseRepo domain.FixedExpenseRepository) *FixedExpenseService {
	return &FixedExpenseService{
		fixedExpenseRepo: fixedExpenseRepo,
	}
}

// CreateFixedExpenseInput holds the input for creating a fixed expense
type CreateFixedExpenseInput struct {
	Concept     string
	Amount      decimal.Decimal
	Frequency   domain.Frequency
	StartDate   time.Time
	TotalAmount *decimal.Decimal
}

// CreateFixedExpense creates a new fixed expense definition. A definition
// with a total amount starts amortizing from that total; its remaining
// amount depletes as periods materialize.
func (s *FixedExpenseService) CreateFixedExpense(userID uuid.UUID, input CreateFixedExpenseInput) (*domain.FixedExpense, error) {
	concept, err := validateConcept(input.Concept)
	if err != nil {
		return nil, err
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if !input.Frequency.IsValid() {
		return nil, domain.ErrInvalidFrequency
	}
	if input.StartDate.IsZero() {
		return nil, domain.ErrInvalidDate
	}
	if input.TotalAmount != nil && input.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	fe := &domain.FixedExpense{
		UserID:      userID,
		Concept:     concept,
		Amount:      input.Amount,
		Frequency:   input.Frequency,
		StartDate:   input.StartDate,
		TotalAmount: input.TotalAmount,
		NextDueDate: input.StartDate,
		Status:      domain.ExpenseStatusActive,
	}
	if input.TotalAmount != nil {
		remaining := *input.TotalAmount
		fe.RemainingAmount = &remaining
	}

	return s.fixedExpenseRepo.Create(fe)
}

// ListFixedExpenses retrieves all fixed expense definitions for a user
func (s *FixedExpenseService) ListFixedExpenses(userID uuid.UUID) ([]*domain.FixedExpense, error) {
	return s.fixedExpenseRepo.ListByUser(userID)
}

// GetFixedExpenseByID retrieves a fixed expense definition by ID
func (s *FixedExpenseService) GetFixedExpenseByID(userID uuid.UUID, id int32) (*domain.FixedExpense, error) {
	return s.fixedExpenseRepo.GetByID(userID, id)
}

// UpdateFixedExpenseInput holds the input for updating a fixed expense
type UpdateFixedExpenseInput struct {
	Concept     string
	Amount      decimal.Decimal
	Frequency   domain.Frequency
	StartDate   time.Time
	TotalAmount *decimal.Decimal
}

// UpdateFixedExpense updates an existing definition. Changing the start date
// resets the next due date to it; changing the total amount resets the
// remaining amount (clearing the total clears the remaining amount and stops
// amortization). Entries already materialized keep their snapshot amounts.
func (s *FixedExpenseService) UpdateFixedExpense(userID uuid.UUID, id int32, input UpdateFixedExpenseInput) (*domain.FixedExpense, error) {
	concept, err := validateConcept(input.Concept)
	if err != nil {
		return nil, err
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if !input.Frequency.IsValid() {
		return nil, domain.ErrInvalidFrequency
	}
	if input.StartDate.IsZero() {
		return nil, domain.ErrInvalidDate
	}
	if input.TotalAmount != nil && input.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	existing, err := s.fixedExpenseRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	if !input.StartDate.Equal(existing.StartDate) {
		existing.NextDueDate = input.StartDate
	}

	if input.TotalAmount != nil {
		remaining := *input.TotalAmount
		existing.TotalAmount = input.TotalAmount
		existing.RemainingAmount = &remaining
		existing.Status = domain.ExpenseStatusActive
	} else {
		existing.TotalAmount = nil
		existing.RemainingAmount = nil
	}

	existing.Concept = concept
	existing.Amount = input.Amount
	existing.Frequency = input.Frequency
	existing.StartDate = input.StartDate

	return s.fixedExpenseRepo.Update(existing)
}

// DeleteFixedExpense removes a definition and, by cascade, its monthly entries
func (s *FixedExpenseService) DeleteFixedExpense(userID uuid.UUID, id int32) error {
	return s.fixedExpenseRepo.Delete(userID, id)
}

func validateConcept(concept string) (string, error) {
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return "", domain.ErrConceptRequired
	}
	if len(concept) > domain.MaxConceptLength {
		return "", domain.ErrConceptTooLong
	}
	return concept, nil
}
