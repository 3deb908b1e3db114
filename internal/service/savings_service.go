package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgvaldes/rutero/rutero-backend/internal/domain"
	"github.com/dgvaldes/rutero/rutero-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement types in the monthly savings feed.
const (
	MovementTypeTransfer   = "transfer"
	MovementTypeIncome     = "income"
	MovementTypeWithdrawal = "withdrawal"
	MovementTypePayment    = "payment"
)

// SavingsService handles the savings fund ledger: manual movements, the
// accumulated total and the monthly movements feed.
type SavingsService struct {
	savingsRepo domain.SavingsRepository
	entryRepo   domain.MonthlyEntryRepository
}

// NewSavingsService creates a new SavingsService
func NewSavingsService(savingsRepo domain.SavingsRepository, entryRepo domain.MonthlyEntryRepository) *SavingsService {
	return &SavingsService{
		savingsRepo: savingsRepo,
		entryRepo:   entryRepo,
	}
}

// AddExtraMovementInput holds the input for a manual savings adjustment
type AddExtraMovementInput struct {
	// Amount is signed: positive deposits, negative withdrawals.
	Amount      decimal.Decimal
	Description string
}

// AddExtraMovement records a manual savings adjustment and applies it to the
// fund total.
func (s *SavingsService) AddExtraMovement(userID uuid.UUID, input AddExtraMovementInput) (*domain.ExtraMovement, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrInvalidInput
	}
	if input.Amount.IsZero() {
		return nil, domain.ErrInvalidAmount
	}

	movement := &domain.ExtraMovement{
		UserID:      userID,
		Amount:      input.Amount,
		Description: description,
	}
	return s.savingsRepo.AddExtraMovement(movement)
}

// TotalSavings returns the user's accumulated savings fund
func (s *SavingsService) TotalSavings(userID uuid.UUID) (decimal.Decimal, error) {
	return s.savingsRepo.SavingsTotal(userID)
}

// Movement is one line in the monthly savings feed.
type Movement struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
}

// GetMonthlyMovements builds the savings feed for a month: the month's
// earnings transfer, manual movements, and paid fixed expenses (shown as
// outgoing payments), oldest first.
func (s *SavingsService) GetMonthlyMovements(userID uuid.UUID, month time.Time) ([]Movement, error) {
	period := util.PeriodKey(month)
	from := period
	to := util.LastDayOfMonth(period).AddDate(0, 0, 1)

	var movements []Movement

	transfers, err := s.savingsRepo.ListTransfersByUser(userID)
	if err != nil {
		return nil, err
	}
	for _, tr := range transfers {
		if !tr.Month.Equal(period) {
			continue
		}
		movements = append(movements, Movement{
			Date:        tr.CreatedAt,
			Description: fmt.Sprintf("Earnings transfer (%s)", tr.Month.Format("January")),
			Amount:      tr.Amount,
			Type:        MovementTypeTransfer,
		})
	}

	extra, err := s.savingsRepo.ListExtraMovementsByDateRange(userID, from, to)
	if err != nil {
		return nil, err
	}
	for _, mv := range extra {
		movementType := MovementTypeIncome
		if mv.Amount.IsNegative() {
			movementType = MovementTypeWithdrawal
		}
		movements = append(movements, Movement{
			Date:        mv.CreatedAt,
			Description: mv.Description,
			Amount:      mv.Amount,
			Type:        movementType,
		})
	}

	paid, err := s.entryRepo.ListPaidByUserAndMonth(userID, period)
	if err != nil {
		return nil, err
	}
	for _, entry := range paid {
		concept := ""
		if entry.Expense != nil {
			concept = entry.Expense.Concept
		}
		movements = append(movements, Movement{
			Date:        entry.CreatedAt,
			Description: fmt.Sprintf("Payment: %s", concept),
			Amount:      entry.Amount.Neg(),
			Type:        MovementTypePayment,
		})
	}

	sort.Slice(movements, func(i, j int) bool { return movements[i].Date.Before(movements[j].Date) })
	return movements, nil
}
