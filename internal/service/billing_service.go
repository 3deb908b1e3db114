package service

import (
	"time"

	"github.com/dgvaldes/rutero/rutero-backend/internal/domain"
	"github.com/dgvaldes/rutero/rutero-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingService handles daily driver billing business logic
type BillingService struct {
	billingRepo domain.BillingRepository
	userRepo    domain.UserRepository
}

// NewBillingService creates a new BillingService
func NewBillingService(billingRepo domain.BillingRepository, userRepo domain.UserRepository) *BillingService {
	return &BillingService{
		billingRepo: billingRepo,
		userRepo:    userRepo,
	}
}

// SaveBillingInput holds the input for recording one day's activity
type SaveBillingInput struct {
	BillingDate   time.Time
	BilledAmount  decimal.Decimal
	AdvanceAmount decimal.Decimal
	Km            decimal.Decimal
	Hours         decimal.Decimal
}

// SaveBilling records a day's driver activity, replacing any entry already
// recorded for that date.
func (s *BillingService) SaveBilling(userID uuid.UUID, input SaveBillingInput) (*domain.BillingEntry, error) {
	if input.BillingDate.IsZero() {
		return nil, domain.ErrInvalidDate
	}
	if input.BilledAmount.IsNegative() || input.AdvanceAmount.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}
	if input.Km.IsNegative() || input.Hours.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	be := &domain.BillingEntry{
		UserID:        userID,
		BillingDate:   input.BillingDate,
		BilledAmount:  input.BilledAmount,
		AdvanceAmount: input.AdvanceAmount,
		Km:            input.Km,
		Hours:         input.Hours,
	}
	return s.billingRepo.Upsert(be)
}

// ListMonth retrieves a user's billing entries for a month, oldest first
func (s *BillingService) ListMonth(userID uuid.UUID, month time.Time) ([]*domain.BillingEntry, error) {
	period := util.PeriodKey(month)
	return s.billingRepo.ListByDateRange(userID, period, util.LastDayOfMonth(period))
}

// MonthStats aggregates a month of billing activity. EstimatedEarnings is
// priced at the user's current commission rate.
type MonthStats struct {
	Month             time.Time       `json:"month"`
	TotalBilled       decimal.Decimal `json:"totalBilled"`
	TotalAdvances     decimal.Decimal `json:"totalAdvances"`
	TotalKm           decimal.Decimal `json:"totalKm"`
	TotalHours        decimal.Decimal `json:"totalHours"`
	EstimatedEarnings decimal.Decimal `json:"estimatedEarnings"`
}

// GetMonthStats aggregates the month's billing activity
func (s *BillingService) GetMonthStats(userID uuid.UUID, month time.Time) (*MonthStats, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	period := util.PeriodKey(month)
	totals, err := s.billingRepo.SumByDateRange(userID, period, util.LastDayOfMonth(period))
	if err != nil {
		return nil, err
	}

	return &MonthStats{
		Month:             period,
		TotalBilled:       totals.TotalBilled,
		TotalAdvances:     totals.TotalAdvances,
		TotalKm:           totals.TotalKm,
		TotalHours:        totals.TotalHours,
		EstimatedEarnings: totals.TotalBilled.Mul(user.CommissionRate),
	}, nil
}

// DeleteBilling removes a billing entry
func (s *BillingService) DeleteBilling(userID uuid.UUID, id int32) error {
	return s.billingRepo.Delete(userID, id)
}
