package service

import (
	"time"

	"github.com/dgvaldes/rutero/rutero-backend/internal/domain"
	"github.com/dgvaldes/rutero/rutero-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementService computes a month's net driver earnings and commits the
// one-time transfer of that net into the savings fund.
type SettlementService struct {
	userRepo    domain.UserRepository
	billingRepo domain.BillingRepository
	savingsRepo domain.SavingsRepository
	now         func() time.Time
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(userRepo domain.UserRepository, billingRepo domain.BillingRepository, savingsRepo domain.SavingsRepository) *SettlementService {
	return &SettlementService{
		userRepo:    userRepo,
		billingRepo: billingRepo,
		savingsRepo: savingsRepo,
		now:         time.Now,
	}
}

// SetClock overrides the wall clock, for tests.
func (s *SettlementService) SetClock(now func() time.Time) {
	s.now = now
}

// SettlementSummary is the settlement picture for one month.
type SettlementSummary struct {
	Month         time.Time       `json:"month"`
	TotalBilled   decimal.Decimal `json:"totalBilled"`
	TotalAdvances decimal.Decimal `json:"totalAdvances"`
	TotalEarnings decimal.Decimal `json:"totalEarnings"`
	NetToTransfer decimal.Decimal `json:"netToTransfer"`
	// AlreadyTransferred marks a closed period. Figures are zeroed: once the
	// transfer is committed the period is not recomputed.
	AlreadyTransferred bool `json:"alreadyTransferred"`
}

// ComputeSettlement returns the month's settlement summary, or a closed-period
// marker when its transfer already exists.
//
// The commission rate is read from the user's profile at computation time, not
// from a historical snapshot: changing the rate reprices not-yet-transferred
// past months but never alters committed transfers.
func (s *SettlementService) ComputeSettlement(userID uuid.UUID, month time.Time) (*SettlementSummary, error) {
	period := util.PeriodKey(month)

	exists, err := s.savingsRepo.TransferExists(userID, period)
	if err != nil {
		return nil, err
	}
	if exists {
		return &SettlementSummary{
			Month:              period,
			TotalBilled:        decimal.Zero,
			TotalAdvances:      decimal.Zero,
			TotalEarnings:      decimal.Zero,
			NetToTransfer:      decimal.Zero,
			AlreadyTransferred: true,
		}, nil
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	totals, err := s.billingRepo.SumByDateRange(userID, period, util.LastDayOfMonth(period))
	if err != nil {
		return nil, err
	}

	totalEarnings := totals.TotalBilled.Mul(user.CommissionRate)
	return &SettlementSummary{
		Month:         period,
		TotalBilled:   totals.TotalBilled,
		TotalAdvances: totals.TotalAdvances,
		TotalEarnings: totalEarnings,
		NetToTransfer: totalEarnings.Sub(totals.TotalAdvances),
	}, nil
}

// CommitTransfer commits the month's net earnings into savings, exactly once.
// It fails with ErrAlreadyTransferred when the period is already closed (or a
// concurrent commit wins the race), ErrNothingToTransfer when net earnings are
// not positive, and ErrNotEligible before the period's last calendar day. The
// transfer row and the savings total increment are applied atomically by the
// repository.
func (s *SettlementService) CommitTransfer(userID uuid.UUID, month time.Time) (*domain.SavingsTransfer, error) {
	period := util.PeriodKey(month)

	summary, err := s.ComputeSettlement(userID, period)
	if err != nil {
		return nil, err
	}
	if summary.AlreadyTransferred {
		return nil, domain.ErrAlreadyTransferred
	}

	if summary.NetToTransfer.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrNothingToTransfer
	}

	// The period must be known closed. Commits on or after its last calendar
	// day are accepted, so a month flagged by the transfer-pending reminder
	// can still be settled late.
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if today.Before(util.LastDayOfMonth(period)) {
		return nil, domain.ErrNotEligible
	}

	return s.savingsRepo.CreateTransfer(userID, period, summary.NetToTransfer)
}
