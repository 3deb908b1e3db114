package service

import (
	"errors"
	"time"

	"github.com/dgvaldes/rutero/rutero-backend/internal/domain"
	"github.com/dgvaldes/rutero/rutero-backend/internal/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// MaterializerService expands fixed expense definitions into period-scoped
// monthly entries, exactly once per (definition, month).
type MaterializerService struct {
	fixedExpenseRepo domain.FixedExpenseRepository
	entryRepo        domain.MonthlyEntryRepository
}

// NewMaterializerService creates a new MaterializerService
func NewMaterializerService(fixedExpenseRepo domain.FixedExpenseRepository, entryRepo domain.MonthlyEntryRepository) *MaterializerService {
	return &MaterializerService{
		fixedExpenseRepo: fixedExpenseRepo,
		entryRepo:        entryRepo,
	}
}

// MaterializationResult reports what a materialization pass did.
type MaterializationResult struct {
	// Created lists entries generated by this pass.
	Created []*domain.MonthlyEntry
	// Touched lists definition ids whose bookkeeping was updated.
	Touched []int32
	// Failed lists definition ids whose processing errored. Failures are
	// isolated: other definitions still materialize, and a retry is safe
	// because creation is guarded by the existence check.
	Failed []int32
}

// MaterializeMonth ensures every active fixed expense due in the given month
// has exactly one monthly entry for it. Invoking it repeatedly for the same
// month is a cheap no-op for definitions already materialized, so it can run
// lazily on every read of the month's expense view.
func (s *MaterializerService) MaterializeMonth(userID uuid.UUID, month time.Time) (*MaterializationResult, error) {
	period := util.PeriodKey(month)

	definitions, err := s.fixedExpenseRepo.ListByUserAndStatus(userID, domain.ExpenseStatusActive)
	if err != nil {
		return nil, err
	}

	result := &MaterializationResult{}
	for _, fe := range definitions {
		created, err := s.materializeDefinition(fe, period)
		if created != nil {
			result.Created = append(result.Created, created)
		}
		if created != nil && err == nil {
			result.Touched = append(result.Touched, fe.ID)
		}
		if err != nil {
			log.Error().
				Err(err).
				Int32("fixed_expense_id", fe.ID).
				Time("month", period).
				Msg("Failed to materialize fixed expense")
			result.Failed = append(result.Failed, fe.ID)
		}
	}

	return result, nil
}

// materializeDefinition generates the period's entry for one definition and
// updates its bookkeeping. Returns (nil, nil) when the definition is not due
// this period or the entry already exists.
func (s *MaterializerService) materializeDefinition(fe *domain.FixedExpense, period time.Time) (*domain.MonthlyEntry, error) {
	dueDate := domain.NextDueDate(fe.StartDate, fe.Frequency, period)
	if !util.PeriodKey(dueDate).Equal(period) {
		// Next occurrence falls in a later month (bimonthly and longer
		// cadences, or a start date in the future).
		return nil, nil
	}

	exists, err := s.entryRepo.ExistsForMonth(fe.ID, period)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	entry := &domain.MonthlyEntry{
		FixedExpenseID: fe.ID,
		UserID:         fe.UserID,
		Month:          period,
		// Snapshot of the per-period amount: editing the definition later
		// must not reprice entries that already exist.
		Amount: fe.Amount,
		Status: domain.EntryStatusPending,
	}

	created, err := s.entryRepo.CreateIfAbsent(entry)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyMaterialized) {
			// A concurrent pass won the insert.
			return nil, nil
		}
		return nil, err
	}

	if fe.RemainingAmount != nil {
		remaining := fe.RemainingAmount.Sub(created.Amount)
		if remaining.LessThanOrEqual(decimal.Zero) {
			// The final period may be short; the remainder is exhausted
			// rather than driven negative.
			remaining = decimal.Zero
			fe.Status = domain.ExpenseStatusCompleted
		}
		fe.RemainingAmount = &remaining
	}

	// Stored even when the definition just completed; never re-read once
	// completed, but it keeps the audit trail coherent.
	fe.NextDueDate = dueDate

	if _, err := s.fixedExpenseRepo.Update(fe); err != nil {
		// The entry exists and is guarded against duplication, only the
		// definition bookkeeping is stale. Surface the error so the caller
		// counts the definition as failed.
		return created, err
	}

	return created, nil
}
