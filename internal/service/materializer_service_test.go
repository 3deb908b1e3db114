package service

import (
	"errors"
	"testing"
	"time"

	"github.com/dgvaldes/rutero/rutero-backend/internal/domain"
	"github.com/dgvaldes/rutero/rutero-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func setupMaterializerTest() (*MaterializerService, *testutil.MockFixedExpenseRepository, *testutil.MockMonthlyEntryRepository) {
	fixedRepo := testutil.NewMockFixedExpenseRepository()
	entryRepo := testutil.NewMockMonthlyEntryRepository(fixedRepo)
	service := NewMaterializerService(fixedRepo, entryRepo)
	return service, fixedRepo, entryRepo
}

func addFixedExpense(repo *testutil.MockFixedExpenseRepository, userID uuid.UUID, concept string, amount float64, frequency domain.Frequency, startDate time.Time, total *float64) *domain.FixedExpense {
	fe := &domain.FixedExpense{
		UserID:      userID,
		Concept:     concept,
		Amount:      decimal.NewFromFloat(amount),
		Frequency:   frequency,
		StartDate:   startDate,
		NextDueDate: startDate,
		Status:      domain.ExpenseStatusActive,
	}
	if total != nil {
		t := decimal.NewFromFloat(*total)
		fe.TotalAmount = &t
		remaining := t
		fe.RemainingAmount = &remaining
	}
	created, _ := repo.Create(fe)
	return created
}

func TestMaterializeMonth_CreatesPendingEntry(t *testing.T) {
	service, fixedRepo, entryRepo := setupMaterializerTest()
	userID := uuid.New()

	fe := addFixedExpense(fixedRepo, userID, "Insurance", 120.50, domain.FrequencyMonthly, date(2025, 1, 10), nil)

	result, err := service.MaterializeMonth(userID, date(2025, 2, 1))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(result.Created) != 1 {
		t.Fatalf("Expected 1 created entry, got %d", len(result.Created))
	}
	entry := result.Created[0]
	if entry.Status != domain.EntryStatusPending {
		t.Errorf("Expected status pending, got %s", entry.Status)
	}
	if !entry.Amount.Equal(decimal.NewFromFloat(120.50)) {
		t.Errorf("Expected amount 120.50, got %s", entry.Amount.String())
	}
	if !entry.Month.Equal(date(2025, 2, 1)) {
		t.Errorf("Expected month 2025-02-01, got %v", entry.Month)
	}

	updated, _ := fixedRepo.GetByID(userID, fe.ID)
	if !updated.NextDueDate.Equal(date(2025, 2, 10)) {
		t.Errorf("Expected next due date 2025-02-10, got %v", updated.NextDueDate)
	}

	entries, _ := entryRepo.ListByUserAndMonth(userID, date(2025, 2, 1))
	if len(entries) != 1 {
		t.Errorf("Expected 1 stored entry, got %d", len(entries))
	}
}

func TestMaterializeMonth_Idempotent(t *testing.T) {
	service, fixedRepo, entryRepo := setupMaterializerTest()
	userID := uuid.New()

	addFixedExpense(fixedRepo, userID, "Rent", 800, domain.FrequencyMonthly, date(2025, 1, 1), nil)

	first, err := service.MaterializeMonth(userID, date(2025, 3, 1))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(first.Created) != 1 {
		t.Fatalf("Expected 1 created entry on first pass, got %d", len(first.Created))
	}

	second, err := service.MaterializeMonth(userID, date(2025, 3, 1))
	if err != nil {
		t.Fatalf("Expected no error on second pass, got %v", err)
	}
	if len(second.Created) != 0 {
		t.Errorf("Expected no created entries on second pass, got %d", len(second.Created))
	}

	entries, _ := entryRepo.ListByUserAndMonth(userID, date(2025, 3, 1))
	if len(entries) != 1 {
		t.Errorf("Expected exactly 1 entry after two passes, got %d", len(entries))
	}
}

func TestMaterializeMonth_AmountSnapshotSurvivesDefinitionEdit(t *testing.T) {
	service, fixedRepo, entryRepo := setupMaterializerTest()
	userID := uuid.New()

	fe := addFixedExpense(fixedRepo, userID, "Lease", 500, domain.FrequencyMonthly, date(2025, 1, 5), nil)

	if _, err := service.MaterializeMonth(userID, date(2025, 1, 1)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Raising the per-period amount must not reprice the January entry.
	fe.Amount = decimal.NewFromFloat(650)
	if _, err := fixedRepo.Update(fe); err != nil {
		t.Fatalf("Expected no error updating definition, got %v", err)
	}

	if _, err := service.MaterializeMonth(userID, date(2025, 2, 1)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	january, _ := entryRepo.ListByUserAndMonth(userID, date(2025, 1, 1))
	if len(january) != 1 {
		t.Fatalf("Expected 1 January entry, got %d", len(january))
	}
	if !january[0].Amount.Equal(decimal.NewFromFloat(500)) {
		t.Errorf("Expected January entry to keep amount 500, got %s", january[0].Amount.String())
	}

	february, _ := entryRepo.ListByUserAndMonth(userID, date(2025, 2, 1))
	if len(february) != 1 {
		t.Fatalf("Expected 1 February entry, got %d", len(february))
	}
	if !february[0].Amount.Equal(decimal.NewFromFloat(650)) {
		t.Errorf("Expected February entry at new amount 650, got %s", february[0].Amount.String())
	}
}

func TestMaterializeMonth_FiniteTotalAmortizesAndCompletes(t *testing.T) {
	service, fixedRepo, entryRepo := setupMaterializerTest()
	userID := uuid.New()

	total := 300.0
	fe := addFixedExpense(fixedRepo, userID, "Loan repayment", 100, domain.FrequencyMonthly, date(2025, 1, 1), &total)

	months := []time.Time{date(2025, 1, 1), date(2025, 2, 1), date(2025, 3, 1)}
	for _, month := range months {
		if _, err := service.MaterializeMonth(userID, month); err != nil {
			t.Fatalf("Expected no error for %v, got %v", month, err)
		}
	}

	updated := fixedRepo.Expenses[fe.ID]
	if updated.RemainingAmount == nil || !updated.RemainingAmount.Equal(decimal.Zero) {
		t.Errorf("Expected remaining amount 0, got %v", updated.RemainingAmount)
	}
	if updated.Status != domain.ExpenseStatusCompleted {
		t.Errorf("Expected status completed, got %s", updated.Status)
	}

	// A fourth pass generates nothing: the definition is no longer active.
	fourth, err := service.MaterializeMonth(userID, date(2025, 4, 1))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(fourth.Created) != 0 {
		t.Errorf("Expected no entries after completion, got %d", len(fourth.Created))
	}
	april, _ := entryRepo.ListByUserAndMonth(userID, date(2025, 4, 1))
	if len(april) != 0 {
		t.Errorf("Expected no April entry, got %d", len(april))
	}
}

func TestMaterializeMonth_ShortFinalPeriodExhaustsRemaining(t *testing.T) {
	service, fixedRepo, _ := setupMaterializerTest()
	userID := uuid.New()

	// 250 total at 100 per period: the third period would overdraw, so the
	// remainder is floored at zero instead of going negative.
	total := 250.0
	fe := addFixedExpense(fixedRepo, userID, "Deposit plan", 100, domain.FrequencyMonthly, date(2025, 1, 1), &total)

	for _, month := range []time.Time{date(2025, 1, 1), date(2025, 2, 1), date(2025, 3, 1)} {
		if _, err := service.MaterializeMonth(userID, month); err != nil {
			t.Fatalf("Expected no error for %v, got %v", month, err)
		}
	}

	updated := fixedRepo.Expenses[fe.ID]
	if updated.RemainingAmount == nil || !updated.RemainingAmount.Equal(decimal.Zero) {
		t.Errorf("Expected remaining amount 0, got %v", updated.RemainingAmount)
	}
	if updated.Status != domain.ExpenseStatusCompleted {
		t.Errorf("Expected status completed, got %s", updated.Status)
	}
}

func TestMaterializeMonth_NonMonthlyCadenceSkipsOffMonths(t *testing.T) {
	service, fixedRepo, entryRepo := setupMaterializerTest()
	userID := uuid.New()

	addFixedExpense(fixedRepo, userID, "Road tax", 90, domain.FrequencyQuarterly, date(2025, 1, 15), nil)

	result, err := service.MaterializeMonth(userID, date(2025, 2, 1))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(result.Created) != 0 {
		t.Errorf("Expected no entry in an off month, got %d", len(result.Created))
	}

	result, err = service.MaterializeMonth(userID, date(2025, 4, 1))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(result.Created) != 1 {
		t.Fatalf("Expected 1 entry in the due month, got %d", len(result.Created))
	}

	entries, _ := entryRepo.ListByUserAndMonth(userID, date(2025, 4, 1))
	if len(entries) != 1 {
		t.Errorf("Expected 1 April entry, got %d", len(entries))
	}
}

func TestMaterializeMonth_FutureStartDateSkipped(t *testing.T) {
	service, fixedRepo, _ := setupMaterializerTest()
	userID := uuid.New()

	addFixedExpense(fixedRepo, userID, "New lease", 300, domain.FrequencyMonthly, date(2025, 6, 1), nil)

	result, err := service.MaterializeMonth(userID, date(2025, 4, 1))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(result.Created) != 0 {
		t.Errorf("Expected no entry before the start date, got %d", len(result.Created))
	}
}

func TestMaterializeMonth_FailureIsolatedPerDefinition(t *testing.T) {
	service, fixedRepo, entryRepo := setupMaterializerTest()
	userID := uuid.New()

	broken := addFixedExpense(fixedRepo, userID, "Broken", 50, domain.FrequencyMonthly, date(2025, 1, 1), nil)
	healthy := addFixedExpense(fixedRepo, userID, "Healthy", 75, domain.FrequencyMonthly, date(2025, 1, 1), nil)

	updateErr := errors.New("store unavailable")
	fixedRepo.UpdateFn = func(fe *domain.FixedExpense) (*domain.FixedExpense, error) {
		if fe.ID == broken.ID {
			return nil, updateErr
		}
		fixedRepo.Expenses[fe.ID] = fe
		return fe, nil
	}

	result, err := service.MaterializeMonth(userID, date(2025, 2, 1))
	if err != nil {
		t.Fatalf("Expected no error from the pass itself, got %v", err)
	}

	if len(result.Failed) != 1 || result.Failed[0] != broken.ID {
		t.Errorf("Expected definition %d to fail, got %v", broken.ID, result.Failed)
	}
	if len(result.Created) != 2 {
		t.Errorf("Expected both entries created despite the bookkeeping failure, got %d", len(result.Created))
	}

	touched := false
	for _, id := range result.Touched {
		if id == healthy.ID {
			touched = true
		}
	}
	if !touched {
		t.Errorf("Expected healthy definition %d to be touched", healthy.ID)
	}

	entries, _ := entryRepo.ListByUserAndMonth(userID, date(2025, 2, 1))
	if len(entries) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(entries))
	}
}

func TestMaterializeMonth_LostInsertRaceIsBenign(t *testing.T) {
	service, fixedRepo, entryRepo := setupMaterializerTest()
	userID := uuid.New()

	addFixedExpense(fixedRepo, userID, "Garage", 60, domain.FrequencyMonthly, date(2025, 1, 1), nil)

	// Simulate a concurrent materialization winning between the existence
	// check and the insert.
	entryRepo.CreateIfAbsentFn = func(entry *domain.MonthlyEntry) (*domain.MonthlyEntry, error) {
		return nil, domain.ErrAlreadyMaterialized
	}

	result, err := service.MaterializeMonth(userID, date(2025, 2, 1))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(result.Created) != 0 {
		t.Errorf("Expected no created entries, got %d", len(result.Created))
	}
	if len(result.Failed) != 0 {
		t.Errorf("Expected losing the race to not count as failure, got %v", result.Failed)
	}
}
