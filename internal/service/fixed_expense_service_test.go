package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dgvaldes/rutero/rutero-backend/internal/domain"
	"github.com/dgvaldes/rutero/rutero-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func setupFixedExpenseTest() (*FixedExpenseService, *testutil.MockFixedExpenseRepository) {
	repo := testutil.NewMockFixedExpenseRepository()
	return NewFixedExpenseService(repo), repo
}

func validCreateInput() CreateFixedExpenseInput {
	return CreateFixedExpenseInput{
		Concept:   "Vehicle insurance",
		Amount:    decimal.NewFromFloat(120),
		Frequency: domain.FrequencyMonthly,
		StartDate: date(2025, 1, 15),
	}
}

func TestCreateFixedExpense_Success(t *testing.T) {
	service, _ := setupFixedExpenseTest()
	userID := uuid.New()

	fe, err := service.CreateFixedExpense(userID, validCreateInput())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if fe.Status != domain.ExpenseStatusActive {
		t.Errorf("Expected status active, got %s", fe.Status)
	}
	if !fe.NextDueDate.Equal(date(2025, 1, 15)) {
		t.Errorf("Expected next due date to start at the start date, got %v", fe.NextDueDate)
	}
	if fe.TotalAmount != nil || fe.RemainingAmount != nil {
		t.Error("Expected an open-ended definition to carry no amortization amounts")
	}
}

func TestCreateFixedExpense_WithTotalAmount(t *testing.T) {
	service, _ := setupFixedExpenseTest()
	userID := uuid.New()

	total := decimal.NewFromFloat(1200)
	input := validCreateInput()
	input.TotalAmount = &total

	fe, err := service.CreateFixedExpense(userID, input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if fe.RemainingAmount == nil || !fe.RemainingAmount.Equal(total) {
		t.Errorf("Expected remaining amount to start at the total, got %v", fe.RemainingAmount)
	}
}

func TestCreateFixedExpense_Validation(t *testing.T) {
	service, _ := setupFixedExpenseTest()
	userID := uuid.New()

	tests := []struct {
		name    string
		mutate  func(input *CreateFixedExpenseInput)
		wantErr error
	}{
		{
			name:    "empty concept",
			mutate:  func(input *CreateFixedExpenseInput) { input.Concept = "   " },
			wantErr: domain.ErrConceptRequired,
		},
		{
			name:    "concept too long",
			mutate:  func(input *CreateFixedExpenseInput) { input.Concept = strings.Repeat("x", 256) },
			wantErr: domain.ErrConceptTooLong,
		},
		{
			name:    "zero amount",
			mutate:  func(input *CreateFixedExpenseInput) { input.Amount = decimal.Zero },
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			mutate:  func(input *CreateFixedExpenseInput) { input.Amount = decimal.NewFromFloat(-10) },
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "unknown frequency",
			mutate:  func(input *CreateFixedExpenseInput) { input.Frequency = "weekly" },
			wantErr: domain.ErrInvalidFrequency,
		},
		{
			name:    "zero start date",
			mutate:  func(input *CreateFixedExpenseInput) { input.StartDate = time.Time{} },
			wantErr: domain.ErrInvalidDate,
		},
		{
			name: "non-positive total",
			mutate: func(input *CreateFixedExpenseInput) {
				total := decimal.Zero
				input.TotalAmount = &total
			},
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validCreateInput()
			tt.mutate(&input)
			_, err := service.CreateFixedExpense(userID, input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateFixedExpense_TrimsConcept(t *testing.T) {
	service, _ := setupFixedExpenseTest()

	input := validCreateInput()
	input.Concept = "  Rent  "
	fe, err := service.CreateFixedExpense(uuid.New(), input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if fe.Concept != "Rent" {
		t.Errorf("Expected trimmed concept, got %q", fe.Concept)
	}
}

func TestUpdateFixedExpense_StartDateChangeResetsNextDue(t *testing.T) {
	service, repo := setupFixedExpenseTest()
	userID := uuid.New()

	fe := addFixedExpense(repo, userID, "Rent", 800, domain.FrequencyMonthly, date(2025, 1, 1), nil)
	// Materialization has advanced the cursor
	fe.NextDueDate = date(2025, 4, 1)

	updated, err := service.UpdateFixedExpense(userID, fe.ID, UpdateFixedExpenseInput{
		Concept:   "Rent",
		Amount:    decimal.NewFromFloat(800),
		Frequency: domain.FrequencyMonthly,
		StartDate: date(2025, 6, 10),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !updated.NextDueDate.Equal(date(2025, 6, 10)) {
		t.Errorf("Expected next due date reset to the new start date, got %v", updated.NextDueDate)
	}
}

func TestUpdateFixedExpense_KeepsNextDueWhenStartUnchanged(t *testing.T) {
	service, repo := setupFixedExpenseTest()
	userID := uuid.New()

	fe := addFixedExpense(repo, userID, "Rent", 800, domain.FrequencyMonthly, date(2025, 1, 1), nil)
	fe.NextDueDate = date(2025, 4, 1)

	updated, err := service.UpdateFixedExpense(userID, fe.ID, UpdateFixedExpenseInput{
		Concept:   "Rent (updated)",
		Amount:    decimal.NewFromFloat(850),
		Frequency: domain.FrequencyMonthly,
		StartDate: date(2025, 1, 1),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !updated.NextDueDate.Equal(date(2025, 4, 1)) {
		t.Errorf("Expected next due date untouched, got %v", updated.NextDueDate)
	}
	if !updated.Amount.Equal(decimal.NewFromFloat(850)) {
		t.Errorf("Expected amount 850, got %s", updated.Amount.String())
	}
}

func TestUpdateFixedExpense_NewTotalResetsAmortization(t *testing.T) {
	service, repo := setupFixedExpenseTest()
	userID := uuid.New()

	oldTotal := 300.0
	fe := addFixedExpense(repo, userID, "Tyres", 100, domain.FrequencyMonthly, date(2025, 1, 1), &oldTotal)
	remaining := decimal.Zero
	fe.RemainingAmount = &remaining
	fe.Status = domain.ExpenseStatusCompleted

	newTotal := decimal.NewFromFloat(500)
	updated, err := service.UpdateFixedExpense(userID, fe.ID, UpdateFixedExpenseInput{
		Concept:     "Tyres",
		Amount:      decimal.NewFromFloat(100),
		Frequency:   domain.FrequencyMonthly,
		StartDate:   date(2025, 1, 1),
		TotalAmount: &newTotal,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.RemainingAmount == nil || !updated.RemainingAmount.Equal(newTotal) {
		t.Errorf("Expected remaining amount reset to 500, got %v", updated.RemainingAmount)
	}
	if updated.Status != domain.ExpenseStatusActive {
		t.Errorf("Expected status reset to active, got %s", updated.Status)
	}
}

func TestUpdateFixedExpense_ClearingTotalStopsAmortization(t *testing.T) {
	service, repo := setupFixedExpenseTest()
	userID := uuid.New()

	total := 300.0
	fe := addFixedExpense(repo, userID, "Tyres", 100, domain.FrequencyMonthly, date(2025, 1, 1), &total)

	updated, err := service.UpdateFixedExpense(userID, fe.ID, UpdateFixedExpenseInput{
		Concept:   "Tyres",
		Amount:    decimal.NewFromFloat(100),
		Frequency: domain.FrequencyMonthly,
		StartDate: date(2025, 1, 1),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.TotalAmount != nil || updated.RemainingAmount != nil {
		t.Error("Expected amortization amounts cleared")
	}
}

func TestUpdateFixedExpense_NotFound(t *testing.T) {
	service, _ := setupFixedExpenseTest()

	_, err := service.UpdateFixedExpense(uuid.New(), 99, UpdateFixedExpenseInput{
		Concept:   "Rent",
		Amount:    decimal.NewFromFloat(800),
		Frequency: domain.FrequencyMonthly,
		StartDate: date(2025, 1, 1),
	})
	if !errors.Is(err, domain.ErrFixedExpenseNotFound) {
		t.Errorf("Expected ErrFixedExpenseNotFound, got %v", err)
	}
}

func TestDeleteFixedExpense(t *testing.T) {
	service, repo := setupFixedExpenseTest()
	userID := uuid.New()

	fe := addFixedExpense(repo, userID, "Rent", 800, domain.FrequencyMonthly, date(2025, 1, 1), nil)

	if err := service.DeleteFixedExpense(userID, fe.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := service.DeleteFixedExpense(userID, fe.ID); !errors.Is(err, domain.ErrFixedExpenseNotFound) {
		t.Errorf("Expected ErrFixedExpenseNotFound on second delete, got %v", err)
	}
}

func TestDeleteFixedExpense_OtherUsersExpense(t *testing.T) {
	service, repo := setupFixedExpenseTest()

	fe := addFixedExpense(repo, uuid.New(), "Rent", 800, domain.FrequencyMonthly, date(2025, 1, 1), nil)

	if err := service.DeleteFixedExpense(uuid.New(), fe.ID); !errors.Is(err, domain.ErrFixedExpenseNotFound) {
		t.Errorf("Expected ErrFixedExpenseNotFound for another user, got %v", err)
	}
}
