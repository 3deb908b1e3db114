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

func setupSavingsTest() (*SavingsService, *testutil.MockSavingsRepository, *testutil.MockFixedExpenseRepository, *testutil.MockMonthlyEntryRepository) {
	savingsRepo := testutil.NewMockSavingsRepository()
	fixedRepo := testutil.NewMockFixedExpenseRepository()
	entryRepo := testutil.NewMockMonthlyEntryRepository(fixedRepo)
	return NewSavingsService(savingsRepo, entryRepo), savingsRepo, fixedRepo, entryRepo
}

func TestAddExtraMovement_AppliesToTotal(t *testing.T) {
	service, savingsRepo, _, _ := setupSavingsTest()
	userID := uuid.New()

	_, err := service.AddExtraMovement(userID, AddExtraMovementInput{
		Amount:      decimal.NewFromFloat(50),
		Description: "Cash deposit",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = service.AddExtraMovement(userID, AddExtraMovementInput{
		Amount:      decimal.NewFromFloat(-20),
		Description: "Parking fine",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	total, err := service.TotalSavings(userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if total.StringFixed(2) != "30.00" {
		t.Errorf("Expected total 30.00, got %s", total.StringFixed(2))
	}
	if len(savingsRepo.Movements) != 2 {
		t.Errorf("Expected 2 movements recorded, got %d", len(savingsRepo.Movements))
	}
}

func TestAddExtraMovement_Validation(t *testing.T) {
	service, _, _, _ := setupSavingsTest()
	userID := uuid.New()

	tests := []struct {
		name    string
		input   AddExtraMovementInput
		wantErr error
	}{
		{
			name:    "empty description",
			input:   AddExtraMovementInput{Amount: decimal.NewFromFloat(10), Description: "  "},
			wantErr: domain.ErrDescriptionRequired,
		},
		{
			name:    "description too long",
			input:   AddExtraMovementInput{Amount: decimal.NewFromFloat(10), Description: strings.Repeat("x", 256)},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "zero amount",
			input:   AddExtraMovementInput{Amount: decimal.Zero, Description: "Nothing"},
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.AddExtraMovement(userID, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGetMonthlyMovements_BuildsFeed(t *testing.T) {
	service, savingsRepo, fixedRepo, entryRepo := setupSavingsTest()
	userID := uuid.New()

	// The month's earnings transfer
	transfer, err := savingsRepo.CreateTransfer(userID, date(2025, 4, 1), decimal.NewFromFloat(150))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	transfer.CreatedAt = time.Date(2025, 4, 30, 18, 0, 0, 0, time.UTC)

	// A manual deposit inside the month
	savingsRepo.AddExtraMovement(&domain.ExtraMovement{
		UserID:      userID,
		Amount:      decimal.NewFromFloat(50),
		Description: "Cash deposit",
		CreatedAt:   time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC),
	})
	// And one outside it, which must not appear
	savingsRepo.AddExtraMovement(&domain.ExtraMovement{
		UserID:      userID,
		Amount:      decimal.NewFromFloat(99),
		Description: "March deposit",
		CreatedAt:   time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	})

	// A paid fixed expense shows up as an outgoing payment
	fe := addFixedExpense(fixedRepo, userID, "Insurance", 120, domain.FrequencyMonthly, date(2025, 1, 5), nil)
	entry, _ := entryRepo.CreateIfAbsent(&domain.MonthlyEntry{
		FixedExpenseID: fe.ID,
		UserID:         userID,
		Month:          date(2025, 4, 1),
		Amount:         fe.Amount,
		Status:         domain.EntryStatusPaid,
		CreatedAt:      time.Date(2025, 4, 5, 9, 0, 0, 0, time.UTC),
	})
	if entry == nil {
		t.Fatal("Expected the paid entry to be created")
	}

	movements, err := service.GetMonthlyMovements(userID, date(2025, 4, 1))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(movements) != 3 {
		t.Fatalf("Expected 3 movements, got %d", len(movements))
	}

	// Oldest first: payment (Apr 5), deposit (Apr 10), transfer (Apr 30)
	if movements[0].Type != MovementTypePayment {
		t.Errorf("Expected first movement to be the payment, got %s", movements[0].Type)
	}
	if movements[0].Description != "Payment: Insurance" {
		t.Errorf("Expected payment description, got %q", movements[0].Description)
	}
	if movements[0].Amount.StringFixed(2) != "-120.00" {
		t.Errorf("Expected payment amount -120.00, got %s", movements[0].Amount.StringFixed(2))
	}
	if movements[1].Type != MovementTypeIncome {
		t.Errorf("Expected second movement to be income, got %s", movements[1].Type)
	}
	if movements[2].Type != MovementTypeTransfer {
		t.Errorf("Expected third movement to be the transfer, got %s", movements[2].Type)
	}
	if movements[2].Amount.StringFixed(2) != "150.00" {
		t.Errorf("Expected transfer amount 150.00, got %s", movements[2].Amount.StringFixed(2))
	}
}

func TestGetMonthlyMovements_WithdrawalType(t *testing.T) {
	service, savingsRepo, _, _ := setupSavingsTest()
	userID := uuid.New()

	savingsRepo.AddExtraMovement(&domain.ExtraMovement{
		UserID:      userID,
		Amount:      decimal.NewFromFloat(-30),
		Description: "Withdrawal",
		CreatedAt:   time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC),
	})

	movements, err := service.GetMonthlyMovements(userID, date(2025, 4, 1))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(movements) != 1 {
		t.Fatalf("Expected 1 movement, got %d", len(movements))
	}
	if movements[0].Type != MovementTypeWithdrawal {
		t.Errorf("Expected type withdrawal, got %s", movements[0].Type)
	}
}

func TestGetMonthlyMovements_EmptyMonth(t *testing.T) {
	service, _, _, _ := setupSavingsTest()

	movements, err := service.GetMonthlyMovements(uuid.New(), date(2025, 4, 1))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(movements) != 0 {
		t.Errorf("Expected no movements, got %d", len(movements))
	}
}
