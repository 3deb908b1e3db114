package service

import (
	"testing"
	"time"

	"github.com/dgvaldes/rutero/rutero-backend/internal/domain"
	"github.com/dgvaldes/rutero/rutero-backend/internal/repository/memory"
	"github.com/dgvaldes/rutero/rutero-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type reminderFixture struct {
	service     *ReminderService
	userRepo    *testutil.MockUserRepository
	fixedRepo   *testutil.MockFixedExpenseRepository
	entryRepo   *testutil.MockMonthlyEntryRepository
	savingsRepo *testutil.MockSavingsRepository
	user        *domain.User
	now         time.Time
}

func setupReminderTest() *reminderFixture {
	userRepo := testutil.NewMockUserRepository()
	fixedRepo := testutil.NewMockFixedExpenseRepository()
	entryRepo := testutil.NewMockMonthlyEntryRepository(fixedRepo)
	savingsRepo := testutil.NewMockSavingsRepository()
	marks := memory.NewReminderMarkStore()

	user := &domain.User{
		ID:                   uuid.New(),
		Auth0ID:              "auth0|driver",
		Email:                "driver@example.com",
		NotificationsEnabled: true,
	}
	userRepo.AddUser(user)

	f := &reminderFixture{
		service:     NewReminderService(userRepo, entryRepo, savingsRepo, marks),
		userRepo:    userRepo,
		fixedRepo:   fixedRepo,
		entryRepo:   entryRepo,
		savingsRepo: savingsRepo,
		user:        user,
		now:         date(2025, 5, 15),
	}
	f.service.SetClock(func() time.Time { return f.now })
	return f
}

// addPendingEntry seeds a pending entry for the month containing f.now whose
// definition starts on the given day of month.
func (f *reminderFixture) addPendingEntry(startDay int) *domain.MonthlyEntry {
	fe := addFixedExpense(f.fixedRepo, f.user.ID, "Insurance", 100, domain.FrequencyMonthly, date(2025, 1, startDay), nil)
	entry, _ := f.entryRepo.CreateIfAbsent(&domain.MonthlyEntry{
		FixedExpenseID: fe.ID,
		UserID:         f.user.ID,
		Month:          date(f.now.Year(), f.now.Month(), 1),
		Amount:         fe.Amount,
		Status:         domain.EntryStatusPending,
	})
	return entry
}

func TestDueReminders_ExpenseDueToday(t *testing.T) {
	f := setupReminderTest()
	entry := f.addPendingEntry(15)

	reminders, err := f.service.DueReminders(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(reminders) != 1 {
		t.Fatalf("Expected 1 reminder, got %d", len(reminders))
	}
	wantID := "expense-1"
	if entry != nil && reminders[0].ID != wantID {
		t.Errorf("Expected reminder id %s, got %s", wantID, reminders[0].ID)
	}
}

func TestDueReminders_AtMostOncePerDay(t *testing.T) {
	f := setupReminderTest()
	f.addPendingEntry(15)

	first, err := f.service.DueReminders(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("Expected 1 reminder on first run, got %d", len(first))
	}

	// Any number of repeat runs within the day surface nothing.
	for i := 0; i < 3; i++ {
		again, err := f.service.DueReminders(f.user.ID)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(again) != 0 {
			t.Fatalf("Expected no reminders on repeat run, got %d", len(again))
		}
	}
}

func TestDueReminders_SurfacesAgainAfterDayRollover(t *testing.T) {
	f := setupReminderTest()
	f.addPendingEntry(15)

	// The entry stays pending and its due day passes; move the clock one day
	// at a time so "still applicable" means due on the new day too.
	if _, err := f.service.DueReminders(f.user.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	f.now = date(2025, 6, 15)
	f.addPendingEntry(15)

	reminders, err := f.service.DueReminders(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(reminders) != 1 {
		t.Errorf("Expected a reminder after the day rolled over, got %d", len(reminders))
	}
}

func TestDueReminders_NotDueOtherDays(t *testing.T) {
	f := setupReminderTest()
	f.addPendingEntry(20)

	reminders, err := f.service.DueReminders(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(reminders) != 0 {
		t.Errorf("Expected no reminders before the due day, got %d", len(reminders))
	}
}

func TestDueReminders_PaidEntriesSkipped(t *testing.T) {
	f := setupReminderTest()
	entry := f.addPendingEntry(15)
	f.entryRepo.UpdateStatus(f.user.ID, entry.ID, domain.EntryStatusPaid)

	reminders, err := f.service.DueReminders(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(reminders) != 0 {
		t.Errorf("Expected no reminders for paid entries, got %d", len(reminders))
	}
}

func TestDueReminders_ClampedDueDay(t *testing.T) {
	f := setupReminderTest()
	// Definition starts on the 31st; April has 30 days, so it falls due on
	// the 30th.
	f.now = date(2025, 4, 30)
	fe := addFixedExpense(f.fixedRepo, f.user.ID, "Lease", 200, domain.FrequencyMonthly, date(2025, 1, 31), nil)
	f.entryRepo.CreateIfAbsent(&domain.MonthlyEntry{
		FixedExpenseID: fe.ID,
		UserID:         f.user.ID,
		Month:          date(2025, 4, 1),
		Amount:         fe.Amount,
		Status:         domain.EntryStatusPending,
	})

	reminders, err := f.service.DueReminders(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(reminders) != 1 {
		t.Errorf("Expected clamped due day to remind on the 30th, got %d reminders", len(reminders))
	}
}

func TestDueReminders_TransferPendingWithinWindow(t *testing.T) {
	f := setupReminderTest()
	f.now = date(2025, 5, 3)

	reminders, err := f.service.DueReminders(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(reminders) != 1 {
		t.Fatalf("Expected 1 reminder, got %d", len(reminders))
	}
	if reminders[0].ID != "transfer-2025-04-01" {
		t.Errorf("Expected reminder id transfer-2025-04-01, got %s", reminders[0].ID)
	}
}

func TestDueReminders_TransferAlreadyCommitted(t *testing.T) {
	f := setupReminderTest()
	f.now = date(2025, 5, 3)
	f.savingsRepo.CreateTransfer(f.user.ID, date(2025, 4, 1), decimal.NewFromFloat(120))

	reminders, err := f.service.DueReminders(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(reminders) != 0 {
		t.Errorf("Expected no reminders when the transfer exists, got %d", len(reminders))
	}
}

func TestDueReminders_TransferWindowCloses(t *testing.T) {
	f := setupReminderTest()
	f.now = date(2025, 5, 6)

	reminders, err := f.service.DueReminders(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(reminders) != 0 {
		t.Errorf("Expected no transfer reminder after day 5, got %d", len(reminders))
	}
}

func TestDueReminders_DisabledByProfileFlag(t *testing.T) {
	f := setupReminderTest()
	f.addPendingEntry(15)
	f.user.NotificationsEnabled = false

	reminders, err := f.service.DueReminders(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(reminders) != 0 {
		t.Errorf("Expected no reminders when notifications are disabled, got %d", len(reminders))
	}
}
