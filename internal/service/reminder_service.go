package service

import (
	"fmt"
	"time"

	"github.com/dgvaldes/rutero/rutero-backend/internal/domain"
	"github.com/dgvaldes/rutero/rutero-backend/internal/util"
	"github.com/google/uuid"
)

// transferReminderWindowDays is how many days into a month the previous
// month's pending transfer is still worth nagging about.
const transferReminderWindowDays = 5

// ReminderService surfaces payment-due and transfer-pending reminders, at
// most once per (reminder id, local day).
type ReminderService struct {
	userRepo    domain.UserRepository
	entryRepo   domain.MonthlyEntryRepository
	savingsRepo domain.SavingsRepository
	marks       domain.ReminderMarkStore
	now         func() time.Time
}

// NewReminderService creates a new ReminderService
func NewReminderService(userRepo domain.UserRepository, entryRepo domain.MonthlyEntryRepository, savingsRepo domain.SavingsRepository, marks domain.ReminderMarkStore) *ReminderService {
	return &ReminderService{
		userRepo:    userRepo,
		entryRepo:   entryRepo,
		savingsRepo: savingsRepo,
		marks:       marks,
		now:         time.Now,
	}
}

// SetClock overrides the wall clock, for tests.
func (s *ReminderService) SetClock(now func() time.Time) {
	s.now = now
}

// DueReminders runs the daily reminder checks for a user and returns whatever
// was surfaced. The whole check runs at most once per local day; individual
// reminder ids are additionally deduplicated through the mark store, so no id
// is surfaced twice on the same day no matter how often this is called. After
// the day rolls over, a still-applicable reminder surfaces again.
func (s *ReminderService) DueReminders(userID uuid.UUID) ([]domain.Reminder, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.NotificationsEnabled {
		return nil, nil
	}

	now := s.now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if s.marks.LastCheck(userID).Equal(day) {
		return nil, nil
	}

	var candidates []domain.Reminder

	expense, err := s.expenseReminders(userID, day)
	if err != nil {
		return nil, err
	}
	candidates = append(candidates, expense...)

	if day.Day() <= transferReminderWindowDays {
		transfer, err := s.transferReminder(userID, day)
		if err != nil {
			return nil, err
		}
		if transfer != nil {
			candidates = append(candidates, *transfer)
		}
	}

	var surfaced []domain.Reminder
	for _, r := range candidates {
		if s.maybeNotify(userID, day, r) {
			surfaced = append(surfaced, r)
		}
	}

	s.marks.SetLastCheck(userID, day)
	return surfaced, nil
}

// expenseReminders finds the month's pending entries whose definition falls
// due today. The due day is the definition's start day clamped into the
// current month, so a day-31 expense reminds on the 30th of a 30-day month.
func (s *ReminderService) expenseReminders(userID uuid.UUID, day time.Time) ([]domain.Reminder, error) {
	entries, err := s.entryRepo.ListByUserAndMonth(userID, util.PeriodKey(day))
	if err != nil {
		return nil, err
	}

	var reminders []domain.Reminder
	for _, entry := range entries {
		if entry.Status != domain.EntryStatusPending || entry.Expense == nil {
			continue
		}
		dueDay := util.CalculateActualDate(day.Year(), day.Month(), entry.Expense.StartDate.Day())
		if dueDay.Day() != day.Day() {
			continue
		}
		reminders = append(reminders, domain.Reminder{
			ID:          fmt.Sprintf("expense-%d", entry.ID),
			Title:       "Payment due",
			Description: fmt.Sprintf("Today is the payment day for: %s.", entry.Expense.Concept),
		})
	}
	return reminders, nil
}

// transferReminder nags about the previous month's settlement if it was never
// committed.
func (s *ReminderService) transferReminder(userID uuid.UUID, day time.Time) (*domain.Reminder, error) {
	previous := util.PreviousPeriod(util.PeriodKey(day))

	exists, err := s.savingsRepo.TransferExists(userID, previous)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	return &domain.Reminder{
		ID:          fmt.Sprintf("transfer-%s", previous.Format("2006-01-02")),
		Title:       "Transfer pending",
		Description: fmt.Sprintf("Remember to transfer your %s earnings to savings.", previous.Format("January")),
	}, nil
}

// maybeNotify reports whether the reminder should be surfaced, marking it as
// seen for the day when it is.
func (s *ReminderService) maybeNotify(userID uuid.UUID, day time.Time, r domain.Reminder) bool {
	if s.marks.Seen(userID, day, r.ID) {
		return false
	}
	s.marks.Mark(userID, day, r.ID)
	return true
}
