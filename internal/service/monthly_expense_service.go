package service

import (
	"time"

	"github.com/dgvaldes/rutero/rutero-backend/internal/domain"
	"github.com/dgvaldes/rutero/rutero-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlyExpenseService serves the month's obligations view and the
// paid/pending toggle.
type MonthlyExpenseService struct {
	materializer *MaterializerService
	entryRepo    domain.MonthlyEntryRepository
}

// NewMonthlyExpenseService creates a new MonthlyExpenseService
func NewMonthlyExpenseService(materializer *MaterializerService, entryRepo domain.MonthlyEntryRepository) *MonthlyExpenseService {
	return &MonthlyExpenseService{
		materializer: materializer,
		entryRepo:    entryRepo,
	}
}

// MonthView is the month's obligations with their paid/pending split.
type MonthView struct {
	Month   time.Time              `json:"month"`
	Entries []*domain.MonthlyEntry `json:"entries"`
	Total   decimal.Decimal        `json:"total"`
	Paid    decimal.Decimal        `json:"paid"`
	Pending decimal.Decimal        `json:"pending"`
}

// GetMonthView materializes the month's obligations and returns them with
// aggregate figures. Materialization failures for individual definitions do
// not fail the view; whatever materialized is returned.
func (s *MonthlyExpenseService) GetMonthView(userID uuid.UUID, month time.Time) (*MonthView, error) {
	period := util.PeriodKey(month)

	if _, err := s.materializer.MaterializeMonth(userID, period); err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.ListByUserAndMonth(userID, period)
	if err != nil {
		return nil, err
	}
	entries = reconcileDuplicates(entries)

	view := &MonthView{
		Month:   period,
		Entries: entries,
		Total:   decimal.Zero,
		Paid:    decimal.Zero,
		Pending: decimal.Zero,
	}
	for _, e := range entries {
		view.Total = view.Total.Add(e.Amount)
		if e.Status == domain.EntryStatusPaid {
			view.Paid = view.Paid.Add(e.Amount)
		} else {
			view.Pending = view.Pending.Add(e.Amount)
		}
	}
	return view, nil
}

// TogglePaid flips an entry between pending and paid.
func (s *MonthlyExpenseService) TogglePaid(userID uuid.UUID, entryID int32) (*domain.MonthlyEntry, error) {
	entry, err := s.entryRepo.GetByID(userID, entryID)
	if err != nil {
		return nil, err
	}

	status := domain.EntryStatusPaid
	if entry.Status == domain.EntryStatusPaid {
		status = domain.EntryStatusPending
	}

	return s.entryRepo.UpdateStatus(userID, entryID, status)
}

// reconcileDuplicates keeps the earliest-created entry per definition. The
// store's conditional insert makes duplicates impossible under normal
// operation; this is the documented read-side fallback for stores that cannot
// enforce the (definition, month) uniqueness, where two racing
// materializations may both have inserted.
func reconcileDuplicates(entries []*domain.MonthlyEntry) []*domain.MonthlyEntry {
	seen := make(map[int32]bool, len(entries))
	result := entries[:0]
	for _, e := range entries {
		if seen[e.FixedExpenseID] {
			continue
		}
		seen[e.FixedExpenseID] = true
		result = append(result, e)
	}
	return result
}
