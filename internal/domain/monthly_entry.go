package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryStatus is the payment state of a materialized monthly entry.
type EntryStatus string

const (
	EntryStatusPending EntryStatus = "pending"
	EntryStatusPaid    EntryStatus = "paid"
)

// MonthlyEntry is one period's materialized obligation for a fixed expense.
// Amount snapshots the definition's per-period amount at generation time;
// later edits to the definition never reprice an existing entry. Month is the
// period key (first of month, UTC).
type MonthlyEntry struct {
	ID             int32           `json:"id"`
	FixedExpenseID int32           `json:"fixedExpenseId"`
	UserID         uuid.UUID       `json:"userId"`
	Month          time.Time       `json:"month"`
	Amount         decimal.Decimal `json:"amount"`
	Status         EntryStatus     `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`

	// Expense carries the joined definition on read paths.
	Expense *FixedExpense `json:"expense,omitempty"`
}

// MonthlyEntryRepository defines the interface for monthly entry persistence
type MonthlyEntryRepository interface {
	// CreateIfAbsent inserts the entry unless one already exists for the same
	// (fixed expense, month) pair, in which case it returns
	// ErrAlreadyMaterialized. Implementations back this with a conditional
	// insert so two racing materializations cannot both create a row.
	CreateIfAbsent(entry *MonthlyEntry) (*MonthlyEntry, error)
	ExistsForMonth(fixedExpenseID int32, month time.Time) (bool, error)
	GetByID(userID uuid.UUID, id int32) (*MonthlyEntry, error)
	// ListByUserAndMonth returns the month's entries with their definitions
	// joined, ordered by creation time.
	ListByUserAndMonth(userID uuid.UUID, month time.Time) ([]*MonthlyEntry, error)
	ListPaidByUserAndMonth(userID uuid.UUID, month time.Time) ([]*MonthlyEntry, error)
	UpdateStatus(userID uuid.UUID, id int32, status EntryStatus) (*MonthlyEntry, error)
}
