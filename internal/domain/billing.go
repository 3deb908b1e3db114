package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingEntry is one day of driver activity: the amount billed to the fleet,
// any advance already received against future commission, and distance/hours
// worked.
type BillingEntry struct {
	ID            int32           `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	BillingDate   time.Time       `json:"billingDate"`
	BilledAmount  decimal.Decimal `json:"billedAmount"`
	AdvanceAmount decimal.Decimal `json:"advanceAmount"`
	Km            decimal.Decimal `json:"km"`
	Hours         decimal.Decimal `json:"hours"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// BillingTotals aggregates billing activity over a date range.
type BillingTotals struct {
	TotalBilled   decimal.Decimal `json:"totalBilled"`
	TotalAdvances decimal.Decimal `json:"totalAdvances"`
	TotalKm       decimal.Decimal `json:"totalKm"`
	TotalHours    decimal.Decimal `json:"totalHours"`
}

// BillingRepository defines the interface for billing entry persistence
type BillingRepository interface {
	// Upsert creates the day's entry or replaces it if one already exists for
	// (user, billing date).
	Upsert(be *BillingEntry) (*BillingEntry, error)
	GetByID(userID uuid.UUID, id int32) (*BillingEntry, error)
	ListByDateRange(userID uuid.UUID, from, to time.Time) ([]*BillingEntry, error)
	SumByDateRange(userID uuid.UUID, from, to time.Time) (*BillingTotals, error)
	Delete(userID uuid.UUID, id int32) error
}
