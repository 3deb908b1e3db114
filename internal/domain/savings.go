package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SavingsTransfer records that one period's net earnings were moved into the
// savings fund. At most one transfer exists per (user, month); it is created
// once by the settlement engine and never updated or deleted.
type SavingsTransfer struct {
	ID        int32           `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Month     time.Time       `json:"month"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ExtraMovement is a manual savings adjustment. Amount is signed: positive
// for deposits, negative for withdrawals.
type ExtraMovement struct {
	ID          int32           `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// SavingsRepository defines the interface for savings ledger persistence
type SavingsRepository interface {
	// CreateTransfer inserts the period's transfer and increments the user's
	// savings total in a single transaction. The insert is conditional on the
	// (user, month) pair: if another commit already won, it returns
	// ErrAlreadyTransferred and nothing is written.
	CreateTransfer(userID uuid.UUID, month time.Time, amount decimal.Decimal) (*SavingsTransfer, error)
	TransferExists(userID uuid.UUID, month time.Time) (bool, error)
	ListTransfersByUser(userID uuid.UUID) ([]*SavingsTransfer, error)

	// AddExtraMovement inserts the movement and applies its signed amount to
	// the user's savings total in a single transaction.
	AddExtraMovement(movement *ExtraMovement) (*ExtraMovement, error)
	ListExtraMovementsByDateRange(userID uuid.UUID, from, to time.Time) ([]*ExtraMovement, error)

	// SavingsTotal returns the user's accumulated fund: the sum of all
	// transfers and extra movements, maintained by atomic increments.
	SavingsTotal(userID uuid.UUID) (decimal.Decimal, error)
}
