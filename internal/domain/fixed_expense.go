package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseStatus is the lifecycle state of a fixed expense definition.
type ExpenseStatus string

const (
	ExpenseStatusActive    ExpenseStatus = "active"
	ExpenseStatusCompleted ExpenseStatus = "completed"
)

// FixedExpense is a recurring obligation definition owned by a user. A
// definition with a finite TotalAmount amortizes: RemainingAmount decreases
// with every materialized period and the definition completes when it reaches
// zero. RemainingAmount is present iff TotalAmount is set.
type FixedExpense struct {
	ID              int32            `json:"id"`
	UserID          uuid.UUID        `json:"userId"`
	Concept         string           `json:"concept"`
	Amount          decimal.Decimal  `json:"amount"`
	Frequency       Frequency        `json:"frequency"`
	StartDate       time.Time        `json:"startDate"`
	TotalAmount     *decimal.Decimal `json:"totalAmount,omitempty"`
	RemainingAmount *decimal.Decimal `json:"remainingAmount,omitempty"`
	NextDueDate     time.Time        `json:"nextDueDate"`
	Status          ExpenseStatus    `json:"status"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// FixedExpenseRepository defines the interface for fixed expense persistence
type FixedExpenseRepository interface {
	Create(fe *FixedExpense) (*FixedExpense, error)
	GetByID(userID uuid.UUID, id int32) (*FixedExpense, error)
	ListByUser(userID uuid.UUID) ([]*FixedExpense, error)
	ListByUserAndStatus(userID uuid.UUID, status ExpenseStatus) ([]*FixedExpense, error)
	Update(fe *FixedExpense) (*FixedExpense, error)
	// Delete removes the definition and cascades to its monthly entries.
	Delete(userID uuid.UUID, id int32) error
}
