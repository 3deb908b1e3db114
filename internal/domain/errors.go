package domain

import "errors"

// Domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInternalError        = errors.New("internal error")
	ErrUserNotFound         = errors.New("user not found")
	ErrFixedExpenseNotFound = errors.New("fixed expense not found")
	ErrEntryNotFound        = errors.New("monthly expense entry not found")
	ErrBillingNotFound      = errors.New("billing entry not found")

	ErrConceptRequired     = errors.New("concept is required")
	ErrConceptTooLong      = errors.New("concept exceeds maximum length")
	ErrDescriptionRequired = errors.New("description is required")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrNegativeAmount      = errors.New("amount must not be negative")
	ErrInvalidFrequency    = errors.New("invalid frequency")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidCommission   = errors.New("commission rate must be between 0 and 1")

	// ErrAlreadyMaterialized signals that an entry already exists for the
	// period. Benign: the materializer treats it as a successful no-op.
	ErrAlreadyMaterialized = errors.New("entry already materialized for period")

	// ErrAlreadyTransferred signals that the period's savings transfer was
	// already committed. Benign for reads, a hard rejection for commits.
	ErrAlreadyTransferred = errors.New("savings transfer already exists for period")

	// ErrNotEligible rejects a transfer commit before the period is closed.
	ErrNotEligible = errors.New("transfer not eligible before the last day of the month")

	// ErrNothingToTransfer rejects a transfer commit with net earnings <= 0.
	ErrNothingToTransfer = errors.New("no net earnings to transfer")
)

// Validation constants
const (
	MaxConceptLength     = 255
	MaxDescriptionLength = 255
)
