package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a driver profile in the system
type User struct {
	ID                   uuid.UUID       `json:"id"`
	Auth0ID              string          `json:"auth0Id"`
	Email                string          `json:"email"`
	Name                 *string         `json:"name"`
	CommissionRate       decimal.Decimal `json:"commissionRate"`
	MonthlySalary        decimal.Decimal `json:"monthlySalary"`
	NotificationsEnabled bool            `json:"notificationsEnabled"`
	SavingsTotal         decimal.Decimal `json:"savingsTotal"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	GetByID(id uuid.UUID) (*User, error)
	GetByAuth0ID(auth0ID string) (*User, error)
	CreateOrGetByAuth0ID(auth0ID, email string, name *string) (*User, error)
	UpdateSettings(id uuid.UUID, commissionRate, monthlySalary decimal.Decimal, notificationsEnabled bool) (*User, error)
}
