package postgres

import (
	"context"

	"github.com/dgvaldes/rutero/rutero-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const userColumns = `id, auth0_id, email, name, commission_rate, monthly_salary, notifications_enabled, savings_total, created_at, updated_at`

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID retrieves a user by their UUID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanUser(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetByAuth0ID retrieves a user by their Auth0 ID
func (r *UserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE auth0_id = $1`, auth0ID)

	user, err := scanUser(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// CreateOrGetByAuth0ID provisions the user for an Auth0 identity, returning
// the existing row when the identity is already known. New users start with
// the default commission rate and notifications enabled.
func (r *UserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name *string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO users (auth0_id, email, name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (auth0_id) DO UPDATE SET email = EXCLUDED.email
		 RETURNING `+userColumns,
		auth0ID, email, stringPtrToPgText(name))

	return scanUser(row)
}

// UpdateSettings updates the user's profile settings
func (r *UserRepository) UpdateSettings(id uuid.UUID, commissionRate, monthlySalary decimal.Decimal, notificationsEnabled bool) (*domain.User, error) {
	rate, err := decimalToPgNumeric(commissionRate)
	if err != nil {
		return nil, err
	}
	salary, err := decimalToPgNumeric(monthlySalary)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(),
		`UPDATE users
		 SET commission_rate = $2, monthly_salary = $3, notifications_enabled = $4, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, rate, salary, notificationsEnabled)

	user, err := scanUser(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user   domain.User
		name   pgtype.Text
		rate   pgtype.Numeric
		salary pgtype.Numeric
		total  pgtype.Numeric
	)
	err := row.Scan(&user.ID, &user.Auth0ID, &user.Email, &name, &rate, &salary,
		&user.NotificationsEnabled, &total, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	user.Name = pgTextToStringPtr(name)
	user.CommissionRate = pgNumericToDecimal(rate)
	user.MonthlySalary = pgNumericToDecimal(salary)
	user.SavingsTotal = pgNumericToDecimal(total)
	return &user, nil
}
