package postgres

import (
	"context"

	"github.com/dgvaldes/rutero/rutero-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fixedExpenseColumns = `id, user_id, concept, amount, frequency, start_date, total_amount, remaining_amount, next_due_date, status, created_at, updated_at`

// FixedExpenseRepository implements domain.FixedExpenseRepository using PostgreSQL
type FixedExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewFixedExpenseRepository creates a new FixedExpenseRepository
func NewFixedExpenseRepository(pool *pgxpool.Pool) *FixedExpenseRepository {
	return &FixedExpenseRepository{pool: pool}
}

// Create creates a new fixed expense definition
func (r *FixedExpenseRepository) Create(fe *domain.FixedExpense) (*domain.FixedExpense, error) {
	amount, err := decimalToPgNumeric(fe.Amount)
	if err != nil {
		return nil, err
	}
	total, err := decimalPtrToPgNumeric(fe.TotalAmount)
	if err != nil {
		return nil, err
	}
	remaining, err := decimalPtrToPgNumeric(fe.RemainingAmount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO fixed_expenses (user_id, concept, amount, frequency, start_date, total_amount, remaining_amount, next_due_date, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+fixedExpenseColumns,
		fe.UserID, fe.Concept, amount, string(fe.Frequency), toPgDate(fe.StartDate),
		total, remaining, toPgDate(fe.NextDueDate), string(fe.Status))

	return scanFixedExpense(row)
}

// GetByID retrieves a fixed expense by ID
func (r *FixedExpenseRepository) GetByID(userID uuid.UUID, id int32) (*domain.FixedExpense, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+fixedExpenseColumns+` FROM fixed_expenses WHERE user_id = $1 AND id = $2`,
		userID, id)

	fe, err := scanFixedExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrFixedExpenseNotFound
		}
		return nil, err
	}
	return fe, nil
}

// ListByUser retrieves all fixed expense definitions for a user
func (r *FixedExpenseRepository) ListByUser(userID uuid.UUID) ([]*domain.FixedExpense, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+fixedExpenseColumns+` FROM fixed_expenses WHERE user_id = $1 ORDER BY id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectFixedExpenses(rows)
}

// ListByUserAndStatus retrieves a user's fixed expenses filtered by status
func (r *FixedExpenseRepository) ListByUserAndStatus(userID uuid.UUID, status domain.ExpenseStatus) ([]*domain.FixedExpense, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+fixedExpenseColumns+` FROM fixed_expenses WHERE user_id = $1 AND status = $2 ORDER BY id`,
		userID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectFixedExpenses(rows)
}

// Update updates a fixed expense definition
func (r *FixedExpenseRepository) Update(fe *domain.FixedExpense) (*domain.FixedExpense, error) {
	amount, err := decimalToPgNumeric(fe.Amount)
	if err != nil {
		return nil, err
	}
	total, err := decimalPtrToPgNumeric(fe.TotalAmount)
	if err != nil {
		return nil, err
	}
	remaining, err := decimalPtrToPgNumeric(fe.RemainingAmount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(),
		`UPDATE fixed_expenses
		 SET concept = $3, amount = $4, frequency = $5, start_date = $6,
		     total_amount = $7, remaining_amount = $8, next_due_date = $9, status = $10,
		     updated_at = NOW()
		 WHERE user_id = $1 AND id = $2
		 RETURNING `+fixedExpenseColumns,
		fe.UserID, fe.ID, fe.Concept, amount, string(fe.Frequency), toPgDate(fe.StartDate),
		total, remaining, toPgDate(fe.NextDueDate), string(fe.Status))

	updated, err := scanFixedExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrFixedExpenseNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a fixed expense; monthly entries cascade at the schema level
func (r *FixedExpenseRepository) Delete(userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM fixed_expenses WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFixedExpenseNotFound
	}
	return nil
}

func scanFixedExpense(row pgx.Row) (*domain.FixedExpense, error) {
	var (
		fe        domain.FixedExpense
		amount    pgtype.Numeric
		total     pgtype.Numeric
		remaining pgtype.Numeric
		start     pgtype.Date
		nextDue   pgtype.Date
		frequency string
		status    string
	)
	err := row.Scan(&fe.ID, &fe.UserID, &fe.Concept, &amount, &frequency, &start,
		&total, &remaining, &nextDue, &status, &fe.CreatedAt, &fe.UpdatedAt)
	if err != nil {
		return nil, err
	}

	fe.Amount = pgNumericToDecimal(amount)
	fe.Frequency = domain.Frequency(frequency)
	fe.StartDate = pgDateToTime(start)
	fe.TotalAmount = pgNumericToDecimalPtr(total)
	fe.RemainingAmount = pgNumericToDecimalPtr(remaining)
	fe.NextDueDate = pgDateToTime(nextDue)
	fe.Status = domain.ExpenseStatus(status)
	return &fe, nil
}

func collectFixedExpenses(rows pgx.Rows) ([]*domain.FixedExpense, error) {
	var result []*domain.FixedExpense
	for rows.Next() {
		fe, err := scanFixedExpense(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, fe)
	}
	return result, rows.Err()
}
