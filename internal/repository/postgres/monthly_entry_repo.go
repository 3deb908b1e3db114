package postgres

import (
	"context"
	"time"

	"github.com/dgvaldes/rutero/rutero-backend/internal/domain"
	"github.com/dgvaldes/rutero/rutero-backend/internal/util"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const monthlyEntryColumns = `e.id, e.fixed_expense_id, e.user_id, e.month, e.amount, e.status, e.created_at`

// MonthlyEntryRepository implements domain.MonthlyEntryRepository using PostgreSQL
type MonthlyEntryRepository struct {
	pool *pgxpool.Pool
}

// NewMonthlyEntryRepository creates a new MonthlyEntryRepository
func NewMonthlyEntryRepository(pool *pgxpool.Pool) *MonthlyEntryRepository {
	return &MonthlyEntryRepository{pool: pool}
}

// CreateIfAbsent inserts the entry unless one exists for the same
// (fixed expense, month) pair. The unique index makes the insert conditional,
// so of two racing materializations exactly one row survives.
func (r *MonthlyEntryRepository) CreateIfAbsent(entry *domain.MonthlyEntry) (*domain.MonthlyEntry, error) {
	amount, err := decimalToPgNumeric(entry.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO monthly_expense_entries (fixed_expense_id, user_id, month, amount, status)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (fixed_expense_id, month) DO NOTHING
		 RETURNING `+monthlyEntryColumns,
		entry.FixedExpenseID, entry.UserID, toPgDate(util.PeriodKey(entry.Month)),
		amount, string(entry.Status))

	created, err := scanMonthlyEntry(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrAlreadyMaterialized
		}
		return nil, err
	}
	return created, nil
}

// ExistsForMonth reports whether an entry exists for the (expense, month) pair
func (r *MonthlyEntryRepository) ExistsForMonth(fixedExpenseID int32, month time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM monthly_expense_entries e WHERE e.fixed_expense_id = $1 AND e.month = $2)`,
		fixedExpenseID, toPgDate(util.PeriodKey(month))).Scan(&exists)
	return exists, err
}

// GetByID retrieves an entry by ID
func (r *MonthlyEntryRepository) GetByID(userID uuid.UUID, id int32) (*domain.MonthlyEntry, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+monthlyEntryColumns+`, `+joinedExpenseColumns+`
		 FROM monthly_expense_entries e
		 JOIN fixed_expenses f ON f.id = e.fixed_expense_id
		 WHERE e.user_id = $1 AND e.id = $2`,
		userID, id)

	entry, err := scanMonthlyEntryWithExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

// ListByUserAndMonth retrieves a user's entries for a month with their
// definitions joined, oldest first
func (r *MonthlyEntryRepository) ListByUserAndMonth(userID uuid.UUID, month time.Time) ([]*domain.MonthlyEntry, error) {
	return r.listByUserAndMonth(userID, month, "")
}

// ListPaidByUserAndMonth retrieves a user's paid entries for a month
func (r *MonthlyEntryRepository) ListPaidByUserAndMonth(userID uuid.UUID, month time.Time) ([]*domain.MonthlyEntry, error) {
	return r.listByUserAndMonth(userID, month, domain.EntryStatusPaid)
}

func (r *MonthlyEntryRepository) listByUserAndMonth(userID uuid.UUID, month time.Time, status domain.EntryStatus) ([]*domain.MonthlyEntry, error) {
	query := `SELECT ` + monthlyEntryColumns + `, ` + joinedExpenseColumns + `
		 FROM monthly_expense_entries e
		 JOIN fixed_expenses f ON f.id = e.fixed_expense_id
		 WHERE e.user_id = $1 AND e.month = $2`
	args := []any{userID, toPgDate(util.PeriodKey(month))}
	if status != "" {
		query += ` AND e.status = $3`
		args = append(args, string(status))
	}
	query += ` ORDER BY e.created_at, e.id`

	rows, err := r.pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.MonthlyEntry
	for rows.Next() {
		entry, err := scanMonthlyEntryWithExpense(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

// UpdateStatus updates an entry's payment status
func (r *MonthlyEntryRepository) UpdateStatus(userID uuid.UUID, id int32, status domain.EntryStatus) (*domain.MonthlyEntry, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE monthly_expense_entries e
		 SET status = $3
		 WHERE e.user_id = $1 AND e.id = $2
		 RETURNING `+monthlyEntryColumns,
		userID, id, string(status))

	entry, err := scanMonthlyEntry(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

const joinedExpenseColumns = `f.id, f.user_id, f.concept, f.amount, f.frequency, f.start_date, f.total_amount, f.remaining_amount, f.next_due_date, f.status, f.created_at, f.updated_at`

func scanMonthlyEntry(row pgx.Row) (*domain.MonthlyEntry, error) {
	var (
		entry  domain.MonthlyEntry
		month  pgtype.Date
		amount pgtype.Numeric
		status string
	)
	err := row.Scan(&entry.ID, &entry.FixedExpenseID, &entry.UserID, &month,
		&amount, &status, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}

	entry.Month = pgDateToTime(month)
	entry.Amount = pgNumericToDecimal(amount)
	entry.Status = domain.EntryStatus(status)
	return &entry, nil
}

func scanMonthlyEntryWithExpense(row pgx.Row) (*domain.MonthlyEntry, error) {
	var (
		entry       domain.MonthlyEntry
		month       pgtype.Date
		amount      pgtype.Numeric
		status      string
		fe          domain.FixedExpense
		feAmount    pgtype.Numeric
		feTotal     pgtype.Numeric
		feRemaining pgtype.Numeric
		feStart     pgtype.Date
		feNextDue   pgtype.Date
		feFrequency string
		feStatus    string
	)
	err := row.Scan(&entry.ID, &entry.FixedExpenseID, &entry.UserID, &month,
		&amount, &status, &entry.CreatedAt,
		&fe.ID, &fe.UserID, &fe.Concept, &feAmount, &feFrequency, &feStart,
		&feTotal, &feRemaining, &feNextDue, &feStatus, &fe.CreatedAt, &fe.UpdatedAt)
	if err != nil {
		return nil, err
	}

	entry.Month = pgDateToTime(month)
	entry.Amount = pgNumericToDecimal(amount)
	entry.Status = domain.EntryStatus(status)

	fe.Amount = pgNumericToDecimal(feAmount)
	fe.Frequency = domain.Frequency(feFrequency)
	fe.StartDate = pgDateToTime(feStart)
	fe.TotalAmount = pgNumericToDecimalPtr(feTotal)
	fe.RemainingAmount = pgNumericToDecimalPtr(feRemaining)
	fe.NextDueDate = pgDateToTime(feNextDue)
	fe.Status = domain.ExpenseStatus(feStatus)
	entry.Expense = &fe

	return &entry, nil
}
