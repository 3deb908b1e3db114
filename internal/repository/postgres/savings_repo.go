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
	"github.com/shopspring/decimal"
)

// SavingsRepository implements domain.SavingsRepository using PostgreSQL
type SavingsRepository struct {
	pool *pgxpool.Pool
}

// NewSavingsRepository creates a new SavingsRepository
func NewSavingsRepository(pool *pgxpool.Pool) *SavingsRepository {
	return &SavingsRepository{pool: pool}
}

// CreateTransfer inserts the period's transfer and increments the user's
// savings total in a single transaction. The insert is conditional on the
// (user, month) unique index; when another commit already won it returns
// ErrAlreadyTransferred and the transaction rolls back with nothing written.
func (r *SavingsRepository) CreateTransfer(userID uuid.UUID, month time.Time, amount decimal.Decimal) (*domain.SavingsTransfer, error) {
	ctx := context.Background()

	num, err := decimalToPgNumeric(amount)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`INSERT INTO savings_transfers (user_id, month, amount)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, month) DO NOTHING
		 RETURNING id, user_id, month, amount, created_at`,
		userID, toPgDate(util.PeriodKey(month)), num)

	transfer, err := scanSavingsTransfer(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrAlreadyTransferred
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET savings_total = savings_total + $2, updated_at = NOW() WHERE id = $1`,
		userID, num); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return transfer, nil
}

// TransferExists reports whether a transfer exists for the (user, month) pair
func (r *SavingsRepository) TransferExists(userID uuid.UUID, month time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM savings_transfers WHERE user_id = $1 AND month = $2)`,
		userID, toPgDate(util.PeriodKey(month))).Scan(&exists)
	return exists, err
}

// ListTransfersByUser retrieves all transfers for a user, newest month first
func (r *SavingsRepository) ListTransfersByUser(userID uuid.UUID) ([]*domain.SavingsTransfer, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT id, user_id, month, amount, created_at
		 FROM savings_transfers
		 WHERE user_id = $1
		 ORDER BY month DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.SavingsTransfer
	for rows.Next() {
		transfer, err := scanSavingsTransfer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, transfer)
	}
	return result, rows.Err()
}

// AddExtraMovement inserts the movement and applies its signed amount to the
// user's savings total in a single transaction
func (r *SavingsRepository) AddExtraMovement(movement *domain.ExtraMovement) (*domain.ExtraMovement, error) {
	ctx := context.Background()

	num, err := decimalToPgNumeric(movement.Amount)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`INSERT INTO extra_movements (user_id, amount, description)
		 VALUES ($1, $2, $3)
		 RETURNING id, user_id, amount, description, created_at`,
		movement.UserID, num, movement.Description)

	var (
		created domain.ExtraMovement
		amount  pgtype.Numeric
	)
	if err := row.Scan(&created.ID, &created.UserID, &amount, &created.Description, &created.CreatedAt); err != nil {
		return nil, err
	}
	created.Amount = pgNumericToDecimal(amount)

	if _, err := tx.Exec(ctx,
		`UPDATE users SET savings_total = savings_total + $2, updated_at = NOW() WHERE id = $1`,
		movement.UserID, num); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListExtraMovementsByDateRange retrieves movements created in [from, to],
// oldest first
func (r *SavingsRepository) ListExtraMovementsByDateRange(userID uuid.UUID, from, to time.Time) ([]*domain.ExtraMovement, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT id, user_id, amount, description, created_at
		 FROM extra_movements
		 WHERE user_id = $1 AND created_at BETWEEN $2 AND $3
		 ORDER BY created_at`,
		userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.ExtraMovement
	for rows.Next() {
		var (
			movement domain.ExtraMovement
			amount   pgtype.Numeric
		)
		if err := rows.Scan(&movement.ID, &movement.UserID, &amount, &movement.Description, &movement.CreatedAt); err != nil {
			return nil, err
		}
		movement.Amount = pgNumericToDecimal(amount)
		result = append(result, &movement)
	}
	return result, rows.Err()
}

// SavingsTotal returns the user's accumulated savings total
func (r *SavingsRepository) SavingsTotal(userID uuid.UUID) (decimal.Decimal, error) {
	var total pgtype.Numeric
	err := r.pool.QueryRow(context.Background(),
		`SELECT savings_total FROM users WHERE id = $1`, userID).Scan(&total)
	if err != nil {
		if err == pgx.ErrNoRows {
			return decimal.Zero, domain.ErrUserNotFound
		}
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

func scanSavingsTransfer(row pgx.Row) (*domain.SavingsTransfer, error) {
	var (
		transfer domain.SavingsTransfer
		month    pgtype.Date
		amount   pgtype.Numeric
	)
	err := row.Scan(&transfer.ID, &transfer.UserID, &month, &amount, &transfer.CreatedAt)
	if err != nil {
		return nil, err
	}

	transfer.Month = pgDateToTime(month)
	transfer.Amount = pgNumericToDecimal(amount)
	return &transfer, nil
}
