package postgres

import (
	"context"
	"time"

	"github.com/dgvaldes/rutero/rutero-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const billingColumns = `id, user_id, billing_date, billed_amount, advance_amount, km, hours, created_at, updated_at`

// BillingRepository implements domain.BillingRepository using PostgreSQL
type BillingRepository struct {
	pool *pgxpool.Pool
}

// NewBillingRepository creates a new BillingRepository
func NewBillingRepository(pool *pgxpool.Pool) *BillingRepository {
	return &BillingRepository{pool: pool}
}

// Upsert creates the day's entry or replaces it if one already exists for
// (user, billing date)
func (r *BillingRepository) Upsert(be *domain.BillingEntry) (*domain.BillingEntry, error) {
	billed, err := decimalToPgNumeric(be.BilledAmount)
	if err != nil {
		return nil, err
	}
	advance, err := decimalToPgNumeric(be.AdvanceAmount)
	if err != nil {
		return nil, err
	}
	km, err := decimalToPgNumeric(be.Km)
	if err != nil {
		return nil, err
	}
	hours, err := decimalToPgNumeric(be.Hours)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO driver_billing (user_id, billing_date, billed_amount, advance_amount, km, hours)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, billing_date) DO UPDATE
		 SET billed_amount = EXCLUDED.billed_amount,
		     advance_amount = EXCLUDED.advance_amount,
		     km = EXCLUDED.km,
		     hours = EXCLUDED.hours,
		     updated_at = NOW()
		 RETURNING `+billingColumns,
		be.UserID, toPgDate(be.BillingDate), billed, advance, km, hours)

	return scanBillingEntry(row)
}

// GetByID retrieves a billing entry by ID
func (r *BillingRepository) GetByID(userID uuid.UUID, id int32) (*domain.BillingEntry, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+billingColumns+` FROM driver_billing WHERE user_id = $1 AND id = $2`,
		userID, id)

	be, err := scanBillingEntry(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBillingNotFound
		}
		return nil, err
	}
	return be, nil
}

// ListByDateRange retrieves a user's entries with billing_date in [from, to],
// oldest first
func (r *BillingRepository) ListByDateRange(userID uuid.UUID, from, to time.Time) ([]*domain.BillingEntry, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+billingColumns+`
		 FROM driver_billing
		 WHERE user_id = $1 AND billing_date BETWEEN $2 AND $3
		 ORDER BY billing_date`,
		userID, toPgDate(from), toPgDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.BillingEntry
	for rows.Next() {
		be, err := scanBillingEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, be)
	}
	return result, rows.Err()
}

// SumByDateRange aggregates a user's entries with billing_date in [from, to]
func (r *BillingRepository) SumByDateRange(userID uuid.UUID, from, to time.Time) (*domain.BillingTotals, error) {
	var billed, advances, km, hours pgtype.Numeric
	err := r.pool.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(billed_amount), 0),
		        COALESCE(SUM(advance_amount), 0),
		        COALESCE(SUM(km), 0),
		        COALESCE(SUM(hours), 0)
		 FROM driver_billing
		 WHERE user_id = $1 AND billing_date BETWEEN $2 AND $3`,
		userID, toPgDate(from), toPgDate(to)).Scan(&billed, &advances, &km, &hours)
	if err != nil {
		return nil, err
	}

	return &domain.BillingTotals{
		TotalBilled:   pgNumericToDecimal(billed),
		TotalAdvances: pgNumericToDecimal(advances),
		TotalKm:       pgNumericToDecimal(km),
		TotalHours:    pgNumericToDecimal(hours),
	}, nil
}

// Delete removes a billing entry
func (r *BillingRepository) Delete(userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM driver_billing WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBillingNotFound
	}
	return nil
}

func scanBillingEntry(row pgx.Row) (*domain.BillingEntry, error) {
	var (
		be      domain.BillingEntry
		day     pgtype.Date
		billed  pgtype.Numeric
		advance pgtype.Numeric
		km      pgtype.Numeric
		hours   pgtype.Numeric
	)
	err := row.Scan(&be.ID, &be.UserID, &day, &billed, &advance, &km, &hours,
		&be.CreatedAt, &be.UpdatedAt)
	if err != nil {
		return nil, err
	}

	be.BillingDate = pgDateToTime(day)
	be.BilledAmount = pgNumericToDecimal(billed)
	be.AdvanceAmount = pgNumericToDecimal(advance)
	be.Km = pgNumericToDecimal(km)
	be.Hours = pgNumericToDecimal(hours)
	return &be, nil
}
