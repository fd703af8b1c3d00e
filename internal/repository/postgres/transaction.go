package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/repository"
)

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `id, resource_id, user_id, type, quantity, previous_quantity, new_quantity,
	status, COALESCE(purpose, ''), expected_return_date, actual_return_date, COALESCE(notes, ''),
	approved_by, approved_at, COALESCE(rejection_reason, ''), is_overdue, overdue_days, created_on, updated_on`

func scanTransaction(row interface{ Scan(...any) error }) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(&t.ID, &t.ResourceID, &t.UserID, &t.Type, &t.Quantity, &t.PreviousQuantity,
		&t.NewQuantity, &t.Status, &t.Purpose, &t.ExpectedReturnDate, &t.ActualReturnDate,
		&t.Notes, &t.ApprovedBy, &t.ApprovedAt, &t.RejectionReason, &t.IsOverdue, &t.OverdueDays,
		&t.CreatedOn, &t.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return t, nil
}

const insertTransactionSQL = `INSERT INTO transactions (resource_id, user_id, type, quantity, previous_quantity,
	          new_quantity, status, purpose, expected_return_date, actual_return_date, notes,
	          approved_by, approved_at, rejection_reason, is_overdue, overdue_days, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17)
	          RETURNING id`

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertTransaction(ctx context.Context, q rowQuerier, t *domain.Transaction) error {
	now := time.Now()
	err := q.QueryRowContext(ctx, insertTransactionSQL, t.ResourceID, t.UserID, t.Type, t.Quantity,
		t.PreviousQuantity, t.NewQuantity, t.Status, t.Purpose, t.ExpectedReturnDate,
		t.ActualReturnDate, t.Notes, t.ApprovedBy, t.ApprovedAt, t.RejectionReason,
		t.IsOverdue, t.OverdueDays, now).Scan(&t.ID)
	if err != nil {
		return err
	}
	t.CreatedOn = now
	t.UpdatedOn = now
	return nil
}

func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	return insertTransaction(ctx, r.db, t)
}

func (r *transactionRepository) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return t, err
}

func (r *transactionRepository) List(ctx context.Context, f repository.TransactionFilter) ([]domain.Transaction, int32, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if f.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, f.Type)
		argIdx++
	}
	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, f.Status)
		argIdx++
	}
	if f.UserID != 0 {
		where += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, f.UserID)
		argIdx++
	}
	if f.ResourceID != 0 {
		where += fmt.Sprintf(" AND resource_id = $%d", argIdx)
		args = append(args, f.ResourceID)
		argIdx++
	}
	if f.From != nil {
		where += fmt.Sprintf(" AND created_on >= $%d", argIdx)
		args = append(args, *f.From)
		argIdx++
	}
	if f.To != nil {
		where += fmt.Sprintf(" AND created_on <= $%d", argIdx)
		args = append(args, *f.To)
		argIdx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM transactions`+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions` + where + orderClause(f.SortBy, f.SortDesc, map[string]string{
		"created_on": "created_on", "updated_on": "updated_on", "status": "status", "type": "type",
		"expected_return_date": "expected_return_date",
	})
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageLimit(f.PageSize), pageOffset(f.Page, f.PageSize))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		txs = append(txs, *t)
	}
	return txs, count, rows.Err()
}

func (r *transactionRepository) ListActiveCheckouts(ctx context.Context, userID int32) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
	          WHERE user_id = $1 AND type = 'checkout' AND actual_return_date IS NULL
	          AND status IN ('pending', 'approved', 'completed')
	          ORDER BY created_on DESC`
	return r.queryTransactions(ctx, query, userID)
}

func (r *transactionRepository) CountActiveCheckoutsByResource(ctx context.Context, resourceID int32) (int32, error) {
	query := `SELECT count(*) FROM transactions
	          WHERE resource_id = $1 AND type = 'checkout' AND actual_return_date IS NULL
	          AND status IN ('approved', 'completed')`
	var count int32
	err := r.db.QueryRowContext(ctx, query, resourceID).Scan(&count)
	return count, err
}

func (r *transactionRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
	          WHERE type = 'checkout' AND actual_return_date IS NULL
	          AND status IN ('approved', 'completed')
	          AND expected_return_date IS NOT NULL AND expected_return_date < $1
	          ORDER BY expected_return_date ASC`
	return r.queryTransactions(ctx, query, asOf)
}

func (r *transactionRepository) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}

const markApprovedSQL = `UPDATE transactions SET status='approved', approved_by=$1, approved_at=$2, updated_on=$2
	          WHERE id=$3 AND status='pending'`

const markReturnedSQL = `UPDATE transactions SET status='completed', actual_return_date=$1,
	          notes = CASE WHEN $2 = '' THEN notes ELSE $2 END,
	          is_overdue=false, overdue_days=0, updated_on=$1
	          WHERE id=$3 AND status='approved' AND actual_return_date IS NULL`

// MarkApproved transitions a pending transaction to approved. The status guard
// in the WHERE clause makes concurrent approvals of the same request a no-op
// for all but the first.
func (r *transactionRepository) MarkApproved(ctx context.Context, id, approvedBy int32, at time.Time) error {
	return r.guardedExec(ctx, markApprovedSQL, approvedBy, at, id)
}

func (r *transactionRepository) MarkRejected(ctx context.Context, id, approvedBy int32, reason string, at time.Time) error {
	query := `UPDATE transactions SET status='rejected', approved_by=$1, rejection_reason=$2, updated_on=$3
	          WHERE id=$4 AND status='pending'`
	return r.guardedExec(ctx, query, approvedBy, reason, at, id)
}

func (r *transactionRepository) MarkCancelled(ctx context.Context, id int32) error {
	query := `UPDATE transactions SET status='cancelled', updated_on=$1
	          WHERE id=$2 AND status='pending'`
	return r.guardedExec(ctx, query, time.Now(), id)
}

func (r *transactionRepository) guardedExec(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrInvalidStateTransition
	}
	return nil
}

// execGuarded runs one conditional UPDATE inside dbTx and maps zero affected
// rows to guardErr.
func execGuarded(ctx context.Context, dbTx *sql.Tx, query string, guardErr error, args ...interface{}) error {
	result, err := dbTx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return guardErr
	}
	return nil
}

// CreateCompletedCheckout writes an immediate checkout: the stock decrement
// and the completed ledger entry commit together or not at all.
func (r *transactionRepository) CreateCompletedCheckout(ctx context.Context, t *domain.Transaction) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer dbTx.Rollback()

	if err := execGuarded(ctx, dbTx, applyCheckoutSQL, domain.ErrInsufficientQuantity,
		t.Quantity, time.Now(), t.ResourceID); err != nil {
		return err
	}
	if err := insertTransaction(ctx, dbTx, t); err != nil {
		return err
	}
	return dbTx.Commit()
}

// ApproveCheckout moves a pending checkout to approved and decrements stock
// in one database transaction. Both WHERE guards must pass; a failed stock
// re-check or a concurrent decision rolls everything back.
func (r *transactionRepository) ApproveCheckout(ctx context.Context, id, approvedBy int32, at time.Time, resourceID, qty int32) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer dbTx.Rollback()

	if err := execGuarded(ctx, dbTx, applyCheckoutSQL, domain.ErrInsufficientQuantity,
		qty, at, resourceID); err != nil {
		return err
	}
	if err := execGuarded(ctx, dbTx, markApprovedSQL, domain.ErrInvalidStateTransition,
		approvedBy, at, id); err != nil {
		return err
	}
	return dbTx.Commit()
}

// ReturnCheckout records the return and credits stock in one database
// transaction. The status guard still serializes double returns, and a
// failed credit no longer strands the ledger row as returned.
func (r *transactionRepository) ReturnCheckout(ctx context.Context, id int32, notes string, at time.Time, resourceID, qty int32) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer dbTx.Rollback()

	if err := execGuarded(ctx, dbTx, markReturnedSQL, domain.ErrInvalidStateTransition,
		at, notes, id); err != nil {
		return err
	}
	if err := execGuarded(ctx, dbTx, applyCheckinSQL, domain.ErrNotFound,
		qty, at, resourceID); err != nil {
		return err
	}
	return dbTx.Commit()
}

func (r *transactionRepository) SaveOverdueFlags(ctx context.Context, id int32, isOverdue bool, overdueDays int32) error {
	query := `UPDATE transactions SET is_overdue=$1, overdue_days=$2, updated_on=$3 WHERE id=$4`
	_, err := r.db.ExecContext(ctx, query, isOverdue, overdueDays, time.Now(), id)
	return err
}

func (r *transactionRepository) Stats(ctx context.Context, from, to *time.Time) (*repository.TransactionStats, error) {
	stats := &repository.TransactionStats{
		ByType:   map[domain.TransactionType]int32{},
		ByStatus: map[domain.TransactionStatus]int32{},
	}

	where := ` WHERE 1=1`
	args := []interface{}{}
	argIdx := 1
	if from != nil {
		where += fmt.Sprintf(" AND created_on >= $%d", argIdx)
		args = append(args, *from)
		argIdx++
	}
	if to != nil {
		where += fmt.Sprintf(" AND created_on <= $%d", argIdx)
		args = append(args, *to)
		argIdx++
	}

	query := `SELECT count(*),
	            count(*) FILTER (WHERE type = 'checkout'),
	            count(*) FILTER (WHERE type = 'checkin'),
	            count(*) FILTER (WHERE status = 'pending')
	          FROM transactions` + where
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&stats.TotalTransactions,
		&stats.TotalCheckouts, &stats.TotalCheckins, &stats.PendingApprovals); err != nil {
		return nil, err
	}

	typeRows, err := r.db.QueryContext(ctx, `SELECT type, count(*) FROM transactions`+where+` GROUP BY type`, args...)
	if err != nil {
		return nil, err
	}
	defer typeRows.Close()
	for typeRows.Next() {
		var typ domain.TransactionType
		var n int32
		if err := typeRows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		stats.ByType[typ] = n
	}
	if err := typeRows.Err(); err != nil {
		return nil, err
	}

	statusRows, err := r.db.QueryContext(ctx, `SELECT status, count(*) FROM transactions`+where+` GROUP BY status`, args...)
	if err != nil {
		return nil, err
	}
	defer statusRows.Close()
	for statusRows.Next() {
		var status domain.TransactionStatus
		var n int32
		if err := statusRows.Scan(&status, &n); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = n
	}
	return stats, statusRows.Err()
}
