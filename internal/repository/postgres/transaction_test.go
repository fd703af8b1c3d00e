package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/repository/postgres"
)

var transactionRows = []string{"id", "resource_id", "user_id", "type", "quantity",
	"previous_quantity", "new_quantity", "status", "purpose", "expected_return_date",
	"actual_return_date", "notes", "approved_by", "approved_at", "rejection_reason",
	"is_overdue", "overdue_days", "created_on", "updated_on"}

func TestTransactionRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewTransactionRepository(db)
	ctx := context.Background()

	tx := &domain.Transaction{
		ResourceID: 1,
		UserID:     3,
		Type:       domain.TransactionTypeCheckout,
		Quantity:   2,
		Status:     domain.TransactionStatusPending,
		Purpose:    "meeting",
	}

	mock.ExpectQuery("INSERT INTO transactions").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	err = repo.Create(ctx, tx)
	assert.NoError(t, err)
	assert.Equal(t, int32(42), tx.ID)
	assert.False(t, tx.CreatedOn.IsZero())
}

func TestTransactionRepository_MarkApproved(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewTransactionRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE transactions SET status='approved'").
			WithArgs(int32(9), now, int32(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkApproved(ctx, 42, 9, now))
	})

	t.Run("NoLongerPending", func(t *testing.T) {
		// A concurrent decision already moved the row out of pending.
		mock.ExpectExec("UPDATE transactions SET status='approved'").
			WithArgs(int32(9), now, int32(42)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkApproved(ctx, 42, 9, now)
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	})
}

func TestTransactionRepository_ApproveCheckout(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewTransactionRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("available_quantity >= \\$1").
			WithArgs(int32(2), now, int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE transactions SET status='approved'").
			WithArgs(int32(9), now, int32(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.ApproveCheckout(ctx, 42, 9, now, 1, 2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("StockGoneRollsBack", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("available_quantity >= \\$1").
			WithArgs(int32(2), now, int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.ApproveCheckout(ctx, 42, 9, now, 1, 2)
		assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LostRaceRollsBackStock", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("available_quantity >= \\$1").
			WithArgs(int32(2), now, int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE transactions SET status='approved'").
			WithArgs(int32(9), now, int32(42)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.ApproveCheckout(ctx, 42, 9, now, 1, 2)
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_ReturnCheckout(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewTransactionRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE transactions SET status='completed'").
			WithArgs(now, "all good", int32(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("LEAST\\(available_quantity \\+ \\$1, quantity\\)").
			WithArgs(int32(2), now, int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.ReturnCheckout(ctx, 42, "all good", now, 1, 2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AlreadyReturnedSkipsCredit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE transactions SET status='completed'").
			WithArgs(now, "", int32(42)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.ReturnCheckout(ctx, 42, "", now, 1, 2)
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CreditFailureRollsBackLedger", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE transactions SET status='completed'").
			WithArgs(now, "", int32(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("LEAST\\(available_quantity \\+ \\$1, quantity\\)").
			WithArgs(int32(2), now, int32(1)).
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.ReturnCheckout(ctx, 42, "", now, 1, 2)
		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_CreateCompletedCheckout(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewTransactionRepository(db)
	ctx := context.Background()

	tx := &domain.Transaction{
		ResourceID:       1,
		UserID:           3,
		Type:             domain.TransactionTypeCheckout,
		Quantity:         2,
		PreviousQuantity: 5,
		NewQuantity:      3,
		Status:           domain.TransactionStatusCompleted,
		Purpose:          "meeting",
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("available_quantity >= \\$1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO transactions").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectCommit()

		assert.NoError(t, repo.CreateCompletedCheckout(ctx, tx))
		assert.Equal(t, int32(42), tx.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("StockGoneSkipsInsert", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("available_quantity >= \\$1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.CreateCompletedCheckout(ctx, tx)
		assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_ListOverdue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewTransactionRepository(db)
	ctx := context.Background()

	now := time.Now()
	expected := now.Add(-48 * time.Hour)
	mock.ExpectQuery("expected_return_date IS NOT NULL AND expected_return_date < \\$1").
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows(transactionRows).
			AddRow(42, 1, 3, "checkout", 2, 5, 3, "approved", "meeting", expected,
				nil, "", 9, now.Add(-72*time.Hour), "", false, 0, now, now))

	overdue, err := repo.ListOverdue(ctx, now)
	assert.NoError(t, err)
	if assert.Len(t, overdue, 1) {
		assert.Equal(t, int32(42), overdue[0].ID)
		assert.Equal(t, domain.TransactionStatusApproved, overdue[0].Status)
	}
}

func TestTransactionRepository_CountActiveCheckoutsByResource(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewTransactionRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM transactions").
		WithArgs(int32(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountActiveCheckoutsByResource(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int32(3), count)
}

func TestTransactionRepository_Stats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewTransactionRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT count\\(\\*\\),").
		WillReturnRows(sqlmock.NewRows([]string{"total", "checkouts", "checkins", "pending"}).
			AddRow(88, 60, 20, 4))
	mock.ExpectQuery("GROUP BY type").
		WillReturnRows(sqlmock.NewRows([]string{"type", "count"}).
			AddRow("checkout", 60).AddRow("checkin", 20))
	mock.ExpectQuery("GROUP BY status").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("completed", 70).AddRow("pending", 4))

	stats, err := repo.Stats(ctx, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, int32(88), stats.TotalTransactions)
	assert.Equal(t, int32(4), stats.PendingApprovals)
	assert.Equal(t, int32(60), stats.ByType[domain.TransactionTypeCheckout])
	assert.Equal(t, int32(4), stats.ByStatus[domain.TransactionStatusPending])
}
