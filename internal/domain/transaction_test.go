package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransactionStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to TransactionStatus
		want     bool
	}{
		{TransactionStatusPending, TransactionStatusApproved, true},
		{TransactionStatusPending, TransactionStatusRejected, true},
		{TransactionStatusPending, TransactionStatusCancelled, true},
		{TransactionStatusPending, TransactionStatusCompleted, false},
		{TransactionStatusApproved, TransactionStatusCompleted, true},
		{TransactionStatusApproved, TransactionStatusRejected, false},
		{TransactionStatusCompleted, TransactionStatusPending, false},
		{TransactionStatusRejected, TransactionStatusApproved, false},
		{TransactionStatusCancelled, TransactionStatusCompleted, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransactionStatus_IsTerminal(t *testing.T) {
	assert.False(t, TransactionStatusPending.IsTerminal())
	assert.False(t, TransactionStatusApproved.IsTerminal())
	assert.True(t, TransactionStatusCompleted.IsTerminal())
	assert.True(t, TransactionStatusRejected.IsTerminal())
	assert.True(t, TransactionStatusCancelled.IsTerminal())
}

func TestTransaction_ComputeOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("OneHourLateIsOneDay", func(t *testing.T) {
		expected := now.Add(-time.Hour)
		tx := &Transaction{
			Type:               TransactionTypeCheckout,
			Status:             TransactionStatusCompleted,
			ExpectedReturnDate: &expected,
		}
		tx.ComputeOverdue(now)
		assert.True(t, tx.IsOverdue)
		assert.Equal(t, int32(1), tx.OverdueDays)
	})

	t.Run("TwoAndAHalfDaysLateIsThreeDays", func(t *testing.T) {
		expected := now.Add(-60 * time.Hour)
		tx := &Transaction{
			Type:               TransactionTypeCheckout,
			Status:             TransactionStatusApproved,
			ExpectedReturnDate: &expected,
		}
		tx.ComputeOverdue(now)
		assert.True(t, tx.IsOverdue)
		assert.Equal(t, int32(3), tx.OverdueDays)
	})

	t.Run("NotYetDue", func(t *testing.T) {
		expected := now.Add(time.Hour)
		tx := &Transaction{
			Type:               TransactionTypeCheckout,
			Status:             TransactionStatusCompleted,
			ExpectedReturnDate: &expected,
		}
		tx.ComputeOverdue(now)
		assert.False(t, tx.IsOverdue)
		assert.Zero(t, tx.OverdueDays)
	})

	t.Run("ReturnedClearsOverdue", func(t *testing.T) {
		expected := now.Add(-48 * time.Hour)
		returned := now.Add(-time.Hour)
		tx := &Transaction{
			Type:               TransactionTypeCheckout,
			Status:             TransactionStatusCompleted,
			ExpectedReturnDate: &expected,
			ActualReturnDate:   &returned,
			IsOverdue:          true,
			OverdueDays:        2,
		}
		tx.ComputeOverdue(now)
		assert.False(t, tx.IsOverdue)
		assert.Zero(t, tx.OverdueDays)
	})

	t.Run("PendingNeverOverdue", func(t *testing.T) {
		expected := now.Add(-48 * time.Hour)
		tx := &Transaction{
			Type:               TransactionTypeCheckout,
			Status:             TransactionStatusPending,
			ExpectedReturnDate: &expected,
		}
		tx.ComputeOverdue(now)
		assert.False(t, tx.IsOverdue)
	})
}

func TestTransaction_AwaitsReturn(t *testing.T) {
	returned := time.Now()
	assert.True(t, (&Transaction{Type: TransactionTypeCheckout, Status: TransactionStatusCompleted}).AwaitsReturn())
	assert.True(t, (&Transaction{Type: TransactionTypeCheckout, Status: TransactionStatusApproved}).AwaitsReturn())
	assert.False(t, (&Transaction{Type: TransactionTypeCheckout, Status: TransactionStatusPending}).AwaitsReturn())
	assert.False(t, (&Transaction{Type: TransactionTypeCheckin, Status: TransactionStatusCompleted}).AwaitsReturn())
	assert.False(t, (&Transaction{Type: TransactionTypeCheckout, Status: TransactionStatusCompleted, ActualReturnDate: &returned}).AwaitsReturn())
}

func TestTransaction_MarkReturned(t *testing.T) {
	now := time.Now()
	tx := &Transaction{
		Type:        TransactionTypeCheckout,
		Status:      TransactionStatusApproved,
		IsOverdue:   true,
		OverdueDays: 4,
	}
	tx.MarkReturned(now)
	assert.Equal(t, TransactionStatusCompleted, tx.Status)
	assert.Equal(t, now, *tx.ActualReturnDate)
	assert.False(t, tx.IsOverdue)
	assert.Zero(t, tx.OverdueDays)
}
