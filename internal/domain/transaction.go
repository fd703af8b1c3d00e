package domain

import (
	"math"
	"time"
)

type TransactionType string

const (
	TransactionTypeCheckout    TransactionType = "checkout"
	TransactionTypeCheckin     TransactionType = "checkin"
	TransactionTypeAdd         TransactionType = "add"
	TransactionTypeEdit        TransactionType = "edit"
	TransactionTypeDelete      TransactionType = "delete"
	TransactionTypeMaintenance TransactionType = "maintenance"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeCheckout, TransactionTypeCheckin, TransactionTypeAdd,
		TransactionTypeEdit, TransactionTypeDelete, TransactionTypeMaintenance:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusApproved  TransactionStatus = "approved"
	TransactionStatusRejected  TransactionStatus = "rejected"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// IsTerminal reports whether no further status transition is allowed.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case TransactionStatusCompleted, TransactionStatusRejected, TransactionStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo encodes the ledger state machine:
// pending -> approved | rejected | cancelled, approved -> completed.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	switch s {
	case TransactionStatusPending:
		return next == TransactionStatusApproved ||
			next == TransactionStatusRejected ||
			next == TransactionStatusCancelled
	case TransactionStatusApproved:
		return next == TransactionStatusCompleted
	}
	return false
}

// Transaction is one append-only ledger entry. Entries in a terminal status
// are immutable except for the derived overdue fields.
type Transaction struct {
	ID                 int32             `json:"id"`
	ResourceID         int32             `json:"resource_id"`
	UserID             int32             `json:"user_id"`
	Type               TransactionType   `json:"type"`
	Quantity           int32             `json:"quantity"`
	PreviousQuantity   int32             `json:"previous_quantity"`
	NewQuantity        int32             `json:"new_quantity"`
	Status             TransactionStatus `json:"status"`
	Purpose            string            `json:"purpose,omitempty"`
	ExpectedReturnDate *time.Time        `json:"expected_return_date,omitempty"`
	ActualReturnDate   *time.Time        `json:"actual_return_date,omitempty"`
	Notes              string            `json:"notes,omitempty"`
	ApprovedBy         *int32            `json:"approved_by,omitempty"`
	ApprovedAt         *time.Time        `json:"approved_at,omitempty"`
	RejectionReason    string            `json:"rejection_reason,omitempty"`
	IsOverdue          bool              `json:"is_overdue"`
	OverdueDays        int32             `json:"overdue_days"`
	CreatedOn          time.Time         `json:"created_on"`
	UpdatedOn          time.Time         `json:"updated_on"`
}

// AwaitsReturn reports whether this entry represents units still out on
// loan: a checkout that reached the catalog and has no recorded return.
func (t *Transaction) AwaitsReturn() bool {
	if t.Type != TransactionTypeCheckout || t.ActualReturnDate != nil {
		return false
	}
	return t.Status == TransactionStatusCompleted || t.Status == TransactionStatusApproved
}

// ComputeOverdue rederives the overdue fields from the expected return date
// and now. The persisted flags are a cache; this is the source of truth.
func (t *Transaction) ComputeOverdue(now time.Time) {
	if !t.AwaitsReturn() || t.ExpectedReturnDate == nil || !now.After(*t.ExpectedReturnDate) {
		t.IsOverdue = false
		t.OverdueDays = 0
		return
	}
	t.IsOverdue = true
	t.OverdueDays = int32(math.Ceil(now.Sub(*t.ExpectedReturnDate).Hours() / 24))
}

// MarkReturned records the return and clears the overdue cache.
func (t *Transaction) MarkReturned(returnDate time.Time) {
	t.ActualReturnDate = &returnDate
	t.Status = TransactionStatusCompleted
	t.IsOverdue = false
	t.OverdueDays = 0
}
