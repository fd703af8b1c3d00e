package service

import (
	"context"
	"fmt"
	"time"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/repository"
)

type transactionService struct {
	txRepo       repository.TransactionRepository
	resourceRepo repository.ResourceRepository
	activity     ActivityService
}

func NewTransactionService(txRepo repository.TransactionRepository, resourceRepo repository.ResourceRepository, activity ActivityService) TransactionService {
	return &transactionService{
		txRepo:       txRepo,
		resourceRepo: resourceRepo,
		activity:     activity,
	}
}

func (s *transactionService) List(ctx context.Context, filter repository.TransactionFilter) ([]domain.Transaction, int32, error) {
	txs, total, err := s.txRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	now := time.Now()
	for i := range txs {
		txs[i].ComputeOverdue(now)
	}
	return txs, total, nil
}

func (s *transactionService) Get(ctx context.Context, id int32) (*domain.Transaction, error) {
	tx, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tx.ComputeOverdue(time.Now())
	return tx, nil
}

func (s *transactionService) MyCheckouts(ctx context.Context, userID int32) ([]domain.Transaction, error) {
	txs, err := s.txRepo.ListActiveCheckouts(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for i := range txs {
		txs[i].ComputeOverdue(now)
	}
	return txs, nil
}

func (s *transactionService) Overdue(ctx context.Context) ([]domain.Transaction, error) {
	txs, err := s.txRepo.ListOverdue(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for i := range txs {
		txs[i].ComputeOverdue(now)
	}
	return txs, nil
}

func (s *transactionService) Stats(ctx context.Context, from, to *time.Time) (*repository.TransactionStats, error) {
	return s.txRepo.Stats(ctx, from, to)
}

// Approve moves a pending checkout through the catalog and marks it
// approved. The catalog decrement and the status transition commit in one
// database transaction; if either guard fails (stock gone, or a concurrent
// decision won) nothing is persisted and the transaction stays pending.
func (s *transactionService) Approve(ctx context.Context, actor *domain.User, id int32, meta RequestMeta) (*domain.Transaction, error) {
	tx, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.Status != domain.TransactionStatusPending {
		return nil, domain.ErrInvalidStateTransition
	}

	now := time.Now()
	if tx.Type == domain.TransactionTypeCheckout {
		res, err := s.resourceRepo.GetByID(ctx, tx.ResourceID)
		if err != nil {
			return nil, err
		}
		if !res.IsActive {
			return nil, domain.Validationf("resource is no longer active")
		}
		if !res.CanCheckout(tx.Quantity) {
			return nil, domain.ErrInsufficientQuantity
		}

		if err := s.txRepo.ApproveCheckout(ctx, id, actor.ID, now, tx.ResourceID, tx.Quantity); err != nil {
			return nil, err
		}
	} else {
		if err := s.txRepo.MarkApproved(ctx, id, actor.ID, now); err != nil {
			return nil, err
		}
	}

	tx.Status = domain.TransactionStatusApproved
	tx.ApprovedBy = &actor.ID
	tx.ApprovedAt = &now

	s.activity.Record(ctx, &domain.ActivityLog{
		UserID:        &actor.ID,
		ResourceID:    &tx.ResourceID,
		TransactionID: &tx.ID,
		TargetUserID:  &tx.UserID,
		Action:        domain.ActionCheckoutApprove,
		Details:       fmt.Sprintf("transaction %d approved", tx.ID),
		IPAddress:     meta.IPAddress,
		UserAgent:     meta.UserAgent,
		Severity:      domain.SeverityMedium,
		IsSuccessful:  true,
	})
	return tx, nil
}

func (s *transactionService) Reject(ctx context.Context, actor *domain.User, id int32, reason string, meta RequestMeta) (*domain.Transaction, error) {
	tx, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.Status != domain.TransactionStatusPending {
		return nil, domain.ErrInvalidStateTransition
	}

	now := time.Now()
	if err := s.txRepo.MarkRejected(ctx, id, actor.ID, reason, now); err != nil {
		return nil, err
	}
	tx.Status = domain.TransactionStatusRejected
	tx.ApprovedBy = &actor.ID
	tx.RejectionReason = reason

	s.activity.Record(ctx, &domain.ActivityLog{
		UserID:        &actor.ID,
		ResourceID:    &tx.ResourceID,
		TransactionID: &tx.ID,
		TargetUserID:  &tx.UserID,
		Action:        domain.ActionCheckoutReject,
		Details:       fmt.Sprintf("transaction %d rejected: %s", tx.ID, reason),
		IPAddress:     meta.IPAddress,
		UserAgent:     meta.UserAgent,
		Severity:      domain.SeverityMedium,
		IsSuccessful:  true,
	})
	return tx, nil
}

// Return records the units coming back. The ledger transition and the
// catalog credit commit in one database transaction, and the guarded
// transition fails a second return, so the catalog is credited at most
// once per checkout.
func (s *transactionService) Return(ctx context.Context, actor *domain.User, id int32, notes string, meta RequestMeta) (*domain.Transaction, error) {
	tx, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.Type != domain.TransactionTypeCheckout {
		return nil, domain.Validationf("only checkout transactions can be returned")
	}
	if tx.Status != domain.TransactionStatusApproved || tx.ActualReturnDate != nil {
		return nil, domain.ErrInvalidStateTransition
	}
	if actor.Role != domain.RoleAdmin && actor.ID != tx.UserID {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	if err := s.txRepo.ReturnCheckout(ctx, id, notes, now, tx.ResourceID, tx.Quantity); err != nil {
		return nil, err
	}

	tx.MarkReturned(now)
	if notes != "" {
		tx.Notes = notes
	}

	s.activity.Record(ctx, &domain.ActivityLog{
		UserID:        &actor.ID,
		ResourceID:    &tx.ResourceID,
		TransactionID: &tx.ID,
		Action:        domain.ActionCheckin,
		Details:       fmt.Sprintf("transaction %d returned", tx.ID),
		IPAddress:     meta.IPAddress,
		UserAgent:     meta.UserAgent,
		Severity:      domain.SeverityLow,
		IsSuccessful:  true,
	})
	return tx, nil
}

// Cancel is available to the requester or an admin while the request is
// still pending.
func (s *transactionService) Cancel(ctx context.Context, actor *domain.User, id int32, meta RequestMeta) (*domain.Transaction, error) {
	tx, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && actor.ID != tx.UserID {
		return nil, domain.ErrForbidden
	}
	if tx.Status != domain.TransactionStatusPending {
		return nil, domain.ErrInvalidStateTransition
	}

	if err := s.txRepo.MarkCancelled(ctx, id); err != nil {
		return nil, err
	}
	tx.Status = domain.TransactionStatusCancelled

	s.activity.Record(ctx, &domain.ActivityLog{
		UserID:        &actor.ID,
		ResourceID:    &tx.ResourceID,
		TransactionID: &tx.ID,
		Action:        domain.ActionCheckoutCancel,
		Details:       fmt.Sprintf("transaction %d cancelled", tx.ID),
		IPAddress:     meta.IPAddress,
		UserAgent:     meta.UserAgent,
		Severity:      domain.SeverityLow,
		IsSuccessful:  true,
	})
	return tx, nil
}
