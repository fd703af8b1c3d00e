package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/logger"
	"inventrack-backend/internal/repository"
)

// alertService derives alert conditions from catalog and ledger snapshots.
// Sweeps are idempotent with respect to state and carry no de-duplication
// window; a condition that still holds is re-notified on every run.
type alertService struct {
	resourceRepo      repository.ResourceRepository
	txRepo            repository.TransactionRepository
	userRepo          repository.UserRepository
	email             EmailService
	adminDomain       string
	lowStockThreshold int32
}

func NewAlertService(resourceRepo repository.ResourceRepository, txRepo repository.TransactionRepository,
	userRepo repository.UserRepository, email EmailService, adminDomain string, lowStockThreshold int32) AlertService {
	return &alertService{
		resourceRepo:      resourceRepo,
		txRepo:            txRepo,
		userRepo:          userRepo,
		email:             email,
		adminDomain:       adminDomain,
		lowStockThreshold: lowStockThreshold,
	}
}

// RunOverdueSweep refreshes the persisted overdue cache and notifies each
// holder of units past their expected return date.
func (s *alertService) RunOverdueSweep(ctx context.Context) error {
	now := time.Now()
	overdue, err := s.txRepo.ListOverdue(ctx, now)
	if err != nil {
		return fmt.Errorf("listing overdue checkouts: %w", err)
	}
	logger.Info("overdue sweep", "count", len(overdue))

	for i := range overdue {
		tx := &overdue[i]
		tx.ComputeOverdue(now)
		if !tx.IsOverdue {
			continue
		}
		if err := s.txRepo.SaveOverdueFlags(ctx, tx.ID, true, tx.OverdueDays); err != nil {
			logger.Warn("overdue flag update failed", "transaction_id", tx.ID, "error", err)
		}

		holder, err := s.userRepo.GetByID(ctx, tx.UserID)
		if err != nil {
			logger.Warn("overdue holder lookup failed", "user_id", tx.UserID, "error", err)
			continue
		}
		res, err := s.resourceRepo.GetByID(ctx, tx.ResourceID)
		if err != nil {
			logger.Warn("overdue resource lookup failed", "resource_id", tx.ResourceID, "error", err)
			continue
		}
		if err := s.email.SendOverdueNotice(ctx, holder.Email, holder.FullName(), res.Name, tx.OverdueDays); err != nil {
			logger.Warn("overdue notice email failed", "email", holder.Email, "error", err)
		}
	}
	return nil
}

func (s *alertService) RunLowStockSweep(ctx context.Context) error {
	low, err := s.resourceRepo.ListLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return fmt.Errorf("listing low stock resources: %w", err)
	}
	logger.Info("low stock sweep", "count", len(low))
	if len(low) == 0 {
		return nil
	}
	return s.notifyAdmins(ctx, func(ctx context.Context, adminEmail string) error {
		return s.email.SendLowStockAlert(ctx, adminEmail, low)
	})
}

func (s *alertService) RunMaintenanceSweep(ctx context.Context) error {
	due, err := s.resourceRepo.ListMaintenanceDue(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("listing maintenance due resources: %w", err)
	}
	logger.Info("maintenance sweep", "count", len(due))
	if len(due) == 0 {
		return nil
	}
	return s.notifyAdmins(ctx, func(ctx context.Context, adminEmail string) error {
		return s.email.SendMaintenanceAlert(ctx, adminEmail, due)
	})
}

// RunDailySummary mails admins a snapshot of the catalog and ledger.
func (s *alertService) RunDailySummary(ctx context.Context) error {
	resourceStats, err := s.resourceRepo.Stats(ctx)
	if err != nil {
		return fmt.Errorf("resource stats: %w", err)
	}
	txStats, err := s.txRepo.Stats(ctx, nil, nil)
	if err != nil {
		return fmt.Errorf("transaction stats: %w", err)
	}
	overdue, err := s.txRepo.ListOverdue(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("listing overdue checkouts: %w", err)
	}
	low, err := s.resourceRepo.ListLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return fmt.Errorf("listing low stock resources: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Resources: %d active, %d units total, %d available, %d checked out\n",
		resourceStats.TotalResources, resourceStats.TotalQuantity, resourceStats.TotalAvailable, resourceStats.TotalCheckedOut)
	fmt.Fprintf(&b, "Transactions: %d total, %d pending approval\n",
		txStats.TotalTransactions, txStats.PendingApprovals)
	fmt.Fprintf(&b, "Overdue checkouts: %d\n", len(overdue))
	fmt.Fprintf(&b, "Low stock resources: %d\n", len(low))
	for _, res := range low {
		fmt.Fprintf(&b, "  - %s (%d of %d available)\n", res.Name, res.AvailableQuantity, res.Quantity)
	}

	return s.notifyAdmins(ctx, func(ctx context.Context, adminEmail string) error {
		return s.email.SendDailySummary(ctx, adminEmail, b.String())
	})
}

func (s *alertService) notifyAdmins(ctx context.Context, send func(context.Context, string) error) error {
	admins, err := s.userRepo.ListActiveByEmailSuffix(ctx, s.adminDomain)
	if err != nil {
		return fmt.Errorf("listing admin accounts: %w", err)
	}
	for _, admin := range admins {
		if domain.RoleForEmail(admin.Email, s.adminDomain) != domain.RoleAdmin {
			continue
		}
		if err := send(ctx, admin.Email); err != nil {
			logger.Warn("admin alert email failed", "email", admin.Email, "error", err)
		}
	}
	return nil
}
