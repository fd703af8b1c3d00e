package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/logger"
	"inventrack-backend/internal/repository"
)

type resourceService struct {
	resourceRepo      repository.ResourceRepository
	txRepo            repository.TransactionRepository
	userRepo          repository.UserRepository
	email             EmailService
	activity          ActivityService
	adminDomain       string
	lowStockThreshold int32
}

func NewResourceService(resourceRepo repository.ResourceRepository, txRepo repository.TransactionRepository,
	userRepo repository.UserRepository, email EmailService, activity ActivityService,
	adminDomain string, lowStockThreshold int32) ResourceService {
	return &resourceService{
		resourceRepo:      resourceRepo,
		txRepo:            txRepo,
		userRepo:          userRepo,
		email:             email,
		activity:          activity,
		adminDomain:       adminDomain,
		lowStockThreshold: lowStockThreshold,
	}
}

func validateResourceInput(input *ResourceInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return domain.Validationf("name is required")
	}
	if !input.Type.Valid() {
		return domain.Validationf("unknown resource type %q", input.Type)
	}
	if input.Quantity < 0 {
		return domain.Validationf("quantity must not be negative")
	}
	if strings.TrimSpace(input.Location) == "" {
		return domain.Validationf("location is required")
	}
	if input.Status != "" && !input.Status.Valid() {
		return domain.Validationf("unknown status %q", input.Status)
	}
	if input.AvailableQuantity != nil {
		if *input.AvailableQuantity < 0 {
			return domain.Validationf("available quantity must not be negative")
		}
		if *input.AvailableQuantity > input.Quantity {
			return domain.Validationf("available quantity cannot exceed quantity")
		}
	}
	return nil
}

func (s *resourceService) Create(ctx context.Context, actor *domain.User, input ResourceInput, meta RequestMeta) (*domain.Resource, error) {
	if err := validateResourceInput(&input); err != nil {
		return nil, err
	}

	res := &domain.Resource{
		Name:                input.Name,
		Type:                input.Type,
		Category:            input.Category,
		Quantity:            input.Quantity,
		AvailableQuantity:   input.Quantity,
		Location:            input.Location,
		Status:              domain.ResourceStatusAvailable,
		Description:         input.Description,
		PurchaseDate:        input.PurchaseDate,
		PurchasePriceCents:  input.PurchasePriceCents,
		Supplier:            input.Supplier,
		WarrantyExpiry:      input.WarrantyExpiry,
		MaintenanceSchedule: domain.MaintenanceNone,
		Barcode:             input.Barcode,
		Tags:                input.Tags,
		IsActive:            true,
		CreatedBy:           actor.ID,
	}
	if input.AvailableQuantity != nil {
		res.AvailableQuantity = *input.AvailableQuantity
	}
	if input.Status != "" {
		res.Status = input.Status
	}
	if input.MaintenanceSchedule != "" {
		res.MaintenanceSchedule = input.MaintenanceSchedule
	}
	res.Normalize()

	if err := s.resourceRepo.Create(ctx, res); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: barcode already registered", domain.ErrDuplicateKey)
		}
		return nil, err
	}

	s.recordLedger(ctx, res, actor.ID, domain.TransactionTypeAdd, res.Quantity, 0, res.Quantity, "")
	s.audit(ctx, actor, res, domain.ActionResourceAdd,
		fmt.Sprintf("resource %q added (qty %d)", res.Name, res.Quantity), meta)
	return res, nil
}

func (s *resourceService) Get(ctx context.Context, id int32) (*domain.Resource, error) {
	return s.resourceRepo.GetByID(ctx, id)
}

func (s *resourceService) List(ctx context.Context, filter repository.ResourceFilter) ([]domain.Resource, int32, error) {
	return s.resourceRepo.List(ctx, filter)
}

func (s *resourceService) Update(ctx context.Context, actor *domain.User, id int32, input ResourceInput, meta RequestMeta) (*domain.Resource, error) {
	if err := validateResourceInput(&input); err != nil {
		return nil, err
	}

	res, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prevQty := res.Quantity

	res.Name = input.Name
	res.Type = input.Type
	res.Category = input.Category
	res.Quantity = input.Quantity
	res.Location = input.Location
	res.Description = input.Description
	res.PurchaseDate = input.PurchaseDate
	res.PurchasePriceCents = input.PurchasePriceCents
	res.Supplier = input.Supplier
	res.WarrantyExpiry = input.WarrantyExpiry
	res.Barcode = input.Barcode
	res.Tags = input.Tags
	res.LastModifiedBy = &actor.ID
	if input.Status != "" {
		res.Status = input.Status
	}
	if input.AvailableQuantity != nil {
		res.AvailableQuantity = *input.AvailableQuantity
	}
	if input.MaintenanceSchedule != "" {
		res.MaintenanceSchedule = input.MaintenanceSchedule
	}
	res.Normalize()

	if err := s.resourceRepo.Update(ctx, res); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: barcode already registered", domain.ErrDuplicateKey)
		}
		return nil, err
	}

	s.recordLedger(ctx, res, actor.ID, domain.TransactionTypeEdit, res.Quantity, prevQty, res.Quantity, "")
	s.audit(ctx, actor, res, domain.ActionResourceEdit,
		fmt.Sprintf("resource %q updated", res.Name), meta)
	return res, nil
}

// SoftDelete refuses while units are still out on loan.
func (s *resourceService) SoftDelete(ctx context.Context, actor *domain.User, id int32, meta RequestMeta) error {
	res, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	active, err := s.txRepo.CountActiveCheckoutsByResource(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return domain.ErrResourceInUse
	}
	if err := s.resourceRepo.SoftDelete(ctx, id, actor.ID); err != nil {
		return err
	}

	s.recordLedger(ctx, res, actor.ID, domain.TransactionTypeDelete, res.Quantity, res.Quantity, 0, "")
	s.audit(ctx, actor, res, domain.ActionResourceDelete,
		fmt.Sprintf("resource %q deactivated", res.Name), meta)
	return nil
}

func (s *resourceService) Checkout(ctx context.Context, actor *domain.User, input CheckoutInput, meta RequestMeta) (*domain.Transaction, error) {
	if input.Quantity < 1 {
		return nil, domain.Validationf("quantity must be at least 1")
	}
	res, err := s.resourceRepo.GetByID(ctx, input.ResourceID)
	if err != nil {
		return nil, err
	}
	if !res.IsActive {
		return nil, domain.Validationf("resource is not active")
	}
	if !res.CanCheckout(input.Quantity) {
		return nil, domain.ErrInsufficientQuantity
	}

	tx := &domain.Transaction{
		ResourceID:         res.ID,
		UserID:             actor.ID,
		Type:               domain.TransactionTypeCheckout,
		Quantity:           input.Quantity,
		PreviousQuantity:   res.AvailableQuantity,
		NewQuantity:        res.AvailableQuantity - input.Quantity,
		Purpose:            input.Purpose,
		ExpectedReturnDate: input.ExpectedReturnDate,
	}

	if input.RequiresApproval {
		// Pending checkouts do not touch the catalog; stock moves at
		// approval time.
		tx.Status = domain.TransactionStatusPending
		if err := s.txRepo.Create(ctx, tx); err != nil {
			return nil, err
		}
	} else {
		// The catalog decrement and the ledger insert commit together.
		tx.Status = domain.TransactionStatusCompleted
		if err := s.txRepo.CreateCompletedCheckout(ctx, tx); err != nil {
			return nil, err
		}
		s.notifyCheckout(actor, res, tx)
		s.checkLowStock(res.ID)
	}

	s.audit(ctx, actor, res, domain.ActionCheckout,
		fmt.Sprintf("checked out %d x %q", input.Quantity, res.Name), meta)
	return tx, nil
}

func (s *resourceService) Checkin(ctx context.Context, actor *domain.User, input CheckinInput, meta RequestMeta) (*domain.Transaction, error) {
	if input.Quantity < 1 {
		return nil, domain.Validationf("quantity must be at least 1")
	}
	res, err := s.resourceRepo.GetByID(ctx, input.ResourceID)
	if err != nil {
		return nil, err
	}

	if err := s.resourceRepo.ApplyCheckin(ctx, res.ID, input.Quantity); err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		ResourceID:       res.ID,
		UserID:           actor.ID,
		Type:             domain.TransactionTypeCheckin,
		Quantity:         input.Quantity,
		PreviousQuantity: res.AvailableQuantity,
		NewQuantity:      min32(res.AvailableQuantity+input.Quantity, res.Quantity),
		Status:           domain.TransactionStatusCompleted,
		Notes:            input.Notes,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.audit(ctx, actor, res, domain.ActionCheckin,
		fmt.Sprintf("checked in %d x %q", input.Quantity, res.Name), meta)
	return tx, nil
}

// BulkImport commits every valid row and reports failures by input index.
func (s *resourceService) BulkImport(ctx context.Context, actor *domain.User, payloads []ResourceInput, meta RequestMeta) (*BulkImportResult, error) {
	if len(payloads) == 0 {
		return nil, domain.Validationf("no rows to import")
	}

	result := &BulkImportResult{Errors: []BulkImportError{}}
	for i, payload := range payloads {
		if _, err := s.Create(ctx, actor, payload, meta); err != nil {
			result.Errors = append(result.Errors, BulkImportError{Index: i, Error: err.Error()})
			continue
		}
		result.ImportedCount++
	}
	return result, nil
}

func (s *resourceService) Stats(ctx context.Context) (*repository.ResourceStats, error) {
	return s.resourceRepo.Stats(ctx)
}

func (s *resourceService) LowStockAlerts(ctx context.Context, threshold int32) ([]domain.Resource, error) {
	if threshold <= 0 {
		threshold = s.lowStockThreshold
	}
	return s.resourceRepo.ListLowStock(ctx, threshold)
}

func (s *resourceService) MaintenanceAlerts(ctx context.Context) ([]domain.Resource, error) {
	return s.resourceRepo.ListMaintenanceDue(ctx, time.Now())
}

func (s *resourceService) RecordMaintenance(ctx context.Context, actor *domain.User, resourceID int32, notes string, meta RequestMeta) (*domain.Resource, error) {
	res, err := s.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	var next *time.Time
	if interval := res.MaintenanceSchedule.Interval(); interval > 0 {
		n := now.Add(interval)
		next = &n
	}
	if err := s.resourceRepo.SetMaintenance(ctx, resourceID, now, next); err != nil {
		return nil, err
	}
	res.LastMaintenance = &now
	res.NextMaintenance = next

	s.recordLedger(ctx, res, actor.ID, domain.TransactionTypeMaintenance, res.Quantity, res.Quantity, res.Quantity, notes)
	s.audit(ctx, actor, res, domain.ActionResourceEdit,
		fmt.Sprintf("maintenance recorded for %q", res.Name), meta)
	return res, nil
}

// recordLedger appends a completed bookkeeping entry. Ledger failures for
// non-checkout types are logged, not surfaced; the catalog write already
// happened and these entries are a history, not a gate.
func (s *resourceService) recordLedger(ctx context.Context, res *domain.Resource, userID int32,
	txType domain.TransactionType, qty, prev, next int32, notes string) {
	tx := &domain.Transaction{
		ResourceID:       res.ID,
		UserID:           userID,
		Type:             txType,
		Quantity:         qty,
		PreviousQuantity: prev,
		NewQuantity:      next,
		Status:           domain.TransactionStatusCompleted,
		Notes:            notes,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		logger.Error("ledger entry failed", "resource_id", res.ID, "type", txType, "error", err)
	}
}

func (s *resourceService) audit(ctx context.Context, actor *domain.User, res *domain.Resource,
	action domain.ActivityAction, details string, meta RequestMeta) {
	s.activity.Record(ctx, &domain.ActivityLog{
		UserID:       &actor.ID,
		ResourceID:   &res.ID,
		Action:       action,
		Details:      details,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Severity:     domain.SeverityLow,
		IsSuccessful: true,
	})
}

func (s *resourceService) notifyCheckout(actor *domain.User, res *domain.Resource, tx *domain.Transaction) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.email.SendCheckoutConfirmation(ctx, actor.Email, actor.FullName(), res.Name, tx.Quantity, tx.ExpectedReturnDate); err != nil {
			logger.Warn("checkout confirmation email failed", "email", actor.Email, "error", err)
		}
	}()
}

// checkLowStock re-reads the resource and alerts admins when the checkout
// left it at or below the threshold.
func (s *resourceService) checkLowStock(resourceID int32) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		res, err := s.resourceRepo.GetByID(ctx, resourceID)
		if err != nil || !res.IsLowStock(s.lowStockThreshold) {
			return
		}
		admins, err := s.userRepo.ListActiveByEmailSuffix(ctx, s.adminDomain)
		if err != nil {
			logger.Warn("low stock admin lookup failed", "error", err)
			return
		}
		for _, admin := range admins {
			if err := s.email.SendLowStockAlert(ctx, admin.Email, []domain.Resource{*res}); err != nil {
				logger.Warn("low stock alert email failed", "email", admin.Email, "error", err)
			}
		}
	}()
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
