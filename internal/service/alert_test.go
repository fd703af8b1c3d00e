package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/repository"
	"inventrack-backend/internal/service"
)

func TestAlertService_RunOverdueSweep(t *testing.T) {
	ctx := context.Background()

	t.Run("FlagsAndNotifies", func(t *testing.T) {
		txRepo := new(MockTransactionRepo)
		resourceRepo := new(MockResourceRepo)
		userRepo := new(MockUserRepo)
		email := new(MockEmailService)
		svc := service.NewAlertService(resourceRepo, txRepo, userRepo, email, testAdminDomain, 2)

		due := time.Now().Add(-71 * time.Hour)
		txRepo.On("ListOverdue", ctx, mock.Anything).Return([]domain.Transaction{
			{
				ID:                 42,
				ResourceID:         1,
				UserID:             3,
				Type:               domain.TransactionTypeCheckout,
				Status:             domain.TransactionStatusApproved,
				Quantity:           2,
				ExpectedReturnDate: &due,
			},
		}, nil).Once()
		txRepo.On("SaveOverdueFlags", ctx, int32(42), true, int32(3)).Return(nil).Once()
		userRepo.On("GetByID", ctx, int32(3)).Return(&domain.User{
			ID: 3, Email: "pat@gmail.com", FirstName: "Pat", LastName: "Doe",
		}, nil).Once()
		resourceRepo.On("GetByID", ctx, int32(1)).Return(newResourceFixture(), nil).Once()
		email.On("SendOverdueNotice", ctx, "pat@gmail.com", "Pat Doe", "Projector", int32(3)).Return(nil).Once()

		assert.NoError(t, svc.RunOverdueSweep(ctx))
		txRepo.AssertExpectations(t)
		email.AssertExpectations(t)
	})

	t.Run("EmailFailureDoesNotAbort", func(t *testing.T) {
		txRepo := new(MockTransactionRepo)
		resourceRepo := new(MockResourceRepo)
		userRepo := new(MockUserRepo)
		email := new(MockEmailService)
		svc := service.NewAlertService(resourceRepo, txRepo, userRepo, email, testAdminDomain, 2)

		due := time.Now().Add(-36 * time.Hour)
		txRepo.On("ListOverdue", ctx, mock.Anything).Return([]domain.Transaction{
			{ID: 1, ResourceID: 1, UserID: 3, Type: domain.TransactionTypeCheckout,
				Status: domain.TransactionStatusApproved, ExpectedReturnDate: &due},
			{ID: 2, ResourceID: 1, UserID: 3, Type: domain.TransactionTypeCheckout,
				Status: domain.TransactionStatusCompleted, ExpectedReturnDate: &due},
		}, nil).Once()
		txRepo.On("SaveOverdueFlags", ctx, mock.Anything, true, int32(2)).Return(nil).Twice()
		userRepo.On("GetByID", ctx, int32(3)).Return(&domain.User{ID: 3, Email: "pat@gmail.com"}, nil).Twice()
		resourceRepo.On("GetByID", ctx, int32(1)).Return(newResourceFixture(), nil).Twice()
		email.On("SendOverdueNotice", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(assert.AnError).Twice()

		assert.NoError(t, svc.RunOverdueSweep(ctx))
		email.AssertExpectations(t)
	})

	t.Run("NothingOverdue", func(t *testing.T) {
		txRepo := new(MockTransactionRepo)
		email := new(MockEmailService)
		svc := service.NewAlertService(new(MockResourceRepo), txRepo, new(MockUserRepo), email, testAdminDomain, 2)

		txRepo.On("ListOverdue", ctx, mock.Anything).Return([]domain.Transaction{}, nil).Once()

		assert.NoError(t, svc.RunOverdueSweep(ctx))
		email.AssertNotCalled(t, "SendOverdueNotice", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAlertService_RunLowStockSweep(t *testing.T) {
	ctx := context.Background()

	t.Run("OnlyAdminDomainGetsMail", func(t *testing.T) {
		resourceRepo := new(MockResourceRepo)
		userRepo := new(MockUserRepo)
		email := new(MockEmailService)
		svc := service.NewAlertService(resourceRepo, new(MockTransactionRepo), userRepo, email, testAdminDomain, 2)

		low := []domain.Resource{*newResourceFixture()}
		resourceRepo.On("ListLowStock", ctx, int32(2)).Return(low, nil).Once()
		userRepo.On("ListActiveByEmailSuffix", ctx, testAdminDomain).Return([]domain.User{
			{ID: 9, Email: "boss@acme.org"},
			{ID: 10, Email: "acme.org@gmail.com"},
		}, nil).Once()
		email.On("SendLowStockAlert", ctx, "boss@acme.org", low).Return(nil).Once()

		assert.NoError(t, svc.RunLowStockSweep(ctx))
		email.AssertExpectations(t)
		email.AssertNumberOfCalls(t, "SendLowStockAlert", 1)
	})

	t.Run("NoLowStockSkipsLookup", func(t *testing.T) {
		resourceRepo := new(MockResourceRepo)
		userRepo := new(MockUserRepo)
		svc := service.NewAlertService(resourceRepo, new(MockTransactionRepo), userRepo, new(MockEmailService), testAdminDomain, 2)

		resourceRepo.On("ListLowStock", ctx, int32(2)).Return([]domain.Resource{}, nil).Once()

		assert.NoError(t, svc.RunLowStockSweep(ctx))
		userRepo.AssertNotCalled(t, "ListActiveByEmailSuffix", mock.Anything, mock.Anything)
	})
}

func TestAlertService_RunMaintenanceSweep(t *testing.T) {
	ctx := context.Background()
	resourceRepo := new(MockResourceRepo)
	userRepo := new(MockUserRepo)
	email := new(MockEmailService)
	svc := service.NewAlertService(resourceRepo, new(MockTransactionRepo), userRepo, email, testAdminDomain, 2)

	due := []domain.Resource{*newResourceFixture()}
	resourceRepo.On("ListMaintenanceDue", ctx, mock.Anything).Return(due, nil).Once()
	userRepo.On("ListActiveByEmailSuffix", ctx, testAdminDomain).Return([]domain.User{
		{ID: 9, Email: "boss@acme.org"},
	}, nil).Once()
	email.On("SendMaintenanceAlert", ctx, "boss@acme.org", due).Return(nil).Once()

	assert.NoError(t, svc.RunMaintenanceSweep(ctx))
	email.AssertExpectations(t)
}

func TestAlertService_RunDailySummary(t *testing.T) {
	ctx := context.Background()
	resourceRepo := new(MockResourceRepo)
	txRepo := new(MockTransactionRepo)
	userRepo := new(MockUserRepo)
	email := new(MockEmailService)
	svc := service.NewAlertService(resourceRepo, txRepo, userRepo, email, testAdminDomain, 2)

	resourceRepo.On("Stats", ctx).Return(&repository.ResourceStats{
		TotalResources: 12, TotalQuantity: 40, TotalAvailable: 31, TotalCheckedOut: 9,
	}, nil).Once()
	txRepo.On("Stats", ctx, (*time.Time)(nil), (*time.Time)(nil)).Return(&repository.TransactionStats{
		TotalTransactions: 88, PendingApprovals: 4,
	}, nil).Once()
	txRepo.On("ListOverdue", ctx, mock.Anything).Return([]domain.Transaction{}, nil).Once()
	low := newResourceFixture()
	low.AvailableQuantity = 1
	resourceRepo.On("ListLowStock", ctx, int32(2)).Return([]domain.Resource{*low}, nil).Once()
	userRepo.On("ListActiveByEmailSuffix", ctx, testAdminDomain).Return([]domain.User{
		{ID: 9, Email: "boss@acme.org"},
	}, nil).Once()
	email.On("SendDailySummary", ctx, "boss@acme.org", mock.MatchedBy(func(summary string) bool {
		return len(summary) > 0
	})).Return(nil).Once()

	assert.NoError(t, svc.RunDailySummary(ctx))
	email.AssertExpectations(t)
}
