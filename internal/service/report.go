package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/repository"
)

const exportPageSize = 100

type reportService struct {
	resourceRepo      repository.ResourceRepository
	txRepo            repository.TransactionRepository
	userRepo          repository.UserRepository
	activityRepo      repository.ActivityRepository
	activity          ActivityService
	lowStockThreshold int32
}

func NewReportService(resourceRepo repository.ResourceRepository, txRepo repository.TransactionRepository,
	userRepo repository.UserRepository, activityRepo repository.ActivityRepository, activity ActivityService,
	lowStockThreshold int32) ReportService {
	return &reportService{
		resourceRepo:      resourceRepo,
		txRepo:            txRepo,
		userRepo:          userRepo,
		activityRepo:      activityRepo,
		activity:          activity,
		lowStockThreshold: lowStockThreshold,
	}
}

func (s *reportService) Dashboard(ctx context.Context) (*DashboardReport, error) {
	resourceStats, err := s.resourceRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	txStats, err := s.txRepo.Stats(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	_, totalUsers, err := s.userRepo.List(ctx, repository.UserFilter{PageSize: 1})
	if err != nil {
		return nil, err
	}
	recent, _, err := s.txRepo.List(ctx, repository.TransactionFilter{PageSize: 10, SortBy: "created_on", SortDesc: true})
	if err != nil {
		return nil, err
	}
	low, err := s.resourceRepo.ListLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	overdue, err := s.txRepo.ListOverdue(ctx, now)
	if err != nil {
		return nil, err
	}
	for i := range overdue {
		overdue[i].ComputeOverdue(now)
	}

	return &DashboardReport{
		Resources:          resourceStats,
		Transactions:       txStats,
		TotalUsers:         totalUsers,
		RecentTransactions: recent,
		LowStock:           low,
		Overdue:            overdue,
	}, nil
}

func (s *reportService) ResourceReport(ctx context.Context) (*repository.ResourceStats, error) {
	return s.resourceRepo.Stats(ctx)
}

func (s *reportService) TransactionReport(ctx context.Context, from, to *time.Time) (*repository.TransactionStats, error) {
	return s.txRepo.Stats(ctx, from, to)
}

// Export produces a flat rowset for one of the exportable datasets. The
// caller renders CSV or JSON from Header and Records.
func (s *reportService) Export(ctx context.Context, actor *domain.User, kind string, from, to *time.Time, meta RequestMeta) (*ExportResult, error) {
	result := &ExportResult{
		ExportID:    uuid.NewString(),
		Kind:        kind,
		GeneratedAt: time.Now(),
	}

	switch kind {
	case "resources":
		var resources []domain.Resource
		for page := int32(1); ; page++ {
			batch, _, err := s.resourceRepo.List(ctx, repository.ResourceFilter{IncludeInactive: true, Page: page, PageSize: exportPageSize})
			if err != nil {
				return nil, err
			}
			resources = append(resources, batch...)
			if len(batch) < exportPageSize {
				break
			}
		}
		result.Header = []string{"id", "name", "type", "category", "quantity", "available_quantity", "location", "status", "is_active", "tags", "created_on"}
		for _, r := range resources {
			result.Records = append(result.Records, []string{
				strconv.Itoa(int(r.ID)), r.Name, string(r.Type), r.Category,
				strconv.Itoa(int(r.Quantity)), strconv.Itoa(int(r.AvailableQuantity)),
				r.Location, string(r.Status), strconv.FormatBool(r.IsActive),
				strings.Join(r.Tags, ";"), r.CreatedOn.Format(time.RFC3339),
			})
		}
	case "transactions":
		var txs []domain.Transaction
		for page := int32(1); ; page++ {
			batch, _, err := s.txRepo.List(ctx, repository.TransactionFilter{From: from, To: to, Page: page, PageSize: exportPageSize})
			if err != nil {
				return nil, err
			}
			txs = append(txs, batch...)
			if len(batch) < exportPageSize {
				break
			}
		}
		result.Header = []string{"id", "resource_id", "user_id", "type", "quantity", "status", "purpose", "expected_return_date", "actual_return_date", "created_on"}
		for _, t := range txs {
			result.Records = append(result.Records, []string{
				strconv.Itoa(int(t.ID)), strconv.Itoa(int(t.ResourceID)), strconv.Itoa(int(t.UserID)),
				string(t.Type), strconv.Itoa(int(t.Quantity)), string(t.Status), t.Purpose,
				formatOptionalTime(t.ExpectedReturnDate), formatOptionalTime(t.ActualReturnDate),
				t.CreatedOn.Format(time.RFC3339),
			})
		}
	case "activity":
		entries, err := s.activityRepo.List(ctx, repository.ActivityFilter{From: from, To: to, Limit: 500})
		if err != nil {
			return nil, err
		}
		result.Header = []string{"id", "user_id", "action", "category", "severity", "details", "is_successful", "created_on"}
		for _, e := range entries {
			result.Records = append(result.Records, []string{
				strconv.FormatInt(e.ID, 10), formatOptionalID(e.UserID), string(e.Action),
				string(e.Category), string(e.Severity), e.Details,
				strconv.FormatBool(e.IsSuccessful), e.CreatedOn.Format(time.RFC3339),
			})
		}
	default:
		return nil, domain.Validationf("unknown export kind %q", kind)
	}

	s.activity.Record(ctx, &domain.ActivityLog{
		UserID:       &actor.ID,
		Action:       domain.ActionReportExport,
		Details:      fmt.Sprintf("exported %s (%d records)", kind, len(result.Records)),
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Severity:     domain.SeverityLow,
		Metadata:     map[string]string{"export_id": result.ExportID},
		IsSuccessful: true,
	})
	return result, nil
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatOptionalID(id *int32) string {
	if id == nil {
		return ""
	}
	return strconv.Itoa(int(*id))
}
