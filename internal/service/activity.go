package service

import (
	"context"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/logger"
	"inventrack-backend/internal/repository"
)

type activityService struct {
	activityRepo repository.ActivityRepository
}

func NewActivityService(activityRepo repository.ActivityRepository) ActivityService {
	return &activityService{activityRepo: activityRepo}
}

// Record is best-effort. An audit failure must never fail the operation it
// describes, so errors are logged and swallowed here.
func (s *activityService) Record(ctx context.Context, entry *domain.ActivityLog) {
	if entry.Category == "" {
		entry.Category = domain.CategoryForAction(entry.Action)
	}
	if entry.Severity == "" {
		entry.Severity = domain.SeverityLow
	}
	if err := s.activityRepo.Create(ctx, entry); err != nil {
		logger.Error("activity log write failed", "action", entry.Action, "error", err)
	}
}

func (s *activityService) Recent(ctx context.Context, limit int32) ([]domain.ActivityLog, error) {
	return s.activityRepo.List(ctx, repository.ActivityFilter{Limit: limit})
}

func (s *activityService) Query(ctx context.Context, filter repository.ActivityFilter) ([]domain.ActivityLog, error) {
	return s.activityRepo.List(ctx, filter)
}

func (s *activityService) Critical(ctx context.Context, limit int32) ([]domain.ActivityLog, error) {
	return s.activityRepo.List(ctx, repository.ActivityFilter{
		Severity: domain.SeverityCritical,
		Limit:    limit,
	})
}
