package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/repository"
)

type userService struct {
	userRepo    repository.UserRepository
	activity    ActivityService
	adminDomain string
}

func NewUserService(userRepo repository.UserRepository, activity ActivityService, adminDomain string) UserService {
	return &userService{
		userRepo:    userRepo,
		activity:    activity,
		adminDomain: adminDomain,
	}
}

func (s *userService) Get(ctx context.Context, id int32) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Role = domain.RoleForEmail(user.Email, s.adminDomain)
	return user, nil
}

func (s *userService) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, int32, error) {
	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range users {
		users[i].Role = domain.RoleForEmail(users[i].Email, s.adminDomain)
	}
	return users, total, nil
}

func (s *userService) Update(ctx context.Context, actor *domain.User, id int32, input UpdateUserInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if !strings.Contains(email, "@") {
			return nil, domain.Validationf("a valid email is required")
		}
		user.Email = email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Department != nil {
		user.Department = *input.Department
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	user.Role = domain.RoleForEmail(user.Email, s.adminDomain)

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: email already in use", domain.ErrDuplicateKey)
		}
		return nil, err
	}

	s.activity.Record(ctx, &domain.ActivityLog{
		UserID:       &actor.ID,
		TargetUserID: &user.ID,
		Action:       domain.ActionUserEdit,
		Details:      fmt.Sprintf("account %q updated", user.Username),
		Severity:     domain.SeverityMedium,
		IsSuccessful: true,
	})
	return user, nil
}

func (s *userService) Deactivate(ctx context.Context, actor *domain.User, id int32) error {
	if actor.ID == id {
		return domain.Validationf("cannot deactivate your own account")
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	user.IsActive = false
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.activity.Record(ctx, &domain.ActivityLog{
		UserID:       &actor.ID,
		TargetUserID: &user.ID,
		Action:       domain.ActionUserDelete,
		Details:      fmt.Sprintf("account %q deactivated", user.Username),
		Severity:     domain.SeverityHigh,
		IsSuccessful: true,
	})
	return nil
}
