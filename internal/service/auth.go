package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/logger"
	"inventrack-backend/internal/repository"
	"inventrack-backend/internal/security"
)

const minPasswordLength = 8

type authService struct {
	userRepo    repository.UserRepository
	tokens      security.TokenManager
	email       EmailService
	activity    ActivityService
	adminDomain string
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager, email EmailService, activity ActivityService, adminDomain string) AuthService {
	return &authService{
		userRepo:    userRepo,
		tokens:      tokens,
		email:       email,
		activity:    activity,
		adminDomain: adminDomain,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput, meta RequestMeta) (*domain.User, string, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Username == "" {
		return nil, "", domain.Validationf("username is required")
	}
	if !strings.Contains(input.Email, "@") {
		return nil, "", domain.Validationf("a valid email is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, "", domain.Validationf("password must be at least %d characters", minPasswordLength)
	}
	if input.FirstName == "" || input.LastName == "" {
		return nil, "", domain.Validationf("first and last name are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Department:   input.Department,
		Role:         domain.RoleForEmail(input.Email, s.adminDomain),
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, "", fmt.Errorf("%w: username or email already registered", domain.ErrDuplicateKey)
		}
		return nil, "", err
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.email.SendWelcome(sendCtx, user.Email, user.FullName()); err != nil {
			logger.Warn("welcome email failed", "email", user.Email, "error", err)
		}
	}()

	s.activity.Record(ctx, &domain.ActivityLog{
		UserID:       &user.ID,
		Action:       domain.ActionRegister,
		Details:      fmt.Sprintf("new account %q registered", user.Username),
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Severity:     domain.SeverityLow,
		IsSuccessful: true,
	})

	return user, token, nil
}

func (s *authService) Login(ctx context.Context, usernameOrEmail, password string, meta RequestMeta) (*domain.User, string, error) {
	user, err := s.lookup(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrUnauthenticated
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.activity.Record(ctx, &domain.ActivityLog{
			UserID:       &user.ID,
			Action:       domain.ActionLogin,
			Details:      "failed login attempt",
			IPAddress:    meta.IPAddress,
			UserAgent:    meta.UserAgent,
			Severity:     domain.SeverityMedium,
			IsSuccessful: false,
			ErrorMessage: "wrong password",
		})
		return nil, "", domain.ErrUnauthenticated
	}
	if !user.IsActive {
		return nil, "", domain.ErrAccountDisabled
	}

	// The stored role is only a cache of the email derivation; refresh it
	// opportunistically so listings stay accurate.
	now := time.Now()
	user.Role = domain.RoleForEmail(user.Email, s.adminDomain)
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.Warn("login bookkeeping update failed", "user_id", user.ID, "error", err)
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	s.activity.Record(ctx, &domain.ActivityLog{
		UserID:       &user.ID,
		Action:       domain.ActionLogin,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Severity:     domain.SeverityLow,
		IsSuccessful: true,
	})

	return user, token, nil
}

func (s *authService) lookup(ctx context.Context, usernameOrEmail string) (*domain.User, error) {
	if strings.Contains(usernameOrEmail, "@") {
		return s.userRepo.GetByEmail(ctx, usernameOrEmail)
	}
	return s.userRepo.GetByUsername(ctx, usernameOrEmail)
}

func (s *authService) Logout(ctx context.Context, userID int32, meta RequestMeta) error {
	// Tokens are stateless; logout exists for the audit trail.
	s.activity.Record(ctx, &domain.ActivityLog{
		UserID:       &userID,
		Action:       domain.ActionLogout,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		Severity:     domain.SeverityLow,
		IsSuccessful: true,
	})
	return nil
}

func (s *authService) Me(ctx context.Context, userID int32) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Role = domain.RoleForEmail(user.Email, s.adminDomain)
	return user, nil
}

func (s *authService) UpdateMe(ctx context.Context, userID int32, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if !strings.Contains(email, "@") {
			return nil, domain.Validationf("a valid email is required")
		}
		user.Email = email
		user.Role = domain.RoleForEmail(email, s.adminDomain)
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
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: email already in use", domain.ErrDuplicateKey)
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID int32, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return domain.ErrUnauthenticated
	}
	if len(newPassword) < minPasswordLength {
		return domain.Validationf("password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, string(hash))
}

// ForgotPassword never reveals whether the address has an account.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if !user.IsActive {
		return nil
	}

	resetToken, err := s.tokens.GeneratePasswordResetToken(user.ID, user.Email)
	if err != nil {
		return err
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.email.SendPasswordReset(sendCtx, user.Email, user.FullName(), resetToken); err != nil {
			logger.Warn("password reset email failed", "email", user.Email, "error", err)
		}
	}()
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	claims, err := s.tokens.ValidateResetToken(resetToken)
	if err != nil {
		return domain.ErrUnauthenticated
	}
	if len(newPassword) < minPasswordLength {
		return domain.Validationf("password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, claims.UserID, string(hash))
}
