package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/GTDGit/promo_api/internal/models"
	"github.com/GTDGit/promo_api/internal/repository"
	"github.com/GTDGit/promo_api/internal/utils"
)

const roleAdmin = "admin"

type AdminAuthService struct {
	adminRepo adminUserStore
}

func NewAdminAuthService(adminRepo adminUserStore) *AdminAuthService {
	return &AdminAuthService{adminRepo: adminRepo}
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token string            `json:"token"`
	User  *models.AdminUser `json:"user"`
}

func (s *AdminAuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	log.Debug().Str("email", email).Msg("Login attempt")

	user, err := s.adminRepo.GetByEmail(ctx, email)
	if repository.IsNotFound(err) {
		log.Warn().Str("email", email).Msg("Unknown admin email")
		return nil, utils.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get admin user: %w", err)
	}

	if !user.IsActive {
		log.Warn().Str("email", email).Msg("Account is inactive")
		return nil, utils.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("Password verification failed")
		return nil, utils.ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	if err := s.adminRepo.TouchLastLogin(ctx, user.ID); err != nil {
		log.Warn().Err(err).Int("user_id", user.ID).Msg("Failed to record last login")
	}
	log.Info().Str("email", email).Msg("Login successful")
	return &LoginResult{Token: token, User: user}, nil
}

func (s *AdminAuthService) CreateAdmin(ctx context.Context, email, password, name string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", utils.ErrInvalidCredentials)
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.AdminUser{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hashedPassword),
		Name:         name,
		Role:         roleAdmin,
		IsActive:     true,
	}
	return s.adminRepo.Create(ctx, user)
}

// Bootstrap creates the first admin account when none exist. It is a no-op
// when email is empty or an admin is already present.
func (s *AdminAuthService) Bootstrap(ctx context.Context, email, password string) error {
	if email == "" {
		return nil
	}
	n, err := s.adminRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if n > 0 {
		return nil
	}
	if err := s.CreateAdmin(ctx, email, password, "Administrator"); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	log.Info().Str("email", email).Msg("Bootstrap admin created")
	return nil
}
