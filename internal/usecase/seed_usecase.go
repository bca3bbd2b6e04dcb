package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/MolodoyDEV/diploma/internal/domain/entity"
	"github.com/MolodoyDEV/diploma/internal/domain/repository"
)

// DefaultAdminLogin is the login of the account created on first start
const DefaultAdminLogin = "admin"

// SeedInput represents the defaults ensured at startup
type SeedInput struct {
	AdminLogin    string
	AdminPassword string
	Labels        []entity.Label
}

// SeedUsecase fills an empty database with the data the service needs to run
type SeedUsecase interface {
	Seed(ctx context.Context, input *SeedInput) error
}

type seedUsecase struct {
	userRepo    repository.UserRepository
	roleRepo    repository.RoleRepository
	settingRepo repository.SettingRepository
	logger      *zap.Logger
}

// NewSeedUsecase creates a new seed usecase
func NewSeedUsecase(userRepo repository.UserRepository, roleRepo repository.RoleRepository, settingRepo repository.SettingRepository, logger *zap.Logger) SeedUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &seedUsecase{
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		settingRepo: settingRepo,
		logger:      logger,
	}
}

// Seed is idempotent: existing rows, including edited thresholds, are left untouched.
func (u *seedUsecase) Seed(ctx context.Context, input *SeedInput) error {
	adminRole, err := u.roleRepo.GetByName(ctx, entity.AdminRoleName)
	if err != nil {
		return fmt.Errorf("failed to load admin role: %w", err)
	}
	if adminRole == nil {
		adminRole = &entity.Role{Name: entity.AdminRoleName}
		if err := u.roleRepo.Create(ctx, adminRole); err != nil {
			return fmt.Errorf("failed to create admin role: %w", err)
		}
		u.logger.Info("Created admin role")
	}

	login := input.AdminLogin
	if login == "" {
		login = DefaultAdminLogin
	}
	admin, err := u.userRepo.GetByLogin(ctx, login)
	if err != nil {
		return fmt.Errorf("failed to load admin user: %w", err)
	}
	if admin == nil {
		if input.AdminPassword == "" {
			return errors.New("default admin password is not configured")
		}
		hash, err := hashPassword(input.AdminPassword)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		admin = entity.NewUser(login, hash, []entity.Role{*adminRole})
		if err := u.userRepo.Create(ctx, admin); err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		u.logger.Info("Created default admin user", zap.String("login", login))
	}

	for _, label := range input.Labels {
		key := label.ThresholdKey()
		existing, err := u.settingRepo.GetByName(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to load setting %s: %w", key, err)
		}
		if existing != nil {
			continue
		}

		value, ok := entity.DefaultThresholds[label]
		if !ok {
			// No trained default; the admin has to set it before predictions can be evaluated.
			u.logger.Warn("No default threshold for label", zap.String("label", label.String()))
			continue
		}
		if err := u.settingRepo.Create(ctx, &entity.Setting{Name: key, Value: value}); err != nil {
			return fmt.Errorf("failed to create setting %s: %w", key, err)
		}
		u.logger.Info("Created default threshold", zap.String("name", key), zap.String("value", value))
	}

	return nil
}
