package repository

import (
	"context"

	"github.com/MolodoyDEV/diploma/internal/domain/entity"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user together with its role links
	Create(ctx context.Context, user *entity.User) error

	// GetByID retrieves a user with its roles, nil if absent
	GetByID(ctx context.Context, id uint) (*entity.User, error)

	// GetByLogin retrieves a user with its roles, nil if absent
	GetByLogin(ctx context.Context, login string) (*entity.User, error)

	// List retrieves users with pagination
	List(ctx context.Context, limit, offset int) ([]*entity.User, int64, error)

	// Update updates a user and replaces its role links
	Update(ctx context.Context, user *entity.User) error

	// Delete deletes a user by ID
	Delete(ctx context.Context, id uint) error
}

// RoleRepository defines the interface for role data operations
type RoleRepository interface {
	Create(ctx context.Context, role *entity.Role) error
	GetByID(ctx context.Context, id uint) (*entity.Role, error)
	GetByName(ctx context.Context, name string) (*entity.Role, error)

	// GetByNames retrieves all roles whose name is in names
	GetByNames(ctx context.Context, names []string) ([]entity.Role, error)

	List(ctx context.Context, limit, offset int) ([]*entity.Role, int64, error)
	Update(ctx context.Context, role *entity.Role) error
	Delete(ctx context.Context, id uint) error
}

// SettingRepository defines the interface for settings data operations
type SettingRepository interface {
	Create(ctx context.Context, setting *entity.Setting) error
	GetByID(ctx context.Context, id uint) (*entity.Setting, error)
	GetByName(ctx context.Context, name string) (*entity.Setting, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Setting, int64, error)

	// ListThresholds retrieves every setting whose name ends in the threshold suffix
	ListThresholds(ctx context.Context) ([]*entity.Setting, error)

	Update(ctx context.Context, setting *entity.Setting) error
	Delete(ctx context.Context, id uint) error
}
