package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/MolodoyDEV/diploma/internal/domain/entity"
	"github.com/MolodoyDEV/diploma/internal/domain/repository"
)

// CreateUserInput represents the input for creating a user
type CreateUserInput struct {
	Login    string   `json:"login" binding:"required,max=32"`
	Password string   `json:"password" binding:"required"`
	Roles    []string `json:"roles"`
}

// UpdateUserInput represents a partial user update; nil fields are left unchanged
type UpdateUserInput struct {
	Login    *string   `json:"login" binding:"omitempty,max=32"`
	Password *string   `json:"password"`
	Roles    *[]string `json:"roles"`
}

// UserOutput represents the output for user operations
type UserOutput struct {
	ID        uint     `json:"id"`
	Login     string   `json:"login"`
	Roles     []string `json:"roles"`
	CreatedAt string   `json:"created_at"`
}

// UserListOutput represents a paginated user list
type UserListOutput struct {
	Users   []*UserOutput `json:"users"`
	Total   int64         `json:"total"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
	HasMore bool          `json:"has_more"`
}

// UserUsecase defines the interface for user administration
type UserUsecase interface {
	Create(ctx context.Context, input *CreateUserInput) (*UserOutput, error)
	GetByID(ctx context.Context, id uint) (*UserOutput, error)
	List(ctx context.Context, limit, offset int) (*UserListOutput, error)
	Update(ctx context.Context, id uint, input *UpdateUserInput) (*UserOutput, error)
	Delete(ctx context.Context, id uint) error
}

type userUsecase struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

// NewUserUsecase creates a new user usecase
func NewUserUsecase(userRepo repository.UserRepository, roleRepo repository.RoleRepository) UserUsecase {
	return &userUsecase{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

func (u *userUsecase) Create(ctx context.Context, input *CreateUserInput) (*UserOutput, error) {
	login := strings.TrimSpace(input.Login)
	if login == "" || input.Password == "" {
		return nil, ErrInvalidRequest
	}

	existing, err := u.userRepo.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user %s", ErrAlreadyExists, login)
	}

	roles, err := u.resolveRoles(ctx, input.Roles)
	if err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := entity.NewUser(login, hash, roles)
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserOutput(user), nil
}

func (u *userUsecase) GetByID(ctx context.Context, id uint) (*UserOutput, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return toUserOutput(user), nil
}

func (u *userUsecase) List(ctx context.Context, limit, offset int) (*UserListOutput, error) {
	limit = clampLimit(limit)

	users, total, err := u.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	outputs := make([]*UserOutput, len(users))
	for i, user := range users {
		outputs[i] = toUserOutput(user)
	}

	return &UserListOutput{
		Users:   outputs,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: hasMore(offset, limit, total),
	}, nil
}

func (u *userUsecase) Update(ctx context.Context, id uint, input *UpdateUserInput) (*UserOutput, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if input.Login != nil {
		login := strings.TrimSpace(*input.Login)
		if login == "" {
			return nil, ErrInvalidRequest
		}
		if login != user.Login {
			existing, err := u.userRepo.GetByLogin(ctx, login)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, fmt.Errorf("%w: user %s", ErrAlreadyExists, login)
			}
			user.Login = login
		}
	}

	if input.Password != nil {
		if *input.Password == "" {
			return nil, ErrInvalidRequest
		}
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}

	if input.Roles != nil {
		roles, err := u.resolveRoles(ctx, *input.Roles)
		if err != nil {
			return nil, err
		}
		user.Roles = roles
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return toUserOutput(user), nil
}

func (u *userUsecase) Delete(ctx context.Context, id uint) error {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	return u.userRepo.Delete(ctx, id)
}

// resolveRoles loads roles by name and fails if any name is unknown
func (u *userUsecase) resolveRoles(ctx context.Context, names []string) ([]entity.Role, error) {
	if len(names) == 0 {
		return []entity.Role{}, nil
	}

	roles, err := u.roleRepo.GetByNames(ctx, names)
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool, len(roles))
	for _, r := range roles {
		found[r.Name] = true
	}
	for _, name := range names {
		if !found[name] {
			return nil, fmt.Errorf("%w: %s", ErrRoleNotFound, name)
		}
	}

	return roles, nil
}

func toUserOutput(user *entity.User) *UserOutput {
	return &UserOutput{
		ID:        user.ID,
		Login:     user.Login,
		Roles:     user.RoleNames(),
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
