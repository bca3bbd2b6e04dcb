package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/MolodoyDEV/diploma/internal/domain/entity"
	"github.com/MolodoyDEV/diploma/internal/domain/repository"
)

// RoleInput represents the input for creating or renaming a role
type RoleInput struct {
	Name string `json:"name" binding:"required,max=32"`
}

// RoleOutput represents the output for role operations
type RoleOutput struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// RoleListOutput represents a paginated role list
type RoleListOutput struct {
	Roles   []*RoleOutput `json:"roles"`
	Total   int64         `json:"total"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
	HasMore bool          `json:"has_more"`
}

// RoleUsecase defines the interface for role administration
type RoleUsecase interface {
	Create(ctx context.Context, input *RoleInput) (*RoleOutput, error)
	GetByID(ctx context.Context, id uint) (*RoleOutput, error)
	List(ctx context.Context, limit, offset int) (*RoleListOutput, error)
	Update(ctx context.Context, id uint, input *RoleInput) (*RoleOutput, error)
	Delete(ctx context.Context, id uint) error
}

type roleUsecase struct {
	roleRepo repository.RoleRepository
}

// NewRoleUsecase creates a new role usecase
func NewRoleUsecase(roleRepo repository.RoleRepository) RoleUsecase {
	return &roleUsecase{roleRepo: roleRepo}
}

func (u *roleUsecase) Create(ctx context.Context, input *RoleInput) (*RoleOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidRequest
	}

	existing, err := u.roleRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: role %s", ErrAlreadyExists, name)
	}

	role := &entity.Role{Name: name}
	if err := u.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}

	return toRoleOutput(role), nil
}

func (u *roleUsecase) GetByID(ctx context.Context, id uint) (*RoleOutput, error) {
	role, err := u.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}

	return toRoleOutput(role), nil
}

func (u *roleUsecase) List(ctx context.Context, limit, offset int) (*RoleListOutput, error) {
	limit = clampLimit(limit)

	roles, total, err := u.roleRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	outputs := make([]*RoleOutput, len(roles))
	for i, r := range roles {
		outputs[i] = toRoleOutput(r)
	}

	return &RoleListOutput{
		Roles:   outputs,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: hasMore(offset, limit, total),
	}, nil
}

func (u *roleUsecase) Update(ctx context.Context, id uint, input *RoleInput) (*RoleOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidRequest
	}

	role, err := u.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}

	if name != role.Name {
		if role.Name == entity.AdminRoleName {
			return nil, fmt.Errorf("%w: %s cannot be renamed", ErrProtectedRole, role.Name)
		}
		existing, err := u.roleRepo.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: role %s", ErrAlreadyExists, name)
		}
		role.Name = name
	}

	if err := u.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}

	return toRoleOutput(role), nil
}

func (u *roleUsecase) Delete(ctx context.Context, id uint) error {
	role, err := u.roleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if role == nil {
		return ErrRoleNotFound
	}
	if role.Name == entity.AdminRoleName {
		return fmt.Errorf("%w: %s cannot be deleted", ErrProtectedRole, role.Name)
	}

	return u.roleRepo.Delete(ctx, id)
}

func toRoleOutput(r *entity.Role) *RoleOutput {
	return &RoleOutput{
		ID:   r.ID,
		Name: r.Name,
	}
}
