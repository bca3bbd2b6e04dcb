package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MolodoyDEV/diploma/internal/domain/entity"
)

func TestRoleUsecase_Create(t *testing.T) {
	tests := []struct {
		name    string
		input   *RoleInput
		setup   func(repo *MockRoleRepository)
		wantErr error
	}{
		{
			name:  "success",
			input: &RoleInput{Name: "analyst"},
			setup: func(repo *MockRoleRepository) {
				repo.On("GetByName", mock.Anything, "analyst").Return(nil, nil)
				repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Role")).Return(nil)
			},
		},
		{
			name:  "duplicate",
			input: &RoleInput{Name: "admin"},
			setup: func(repo *MockRoleRepository) {
				repo.On("GetByName", mock.Anything, "admin").Return(&entity.Role{ID: 1, Name: "admin"}, nil)
			},
			wantErr: ErrAlreadyExists,
		},
		{
			name:    "blank name",
			input:   &RoleInput{Name: " "},
			setup:   func(repo *MockRoleRepository) {},
			wantErr: ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRoleRepository)
			tt.setup(repo)
			uc := NewRoleUsecase(repo)

			out, err := uc.Create(context.Background(), tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, out)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input.Name, out.Name)
			repo.AssertExpectations(t)
		})
	}
}

func TestRoleUsecase_Update(t *testing.T) {
	t.Run("rename", func(t *testing.T) {
		repo := new(MockRoleRepository)
		uc := NewRoleUsecase(repo)

		role := &entity.Role{ID: 2, Name: "analyst"}
		repo.On("GetByID", mock.Anything, uint(2)).Return(role, nil)
		repo.On("GetByName", mock.Anything, "auditor").Return(nil, nil)
		repo.On("Update", mock.Anything, role).Return(nil)

		out, err := uc.Update(context.Background(), 2, &RoleInput{Name: "auditor"})

		require.NoError(t, err)
		assert.Equal(t, "auditor", out.Name)
	})

	t.Run("same name skips conflict check", func(t *testing.T) {
		repo := new(MockRoleRepository)
		uc := NewRoleUsecase(repo)

		role := &entity.Role{ID: 2, Name: "analyst"}
		repo.On("GetByID", mock.Anything, uint(2)).Return(role, nil)
		repo.On("Update", mock.Anything, role).Return(nil)

		_, err := uc.Update(context.Background(), 2, &RoleInput{Name: "analyst"})

		require.NoError(t, err)
		repo.AssertNotCalled(t, "GetByName", mock.Anything, mock.Anything)
	})

	t.Run("admin role cannot be renamed", func(t *testing.T) {
		repo := new(MockRoleRepository)
		uc := NewRoleUsecase(repo)

		repo.On("GetByID", mock.Anything, uint(1)).Return(&entity.Role{ID: 1, Name: entity.AdminRoleName}, nil)

		out, err := uc.Update(context.Background(), 1, &RoleInput{Name: "superuser"})

		assert.ErrorIs(t, err, ErrProtectedRole)
		assert.Nil(t, out)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("admin role keeps its own name", func(t *testing.T) {
		repo := new(MockRoleRepository)
		uc := NewRoleUsecase(repo)

		role := &entity.Role{ID: 1, Name: entity.AdminRoleName}
		repo.On("GetByID", mock.Anything, uint(1)).Return(role, nil)
		repo.On("Update", mock.Anything, role).Return(nil)

		out, err := uc.Update(context.Background(), 1, &RoleInput{Name: entity.AdminRoleName})

		require.NoError(t, err)
		assert.Equal(t, entity.AdminRoleName, out.Name)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockRoleRepository)
		uc := NewRoleUsecase(repo)

		repo.On("GetByID", mock.Anything, uint(2)).Return(nil, nil)

		_, err := uc.Update(context.Background(), 2, &RoleInput{Name: "auditor"})

		assert.ErrorIs(t, err, ErrRoleNotFound)
	})
}

func TestRoleUsecase_ListAndDelete(t *testing.T) {
	t.Run("list clamps limit", func(t *testing.T) {
		repo := new(MockRoleRepository)
		uc := NewRoleUsecase(repo)

		repo.On("List", mock.Anything, 100, 10).Return([]*entity.Role{{ID: 1, Name: "admin"}}, int64(11), nil)

		out, err := uc.List(context.Background(), 500, 10)

		require.NoError(t, err)
		assert.Equal(t, 100, out.Limit)
		assert.False(t, out.HasMore)
		assert.Equal(t, "admin", out.Roles[0].Name)
	})

	t.Run("delete propagates repository error", func(t *testing.T) {
		repo := new(MockRoleRepository)
		uc := NewRoleUsecase(repo)
		dbErr := errors.New("constraint violation")

		repo.On("GetByID", mock.Anything, uint(2)).Return(&entity.Role{ID: 2, Name: "analyst"}, nil)
		repo.On("Delete", mock.Anything, uint(2)).Return(dbErr)

		assert.ErrorIs(t, uc.Delete(context.Background(), 2), dbErr)
	})

	t.Run("admin role cannot be deleted", func(t *testing.T) {
		repo := new(MockRoleRepository)
		uc := NewRoleUsecase(repo)

		repo.On("GetByID", mock.Anything, uint(1)).Return(&entity.Role{ID: 1, Name: entity.AdminRoleName}, nil)

		err := uc.Delete(context.Background(), 1)

		assert.ErrorIs(t, err, ErrProtectedRole)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("delete missing role", func(t *testing.T) {
		repo := new(MockRoleRepository)
		uc := NewRoleUsecase(repo)

		repo.On("GetByID", mock.Anything, uint(1)).Return(nil, nil)

		assert.ErrorIs(t, uc.Delete(context.Background(), 1), ErrRoleNotFound)
	})
}
