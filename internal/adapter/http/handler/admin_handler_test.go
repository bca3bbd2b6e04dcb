package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MolodoyDEV/diploma/internal/usecase"
)

// MockUserUsecase is a mock implementation of UserUsecase
type MockUserUsecase struct {
	mock.Mock
}

func (m *MockUserUsecase) Create(ctx context.Context, input *usecase.CreateUserInput) (*usecase.UserOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.UserOutput), args.Error(1)
}

func (m *MockUserUsecase) GetByID(ctx context.Context, id uint) (*usecase.UserOutput, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.UserOutput), args.Error(1)
}

func (m *MockUserUsecase) List(ctx context.Context, limit, offset int) (*usecase.UserListOutput, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.UserListOutput), args.Error(1)
}

func (m *MockUserUsecase) Update(ctx context.Context, id uint, input *usecase.UpdateUserInput) (*usecase.UserOutput, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.UserOutput), args.Error(1)
}

func (m *MockUserUsecase) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRoleUsecase is a mock implementation of RoleUsecase
type MockRoleUsecase struct {
	mock.Mock
}

func (m *MockRoleUsecase) Create(ctx context.Context, input *usecase.RoleInput) (*usecase.RoleOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RoleOutput), args.Error(1)
}

func (m *MockRoleUsecase) GetByID(ctx context.Context, id uint) (*usecase.RoleOutput, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RoleOutput), args.Error(1)
}

func (m *MockRoleUsecase) List(ctx context.Context, limit, offset int) (*usecase.RoleListOutput, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RoleListOutput), args.Error(1)
}

func (m *MockRoleUsecase) Update(ctx context.Context, id uint, input *usecase.RoleInput) (*usecase.RoleOutput, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RoleOutput), args.Error(1)
}

func (m *MockRoleUsecase) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSettingUsecase is a mock implementation of SettingUsecase
type MockSettingUsecase struct {
	mock.Mock
}

func (m *MockSettingUsecase) Create(ctx context.Context, input *usecase.CreateSettingInput) (*usecase.SettingOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SettingOutput), args.Error(1)
}

func (m *MockSettingUsecase) GetByID(ctx context.Context, id uint) (*usecase.SettingOutput, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SettingOutput), args.Error(1)
}

func (m *MockSettingUsecase) List(ctx context.Context, limit, offset int) (*usecase.SettingListOutput, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SettingListOutput), args.Error(1)
}

func (m *MockSettingUsecase) Update(ctx context.Context, id uint, input *usecase.UpdateSettingInput) (*usecase.SettingOutput, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SettingOutput), args.Error(1)
}

func (m *MockSettingUsecase) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type adminFixture struct {
	users    *MockUserUsecase
	roles    *MockRoleUsecase
	settings *MockSettingUsecase
	router   *gin.Engine
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		users:    new(MockUserUsecase),
		roles:    new(MockRoleUsecase),
		settings: new(MockSettingUsecase),
	}
	h := NewAdminHandler(f.users, f.roles, f.settings)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/users", h.CreateUser)
	r.GET("/users", h.ListUsers)
	r.GET("/users/:id", h.GetUser)
	r.PATCH("/users/:id", h.UpdateUser)
	r.DELETE("/users/:id", h.DeleteUser)
	r.POST("/roles", h.CreateRole)
	r.GET("/roles", h.ListRoles)
	r.GET("/roles/:id", h.GetRole)
	r.PUT("/roles/:id", h.UpdateRole)
	r.DELETE("/roles/:id", h.DeleteRole)
	r.POST("/settings", h.CreateSetting)
	r.GET("/settings", h.ListSettings)
	r.GET("/settings/:id", h.GetSetting)
	r.PATCH("/settings/:id", h.UpdateSetting)
	r.DELETE("/settings/:id", h.DeleteSetting)
	f.router = r
	return f
}

func (f *adminFixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestAdminHandler_Users(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		f := newAdminFixture()
		f.users.On("Create", mock.Anything, &usecase.CreateUserInput{Login: "analyst", Password: "pw", Roles: []string{"admin"}}).
			Return(&usecase.UserOutput{ID: 2, Login: "analyst", Roles: []string{"admin"}}, nil)

		w := f.do(http.MethodPost, "/users", map[string]interface{}{"login": "analyst", "password": "pw", "roles": []string{"admin"}})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "password")
		f.users.AssertExpectations(t)
	})

	t.Run("create without password fails validation", func(t *testing.T) {
		f := newAdminFixture()

		w := f.do(http.MethodPost, "/users", map[string]string{"login": "analyst"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("create with unknown role", func(t *testing.T) {
		f := newAdminFixture()
		f.users.On("Create", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: ghost", usecase.ErrRoleNotFound))

		w := f.do(http.MethodPost, "/users", map[string]interface{}{"login": "a", "password": "pw", "roles": []string{"ghost"}})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate login", func(t *testing.T) {
		f := newAdminFixture()
		f.users.On("Create", mock.Anything, mock.Anything).Return(nil, usecase.ErrAlreadyExists)

		w := f.do(http.MethodPost, "/users", map[string]string{"login": "admin", "password": "pw"})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("list with pagination", func(t *testing.T) {
		f := newAdminFixture()
		f.users.On("List", mock.Anything, 5, 10).Return(&usecase.UserListOutput{Limit: 5, Offset: 10}, nil)

		w := f.do(http.MethodGet, "/users?limit=5&offset=10", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		f.users.AssertExpectations(t)
	})

	t.Run("get not found", func(t *testing.T) {
		f := newAdminFixture()
		f.users.On("GetByID", mock.Anything, uint(9)).Return(nil, usecase.ErrUserNotFound)

		w := f.do(http.MethodGet, "/users/9", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("get invalid id", func(t *testing.T) {
		f := newAdminFixture()

		w := f.do(http.MethodGet, "/users/abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid user id")
	})

	t.Run("update roles", func(t *testing.T) {
		f := newAdminFixture()
		f.users.On("Update", mock.Anything, uint(2), mock.MatchedBy(func(in *usecase.UpdateUserInput) bool {
			return in.Roles != nil && len(*in.Roles) == 0 && in.Login == nil && in.Password == nil
		})).Return(&usecase.UserOutput{ID: 2, Login: "analyst", Roles: []string{}}, nil)

		w := f.do(http.MethodPatch, "/users/2", map[string]interface{}{"roles": []string{}})

		assert.Equal(t, http.StatusOK, w.Code)
		f.users.AssertExpectations(t)
	})

	t.Run("delete", func(t *testing.T) {
		f := newAdminFixture()
		f.users.On("Delete", mock.Anything, uint(2)).Return(nil)

		w := f.do(http.MethodDelete, "/users/2", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAdminHandler_Roles(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		f := newAdminFixture()
		f.roles.On("Create", mock.Anything, &usecase.RoleInput{Name: "analyst"}).Return(&usecase.RoleOutput{ID: 2, Name: "analyst"}, nil)

		w := f.do(http.MethodPost, "/roles", map[string]string{"name": "analyst"})

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("name too long", func(t *testing.T) {
		f := newAdminFixture()

		w := f.do(http.MethodPost, "/roles", map[string]string{"name": "a-role-name-that-is-longer-than-32-chars"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rename conflict", func(t *testing.T) {
		f := newAdminFixture()
		f.roles.On("Update", mock.Anything, uint(2), &usecase.RoleInput{Name: "admin"}).Return(nil, usecase.ErrAlreadyExists)

		w := f.do(http.MethodPut, "/roles/2", map[string]string{"name": "admin"})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("admin role is protected", func(t *testing.T) {
		f := newAdminFixture()
		f.roles.On("Delete", mock.Anything, uint(1)).Return(fmt.Errorf("%w: admin cannot be deleted", usecase.ErrProtectedRole))
		f.roles.On("Update", mock.Anything, uint(1), &usecase.RoleInput{Name: "root"}).
			Return(nil, fmt.Errorf("%w: admin cannot be renamed", usecase.ErrProtectedRole))

		assert.Equal(t, http.StatusConflict, f.do(http.MethodDelete, "/roles/1", nil).Code)
		assert.Equal(t, http.StatusConflict, f.do(http.MethodPut, "/roles/1", map[string]string{"name": "root"}).Code)
	})

	t.Run("list, get and delete", func(t *testing.T) {
		f := newAdminFixture()
		f.roles.On("List", mock.Anything, DefaultLimit, 0).Return(&usecase.RoleListOutput{}, nil)
		f.roles.On("GetByID", mock.Anything, uint(1)).Return(&usecase.RoleOutput{ID: 1, Name: "admin"}, nil)
		f.roles.On("Delete", mock.Anything, uint(3)).Return(usecase.ErrRoleNotFound)

		assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/roles", nil).Code)
		assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/roles/1", nil).Code)
		assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, "/roles/3", nil).Code)
	})
}

func TestAdminHandler_Settings(t *testing.T) {
	t.Run("create threshold", func(t *testing.T) {
		f := newAdminFixture()
		f.settings.On("Create", mock.Anything, mock.MatchedBy(func(in *usecase.CreateSettingInput) bool {
			return in.Name == "spam_threshold" && in.Value == "0.97" && in.Description == nil
		})).Return(&usecase.SettingOutput{ID: 4, Name: "spam_threshold", Value: "0.97"}, nil)

		w := f.do(http.MethodPost, "/settings", map[string]string{"name": "spam_threshold", "value": "0.97"})

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("invalid threshold value is a client error", func(t *testing.T) {
		f := newAdminFixture()
		f.settings.On("Update", mock.Anything, uint(1), mock.Anything).
			Return(nil, fmt.Errorf("%w: out of range", usecase.ErrInvalidThreshold))

		w := f.do(http.MethodPatch, "/settings/1", map[string]string{"value": "2"})

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, CodeInvalidRequest, resp.Error.Code)
	})

	t.Run("list, get and delete", func(t *testing.T) {
		f := newAdminFixture()
		f.settings.On("List", mock.Anything, DefaultLimit, 0).Return(&usecase.SettingListOutput{}, nil)
		f.settings.On("GetByID", mock.Anything, uint(1)).Return(nil, usecase.ErrSettingNotFound)
		f.settings.On("Delete", mock.Anything, uint(1)).Return(nil)

		assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/settings", nil).Code)
		assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/settings/1", nil).Code)
		assert.Equal(t, http.StatusOK, f.do(http.MethodDelete, "/settings/1", nil).Code)
	})
}
