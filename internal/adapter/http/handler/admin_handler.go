package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MolodoyDEV/diploma/internal/usecase"
)

// AdminHandler serves CRUD over users, roles and settings
type AdminHandler struct {
	userUC    usecase.UserUsecase
	roleUC    usecase.RoleUsecase
	settingUC usecase.SettingUsecase
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(userUC usecase.UserUsecase, roleUC usecase.RoleUsecase, settingUC usecase.SettingUsecase) *AdminHandler {
	return &AdminHandler{
		userUC:    userUC,
		roleUC:    roleUC,
		settingUC: settingUC,
	}
}

// CreateUser handles POST /api/v1/admin/users
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var input usecase.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	output, err := h.userUC.Create(c.Request.Context(), &input)
	if err != nil {
		handleAdminInputError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, output)
}

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	p := ParsePagination(c)

	output, err := h.userUC.List(c.Request.Context(), p.Limit, p.Offset)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// GetUser handles GET /api/v1/admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := ExtractIDParam(c, "id")
	if err != nil {
		HandleInvalidID(c, "user id")
		return
	}

	output, err := h.userUC.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// UpdateUser handles PATCH /api/v1/admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, err := ExtractIDParam(c, "id")
	if err != nil {
		HandleInvalidID(c, "user id")
		return
	}

	var input usecase.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	output, err := h.userUC.Update(c.Request.Context(), id, &input)
	if err != nil {
		handleAdminInputError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// DeleteUser handles DELETE /api/v1/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := ExtractIDParam(c, "id")
	if err != nil {
		HandleInvalidID(c, "user id")
		return
	}

	if err := h.userUC.Delete(c.Request.Context(), id); err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"id": id})
}

// CreateRole handles POST /api/v1/admin/roles
func (h *AdminHandler) CreateRole(c *gin.Context) {
	var input usecase.RoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	output, err := h.roleUC.Create(c.Request.Context(), &input)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, output)
}

// ListRoles handles GET /api/v1/admin/roles
func (h *AdminHandler) ListRoles(c *gin.Context) {
	p := ParsePagination(c)

	output, err := h.roleUC.List(c.Request.Context(), p.Limit, p.Offset)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// GetRole handles GET /api/v1/admin/roles/:id
func (h *AdminHandler) GetRole(c *gin.Context) {
	id, err := ExtractIDParam(c, "id")
	if err != nil {
		HandleInvalidID(c, "role id")
		return
	}

	output, err := h.roleUC.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// UpdateRole handles PUT /api/v1/admin/roles/:id
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	id, err := ExtractIDParam(c, "id")
	if err != nil {
		HandleInvalidID(c, "role id")
		return
	}

	var input usecase.RoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	output, err := h.roleUC.Update(c.Request.Context(), id, &input)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// DeleteRole handles DELETE /api/v1/admin/roles/:id
func (h *AdminHandler) DeleteRole(c *gin.Context) {
	id, err := ExtractIDParam(c, "id")
	if err != nil {
		HandleInvalidID(c, "role id")
		return
	}

	if err := h.roleUC.Delete(c.Request.Context(), id); err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"id": id})
}

// CreateSetting handles POST /api/v1/admin/settings
func (h *AdminHandler) CreateSetting(c *gin.Context) {
	var input usecase.CreateSettingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	output, err := h.settingUC.Create(c.Request.Context(), &input)
	if err != nil {
		handleAdminInputError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, output)
}

// ListSettings handles GET /api/v1/admin/settings
func (h *AdminHandler) ListSettings(c *gin.Context) {
	p := ParsePagination(c)

	output, err := h.settingUC.List(c.Request.Context(), p.Limit, p.Offset)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// GetSetting handles GET /api/v1/admin/settings/:id
func (h *AdminHandler) GetSetting(c *gin.Context) {
	id, err := ExtractIDParam(c, "id")
	if err != nil {
		HandleInvalidID(c, "setting id")
		return
	}

	output, err := h.settingUC.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// UpdateSetting handles PATCH /api/v1/admin/settings/:id
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	id, err := ExtractIDParam(c, "id")
	if err != nil {
		HandleInvalidID(c, "setting id")
		return
	}

	var input usecase.UpdateSettingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	output, err := h.settingUC.Update(c.Request.Context(), id, &input)
	if err != nil {
		handleAdminInputError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// DeleteSetting handles DELETE /api/v1/admin/settings/:id
func (h *AdminHandler) DeleteSetting(c *gin.Context) {
	id, err := ExtractIDParam(c, "id")
	if err != nil {
		HandleInvalidID(c, "setting id")
		return
	}

	if err := h.settingUC.Delete(c.Request.Context(), id); err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"id": id})
}
