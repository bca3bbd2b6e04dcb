package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/MolodoyDEV/diploma/internal/domain/entity"
	"github.com/MolodoyDEV/diploma/internal/domain/repository"
)

// CreateSettingInput represents the input for creating a setting
type CreateSettingInput struct {
	Name        string  `json:"name" binding:"required,max=32"`
	Description *string `json:"description" binding:"omitempty,max=256"`
	Value       string  `json:"value" binding:"required,max=256"`
}

// UpdateSettingInput represents a partial setting update; nil fields are left unchanged
type UpdateSettingInput struct {
	Description *string `json:"description" binding:"omitempty,max=256"`
	Value       *string `json:"value" binding:"omitempty,max=256"`
}

// SettingOutput represents the output for setting operations
type SettingOutput struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Value       string  `json:"value"`
	UpdatedAt   string  `json:"updated_at"`
}

// SettingListOutput represents a paginated setting list
type SettingListOutput struct {
	Settings []*SettingOutput `json:"settings"`
	Total    int64            `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
	HasMore  bool             `json:"has_more"`
}

// SettingUsecase defines the interface for settings administration
type SettingUsecase interface {
	Create(ctx context.Context, input *CreateSettingInput) (*SettingOutput, error)
	GetByID(ctx context.Context, id uint) (*SettingOutput, error)
	List(ctx context.Context, limit, offset int) (*SettingListOutput, error)
	Update(ctx context.Context, id uint, input *UpdateSettingInput) (*SettingOutput, error)
	Delete(ctx context.Context, id uint) error
}

type settingUsecase struct {
	settingRepo repository.SettingRepository
}

// NewSettingUsecase creates a new setting usecase
func NewSettingUsecase(settingRepo repository.SettingRepository) SettingUsecase {
	return &settingUsecase{settingRepo: settingRepo}
}

func (u *settingUsecase) Create(ctx context.Context, input *CreateSettingInput) (*SettingOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidRequest
	}
	if err := validateSettingValue(name, input.Value); err != nil {
		return nil, err
	}

	existing, err := u.settingRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: setting %s", ErrAlreadyExists, name)
	}

	setting := &entity.Setting{
		Name:        name,
		Description: input.Description,
		Value:       input.Value,
	}
	if err := u.settingRepo.Create(ctx, setting); err != nil {
		return nil, err
	}

	return toSettingOutput(setting), nil
}

func (u *settingUsecase) GetByID(ctx context.Context, id uint) (*SettingOutput, error) {
	setting, err := u.settingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, ErrSettingNotFound
	}

	return toSettingOutput(setting), nil
}

func (u *settingUsecase) List(ctx context.Context, limit, offset int) (*SettingListOutput, error) {
	limit = clampLimit(limit)

	settings, total, err := u.settingRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	outputs := make([]*SettingOutput, len(settings))
	for i, s := range settings {
		outputs[i] = toSettingOutput(s)
	}

	return &SettingListOutput{
		Settings: outputs,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
		HasMore:  hasMore(offset, limit, total),
	}, nil
}

func (u *settingUsecase) Update(ctx context.Context, id uint, input *UpdateSettingInput) (*SettingOutput, error) {
	setting, err := u.settingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, ErrSettingNotFound
	}

	if input.Value != nil {
		if err := validateSettingValue(setting.Name, *input.Value); err != nil {
			return nil, err
		}
		setting.Value = *input.Value
	}
	if input.Description != nil {
		setting.Description = input.Description
	}

	if err := u.settingRepo.Update(ctx, setting); err != nil {
		return nil, err
	}

	return toSettingOutput(setting), nil
}

func (u *settingUsecase) Delete(ctx context.Context, id uint) error {
	setting, err := u.settingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if setting == nil {
		return ErrSettingNotFound
	}

	return u.settingRepo.Delete(ctx, id)
}

// validateSettingValue rejects threshold values the evaluator could not use
func validateSettingValue(name, value string) error {
	if !entity.IsThresholdKey(name) {
		return nil
	}
	if _, err := entity.ParseThreshold(value); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidThreshold, err)
	}
	return nil
}

func toSettingOutput(s *entity.Setting) *SettingOutput {
	return &SettingOutput{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Value:       s.Value,
		UpdatedAt:   s.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
