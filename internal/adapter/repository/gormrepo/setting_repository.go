package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/MolodoyDEV/diploma/internal/domain/entity"
	"github.com/MolodoyDEV/diploma/internal/domain/repository"
)

type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *gorm.DB) repository.SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) Create(ctx context.Context, setting *entity.Setting) error {
	return r.db.WithContext(ctx).Create(setting).Error
}

func (r *settingRepository) GetByID(ctx context.Context, id uint) (*entity.Setting, error) {
	var setting entity.Setting
	err := r.db.WithContext(ctx).First(&setting, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepository) GetByName(ctx context.Context, name string) (*entity.Setting, error) {
	var setting entity.Setting
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepository) List(ctx context.Context, limit, offset int) ([]*entity.Setting, int64, error) {
	var settings []*entity.Setting
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.Setting{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&settings).Error
	if err != nil {
		return nil, 0, err
	}

	return settings, total, nil
}

func (r *settingRepository) ListThresholds(ctx context.Context) ([]*entity.Setting, error) {
	var candidates []*entity.Setting
	// "_" is a LIKE wildcard; the exact suffix is checked below.
	err := r.db.WithContext(ctx).
		Where("name LIKE ?", "%"+entity.ThresholdSuffix).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	settings := candidates[:0]
	for _, s := range candidates {
		if s.IsThreshold() {
			settings = append(settings, s)
		}
	}
	return settings, nil
}

func (r *settingRepository) Update(ctx context.Context, setting *entity.Setting) error {
	return r.db.WithContext(ctx).Save(setting).Error
}

func (r *settingRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Setting{}, id).Error
}
