package repository

import (
	"context"

	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	Upsert(ctx context.Context, setting *entity.Setting) error
	GetByKey(ctx context.Context, key string) (*entity.Setting, error)
	GetAll(ctx context.Context) ([]entity.Setting, error)
}

type settingRepository struct{}

func NewSettingRepository() *settingRepository {
	return &settingRepository{}
}

func (r *settingRepository) Upsert(ctx context.Context, setting *entity.Setting) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "description", "updated_at"}),
	}).Create(setting).Error
}

func (r *settingRepository) GetByKey(ctx context.Context, key string) (*entity.Setting, error) {
	var result entity.Setting
	if err := xcontext.DB(ctx).Take(&result, "key=?", key).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *settingRepository) GetAll(ctx context.Context) ([]entity.Setting, error) {
	var result []entity.Setting
	if err := xcontext.DB(ctx).Order("key ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
