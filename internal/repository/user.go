package repository

import (
	"context"
	"strings"

	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/pkg/xcontext"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateByID(ctx context.Context, id string, updates map[string]any) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return xcontext.DB(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var result entity.User
	err := xcontext.DB(ctx).Take(&result, "email=?", strings.ToLower(email)).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) UpdateByID(ctx context.Context, id string, updates map[string]any) error {
	return xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Updates(updates).Error
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := xcontext.DB(ctx).Model(&entity.User{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
