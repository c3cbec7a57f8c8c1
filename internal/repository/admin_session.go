package repository

import (
	"context"

	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/pkg/xcontext"
)

type AdminSessionRepository interface {
	Create(ctx context.Context, session *entity.AdminSession) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*entity.AdminSession, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

type adminSessionRepository struct{}

func NewAdminSessionRepository() *adminSessionRepository {
	return &adminSessionRepository{}
}

func (r *adminSessionRepository) Create(ctx context.Context, session *entity.AdminSession) error {
	return xcontext.DB(ctx).Create(session).Error
}

func (r *adminSessionRepository) GetByTokenHash(
	ctx context.Context, tokenHash string,
) (*entity.AdminSession, error) {
	var result entity.AdminSession
	if err := xcontext.DB(ctx).Take(&result, "token_hash=?", tokenHash).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *adminSessionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Delete(&entity.AdminSession{}, "user_id=?", userID).Error
}
