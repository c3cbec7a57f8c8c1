package repository

import (
	"context"
	"time"

	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RememberTokenRepository interface {
	Create(ctx context.Context, token *entity.RememberToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*entity.RememberToken, error)
	Rotate(ctx context.Context, oldHash, newHash string, expiration time.Time) error
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

type rememberTokenRepository struct{}

func NewRememberTokenRepository() *rememberTokenRepository {
	return &rememberTokenRepository{}
}

func (r *rememberTokenRepository) Create(ctx context.Context, token *entity.RememberToken) error {
	return xcontext.DB(ctx).Create(token).Error
}

func (r *rememberTokenRepository) GetByTokenHash(
	ctx context.Context, tokenHash string,
) (*entity.RememberToken, error) {
	var result entity.RememberToken
	if err := xcontext.DB(ctx).Take(&result, "token_hash=?", tokenHash).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// Rotate replaces the presented token with a fresh one in a single
// conditional update, so a replayed old token no longer matches a row.
func (r *rememberTokenRepository) Rotate(
	ctx context.Context, oldHash, newHash string, expiration time.Time,
) error {
	tx := xcontext.DB(ctx).Model(&entity.RememberToken{}).
		Where("token_hash=?", oldHash).
		Updates(map[string]any{
			"token_hash": newHash,
			"expiration": expiration,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *rememberTokenRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	return xcontext.DB(ctx).Delete(&entity.RememberToken{}, "token_hash=?", tokenHash).Error
}

func (r *rememberTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Delete(&entity.RememberToken{}, "user_id=?", userID).Error
}
