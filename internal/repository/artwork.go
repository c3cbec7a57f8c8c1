package repository

import (
	"context"

	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/pkg/xcontext"
)

type ArtworkRepository interface {
	Create(ctx context.Context, artwork *entity.Artwork) error
	GetByID(ctx context.Context, id string) (*entity.Artwork, error)
	UpdateStatus(ctx context.Context, id string, status entity.ArtworkStatus) error
}

type artworkRepository struct{}

func NewArtworkRepository() *artworkRepository {
	return &artworkRepository{}
}

func (r *artworkRepository) Create(ctx context.Context, artwork *entity.Artwork) error {
	return xcontext.DB(ctx).Create(artwork).Error
}

func (r *artworkRepository) GetByID(ctx context.Context, id string) (*entity.Artwork, error) {
	var result entity.Artwork
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *artworkRepository) UpdateStatus(
	ctx context.Context, id string, status entity.ArtworkStatus,
) error {
	return xcontext.DB(ctx).Model(&entity.Artwork{}).
		Where("id=?", id).Update("status", status).Error
}
