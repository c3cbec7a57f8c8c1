package repository

import (
	"context"

	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/pkg/xcontext"
)

type ArtistRepository interface {
	Create(ctx context.Context, artist *entity.Artist) error
	GetByID(ctx context.Context, id string) (*entity.Artist, error)
}

type artistRepository struct{}

func NewArtistRepository() *artistRepository {
	return &artistRepository{}
}

func (r *artistRepository) Create(ctx context.Context, artist *entity.Artist) error {
	return xcontext.DB(ctx).Create(artist).Error
}

func (r *artistRepository) GetByID(ctx context.Context, id string) (*entity.Artist, error) {
	var result entity.Artist
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}
