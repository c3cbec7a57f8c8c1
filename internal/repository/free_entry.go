package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type FreeEntryRepository interface {
	Create(ctx context.Context, entry *entity.FreeRaffleEntry) error
	GetValidByRaffleID(ctx context.Context, raffleID string) ([]entity.FreeRaffleEntry, error)
	GetValidByRaffleAndEmail(ctx context.Context, raffleID, email string) (*entity.FreeRaffleEntry, error)
	CheckAndInvalidate(ctx context.Context, id string) error
}

type freeEntryRepository struct{}

func NewFreeEntryRepository() *freeEntryRepository {
	return &freeEntryRepository{}
}

func (r *freeEntryRepository) Create(ctx context.Context, entry *entity.FreeRaffleEntry) error {
	entry.Email = strings.ToLower(entry.Email)
	entry.ValidFlag = sql.NullInt16{Int16: 1, Valid: true}
	return xcontext.DB(ctx).Create(entry).Error
}

func (r *freeEntryRepository) GetValidByRaffleID(
	ctx context.Context, raffleID string,
) ([]entity.FreeRaffleEntry, error) {
	var result []entity.FreeRaffleEntry
	err := xcontext.DB(ctx).Where("raffle_id=? AND status=?", raffleID, entity.FreeEntryValid).
		Order("created_at ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// CheckAndInvalidate retires a valid entry and clears its slot in the unique
// index, so the email is free to enter the raffle again.
func (r *freeEntryRepository) CheckAndInvalidate(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Model(&entity.FreeRaffleEntry{}).
		Where("id=? AND status=?", id, entity.FreeEntryValid).
		Updates(map[string]any{
			"status":     entity.FreeEntryInvalidated,
			"valid_flag": nil,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *freeEntryRepository) GetValidByRaffleAndEmail(
	ctx context.Context, raffleID, email string,
) (*entity.FreeRaffleEntry, error) {
	var result entity.FreeRaffleEntry
	err := xcontext.DB(ctx).
		Take(&result, "raffle_id=? AND email=? AND status=?",
			raffleID, strings.ToLower(email), entity.FreeEntryValid).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}
