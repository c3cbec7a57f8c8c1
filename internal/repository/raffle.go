package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RaffleRepository interface {
	Create(ctx context.Context, raffle *entity.Raffle) error
	GetByID(ctx context.Context, id string) (*entity.Raffle, error)
	GetCurrent(ctx context.Context) (*entity.Raffle, error)
	GetLatestDrawn(ctx context.Context) (*entity.Raffle, error)
	GetList(ctx context.Context) ([]entity.Raffle, error)
	UpdateByID(ctx context.Context, id string, updates map[string]any) error
	DeleteByID(ctx context.Context, id string) error
	CheckAndActivate(ctx context.Context, id string) error
	CheckAndIncrementSold(ctx context.Context, id string, count int, amount decimal.Decimal) error
	CheckAndSetOutcome(ctx context.Context, id string, updates map[string]any) error
}

type raffleRepository struct{}

func NewRaffleRepository() *raffleRepository {
	return &raffleRepository{}
}

func (r *raffleRepository) Create(ctx context.Context, raffle *entity.Raffle) error {
	return xcontext.DB(ctx).Create(raffle).Error
}

func (r *raffleRepository) GetByID(ctx context.Context, id string) (*entity.Raffle, error) {
	var result entity.Raffle
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *raffleRepository) GetCurrent(ctx context.Context) (*entity.Raffle, error) {
	var result entity.Raffle
	err := xcontext.DB(ctx).Where("status=?", entity.RaffleActive).
		Order("start_date DESC").Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *raffleRepository) GetLatestDrawn(ctx context.Context) (*entity.Raffle, error) {
	var result entity.Raffle
	err := xcontext.DB(ctx).Where("outcome_type IS NOT NULL").
		Order("outcome_at DESC").Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *raffleRepository) GetList(ctx context.Context) ([]entity.Raffle, error) {
	var result []entity.Raffle
	if err := xcontext.DB(ctx).Order("start_date DESC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *raffleRepository) UpdateByID(ctx context.Context, id string, updates map[string]any) error {
	return xcontext.DB(ctx).Model(&entity.Raffle{}).Where("id=?", id).Updates(updates).Error
}

func (r *raffleRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Raffle{}, "id=?", id).Error
}

func (r *raffleRepository) CheckAndActivate(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Model(&entity.Raffle{}).
		Where("id=? AND status=?", id, entity.RaffleScheduled).
		Update("status", entity.RaffleActive)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// CheckAndIncrementSold atomically reserves count tickets and adds the paid
// amount to the revenue counter. The affected-row count tells sold-out apart
// from success, which is what makes the last-slot race safe.
func (r *raffleRepository) CheckAndIncrementSold(
	ctx context.Context, id string, count int, amount decimal.Decimal,
) error {
	tx := xcontext.DB(ctx).Model(&entity.Raffle{}).
		Where("id=? AND status=? AND (max_tickets IS NULL OR tickets_sold + ? <= max_tickets)",
			id, entity.RaffleActive, count).
		Updates(map[string]any{
			"tickets_sold":  gorm.Expr("tickets_sold + ?", count),
			"total_revenue": gorm.Expr("total_revenue + ?", amount),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// CheckAndSetOutcome performs the undrawn-to-drawn transition. Two
// concurrent draws cannot both pass the outcome_type IS NULL condition.
func (r *raffleRepository) CheckAndSetOutcome(
	ctx context.Context, id string, updates map[string]any,
) error {
	tx := xcontext.DB(ctx).Model(&entity.Raffle{}).
		Where("id=? AND outcome_type IS NULL", id).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
