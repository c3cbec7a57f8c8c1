package repository

import (
	"context"

	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/pkg/xcontext"
)

type TransactionRepository interface {
	Create(ctx context.Context, transaction *entity.Transaction) error
	GetByProviderOrderID(ctx context.Context, orderID string) (*entity.Transaction, error)
	GetByRaffleAndType(ctx context.Context, raffleID string, txType entity.TransactionType) ([]entity.Transaction, error)
}

type transactionRepository struct{}

func NewTransactionRepository() *transactionRepository {
	return &transactionRepository{}
}

func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	return xcontext.DB(ctx).Create(transaction).Error
}

func (r *transactionRepository) GetByProviderOrderID(
	ctx context.Context, orderID string,
) (*entity.Transaction, error) {
	var result entity.Transaction
	if err := xcontext.DB(ctx).Take(&result, "provider_order_id=?", orderID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *transactionRepository) GetByRaffleAndType(
	ctx context.Context, raffleID string, txType entity.TransactionType,
) ([]entity.Transaction, error) {
	var result []entity.Transaction
	err := xcontext.DB(ctx).Where("raffle_id=? AND type=?", raffleID, txType).
		Order("created_at ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
