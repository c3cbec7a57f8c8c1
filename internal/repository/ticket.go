package repository

import (
	"context"

	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/pkg/xcontext"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	GetActiveByRaffleID(ctx context.Context, raffleID string) ([]entity.Ticket, error)
	GetByProviderOrderID(ctx context.Context, orderID string) ([]entity.Ticket, error)
}

type ticketRepository struct{}

func NewTicketRepository() *ticketRepository {
	return &ticketRepository{}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	return xcontext.DB(ctx).Create(ticket).Error
}

func (r *ticketRepository) GetActiveByRaffleID(
	ctx context.Context, raffleID string,
) ([]entity.Ticket, error) {
	var result []entity.Ticket
	err := xcontext.DB(ctx).Where("raffle_id=? AND status=?", raffleID, entity.TicketActive).
		Order("ticket_number ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ticketRepository) GetByProviderOrderID(
	ctx context.Context, orderID string,
) ([]entity.Ticket, error) {
	var result []entity.Ticket
	err := xcontext.DB(ctx).Where("provider_order_id=?", orderID).
		Order("ticket_number ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
