package entity

import "github.com/thefund-gallery/backend/pkg/enum"

type TicketStatus string

var (
	TicketActive    = enum.New(TicketStatus("active"))
	TicketRefunded  = enum.New(TicketStatus("refunded"))
	TicketCancelled = enum.New(TicketStatus("cancelled"))
)

// Ticket is one paid raffle entry. Rows are never deleted; a refund only
// flips the status.
type Ticket struct {
	Base

	RaffleID string `gorm:"uniqueIndex:idx_tickets_raffle_number"`
	Raffle   Raffle `gorm:"foreignKey:RaffleID"`

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	TicketNumber    int `gorm:"uniqueIndex:idx_tickets_raffle_number"`
	ProviderOrderID string
	Status          TicketStatus `gorm:"default:active"`
}
