package entity

import (
	"database/sql"

	"github.com/shopspring/decimal"
	"github.com/thefund-gallery/backend/pkg/enum"
)

type TransactionType string

var (
	TransactionTicketPurchase = enum.New(TransactionType("ticket_purchase"))
	TransactionArtworkAward   = enum.New(TransactionType("artwork_award"))
	TransactionCashPrize      = enum.New(TransactionType("cash_prize"))
)

type TransactionStatus string

var (
	TransactionPending = enum.New(TransactionStatus("pending"))
	TransactionSuccess = enum.New(TransactionStatus("success"))
	TransactionFailure = enum.New(TransactionStatus("failure"))
)

// Transaction is an immutable ledger row. The unique provider order id makes
// a retried payment capture idempotent.
type Transaction struct {
	Base

	UserID sql.NullString
	User   User `gorm:"foreignKey:UserID"`

	RaffleID sql.NullString
	Raffle   Raffle `gorm:"foreignKey:RaffleID"`

	Type        TransactionType
	Amount      decimal.Decimal `gorm:"type:decimal(14,2)"`
	Status      TransactionStatus
	Description string

	ProviderOrderID sql.NullString `gorm:"uniqueIndex"`
	Metadata        Map
}
