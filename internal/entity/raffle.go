package entity

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thefund-gallery/backend/pkg/enum"
)

type RaffleStatus string

var (
	RaffleScheduled = enum.New(RaffleStatus("scheduled"))
	RaffleUpcoming  = enum.New(RaffleStatus("upcoming"))
	RaffleActive    = enum.New(RaffleStatus("active"))
	RaffleCompleted = enum.New(RaffleStatus("completed"))
)

type OutcomeType string

var (
	OutcomeArtworkAwarded   = enum.New(OutcomeType("ARTWORK_AWARDED"))
	OutcomeCashPrizeAwarded = enum.New(OutcomeType("CASH_PRIZE_AWARDED"))
)

type Raffle struct {
	Base

	ArtworkID string
	Artwork   Artwork `gorm:"foreignKey:ArtworkID"`

	Title       string
	Description string

	TicketPrice             decimal.Decimal `gorm:"type:decimal(12,2)"`
	MaxTickets              sql.NullInt64
	MinimumThresholdTickets int
	CashPrizePercent        int
	ArtistSharePercent      int

	Status    RaffleStatus `gorm:"default:scheduled"`
	StartDate time.Time
	EndDate   time.Time

	// Denormalized counters, only ever written through conditional updates
	// inside the same transaction that creates tickets.
	TicketsSold  int
	TotalRevenue decimal.Decimal `gorm:"type:decimal(14,2);default:0"`

	WinnerUserID sql.NullString
	WinnerUser   User `gorm:"foreignKey:WinnerUserID"`

	// WinnerEmail keeps the winning free entry reachable when no account
	// exists for its email.
	WinnerEmail  sql.NullString
	ThresholdMet sql.NullBool
	OutcomeType  sql.NullString
	OutcomeAt    sql.NullTime
	DrawingDate  sql.NullTime
}

// HasStarted reports whether the immutability gate of the configuration
// guard is closed.
func (r *Raffle) HasStarted(now time.Time) bool {
	return r.Status == RaffleActive || !now.Before(r.StartDate)
}

// Outcome returns the typed outcome, or false if the raffle was not drawn.
func (r *Raffle) Outcome() (OutcomeType, bool) {
	if !r.OutcomeType.Valid {
		return "", false
	}

	outcome, err := enum.ToEnum[OutcomeType](r.OutcomeType.String)
	if err != nil {
		return "", false
	}

	return outcome, true
}
