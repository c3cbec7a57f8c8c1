package entity

import (
	"database/sql"

	"github.com/thefund-gallery/backend/pkg/enum"
)

type FreeEntryStatus string

var (
	FreeEntryValid       = enum.New(FreeEntryStatus("valid"))
	FreeEntryInvalidated = enum.New(FreeEntryStatus("invalidated"))
)

// FreeRaffleEntry is a no-purchase entry. The unique index over
// (raffle_id, email, valid_flag) is the authoritative dedup guard; the domain
// pre-check only exists for a friendlier error message.
type FreeRaffleEntry struct {
	Base

	RaffleID string `gorm:"uniqueIndex:idx_free_entries_raffle_email"`
	Raffle   Raffle `gorm:"foreignKey:RaffleID"`

	// Email is stored lower-cased.
	Email  string          `gorm:"uniqueIndex:idx_free_entries_raffle_email"`
	Status FreeEntryStatus `gorm:"default:valid"`

	// ValidFlag is 1 while the entry is valid and NULL once invalidated.
	// NULLs never collide in a unique index, so only live entries are
	// guarded and an invalidated email can enter the raffle again.
	ValidFlag sql.NullInt16 `gorm:"uniqueIndex:idx_free_entries_raffle_email"`
}
