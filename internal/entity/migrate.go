package entity

import (
	"context"

	"github.com/thefund-gallery/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Artist{},
		&Artwork{},
		&Raffle{},
		&Ticket{},
		&FreeRaffleEntry{},
		&RememberToken{},
		&AdminSession{},
		&Transaction{},
		&Setting{},
	)
}
