package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/internal/repository"
	"github.com/thefund-gallery/backend/pkg/crypto"
)

// Password is the plain text behind every fixture user's password hash.
const Password = "Password1"

var (
	User1 = &entity.User{
		Base:         entity.Base{ID: "user1"},
		Email:        "alice@example.com",
		PasswordHash: mustHashPassword(Password),
		Name:         "Alice Doe",
		Phone:        "+15551230001",
		CountryCode:  "1",
		Role:         entity.RoleUser,
	}

	User2 = &entity.User{
		Base:         entity.Base{ID: "user2"},
		Email:        "bob@example.com",
		PasswordHash: mustHashPassword(Password),
		Name:         "Bob Roe",
		Phone:        "+15551230002",
		CountryCode:  "1",
		Role:         entity.RoleUser,
	}

	Admin1 = &entity.User{
		Base:         entity.Base{ID: "admin1"},
		Email:        "admin@thefund.gallery",
		PasswordHash: mustHashPassword(Password),
		Name:         "Gallery Admin",
		Phone:        "+15551230003",
		CountryCode:  "1",
		Role:         entity.RoleAdmin,
	}

	Artist1 = &entity.Artist{
		Base: entity.Base{ID: "artist1"},
		Name: "Mira Voss",
		Bio:  "Contemporary painter.",
	}

	Artwork1 = &entity.Artwork{
		Base:     entity.Base{ID: "artwork1"},
		ArtistID: "artist1",
		Title:    "Evening Tide",
		Status:   entity.ArtworkInRaffle,
	}

	// Raffle1 is the running raffle most tests operate on.
	Raffle1 = &entity.Raffle{
		Base:                    entity.Base{ID: "raffle1"},
		ArtworkID:               "artwork1",
		Title:                   "Evening Tide Raffle",
		TicketPrice:             decimal.RequireFromString("25.00"),
		MinimumThresholdTickets: 3,
		CashPrizePercent:        40,
		ArtistSharePercent:      50,
		Status:                  entity.RaffleActive,
		StartDate:               time.Now().Add(-24 * time.Hour),
		EndDate:                 time.Now().Add(24 * time.Hour),
		TotalRevenue:            decimal.Zero,
	}

	// Raffle2 has not started yet, for configuration guard tests.
	Raffle2 = &entity.Raffle{
		Base:                    entity.Base{ID: "raffle2"},
		ArtworkID:               "artwork1",
		Title:                   "Upcoming Raffle",
		TicketPrice:             decimal.RequireFromString("10.00"),
		MinimumThresholdTickets: 2,
		CashPrizePercent:        40,
		ArtistSharePercent:      50,
		Status:                  entity.RaffleScheduled,
		StartDate:               time.Now().Add(24 * time.Hour),
		EndDate:                 time.Now().Add(48 * time.Hour),
		TotalRevenue:            decimal.Zero,
	}
)

// CreateFixtureDb inserts the canonical records into the database carried by
// ctx.
func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
	InsertGallery(ctx)
	InsertRaffles(ctx)
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()
	for _, user := range []*entity.User{User1, User2, Admin1} {
		if err := userRepo.Create(ctx, copyUser(user)); err != nil {
			panic(err)
		}
	}
}

func InsertGallery(ctx context.Context) {
	if err := repository.NewArtistRepository().Create(ctx, copyArtist(Artist1)); err != nil {
		panic(err)
	}

	if err := repository.NewArtworkRepository().Create(ctx, copyArtwork(Artwork1)); err != nil {
		panic(err)
	}
}

func InsertRaffles(ctx context.Context) {
	raffleRepo := repository.NewRaffleRepository()
	for _, raffle := range []*entity.Raffle{Raffle1, Raffle2} {
		if err := raffleRepo.Create(ctx, copyRaffle(raffle)); err != nil {
			panic(err)
		}
	}
}

// The fixtures are package-level values shared between tests, so inserts work
// on copies to keep gorm from writing timestamps back into them.
func copyUser(u *entity.User) *entity.User {
	clone := *u
	return &clone
}

func copyArtist(a *entity.Artist) *entity.Artist {
	clone := *a
	return &clone
}

func copyArtwork(a *entity.Artwork) *entity.Artwork {
	clone := *a
	return &clone
}

func copyRaffle(r *entity.Raffle) *entity.Raffle {
	clone := *r
	clone.MaxTickets = sql.NullInt64{Int64: r.MaxTickets.Int64, Valid: r.MaxTickets.Valid}
	return &clone
}

func mustHashPassword(password string) string {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		panic(err)
	}

	return hash
}
