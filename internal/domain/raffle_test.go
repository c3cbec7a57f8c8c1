package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/internal/model"
	"github.com/thefund-gallery/backend/internal/repository"
	"github.com/thefund-gallery/backend/pkg/errorx"
	"github.com/thefund-gallery/backend/pkg/paypal"
	"github.com/thefund-gallery/backend/pkg/testutil"
	"github.com/thefund-gallery/backend/pkg/xcontext"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRaffleDomainForTest(paypalClient paypal.Client, mailer *testutil.MockMailer) *raffleDomain {
	return NewRaffleDomain(
		repository.NewRaffleRepository(),
		repository.NewArtworkRepository(),
		repository.NewArtistRepository(),
		repository.NewTicketRepository(),
		repository.NewFreeEntryRepository(),
		repository.NewTransactionRepository(),
		repository.NewUserRepository(),
		repository.NewSettingRepository(),
		paypalClient,
		mailer,
	)
}

func Test_raffleDomain_GetStatus(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newRaffleDomainForTest(&testutil.MockPayPalClient{}, &testutil.MockMailer{})

	resp, err := domain.GetStatus(ctx, &model.GetRaffleStatusRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.Raffle1.ID, resp.Raffle.ID)
	require.Equal(t, "25.00", resp.Raffle.TicketPrice)
	require.Equal(t, testutil.Artwork1.Title, resp.Artwork.Title)
	require.Equal(t, testutil.Artist1.Name, resp.Artist.Name)
	require.True(t, resp.FreeEntryEnabled)
	require.False(t, resp.ThresholdMet)
	require.Nil(t, resp.TicketsRemaining)
}

func Test_raffleDomain_FreeEnter(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	mailer := &testutil.MockMailer{}
	domain := newRaffleDomainForTest(&testutil.MockPayPalClient{}, mailer)

	_, err := domain.FreeEnter(ctx, &model.FreeEnterRequest{Email: "Entrant@Example.com"})
	require.NoError(t, err)
	require.Len(t, mailer.Sent, 1)
	require.Equal(t, "entrant@example.com", mailer.Sent[0].To)

	// Same address with different casing counts as a duplicate.
	_, err = domain.FreeEnter(ctx, &model.FreeEnterRequest{Email: "entrant@example.COM"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)

	var count int64
	tx := xcontext.DB(ctx).Model(&entity.FreeRaffleEntry{}).
		Where("raffle_id=?", testutil.Raffle1.ID).Count(&count)
	require.NoError(t, tx.Error)
	require.Equal(t, int64(1), count)
}

func Test_raffleDomain_FreeEnter_afterInvalidation(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newRaffleDomainForTest(&testutil.MockPayPalClient{}, &testutil.MockMailer{})
	freeEntryRepo := repository.NewFreeEntryRepository()

	_, err := domain.FreeEnter(ctx, &model.FreeEnterRequest{Email: "entrant@example.com"})
	require.NoError(t, err)

	entry, err := freeEntryRepo.GetValidByRaffleAndEmail(
		ctx, testutil.Raffle1.ID, "entrant@example.com")
	require.NoError(t, err)
	require.NoError(t, freeEntryRepo.CheckAndInvalidate(ctx, entry.ID))

	// Only live entries are guarded, so the email can enter again.
	_, err = domain.FreeEnter(ctx, &model.FreeEnterRequest{Email: "entrant@example.com"})
	require.NoError(t, err)

	valid, err := freeEntryRepo.GetValidByRaffleID(ctx, testutil.Raffle1.ID)
	require.NoError(t, err)
	require.Len(t, valid, 1)

	var count int64
	tx := xcontext.DB(ctx).Model(&entity.FreeRaffleEntry{}).
		Where("raffle_id=?", testutil.Raffle1.ID).Count(&count)
	require.NoError(t, tx.Error)
	require.Equal(t, int64(2), count)

	// Invalidation is a one-way transition.
	require.ErrorIs(t, freeEntryRepo.CheckAndInvalidate(ctx, entry.ID), gorm.ErrRecordNotFound)
}

func Test_raffleDomain_FreeEnter_disabled(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newRaffleDomainForTest(&testutil.MockPayPalClient{}, &testutil.MockMailer{})

	err := repository.NewSettingRepository().Upsert(ctx, &entity.Setting{
		Base:  entity.Base{ID: "setting1"},
		Key:   entity.SettingFreeEntryEnabled,
		Value: "false",
	})
	require.NoError(t, err)

	_, err = domain.FreeEnter(ctx, &model.FreeEnterRequest{Email: "entrant@example.com"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unavailable, errx.Code)
}

func Test_raffleDomain_RecordPurchase(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newRaffleDomainForTest(
		&testutil.MockPayPalClient{Order: testutil.CompletedOrder("75.00", "")},
		&testutil.MockMailer{},
	)

	resp, err := domain.RecordPurchase(ctx, &model.RecordPurchaseRequest{
		ProviderOrderID: "ORDER-1",
		TicketCount:     3,
	})
	require.NoError(t, err)
	require.Equal(t, "75.00", resp.AmountPaid)
	require.Len(t, resp.Tickets, 3)
	require.Equal(t, int64(1), resp.Tickets[0].TicketNumber)
	require.Equal(t, int64(3), resp.Tickets[2].TicketNumber)

	var raffle entity.Raffle
	tx := xcontext.DB(ctx).Take(&raffle, "id=?", testutil.Raffle1.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, 3, raffle.TicketsSold)
	require.True(t, raffle.TotalRevenue.Equal(decimal.RequireFromString("75.00")))
}

func Test_raffleDomain_RecordPurchase_idempotent(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newRaffleDomainForTest(
		&testutil.MockPayPalClient{Order: testutil.CompletedOrder("25.00", "")},
		&testutil.MockMailer{},
	)

	first, err := domain.RecordPurchase(ctx, &model.RecordPurchaseRequest{
		ProviderOrderID: "ORDER-2",
		TicketCount:     1,
	})
	require.NoError(t, err)

	// Replaying the capture returns the original tickets without crediting.
	second, err := domain.RecordPurchase(ctx, &model.RecordPurchaseRequest{
		ProviderOrderID: "ORDER-2",
		TicketCount:     1,
	})
	require.NoError(t, err)
	require.Equal(t, first.TransactionID, second.TransactionID)
	require.Equal(t, first.Tickets, second.Tickets)

	var raffle entity.Raffle
	tx := xcontext.DB(ctx).Take(&raffle, "id=?", testutil.Raffle1.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, 1, raffle.TicketsSold)
}

func Test_raffleDomain_RecordPurchase_amountMismatch(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newRaffleDomainForTest(
		&testutil.MockPayPalClient{Order: testutil.CompletedOrder("50.00", "")},
		&testutil.MockMailer{},
	)

	_, err := domain.RecordPurchase(ctx, &model.RecordPurchaseRequest{
		ProviderOrderID: "ORDER-3",
		TicketCount:     3,
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.UpstreamFailure, errx.Code)

	var count int64
	tx := xcontext.DB(ctx).Model(&entity.Ticket{}).Count(&count)
	require.NoError(t, tx.Error)
	require.Equal(t, int64(0), count)
}

func Test_raffleDomain_RecordPurchase_soldOut(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	raffleRepo := repository.NewRaffleRepository()
	require.NoError(t, raffleRepo.UpdateByID(ctx, testutil.Raffle1.ID, map[string]any{
		"max_tickets": 3,
	}))

	domain := newRaffleDomainForTest(
		&testutil.MockPayPalClient{Order: testutil.CompletedOrder("50.00", "")},
		&testutil.MockMailer{},
	)

	_, err := domain.RecordPurchase(ctx, &model.RecordPurchaseRequest{
		ProviderOrderID: "ORDER-4",
		TicketCount:     2,
	})
	require.NoError(t, err)

	// Only one slot left, a two-ticket order must not partially fill it.
	_, err = domain.RecordPurchase(ctx, &model.RecordPurchaseRequest{
		ProviderOrderID: "ORDER-5",
		TicketCount:     2,
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unavailable, errx.Code)

	// The exact last slot still sells.
	domain = newRaffleDomainForTest(
		&testutil.MockPayPalClient{Order: testutil.CompletedOrder("25.00", "")},
		&testutil.MockMailer{},
	)
	resp, err := domain.RecordPurchase(ctx, &model.RecordPurchaseRequest{
		ProviderOrderID: "ORDER-6",
		TicketCount:     1,
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), resp.Tickets[0].TicketNumber)
}

func Test_raffleDomain_RecordPurchase_guest(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newRaffleDomainForTest(
		&testutil.MockPayPalClient{Order: testutil.CompletedOrder("25.00", "guest@example.com")},
		&testutil.MockMailer{},
	)

	resp, err := domain.RecordPurchase(ctx, &model.RecordPurchaseRequest{
		ProviderOrderID: "ORDER-7",
		TicketCount:     1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Tickets, 1)

	var guest entity.User
	tx := xcontext.DB(ctx).Take(&guest, "email=?", "guest@example.com")
	require.NoError(t, tx.Error)
	require.Empty(t, guest.PasswordHash)
}
