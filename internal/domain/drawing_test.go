package domain

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/internal/model"
	"github.com/thefund-gallery/backend/internal/repository"
	"github.com/thefund-gallery/backend/pkg/errorx"
	"github.com/thefund-gallery/backend/pkg/testutil"
	"github.com/thefund-gallery/backend/pkg/xcontext"

	"github.com/stretchr/testify/require"
)

func newDrawingDomainForTest(mailer *testutil.MockMailer) *drawingDomain {
	return NewDrawingDomain(
		repository.NewRaffleRepository(),
		repository.NewArtworkRepository(),
		repository.NewTicketRepository(),
		repository.NewFreeEntryRepository(),
		repository.NewTransactionRepository(),
		repository.NewUserRepository(),
		mailer,
	)
}

// insertEndedRaffle creates an active raffle whose end date has passed, with
// the given number of sold tickets held by User1.
func insertEndedRaffle(t *testing.T, ctx context.Context, ticketsSold int) *entity.Raffle {
	t.Helper()

	raffle := &entity.Raffle{
		Base:                    entity.Base{ID: uuid.NewString()},
		ArtworkID:               testutil.Artwork1.ID,
		Title:                   "Ended Raffle",
		TicketPrice:             decimal.RequireFromString("25.00"),
		MinimumThresholdTickets: 3,
		CashPrizePercent:        40,
		ArtistSharePercent:      50,
		Status:                  entity.RaffleActive,
		StartDate:               time.Now().Add(-48 * time.Hour),
		EndDate:                 time.Now().Add(-time.Hour),
		TicketsSold:             ticketsSold,
		TotalRevenue: decimal.RequireFromString("25.00").
			Mul(decimal.NewFromInt(int64(ticketsSold))),
	}

	require.NoError(t, repository.NewRaffleRepository().Create(ctx, raffle))

	ticketRepo := repository.NewTicketRepository()
	for i := 1; i <= ticketsSold; i++ {
		require.NoError(t, ticketRepo.Create(ctx, &entity.Ticket{
			Base:         entity.Base{ID: uuid.NewString()},
			RaffleID:     raffle.ID,
			UserID:       testutil.User1.ID,
			TicketNumber: i,
			Status:       entity.TicketActive,
		}))
	}

	return raffle
}

func Test_drawingDomain_Draw_thresholdBoundary(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	mailer := &testutil.MockMailer{}
	domain := newDrawingDomainForTest(mailer)

	// Exactly at the threshold, the artwork is awarded.
	raffle := insertEndedRaffle(t, ctx, 3)

	resp, err := domain.Draw(ctx, &model.DrawRaffleRequest{RaffleID: raffle.ID})
	require.NoError(t, err)
	require.Equal(t, string(entity.OutcomeArtworkAwarded), resp.Summary.OutcomeType)
	require.True(t, resp.Summary.ThresholdMet)
	require.Equal(t, int64(3), resp.Summary.TicketsSold)
	require.Equal(t, int64(3), resp.Summary.TotalPool)

	// The artist gets their share of the 75.00 revenue on an award.
	require.Equal(t, "37.50", resp.Summary.PrizeAmount)

	var ledger entity.Transaction
	tx := xcontext.DB(ctx).Take(&ledger, "raffle_id=? AND type=?",
		raffle.ID, entity.TransactionArtworkAward)
	require.NoError(t, tx.Error)
	require.True(t, ledger.Amount.Equal(decimal.RequireFromString("37.50")))

	var artwork entity.Artwork
	tx = xcontext.DB(ctx).Take(&artwork, "id=?", testutil.Artwork1.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, entity.ArtworkSold, artwork.Status)

	var stored entity.Raffle
	tx = xcontext.DB(ctx).Take(&stored, "id=?", raffle.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, entity.RaffleCompleted, stored.Status)
	require.Equal(t, testutil.User1.ID, stored.WinnerUserID.String)

	require.Len(t, mailer.Sent, 1)
	require.Equal(t, testutil.User1.Email, mailer.Sent[0].To)
}

func Test_drawingDomain_Draw_belowThreshold(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newDrawingDomainForTest(&testutil.MockMailer{})

	raffle := insertEndedRaffle(t, ctx, 2)

	resp, err := domain.Draw(ctx, &model.DrawRaffleRequest{RaffleID: raffle.ID})
	require.NoError(t, err)
	require.Equal(t, string(entity.OutcomeCashPrizeAwarded), resp.Summary.OutcomeType)
	require.False(t, resp.Summary.ThresholdMet)

	// 40% of the 50.00 revenue.
	require.Equal(t, "20.00", resp.Summary.PrizeAmount)

	var ledger entity.Transaction
	tx := xcontext.DB(ctx).Take(&ledger, "raffle_id=? AND type=?",
		raffle.ID, entity.TransactionCashPrize)
	require.NoError(t, tx.Error)
	require.True(t, ledger.Amount.Equal(decimal.RequireFromString("20.00")))
	require.EqualValues(t, 2, ledger.Metadata["tickets_sold"])

	// The artwork stays with the gallery.
	var artwork entity.Artwork
	tx = xcontext.DB(ctx).Take(&artwork, "id=?", testutil.Artwork1.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, entity.ArtworkInRaffle, artwork.Status)
}

func Test_drawingDomain_Draw_freeEntryPool(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newDrawingDomainForTest(&testutil.MockMailer{})

	raffle := insertEndedRaffle(t, ctx, 0)
	require.NoError(t, repository.NewFreeEntryRepository().Create(ctx, &entity.FreeRaffleEntry{
		Base:     entity.Base{ID: uuid.NewString()},
		RaffleID: raffle.ID,
		Email:    "lucky@example.com",
		Status:   entity.FreeEntryValid,
	}))

	resp, err := domain.Draw(ctx, &model.DrawRaffleRequest{RaffleID: raffle.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Summary.TotalPool)
	require.Equal(t, int64(1), resp.Summary.FreeEntries)
	require.Equal(t, "l***y@example.com", resp.Summary.WinnerDisplay)

	// No account exists for the email, the raffle keeps it directly.
	var stored entity.Raffle
	tx := xcontext.DB(ctx).Take(&stored, "id=?", raffle.ID)
	require.NoError(t, tx.Error)
	require.False(t, stored.WinnerUserID.Valid)
	require.Equal(t, "lucky@example.com", stored.WinnerEmail.String)
}

func Test_drawingDomain_Draw_noEntries(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newDrawingDomainForTest(&testutil.MockMailer{})

	raffle := insertEndedRaffle(t, ctx, 0)

	_, err := domain.Draw(ctx, &model.DrawRaffleRequest{RaffleID: raffle.ID})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.RaffleNoEntries, errx.Code)
}

func Test_drawingDomain_Draw_notEnded(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newDrawingDomainForTest(&testutil.MockMailer{})

	_, err := domain.Draw(ctx, &model.DrawRaffleRequest{RaffleID: testutil.Raffle1.ID})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unavailable, errx.Code)
}

func Test_drawingDomain_Draw_onlyOnce(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newDrawingDomainForTest(&testutil.MockMailer{})

	raffle := insertEndedRaffle(t, ctx, 3)

	_, err := domain.Draw(ctx, &model.DrawRaffleRequest{RaffleID: raffle.ID})
	require.NoError(t, err)

	_, err = domain.Draw(ctx, &model.DrawRaffleRequest{RaffleID: raffle.ID})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.RaffleAlreadyDrawn, errx.Code)

	var count int64
	tx := xcontext.DB(ctx).Model(&entity.Transaction{}).
		Where("raffle_id=?", raffle.ID).Count(&count)
	require.NoError(t, tx.Error)
	require.Equal(t, int64(1), count)
}

func Test_raffleDomain_GetOutcomeSummary(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	drawing := newDrawingDomainForTest(&testutil.MockMailer{})
	raffles := newRaffleDomainForTest(&testutil.MockPayPalClient{}, &testutil.MockMailer{})

	raffle := insertEndedRaffle(t, ctx, 2)

	// Before the draw there is nothing to report.
	_, err := raffles.GetOutcomeSummary(ctx, &model.GetOutcomeSummaryRequest{RaffleID: raffle.ID})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)

	drawn, err := drawing.Draw(ctx, &model.DrawRaffleRequest{RaffleID: raffle.ID})
	require.NoError(t, err)

	resp, err := raffles.GetOutcomeSummary(ctx, &model.GetOutcomeSummaryRequest{RaffleID: raffle.ID})
	require.NoError(t, err)
	require.Equal(t, drawn.Summary.OutcomeType, resp.Summary.OutcomeType)
	require.Equal(t, drawn.Summary.PrizeAmount, resp.Summary.PrizeAmount)
	require.Equal(t, drawn.Summary.TotalPool, resp.Summary.TotalPool)
	require.Equal(t, drawn.Summary.WinnerDisplay, resp.Summary.WinnerDisplay)

	// Without an id the latest drawn raffle is used.
	latest, err := raffles.GetOutcomeSummary(ctx, &model.GetOutcomeSummaryRequest{})
	require.NoError(t, err)
	require.Equal(t, raffle.ID, latest.Summary.RaffleID)
}
