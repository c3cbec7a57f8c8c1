package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/internal/model"
	"github.com/thefund-gallery/backend/internal/repository"
	"github.com/thefund-gallery/backend/pkg/errorx"
	"github.com/thefund-gallery/backend/pkg/testutil"
	"github.com/thefund-gallery/backend/pkg/xcontext"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAdminDomainForTest() *adminDomain {
	return NewAdminDomain(
		repository.NewRaffleRepository(),
		repository.NewArtworkRepository(),
		repository.NewSettingRepository(),
	)
}

func ptr[T any](v T) *T {
	return &v
}

func Test_adminDomain_CreateRaffle(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newAdminDomainForTest()

	start := time.Now().Add(time.Hour).Format(time.RFC3339)
	end := time.Now().Add(48 * time.Hour).Format(time.RFC3339)

	resp, err := domain.CreateRaffle(ctx, &model.CreateRaffleRequest{
		ArtworkID:               testutil.Artwork1.ID,
		Title:                   "Winter Raffle",
		TicketPrice:             "30.00",
		MaxTickets:              ptr(int64(100)),
		MinimumThresholdTickets: 10,
		CashPrizePercent:        40,
		ArtistSharePercent:      50,
		StartDate:               start,
		EndDate:                 end,
	})
	require.NoError(t, err)
	require.Equal(t, "scheduled", resp.Raffle.Status)
	require.Equal(t, "30.00", resp.Raffle.TicketPrice)

	var stored entity.Raffle
	tx := xcontext.DB(ctx).Take(&stored, "id=?", resp.Raffle.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, entity.RaffleScheduled, stored.Status)
	require.EqualValues(t, 100, stored.MaxTickets.Int64)
}

func Test_adminDomain_CreateRaffle_invalidConfig(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newAdminDomainForTest()

	start := time.Now().Add(time.Hour).Format(time.RFC3339)
	end := time.Now().Add(48 * time.Hour).Format(time.RFC3339)

	base := model.CreateRaffleRequest{
		ArtworkID:               testutil.Artwork1.ID,
		Title:                   "Broken Raffle",
		TicketPrice:             "30.00",
		MinimumThresholdTickets: 10,
		CashPrizePercent:        40,
		ArtistSharePercent:      50,
		StartDate:               start,
		EndDate:                 end,
	}

	// The threshold cannot exceed the ticket cap.
	req := base
	req.MaxTickets = ptr(int64(5))
	_, err := domain.CreateRaffle(ctx, &req)
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	// The end date must come after the start date.
	req = base
	req.EndDate = start
	_, err = domain.CreateRaffle(ctx, &req)
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	req = base
	req.TicketPrice = "-1.00"
	_, err = domain.CreateRaffle(ctx, &req)
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	req = base
	req.ArtworkID = "no-such-artwork"
	_, err = domain.CreateRaffle(ctx, &req)
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_adminDomain_UpdateRaffle_guard(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newAdminDomainForTest()

	// Raffle1 is running, the economics are frozen.
	_, err := domain.UpdateRaffle(ctx, &model.UpdateRaffleRequest{
		ID:          testutil.Raffle1.ID,
		TicketPrice: ptr("99.00"),
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.RaffleImmutable, errx.Code)
	require.Contains(t, errx.Error(), "ticket_price")

	// Presentation fields stay editable while running.
	resp, err := domain.UpdateRaffle(ctx, &model.UpdateRaffleRequest{
		ID:    testutil.Raffle1.ID,
		Title: ptr("Evening Tide: Final Days"),
	})
	require.NoError(t, err)
	require.Equal(t, "Evening Tide: Final Days", resp.Raffle.Title)

	// A scheduled raffle accepts economic changes.
	resp, err = domain.UpdateRaffle(ctx, &model.UpdateRaffleRequest{
		ID:          testutil.Raffle2.ID,
		TicketPrice: ptr("15.00"),
		MaxTickets:  ptr(int64(50)),
	})
	require.NoError(t, err)
	require.Equal(t, "15.00", resp.Raffle.TicketPrice)

	var stored entity.Raffle
	tx := xcontext.DB(ctx).Take(&stored, "id=?", testutil.Raffle2.ID)
	require.NoError(t, tx.Error)
	require.True(t, stored.TicketPrice.Equal(decimal.RequireFromString("15.00")))
	require.EqualValues(t, 50, stored.MaxTickets.Int64)
}

func Test_adminDomain_ValidateRaffleConfig(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newAdminDomainForTest()

	resp, err := domain.ValidateRaffleConfig(ctx, &model.ValidateRaffleConfigRequest{
		ID:          testutil.Raffle1.ID,
		TicketPrice: ptr("99.00"),
		EndDate:     ptr(time.Now().Add(72 * time.Hour).Format(time.RFC3339)),
	})
	require.NoError(t, err)
	require.False(t, resp.Mutable)
	require.Len(t, resp.Verdicts, 2)
	require.Equal(t, "ticket_price", resp.Verdicts[0].Field)
	require.False(t, resp.Verdicts[0].Allowed)
	require.NotEmpty(t, resp.Verdicts[0].Reason)

	resp, err = domain.ValidateRaffleConfig(ctx, &model.ValidateRaffleConfigRequest{
		ID:          testutil.Raffle2.ID,
		TicketPrice: ptr("99.00"),
	})
	require.NoError(t, err)
	require.True(t, resp.Mutable)
	require.True(t, resp.Verdicts[0].Allowed)
}

func Test_adminDomain_ActivateRaffle(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newAdminDomainForTest()

	resp, err := domain.ActivateRaffle(ctx, &model.ActivateRaffleRequest{ID: testutil.Raffle2.ID})
	require.NoError(t, err)
	require.Equal(t, "active", resp.Raffle.Status)

	var artwork entity.Artwork
	tx := xcontext.DB(ctx).Take(&artwork, "id=?", testutil.Raffle2.ArtworkID)
	require.NoError(t, tx.Error)
	require.Equal(t, entity.ArtworkInRaffle, artwork.Status)

	// Activation is a one-way transition.
	_, err = domain.ActivateRaffle(ctx, &model.ActivateRaffleRequest{ID: testutil.Raffle2.ID})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unavailable, errx.Code)
}

func Test_adminDomain_DeleteRaffle(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newAdminDomainForTest()

	_, err := domain.DeleteRaffle(ctx, &model.DeleteRaffleRequest{ID: testutil.Raffle1.ID})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unavailable, errx.Code)

	_, err = domain.DeleteRaffle(ctx, &model.DeleteRaffleRequest{ID: testutil.Raffle2.ID})
	require.NoError(t, err)

	tx := xcontext.DB(ctx).Take(&entity.Raffle{}, "id=?", testutil.Raffle2.ID)
	require.ErrorIs(t, tx.Error, gorm.ErrRecordNotFound)
}

func Test_adminDomain_Settings(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newAdminDomainForTest()

	_, err := domain.UpsertSetting(ctx, &model.UpsertSettingRequest{
		Key:   "free_entry_enabled",
		Value: "false",
	})
	require.NoError(t, err)

	// Upserting the same key overwrites the value instead of duplicating it.
	resp, err := domain.UpsertSetting(ctx, &model.UpsertSettingRequest{
		Key:         "free_entry_enabled",
		Value:       "true",
		Description: "Accept no-purchase entries",
	})
	require.NoError(t, err)
	require.Equal(t, "true", resp.Setting.Value)

	all, err := domain.GetSettings(ctx, &model.GetSettingsRequest{})
	require.NoError(t, err)
	require.Len(t, all.Settings, 1)
	require.Equal(t, "true", all.Settings[0].Value)
	require.Equal(t, "Accept no-purchase entries", all.Settings[0].Description)

	_, err = domain.UpsertSetting(ctx, &model.UpsertSettingRequest{Value: "x"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}
