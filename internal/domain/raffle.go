package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/thefund-gallery/backend/internal/common"
	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/internal/model"
	"github.com/thefund-gallery/backend/internal/repository"
	"github.com/thefund-gallery/backend/pkg/errorx"
	"github.com/thefund-gallery/backend/pkg/mail"
	"github.com/thefund-gallery/backend/pkg/paypal"
	"github.com/thefund-gallery/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RaffleDomain interface {
	GetStatus(context.Context, *model.GetRaffleStatusRequest) (*model.GetRaffleStatusResponse, error)
	FreeEnter(context.Context, *model.FreeEnterRequest) (*model.FreeEnterResponse, error)
	RecordPurchase(context.Context, *model.RecordPurchaseRequest) (*model.RecordPurchaseResponse, error)
	GetOutcomeSummary(context.Context, *model.GetOutcomeSummaryRequest) (*model.GetOutcomeSummaryResponse, error)
}

type raffleDomain struct {
	raffleRepo      repository.RaffleRepository
	artworkRepo     repository.ArtworkRepository
	artistRepo      repository.ArtistRepository
	ticketRepo      repository.TicketRepository
	freeEntryRepo   repository.FreeEntryRepository
	transactionRepo repository.TransactionRepository
	userRepo        repository.UserRepository
	settingRepo     repository.SettingRepository
	paypalClient    paypal.Client
	mailer          mail.Mailer
}

func NewRaffleDomain(
	raffleRepo repository.RaffleRepository,
	artworkRepo repository.ArtworkRepository,
	artistRepo repository.ArtistRepository,
	ticketRepo repository.TicketRepository,
	freeEntryRepo repository.FreeEntryRepository,
	transactionRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	settingRepo repository.SettingRepository,
	paypalClient paypal.Client,
	mailer mail.Mailer,
) *raffleDomain {
	return &raffleDomain{
		raffleRepo:      raffleRepo,
		artworkRepo:     artworkRepo,
		artistRepo:      artistRepo,
		ticketRepo:      ticketRepo,
		freeEntryRepo:   freeEntryRepo,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		settingRepo:     settingRepo,
		paypalClient:    paypalClient,
		mailer:          mailer,
	}
}

func (d *raffleDomain) GetStatus(
	ctx context.Context, req *model.GetRaffleStatusRequest,
) (*model.GetRaffleStatusResponse, error) {
	raffle, err := d.raffleRepo.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "No active raffle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get current raffle: %v", err)
		return nil, errorx.Unknown
	}

	artwork, err := d.artworkRepo.GetByID(ctx, raffle.ArtworkID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get raffle artwork: %v", err)
		return nil, errorx.Unknown
	}

	artist, err := d.artistRepo.GetByID(ctx, artwork.ArtistID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get artwork artist: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetRaffleStatusResponse{
		Raffle:           model.ConvertRaffle(raffle),
		Artwork:          model.ConvertArtwork(artwork),
		Artist:           model.ConvertArtist(artist),
		FreeEntryEnabled: d.freeEntryEnabled(ctx),
		ThresholdMet:     raffle.TicketsSold >= raffle.MinimumThresholdTickets,
	}

	if raffle.MaxTickets.Valid {
		remaining := raffle.MaxTickets.Int64 - int64(raffle.TicketsSold)
		resp.TicketsRemaining = &remaining
	}

	return resp, nil
}

func (d *raffleDomain) FreeEnter(
	ctx context.Context, req *model.FreeEnterRequest,
) (*model.FreeEnterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := checkEmail(email); err != nil {
		return nil, err
	}

	raffle, err := d.raffleRepo.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "No active raffle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get current raffle: %v", err)
		return nil, errorx.Unknown
	}

	if !d.freeEntryEnabled(ctx) {
		return nil, errorx.New(errorx.Unavailable, "Free entries are currently disabled")
	}

	// Fast path; the unique index below is the authority.
	_, err = d.freeEntryRepo.GetValidByRaffleAndEmail(ctx, raffle.ID, email)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "This email has already entered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check existing free entry: %v", err)
		return nil, errorx.Unknown
	}

	entry := &entity.FreeRaffleEntry{
		Base:     entity.Base{ID: uuid.NewString()},
		RaffleID: raffle.ID,
		Email:    email,
		Status:   entity.FreeEntryValid,
	}

	if err := d.freeEntryRepo.Create(ctx, entry); err != nil {
		if repository.IsDuplicateError(err) {
			return nil, errorx.New(errorx.AlreadyExists, "This email has already entered")
		}

		xcontext.Logger(ctx).Errorf("Cannot create free entry: %v", err)
		return nil, errorx.Unknown
	}

	subject, html := mail.RenderFreeEntryConfirmation(mail.FreeEntryData{RaffleTitle: raffle.Title})
	if err := d.mailer.Send(ctx, email, subject, html); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot send free entry confirmation: %v", err)
	}

	return &model.FreeEnterResponse{}, nil
}

func (d *raffleDomain) RecordPurchase(
	ctx context.Context, req *model.RecordPurchaseRequest,
) (*model.RecordPurchaseResponse, error) {
	if req.ProviderOrderID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty order id")
	}

	if req.TicketCount <= 0 {
		return nil, errorx.New(errorx.BadRequest, "The number of tickets must be a positive number")
	}

	raffle, err := d.raffleRepo.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "No active raffle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get current raffle: %v", err)
		return nil, errorx.Unknown
	}

	if existing, err := d.transactionRepo.GetByProviderOrderID(ctx, req.ProviderOrderID); err == nil {
		return d.replayPurchase(ctx, existing)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check existing transaction: %v", err)
		return nil, errorx.Unknown
	}

	order, err := d.paypalClient.GetOrder(ctx, req.ProviderOrderID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot verify paypal order: %v", err)
		return nil, errorx.New(errorx.UpstreamFailure, "Cannot verify the payment")
	}

	if order.Status != paypal.OrderStatusCompleted {
		return nil, errorx.New(errorx.UpstreamFailure, "The payment is not completed")
	}

	expected := raffle.TicketPrice.Mul(decimal.NewFromInt(int64(req.TicketCount)))
	if !order.Amount.Equal(expected) {
		return nil, errorx.New(errorx.UpstreamFailure,
			"The payment amount does not match the ticket price")
	}

	buyer, err := d.resolveBuyer(ctx, order)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	transaction := &entity.Transaction{
		Base:            entity.Base{ID: uuid.NewString()},
		UserID:          sqlNullString(buyer.ID),
		RaffleID:        sqlNullString(raffle.ID),
		Type:            entity.TransactionTicketPurchase,
		Amount:          order.Amount,
		Status:          entity.TransactionSuccess,
		Description:     "Raffle ticket purchase",
		ProviderOrderID: sqlNullString(req.ProviderOrderID),
	}

	if err := d.transactionRepo.Create(ctx, transaction); err != nil {
		if repository.IsDuplicateError(err) {
			// A concurrent retry of the same capture won the race.
			xcontext.WithRollbackDBTransaction(ctx)
			existing, err := d.transactionRepo.GetByProviderOrderID(ctx, req.ProviderOrderID)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get winning transaction: %v", err)
				return nil, errorx.Unknown
			}

			return d.replayPurchase(ctx, existing)
		}

		xcontext.Logger(ctx).Errorf("Cannot create transaction: %v", err)
		return nil, errorx.Unknown
	}

	err = d.raffleRepo.CheckAndIncrementSold(ctx, raffle.ID, req.TicketCount, order.Amount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "Not enough tickets left")
		}

		xcontext.Logger(ctx).Errorf("Cannot increment sold tickets: %v", err)
		return nil, errorx.Unknown
	}

	// Re-read inside the transaction to derive the numbers of the tickets
	// just reserved from the post-increment counter.
	updated, err := d.raffleRepo.GetByID(ctx, raffle.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload raffle: %v", err)
		return nil, errorx.Unknown
	}

	tickets := make([]model.Ticket, 0, req.TicketCount)
	firstNumber := updated.TicketsSold - req.TicketCount + 1
	for i := 0; i < req.TicketCount; i++ {
		ticket := &entity.Ticket{
			Base:            entity.Base{ID: uuid.NewString()},
			RaffleID:        raffle.ID,
			UserID:          buyer.ID,
			TicketNumber:    firstNumber + i,
			ProviderOrderID: req.ProviderOrderID,
			Status:          entity.TicketActive,
		}

		if err := d.ticketRepo.Create(ctx, ticket); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create ticket: %v", err)
			return nil, errorx.Unknown
		}

		tickets = append(tickets, model.ConvertTicket(ticket))
	}

	xcontext.WithCommitDBTransaction(ctx)

	common.PromCounters[common.TicketsSoldTotal].
		WithLabelValues(raffle.ID).Add(float64(req.TicketCount))

	return &model.RecordPurchaseResponse{
		Tickets:       tickets,
		TransactionID: transaction.ID,
		AmountPaid:    order.Amount.StringFixed(2),
	}, nil
}

// replayPurchase rebuilds the response of an already-credited capture so a
// retried callback gets the original result without crediting again.
func (d *raffleDomain) replayPurchase(
	ctx context.Context, transaction *entity.Transaction,
) (*model.RecordPurchaseResponse, error) {
	tickets, err := d.ticketRepo.GetByProviderOrderID(ctx, transaction.ProviderOrderID.String)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tickets of transaction: %v", err)
		return nil, errorx.Unknown
	}

	clientTickets := make([]model.Ticket, 0, len(tickets))
	for i := range tickets {
		clientTickets = append(clientTickets, model.ConvertTicket(&tickets[i]))
	}

	return &model.RecordPurchaseResponse{
		Tickets:       clientTickets,
		TransactionID: transaction.ID,
		AmountPaid:    transaction.Amount.StringFixed(2),
	}, nil
}

func (d *raffleDomain) resolveBuyer(ctx context.Context, order *paypal.Order) (*entity.User, error) {
	if userID := xcontext.RequestUserID(ctx); userID != "" {
		user, err := d.userRepo.GetByID(ctx, userID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get buyer: %v", err)
			return nil, errorx.Unknown
		}

		return user, nil
	}

	email := strings.ToLower(strings.TrimSpace(order.PayerEmail))
	if err := checkEmail(email); err != nil {
		return nil, errorx.New(errorx.BadRequest, "The payment has no usable payer email")
	}

	user, err := d.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get buyer by email: %v", err)
		return nil, errorx.Unknown
	}

	// Guest checkout, create a password-less account from the capture.
	guest := &entity.User{
		Base:  entity.Base{ID: uuid.NewString()},
		Email: email,
		Name:  order.PayerName,
		Role:  entity.RoleUser,
	}

	if err := d.userRepo.Create(ctx, guest); err != nil {
		if repository.IsDuplicateError(err) {
			return d.userRepo.GetByEmail(ctx, email)
		}

		xcontext.Logger(ctx).Errorf("Cannot create guest user: %v", err)
		return nil, errorx.Unknown
	}

	return guest, nil
}

func (d *raffleDomain) GetOutcomeSummary(
	ctx context.Context, req *model.GetOutcomeSummaryRequest,
) (*model.GetOutcomeSummaryResponse, error) {
	var raffle *entity.Raffle
	var err error
	if req.RaffleID != "" {
		raffle, err = d.raffleRepo.GetByID(ctx, req.RaffleID)
	} else {
		raffle, err = d.raffleRepo.GetLatestDrawn(ctx)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found a drawn raffle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get raffle: %v", err)
		return nil, errorx.Unknown
	}

	if _, drawn := raffle.Outcome(); !drawn {
		return nil, errorx.New(errorx.NotFound, "The raffle has not been drawn yet")
	}

	summary, err := d.buildOutcomeSummary(ctx, raffle)
	if err != nil {
		return nil, err
	}

	return &model.GetOutcomeSummaryResponse{Summary: *summary}, nil
}

func (d *raffleDomain) buildOutcomeSummary(
	ctx context.Context, raffle *entity.Raffle,
) (*model.OutcomeSummary, error) {
	summary := &model.OutcomeSummary{
		RaffleID:     raffle.ID,
		OutcomeType:  raffle.OutcomeType.String,
		ThresholdMet: raffle.ThresholdMet.Bool,
		TicketsSold:  int64(raffle.TicketsSold),
	}

	if raffle.OutcomeAt.Valid {
		summary.DrawnAt = raffle.OutcomeAt.Time.Format(model.DefaultTimeLayout)
	}

	summary.WinnerDisplay = d.winnerDisplay(ctx, raffle)

	ledgerType := entity.TransactionArtworkAward
	if raffle.OutcomeType.String == string(entity.OutcomeCashPrizeAwarded) {
		ledgerType = entity.TransactionCashPrize
	}

	ledger, err := d.transactionRepo.GetByRaffleAndType(ctx, raffle.ID, ledgerType)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get draw ledger row: %v", err)
		return nil, errorx.Unknown
	}

	if len(ledger) > 0 {
		row := ledger[len(ledger)-1]
		summary.PrizeAmount = row.Amount.StringFixed(2)

		var audit model.DrawAudit
		if err := mapstructure.WeakDecode(map[string]any(row.Metadata), &audit); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot decode draw audit metadata: %v", err)
		} else {
			summary.TotalPool = audit.TotalPool
			summary.FreeEntries = audit.TotalPool - audit.TicketsSold
		}
	}

	return summary, nil
}

func (d *raffleDomain) winnerDisplay(ctx context.Context, raffle *entity.Raffle) string {
	if raffle.WinnerUserID.Valid {
		winner, err := d.userRepo.GetByID(ctx, raffle.WinnerUserID.String)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot get winner user: %v", err)
		} else if winner.Name != "" {
			return winner.Name
		} else {
			return common.MaskEmail(winner.Email)
		}
	}

	if raffle.WinnerEmail.Valid {
		return common.MaskEmail(raffle.WinnerEmail.String)
	}

	return ""
}

func (d *raffleDomain) freeEntryEnabled(ctx context.Context) bool {
	setting, err := d.settingRepo.GetByKey(ctx, entity.SettingFreeEntryEnabled)
	if err != nil {
		// Free entries default to enabled until an operator disables them.
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Warnf("Cannot get free entry setting: %v", err)
		}

		return true
	}

	return setting.Value == "true"
}
