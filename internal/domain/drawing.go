package domain

import (
	"context"
	"errors"
	"time"

	"github.com/fatih/structs"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/thefund-gallery/backend/internal/common"
	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/internal/model"
	"github.com/thefund-gallery/backend/internal/repository"
	"github.com/thefund-gallery/backend/pkg/crypto"
	"github.com/thefund-gallery/backend/pkg/errorx"
	"github.com/thefund-gallery/backend/pkg/mail"
	"github.com/thefund-gallery/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type DrawingDomain interface {
	Draw(context.Context, *model.DrawRaffleRequest) (*model.DrawRaffleResponse, error)
}

type drawingDomain struct {
	raffleRepo      repository.RaffleRepository
	artworkRepo     repository.ArtworkRepository
	ticketRepo      repository.TicketRepository
	freeEntryRepo   repository.FreeEntryRepository
	transactionRepo repository.TransactionRepository
	userRepo        repository.UserRepository
	mailer          mail.Mailer
}

func NewDrawingDomain(
	raffleRepo repository.RaffleRepository,
	artworkRepo repository.ArtworkRepository,
	ticketRepo repository.TicketRepository,
	freeEntryRepo repository.FreeEntryRepository,
	transactionRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	mailer mail.Mailer,
) *drawingDomain {
	return &drawingDomain{
		raffleRepo:      raffleRepo,
		artworkRepo:     artworkRepo,
		ticketRepo:      ticketRepo,
		freeEntryRepo:   freeEntryRepo,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		mailer:          mailer,
	}
}

// poolEntry is one slot of the drawing pool. Exactly one of ticket or
// freeEntry is set.
type poolEntry struct {
	ticket    *entity.Ticket
	freeEntry *entity.FreeRaffleEntry
}

func (d *drawingDomain) Draw(
	ctx context.Context, req *model.DrawRaffleRequest,
) (*model.DrawRaffleResponse, error) {
	raffle, err := d.raffleRepo.GetByID(ctx, req.RaffleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found raffle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get raffle: %v", err)
		return nil, errorx.Unknown
	}

	if _, drawn := raffle.Outcome(); drawn {
		return nil, errorx.New(errorx.RaffleAlreadyDrawn, "The raffle has already been drawn")
	}

	now := time.Now()
	eligible := raffle.Status == entity.RaffleCompleted ||
		(raffle.Status == entity.RaffleActive && now.After(raffle.EndDate))
	if !eligible {
		return nil, errorx.New(errorx.Unavailable, "The raffle has not ended yet")
	}

	tickets, err := d.ticketRepo.GetActiveByRaffleID(ctx, raffle.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get raffle tickets: %v", err)
		return nil, errorx.Unknown
	}

	freeEntries, err := d.freeEntryRepo.GetValidByRaffleID(ctx, raffle.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get free entries: %v", err)
		return nil, errorx.Unknown
	}

	pool := make([]poolEntry, 0, len(tickets)+len(freeEntries))
	for i := range tickets {
		pool = append(pool, poolEntry{ticket: &tickets[i]})
	}
	for i := range freeEntries {
		pool = append(pool, poolEntry{freeEntry: &freeEntries[i]})
	}

	if len(pool) == 0 {
		return nil, errorx.New(errorx.RaffleNoEntries, "The raffle has no entries to draw from")
	}

	selected := pool[crypto.RandIntn(len(pool))]
	winnerUser, winnerEmail, err := d.resolveWinner(ctx, selected)
	if err != nil {
		return nil, err
	}

	// On an award the ledger records the artist share of the revenue; below
	// the threshold it records the winner's cash prize.
	thresholdMet := raffle.TicketsSold >= raffle.MinimumThresholdTickets
	outcomeType := entity.OutcomeCashPrizeAwarded
	prizePercent := raffle.CashPrizePercent
	if thresholdMet {
		outcomeType = entity.OutcomeArtworkAwarded
		prizePercent = raffle.ArtistSharePercent
	}

	prizeAmount := raffle.TotalRevenue.
		Mul(decimal.NewFromInt(int64(prizePercent))).
		Div(decimal.NewFromInt(100)).Round(2)

	audit := model.DrawAudit{
		ThresholdMet:     thresholdMet,
		TicketsSold:      int64(raffle.TicketsSold),
		MinimumThreshold: int64(raffle.MinimumThresholdTickets),
		TotalPool:        int64(len(pool)),
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	updates := map[string]any{
		"status":        entity.RaffleCompleted,
		"threshold_met": thresholdMet,
		"outcome_type":  string(outcomeType),
		"outcome_at":    now,
		"drawing_date":  now,
		"winner_email":  sqlNullString(winnerEmail),
	}
	if winnerUser != nil {
		updates["winner_user_id"] = winnerUser.ID
	}

	if err := d.raffleRepo.CheckAndSetOutcome(ctx, raffle.ID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.RaffleAlreadyDrawn, "The raffle has already been drawn")
		}

		xcontext.Logger(ctx).Errorf("Cannot set raffle outcome: %v", err)
		return nil, errorx.Unknown
	}

	ledgerType := entity.TransactionCashPrize
	description := "Cash prize awarded"
	if thresholdMet {
		ledgerType = entity.TransactionArtworkAward
		description = "Artwork awarded, artist share payable"

		if err := d.artworkRepo.UpdateStatus(ctx, raffle.ArtworkID, entity.ArtworkSold); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot mark artwork as sold: %v", err)
			return nil, errorx.Unknown
		}
	}

	transaction := &entity.Transaction{
		Base:        entity.Base{ID: uuid.NewString()},
		RaffleID:    sqlNullString(raffle.ID),
		Type:        ledgerType,
		Amount:      prizeAmount,
		Status:      entity.TransactionSuccess,
		Description: description,
		Metadata:    structs.Map(audit),
	}
	if winnerUser != nil {
		transaction.UserID = sqlNullString(winnerUser.ID)
	}

	if err := d.transactionRepo.Create(ctx, transaction); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create draw ledger row: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	common.PromCounters[common.RaffleDrawsTotal].
		WithLabelValues(string(outcomeType)).Inc()

	d.announceWinner(ctx, raffle, winnerUser, winnerEmail, thresholdMet, prizeAmount)
	d.announceResults(ctx, raffle, tickets, freeEntries, winnerEmail, thresholdMet)

	summary := model.OutcomeSummary{
		RaffleID:     raffle.ID,
		OutcomeType:  string(outcomeType),
		ThresholdMet: thresholdMet,
		TicketsSold:  audit.TicketsSold,
		FreeEntries:  audit.TotalPool - audit.TicketsSold,
		TotalPool:    audit.TotalPool,
		DrawnAt:      now.Format(model.DefaultTimeLayout),
	}

	if winnerUser != nil && winnerUser.Name != "" {
		summary.WinnerDisplay = winnerUser.Name
	} else {
		summary.WinnerDisplay = common.MaskEmail(winnerEmail)
	}

	summary.PrizeAmount = prizeAmount.StringFixed(2)

	return &model.DrawRaffleResponse{Summary: summary}, nil
}

// resolveWinner maps the selected pool slot to a user account when one
// exists. A free entry without an account stays reachable by email only.
func (d *drawingDomain) resolveWinner(
	ctx context.Context, selected poolEntry,
) (*entity.User, string, error) {
	if selected.ticket != nil {
		user, err := d.userRepo.GetByID(ctx, selected.ticket.UserID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get winning ticket holder: %v", err)
			return nil, "", errorx.Unknown
		}

		return user, user.Email, nil
	}

	email := selected.freeEntry.Email
	user, err := d.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, email, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get free entry user: %v", err)
		return nil, "", errorx.Unknown
	}

	return user, user.Email, nil
}

func (d *drawingDomain) announceWinner(
	ctx context.Context,
	raffle *entity.Raffle,
	winnerUser *entity.User,
	winnerEmail string,
	thresholdMet bool,
	prizeAmount decimal.Decimal,
) {
	artwork, err := d.artworkRepo.GetByID(ctx, raffle.ArtworkID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get artwork for announcement: %v", err)
		artwork = &entity.Artwork{}
	}

	data := mail.WinnerData{
		RaffleTitle:  raffle.Title,
		ArtworkTitle: artwork.Title,
		PrizeAmount:  prizeAmount,
		ThresholdMet: thresholdMet,
	}
	if winnerUser != nil {
		data.Name = winnerUser.Name
	}

	subject, html := mail.RenderWinnerAnnouncement(data)
	if err := d.mailer.Send(ctx, winnerEmail, subject, html); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot send winner announcement: %v", err)
	}
}

// announceResults tells every other participant how the raffle ended. The
// winner already got the announcement, so their email is skipped.
func (d *drawingDomain) announceResults(
	ctx context.Context,
	raffle *entity.Raffle,
	tickets []entity.Ticket,
	freeEntries []entity.FreeRaffleEntry,
	winnerEmail string,
	thresholdMet bool,
) {
	recipients := map[string]struct{}{}

	seenUsers := map[string]struct{}{}
	for i := range tickets {
		if _, ok := seenUsers[tickets[i].UserID]; ok {
			continue
		}
		seenUsers[tickets[i].UserID] = struct{}{}

		user, err := d.userRepo.GetByID(ctx, tickets[i].UserID)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot get ticket holder for results: %v", err)
			continue
		}

		recipients[user.Email] = struct{}{}
	}

	for i := range freeEntries {
		recipients[freeEntries[i].Email] = struct{}{}
	}

	delete(recipients, winnerEmail)

	subject, html := mail.RenderRaffleResults(mail.ResultsData{
		RaffleTitle:  raffle.Title,
		ThresholdMet: thresholdMet,
	})
	for email := range recipients {
		if err := d.mailer.Send(ctx, email, subject, html); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot send raffle results to %s: %v", email, err)
		}
	}
}
