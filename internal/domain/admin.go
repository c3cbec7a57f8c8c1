package domain

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/thefund-gallery/backend/internal/entity"
	"github.com/thefund-gallery/backend/internal/model"
	"github.com/thefund-gallery/backend/internal/repository"
	"github.com/thefund-gallery/backend/pkg/errorx"
	"github.com/thefund-gallery/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type AdminDomain interface {
	CreateRaffle(context.Context, *model.CreateRaffleRequest) (*model.CreateRaffleResponse, error)
	GetRaffle(context.Context, *model.GetRaffleRequest) (*model.GetRaffleResponse, error)
	GetRaffleList(context.Context, *model.GetRaffleListRequest) (*model.GetRaffleListResponse, error)
	UpdateRaffle(context.Context, *model.UpdateRaffleRequest) (*model.UpdateRaffleResponse, error)
	DeleteRaffle(context.Context, *model.DeleteRaffleRequest) (*model.DeleteRaffleResponse, error)
	ValidateRaffleConfig(context.Context, *model.ValidateRaffleConfigRequest) (*model.ValidateRaffleConfigResponse, error)
	ActivateRaffle(context.Context, *model.ActivateRaffleRequest) (*model.ActivateRaffleResponse, error)
	GetSettings(context.Context, *model.GetSettingsRequest) (*model.GetSettingsResponse, error)
	UpsertSetting(context.Context, *model.UpsertSettingRequest) (*model.UpsertSettingResponse, error)
}

type adminDomain struct {
	raffleRepo  repository.RaffleRepository
	artworkRepo repository.ArtworkRepository
	settingRepo repository.SettingRepository
}

func NewAdminDomain(
	raffleRepo repository.RaffleRepository,
	artworkRepo repository.ArtworkRepository,
	settingRepo repository.SettingRepository,
) *adminDomain {
	return &adminDomain{
		raffleRepo:  raffleRepo,
		artworkRepo: artworkRepo,
		settingRepo: settingRepo,
	}
}

func (d *adminDomain) CreateRaffle(
	ctx context.Context, req *model.CreateRaffleRequest,
) (*model.CreateRaffleResponse, error) {
	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty title")
	}

	price, err := decimal.NewFromString(req.TicketPrice)
	if err != nil || price.IsNegative() {
		return nil, errorx.New(errorx.BadRequest, "Invalid ticket price")
	}

	startDate, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid start date")
	}

	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid end date")
	}

	raffle := &entity.Raffle{
		Base:                    entity.Base{ID: uuid.NewString()},
		ArtworkID:               req.ArtworkID,
		Title:                   req.Title,
		Description:             req.Description,
		TicketPrice:             price,
		MinimumThresholdTickets: int(req.MinimumThresholdTickets),
		CashPrizePercent:        req.CashPrizePercent,
		ArtistSharePercent:      req.ArtistSharePercent,
		Status:                  entity.RaffleScheduled,
		StartDate:               startDate,
		EndDate:                 endDate,
		TotalRevenue:            decimal.Zero,
	}

	if req.MaxTickets != nil {
		raffle.MaxTickets = sql.NullInt64{Int64: *req.MaxTickets, Valid: true}
	}

	if err := checkRaffleInvariants(raffle); err != nil {
		return nil, err
	}

	if _, err := d.artworkRepo.GetByID(ctx, req.ArtworkID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found artwork")
		}

		xcontext.Logger(ctx).Errorf("Cannot get artwork: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.raffleRepo.Create(ctx, raffle); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create raffle: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateRaffleResponse{Raffle: model.ConvertRaffle(raffle)}, nil
}

func (d *adminDomain) GetRaffle(
	ctx context.Context, req *model.GetRaffleRequest,
) (*model.GetRaffleResponse, error) {
	raffle, err := d.raffleRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found raffle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get raffle: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetRaffleResponse{Raffle: model.ConvertRaffle(raffle)}, nil
}

func (d *adminDomain) GetRaffleList(
	ctx context.Context, req *model.GetRaffleListRequest,
) (*model.GetRaffleListResponse, error) {
	raffles, err := d.raffleRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get raffles: %v", err)
		return nil, errorx.Unknown
	}

	clientRaffles := make([]model.Raffle, 0, len(raffles))
	for i := range raffles {
		clientRaffles = append(clientRaffles, model.ConvertRaffle(&raffles[i]))
	}

	return &model.GetRaffleListResponse{Raffles: clientRaffles}, nil
}

func (d *adminDomain) UpdateRaffle(
	ctx context.Context, req *model.UpdateRaffleRequest,
) (*model.UpdateRaffleResponse, error) {
	raffle, err := d.raffleRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found raffle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get raffle: %v", err)
		return nil, errorx.Unknown
	}

	verdicts := guardVerdicts(raffle, guardedFields(req))
	var denied []string
	for _, v := range verdicts {
		if !v.Allowed {
			denied = append(denied, v.Field)
		}
	}

	if len(denied) > 0 {
		return nil, errorx.New(errorx.RaffleImmutable,
			"Cannot change %s after the raffle has started", strings.Join(denied, ", "))
	}

	updates := map[string]any{}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, errorx.New(errorx.BadRequest, "Not allow an empty title")
		}

		updates["title"] = *req.Title
		raffle.Title = *req.Title
	}

	if req.Description != nil {
		updates["description"] = *req.Description
		raffle.Description = *req.Description
	}

	if req.ArtworkID != nil {
		if _, err := d.artworkRepo.GetByID(ctx, *req.ArtworkID); err != nil {
			return nil, errorx.New(errorx.NotFound, "Not found artwork")
		}

		updates["artwork_id"] = *req.ArtworkID
		raffle.ArtworkID = *req.ArtworkID
	}

	if req.TicketPrice != nil {
		price, err := decimal.NewFromString(*req.TicketPrice)
		if err != nil || price.IsNegative() {
			return nil, errorx.New(errorx.BadRequest, "Invalid ticket price")
		}

		updates["ticket_price"] = price
		raffle.TicketPrice = price
	}

	if req.MaxTickets != nil {
		updates["max_tickets"] = *req.MaxTickets
		raffle.MaxTickets = sql.NullInt64{Int64: *req.MaxTickets, Valid: true}
	}

	if req.MinimumThresholdTickets != nil {
		updates["minimum_threshold_tickets"] = *req.MinimumThresholdTickets
		raffle.MinimumThresholdTickets = int(*req.MinimumThresholdTickets)
	}

	if req.CashPrizePercent != nil {
		updates["cash_prize_percent"] = *req.CashPrizePercent
		raffle.CashPrizePercent = *req.CashPrizePercent
	}

	if req.StartDate != nil {
		startDate, err := time.Parse(time.RFC3339, *req.StartDate)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid start date")
		}

		updates["start_date"] = startDate
		raffle.StartDate = startDate
	}

	if req.EndDate != nil {
		endDate, err := time.Parse(time.RFC3339, *req.EndDate)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid end date")
		}

		updates["end_date"] = endDate
		raffle.EndDate = endDate
	}

	if err := checkRaffleInvariants(raffle); err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := d.raffleRepo.UpdateByID(ctx, raffle.ID, updates); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update raffle: %v", err)
			return nil, errorx.Unknown
		}
	}

	return &model.UpdateRaffleResponse{Raffle: model.ConvertRaffle(raffle)}, nil
}

func (d *adminDomain) DeleteRaffle(
	ctx context.Context, req *model.DeleteRaffleRequest,
) (*model.DeleteRaffleResponse, error) {
	raffle, err := d.raffleRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found raffle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get raffle: %v", err)
		return nil, errorx.Unknown
	}

	if raffle.Status != entity.RaffleScheduled {
		return nil, errorx.New(errorx.Unavailable, "Only a scheduled raffle can be deleted")
	}

	if err := d.raffleRepo.DeleteByID(ctx, raffle.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete raffle: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteRaffleResponse{}, nil
}

func (d *adminDomain) ValidateRaffleConfig(
	ctx context.Context, req *model.ValidateRaffleConfigRequest,
) (*model.ValidateRaffleConfigResponse, error) {
	raffle, err := d.raffleRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found raffle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get raffle: %v", err)
		return nil, errorx.Unknown
	}

	fields := guardedFields(&model.UpdateRaffleRequest{
		TicketPrice:             req.TicketPrice,
		MaxTickets:              req.MaxTickets,
		MinimumThresholdTickets: req.MinimumThresholdTickets,
		CashPrizePercent:        req.CashPrizePercent,
		StartDate:               req.StartDate,
		EndDate:                 req.EndDate,
	})

	verdicts := guardVerdicts(raffle, fields)
	mutable := true
	for _, v := range verdicts {
		if !v.Allowed {
			mutable = false
		}
	}

	return &model.ValidateRaffleConfigResponse{Mutable: mutable, Verdicts: verdicts}, nil
}

func (d *adminDomain) ActivateRaffle(
	ctx context.Context, req *model.ActivateRaffleRequest,
) (*model.ActivateRaffleResponse, error) {
	raffle, err := d.raffleRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found raffle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get raffle: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.raffleRepo.CheckAndActivate(ctx, raffle.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "Only a scheduled raffle can be activated")
		}

		xcontext.Logger(ctx).Errorf("Cannot activate raffle: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.artworkRepo.UpdateStatus(ctx, raffle.ArtworkID, entity.ArtworkInRaffle); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update artwork status: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	raffle.Status = entity.RaffleActive
	return &model.ActivateRaffleResponse{Raffle: model.ConvertRaffle(raffle)}, nil
}

func (d *adminDomain) GetSettings(
	ctx context.Context, req *model.GetSettingsRequest,
) (*model.GetSettingsResponse, error) {
	settings, err := d.settingRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get settings: %v", err)
		return nil, errorx.Unknown
	}

	clientSettings := make([]model.Setting, 0, len(settings))
	for i := range settings {
		clientSettings = append(clientSettings, model.ConvertSetting(&settings[i]))
	}

	return &model.GetSettingsResponse{Settings: clientSettings}, nil
}

func (d *adminDomain) UpsertSetting(
	ctx context.Context, req *model.UpsertSettingRequest,
) (*model.UpsertSettingResponse, error) {
	if req.Key == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty key")
	}

	setting := &entity.Setting{
		Base:        entity.Base{ID: uuid.NewString()},
		Key:         req.Key,
		Value:       req.Value,
		Description: req.Description,
	}

	if err := d.settingRepo.Upsert(ctx, setting); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert setting: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpsertSettingResponse{Setting: model.ConvertSetting(setting)}, nil
}

// checkRaffleInvariants validates the cross-field rules that must hold for
// both a new and an updated raffle.
func checkRaffleInvariants(raffle *entity.Raffle) error {
	if !raffle.EndDate.After(raffle.StartDate) {
		return errorx.New(errorx.BadRequest, "End date must be after start date")
	}

	if raffle.MinimumThresholdTickets < 0 {
		return errorx.New(errorx.BadRequest, "The ticket threshold must not be negative")
	}

	if raffle.MaxTickets.Valid {
		if raffle.MaxTickets.Int64 <= 0 {
			return errorx.New(errorx.BadRequest, "The max number of tickets must be a positive number")
		}

		if int64(raffle.MinimumThresholdTickets) > raffle.MaxTickets.Int64 {
			return errorx.New(errorx.BadRequest,
				"The ticket threshold must be less than or equal to max tickets")
		}
	}

	if raffle.CashPrizePercent < 0 || raffle.CashPrizePercent > 100 {
		return errorx.New(errorx.BadRequest, "The cash prize percent must be between 0 and 100")
	}

	if raffle.ArtistSharePercent < 0 || raffle.ArtistSharePercent > 100 {
		return errorx.New(errorx.BadRequest, "The artist share percent must be between 0 and 100")
	}

	return nil
}

// guardedFields returns the names of the frozen-once-started fields a request
// is trying to change.
func guardedFields(req *model.UpdateRaffleRequest) []string {
	var fields []string
	if req.TicketPrice != nil {
		fields = append(fields, "ticket_price")
	}
	if req.MaxTickets != nil {
		fields = append(fields, "max_tickets")
	}
	if req.MinimumThresholdTickets != nil {
		fields = append(fields, "minimum_threshold_tickets")
	}
	if req.CashPrizePercent != nil {
		fields = append(fields, "cash_prize_percent")
	}
	if req.StartDate != nil {
		fields = append(fields, "start_date")
	}
	if req.EndDate != nil {
		fields = append(fields, "end_date")
	}

	return fields
}

func guardVerdicts(raffle *entity.Raffle, fields []string) []model.FieldVerdict {
	started := raffle.HasStarted(time.Now())
	verdicts := make([]model.FieldVerdict, 0, len(fields))
	for _, field := range fields {
		verdict := model.FieldVerdict{Field: field, Allowed: !started}
		if started {
			verdict.Reason = "frozen after the raffle has started"
		}

		verdicts = append(verdicts, verdict)
	}

	return verdicts
}
