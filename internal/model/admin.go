package model

type CreateRaffleRequest struct {
	ArtworkID               string `json:"artwork_id"`
	Title                   string `json:"title"`
	Description             string `json:"description"`
	TicketPrice             string `json:"ticket_price"`
	MaxTickets              *int64 `json:"max_tickets"`
	MinimumThresholdTickets int64  `json:"minimum_threshold_tickets"`
	CashPrizePercent        int    `json:"cash_prize_percent"`
	ArtistSharePercent      int    `json:"artist_share_percent"`
	StartDate               string `json:"start_date"`
	EndDate                 string `json:"end_date"`
}

type CreateRaffleResponse struct {
	Raffle Raffle `json:"raffle"`
}

type GetRaffleRequest struct {
	ID string `json:"id"`
}

type GetRaffleResponse struct {
	Raffle Raffle `json:"raffle"`
}

type GetRaffleListRequest struct{}

type GetRaffleListResponse struct {
	Raffles []Raffle `json:"raffles"`
}

type UpdateRaffleRequest struct {
	ID                      string  `json:"id"`
	Title                   *string `json:"title"`
	Description             *string `json:"description"`
	ArtworkID               *string `json:"artwork_id"`
	TicketPrice             *string `json:"ticket_price"`
	MaxTickets              *int64  `json:"max_tickets"`
	MinimumThresholdTickets *int64  `json:"minimum_threshold_tickets"`
	CashPrizePercent        *int    `json:"cash_prize_percent"`
	StartDate               *string `json:"start_date"`
	EndDate                 *string `json:"end_date"`
}

type UpdateRaffleResponse struct {
	Raffle Raffle `json:"raffle"`
}

type DeleteRaffleRequest struct {
	ID string `json:"id"`
}

type DeleteRaffleResponse struct{}

type ValidateRaffleConfigRequest struct {
	ID                      string  `json:"id"`
	TicketPrice             *string `json:"ticket_price"`
	MaxTickets              *int64  `json:"max_tickets"`
	MinimumThresholdTickets *int64  `json:"minimum_threshold_tickets"`
	CashPrizePercent        *int    `json:"cash_prize_percent"`
	StartDate               *string `json:"start_date"`
	EndDate                 *string `json:"end_date"`
}

type FieldVerdict struct {
	Field   string `json:"field"`
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

type ValidateRaffleConfigResponse struct {
	Mutable  bool           `json:"mutable"`
	Verdicts []FieldVerdict `json:"verdicts"`
}

type ActivateRaffleRequest struct {
	ID string `json:"id"`
}

type ActivateRaffleResponse struct {
	Raffle Raffle `json:"raffle"`
}

type GetSettingsRequest struct{}

type GetSettingsResponse struct {
	Settings []Setting `json:"settings"`
}

type UpsertSettingRequest struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

type UpsertSettingResponse struct {
	Setting Setting `json:"setting"`
}
