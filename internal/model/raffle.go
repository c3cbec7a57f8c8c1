package model

type GetRaffleStatusRequest struct{}

type GetRaffleStatusResponse struct {
	Raffle           Raffle `json:"raffle"`
	Artwork          Artwork `json:"artwork"`
	Artist           Artist  `json:"artist"`
	FreeEntryEnabled bool    `json:"free_entry_enabled"`
	ThresholdMet     bool    `json:"threshold_met"`
	TicketsRemaining *int64  `json:"tickets_remaining"`
}

type FreeEnterRequest struct {
	Email string `json:"email"`
}

type FreeEnterResponse struct{}

type RecordPurchaseRequest struct {
	ProviderOrderID string `json:"provider_order_id"`
	TicketCount     int    `json:"ticket_count"`
}

type RecordPurchaseResponse struct {
	Tickets       []Ticket `json:"tickets"`
	TransactionID string   `json:"transaction_id"`
	AmountPaid    string   `json:"amount_paid"`
}

type DrawRaffleRequest struct {
	RaffleID string `json:"raffle_id"`
}

type DrawRaffleResponse struct {
	Summary OutcomeSummary `json:"summary"`
}

type GetOutcomeSummaryRequest struct {
	RaffleID string `json:"raffle_id"`
}

type GetOutcomeSummaryResponse struct {
	Summary OutcomeSummary `json:"summary"`
}

type OutcomeSummary struct {
	RaffleID      string `json:"raffle_id"`
	OutcomeType   string `json:"outcome_type"`
	ThresholdMet  bool   `json:"threshold_met"`
	TicketsSold   int64  `json:"tickets_sold"`
	FreeEntries   int64  `json:"free_entries"`
	TotalPool     int64  `json:"total_pool"`
	WinnerDisplay string `json:"winner_display"`
	PrizeAmount   string `json:"prize_amount,omitempty"`
	DrawnAt       string `json:"drawn_at"`
}

// DrawAudit is the metadata snapshot persisted with the draw ledger row.
type DrawAudit struct {
	ThresholdMet     bool  `json:"threshold_met" structs:"threshold_met" mapstructure:"threshold_met"`
	TicketsSold      int64 `json:"tickets_sold" structs:"tickets_sold" mapstructure:"tickets_sold"`
	MinimumThreshold int64 `json:"minimum_threshold" structs:"minimum_threshold" mapstructure:"minimum_threshold"`
	TotalPool        int64 `json:"total_pool" structs:"total_pool" mapstructure:"total_pool"`
}
