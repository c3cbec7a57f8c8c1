package model

type AccessToken struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	CountryCode   string `json:"country_code"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
	AddressLine   string `json:"address_line,omitempty"`
	City          string `json:"city,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
}

type Artist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	PortraitURL string `json:"portrait_url"`
}

type Artwork struct {
	ID          string `json:"id"`
	ArtistID    string `json:"artist_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Status      string `json:"status"`
}

type Raffle struct {
	ID                      string `json:"id"`
	ArtworkID               string `json:"artwork_id"`
	Title                   string `json:"title"`
	Description             string `json:"description"`
	TicketPrice             string `json:"ticket_price"`
	MaxTickets              *int64 `json:"max_tickets"`
	MinimumThresholdTickets int64  `json:"minimum_threshold_tickets"`
	CashPrizePercent        int    `json:"cash_prize_percent"`
	ArtistSharePercent      int    `json:"artist_share_percent"`
	Status                  string `json:"status"`
	StartDate               string `json:"start_date"`
	EndDate                 string `json:"end_date"`
	TicketsSold             int64  `json:"tickets_sold"`
	TotalRevenue            string `json:"total_revenue"`
	OutcomeType             string `json:"outcome_type,omitempty"`
	OutcomeAt               string `json:"outcome_at,omitempty"`
}

type Ticket struct {
	ID           string `json:"id"`
	RaffleID     string `json:"raffle_id"`
	TicketNumber int64  `json:"ticket_number"`
	Status       string `json:"status"`
}

type Setting struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}
