package model

import (
	"time"

	"github.com/thefund-gallery/backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		Phone:         user.Phone,
		CountryCode:   user.CountryCode,
		Role:          string(user.Role),
		EmailVerified: user.EmailVerified,
		AddressLine:   user.AddressLine.String,
		City:          user.City.String,
		PostalCode:    user.PostalCode.String,
	}
}

func ConvertArtist(artist *entity.Artist) Artist {
	if artist == nil {
		return Artist{}
	}

	return Artist{
		ID:          artist.ID,
		Name:        artist.Name,
		Bio:         artist.Bio,
		PortraitURL: artist.PortraitURL,
	}
}

func ConvertArtwork(artwork *entity.Artwork) Artwork {
	if artwork == nil {
		return Artwork{}
	}

	return Artwork{
		ID:          artwork.ID,
		ArtistID:    artwork.ArtistID,
		Title:       artwork.Title,
		Description: artwork.Description,
		ImageURL:    artwork.ImageURL,
		Status:      string(artwork.Status),
	}
}

func ConvertRaffle(raffle *entity.Raffle) Raffle {
	if raffle == nil {
		return Raffle{}
	}

	result := Raffle{
		ID:                      raffle.ID,
		ArtworkID:               raffle.ArtworkID,
		Title:                   raffle.Title,
		Description:             raffle.Description,
		TicketPrice:             raffle.TicketPrice.StringFixed(2),
		MinimumThresholdTickets: int64(raffle.MinimumThresholdTickets),
		CashPrizePercent:        raffle.CashPrizePercent,
		ArtistSharePercent:      raffle.ArtistSharePercent,
		Status:                  string(raffle.Status),
		StartDate:               raffle.StartDate.Format(DefaultTimeLayout),
		EndDate:                 raffle.EndDate.Format(DefaultTimeLayout),
		TicketsSold:             int64(raffle.TicketsSold),
		TotalRevenue:            raffle.TotalRevenue.StringFixed(2),
	}

	if raffle.MaxTickets.Valid {
		max := raffle.MaxTickets.Int64
		result.MaxTickets = &max
	}

	if raffle.OutcomeType.Valid {
		result.OutcomeType = raffle.OutcomeType.String
	}

	if raffle.OutcomeAt.Valid {
		result.OutcomeAt = raffle.OutcomeAt.Time.Format(DefaultTimeLayout)
	}

	return result
}

func ConvertTicket(ticket *entity.Ticket) Ticket {
	if ticket == nil {
		return Ticket{}
	}

	return Ticket{
		ID:           ticket.ID,
		RaffleID:     ticket.RaffleID,
		TicketNumber: int64(ticket.TicketNumber),
		Status:       string(ticket.Status),
	}
}

func ConvertSetting(setting *entity.Setting) Setting {
	if setting == nil {
		return Setting{}
	}

	return Setting{
		Key:         setting.Key,
		Value:       setting.Value,
		Description: setting.Description,
	}
}
