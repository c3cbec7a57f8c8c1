package entity

import "github.com/thefund-gallery/backend/pkg/enum"

type ArtworkStatus string

var (
	ArtworkAvailable = enum.New(ArtworkStatus("available"))
	ArtworkInRaffle  = enum.New(ArtworkStatus("in_raffle"))
	ArtworkSold      = enum.New(ArtworkStatus("sold"))
)

type Artwork struct {
	Base

	ArtistID string
	Artist   Artist `gorm:"foreignKey:ArtistID"`

	Title       string
	Description string
	ImageURL    string
	Status      ArtworkStatus `gorm:"default:available"`
}
