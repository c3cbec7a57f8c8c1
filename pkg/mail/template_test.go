package mail

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRenderWinnerAnnouncement(t *testing.T) {
	subject, html := RenderWinnerAnnouncement(WinnerData{
		Name:         "Alice",
		RaffleTitle:  "Spring Raffle",
		ArtworkTitle: "Sunset No. 4",
		ThresholdMet: true,
	})
	require.Equal(t, "You won the artwork!", subject)
	require.Contains(t, html, "Alice")
	require.Contains(t, html, "Sunset No. 4")

	subject, html = RenderWinnerAnnouncement(WinnerData{
		RaffleTitle:  "Spring Raffle",
		PrizeAmount:  decimal.RequireFromString("123.75"),
		ThresholdMet: false,
	})
	require.Equal(t, "You won the raffle!", subject)
	require.Contains(t, html, "$123.75")
}

func TestRenderFreeEntryConfirmation(t *testing.T) {
	_, html := RenderFreeEntryConfirmation(FreeEntryData{RaffleTitle: "Spring Raffle"})
	require.Contains(t, html, "Spring Raffle")
}
