package mail

import (
	"bytes"
	"html/template"

	"github.com/shopspring/decimal"
)

var (
	freeEntryTmpl = template.Must(template.New("free_entry").Parse(`
<p>Hi,</p>
<p>Your free entry to the raffle <strong>{{.RaffleTitle}}</strong> has been
recorded. Your odds are the same as every paid ticket. Good luck!</p>
<p>— THE FUND Gallery</p>`))

	winnerArtworkTmpl = template.Must(template.New("winner_artwork").Parse(`
<p>Congratulations{{if .Name}}, {{.Name}}{{end}}!</p>
<p>You won the raffle <strong>{{.RaffleTitle}}</strong>. The ticket threshold
was met, so the artwork <strong>{{.ArtworkTitle}}</strong> is yours.</p>
<p>We will contact you shortly to arrange delivery.</p>
<p>— THE FUND Gallery</p>`))

	winnerCashTmpl = template.Must(template.New("winner_cash").Parse(`
<p>Congratulations{{if .Name}}, {{.Name}}{{end}}!</p>
<p>You won the raffle <strong>{{.RaffleTitle}}</strong>. The ticket threshold
was not reached, so you receive a cash prize of <strong>${{.PrizeAmount}}</strong>.</p>
<p>We will contact you shortly to arrange the payout.</p>
<p>— THE FUND Gallery</p>`))

	resultsTmpl = template.Must(template.New("results").Parse(`
<p>The raffle <strong>{{.RaffleTitle}}</strong> has been drawn.</p>
<p>{{if .ThresholdMet}}The artwork was awarded to the winner.{{else}}A cash
prize was awarded; the artwork stays with the gallery.{{end}}</p>
<p>Thank you for supporting the fund.</p>
<p>— THE FUND Gallery</p>`))
)

type FreeEntryData struct {
	RaffleTitle string
}

type WinnerData struct {
	Name         string
	RaffleTitle  string
	ArtworkTitle string
	PrizeAmount  decimal.Decimal
	ThresholdMet bool
}

type ResultsData struct {
	RaffleTitle  string
	ThresholdMet bool
}

func RenderFreeEntryConfirmation(data FreeEntryData) (subject, html string) {
	return "Your raffle entry is confirmed", render(freeEntryTmpl, data)
}

func RenderWinnerAnnouncement(data WinnerData) (subject, html string) {
	if data.ThresholdMet {
		return "You won the artwork!", render(winnerArtworkTmpl, data)
	}

	return "You won the raffle!", render(winnerCashTmpl, data)
}

func RenderRaffleResults(data ResultsData) (subject, html string) {
	return "Raffle results", render(resultsTmpl, data)
}

func render(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return ""
	}

	return buf.String()
}
