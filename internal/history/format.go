package history

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pr-poehali-dev/license-agreement-generator/internal/models"
)

// ru-RU short date and time, as in "25.10.2025, 14:30".
const displayLayout = "02.01.2006, 15:04"

const countMessage = "Total contracts: %d"

func init() {
	message.SetString(language.Russian, countMessage, "Всего договоров: %d")
	message.SetString(language.English, countMessage, "Total contracts: %d")
}

// Timestamps without a zone are read in the display location.
var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// FormatCreatedAt renders an ISO-8601 timestamp as DD.MM.YYYY, HH:MM in loc.
// Values that do not parse are returned unchanged.
func FormatCreatedAt(s string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	value := strings.TrimSpace(s)
	if value == "" {
		return s
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.In(loc).Format(displayLayout)
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.Format(displayLayout)
		}
	}
	return s
}

// Card is a record prepared for display.
type Card struct {
	ContractNumber string `json:"contractNumber"`
	Nickname       string `json:"nickname"`
	FullName       string `json:"fullName"`
	ContractDate   string `json:"contractDate"`
	Citizenship    string `json:"citizenship"`
	Email          string `json:"email"`
	Passport       string `json:"passport"`
	CreatedAt      string `json:"createdAt"`
}

// NewCard copies the record verbatim except for CreatedAt, which is formatted.
func NewCard(r models.ContractRecord, loc *time.Location) Card {
	return Card{
		ContractNumber: r.ContractNumber,
		Nickname:       r.Nickname,
		FullName:       r.FullName,
		ContractDate:   r.ContractDate,
		Citizenship:    r.Citizenship,
		Email:          r.Email,
		Passport:       r.Passport,
		CreatedAt:      FormatCreatedAt(r.CreatedAt, loc),
	}
}

// Cards returns one card per loaded record.
func (v *Viewer) Cards() []Card {
	records := v.Records()
	cards := make([]Card, 0, len(records))
	for _, r := range records {
		cards = append(cards, NewCard(r, v.loc))
	}
	return cards
}
