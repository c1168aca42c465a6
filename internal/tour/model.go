package tour

import (
	"time"

	"github.com/shopspring/decimal"
)

type Tour struct {
	ID            uint            `json:"id"`
	Slug          string          `json:"slug"`
	Name          string          `json:"name"`
	Summary       string          `json:"summary"`
	Description   string          `json:"description"`
	DestinationID *uint           `json:"destinationId,omitempty"`
	DurationDays  int             `json:"durationDays"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	ImageURL      string          `json:"imageUrl"`
	Gallery       []string        `json:"gallery"`
	Featured      bool            `json:"featured"`
	Published     bool            `json:"published"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type Destination struct {
	ID          uint      `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Region      string    `json:"region"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type TourFilter struct {
	Destination        string
	Featured           *bool
	IncludeUnpublished bool
}
