package booking

import (
	"time"

	"ceylon-tours-be/internal/payment"

	"github.com/shopspring/decimal"
)

type Booking struct {
	ID            uint            `json:"id"`
	Reference     string          `json:"reference"`
	TourID        uint            `json:"tourId"`
	TourName      string          `json:"tourName"`
	CustomerName  string          `json:"customerName"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	Country       string          `json:"country"`
	Travelers     int             `json:"travelers"`
	TravelDate    time.Time       `json:"travelDate"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentStatus payment.Status  `json:"paymentStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type CreateInput struct {
	TourSlug     string `json:"tourSlug"`
	CustomerName string `json:"customerName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Country      string `json:"country"`
	Travelers    int    `json:"travelers"`
	// TravelDate is YYYY-MM-DD.
	TravelDate string `json:"travelDate"`
}

type ListFilter struct {
	Status payment.Status
}

// PublicBooking is what anyone holding a reference may see. Contact details stay admin only.
type PublicBooking struct {
	Reference     string          `json:"reference"`
	TourName      string          `json:"tourName"`
	Travelers     int             `json:"travelers"`
	TravelDate    time.Time       `json:"travelDate"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentStatus payment.Status  `json:"paymentStatus"`
}

func (b *Booking) Public() PublicBooking {
	return PublicBooking{
		Reference:     b.Reference,
		TourName:      b.TourName,
		Travelers:     b.Travelers,
		TravelDate:    b.TravelDate,
		Amount:        b.Amount,
		Currency:      b.Currency,
		PaymentStatus: b.PaymentStatus,
	}
}
