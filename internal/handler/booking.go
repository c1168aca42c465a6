package handler

import (
	"net/http"

	"ceylon-tours-be/internal/booking"
	"ceylon-tours-be/internal/payment"
	"ceylon-tours-be/internal/utils"

	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookings booking.Service
	payments payment.Service
}

func NewBookingHandler(bookings booking.Service, payments payment.Service) *BookingHandler {
	return &BookingHandler{bookings: bookings, payments: payments}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in booking.CreateInput
	if err := decodeJSON(w, r, &in); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	b, err := h.bookings.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, b)
}

// Get is the public lookup used by the confirmation page.
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.GetByReference(r.Context(), mux.Vars(r)["reference"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, b.Public())
}

// Detail returns the full record including contact details.
func (h *BookingHandler) Detail(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.GetByReference(r.Context(), mux.Vars(r)["reference"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, b)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := booking.ListFilter{Status: payment.Status(r.URL.Query().Get("status"))}
	limit, page, _ := utils.Paginate(utils.QueryInt(r, "limit"), utils.QueryInt(r, "page"))

	list, total, err := h.bookings.List(r.Context(), filter, limit, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, listResponse[booking.Booking]{Items: list, Total: total, Limit: limit, Page: page})
}

// Payment returns the most recent checkout attempt for a booking.
func (h *BookingHandler) Payment(w http.ResponseWriter, r *http.Request) {
	p, err := h.payments.LatestPayment(r.Context(), mux.Vars(r)["reference"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

type checkoutRequest struct {
	Reference string `json:"reference"`
}

// Checkout returns the signed form the browser posts to the gateway.
func (h *BookingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var in checkoutRequest
	if err := decodeJSON(w, r, &in); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if in.Reference == "" {
		utils.WriteJSONError(w, "reference is required", http.StatusBadRequest)
		return
	}

	req, err := h.payments.StartCheckout(r.Context(), in.Reference)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, req)
}
