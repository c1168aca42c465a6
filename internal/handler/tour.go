package handler

import (
	"net/http"
	"strconv"

	"ceylon-tours-be/internal/tour"
	"ceylon-tours-be/internal/utils"

	"github.com/gorilla/mux"
)

type TourHandler struct {
	svc tour.Service
}

func NewTourHandler(svc tour.Service) *TourHandler {
	return &TourHandler{svc: svc}
}

func (h *TourHandler) ListTours(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := tour.TourFilter{
		Destination:        q.Get("destination"),
		IncludeUnpublished: utils.IsAdmin(r.Context()) && q.Get("all") == "true",
	}
	if raw := q.Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			utils.WriteJSONError(w, "featured must be true or false", http.StatusBadRequest)
			return
		}
		filter.Featured = &featured
	}

	limit, page, _ := utils.Paginate(utils.QueryInt(r, "limit"), utils.QueryInt(r, "page"))
	tours, total, err := h.svc.ListTours(r.Context(), filter, limit, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, listResponse[tour.Tour]{Items: tours, Total: total, Limit: limit, Page: page})
}

func (h *TourHandler) GetTour(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.GetTour(r.Context(), mux.Vars(r)["slug"], utils.IsAdmin(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, t)
}

func (h *TourHandler) SaveTour(w http.ResponseWriter, r *http.Request) {
	var in tour.Tour
	if err := decodeJSON(w, r, &in); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	t, err := h.svc.SaveTour(r.Context(), mux.Vars(r)["slug"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, t)
}

func (h *TourHandler) DeleteTour(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTour(r.Context(), mux.Vars(r)["slug"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TourHandler) ListDestinations(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListDestinations(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *TourHandler) GetDestination(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetDestination(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, d)
}

func (h *TourHandler) SaveDestination(w http.ResponseWriter, r *http.Request) {
	var in tour.Destination
	if err := decodeJSON(w, r, &in); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	d, err := h.svc.SaveDestination(r.Context(), mux.Vars(r)["slug"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, d)
}

func (h *TourHandler) DeleteDestination(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteDestination(r.Context(), mux.Vars(r)["slug"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
