package handler

import (
	"net/http"

	"ceylon-tours-be/internal/blog"
	"ceylon-tours-be/internal/utils"

	"github.com/gorilla/mux"
)

type BlogHandler struct {
	svc blog.Service
}

func NewBlogHandler(svc blog.Service) *BlogHandler {
	return &BlogHandler{svc: svc}
}

func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.List(r.Context(), utils.IsAdmin(r.Context()) && r.URL.Query().Get("all") == "true")
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, posts)
}

func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), mux.Vars(r)["slug"], utils.IsAdmin(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *BlogHandler) Save(w http.ResponseWriter, r *http.Request) {
	var in blog.Post
	if err := decodeJSON(w, r, &in); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := h.svc.Save(r.Context(), mux.Vars(r)["slug"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}
