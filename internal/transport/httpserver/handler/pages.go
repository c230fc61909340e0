package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type pageTitleResponse struct {
	Title string `json:"title"`
}

func (h *Handlers) InvitePageTitle(w http.ResponseWriter, r *http.Request) {
	title := h.Pages.InviteTitle(r.Context(), chi.URLParam(r, "moim_url"))
	writeJSON(w, http.StatusOK, pageTitleResponse{Title: title})
}

func (h *Handlers) ConfirmPageTitle(w http.ResponseWriter, r *http.Request) {
	title := h.Pages.ConfirmTitle(r.Context(), chi.URLParam(r, "moim_url"), chi.URLParam(r, "mannam_url"))
	writeJSON(w, http.StatusOK, pageTitleResponse{Title: title})
}
