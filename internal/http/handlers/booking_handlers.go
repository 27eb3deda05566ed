package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/trailmark/experiences-api/internal/domain"
	mw "github.com/trailmark/experiences-api/internal/http/middleware"
	"github.com/trailmark/experiences-api/internal/http/response"
)

func (h *Handlers) BookExperience(w http.ResponseWriter, r *http.Request) {
	ident := mw.Identity(r)
	if ident == nil {
		response.WriteAppError(w, domain.E(domain.CodeUnauthenticated, "authentication required"))
		return
	}

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.WriteAppError(w, domain.E(domain.CodeInvalidInput, "invalid id"))
		return
	}

	var req domain.BookingRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		response.WriteAppError(w, appErr)
		return
	}

	booking, err := h.bookings.Book(r.Context(), *ident, id, &req)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, map[string]interface{}{"booking": booking})
}

func (h *Handlers) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	ident := mw.Identity(r)
	if ident == nil {
		response.WriteAppError(w, domain.E(domain.CodeUnauthenticated, "authentication required"))
		return
	}

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	limit := 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		limit = l
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	bookings, total, err := h.bookings.ListMine(r.Context(), *ident, limit, (page-1)*limit)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data": bookings,
		"meta": listMeta{Total: total, Page: page, Limit: limit},
	})
}
