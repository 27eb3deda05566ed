package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/trailmark/experiences-api/internal/domain"
	mw "github.com/trailmark/experiences-api/internal/http/middleware"
	"github.com/trailmark/experiences-api/internal/http/response"
)

// ListExperiences is the public catalog: published rows only,
// filterable by location substring and start_time bounds.
func (h *Handlers) ListExperiences(w http.ResponseWriter, r *http.Request) {
	q := parseListQuery(r)

	result, err := h.catalog.ListPublished(r.Context(), q)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data": result.Data,
		"meta": listMeta{Total: result.Total, Page: result.Page, Limit: result.Limit},
	})
}

func parseListQuery(r *http.Request) domain.ListQuery {
	var q domain.ListQuery

	q.Location = r.URL.Query().Get("location")
	if from := r.URL.Query().Get("from"); from != "" {
		if t, err := domain.ParseStartTime(from); err == nil {
			q.From = &t
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if t, err := domain.ParseStartTime(to); err == nil {
			q.To = &t
		}
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		q.Page = page
	}
	q.Limit = domain.DefaultListLimit
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		q.Limit = limit
	}
	if strings.EqualFold(r.URL.Query().Get("sort"), "desc") {
		q.Sort = domain.SortDesc
	}

	return q
}

func (h *Handlers) CreateExperience(w http.ResponseWriter, r *http.Request) {
	ident := mw.Identity(r)
	if ident == nil {
		response.WriteAppError(w, domain.E(domain.CodeUnauthenticated, "authentication required"))
		return
	}

	var req domain.CreateExperienceRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		response.WriteAppError(w, appErr)
		return
	}

	exp, err := h.catalog.Create(r.Context(), ident.ID, &req)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, map[string]interface{}{"experience": exp})
}

func (h *Handlers) GetExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.WriteAppError(w, domain.E(domain.CodeInvalidInput, "invalid id"))
		return
	}

	exp, err := h.catalog.Get(r.Context(), id, mw.Identity(r))
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]interface{}{"experience": exp})
}

// PublishExperience runs behind RequireOwnerOrAdmin.
func (h *Handlers) PublishExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.WriteAppError(w, domain.E(domain.CodeInvalidInput, "invalid id"))
		return
	}

	exp, err := h.catalog.Publish(r.Context(), id)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]interface{}{"experience": exp})
}

// BlockExperience runs behind RequireRole(admin).
func (h *Handlers) BlockExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		response.WriteAppError(w, domain.E(domain.CodeInvalidInput, "invalid id"))
		return
	}

	exp, err := h.catalog.Block(r.Context(), id)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]interface{}{"experience": exp})
}
