package handlers

import (
	"net/http"

	"github.com/trailmark/experiences-api/internal/domain"
	"github.com/trailmark/experiences-api/internal/http/response"
)

// Signup registers a user. The response never carries a token or the
// password hash, only the created id and resolved role.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		response.WriteAppError(w, appErr)
		return
	}

	user, err := h.auth.Signup(r.Context(), &req)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"user": user.ToUserInfo(),
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		response.WriteAppError(w, appErr)
		return
	}

	res, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		response.WriteError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, res)
}
