package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dakshh-official/dakshh-api/internal/application/adminusers"
	"github.com/dakshh-official/dakshh-api/internal/pkg/validate"
	"github.com/dakshh-official/dakshh-api/internal/transport/http/middleware"
)

// AdminUserHandler handles admin panel membership management.
type AdminUserHandler struct {
	svc adminusers.Service
}

func NewAdminUserHandler(svc adminusers.Service) *AdminUserHandler {
	return &AdminUserHandler{svc: svc}
}

func (h *AdminUserHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AdminUserHandler) Invite(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req adminusers.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.svc.Invite(r.Context(), session.Email, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
