package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dakshh-official/dakshh-api/internal/application/registration"
	"github.com/dakshh-official/dakshh-api/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
)

// RegistrationHandler handles event sign-ups and their admin management.
type RegistrationHandler struct {
	svc registration.Service
}

func NewRegistrationHandler(svc registration.Service) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

func (h *RegistrationHandler) RegisterSolo(w http.ResponseWriter, r *http.Request) {
	var req registration.RegisterSoloRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	reg, err := h.svc.RegisterSolo(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":        true,
		"message":        "registered, pending verification",
		"registrationId": reg.RegistrationID,
	})
}

func (h *RegistrationHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListByEvent(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *RegistrationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Verify(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "registration verified"})
}
