package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dakshh-official/dakshh-api/internal/application/checkin"
	"github.com/dakshh-official/dakshh-api/internal/domain"
	"github.com/dakshh-official/dakshh-api/internal/pkg/validate"
	"github.com/dakshh-official/dakshh-api/internal/transport/http/middleware"
)

// CheckInHandler handles QR scan check-ins from the admin panel.
type CheckInHandler struct {
	svc checkin.Service
}

func NewCheckInHandler(svc checkin.Service) *CheckInHandler { return &CheckInHandler{svc: svc} }

func (h *CheckInHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.svc.PerformCheckIn(r.Context(), session, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
