package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dakshh-official/dakshh-api/internal/application/adminauth"
	"github.com/dakshh-official/dakshh-api/internal/infrastructure/adminsession"
	"github.com/dakshh-official/dakshh-api/internal/pkg/validate"
	"github.com/dakshh-official/dakshh-api/internal/transport/http/middleware"
)

// AdminAuthHandler handles the admin gate, password setup and OTP login flow.
type AdminAuthHandler struct {
	svc       adminauth.Service
	authority *adminsession.Authority
}

func NewAdminAuthHandler(svc adminauth.Service, authority *adminsession.Authority) *AdminAuthHandler {
	return &AdminAuthHandler{svc: svc, authority: authority}
}

// Gate exchanges the shared master key for a master session cookie.
func (h *AdminAuthHandler) Gate(w http.ResponseWriter, r *http.Request) {
	var req adminauth.GateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, err := h.svc.Gate(req.MasterKey)
	if err != nil {
		httpError(w, err)
		return
	}
	http.SetCookie(w, h.authority.NewCookie(token))
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "access granted"})
}

func (h *AdminAuthHandler) CheckUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email required")
		return
	}
	needsSetup, err := h.svc.CheckUser(r.Context(), req.Email)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"exists": true, "needsSetup": needsSetup})
}

func (h *AdminAuthHandler) SetupPassword(w http.ResponseWriter, r *http.Request) {
	var req adminauth.SetupPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.SetupPassword(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "password set, verification code sent"})
}

func (h *AdminAuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req adminauth.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.SendOTP(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "verification code sent"})
}

// Verify checks the OTP and sets the admin session cookie on success.
func (h *AdminAuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req adminauth.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	token, err := h.svc.Verify(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	http.SetCookie(w, h.authority.NewCookie(token))
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "logged in"})
}

// Me returns the current admin identity for the admin panel shell. The
// record is re-read so a removed admin gets logged out before the cookie
// expires.
func (h *AdminAuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	fresh, err := h.svc.Me(r.Context(), session)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"email":       fresh.Email,
		"role":        fresh.Role,
		"permissions": fresh.Permissions,
		"master":      fresh.Master,
	})
}

func (h *AdminAuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, h.authority.ClearCookie())
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "logged out"})
}
