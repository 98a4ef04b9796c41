package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dakshh-official/dakshh-api/internal/domain"
	"github.com/dakshh-official/dakshh-api/internal/pkg/qr"
)

// ProfileUserStore is the minimal user lookup the profile handler requires.
type ProfileUserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ProfileHandler issues the signed QR payload shown on a participant's
// profile page. Only verified accounts get a payload.
type ProfileHandler struct {
	users  ProfileUserStore
	signer *qr.Signer
}

func NewProfileHandler(users ProfileUserStore, signer *qr.Signer) *ProfileHandler {
	return &ProfileHandler{users: users, signer: signer}
}

func (h *ProfileHandler) QR(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("email")))
	if email == "" {
		writeError(w, http.StatusBadRequest, "email required")
		return
	}
	u, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		httpError(w, err)
		return
	}
	if !u.Verified {
		httpError(w, fmt.Errorf("account not verified: %w", domain.ErrForbidden))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"qrPayload": h.signer.Build(u.UserID)})
}
