package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dakshh-official/dakshh-api/internal/application/events"
	"github.com/dakshh-official/dakshh-api/internal/domain"
	s3infra "github.com/dakshh-official/dakshh-api/internal/infrastructure/s3"
	"github.com/dakshh-official/dakshh-api/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
)

// maxBannerSize caps banner uploads at 5 MiB.
const maxBannerSize = 5 << 20

// EventHandler handles public event listing and admin event management.
type EventHandler struct {
	svc events.Service
}

func NewEventHandler(svc events.Service) *EventHandler { return &EventHandler{svc: svc} }

func (h *EventHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListPublic(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	ev, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (h *EventHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListAll(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ev, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "event updated"})
}

// UploadBanner accepts a multipart form with a "banner" file field.
func (h *EventHandler) UploadBanner(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxBannerSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("banner")
	if err != nil {
		writeError(w, http.StatusBadRequest, "banner file required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = s3infra.DetectContentType(header.Filename)
	}

	url, err := h.svc.UploadBanner(r.Context(), chi.URLParam(r, "id"), header.Filename, file, contentType)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "url": url})
}
