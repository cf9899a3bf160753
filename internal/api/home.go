package api

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/impoot/impoot/internal/models"
)

var keyRe = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

type valueRequest struct {
	Value string `json:"value"`
}

type imageRequest struct {
	ImageURL string `json:"image_url"`
}

func (s *Server) handleGetHome(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.GlobalData(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, data)
}

// --- Slides ---

func (s *Server) handleCreateSlide(w http.ResponseWriter, r *http.Request) {
	var req models.Slide
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	slide, err := s.store.CreateSlide(r.Context(), &req)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, slide)
}

func (s *Server) handleUpdateSlide(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid slide ID")
		return
	}
	var req models.SlideUpdate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.store.UpdateSlide(r.Context(), id, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSlide(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid slide ID")
		return
	}
	if err := s.store.DeleteSlide(r.Context(), id); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Ticker notifications ---

func (s *Server) handleCreateNotification(w http.ResponseWriter, r *http.Request) {
	var req models.Notification
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}
	note, err := s.store.CreateNotification(r.Context(), &req)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, note)
}

func (s *Server) handleUpdateNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}
	var req models.NotificationUpdate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.store.UpdateNotification(r.Context(), id, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}
	if err := s.store.DeleteNotification(r.Context(), id); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Category design ---

func (s *Server) handleSetCategoryHeader(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if !keyRe.MatchString(category) {
		respondError(w, http.StatusBadRequest, "invalid category")
		return
	}
	var req models.CategoryHeader
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.store.SetCategoryHeader(r.Context(), category, req); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, req)
}

func (s *Server) handleSetDetailImage(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if !keyRe.MatchString(category) {
		respondError(w, http.StatusBadRequest, "invalid category")
		return
	}
	var req imageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.store.SetDetailImage(r.Context(), category, req.ImageURL); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, req)
}

// --- Settings ---

func (s *Server) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !keyRe.MatchString(key) {
		respondError(w, http.StatusBadRequest, "invalid setting key")
		return
	}
	value, ok, err := s.store.GetSetting(r.Context(), key)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "Setting not found")
		return
	}
	respondJSON(w, http.StatusOK, valueRequest{Value: value})
}

func (s *Server) handleSetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !keyRe.MatchString(key) {
		respondError(w, http.StatusBadRequest, "invalid setting key")
		return
	}
	if key == models.SettingCommissionRate {
		respondError(w, http.StatusBadRequest, "use /api/admin/commission to change the commission rate")
		return
	}
	var req valueRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.store.SetSetting(r.Context(), key, req.Value); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, req)
}
