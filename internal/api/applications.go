package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/impoot/impoot/internal/auth"
	"github.com/impoot/impoot/internal/models"
)

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	item := s.loadItem(w, r)
	if item == nil {
		return
	}
	if item.Status != models.ItemOpen {
		respondError(w, http.StatusUnprocessableEntity, "모집이 마감된 모임입니다.")
		return
	}

	var req models.ApplicationCreate
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserPhone != "" && !models.ValidPhone(req.UserPhone) {
		respondError(w, http.StatusBadRequest, "phone must look like 010-1234-5678")
		return
	}

	app, err := s.store.Apply(r.Context(), auth.UserFromContext(r.Context()).ID, item.ID, &req)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, app)
}

func (s *Server) handleCancelApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req models.ApplicationCancel
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	app, err := s.store.CancelApplication(r.Context(), auth.UserFromContext(r.Context()).ID, id, &req)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, app)
}

func (s *Server) handleListApplicants(w http.ResponseWriter, r *http.Request) {
	item := s.loadManagedItem(w, r)
	if item == nil {
		return
	}
	apps, err := s.store.ListApplicationsByItem(r.Context(), item.ID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, apps)
}

func (s *Server) handleChangeApplicantStatus(w http.ResponseWriter, r *http.Request) {
	item := s.loadManagedItem(w, r)
	if item == nil {
		return
	}

	var req models.StatusChange
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Status.Valid() {
		respondError(w, http.StatusBadRequest, "unknown application status")
		return
	}

	app, err := s.store.UpdateApplicationStatus(r.Context(), chi.URLParam(r, "userID"), item.ID, req.Status)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, app)
}
