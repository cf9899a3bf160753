package api

import (
	"net/http"

	"github.com/impoot/impoot/internal/auth"
	"github.com/impoot/impoot/internal/models"
	"github.com/impoot/impoot/internal/progress"
)

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, auth.UserFromContext(r.Context()))
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var req models.ProfileUpdate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.Validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if err := s.store.UpdateProfile(r.Context(), user.ID, &req); err != nil {
		respondErr(w, r, err)
		return
	}

	updated, err := s.store.GetUser(r.Context(), user.ID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleListLikes(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.ListLikes(r.Context(), auth.UserFromContext(r.Context()).ID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ids)
}

func (s *Server) handleListApplies(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.ListApplies(r.Context(), auth.UserFromContext(r.Context()).ID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ids)
}

func (s *Server) handleListUnlocks(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.ListUnlocks(r.Context(), auth.UserFromContext(r.Context()).ID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ids)
}

func (s *Server) handleListMyApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.store.ListApplicationsByUser(r.Context(), auth.UserFromContext(r.Context()).ID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, apps)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	notes, err := s.store.ListUnreadNotifications(r.Context(), auth.UserFromContext(r.Context()).ID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, notes)
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}
	if err := s.store.MarkNotificationRead(r.Context(), id, auth.UserFromContext(r.Context()).ID); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	activity, err := s.store.Activity(r.Context(), auth.UserFromContext(r.Context()).ID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, progress.Compute(activity))
}

func (s *Server) handleGetLevels(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, progress.Ranks())
}

func (s *Server) handleListReviewable(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListReviewableItems(r.Context(), auth.UserFromContext(r.Context()).ID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetBanner(w http.ResponseWriter, r *http.Request) {
	banner, err := s.store.MyPageBanner(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"url": banner})
}
