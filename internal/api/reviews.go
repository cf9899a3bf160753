package api

import (
	"net/http"
	"strings"

	"github.com/impoot/impoot/internal/auth"
	"github.com/impoot/impoot/internal/models"
)

func (s *Server) handleListItemReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}
	reviews, err := s.store.ListReviewsByItem(r.Context(), id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, reviews)
}

func (s *Server) handleListCategoryReviews(w http.ResponseWriter, r *http.Request) {
	category := models.Category(r.URL.Query().Get("category"))
	if !category.Valid() {
		respondError(w, http.StatusBadRequest, "category is required")
		return
	}
	reviews, err := s.store.ListReviewsByCategory(r.Context(), category)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, reviews)
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req models.ReviewCreate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if msg := models.ValidateReview(req.Text, req.Rating); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	review, err := s.store.CreateReview(r.Context(), auth.UserFromContext(r.Context()), &req)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, review)
}

// loadOwnReview fetches the {id} review for its author or an admin.
func (s *Server) loadOwnReview(w http.ResponseWriter, r *http.Request) *models.Review {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid review ID")
		return nil
	}
	review, err := s.store.GetReview(r.Context(), id)
	if err != nil {
		respondErr(w, r, err)
		return nil
	}
	if review == nil {
		respondError(w, http.StatusNotFound, "Review not found")
		return nil
	}
	user := auth.UserFromContext(r.Context())
	if !user.IsAdmin() && review.UserID != user.ID {
		respondError(w, http.StatusForbidden, "only the author can change this review")
		return nil
	}
	return review
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	review := s.loadOwnReview(w, r)
	if review == nil {
		return
	}

	var req models.ReviewUpdate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Text != nil {
		text := strings.TrimSpace(*req.Text)
		req.Text = &text
	}

	isAdmin := auth.UserFromContext(r.Context()).IsAdmin()
	updated, err := s.store.UpdateReview(r.Context(), review.ID, &req, isAdmin)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	review := s.loadOwnReview(w, r)
	if review == nil {
		return
	}
	if err := s.store.DeleteReview(r.Context(), review.ID); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
