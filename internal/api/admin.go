package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/impoot/impoot/internal/auth"
	"github.com/impoot/impoot/internal/briefing"
	"github.com/impoot/impoot/internal/models"
	"github.com/impoot/impoot/internal/settlement"
)

type rolesRequest struct {
	Roles []string `json:"roles"`
}

type commissionRequest struct {
	Rate int `json:"commission_rate"`
}

type briefingsRequest struct {
	Lines []models.Briefing `json:"lines"`
}

type overviewResponse struct {
	Rate  int               `json:"commission_rate"`
	Lines []settlement.Line `json:"lines"`
}

// --- Users ---

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (s *Server) handleSetRoles(w http.ResponseWriter, r *http.Request) {
	var req rolesRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	known := map[string]bool{}
	for _, role := range models.KnownRoles() {
		known[role] = true
	}
	roles := []string{}
	seen := map[string]bool{}
	for _, role := range req.Roles {
		if !known[role] {
			respondError(w, http.StatusBadRequest, "unknown role: "+role)
			return
		}
		if !seen[role] {
			seen[role] = true
			roles = append(roles, role)
		}
	}

	userID := chi.URLParam(r, "userID")
	if err := s.store.SetRoles(r.Context(), userID, roles); err != nil {
		respondErr(w, r, err)
		return
	}
	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == auth.UserFromContext(r.Context()).ID {
		respondError(w, http.StatusBadRequest, "admins cannot delete themselves")
		return
	}
	if err := s.store.DeleteUser(r.Context(), userID); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Commission and settlement ---

func (s *Server) handleGetCommission(w http.ResponseWriter, r *http.Request) {
	rate, err := s.store.CommissionRate(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, commissionRequest{Rate: rate})
}

func (s *Server) handleSetCommission(w http.ResponseWriter, r *http.Request) {
	var req commissionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.store.SetCommissionRate(r.Context(), req.Rate); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, req)
}

func (s *Server) handleSettlementOverview(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListItems(r.Context(), "")
	if err != nil {
		respondErr(w, r, err)
		return
	}
	rate, err := s.store.CommissionRate(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, overviewResponse{Rate: rate, Lines: settlement.Overview(items, rate)})
}

func (s *Server) handleCompleteSettlement(w http.ResponseWriter, r *http.Request) {
	item := s.loadItem(w, r)
	if item == nil {
		return
	}
	completed := models.SettlementCompleted
	if err := s.store.UpdateItem(r.Context(), item.ID, &models.ItemUpdate{SettlementStatus: &completed}); err != nil {
		respondErr(w, r, err)
		return
	}
	item.SettlementStatus = completed
	if item.AuthorID != "" {
		msg := fmt.Sprintf("[%s] 모임의 정산이 완료되었습니다.", item.Title)
		if err := s.store.Notify(r.Context(), item.AuthorID, "정산 완료", msg); err != nil {
			log.Printf("api: notify settlement of item %d: %v", item.ID, err)
		}
	}
	respondJSON(w, http.StatusOK, item)
}

// --- Briefing ---

func (s *Server) handleReplaceBriefings(w http.ResponseWriter, r *http.Request) {
	var req briefingsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	lines, err := s.store.ReplaceBriefings(r.Context(), req.Lines)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, lines)
}

func (s *Server) handleGenerateBriefings(w http.ResponseWriter, r *http.Request) {
	if s.briefing == nil {
		respondError(w, http.StatusServiceUnavailable, briefing.ErrNotConfigured.Error())
		return
	}
	generated, err := briefing.Generate(r.Context(), s.briefing)
	if errors.Is(err, briefing.ErrNotConfigured) {
		respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		log.Printf("api: generate briefing: %v", err)
		respondError(w, http.StatusBadGateway, "briefing generation failed")
		return
	}
	lines, err := s.store.ReplaceBriefings(r.Context(), generated)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, lines)
}
