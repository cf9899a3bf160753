package api

import (
	"net/http"
	"strings"

	"github.com/impoot/impoot/internal/apperr"
	"github.com/impoot/impoot/internal/auth"
	"github.com/impoot/impoot/internal/models"
	"github.com/impoot/impoot/internal/settlement"
)

// canManage reports whether user may edit item and see its applicants.
func canManage(user *models.User, item *models.Item) bool {
	return user.IsAdmin() || (user != nil && item.AuthorID != "" && item.AuthorID == user.ID)
}

// loadItem fetches the {id} item or answers 400/404.
func (s *Server) loadItem(w http.ResponseWriter, r *http.Request) *models.Item {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid item ID")
		return nil
	}
	item, err := s.store.GetItem(r.Context(), id)
	if err != nil {
		respondErr(w, r, err)
		return nil
	}
	if item == nil {
		respondError(w, http.StatusNotFound, "Item not found")
		return nil
	}
	return item
}

// loadManagedItem is loadItem restricted to the item's owner and admins.
func (s *Server) loadManagedItem(w http.ResponseWriter, r *http.Request) *models.Item {
	item := s.loadItem(w, r)
	if item == nil {
		return nil
	}
	if !canManage(auth.UserFromContext(r.Context()), item) {
		respondErr(w, r, apperr.New(apperr.PermissionDenied, "only the host can manage this item"))
		return nil
	}
	return item
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	category := models.Category(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		respondError(w, http.StatusBadRequest, "unknown category")
		return
	}
	items, err := s.store.ListItems(r.Context(), category)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	for i := range items {
		items[i].Details.ReportContent = ""
	}
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item := s.loadItem(w, r)
	if item == nil {
		return
	}
	if err := s.store.IncrementViews(r.Context(), item.ID); err != nil {
		respondErr(w, r, err)
		return
	}
	item.Views++

	// Crew reports are paid content.
	if item.Details.ReportContent != "" {
		user := auth.UserFromContext(r.Context())
		visible := canManage(user, item)
		if !visible && user != nil {
			unlocked, err := s.store.HasUnlocked(r.Context(), user.ID, item.ID)
			if err != nil {
				respondErr(w, r, err)
				return
			}
			visible = unlocked
		}
		if !visible {
			item.Details.ReportContent = ""
		}
	}
	respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleListMyItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListItemsByAuthor(r.Context(), auth.UserFromContext(r.Context()).ID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// partnerSettlement computes the signed-in partner's settlement summary.
func (s *Server) partnerSettlement(r *http.Request) (settlement.Summary, error) {
	ctx := r.Context()
	items, err := s.store.ListItemsByAuthor(ctx, auth.UserFromContext(ctx).ID)
	if err != nil {
		return settlement.Summary{}, err
	}
	rate, err := s.store.CommissionRate(ctx)
	if err != nil {
		return settlement.Summary{}, err
	}
	return settlement.Compute(items, rate), nil
}

func (s *Server) handleGetSettlement(w http.ResponseWriter, r *http.Request) {
	summary, err := s.partnerSettlement(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var req models.ItemCreate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.CategoryType.Valid() {
		respondError(w, http.StatusBadRequest, "unknown category")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if _, err := settlement.ParsePrice(req.Price); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !user.CanHost(req.CategoryType) {
		respondErr(w, r, apperr.New(apperr.PermissionDenied, "no partner role for this category"))
		return
	}
	if !user.IsAdmin() {
		summary, err := s.partnerSettlement(r)
		if err != nil {
			respondErr(w, r, err)
			return
		}
		if summary.BlockedByFee {
			respondErr(w, r, apperr.New(apperr.FailedPrecondition,
				"정산되지 않은 수수료가 있어 새 모임을 개설할 수 없습니다."))
			return
		}
	}

	item, err := s.store.CreateItem(r.Context(), &models.Item{
		CategoryType:    req.CategoryType,
		Title:           strings.TrimSpace(req.Title),
		Img:             req.Img,
		Author:          user.Name,
		AuthorID:        user.ID,
		Description:     req.Description,
		EventDate:       req.EventDate,
		Price:           req.Price,
		Location:        req.Location,
		HostBankInfo:    req.HostBankInfo,
		KakaoChatURL:    req.KakaoChatURL,
		HostDescription: req.HostDescription,
		HostIntroImage:  req.HostIntroImage,
		Details:         req.Details,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	item := s.loadManagedItem(w, r)
	if item == nil {
		return
	}

	var req models.ItemUpdate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status != nil && !models.ValidItemStatus(*req.Status) {
		respondError(w, http.StatusBadRequest, "unknown item status")
		return
	}
	if req.Price != nil {
		if _, err := settlement.ParsePrice(*req.Price); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	isAdmin := auth.UserFromContext(r.Context()).IsAdmin()
	// An ended item keeps its status until the fee is settled.
	if req.Status != nil && *req.Status != models.ItemEnded && !isAdmin &&
		item.Status == models.ItemEnded && item.SettlementStatus == models.SettlementPending {
		respondErr(w, r, apperr.New(apperr.FailedPrecondition,
			"정산이 완료되지 않은 종료 모임은 다시 열 수 없습니다."))
		return
	}
	if req.SettlementStatus != nil {
		if !isAdmin {
			respondErr(w, r, apperr.New(apperr.PermissionDenied, "only admins can settle items"))
			return
		}
		if !models.ValidSettlementStatus(*req.SettlementStatus) {
			respondError(w, http.StatusBadRequest, "unknown settlement status")
			return
		}
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	if err := s.store.UpdateItem(r.Context(), item.ID, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	updated, err := s.store.GetItem(r.Context(), item.ID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	item := s.loadManagedItem(w, r)
	if item == nil {
		return
	}
	if err := s.store.DeleteItem(r.Context(), item.ID); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Interactions ---

func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	item := s.loadItem(w, r)
	if item == nil {
		return
	}
	likes, err := s.store.ToggleLike(r.Context(), auth.UserFromContext(r.Context()).ID, item.ID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, likes)
}

func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	item := s.loadItem(w, r)
	if item == nil {
		return
	}
	if item.CategoryType != models.CategoryCrew {
		respondError(w, http.StatusBadRequest, "only crew reports can be unlocked")
		return
	}
	if err := s.store.Unlock(r.Context(), auth.UserFromContext(r.Context()).ID, item.ID); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}
