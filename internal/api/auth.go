package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/impoot/impoot/internal/apperr"
	"github.com/impoot/impoot/internal/auth"
	"github.com/impoot/impoot/internal/models"
)

const avatarURL = "https://api.dicebear.com/7.x/avataaars/svg?seed="

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type sessionResponse struct {
	User    *models.User  `json:"user"`
	Session *auth.Session `json:"session"`
}

// identify resolves the bearer token, if any, into the request's user.
// Requests with an invalid or expired token, or a token for a deleted
// user, continue anonymously and are rejected by requireUser.
func (s *Server) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.BearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		userID, err := s.issuer.Verify(token, auth.KindAccess)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.store.GetUser(r.Context(), userID)
		if err != nil {
			respondErr(w, r, err)
			return
		}
		if user == nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
	})
}

func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.UserFromContext(r.Context()) == nil {
			respondErr(w, r, apperr.New(apperr.Unauthenticated, "sign in required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requirePartner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.UserFromContext(r.Context()).IsPartner() {
			respondErr(w, r, apperr.New(apperr.PermissionDenied, "partner role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.UserFromContext(r.Context()).IsAdmin() {
			respondErr(w, r, apperr.New(apperr.PermissionDenied, "admin role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		respondError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}
	if req.Name == "" {
		req.Name = strings.SplitN(req.Email, "@", 2)[0]
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	roles := []string{}
	if s.isAdmin(req.Email) {
		roles = append(roles, models.RoleSuperAdmin)
	}
	user, err := s.store.CreateUser(r.Context(), &models.User{
		Email:  req.Email,
		Name:   req.Name,
		Avatar: avatarURL + url.QueryEscape(req.Email),
		Roles:  roles,
	}, hash)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	s.respondSession(w, r, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	user, hash, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if user == nil || !auth.CheckPassword(hash, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	// Accounts listed as admins after sign-up get promoted on their next login.
	if s.isAdmin(user.Email) && !user.IsAdmin() {
		roles := append(user.Roles, models.RoleSuperAdmin)
		if err := s.store.SetRoles(r.Context(), user.ID, roles); err != nil {
			respondErr(w, r, err)
			return
		}
		user.Roles = roles
	}
	s.respondSession(w, r, http.StatusOK, user)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, err := s.issuer.Verify(req.RefreshToken, auth.KindRefresh)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}
	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "user no longer exists")
		return
	}
	s.respondSession(w, r, http.StatusOK, user)
}

// Tokens are stateless; the client drops them.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) respondSession(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	session, err := s.issuer.Issue(user.ID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, status, sessionResponse{User: user, Session: session})
}
