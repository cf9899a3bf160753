package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/impoot/impoot/internal/apperr"
	"github.com/impoot/impoot/internal/auth"
	"github.com/impoot/impoot/internal/briefing"
	"github.com/impoot/impoot/internal/media"
	"github.com/impoot/impoot/internal/storage"
)

// Options are the dependencies of the API server
type Options struct {
	Store          *storage.Store
	Issuer         *auth.Issuer
	Media          *media.Bucket
	Briefing       briefing.Generator
	AdminEmails    func(email string) bool
	AllowedOrigins []string
}

// Server holds the HTTP server dependencies
type Server struct {
	store    *storage.Store
	issuer   *auth.Issuer
	media    *media.Bucket
	briefing briefing.Generator
	isAdmin  func(email string) bool
	origins  []string
	router   chi.Router
}

// New creates a new API server
func New(opts Options) *Server {
	s := &Server{
		store:    opts.Store,
		issuer:   opts.Issuer,
		media:    opts.Media,
		briefing: opts.Briefing,
		isAdmin:  opts.AdminEmails,
		origins:  opts.AllowedOrigins,
		router:   chi.NewRouter(),
	}
	if s.isAdmin == nil {
		s.isAdmin = func(string) bool { return false }
	}
	if len(s.origins) == 0 {
		s.origins = []string{"http://localhost:*"}
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router exposes the underlying router so binaries can mount extra handlers.
func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	s.router.Use(s.identify)
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		// Auth
		r.Post("/auth/signup", s.handleSignUp)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)
		r.Post("/auth/logout", s.handleLogout)

		// Home page bundle
		r.Get("/home", s.handleGetHome)
		r.Get("/levels", s.handleGetLevels)

		// Items
		r.Get("/items", s.handleListItems)
		r.Get("/items/{id}", s.handleGetItem)
		r.Get("/items/{id}/reviews", s.handleListItemReviews)
		r.Get("/reviews", s.handleListCategoryReviews)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)

			// Current user
			r.Get("/me", s.handleGetMe)
			r.Patch("/me", s.handleUpdateMe)
			r.Get("/me/likes", s.handleListLikes)
			r.Get("/me/applies", s.handleListApplies)
			r.Get("/me/unlocks", s.handleListUnlocks)
			r.Get("/me/applications", s.handleListMyApplications)
			r.Get("/me/notifications", s.handleListNotifications)
			r.Post("/me/notifications/{id}/read", s.handleMarkNotificationRead)
			r.Get("/me/progress", s.handleGetProgress)
			r.Get("/me/reviewable", s.handleListReviewable)
			r.Get("/me/banner", s.handleGetBanner)

			// Participation
			r.Post("/items/{id}/like", s.handleToggleLike)
			r.Post("/items/{id}/apply", s.handleApply)
			r.Post("/items/{id}/cancel", s.handleCancelApplication)
			r.Post("/items/{id}/unlock", s.handleUnlock)

			// Reviews
			r.Post("/reviews", s.handleCreateReview)
			r.Patch("/reviews/{id}", s.handleUpdateReview)
			r.Delete("/reviews/{id}", s.handleDeleteReview)

			// Uploads
			r.Post("/uploads", s.handleUpload)

			// Partner
			r.Group(func(r chi.Router) {
				r.Use(requirePartner)
				r.Get("/partner/items", s.handleListMyItems)
				r.Get("/partner/settlement", s.handleGetSettlement)
				r.Post("/items", s.handleCreateItem)
				r.Patch("/items/{id}", s.handleUpdateItem)
				r.Delete("/items/{id}", s.handleDeleteItem)
				r.Get("/items/{id}/applicants", s.handleListApplicants)
				r.Put("/items/{id}/applicants/{userID}", s.handleChangeApplicantStatus)
			})

			// Admin
			r.Route("/admin", func(r chi.Router) {
				r.Use(requireAdmin)

				r.Get("/users", s.handleListUsers)
				r.Put("/users/{userID}/roles", s.handleSetRoles)
				r.Delete("/users/{userID}", s.handleDeleteUser)

				r.Post("/slides", s.handleCreateSlide)
				r.Patch("/slides/{id}", s.handleUpdateSlide)
				r.Delete("/slides/{id}", s.handleDeleteSlide)

				r.Post("/notifications", s.handleCreateNotification)
				r.Patch("/notifications/{id}", s.handleUpdateNotification)
				r.Delete("/notifications/{id}", s.handleDeleteNotification)

				r.Put("/headers/{category}", s.handleSetCategoryHeader)
				r.Put("/detail-images/{category}", s.handleSetDetailImage)

				r.Get("/settings/{key}", s.handleGetSetting)
				r.Put("/settings/{key}", s.handleSetSetting)
				r.Get("/commission", s.handleGetCommission)
				r.Put("/commission", s.handleSetCommission)

				r.Put("/briefings", s.handleReplaceBriefings)
				r.Post("/briefings/generate", s.handleGenerateBriefings)

				r.Get("/settlement", s.handleSettlementOverview)
				r.Post("/items/{id}/settle", s.handleCompleteSettlement)
			})
		})
	})

	// Uploaded files
	if s.media != nil {
		fs := http.StripPrefix(media.URLPrefix+"/", http.FileServer(http.Dir(s.media.Root())))
		s.router.Get(media.URLPrefix+"/*", fs.ServeHTTP)
	}

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondErr maps an error from the domain layer onto an HTTP status.
// Errors without an apperr code are logged and reported as 500.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.CodeOf(err)
	if code == apperr.Internal {
		log.Printf("api: %s %s: %v", r.Method, r.URL.Path, err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondError(w, statusOf(code), apperr.MessageOf(err))
}

func statusOf(code apperr.Code) int {
	switch code {
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.InvalidArgument:
		return http.StatusBadRequest
	case apperr.Conflict:
		return http.StatusConflict
	case apperr.FailedPrecondition:
		return http.StatusUnprocessableEntity
	case apperr.Unauthenticated:
		return http.StatusUnauthorized
	case apperr.PermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// idParam parses an integer URL parameter.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}
