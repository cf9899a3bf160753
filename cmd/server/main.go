package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/impoot/impoot/internal/api"
	"github.com/impoot/impoot/internal/auth"
	"github.com/impoot/impoot/internal/briefing"
	"github.com/impoot/impoot/internal/config"
	"github.com/impoot/impoot/internal/media"
	"github.com/impoot/impoot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags override the environment
	port := flag.String("port", cfg.Port, "Server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	webDir := flag.String("web", "", "Optional directory of built frontend files to serve at /")
	flag.Parse()
	cfg.Port, cfg.DBPath = *port, *dbPath

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize storage
	store, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	bucket, err := media.New(cfg.MediaDir, cfg.PublicURL, cfg.MaxUploadBytes)
	if err != nil {
		log.Fatalf("Failed to initialize media: %v", err)
	}

	var generator briefing.Generator
	if cfg.LLMAPIKey != "" {
		generator = briefing.NewChatGenerator(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
	} else {
		log.Printf("IMPOOT_LLM_API_KEY not set, briefing generation disabled")
	}

	srv := api.New(api.Options{
		Store:          store,
		Issuer:         auth.NewIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL),
		Media:          bucket,
		Briefing:       generator,
		AdminEmails:    cfg.IsAdminEmail,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	// Serve frontend static files (for production deployment)
	if *webDir != "" {
		if _, err := os.Stat(*webDir); err != nil {
			log.Fatalf("Frontend directory: %v", err)
		}
		FileServer(srv.Router(), "/", http.Dir(*webDir))
	}

	log.Printf("🚀 impoot API starting on http://localhost:%s", cfg.Port)
	log.Printf("📦 Database: %s", cfg.DBPath)
	log.Printf("🖼  Media: %s", cfg.MediaDir)

	if err := http.ListenAndServe(":"+cfg.Port, srv); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// FileServer conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", 301).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, req *http.Request) {
		rctx := chi.RouteContext(req.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, req)
	})
}
