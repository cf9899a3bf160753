package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/impoot/impoot/internal/config"
	"github.com/impoot/impoot/internal/models"
	"github.com/impoot/impoot/internal/storage"
)

// bundle is the layout of a seed file
type bundle struct {
	Items         []models.Item                    `json:"items"`
	Slides        []models.Slide                   `json:"slides"`
	Notifications []models.Notification            `json:"notifications"`
	Headers       map[string]models.CategoryHeader `json:"headers"`
	DetailImages  map[string]string                `json:"detail_images"`
	Settings      map[string]string                `json:"settings"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	seedFile := flag.String("file", "./seeds/impoot.json", "Seed file")
	force := flag.Bool("force", false, "Insert items even if the database already has some")
	flag.Parse()

	store, err := storage.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	data, err := os.ReadFile(*seedFile)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}
	var b bundle
	if err := json.Unmarshal(data, &b); err != nil {
		log.Fatalf("Failed to parse seed file: %v", err)
	}

	ctx := context.Background()
	existing, err := store.ListItems(ctx, "")
	if err != nil {
		log.Fatalf("Failed to list items: %v", err)
	}
	if len(existing) > 0 && !*force {
		log.Printf("Skipping items and home content: database already has %d items (use -force)", len(existing))
	} else {
		seedContent(ctx, store, &b)
	}

	for category, h := range b.Headers {
		if err := store.SetCategoryHeader(ctx, category, h); err != nil {
			log.Printf("Warning: header %s: %v", category, err)
		}
	}
	for category, url := range b.DetailImages {
		if err := store.SetDetailImage(ctx, category, url); err != nil {
			log.Printf("Warning: detail image %s: %v", category, err)
		}
	}
	for key, value := range b.Settings {
		if err := store.SetSetting(ctx, key, value); err != nil {
			log.Printf("Warning: setting %s: %v", key, err)
		}
	}

	log.Println("🌱 Seeding complete!")
}

func seedContent(ctx context.Context, store *storage.Store, b *bundle) {
	for i := range b.Items {
		item := &b.Items[i]
		if !item.CategoryType.Valid() {
			log.Printf("Warning: skipping %q: unknown category %q", item.Title, item.CategoryType)
			continue
		}
		if _, err := store.CreateItem(ctx, item); err != nil {
			log.Printf("Warning: failed to seed item %q: %v", item.Title, err)
			continue
		}
		log.Printf("✓ Seeded %s item %q", item.CategoryType, item.Title)
	}
	for i := range b.Slides {
		if _, err := store.CreateSlide(ctx, &b.Slides[i]); err != nil {
			log.Printf("Warning: failed to seed slide %q: %v", b.Slides[i].Title, err)
		}
	}
	for i := range b.Notifications {
		if _, err := store.CreateNotification(ctx, &b.Notifications[i]); err != nil {
			log.Printf("Warning: failed to seed notification: %v", err)
		}
	}
}
