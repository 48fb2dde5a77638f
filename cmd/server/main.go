package main

import (
	"context"
	"log"
	"net/http"

	"github.com/kdimtricp/galleryguru/internal/api"
	"github.com/kdimtricp/galleryguru/internal/config"
	"github.com/kdimtricp/galleryguru/internal/database"
	"github.com/kdimtricp/galleryguru/internal/gallery"
	"github.com/kdimtricp/galleryguru/internal/ingest"
	"github.com/kdimtricp/galleryguru/internal/phash"
	"github.com/kdimtricp/galleryguru/internal/storage"
	"github.com/kdimtricp/galleryguru/internal/upload"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	var blobs storage.Storage
	switch cfg.StorageType {
	case "s3":
		blobs, err = storage.NewS3Storage(ctx, cfg.S3)
	default:
		blobs, err = storage.NewLocalStorage(cfg.UploadDir)
	}
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}

	db, err := database.NewDB(cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	log.Printf("Running database migrations from %s", cfg.MigrationsPath)
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	store := gallery.NewStore(database.NewCatalogRepo(db))
	if err := store.Load(ctx); err != nil {
		log.Fatal("Failed to load catalog:", err)
	}
	store.Subscribe(func(e gallery.Event) {
		log.Printf("[GALLERY] %s collection=%s photo=%s tag=%s %s", e.Type, e.CollectionID, e.PhotoID, e.TagID, e.Name)
	})

	service := ingest.NewService(phash.NewDifferenceHasher(), store, cfg.Ingest)
	if _, err := service.Gallery(ctx); err != nil {
		log.Fatal("Failed to prepare default collection:", err)
	}

	app := &api.App{
		Store:         store,
		Ingest:        service,
		Storage:       blobs,
		MaxUploadSize: cfg.MaxUploadSize,
	}

	if cfg.ForwardURL != "" {
		fwd, err := upload.NewForwarder(cfg.ForwardURL, nil)
		if err != nil {
			log.Fatal("Invalid FORWARD_URL:", err)
		}
		app.Forwarder = fwd
		log.Printf("Forwarding new photos to %s", cfg.ForwardURL)
	}

	router := api.NewRouter(app)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Printf("Storage: %s", cfg.StorageType)
	log.Printf("Database type: %s", cfg.Database.Type)
	if cfg.Database.Type == "postgres" {
		log.Printf("Database connection: %s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
	} else {
		log.Printf("Database path: %s", cfg.Database.SQLitePath)
	}
	log.Printf("Catalog: %d collections, %d photos", len(store.Collections()), store.PhotoCount())
	log.Printf("Duplicate threshold: %d, quarantine: %q", service.Threshold(), service.QuarantineCollection())
	log.Printf("Max upload size: %d bytes", cfg.MaxUploadSize)

	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
