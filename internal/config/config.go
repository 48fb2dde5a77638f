// Package config reads server settings from the environment, after loading
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/kdimtricp/galleryguru/internal/database"
	"github.com/kdimtricp/galleryguru/internal/ingest"
	"github.com/kdimtricp/galleryguru/internal/storage"
)

const defaultMaxUploadSize = 32 << 20

type Config struct {
	Port           string
	MaxUploadSize  int64
	StorageType    string
	UploadDir      string
	S3             storage.S3Config
	Database       database.Config
	MigrationsPath string
	Ingest         ingest.Config
	ForwardURL     string
}

// Load reads the files (default ".env") into the environment without
// overriding variables that are already set, then builds the Config.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		StorageType:    getEnv("STORAGE_TYPE", "local"),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		ForwardURL:     os.Getenv("FORWARD_URL"),
		S3: storage.S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          os.Getenv("S3_BUCKET"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		},
		Ingest: ingest.Config{
			DefaultCollection:    getEnv("DEFAULT_COLLECTION", ingest.DefaultCollection),
			QuarantineCollection: getEnv("QUARANTINE_COLLECTION", ingest.DefaultQuarantineCollection),
		},
	}

	var err error
	if cfg.MaxUploadSize, err = getInt64("MAX_UPLOAD_SIZE", defaultMaxUploadSize); err != nil {
		return nil, err
	}
	if cfg.MaxUploadSize <= 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_SIZE: must be positive")
	}

	threshold, err := getInt64("DEDUP_THRESHOLD", ingest.DefaultThreshold)
	if err != nil {
		return nil, err
	}
	cfg.Ingest.Threshold = int(threshold)

	switch cfg.StorageType {
	case "local":
	case "s3":
		if cfg.S3.Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required when STORAGE_TYPE=s3")
		}
	default:
		return nil, fmt.Errorf("unsupported STORAGE_TYPE: %s", cfg.StorageType)
	}

	if cfg.Database, err = loadDatabase(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDatabase() (database.Config, error) {
	db := database.Config{Type: getEnv("DB_TYPE", "sqlite")}

	switch db.Type {
	case "sqlite":
		db.SQLitePath = getEnv("DB_PATH", "./galleryguru.db")
	case "postgres":
		port, err := getInt64("DB_PORT", 5432)
		if err != nil {
			return db, err
		}
		db.Host = getEnv("DB_HOST", "localhost")
		db.Port = int(port)
		db.User = getEnv("DB_USER", "galleryguru")
		db.Password = getEnv("DB_PASSWORD", "galleryguru_dev")
		db.Name = getEnv("DB_NAME", "galleryguru")
	default:
		return db, fmt.Errorf("unsupported DB_TYPE: %s", db.Type)
	}
	return db, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt64(key string, fallback int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
