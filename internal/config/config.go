// Package config reads process settings from the environment, loading a
// .env file first when one exists.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageLocal = "local"
	StorageDrive = "drive"
)

type Config struct {
	Port              string
	MongoURI          string
	DBName            string
	MongoTransactions bool
	JWTKey            string
	JWTTTL            time.Duration
	StorageBackend    string
	UploadsDir        string
	DriveCredentials  string
	DriveFolderID     string
	RedisURL          string
	RateLimit         string
	CORSOrigins       []string
	ExtractWorkers    int
	TesseractPath     string
	MaxUploadMB       int64
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv and validates it.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:             get("PORT", "8080"),
		MongoURI:         get("MONGO_URI", ""),
		DBName:           get("DB_NAME", "doctrack"),
		JWTKey:           get("JWT_KEY", ""),
		StorageBackend:   strings.ToLower(get("STORAGE_BACKEND", StorageLocal)),
		UploadsDir:       get("UPLOADS_DIR", "uploads"),
		DriveCredentials: get("DRIVE_CREDENTIALS", ""),
		DriveFolderID:    get("GOOGLE_DRIVE_FOLDER_ID", ""),
		RedisURL:         get("REDIS_URL", ""),
		RateLimit:        get("RATE_LIMIT", "120-M"),
		TesseractPath:    get("TESSERACT_PATH", "tesseract"),
	}
	if origins := get("CORS_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	var err error
	if cfg.MongoTransactions, err = strconv.ParseBool(get("MONGO_TRANSACTIONS", "false")); err != nil {
		return nil, fmt.Errorf("MONGO_TRANSACTIONS: %w", err)
	}
	if cfg.JWTTTL, err = time.ParseDuration(get("JWT_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("JWT_TTL: %w", err)
	}
	if cfg.ExtractWorkers, err = strconv.Atoi(get("EXTRACT_WORKERS", "2")); err != nil || cfg.ExtractWorkers < 1 {
		return nil, fmt.Errorf("EXTRACT_WORKERS must be a positive integer")
	}
	if cfg.MaxUploadMB, err = strconv.ParseInt(get("MAX_UPLOAD_MB", "50"), 10, 64); err != nil || cfg.MaxUploadMB < 1 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be a positive integer")
	}

	switch cfg.StorageBackend {
	case StorageLocal:
	case StorageDrive:
		if cfg.DriveCredentials == "" || cfg.DriveFolderID == "" {
			return nil, fmt.Errorf("DRIVE_CREDENTIALS and GOOGLE_DRIVE_FOLDER_ID are required for drive storage")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
	return cfg, nil
}
