package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	DatabaseURL     string
	DraftStoreType  string
	DraftDir        string
	ScoringURL      string
	GenerationURL   string
	PersistenceURL  string
	ServiceToken    string
	UpstreamTimeout time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:     dbURL,
		DraftStoreType:  normalizeDraftStore(getEnv("DRAFT_STORE", "file"), dbURL),
		DraftDir:        getEnv("DRAFT_DIR", "./data/drafts"),
		ScoringURL:      getEnv("SCORING_URL", "http://localhost:8001"),
		GenerationURL:   getEnv("GENERATION_URL", "http://localhost:8001"),
		PersistenceURL:  getEnv("PERSISTENCE_URL", "http://localhost:8002"),
		ServiceToken:    os.Getenv("SERVICE_TOKEN"),
		UpstreamTimeout: upstreamTimeout(),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeDraftStore(raw, dbURL string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "pg":
		return "postgres"
	case "memory":
		return "memory"
	case "file":
		return "file"
	default:
		if dbURL != "" {
			return "postgres"
		}
		return "file"
	}
}

func upstreamTimeout() time.Duration {
	if raw := strings.TrimSpace(os.Getenv("UPSTREAM_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return time.Duration(parsed) * time.Second
		}
	}
	return 30 * time.Second
}
