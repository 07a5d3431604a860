package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every setting of the bracket service.
type Config struct {
	DatabaseURL  string
	ServerPort   int
	JWTSecretKey string // empty disables token checks on mutating routes
	CORSOrigins  []string

	RateLimitRPS   float64
	RateLimitBurst int

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
	SnapshotPrefix    string
}

// Load reads the configuration from the environment, loading a .env file first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	port, err := intFromEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	rps := 20.0
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err = strconv.ParseFloat(v, 64)
		if err != nil || rps <= 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_RPS %q: must be a positive number", v)
		}
	}
	burst, err := intFromEnv("RATE_LIMIT_BURST", 40)
	if err != nil {
		return nil, err
	}
	if burst < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got %d", burst)
	}

	cfg := &Config{
		DatabaseURL:       dbURL,
		ServerPort:        port,
		JWTSecretKey:      os.Getenv("JWT_SECRET_KEY"),
		CORSOrigins:       splitList(os.Getenv("CORS_ORIGINS")),
		RateLimitRPS:      rps,
		RateLimitBurst:    burst,
		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		SnapshotPrefix:    os.Getenv("SNAPSHOT_PREFIX"),
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	return cfg, nil
}

func intFromEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
