package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds every runtime parameter. It is built once in main and
// passed by reference; core logic never reads the environment directly.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	ServerPort  string `env:"SERVER_PORT" envDefault:"8080"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// Access and refresh tokens are signed with independent secrets so
	// that compromise of one kind cannot forge the other.
	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET,required"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET,required"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL    time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`

	// S3-compatible media store (MinIO in dev).
	MediaEndpoint  string `env:"MEDIA_ENDPOINT,required"`
	MediaAccessKey string `env:"MEDIA_ACCESS_KEY_ID,required"`
	MediaSecretKey string `env:"MEDIA_SECRET_ACCESS_KEY,required"`
	MediaBucket    string `env:"MEDIA_BUCKET,required"`
	MediaRegion    string `env:"MEDIA_REGION" envDefault:"us-east-1"`
	MediaUseSSL    bool   `env:"MEDIA_USE_SSL"`

	TempUploadDir string `env:"TEMP_UPLOAD_DIR" envDefault:"./tmp/uploads"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"true"`
}

// Load reads a local .env file when present, then parses the environment.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
