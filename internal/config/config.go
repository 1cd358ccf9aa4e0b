package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const envPrefix = "ETHIONEWS_"

type Config struct {
	Addr           string        `env:"ADDR"`
	DBPath         string        `env:"DB" envDefault:"ethionews.db"`
	JWTSecret      string        `env:"JWT_SECRET" envDefault:"dev-jwt-secret"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	UploadDir      string        `env:"UPLOAD_DIR" envDefault:"static/uploads"`
	UploadMaxBytes int64         `env:"UPLOAD_MAX_BYTES" envDefault:"10485760"`
	CORSOrigins    []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"text"`
	Site           Site
	RateLimits     RateLimits
}

// Site describes the public site used in feed metadata.
type Site struct {
	URL         string `env:"SITE_URL" envDefault:"https://ethiopiannews.com"`
	Title       string `env:"SITE_TITLE" envDefault:"Ethiopian News"`
	Description string `env:"SITE_DESCRIPTION" envDefault:"Latest news from Ethiopia"`
	FeedLimit   int    `env:"FEED_LIMIT" envDefault:"20"`
}

type RateLimits struct {
	LoginPerMinute      int `env:"RL_LOGIN_PER_MIN" envDefault:"10"`
	CommentPerMinute    int `env:"RL_COMMENT_PER_MIN" envDefault:"20"`
	SubmissionPerMinute int `env:"RL_SUBMISSION_PER_MIN" envDefault:"5"`
}

// Load reads an optional .env file (ETHIONEWS_ENV_FILE, default ".env")
// and parses ETHIONEWS_* variables. Values already in the environment win
// over the file.
func Load() (Config, error) {
	file := os.Getenv(envPrefix + "ENV_FILE")
	if file == "" {
		file = ".env"
	}
	if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", file, err)
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			cfg.Addr = ":" + port
		} else {
			cfg.Addr = ":8080"
		}
	}
	cfg.Site.URL = strings.TrimSuffix(cfg.Site.URL, "/")
	return cfg, nil
}

// NewLogger builds the process logger from the log settings.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
