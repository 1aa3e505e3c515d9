package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config holds application level configuration.
//
// Values are resolved in order: defaults, the TOML file named by CONFIG_FILE,
// a .env file in the working directory, then process environment variables.
type Config struct {
	ServerPort  string        `toml:"server_port"`
	DBDriver    string        `toml:"db_driver"`
	DatabaseDSN string        `toml:"database_dsn"`
	ResetDB     bool          `toml:"reset_db"`
	RedisAddr   string        `toml:"redis_addr"`
	RedisDB     int           `toml:"redis_db"`
	RedisPass   string        `toml:"redis_password"`
	JWTSecret   string        `toml:"jwt_secret"`
	TokenTTL    time.Duration `toml:"-"` // env only: TOKEN_TTL=24h
	SwaggerHost string        `toml:"swagger_host"`
	PageSize    int           `toml:"page_size"`
	LogLevel    string        `toml:"log_level"`
	PDFFontPath string        `toml:"pdf_font_path"`

	Media MediaConfig `toml:"media"`
}

// MediaConfig selects and configures the recipe image store.
type MediaConfig struct {
	Storage     string `toml:"storage"` // local or s3
	Root        string `toml:"root"`
	URL         string `toml:"url"`
	S3Bucket    string `toml:"s3_bucket"`
	S3Region    string `toml:"s3_region"`
	S3Endpoint  string `toml:"s3_endpoint"`
	S3AccessKey string `toml:"s3_access_key"`
	S3SecretKey string `toml:"s3_secret_key"`
	S3PublicURL string `toml:"s3_public_url"`
}

// Load builds Config from file and environment with sensible defaults.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", slog.Any("error", err))
	}

	applyEnv(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ServerPort:  "8080",
		DBDriver:    "mysql",
		DatabaseDSN: "user:password@tcp(localhost:3306)/foodgram?charset=utf8mb4&parseTime=True&loc=Local",
		RedisAddr:   "localhost:6379",
		JWTSecret:   "change-me",
		TokenTTL:    24 * time.Hour,
		PageSize:    6,
		LogLevel:    "info",
		Media: MediaConfig{
			Storage: "local",
			Root:    "media",
			URL:     "/media",
		},
	}
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.ResetDB = getEnvBool("RESET_DB", cfg.ResetDB)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisDB = getEnvInt("REDIS_DB", cfg.RedisDB)
	cfg.RedisPass = getEnv("REDIS_PASSWORD", cfg.RedisPass)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.TokenTTL = getEnvDuration("TOKEN_TTL", cfg.TokenTTL)
	cfg.SwaggerHost = getEnv("SWAGGER_HOST", cfg.SwaggerHost)
	cfg.PageSize = getEnvInt("PAGE_SIZE", cfg.PageSize)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.PDFFontPath = getEnv("PDF_FONT_PATH", cfg.PDFFontPath)

	cfg.Media.Storage = getEnv("IMAGE_STORAGE", cfg.Media.Storage)
	cfg.Media.Root = getEnv("MEDIA_ROOT", cfg.Media.Root)
	cfg.Media.URL = getEnv("MEDIA_URL", cfg.Media.URL)
	cfg.Media.S3Bucket = getEnv("S3_BUCKET", cfg.Media.S3Bucket)
	cfg.Media.S3Region = getEnv("S3_REGION", cfg.Media.S3Region)
	cfg.Media.S3Endpoint = getEnv("S3_ENDPOINT", cfg.Media.S3Endpoint)
	cfg.Media.S3AccessKey = getEnv("S3_ACCESS_KEY", cfg.Media.S3AccessKey)
	cfg.Media.S3SecretKey = getEnv("S3_SECRET_KEY", cfg.Media.S3SecretKey)
	cfg.Media.S3PublicURL = getEnv("S3_PUBLIC_URL", cfg.Media.S3PublicURL)
}

// SlogLevel parses LogLevel, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
