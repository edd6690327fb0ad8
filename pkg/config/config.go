package config

import (
	"os"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only fit for local development.
const DefaultJWTSecret = "lms-dev-secret"

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Auth     AuthConfig
	AI       AIConfig
	Import   ImportConfig
	Digest   DigestConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	URL string
	// SeedDemo fills an empty lead table with sample leads on startup.
	SeedDemo bool
}

// RedisConfig enables cross-instance change notification when URL is set.
type RedisConfig struct {
	URL string
}

type JWTConfig struct {
	Secret string
}

func (c JWTConfig) UsingDefault() bool {
	return c.Secret == DefaultJWTSecret
}

type AuthConfig struct {
	// AdminPasswordHash is a bcrypt hash; an empty value disables login.
	AdminPasswordHash string
	CommentAuthor     string
}

type AIConfig struct {
	APIKey string
	Model  string
}

type ImportConfig struct {
	Bucket string
	Region string
}

type DigestConfig struct {
	ResendAPIKey string
	To           string
	Schedule     string
}

type LogConfig struct {
	Level string
}

func Load() *Config {
	godotenv.Load() // .env is optional

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			SeedDemo: getEnv("SEED_DEMO", "false") == "true",
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", DefaultJWTSecret),
		},
		Auth: AuthConfig{
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			CommentAuthor:     getEnv("COMMENT_AUTHOR", "Admin"),
		},
		AI: AIConfig{
			APIKey: getEnv("API_KEY", getEnv("GEMINI_API_KEY", "")),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Import: ImportConfig{
			Bucket: getEnv("IMPORT_BUCKET", ""),
			Region: getEnv("AWS_REGION", "ap-south-1"),
		},
		Digest: DigestConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			To:           getEnv("DIGEST_EMAIL", ""),
			Schedule:     getEnv("DIGEST_SCHEDULE", "0 19 * * *"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
