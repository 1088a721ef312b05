// Package config loads application configuration from environment
// variables and holds the mutable runtime settings.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Version reported by the health endpoint and stamped into backups.
const Version = "5.0.0"

// Config holds all startup configuration. Each field corresponds to an
// environment variable. Values that admins may change at runtime (bot
// token, chat id, image-host key) are only the initial values here; the
// live copies are kept in Settings.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DatabaseURL  string // base URL of the remote document database deployment
	BotToken     string // messaging bot token (initial value)
	ChatID       string // messaging channel chat id (initial value)
	ImageHostKey string // image-host API key (initial value)
	UsersFile    string // path of the local users JSON file
	SessionsFile string // path of the local sessions JSON file
	BackupDir    string // directory for local backup files
}

// Load reads configuration from the environment, after sourcing a .env
// file when present. Only the port and database URL are required; the
// messaging and image-host credentials may be blank and supplied later
// through the settings endpoint.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:          getenv("APP_ENV", "dev"),
		Port:         getenv("APP_PORT", "8000"),
		DatabaseURL:  must("DATABASE_URL"),
		BotToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		ChatID:       os.Getenv("TELEGRAM_CHAT_ID"),
		ImageHostKey: os.Getenv("IMGBB_API_KEY"),
		UsersFile:    getenv("USERS_FILE", "users.json"),
		SessionsFile: getenv("SESSIONS_FILE", "sessions.json"),
		BackupDir:    getenv("BACKUP_DIR", "backups"),
	}
}

// must retrieves a required environment variable. A missing or empty
// value aborts startup with a fatal log message.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the variable's value or a default when unset.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
