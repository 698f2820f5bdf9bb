package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env             string
	Port            string
	DataFile        string
	BackupDir       string
	DiscordToken    string
	AdminChannelID  string
	ReviewChannelID string
	JWTSecret       string
	DashboardUser   string
	DashboardPass   string
	AdminKey        string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables directly")
	}

	return &Config{
		Env:             getEnv("ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		DataFile:        getEnv("DATA_FILE", "data.json"),
		BackupDir:       getEnv("BACKUP_DIR", "backups"),
		DiscordToken:    getEnv("DISCORD_TOKEN", ""),
		AdminChannelID:  getEnv("ADMIN_CHANNEL_ID", ""),
		ReviewChannelID: getEnv("REVIEW_CHANNEL_ID", ""),
		JWTSecret:       getEnv("JWT_SECRET", "dev-jwt-secret-not-for-production-use"),
		DashboardUser:   getEnv("DASHBOARD_USER", "admin"),
		DashboardPass:   getEnv("DASHBOARD_PASSWORD", "admin"),
		AdminKey:        getEnv("ADMIN_KEY", "dev-admin-key"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
