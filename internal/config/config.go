package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string

	TaxonomyPath        string // Optional YAML override for the workflow taxonomy
	WatchTaxonomy       bool   // Hot reload TaxonomyPath on change
	AlertRetentionDays  int    // Closed alerts older than this are purged
	AlertRetentionCron  string // Schedule for the retention sweeper
	CORSAllowedOrigins  string
	CompletionNoteLimit int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "go-pm"),
		SkipAuth:    getEnv("SKIP_AUTH", "false") == "true",
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "go-pm"),

		TaxonomyPath:        getEnv("TAXONOMY_PATH", ""),
		WatchTaxonomy:       getEnv("TAXONOMY_WATCH", "true") == "true",
		AlertRetentionDays:  getEnvInt("ALERT_RETENTION_DAYS", 30),
		AlertRetentionCron:  getEnv("ALERT_RETENTION_CRON", "0 3 * * *"),
		CORSAllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, http://localhost:3001"),
		CompletionNoteLimit: getEnvInt("COMPLETION_NOTE_LIMIT", 2000),
	}, nil
}

// IsProduction reports whether the service runs with production logging.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s=%q, using %d", key, value, fallback)
		return fallback
	}
	return n
}
