package config

import (
	"fmt"
	"time"

	"meditrack_backend/pkg/utils"

	"github.com/joho/godotenv"
)

// Config holds application configuration values.
type Config struct {
	Port     string
	LogLevel string

	DBDriver string // postgres or sqlite
	DBDSN    string

	JWTSecret string
	JWTTTL    time.Duration

	CacheTTL time.Duration

	// ReplenishLevel is the stock a drug is set to when a restock is delivered.
	ReplenishLevel    int
	DefaultSupplierID int64

	KafkaBrokers []string
	KafkaTopic   string

	CORSAllowedOrigins []string
}

// Load reads .env (when present) and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		utils.LogDebug("No .env file loaded, using process environment", map[string]interface{}{"reason": err.Error()})
	}

	driver := utils.Getenv("DB_DRIVER", "postgres")
	dsn := utils.Getenv("DATABASE_DSN", "")
	if dsn == "" {
		if driver == "sqlite" {
			dsn = "meditrack.db"
		} else {
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
				utils.Getenv("DB_HOST", "localhost"),
				utils.Getenv("DB_PORT", "5432"),
				utils.Getenv("DB_USER", "meditrack_user"),
				utils.Getenv("DB_PASSWORD", "meditrack_password"),
				utils.Getenv("DB_NAME", "meditrack_db"),
				utils.Getenv("DB_SSLMODE", "disable"),
			)
		}
	}

	origins := utils.CSV(utils.Getenv("CORS_ALLOWED_ORIGINS", ""))
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:8501"}
	}

	return Config{
		Port:               utils.Getenv("PORT", "8080"),
		LogLevel:           utils.Getenv("LOG_LEVEL", "info"),
		DBDriver:           driver,
		DBDSN:              dsn,
		JWTSecret:          utils.Getenv("JWT_SECRET", "meditrack-dev-secret"),
		JWTTTL:             utils.GetenvDuration("JWT_TTL", 72*time.Hour),
		CacheTTL:           utils.GetenvDuration("CACHE_TTL", 5*time.Minute),
		ReplenishLevel:     int(utils.GetenvInt64("RESTOCK_REPLENISH_LEVEL", 200)),
		DefaultSupplierID:  utils.GetenvInt64("DEFAULT_SUPPLIER_ID", 1),
		KafkaBrokers:       utils.CSV(utils.Getenv("KAFKA_BROKERS", "")),
		KafkaTopic:         utils.Getenv("KAFKA_TOPIC", "meditrack.events"),
		CORSAllowedOrigins: origins,
	}
}
