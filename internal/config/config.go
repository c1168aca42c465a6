package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string
	JWTSecret  string

	RedisAddr     string
	RedisPassword string

	KafkaBrokers      []string
	KafkaPaymentTopic string

	SettingsFile     string
	BlogFallbackFile string
	UploadDir        string
	PublicDir        string
	CORSOrigins      []string

	// SnowflakeNodeID must be unique per running instance.
	SnowflakeNodeID int64

	// MigrationModeUntil, when set and in the future, lets admins without a
	// stored password hash sign in once to set one.
	MigrationModeUntil *time.Time
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:            os.Getenv("DB_HOST"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		DBPort:            os.Getenv("DB_PORT"),
		AppPort:           getenv("APP_PORT", "8080"),
		AppEnv:            os.Getenv("APP_ENV"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaPaymentTopic: getenv("KAFKA_PAYMENT_TOPIC", "payment-events"),
		SettingsFile:      getenv("SETTINGS_FILE", "data/settings.json"),
		BlogFallbackFile:  getenv("BLOG_FALLBACK_FILE", "data/blog.json"),
		UploadDir:         getenv("UPLOAD_DIR", "public/uploads"),
		PublicDir:         getenv("PUBLIC_DIR", "public"),
		CORSOrigins:       splitList(getenv("CORS_ORIGINS", "http://localhost:3000")),
	}

	cfg.SnowflakeNodeID = 1
	if raw := os.Getenv("SNOWFLAKE_NODE_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Printf("ignoring SNOWFLAKE_NODE_ID=%q: %v", raw, err)
		} else {
			cfg.SnowflakeNodeID = id
		}
	}

	if raw := strings.TrimSpace(os.Getenv("MIGRATION_MODE_UNTIL")); raw != "" {
		until, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			log.Printf("ignoring MIGRATION_MODE_UNTIL=%q: %v", raw, err)
		} else {
			cfg.MigrationModeUntil = &until
		}
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
