package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv          string
	Port            string
	DatabaseURL     string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBSSLMode       string
	RunMigrations   bool
	JWTSecret       string
	JWTExpiry       time.Duration
	SessionTTL      time.Duration
	SessionSweep    time.Duration
	RedisURL        string
	RedisAddr       string
	RedisPassword   string
	CacheTTL        time.Duration
	AMQPURL         string
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPass        string
	SMTPFrom        string
	CloudinaryURL   string
	CloudinaryName  string
	CloudinaryKey   string
	CloudinarySec   string
	GoogleClientID  string
	UploadDir       string
	MaxUploadSize   int64
	OriginURL       string
	DefaultLanguage string
	AdminEmail      string
	AdminPassword   string
}

var AppConfig *Config

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	AppConfig = FromEnv()

	log.Println("Configuration loaded successfully")
	log.Printf("Environment: %s", AppConfig.AppEnv)
	log.Printf("Server will run on port: %s", AppConfig.Port)
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() *Config {
	maxUploadSize, _ := strconv.ParseInt(os.Getenv("MAX_UPLOAD_SIZE"), 10, 64)
	if maxUploadSize <= 0 {
		maxUploadSize = 5242880
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		smtpPort = 587
	}

	return &Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		Port:            getEnv("APP_PORT", getEnv("PORT", "8082")),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBName:          getEnv("DB_NAME", "pc_store"),
		DBSSLMode:       getEnv("DB_SSLMODE", "disable"),
		RunMigrations:   getBool("RUN_MIGRATIONS", true),
		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		JWTExpiry:       getDuration("JWT_EXPIRY", 24*time.Hour),
		SessionTTL:      getDuration("SESSION_TTL", 7*24*time.Hour),
		SessionSweep:    getDuration("SESSION_SWEEP_INTERVAL", time.Hour),
		RedisURL:        os.Getenv("REDIS_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		CacheTTL:        getDuration("CACHE_TTL", 5*time.Minute),
		AMQPURL:         os.Getenv("AMQP_URL"),
		SMTPHost:        os.Getenv("SMTP_HOST"),
		SMTPPort:        smtpPort,
		SMTPUser:        os.Getenv("SMTP_USER"),
		SMTPPass:        os.Getenv("SMTP_PASS"),
		SMTPFrom:        os.Getenv("SMTP_FROM"),
		CloudinaryURL:   os.Getenv("CLOUDINARY_URL"),
		CloudinaryName:  os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryKey:   os.Getenv("CLOUDINARY_API_KEY"),
		CloudinarySec:   os.Getenv("CLOUDINARY_API_SECRET"),
		GoogleClientID:  os.Getenv("GOOGLE_CLIENT_ID"),
		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSize:   maxUploadSize,
		OriginURL:       os.Getenv("ORIGIN_URL"),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
		AdminEmail:      os.Getenv("ADMIN_EMAIL"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return defaultValue
	}
}
