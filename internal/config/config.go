package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	AdminMasterKey     string
	AdminSessionSecret string
	AdminSessionTTL    time.Duration
	QRSigningSecret    string
	SuperAdminEmail    string

	OTPExpiry       time.Duration
	FoodCooldown    time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users         string
	AdminUsers    string
	Events        string
	Registrations string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
			AdminUsers:    getEnv("DYNAMO_TABLE_ADMIN_USERS", "admin_users"),
			Events:        getEnv("DYNAMO_TABLE_EVENTS", "events"),
			Registrations: getEnv("DYNAMO_TABLE_REGISTRATIONS", "registrations"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "dakshh-event-banners"),

		AdminMasterKey:     getEnv("ADMIN_MASTER_KEY", ""),
		AdminSessionSecret: getEnv("ADMIN_SESSION_SECRET", "dev-admin-secret"),
		AdminSessionTTL:    time.Duration(getEnvInt("ADMIN_SESSION_TTL_HOURS", 24)) * time.Hour,
		QRSigningSecret:    getEnv("QR_SIGNING_SECRET", "dev-qr-secret"),
		SuperAdminEmail:    getEnv("SUPER_ADMIN_EMAIL", ""),

		OTPExpiry:    time.Duration(getEnvInt("OTP_EXPIRY_MINUTES", 10)) * time.Minute,
		FoodCooldown: time.Duration(getEnvInt("FOOD_COOLDOWN_MINUTES", 120)) * time.Minute,

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@dakshh-hitk.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
