package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	// WhatsApp Cloud API
	WhatsAppToken       string
	WhatsAppPhoneID     string
	WhatsAppAPIBaseURL  string
	WhatsAppVerifyToken string
	SendTimeout         time.Duration
	SendMaxRetries      int

	// Lead store backend: file, memory, postgres, dynamo
	LeadsBackend string
	LeadsPath    string
	DatabaseURL  string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	LeadsTable          string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	Timezone string

	AdminJWTSecret string

	// Google Sheets appointment export
	SheetsCredentialsFile string
	SheetsSpreadsheetID   string

	// Sales team notifications
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SalesEmail        string

	// Media asset name -> provider media id, keyed by kind
	MediaMap MediaMap
}

// MediaMap holds provider-side media ids for named assets.
type MediaMap struct {
	Stickers map[string]string `json:"stickers"`
	Images   map[string]string `json:"images"`
	Videos   map[string]string `json:"videos"`
	Audio    map[string]string `json:"audio"`
}

// ID resolves a media id by kind and name, returning "" when unknown.
func (m MediaMap) ID(kind, name string) string {
	switch kind {
	case "sticker":
		return m.Stickers[name]
	case "image":
		return m.Images[name]
	case "video":
		return m.Videos[name]
	case "audio":
		return m.Audio[name]
	}
	return ""
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		WhatsAppToken:       getEnv("WHATSAPP_TOKEN", ""),
		WhatsAppPhoneID:     getEnv("WHATSAPP_PHONE_ID", ""),
		WhatsAppAPIBaseURL:  getEnv("WHATSAPP_API_BASE_URL", ""),
		WhatsAppVerifyToken: getEnv("WHATSAPP_VERIFY_TOKEN", ""),
		SendTimeout:         getEnvAsDuration("WHATSAPP_SEND_TIMEOUT", 10*time.Second),
		SendMaxRetries:      getEnvAsInt("WHATSAPP_SEND_MAX_RETRIES", 2),

		LeadsBackend: strings.ToLower(strings.TrimSpace(getEnv("LEADS_BACKEND", "file"))),
		LeadsPath:    getEnv("LEADS_PATH", "leads.json"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		LeadsTable:          getEnv("LEADS_TABLE", "volky_leads"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		Timezone: getEnv("BOT_TIMEZONE", "America/Mexico_City"),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		SheetsCredentialsFile: getEnv("SHEETS_CREDENTIALS_FILE", ""),
		SheetsSpreadsheetID:   getEnv("SHEETS_SPREADSHEET_ID", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Volky"),
		SalesEmail:        getEnv("SALES_EMAIL", ""),

		MediaMap: loadMediaMap(getEnv("MEDIA_MAP_JSON", "")),
	}
}

// loadMediaMap parses the media map from JSON; malformed input yields an empty map.
func loadMediaMap(raw string) MediaMap {
	var m MediaMap
	if raw == "" {
		return m
	}
	_ = json.Unmarshal([]byte(raw), &m)
	return m
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
