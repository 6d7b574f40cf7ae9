package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var ErrEmptyEnvironmentVariable = errors.New("empty environment variable")

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Messaging MessagingConfig
	Services  ServicesConfig
	Server    ServerConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Username string
	Password string
	Name     string
}

// MessagingConfig holds WhatsApp channel configuration.
// Twilio credentials are optional; when empty the dispatcher reports
// sends as unconfigured instead of failing startup.
type MessagingConfig struct {
	TwilioAccountSID   string
	TwilioAuthToken    string
	WhatsAppFrom       string
	AdminWhatsApp      string
	DefaultCountryCode string
}

// ServicesConfig holds external service API keys and configuration
type ServicesConfig struct {
	OpenAIAPIKey       string
	ResendAPIKey       string
	DefaultEmailSender string
	AdminEmail         string
	WebsiteURL         string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int
}

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	// Load env.local in non-production environments
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}

	cfg := &Config{}

	// Database configuration
	var err error
	if cfg.Database.Host, err = requireEnv("DB_HOST"); err != nil {
		return nil, err
	}
	if cfg.Database.Username, err = requireEnv("DB_USERNAME"); err != nil {
		return nil, err
	}
	if cfg.Database.Password, err = requireEnv("DB_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.Database.Name, err = requireEnv("DB_NAME"); err != nil {
		return nil, err
	}

	// Messaging configuration. Credentials may be absent in development;
	// missing values degrade to unconfigured-channel behavior at send time.
	cfg.Messaging.TwilioAccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	cfg.Messaging.TwilioAuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	cfg.Messaging.WhatsAppFrom = os.Getenv("TWILIO_WHATSAPP_FROM")
	cfg.Messaging.AdminWhatsApp = os.Getenv("ADMIN_WHATSAPP")
	cfg.Messaging.DefaultCountryCode = getEnvWithDefault("DEFAULT_COUNTRY_CODE", "54")

	// Services configuration. AI and email are optional integrations.
	cfg.Services.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Services.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	cfg.Services.DefaultEmailSender = getEnvWithDefault("DEFAULT_EMAIL_SENDER_ADDRESS", "crm@nexaconstructora.com.ar")
	cfg.Services.AdminEmail = os.Getenv("ADMIN_EMAIL")
	cfg.Services.WebsiteURL = getEnvWithDefault("WEBSITE_URL", "https://nexaconstructora.com.ar")

	// Server configuration
	serverPort, err := requireEnv("SERVER_PORT")
	if err != nil {
		return nil, err
	}
	cfg.Server.Port, err = strconv.Atoi(serverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SERVER_PORT: %w", err)
	}

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s",
		c.Username, c.Password, c.Host, c.Name)
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
