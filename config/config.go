package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`

	JWTSecret  string        `mapstructure:"JWT_SECRET"`
	JWTTTL     time.Duration `mapstructure:"JWT_TTL"`
	RefreshTTL time.Duration `mapstructure:"REFRESH_TTL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	ClinicTimezone     string `mapstructure:"CLINIC_TIMEZONE"`
	SlotStepMinutes    int    `mapstructure:"SLOT_STEP_MINUTES"`
	LoginRatePerMinute int    `mapstructure:"LOGIN_RATE_PER_MINUTE"`

	SMTPHost        string `mapstructure:"SMTP_HOST"`
	SMTPPort        int    `mapstructure:"SMTP_PORT"`
	EmailUser       string `mapstructure:"EMAIL_USER"`
	EmailPass       string `mapstructure:"EMAIL_PASS"`
	DigestRecipient string `mapstructure:"DIGEST_RECIPIENT"`
	DigestCron      string `mapstructure:"DIGEST_CRON"`

	CloudinaryCloudName    string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey       string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret    string `mapstructure:"CLOUDINARY_API_SECRET"`
	CloudinaryUploadPreset string `mapstructure:"CLOUDINARY_UPLOAD_PRESET"`

	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
}

var defaults = map[string]interface{}{
	"APP_PORT":                 "8000",
	"ENV":                      "development",
	"LOG_LEVEL":                "info",
	"DATABASE_URL":             "",
	"JWT_SECRET":               "",
	"JWT_TTL":                  "24h",
	"REFRESH_TTL":              "168h",
	"REDIS_ADDR":               "localhost:6379",
	"REDIS_PASSWORD":           "",
	"REDIS_DB":                 0,
	"CLINIC_TIMEZONE":          "Local",
	"SLOT_STEP_MINUTES":        15,
	"LOGIN_RATE_PER_MINUTE":    20,
	"SMTP_HOST":                "",
	"SMTP_PORT":                587,
	"EMAIL_USER":               "",
	"EMAIL_PASS":               "",
	"DIGEST_RECIPIENT":         "",
	"DIGEST_CRON":              "0 7 * * *",
	"CLOUDINARY_CLOUD_NAME":    "",
	"CLOUDINARY_API_KEY":       "",
	"CLOUDINARY_API_SECRET":    "",
	"CLOUDINARY_UPLOAD_PRESET": "",
	"ADMIN_USERNAME":           "admin",
	"ADMIN_PASSWORD":           "",
}

// Load reads .env (if present), an optional config.yaml and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded. Using environment variables directly.")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.SlotStepMinutes <= 0 {
		cfg.SlotStepMinutes = 15
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Location resolves CLINIC_TIMEZONE; "Local" and "" use the host zone.
func (c *Config) Location() (*time.Location, error) {
	if c.ClinicTimezone == "" || c.ClinicTimezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.ClinicTimezone)
}

// Validate checks the settings the HTTP server cannot start without.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid CLINIC_TIMEZONE: %w", err)
	}
	return nil
}

func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.EmailUser != ""
}

func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}
