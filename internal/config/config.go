package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration, resolved once at boot
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Cookie   CookieConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// AppConfig is the process-wide configuration set by Load
var AppConfig *Config

// Load reads .env (when present) and resolves configuration from the
// environment. Mode-dependent settings read DEV_ or PROD_ prefixed keys
// so one .env can hold both environments.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	mode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if mode != "dev" && mode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", mode)
	}
	prefix := envPrefix(mode)

	config := &Config{
		AppMode: mode,
		Port:    getEnv("PORT", "3000"),
		Database: DatabaseConfig{
			Host:     getEnv(prefix+"DB_HOST", "localhost"),
			Port:     getEnv(prefix+"DB_PORT", "3306"),
			User:     getEnv(prefix+"DB_USER", "root"),
			Password: getEnv(prefix+"DB_PASS", ""),
			DBName:   getEnv(prefix+"DB_NAME", "citidesk"),
		},
		JWT: JWTConfig{
			Secret:           getEnv(prefix+"JWT_SECRET", "default_secret"),
			RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
			AccessTokenMins:  getEnvInt("ACCESS_TOKEN_MINUTES", 15),
			RefreshTokenDays: getEnvInt("REFRESH_TOKEN_DAYS", 7),
		},
		Cookie: CookieConfig{
			Secure:   getEnvBool(prefix+"COOKIE_SECURE", false),
			SameSite: getEnv("COOKIE_SAMESITE", "lax"),
			Domain:   getEnv("COOKIE_DOMAIN", ""),
		},
	}

	AppConfig = config
	log.Printf("Configuration loaded [MODE: %s]", mode)
	return config, nil
}

func envPrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return fallback
}

// IsDev reports development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd reports production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns the CORS origin list. Development defaults
// to wide open; production must set ALLOWED_ORIGINS explicitly.
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" && c.IsDev() {
		return "*"
	}
	return origins
}
