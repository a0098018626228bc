package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	AuthModeOpen  = "open"
	AuthModeBasic = "basic"
	AuthModeToken = "token"

	EnvDevelopment = "development"

	LambdaHandlerPosts  = "posts"
	LambdaHandlerUpload = "upload"

	// Only used when ENVIRONMENT=development.
	devAdminUsername = "admin"
	devAdminPassword = "admin"
	devJWTSecret     = "development-only-jwt-secret"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Environment string
	ServerPort  string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	AuthMode          string
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string
	JWTSecret         string

	UploadBaseURL string
	UploadDir     string

	LambdaHandler string

	// SeedData inserts sample posts into an empty table at startup.
	SeedData bool
}

// Load reads an optional .env file and the process environment, then
// validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from the environment without validating it.
func FromEnv() *Config {
	port := getEnv("PORT", "8080")
	return &Config{
		Environment:       getEnv("ENVIRONMENT", EnvDevelopment),
		ServerPort:        port,
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBName:            getEnv("DB_NAME", "postgres"),
		AuthMode:          strings.ToLower(getEnv("AUTH_MODE", AuthModeToken)),
		AdminUsername:     getEnv("ADMIN_USERNAME", ""),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		UploadBaseURL:     getEnv("UPLOAD_BASE_URL", "http://localhost:"+port+"/uploads"),
		UploadDir:         getEnv("UPLOAD_DIR", ""),
		LambdaHandler:     getEnv("LAMBDA_HANDLER", LambdaHandlerPosts),
		SeedData:          getEnv("SEED_DATA", "") == "true",
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// Validate checks required settings. Outside development it refuses to run
// without real secrets; in development it fills guessable defaults and
// warns about them.
func (c *Config) Validate() error {
	switch c.AuthMode {
	case AuthModeOpen, AuthModeBasic, AuthModeToken:
	default:
		return fmt.Errorf("%w: unknown AUTH_MODE %q", ErrInvalidConfig, c.AuthMode)
	}

	switch c.LambdaHandler {
	case LambdaHandlerPosts, LambdaHandlerUpload:
	default:
		return fmt.Errorf("%w: unknown LAMBDA_HANDLER %q", ErrInvalidConfig, c.LambdaHandler)
	}

	if c.IsDevelopment() {
		c.applyDevDefaults()
		return nil
	}

	if c.DatabaseURL == "" && c.DBPassword == "" {
		return fmt.Errorf("%w: DATABASE_URL or DB_PASSWORD is required", ErrInvalidConfig)
	}
	if c.AuthMode == AuthModeOpen {
		return nil
	}
	if c.AdminUsername == "" {
		return fmt.Errorf("%w: ADMIN_USERNAME is required", ErrInvalidConfig)
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return fmt.Errorf("%w: ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required", ErrInvalidConfig)
	}
	if c.AuthMode == AuthModeToken && c.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET is required", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) applyDevDefaults() {
	if c.AuthMode == AuthModeOpen {
		return
	}
	if c.AdminUsername == "" {
		c.AdminUsername = devAdminUsername
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		log.Println("Warning: using development admin credentials")
		c.AdminPassword = devAdminPassword
	}
	if c.AuthMode == AuthModeToken && c.JWTSecret == "" {
		log.Println("Warning: using development JWT secret")
		c.JWTSecret = devJWTSecret
	}
}

// DSN returns DATABASE_URL when set, otherwise a connection URL built from
// the DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
