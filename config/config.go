// Package config has the configuration file for the app
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// Store backend selectors.
const (
	StoreFirestore = "firestore"
	StoreMongo     = "mongo"
	StoreMemory    = "memory"
)

// Config holds all application configuration
type Config struct {
	Port              string
	Address           string
	Env               string
	LogLevel          string
	LogRetentionWeeks int   // Number of weeks to keep log files
	MaxLogFileSize    int64 // Maximum log file size in bytes
	MaxRequestBody    int64 // Maximum request body size in bytes
	MaxHeaderSize     int64 // Maximum header size in bytes

	// Document store selection
	StoreBackend       string // firestore, mongo or memory
	FirestoreProjectID string
	MongoURI           string
	MongoDatabase      string

	// Catalog refresh times, "HH:MM;HH:MM" as gocron expects
	CatalogRefreshAt string

	// Passcode used when the settings collection holds none yet
	FallbackPasscode string

	// Letterhead printed on every export
	PracticeName     string
	PractitionerName string
	PracticeWebsite  string
	PracticeContact  string
	LogoPath         string
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnvWithDefault("PORT", "8000"),
		Address:           getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:               getEnvWithDefault("ENV", "dev"),
		LogLevel:          getEnvWithDefault("LOG_LEVEL", "info"),
		LogRetentionWeeks: getIntEnvWithDefault("LOG_RETENTION_WEEKS", 4),
		MaxLogFileSize:    getInt64EnvWithDefault("MAX_LOG_FILE_SIZE", 104857600), // 100MB default
		MaxRequestBody:    getInt64EnvWithDefault("MAX_REQUEST_BODY", 1048576),    // 1MB default
		MaxHeaderSize:     getInt64EnvWithDefault("MAX_HEADER_SIZE", 1048576),     // 1MB default

		StoreBackend:       getEnvWithDefault("STORE_BACKEND", StoreMemory),
		FirestoreProjectID: os.Getenv("FIRESTORE_PROJECT_ID"),
		MongoURI:           getEnvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getEnvWithDefault("MONGODB_DATABASE", "clinic"),

		CatalogRefreshAt: getEnvWithDefault("CATALOG_REFRESH_AT", "06:00;18:00"),

		FallbackPasscode: getEnvWithDefault("FALLBACK_PASSCODE", "1234"),

		PracticeName:     getEnvWithDefault("PRACTICE_NAME", "Fernheilpraxis - Praxisgemeinschaft"),
		PractitionerName: getEnvWithDefault("PRACTITIONER_NAME", "Heilpraktiker Matthias Cebula"),
		PracticeWebsite:  getEnvWithDefault("PRACTICE_WEBSITE", "www.fernheilpraxis.com"),
		PracticeContact:  getEnvWithDefault("PRACTICE_CONTACT", "info@fernheilpraxis.com"),
		LogoPath:         getEnvWithDefault("LOGO_PATH", "assets/Logo.png"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateEnv(cfg.Env); err != nil {
		return fmt.Errorf("invalid ENV: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return fmt.Errorf("invalid MAX_REQUEST_BODY: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxHeaderSize, "MAX_HEADER_SIZE"); err != nil {
		return fmt.Errorf("invalid MAX_HEADER_SIZE: %w", err)
	}

	if err := validateLogRetentionWeeks(cfg.LogRetentionWeeks); err != nil {
		return fmt.Errorf("invalid LOG_RETENTION_WEEKS: %w", err)
	}

	if err := validateStoreBackend(cfg); err != nil {
		return fmt.Errorf("invalid STORE_BACKEND: %w", err)
	}

	if err := validateRefreshTimes(cfg.CatalogRefreshAt); err != nil {
		return fmt.Errorf("invalid CATALOG_REFRESH_AT: %w", err)
	}

	return nil
}

// validatePort validates the PORT environment variable
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

// validateAddress validates the ADDRESS environment variable
func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	if address == "127.0.0.1" || address == "::1" || address == "localhost" {
		return nil
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	if !ip.IsLoopback() && !ip.IsPrivate() {
		return fmt.Errorf("ADDRESS %s is a public IP, consider using private network ranges for security", address)
	}

	return nil
}

// validateEnv validates the ENV environment variable
func validateEnv(env string) error {
	if env == "" {
		return fmt.Errorf("ENV cannot be empty")
	}

	validEnvs := []string{"dev", "staging", "prod", "test"}
	env = strings.ToLower(env)

	for _, validEnv := range validEnvs {
		if env == validEnv {
			return nil
		}
	}

	return fmt.Errorf("ENV must be one of: %v, got: %s", validEnvs, env)
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	if logLevel == "" {
		return fmt.Errorf("LOG_LEVEL cannot be empty")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	logLevel = strings.ToLower(logLevel)

	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// validateSizeLimit validates size limit configuration values
func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, size)
	}

	if size > 100*1024*1024 { // 100MB
		return fmt.Errorf("%s is too large (max 100MB), got: %d bytes", configName, size)
	}

	return nil
}

// validateLogRetentionWeeks validates the LOG_RETENTION_WEEKS environment variable
func validateLogRetentionWeeks(weeks int) error {
	if weeks <= 0 {
		return fmt.Errorf("LOG_RETENTION_WEEKS must be positive, got: %d", weeks)
	}

	if weeks > 52 { // 1 year maximum
		return fmt.Errorf("LOG_RETENTION_WEEKS is too large (max 52 weeks), got: %d", weeks)
	}

	return nil
}

// validateStoreBackend checks the backend selector and its required settings
func validateStoreBackend(cfg *Config) error {
	switch cfg.StoreBackend {
	case StoreFirestore:
		if cfg.FirestoreProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID is required when STORE_BACKEND=firestore")
		}
	case StoreMongo:
		if cfg.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required when STORE_BACKEND=mongo")
		}
		if cfg.MongoDatabase == "" {
			return fmt.Errorf("MONGODB_DATABASE is required when STORE_BACKEND=mongo")
		}
	case StoreMemory:
		// No settings needed, dev/test only
	default:
		return fmt.Errorf("STORE_BACKEND must be one of: firestore, mongo, memory, got: %s", cfg.StoreBackend)
	}

	return nil
}

// validateRefreshTimes validates the CATALOG_REFRESH_AT environment variable,
// a semicolon-separated list of HH:MM times
func validateRefreshTimes(times string) error {
	if times == "" {
		return fmt.Errorf("CATALOG_REFRESH_AT cannot be empty")
	}

	for _, t := range strings.Split(times, ";") {
		parts := strings.Split(t, ":")
		if len(parts) != 2 {
			return fmt.Errorf("refresh time %q must be HH:MM", t)
		}
		hour, err := strconv.Atoi(parts[0])
		if err != nil || hour < 0 || hour > 23 {
			return fmt.Errorf("refresh time %q has an invalid hour", t)
		}
		minute, err := strconv.Atoi(parts[1])
		if err != nil || minute < 0 || minute > 59 {
			return fmt.Errorf("refresh time %q has an invalid minute", t)
		}
	}

	return nil
}

// getEnvWithDefault gets an environment variable with a fallback default
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvWithDefault gets an integer environment variable with a fallback default
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getInt64EnvWithDefault gets an int64 environment variable with a fallback default
func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if int64Value, err := strconv.ParseInt(value, 10, 64); err == nil {
			return int64Value
		}
	}
	return defaultValue
}
