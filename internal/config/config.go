// Package config provides functionality for loading and accessing environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	once sync.Once
	// Global logger instance that should be used across the application
	Logger = logrus.New()
)

// ConfigureLogging sets up logging based on environment variables and returns the configured logger
func ConfigureLogging() *logrus.Logger {
	// Configure log level
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info" // Default log level
	}

	// Parse the log level
	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		Logger.Warnf("Invalid log level '%s', using 'info'", logLevelStr)
		logLevel = logrus.InfoLevel
	}
	Logger.SetLevel(logLevel)

	// Configure log format
	logFormat := os.Getenv("LOG_FORMAT")
	if strings.ToLower(logFormat) == "json" {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		// Default to text formatter
		Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return Logger
}

// LoadEnv loads environment variables from .env file if it exists
func LoadEnv() {
	once.Do(func() {
		// Try to find .env file in current directory
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			// Try to find .env in parent directory (project root)
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				Logger.Debug("No .env file found, using environment variables")
				return
			}
		}

		// Load .env file
		err := godotenv.Load(envFile)
		if err != nil {
			Logger.Warnf("Error loading .env file: %v", err)
			return
		}
		Logger.Infof("Loaded environment variables from %s", envFile)

		// Configure logging after loading environment variables
		ConfigureLogging()
	})
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

// storedToken is the on-disk shape of a token saved by the auth command.
type storedToken struct {
	AccessToken string `json:"access_token"`
}

// TokenFilePath returns the location where the auth command stores the
// Splitwise access token.
func TokenFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".bayclub-to-splitwise", "token.json")
	}
	return filepath.Join(home, ".bayclub-to-splitwise", "token.json")
}

// SaveToken persists a Splitwise access token for later runs. The file is
// created with owner-only permissions.
func SaveToken(accessToken string) error {
	path := TokenFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("could not create token directory: %w", err)
	}

	data, err := json.MarshalIndent(storedToken{AccessToken: accessToken}, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode token: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("could not write token file: %w", err)
	}
	return nil
}

// loadStoredToken reads a previously saved token. A missing or unreadable
// file is not an error, it just means no token is stored.
func loadStoredToken() string {
	data, err := os.ReadFile(TokenFilePath()) // #nosec G304 -- path is derived from the user's home directory
	if err != nil {
		return ""
	}

	var token storedToken
	if err := json.Unmarshal(data, &token); err != nil {
		return ""
	}
	return token.AccessToken
}
