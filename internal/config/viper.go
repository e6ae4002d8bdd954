// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	// GroupID is the Splitwise group every expense is created in.
	GroupID int64 `mapstructure:"group_id" yaml:"group_id"`

	// PayerName is the full name of the group member who paid the statement.
	// It must match a member of the group exactly.
	PayerName string `mapstructure:"payer_name" yaml:"payer_name"`

	// UploadToSplitwise enables submission. When false the run is a dry run:
	// allocations are computed and displayed but nothing is created.
	UploadToSplitwise bool `mapstructure:"upload_to_splitwise" yaml:"upload_to_splitwise"`

	Splitwise struct {
		BaseURL     string `mapstructure:"base_url" yaml:"base_url"`
		AccessToken string `mapstructure:"access_token" yaml:"-"` // Never serialize credentials
		ClientID    string `mapstructure:"client_id" yaml:"-"`
		ClientSecret string `mapstructure:"client_secret" yaml:"-"`
	} `mapstructure:"splitwise" yaml:"splitwise"`

	AI struct {
		Model          string `mapstructure:"model" yaml:"model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		RulesFile      string `mapstructure:"rules_file" yaml:"rules_file"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.bayclub-to-splitwise")
	v.AddConfigPath(".bayclub-to-splitwise")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("B2S")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
		// Config file not found or invalid is OK, we'll use defaults and env vars
	}

	// 5. Credentials always come from unprefixed environment variables
	bindCredential(v, "ai.api_key", "GEMINI_API_KEY")
	bindCredential(v, "splitwise.access_token", "SPLITWISE_ACCESS_TOKEN")
	bindCredential(v, "splitwise.client_id", "SPLITWISE_CLIENT_ID")
	bindCredential(v, "splitwise.client_secret", "SPLITWISE_CLIENT_SECRET")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Fall back to a token stored by the auth command
	if config.Splitwise.AccessToken == "" {
		config.Splitwise.AccessToken = loadStoredToken()
	}

	// 7. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func bindCredential(v *viper.Viper, key, envVar string) {
	if err := v.BindEnv(key, envVar); err != nil {
		fmt.Printf("Warning: failed to bind %s environment variable: %v\n", envVar, err)
	}
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Splitwise defaults
	v.SetDefault("group_id", 0)
	v.SetDefault("payer_name", "")
	v.SetDefault("upload_to_splitwise", false)
	v.SetDefault("splitwise.base_url", "https://secure.splitwise.com/api/v3.0")

	// AI defaults
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout_seconds", 120)
	v.SetDefault("ai.rules_file", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.GroupID < 0 {
		return fmt.Errorf("group_id must be positive, got: %d", config.GroupID)
	}

	if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 600 {
		return fmt.Errorf("ai.timeout_seconds must be between 1 and 600, got: %d", config.AI.TimeoutSeconds)
	}

	return nil
}

// ValidateForUpload checks the settings a statement run cannot proceed without.
// Missing values here are fatal before any network or model call is made.
func (c *Config) ValidateForUpload() error {
	if c.GroupID == 0 {
		return fmt.Errorf("group_id is not configured")
	}
	if c.PayerName == "" {
		return fmt.Errorf("payer_name is not configured")
	}
	if c.AI.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set")
	}
	return c.ValidateForSplitwise()
}

// ValidateForSplitwise checks that Splitwise API calls can be authenticated.
func (c *Config) ValidateForSplitwise() error {
	if c.Splitwise.AccessToken == "" {
		return fmt.Errorf("no Splitwise access token: set SPLITWISE_ACCESS_TOKEN or run the auth command")
	}
	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	// Parse and set log level
	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Configure log format
	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
