package config

import "os"

// Config holds all application configuration
type Config struct {
	// Port the HTTP API listens on
	Port string

	// RulesFile is an optional path to a YAML rule set. Empty means the
	// built-in rules.
	RulesFile string

	// Environment: "development" or "production"
	Environment string
}

// Load reads the configuration from environment variables, applying defaults
// where nothing is set.
func Load() *Config {
	config := &Config{
		Port:        os.Getenv("BONUS_PORT"),
		RulesFile:   os.Getenv("BONUS_RULES_FILE"),
		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.Port == "" {
		config.Port = "8084"
	}
	if config.Environment == "" {
		config.Environment = "development"
	}

	return config
}
