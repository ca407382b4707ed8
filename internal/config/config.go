// Package config reads the bot's settings from the environment, with an
// optional .env overlay for local development.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	BotToken    string

	// Natural-language capture is disabled when OpenAIKey is empty.
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
}

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

// Load reads the environment and validates the required settings.
// Variables already set in the environment win over the .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() // a .env file is optional

	cfg := &Config{
		DatabaseURL:   os.Getenv("TASKBELL_DATABASE_URL"),
		BotToken:      os.Getenv("TASKBELL_BOT_TOKEN"),
		OpenAIKey:     os.Getenv("TASKBELL_OPENAI_KEY"),
		OpenAIBaseURL: envOr("TASKBELL_OPENAI_BASE_URL", defaultOpenAIBaseURL),
		OpenAIModel:   envOr("TASKBELL_OPENAI_MODEL", defaultOpenAIModel),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate names every missing required setting at once, so a fresh
// deployment fails with the full list instead of one variable per run.
func (c *Config) validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "TASKBELL_DATABASE_URL")
	}
	if c.BotToken == "" {
		missing = append(missing, "TASKBELL_BOT_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
