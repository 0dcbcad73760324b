// Package config builds the process configuration exactly once at startup.
// Business logic never reads the environment; everything it needs travels
// inside Config.
package config

import (
	"errors"
	"os"
	"path/filepath"
)

type Config struct {
	Port               string
	Timezone           string
	ChannelSecret      string
	ChannelAccessToken string
	// ReminderRecipientID is the single user the reminder endpoint pushes
	// to. Empty means reminders are disabled (the endpoint answers 400).
	ReminderRecipientID string

	LLM   LLMConfig
	Store StoreConfig
}

type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// StoreConfig selects and configures the sheet-row backend. A non-empty
// SpreadsheetID selects the Google Sheets backend; otherwise rows are kept
// in the local sqlite database.
type StoreConfig struct {
	SpreadsheetID       string
	ServiceAccountEmail string
	PrivateKeyPEM       string
	SQLitePath          string

	MealSheet       string
	ExerciseSheet   string
	MeditationSheet string
	JournalSheet    string
}

// Load reads the environment and applies defaults.
func Load() Config {
	return Config{
		Port:                getEnv("PORT", "8080"),
		Timezone:            getEnv("TZ", "Asia/Tokyo"),
		ChannelSecret:       os.Getenv("CHANNEL_SECRET"),
		ChannelAccessToken:  os.Getenv("CHANNEL_ACCESS_TOKEN"),
		ReminderRecipientID: os.Getenv("REMINDER_RECIPIENT_ID"),
		LLM: LLMConfig{
			APIKey:  os.Getenv("LLM_API_KEY"),
			BaseURL: getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
			Model:   getEnv("LLM_MODEL", "gpt-4o-mini"),
		},
		Store: StoreConfig{
			SpreadsheetID:       os.Getenv("SPREADSHEET_ID"),
			ServiceAccountEmail: os.Getenv("SERVICE_ACCOUNT_EMAIL"),
			PrivateKeyPEM:       os.Getenv("SERVICE_ACCOUNT_KEY"),
			SQLitePath:          getEnv("DB_PATH", filepath.Join("data", "healthbot.db")),
			MealSheet:           getEnv("MEAL_SHEET", "食事"),
			ExerciseSheet:       getEnv("EXERCISE_SHEET", "運動"),
			MeditationSheet:     getEnv("MEDITATION_SHEET", "瞑想"),
			JournalSheet:        getEnv("JOURNAL_SHEET", "日記"),
		},
	}
}

// Validate rejects configurations the webhook boundary cannot run with.
func (config *Config) Validate() error {
	if config.ChannelSecret == "" {
		return errors.New("CHANNEL_SECRET is required")
	}
	if config.ChannelAccessToken == "" {
		return errors.New("CHANNEL_ACCESS_TOKEN is required")
	}
	if config.Store.SpreadsheetID != "" {
		if config.Store.ServiceAccountEmail == "" || config.Store.PrivateKeyPEM == "" {
			return errors.New("SERVICE_ACCOUNT_EMAIL and SERVICE_ACCOUNT_KEY are required with SPREADSHEET_ID")
		}
	}
	return nil
}

// UseSheets reports whether the Google Sheets backend is configured.
func (storeConfig *StoreConfig) UseSheets() bool {
	return storeConfig.SpreadsheetID != ""
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
