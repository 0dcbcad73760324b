package config

import "testing"

func validConfig() Config {
	config := Load()
	config.ChannelSecret = "secret"
	config.ChannelAccessToken = "token"
	return config
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("TZ", "")
	config := Load()
	if config.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", config.Port)
	}
	if config.Store.MealSheet != "食事" || config.Store.JournalSheet != "日記" {
		t.Fatalf("expected default sheet names, got %+v", config.Store)
	}
	if config.LLM.Model == "" || config.LLM.BaseURL == "" {
		t.Fatalf("expected LLM defaults, got %+v", config.LLM)
	}
}

func TestValidateRequiresChannelCredentials(t *testing.T) {
	config := validConfig()
	if err := config.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	config.ChannelSecret = ""
	if err := config.Validate(); err == nil {
		t.Fatal("expected an error without a channel secret")
	}

	config = validConfig()
	config.ChannelAccessToken = ""
	if err := config.Validate(); err == nil {
		t.Fatal("expected an error without an access token")
	}
}

func TestValidateSheetsBackendNeedsCredentials(t *testing.T) {
	config := validConfig()
	config.Store.SpreadsheetID = "sheet-id"
	if err := config.Validate(); err == nil {
		t.Fatal("expected an error without service account credentials")
	}

	config.Store.ServiceAccountEmail = "bot@example.iam.gserviceaccount.com"
	config.Store.PrivateKeyPEM = "---key---"
	if err := config.Validate(); err != nil {
		t.Fatalf("expected valid sheets config, got %v", err)
	}
	if !config.Store.UseSheets() {
		t.Fatal("expected the sheets backend to be selected")
	}

	config.Store.SpreadsheetID = ""
	if config.Store.UseSheets() {
		t.Fatal("expected the sqlite backend without a spreadsheet id")
	}
}
