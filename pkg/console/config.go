package console

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config carries everything the console needs to talk to the CMS backend.
type Config struct {
	// BaseURL of the remote CMS API.
	BaseURL string
	// Token is the bearer token for the current session.
	Token string
	// TokenSecret verifies the session token locally before any request.
	TokenSecret string
	// DraftDir is where draft snapshots live; empty keeps drafts in memory.
	DraftDir string
	// AutosaveInterval paces the draft safety net.
	AutosaveInterval time.Duration
}

// LoadConfig reads configuration from the environment, optionally seeded from
// a .env file next to the binary. Every key carries the COLLEGECMS_ prefix
// (COLLEGECMS_BASE_URL, COLLEGECMS_TOKEN, ...).
func LoadConfig() (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return Config{}, fmt.Errorf("console: load .env: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("COLLEGECMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("base_url", "http://localhost:5000")
	v.SetDefault("draft_dir", "")
	v.SetDefault("autosave_interval", 30*time.Second)

	cfg := Config{
		BaseURL:          v.GetString("base_url"),
		Token:            v.GetString("token"),
		TokenSecret:      v.GetString("token_secret"),
		DraftDir:         v.GetString("draft_dir"),
		AutosaveInterval: v.GetDuration("autosave_interval"),
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return Config{}, fmt.Errorf("console: base URL is required")
	}
	return cfg, nil
}
