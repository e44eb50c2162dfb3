package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "postgres://localhost/mindcheck")
	t.Setenv("ADMIN_IDS", "100,200")
	t.Setenv("SESSION_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BotToken != "123:abc" {
		t.Errorf("BotToken = %q", cfg.BotToken)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %v, want 1h", cfg.SessionTTL)
	}
	if !cfg.IsAdmin(100) || !cfg.IsAdmin(200) {
		t.Error("expected 100 and 200 to be admins")
	}
	if cfg.IsAdmin(300) {
		t.Error("expected 300 not to be an admin")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	// t.Setenv registers the restore; the variables must be truly unset for
	// the required check to trip.
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("BOT_TOKEN")
	os.Unsetenv("DATABASE_URL")

	if _, err := Load(); err == nil {
		t.Error("expected an error without required variables")
	}
}
