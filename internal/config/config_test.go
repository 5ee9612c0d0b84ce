package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfigFromEnvFile(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	env := "SERVER_PORT=9090\nDATABASE_URL=postgres://localhost:5432/shipnix\nJWT_SECRET=secret\nTRACKING_PREFIX=SX-\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q; want 9090", cfg.ServerPort)
	}
	if cfg.DatabaseURL != "postgres://localhost:5432/shipnix" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.TrackingPrefix != "SX-" {
		t.Errorf("TrackingPrefix = %q; want SX-", cfg.TrackingPrefix)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("default ServerPort = %q; want 8080", cfg.ServerPort)
	}
	if cfg.TrackingPrefix != "ST-" {
		t.Errorf("default TrackingPrefix = %q; want ST-", cfg.TrackingPrefix)
	}
}
