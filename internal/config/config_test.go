package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg=%+v, want defaults", cfg)
	}
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("db_path: /tmp/e.db\npower_hour_minutes: 45\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/e.db" {
		t.Fatalf("dbPath=%q", cfg.DBPath)
	}
	if cfg.PowerHourMinutes != 45 {
		t.Fatalf("powerHourMinutes=%d, want 45", cfg.PowerHourMinutes)
	}
	if cfg.HeartbeatSeconds != 30 {
		t.Fatalf("heartbeatSeconds=%d, want default 30", cfg.HeartbeatSeconds)
	}
}

func TestLoadClampsNonsense(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("heartbeat_seconds: -5\npower_hour_coin_cost: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HeartbeatSeconds != 30 || cfg.PowerHourCoinCost != 1 {
		t.Fatalf("cfg=%+v, want clamped defaults", cfg)
	}
}
