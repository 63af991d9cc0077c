package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testConfig = `
ServicePort = 9090
RedisEndpoint = "redis:6379"
FleetLockTTL = "45s"

[Combat]
Ruleset = "galactic_empire"
RoundCap = 30
Tiebreak = "damage_dealt"

[RateLimit]
RPS = 1.5
Burst = 3
`

func TestNewConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "battle_test.toml"), []byte(testConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("CONFIG_NAME", "battle_test")
	t.Setenv("JWT_KEY", "from-env")
	t.Setenv("MINIO_ENDPOINT", "minio:9000")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.ServicePort != 9090 || cfg.RedisEndpoint != "redis:6379" {
		t.Errorf("service config = %+v", cfg)
	}
	if cfg.FleetLockTTL != 45*time.Second {
		t.Errorf("FleetLockTTL = %v, want 45s", cfg.FleetLockTTL)
	}
	if cfg.JwtKey != "from-env" || cfg.Minio.Endpoint != "minio:9000" {
		t.Errorf("env overrides not applied: jwt=%q minio=%q", cfg.JwtKey, cfg.Minio.Endpoint)
	}
	if cfg.Combat.Ruleset != "galactic_empire" || cfg.Combat.RoundCap != 30 || cfg.Combat.Tiebreak != "damage_dealt" {
		t.Errorf("combat config = %+v", cfg.Combat)
	}
	if cfg.Combat.Variance != 0.05 || cfg.JwtTTL != 24*time.Hour || cfg.Minio.Bucket != "replays" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.RateLimit.RPS != 1.5 || cfg.RateLimit.Burst != 3 {
		t.Errorf("rate limit = %+v", cfg.RateLimit)
	}
}

func TestNewConfigMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_NAME", "does_not_exist")
	if _, err := NewConfig(); err == nil {
		t.Error("missing config file loaded without error")
	}
}

func TestNewConfigRejectsBadCombat(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown tiebreak", "[Combat]\nTiebreak = \"coin_flip\"\n"},
		{"negative round cap", "[Combat]\nRoundCap = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(filepath.Join(dir, "config", "bad_combat.toml"), []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			t.Chdir(dir)
			t.Setenv("CONFIG_NAME", "bad_combat")
			if _, err := NewConfig(); err == nil {
				t.Error("bad combat config loaded without error")
			}
		})
	}
}
