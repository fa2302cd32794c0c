// internal/config/validate_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---- tests ----

func TestValidate_ZeroConfigIsValid(t *testing.T) {
	if err := Validate(&Config{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ArenaBounds(t *testing.T) {
	cfg := &Config{Memory: MemoryConfig{ArenaBytes: 32}}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for tiny arena")
	}
	cfg.Memory.ArenaBytes = 1 << 20
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for huge arena")
	}
	cfg.Memory.ArenaBytes = 1024
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_BaudWithoutPort(t *testing.T) {
	cfg := &Config{Serial: SerialConfig{Baud: 9600}}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidate_ScoreboardEndpoint(t *testing.T) {
	cfg := &Config{Scoreboard: ScoreboardConfig{Endpoint: "scoreboard"}}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for endpoint without port")
	}

	cfg.Scoreboard.Endpoint = "10.0.0.5:502"
	cfg.Scoreboard.Address = 0xFFF0
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "overflows") {
		t.Fatalf("expected overflow error, got %v", err)
	}

	cfg.Scoreboard.Address = 100
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ScoreboardFieldsNeedEndpoint(t *testing.T) {
	cfg := &Config{Scoreboard: ScoreboardConfig{UnitID: 3}}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := &Config{
		Serial:     SerialConfig{Port: "/dev/ttyUSB0"},
		Scoreboard: ScoreboardConfig{Endpoint: "127.0.0.1:502"},
		Metrics:    MetricsConfig{Enabled: true},
	}
	Normalize(cfg)

	if cfg.Input.DebounceMs != DefaultDebounceMs || cfg.Input.RotaryDebounceMs != DefaultRotaryDebounceMs {
		t.Fatalf("debounce defaults not applied: %+v", cfg.Input)
	}
	if cfg.Memory.ArenaBytes != DefaultArenaBytes {
		t.Fatalf("arena = %d", cfg.Memory.ArenaBytes)
	}
	if cfg.Serial.Baud != DefaultBaud {
		t.Fatalf("baud = %d", cfg.Serial.Baud)
	}
	if cfg.Host.Audio == nil || !*cfg.Host.Audio {
		t.Fatalf("audio should default on")
	}
	if cfg.Scoreboard.UnitID != DefaultScoreboardUnit || cfg.Scoreboard.IntervalMs != DefaultIntervalMs {
		t.Fatalf("scoreboard defaults not applied: %+v", cfg.Scoreboard)
	}
	if cfg.Metrics.IntervalMs != DefaultMetricsMs {
		t.Fatalf("metrics interval = %d", cfg.Metrics.IntervalMs)
	}
}

func TestParse_Strict(t *testing.T) {
	_, err := Parse([]byte("input:\n  debounce_ms: 30\n  bogus: 1\n"))
	if err == nil {
		t.Fatalf("expected unknown key error")
	}

	cfg, err := Parse([]byte("input:\n  debounce_ms: 30\nhost:\n  audio: false\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Input.DebounceMs != 30 {
		t.Fatalf("debounce = %d, want 30", cfg.Input.DebounceMs)
	}
	if cfg.Host.Audio == nil || *cfg.Host.Audio {
		t.Fatalf("audio: false was overridden")
	}
}

func TestLoad_FileAndEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.EEPROM.Path != DefaultEEPROMPath {
		t.Fatalf("eeprom path = %q", cfg.EEPROM.Path)
	}

	path := filepath.Join(t.TempDir(), "boz.yaml")
	if err := os.WriteFile(path, []byte("memory:\n  arena_bytes: 16\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("expected validation error naming the file, got %v", err)
	}
}
