// internal/config/validate.go
package config

import (
	"fmt"
	"net"
)

const (
	maxArenaBytes  = 0x8000
	minArenaBytes  = 64
	maxDebounceMs  = 1000
	minEEPROMBytes = 64
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration. Zero values mean "use the default" and
// always pass.
func Validate(cfg *Config) error {
	if cfg.Input.DebounceMs > maxDebounceMs {
		return fmt.Errorf("input.debounce_ms %d exceeds %d", cfg.Input.DebounceMs, maxDebounceMs)
	}
	if cfg.Input.RotaryDebounceMs > maxDebounceMs {
		return fmt.Errorf("input.rotary_debounce_ms %d exceeds %d", cfg.Input.RotaryDebounceMs, maxDebounceMs)
	}

	if a := cfg.Memory.ArenaBytes; a != 0 && (a < minArenaBytes || a > maxArenaBytes) {
		return fmt.Errorf("memory.arena_bytes %d outside %d-%d", a, minArenaBytes, maxArenaBytes)
	}

	if s := cfg.EEPROM.SizeBytes; s != 0 && s < minEEPROMBytes {
		return fmt.Errorf("eeprom.size_bytes %d below %d", s, minEEPROMBytes)
	}

	if cfg.Serial.Baud < 0 {
		return fmt.Errorf("serial.baud %d is negative", cfg.Serial.Baud)
	}
	if cfg.Serial.Baud != 0 && cfg.Serial.Port == "" {
		return fmt.Errorf("serial.baud is set but serial.port is empty")
	}

	if cfg.Host.Hz < 0 || cfg.Host.Hz > 1000 {
		return fmt.Errorf("host.hz %d outside 0-1000", cfg.Host.Hz)
	}

	// ------------------------------------------------------------
	// SCOREBOARD (OPT-IN)
	// ------------------------------------------------------------

	sb := cfg.Scoreboard
	if sb.Endpoint != "" {
		if _, _, err := net.SplitHostPort(sb.Endpoint); err != nil {
			return fmt.Errorf("scoreboard.endpoint %q: %w", sb.Endpoint, err)
		}
		if int(sb.Address)+scoreboardRegisters > 0x10000 {
			return fmt.Errorf("scoreboard.address %d: block of %d registers overflows", sb.Address, scoreboardRegisters)
		}
	} else if sb.UnitID != 0 || sb.Address != 0 {
		return fmt.Errorf("scoreboard.unit_id/address set without scoreboard.endpoint")
	}
	if sb.TimeoutMs < 0 || sb.IntervalMs < 0 {
		return fmt.Errorf("scoreboard timings must not be negative")
	}

	if cfg.Metrics.IntervalMs < 0 {
		return fmt.Errorf("metrics.interval_ms %d is negative", cfg.Metrics.IntervalMs)
	}
	return nil
}
