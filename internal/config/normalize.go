// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultDebounceMs       = 20
	DefaultRotaryDebounceMs = 2
	DefaultArenaBytes       = 512
	DefaultEEPROMPath       = "bozzard.eeprom"
	DefaultEEPROMBytes      = 1024
	DefaultBaud             = 9600
	DefaultHz               = 200
	DefaultScoreboardUnit   = 1
	DefaultTimeoutMs        = 500
	DefaultIntervalMs       = 250
	DefaultMetricsMs        = 10000

	// scoreboardRegisters is the size of the mirrored block: status words
	// then both LCD rows packed two characters per register.
	scoreboardRegisters = 4 + 16
)

// ScoreboardRegisters is the number of holding registers the scoreboard
// block occupies.
const ScoreboardRegisters = scoreboardRegisters

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Input.DebounceMs == 0 {
		cfg.Input.DebounceMs = DefaultDebounceMs
	}
	if cfg.Input.RotaryDebounceMs == 0 {
		cfg.Input.RotaryDebounceMs = DefaultRotaryDebounceMs
	}
	if cfg.Memory.ArenaBytes == 0 {
		cfg.Memory.ArenaBytes = DefaultArenaBytes
	}
	if cfg.EEPROM.Path == "" {
		cfg.EEPROM.Path = DefaultEEPROMPath
	}
	if cfg.EEPROM.SizeBytes == 0 {
		cfg.EEPROM.SizeBytes = DefaultEEPROMBytes
	}
	if cfg.Serial.Port != "" && cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = DefaultBaud
	}
	if cfg.Host.Hz == 0 {
		cfg.Host.Hz = DefaultHz
	}
	if cfg.Host.Audio == nil {
		on := true
		cfg.Host.Audio = &on
	}

	// ------------------------------------------------------------
	// SCOREBOARD NORMALIZATION (OPT-IN)
	// ------------------------------------------------------------

	if sb := &cfg.Scoreboard; sb.Endpoint != "" {
		if sb.UnitID == 0 {
			sb.UnitID = DefaultScoreboardUnit
		}
		if sb.TimeoutMs == 0 {
			sb.TimeoutMs = DefaultTimeoutMs
		}
		if sb.IntervalMs == 0 {
			sb.IntervalMs = DefaultIntervalMs
		}
	}

	if cfg.Metrics.Enabled && cfg.Metrics.IntervalMs == 0 {
		cfg.Metrics.IntervalMs = DefaultMetricsMs
	}
}
