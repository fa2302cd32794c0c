// internal/config/config.go
package config

type Config struct {
	Input      InputConfig      `yaml:"input"`
	Memory     MemoryConfig     `yaml:"memory"`
	EEPROM     EEPROMConfig     `yaml:"eeprom"`
	Serial     SerialConfig     `yaml:"serial"`
	Host       HostConfig       `yaml:"host"`
	Scoreboard ScoreboardConfig `yaml:"scoreboard"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// ---- INPUT ----

type InputConfig struct {
	DebounceMs       uint32 `yaml:"debounce_ms"`
	RotaryDebounceMs uint32 `yaml:"rotary_debounce_ms"`
}

// ---- MEMORY ----

type MemoryConfig struct {
	ArenaBytes int `yaml:"arena_bytes"`
}

// ---- EEPROM ----

type EEPROMConfig struct {
	Path      string `yaml:"path"`
	SizeBytes uint32 `yaml:"size_bytes"`
}

// ---- SERIAL (PC control link) ----

type SerialConfig struct {
	Port string `yaml:"port"` // device path, "stdio", or empty
	Baud int    `yaml:"baud"`
}

// ---- HOST FRONT-END ----

type HostConfig struct {
	Hz        int    `yaml:"hz"`
	BatteryMv uint16 `yaml:"battery_mv"`
	Audio     *bool  `yaml:"audio"`
}

// ---- SCOREBOARD (optional Modbus TCP mirror) ----

type ScoreboardConfig struct {
	Endpoint   string `yaml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id"`
	Address    uint16 `yaml:"address"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	IntervalMs int    `yaml:"interval_ms"`
}

// ---- METRICS ----

type MetricsConfig struct {
	Enabled    bool `yaml:"enabled"`
	IntervalMs int  `yaml:"interval_ms"`
}
