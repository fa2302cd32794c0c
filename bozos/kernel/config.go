package kernel

import (
	"bozzard/bozos/display"
	"bozzard/bozos/input"
	"bozzard/bozos/nvram"
	"bozzard/bozos/sound"
)

const (
	DefaultArenaBytes       = 512
	DefaultDebounceMs       = 20
	DefaultRotaryDebounceMs = 2
)

// Time is the millisecond counter. It wraps.
type Time interface {
	Millis() uint32
}

// LEDs drives the four indicator LEDs from the low bits of mask.
type LEDs interface {
	SetLEDs(mask uint8)
}

// Serial is the PC link.
type Serial interface {
	Buffered() int
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
}

// Battery reports the supply voltage.
type Battery interface {
	Millivolts() uint16
}

// Power is called once per tick, after all work, with whether the console
// may drop into a low power state until the next tick.
type Power interface {
	Idle(allowSleep bool)
}

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
}

// Config lists everything the kernel schedules over. Only Apps and Time are
// required.
type Config struct {
	Apps []App
	Time Time

	Input   input.Source
	Display *display.Controller
	Sound   *sound.Player
	NVRAM   *nvram.Store
	LEDs    LEDs
	Serial  Serial
	Battery Battery
	Power   Power

	Logger   Logger
	Observer Observer
	// OnCrash is invoked once when the kernel enters crash mode.
	OnCrash func(CrashInfo)

	ArenaBytes       int
	DebounceMs       uint32
	RotaryDebounceMs uint32

	// Version is the packed runtime version reported to apps.
	Version uint32
}
