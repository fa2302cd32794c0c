// Package apptest runs apps on a kernel wired to simulated hardware.
package apptest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"bozzard/bozos/display"
	"bozzard/bozos/display/lcdsim"
	"bozzard/bozos/input"
	"bozzard/bozos/kernel"
	"bozzard/bozos/nvram"
	"bozzard/bozos/sound"
)

// StepMs is the simulated tick length.
const StepMs = 5

type clock struct{ ms uint32 }

func (c *clock) Millis() uint32 { return c.ms }

// Lines is a settable input source.
type Lines struct {
	active  [input.NumButtons]bool
	changed [input.NumButtons]uint32
}

func (l *Lines) Level(b input.Button) (bool, uint32) { return l.active[b], l.changed[b] }

// Speaker records every frequency change.
type Speaker struct{ Freqs []uint16 }

func (s *Speaker) SetFrequency(hz uint16) { s.Freqs = append(s.Freqs, hz) }

// Serial is a loopback PC link. In is what the PC sent, Out what the console
// wrote.
type Serial struct {
	In  []byte
	Out []byte
}

func (s *Serial) Buffered() int { return len(s.In) }

func (s *Serial) Read(p []byte) (int, error) {
	n := copy(p, s.In)
	s.In = s.In[n:]
	return n, nil
}

func (s *Serial) Write(p []byte) (int, error) {
	s.Out = append(s.Out, p...)
	return len(p), nil
}

type leds struct{ mask uint8 }

func (l *leds) SetLEDs(mask uint8) { l.mask = mask }

type logger struct{ lines []string }

func (l *logger) WriteLineString(s string) { l.lines = append(l.lines, s) }

// Harness is a started kernel plus handles on everything it drives.
type Harness struct {
	T       *testing.T
	Kernel  *kernel.Kernel
	LCD     *lcdsim.LCD
	Display *display.Controller
	Sound   *sound.Player
	Speaker *Speaker
	Serial  *Serial
	EEPROM  *nvram.Mem
	Store   *nvram.Store
	Lines   *Lines
	Crashes []kernel.CrashInfo

	time *clock
	log  *logger
	leds *leds
}

// New starts a kernel running apps. One of them must be the main menu id.
func New(t *testing.T, apps ...kernel.App) *Harness {
	t.Helper()
	h := &Harness{
		T:       t,
		LCD:     lcdsim.New(),
		Speaker: &Speaker{},
		Serial:  &Serial{},
		EEPROM:  nvram.NewMem(256),
		Lines:   &Lines{},
		time:    &clock{ms: 1000},
		log:     &logger{},
		leds:    &leds{},
	}
	h.Display = display.NewController(h.LCD)
	h.Sound = sound.NewPlayer(h.Speaker)
	store, _, err := nvram.Open(h.EEPROM)
	require.NoError(t, err)
	h.Store = store

	k, err := kernel.New(kernel.Config{
		Apps:    apps,
		Time:    h.time,
		Input:   h.Lines,
		Display: h.Display,
		Sound:   h.Sound,
		NVRAM:   store,
		LEDs:    h.leds,
		Serial:  h.Serial,
		Logger:  h.log,
		OnCrash: func(i kernel.CrashInfo) { h.Crashes = append(h.Crashes, i) },
		Version: 0x01020300,
	})
	require.NoError(t, err)
	h.Kernel = k
	require.NoError(t, k.Start())
	h.Advance(20)
	return h
}

// Now is the simulated time.
func (h *Harness) Now() uint32 { return h.time.ms }

// Advance runs the kernel for ms of simulated time.
func (h *Harness) Advance(ms uint32) {
	for ms > 0 {
		d := uint32(StepMs)
		if ms < d {
			d = ms
		}
		h.time.ms += d
		ms -= d
		h.Kernel.Step()
	}
}

// Hold presses b and keeps it down. Release lets go.
func (h *Harness) Hold(b input.Button) {
	h.Lines.active[b], h.Lines.changed[b] = true, h.time.ms
	h.Advance(kernel.DefaultDebounceMs + StepMs)
}

func (h *Harness) Release(b input.Button) {
	h.Lines.active[b], h.Lines.changed[b] = false, h.time.ms
	h.Advance(kernel.DefaultDebounceMs + StepMs)
}

// Press is a complete press and release of b.
func (h *Harness) Press(b input.Button) {
	h.Hold(b)
	h.Release(b)
}

// Turn moves the knob one detent.
func (h *Harness) Turn(clockwise bool) {
	h.Lines.active[input.RotaryData] = !clockwise
	h.Lines.active[input.RotaryClock], h.Lines.changed[input.RotaryClock] = true, h.time.ms
	h.Advance(StepMs)
	h.Lines.active[input.RotaryClock], h.Lines.changed[input.RotaryClock] = false, h.time.ms
	h.Advance(StepMs)
}

// TurnN turns the knob n detents, clockwise for positive n.
func (h *Harness) TurnN(n int) {
	for ; n > 0; n-- {
		h.Turn(true)
	}
	for ; n < 0; n++ {
		h.Turn(false)
	}
}

// Screen is both rows of the LCD with trailing spaces trimmed.
func (h *Harness) Screen() [2]string {
	return [2]string{
		strings.TrimRight(h.LCD.Row(0), " "),
		strings.TrimRight(h.LCD.Row(1), " "),
	}
}

// RequireScreen checks the trimmed rows of the LCD.
func (h *Harness) RequireScreen(top, bottom string) {
	h.T.Helper()
	require.Equal(h.T, [2]string{top, bottom}, h.Screen())
}

// LEDs is the LED mask last written.
func (h *Harness) LEDs() uint8 { return h.leds.mask }

// Log is every kernel log line so far.
func (h *Harness) Log() []string { return h.log.lines }

// Host is a stand-in main menu app that records its context so tests can
// call the app under test directly.
type Host struct {
	Ctx     *kernel.Context
	Returns []int
}

func (host *Host) App() kernel.App {
	return kernel.App{ID: kernel.AppMainMenu, Name: "host", Init: func(ctx *kernel.Context, _ any) {
		host.Ctx = ctx
	}}
}

// Call starts app id with param from the host context.
func (host *Host) Call(t *testing.T, id kernel.AppID, param any) {
	t.Helper()
	require.NoError(t, host.Ctx.Call(id, param, func(status int) {
		host.Returns = append(host.Returns, status)
	}))
}
